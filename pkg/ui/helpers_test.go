package ui

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	got := truncate("a long concept name", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated string should end in ellipsis: %q", got)
	}
	if truncate("anything", 0) != "" {
		t.Error("zero width should yield empty string")
	}
}

func TestTruncateWideRunes(t *testing.T) {
	// CJK runes are two cells wide; width accounting must not split them.
	got := truncate("光合作用の仕組み", 8)
	if got == "" {
		t.Fatal("unexpected empty result")
	}
	if len([]rune(got)) >= len([]rune("光合作用の仕組み")) {
		t.Errorf("wide string not truncated: %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not cut: %q", got)
	}
}

func TestMiniBar(t *testing.T) {
	if got := miniBar(0, 10, 5); got != "░░░░░" {
		t.Errorf("zero value bar = %q", got)
	}
	if got := miniBar(10, 10, 5); got != "█████" {
		t.Errorf("full bar = %q", got)
	}
	// Tiny but nonzero values still show one block.
	if got := miniBar(0.01, 100, 5); !strings.HasPrefix(got, "█") {
		t.Errorf("nonzero value should show at least one block: %q", got)
	}
	if miniBar(5, 10, 0) != "" {
		t.Error("zero width bar should be empty")
	}
}
