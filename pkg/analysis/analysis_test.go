package analysis_test

import (
	"testing"

	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/model"
)

// A small star-plus-chain network:
//
//	Force is linked to Motion, Energy and Friction (hub);
//	Friction bridges to Heat;
//	Cells sits alone in a second component.
func testConcepts() []model.Concept {
	return []model.Concept{
		{Name: "Force", Domain: "Physics", Strand: "Mechanics",
			Interconnections: []string{"Motion", "Energy", "Friction"}},
		{Name: "Motion", Domain: "Physics", Strand: "Mechanics"},
		{Name: "Energy", Domain: "Physics", Strand: "Mechanics"},
		{Name: "Friction", Domain: "Physics", Strand: "Mechanics",
			Interconnections: []string{"Heat"}},
		{Name: "Heat", Domain: "Physics", Strand: "Thermal"},
		{Name: "Cells", Domain: "Biology", Strand: "Life"},
	}
}

func TestAnalyzeDegree(t *testing.T) {
	s := analysis.Analyze(testConcepts())

	if s.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", s.NodeCount)
	}
	if s.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", s.EdgeCount)
	}
	wantDegree := map[string]int{
		"Force": 3, "Motion": 1, "Energy": 1, "Friction": 2, "Heat": 1, "Cells": 0,
	}
	for name, want := range wantDegree {
		if got := s.Degree(name); got != want {
			t.Errorf("Degree(%s) = %d, want %d", name, got, want)
		}
	}
}

func TestAnalyzeRanks(t *testing.T) {
	s := analysis.Analyze(testConcepts())

	if got := s.DegreeRank("Force"); got != 1 {
		t.Errorf("DegreeRank(Force) = %d, want 1", got)
	}
	if got := s.PageRankRank("Force"); got != 1 {
		t.Errorf("PageRankRank(Force) = %d, want 1", got)
	}
	if got := s.TopHub(); got != "Force" {
		t.Errorf("TopHub = %q, want Force", got)
	}

	// Motion and Energy are structurally identical leaves; the name
	// tiebreak must order Energy before Motion.
	if er, mr := s.DegreeRank("Energy"), s.DegreeRank("Motion"); er >= mr {
		t.Errorf("tie broken wrong: Energy rank %d, Motion rank %d", er, mr)
	}
}

func TestAnalyzeBridges(t *testing.T) {
	s := analysis.Analyze(testConcepts())

	// Force and Friction lie on shortest paths between the leaves; the
	// leaves and the isolated node have zero betweenness.
	bridges := s.TopBridges(5)
	if len(bridges) != 2 {
		t.Fatalf("TopBridges = %v, want exactly Force and Friction", bridges)
	}
	if bridges[0] != "Force" || bridges[1] != "Friction" {
		t.Errorf("TopBridges order = %v, want [Force Friction]", bridges)
	}

	if s.Betweenness("Cells") != 0 {
		t.Errorf("isolated concept should have zero betweenness")
	}
}

func TestAnalyzeComponents(t *testing.T) {
	s := analysis.Analyze(testConcepts())

	if got := s.ComponentCount(); got != 2 {
		t.Errorf("ComponentCount = %d, want 2", got)
	}
	forceC, ok := s.Component("Force")
	if !ok {
		t.Fatal("Force missing from components")
	}
	heatC, _ := s.Component("Heat")
	if forceC != heatC {
		t.Errorf("Force and Heat should share a component")
	}
	cellsC, _ := s.Component("Cells")
	if cellsC == forceC {
		t.Errorf("Cells should be in its own component")
	}
}

func TestAnalyzeDropsDanglingAndDuplicateLinks(t *testing.T) {
	concepts := []model.Concept{
		{Name: "A", Domain: "Physics", Strand: "S",
			Interconnections: []string{"B", "B", "Offgrade", "A"}},
		{Name: "B", Domain: "Physics", Strand: "S",
			Interconnections: []string{"A"}},
	}

	s := analysis.Analyze(concepts)
	if s.EdgeCount != 1 {
		t.Errorf("EdgeCount = %d, want 1 (dedup, dangling and self links dropped)", s.EdgeCount)
	}
	if s.Degree("A") != 1 || s.Degree("B") != 1 {
		t.Errorf("degrees = %d/%d, want 1/1", s.Degree("A"), s.Degree("B"))
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	s := analysis.Analyze(nil)
	if s.NodeCount != 0 || s.EdgeCount != 0 {
		t.Errorf("empty input should produce empty stats")
	}
	if s.TopHub() != "" {
		t.Errorf("TopHub on empty stats should be empty")
	}
	if got := s.TopBridges(3); len(got) != 0 {
		t.Errorf("TopBridges on empty stats = %v", got)
	}
}
