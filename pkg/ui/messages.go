package ui

import (
	"context"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-imagination/sciencemap/internal/datasource"
	"github.com/r-imagination/sciencemap/pkg/loader"
	"github.com/r-imagination/sciencemap/pkg/model"
	"github.com/r-imagination/sciencemap/pkg/tutor"
	"github.com/r-imagination/sciencemap/pkg/watcher"
)

// AutoCloseEnvVar makes the TUI quit itself after the given number of
// milliseconds. Integration tests use it to drive the program without a
// keyboard.
const AutoCloseEnvVar = "SMAP_TUI_AUTOCLOSE_MS"

// fileChangedMsg arrives when the watcher reports a change to the active
// grade's source file.
type fileChangedMsg struct{}

// reloadedMsg carries a freshly loaded grade (or the load error) after a
// file change.
type reloadedMsg struct {
	grade model.Grade
	err   error
}

// tutorResultMsg carries an async tutor response.
type tutorResultMsg struct {
	kind    string // "explain" or "quiz"
	concept string
	text    string
	err     error
}

type spinnerTickMsg struct{}

type autoCloseMsg struct{}

// watchChangesCmd blocks on the watcher's change channel and re-arms itself
// from Update after every message.
func watchChangesCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return fileChangedMsg{}
	}
}

// reloadGradeCmd reloads the active grade from its freshest source.
func reloadGradeCmd(dataDir, label string, opts loader.ParseOptions) tea.Cmd {
	return func() tea.Msg {
		g, err := datasource.LoadGrade(dataDir, label, opts)
		if err != nil {
			return reloadedMsg{err: err}
		}
		return reloadedMsg{grade: *g}
	}
}

// tutorCmd asks the generator for an explanation or quiz off the update
// loop. The deadline keeps a stuck provider from pinning the spinner
// forever.
func tutorCmd(gen tutor.Generator, kind, concept, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		text, err := gen.Generate(ctx, prompt)
		return tutorResultMsg{kind: kind, concept: concept, text: text, err: err}
	}
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// autoCloseCmd returns a delayed quit command when AutoCloseEnvVar is set
// to a positive millisecond count, nil otherwise.
func autoCloseCmd() tea.Cmd {
	raw := os.Getenv(AutoCloseEnvVar)
	if raw == "" {
		return nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(ms)*time.Millisecond, func(time.Time) tea.Msg {
		return autoCloseMsg{}
	})
}
