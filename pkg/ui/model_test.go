package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-imagination/sciencemap/pkg/model"
	"github.com/r-imagination/sciencemap/pkg/progress"
	"github.com/r-imagination/sciencemap/pkg/tutor"
)

func fixtureGrade8() model.Grade {
	return model.Grade{
		Label: "8",
		Concepts: []model.Concept{
			{Name: "Cells", Domain: "Biology (The Living World)", Strand: "Life Processes",
				BriefExplanation: "x"},
		},
	}
}

func testModel(t *testing.T) Model {
	t.Helper()
	store, err := progress.Open(filepath.Join(t.TempDir(), "learned.json"))
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(Options{
		Grades:      []model.Grade{fixtureGrade(), fixtureGrade8()},
		Progress:    store,
		Tutor:       tutor.NewCanned(),
		ShowSidebar: true,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func TestModelInitialState(t *testing.T) {
	m := testModel(t)
	if m.activeLabel() != "7" {
		t.Errorf("active grade = %q", m.activeLabel())
	}
	if name, ok := m.list.selected(); !ok || name != "Force" {
		t.Errorf("initial selection = %q, %v", name, ok)
	}
	if m.stats == nil || m.graph == nil {
		t.Fatal("graph and stats should be built at startup")
	}
}

func TestModelGradeSwitch(t *testing.T) {
	m := testModel(t)

	m = press(t, m, "tab")
	if m.activeLabel() != "8" {
		t.Errorf("after tab: grade %q", m.activeLabel())
	}
	if name, _ := m.list.selected(); name != "Cells" {
		t.Errorf("selection after switch = %q", name)
	}

	m = press(t, m, "tab")
	if m.activeLabel() != "7" {
		t.Errorf("tab should wrap around, got grade %q", m.activeLabel())
	}

	m = press(t, m, "2")
	if m.activeLabel() != "8" {
		t.Errorf("number key switch: grade %q", m.activeLabel())
	}

	// Out-of-range digits are ignored.
	m = press(t, m, "9")
	if m.activeLabel() != "8" {
		t.Errorf("out-of-range digit changed grade to %q", m.activeLabel())
	}
}

func TestModelToggleLearned(t *testing.T) {
	m := testModel(t)

	m = press(t, m, "l")
	if !m.store.IsLearned("7", "Physics (The Physical World)", "Force") {
		t.Error("l should mark the selected concept learned")
	}
	if !strings.Contains(m.statusMsg, "Force") {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = press(t, m, "l")
	if m.store.IsLearned("7", "Physics (The Physical World)", "Force") {
		t.Error("second l should unmark")
	}

	// Persisted: a fresh store sees the same state.
	m = press(t, m, "l")
	reopened, err := progress.Open(m.store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.IsLearned("7", "Physics (The Physical World)", "Force") {
		t.Error("toggle was not persisted")
	}
}

func TestModelTutorFlow(t *testing.T) {
	m := testModel(t)

	updated, cmd := m.Update(keyMsg("e"))
	m = updated.(Model)
	if !m.modal.open || !m.modal.pending {
		t.Fatal("e should open the modal in pending state")
	}
	if cmd == nil {
		t.Fatal("e should fire an async command")
	}

	updated, _ = m.Update(tutorResultMsg{kind: "explain", concept: "Force", text: "Force is a push or pull."})
	m = updated.(Model)
	if m.modal.pending {
		t.Error("result should clear the pending state")
	}
	if m.modal.content == "" {
		t.Error("modal has no content")
	}
	if !strings.Contains(m.modal.vp.View(), "push") {
		t.Error("viewport should show the response text")
	}

	m = press(t, m, "esc")
	if m.modal.open {
		t.Error("esc should close the modal")
	}
}

func TestModelTutorResultForStaleRequestIgnored(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "e") // explain Force

	// A response for a different concept must not land in the modal.
	updated, _ := m.Update(tutorResultMsg{kind: "explain", concept: "Motion", text: "stale"})
	m = updated.(Model)
	if !m.modal.pending {
		t.Error("stale result should leave the modal pending")
	}
}

func TestModelQuizKeyDoesNotQuit(t *testing.T) {
	m := testModel(t)
	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(Model)
	if !m.modal.open {
		t.Error("q should open the quiz modal, not quit")
	}
	if cmd == nil {
		t.Error("q should fire the tutor command")
	}
}

func TestModelReloadPreservesSelection(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "j") // select Motion

	g := fixtureGrade()
	g.Concepts = append(g.Concepts, model.Concept{
		Name: "Energy", Domain: "Physics (The Physical World)", Strand: "Mechanics",
		BriefExplanation: "x",
	})
	updated, _ := m.Update(reloadedMsg{grade: g})
	m = updated.(Model)

	if name, _ := m.list.selected(); name != "Motion" {
		t.Errorf("selection after reload = %q, want Motion", name)
	}
	if !strings.Contains(m.statusMsg, "+1 concept") {
		t.Errorf("status after reload = %q", m.statusMsg)
	}
	if m.list.conceptCount() != 4 {
		t.Errorf("conceptCount after reload = %d", m.list.conceptCount())
	}
}

func TestModelReloadError(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(reloadedMsg{err: errFake})
	m = updated.(Model)
	if !m.statusIsError || !strings.Contains(m.statusMsg, "reload failed") {
		t.Errorf("status = %q (isError=%v)", m.statusMsg, m.statusIsError)
	}
	// The old grade stays on screen.
	if name, _ := m.list.selected(); name != "Force" {
		t.Errorf("selection after failed reload = %q", name)
	}
}

func TestModelAutoClose(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(autoCloseMsg{})
	if cmd == nil {
		t.Fatal("autoCloseMsg should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("autoCloseMsg should quit the program")
	}
}

func TestModelViewSmoke(t *testing.T) {
	m := testModel(t)
	out := m.View()
	if !strings.Contains(out, "Force") {
		t.Error("view should show the selected concept")
	}
	if !strings.Contains(out, "Grade 7") {
		t.Error("view should show the grade tabs")
	}

	// Modal view replaces the body.
	m = press(t, m, "e")
	out = m.View()
	if !strings.Contains(out, "Explain: Force") {
		t.Error("modal title missing from view")
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "boom" }
