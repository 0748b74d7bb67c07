package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tutorModal is the overlay showing an in-flight or completed tutor
// response. While pending it animates a spinner; once the response lands it
// becomes a scrollable viewport.
type tutorModal struct {
	open       bool
	pending    bool
	kind       string // "explain" or "quiz"
	concept    string
	content    string
	err        error
	vp         viewport.Model
	spinnerIdx int
}

func (m *tutorModal) openPending(kind, concept string) {
	*m = tutorModal{open: true, pending: true, kind: kind, concept: concept}
}

// setResult swaps the spinner for a scrollable view of the response.
func (m *tutorModal) setResult(text string, err error, width, height int) {
	m.pending = false
	m.err = err
	m.content = text
	m.vp = viewport.New(width, height)
	m.vp.SetContent(text)
	m.vp.GotoTop()
}

func (m *tutorModal) close() { *m = tutorModal{} }

func (m *tutorModal) title() string {
	if m.kind == "quiz" {
		return "Quiz: " + m.concept
	}
	return "Explain: " + m.concept
}

// view renders the modal box; the caller centers it over the main view.
func (m *tutorModal) view(t Theme, width, height int) string {
	if !m.open {
		return ""
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	var body string
	switch {
	case m.pending:
		frame := spinnerFrames[m.spinnerIdx%len(spinnerFrames)]
		body = fmt.Sprintf("%s asking the tutor…", t.PrimaryBold.Render(frame))
	case m.err != nil:
		body = t.ErrorText.Render("tutor error: " + m.err.Error())
	default:
		body = m.vp.View()
	}

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(inner)

	header := t.Header.Render(m.title())
	footer := t.MutedText.Render("j/k scroll · esc close")
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer))
}
