package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/r-imagination/sciencemap/internal/datasource"
	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/export"
	"github.com/r-imagination/sciencemap/pkg/graph"
	"github.com/r-imagination/sciencemap/pkg/loader"
	"github.com/r-imagination/sciencemap/pkg/model"
	"github.com/r-imagination/sciencemap/pkg/progress"
	"github.com/r-imagination/sciencemap/pkg/tutor"
	"github.com/r-imagination/sciencemap/pkg/watcher"
)

// Options configures NewModel. Grades must be non-empty and ordered for
// display; the watcher and tutor are optional.
type Options struct {
	Grades       []model.Grade
	InitialGrade string
	DataDir      string
	Progress     *progress.Store
	Tutor        tutor.Generator
	Watcher      *watcher.Watcher
	ShowSidebar  bool
	ParseOptions loader.ParseOptions
}

// Model is the bubbletea model for the curriculum map.
type Model struct {
	theme Theme

	grades   []model.Grade
	gradeIdx int

	graph    *graph.Graph
	stats    *analysis.Stats
	graphErr error
	list     conceptList

	dataDir   string
	parseOpts loader.ParseOptions
	store     *progress.Store
	tutorGen  tutor.Generator
	watcher   *watcher.Watcher

	modal       tutorModal
	showSidebar bool

	width, height int
	ready         bool

	statusMsg     string
	statusIsError bool

	md *glamour.TermRenderer
}

// NewModel builds the initial model. The first grade (or InitialGrade when
// it names a loaded grade) becomes active.
func NewModel(opts Options) Model {
	m := Model{
		theme:       DefaultTheme(lipgloss.NewRenderer(os.Stdout)),
		grades:      opts.Grades,
		dataDir:     opts.DataDir,
		parseOpts:   opts.ParseOptions,
		store:       opts.Progress,
		tutorGen:    opts.Tutor,
		watcher:     opts.Watcher,
		showSidebar: opts.ShowSidebar,
		width:       120,
		height:      40,
	}
	for i, g := range opts.Grades {
		if g.Label == opts.InitialGrade {
			m.gradeIdx = i
			break
		}
	}
	m.rebuild("")
	return m
}

func (m *Model) activeGrade() *model.Grade {
	if len(m.grades) == 0 {
		return nil
	}
	return &m.grades[m.gradeIdx]
}

func (m *Model) activeLabel() string {
	if g := m.activeGrade(); g != nil {
		return g.Label
	}
	return ""
}

// rebuild reconstructs the graph, stats and list for the active grade from
// scratch. keepSelection restores the cursor to the named concept when it
// still exists.
func (m *Model) rebuild(keepSelection string) {
	g := m.activeGrade()
	if g == nil {
		m.graph, m.stats, m.list = nil, nil, conceptList{cursor: -1}
		return
	}
	m.graph, m.graphErr = graph.Build(g.Concepts, g.Activities)
	m.stats = nil
	if m.graphErr != nil {
		m.graph = nil
		m.statusMsg = fmt.Sprintf("grade %s: %v", g.Label, m.graphErr)
		m.statusIsError = true
	} else {
		m.stats = analysis.Analyze(g.Concepts)
	}
	m.list = newConceptList(*g, g.Activities)
	m.list.height = m.bodyHeight()
	if keepSelection != "" {
		m.list.selectConcept(keepSelection)
	}
}

func (m *Model) setGrade(idx int) {
	if idx < 0 || idx >= len(m.grades) || idx == m.gradeIdx {
		return
	}
	m.gradeIdx = idx
	m.rebuild("")
	m.statusMsg = fmt.Sprintf("grade %s: %d concepts", m.activeLabel(), m.list.conceptCount())
	m.statusIsError = false
}

func (m *Model) bodyHeight() int {
	h := m.height - 3 // header + status line + padding
	if h < 4 {
		h = 4
	}
	return h
}

func (m *Model) modalWidth() int {
	w := m.width - 4
	if w > 90 {
		w = 90
	}
	if w < 24 {
		w = 24
	}
	return w
}

func (m *Model) sidebarWidth() int {
	w := m.width * 2 / 5
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if c := watchChangesCmd(m.watcher); c != nil {
		cmds = append(cmds, c)
	}
	if c := autoCloseCmd(); c != nil {
		cmds = append(cmds, c)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.list.height = m.bodyHeight()
		m.md = nil // re-wrap the sidebar at the new width

	case autoCloseMsg:
		return m, tea.Quit

	case fileChangedMsg:
		m.statusMsg = "source file changed, reloading…"
		m.statusIsError = false
		cmds = append(cmds,
			reloadGradeCmd(m.dataDir, m.activeLabel(), m.parseOpts),
			watchChangesCmd(m.watcher))

	case reloadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("reload failed: %v", msg.err)
			m.statusIsError = true
			break
		}
		prev := m.activeGrade()
		diff := datasource.DiffGrades(*prev, msg.grade)
		selected, _ := m.list.selected()
		m.grades[m.gradeIdx] = msg.grade
		m.rebuild(selected)
		if diff.HasChanges() {
			m.statusMsg = "reloaded: " + diff.Summary()
		} else {
			m.statusMsg = "reloaded, no changes"
		}
		m.statusIsError = false

	case tutorResultMsg:
		if m.modal.open && m.modal.concept == msg.concept && m.modal.kind == msg.kind {
			text := msg.text
			if msg.err == nil {
				text = m.renderMarkdown(text)
			}
			m.modal.setResult(text, msg.err, m.modalWidth()-8, m.bodyHeight()-8)
		}

	case spinnerTickMsg:
		if m.modal.open && m.modal.pending {
			m.modal.spinnerIdx++
			cmds = append(cmds, spinnerTickCmd())
		}

	case tea.KeyMsg:
		if m.modal.open {
			return m.updateModalKeys(msg)
		}
		return m.updateKeys(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.modal.close()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	// Everything else (j/k, arrows, page keys) scrolls the viewport.
	var cmd tea.Cmd
	m.modal.vp, cmd = m.modal.vp.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "j", "down":
		m.list.move(1)
	case "k", "up":
		m.list.move(-1)

	case "tab":
		m.setGrade((m.gradeIdx + 1) % len(m.grades))
	case "shift+tab":
		m.setGrade((m.gradeIdx + len(m.grades) - 1) % len(m.grades))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.setGrade(int(key[0] - '1'))

	case "l":
		m.toggleLearned()
	case "e":
		return m.requestTutor("explain")
	case "q":
		return m.requestTutor("quiz")
	case "y":
		m.yankConcept()
	case "s":
		m.writeSnapshot()
	case "b":
		m.showSidebar = !m.showSidebar
	}
	return m, nil
}

// toggleLearned flips the selected concept's learned state and persists it.
// A failed save keeps the in-memory toggle and reports in the status line.
func (m *Model) toggleLearned() {
	row := m.list.selectedRow()
	if row == nil || row.kind != rowConcept || m.store == nil {
		return
	}
	// Toggle persists on its own; its error is a save failure with the
	// in-memory toggle still standing.
	learned, err := m.store.Toggle(m.activeLabel(), row.domain, row.label)
	state := "learned"
	if !learned {
		state = "not learned"
	}
	if err != nil {
		m.statusMsg = fmt.Sprintf("%s marked %s (not saved: %v)", row.label, state, err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("%s marked %s", row.label, state)
	m.statusIsError = false
}

// requestTutor opens the modal in pending state and fires the async
// generation command.
func (m Model) requestTutor(kind string) (tea.Model, tea.Cmd) {
	concept, ok := m.list.selected()
	if !ok || m.tutorGen == nil {
		return m, nil
	}
	g := m.activeGrade()
	c := g.ConceptByName()[concept]
	if c == nil {
		return m, nil
	}
	acts := g.ActivitiesFor(concept)

	var prompt string
	if kind == "quiz" {
		prompt = tutor.QuizPrompt(g.Label, *c, acts)
	} else {
		prompt = tutor.ExplainPrompt(g.Label, *c, acts)
	}

	m.modal.openPending(kind, concept)
	return m, tea.Batch(
		tutorCmd(m.tutorGen, kind, concept, prompt),
		spinnerTickCmd(),
	)
}

// yankConcept copies the selected concept's summary to the clipboard.
func (m *Model) yankConcept() {
	concept, ok := m.list.selected()
	if !ok {
		return
	}
	g := m.activeGrade()
	c := g.ConceptByName()[concept]
	if c == nil {
		return
	}
	text := conceptMarkdown(g.Label, c, g.ActivitiesFor(concept))
	if err := clipboard.WriteAll(text); err != nil {
		m.statusMsg = fmt.Sprintf("clipboard: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("copied %s to clipboard", concept)
	m.statusIsError = false
}

// writeSnapshot exports the active grade's map next to the working
// directory.
func (m *Model) writeSnapshot() {
	if m.graph == nil {
		return
	}
	path := export.DefaultSnapshotPath(m.activeLabel(), export.FormatSVG)
	err := export.Snapshot(export.Options{
		Path:  path,
		Grade: m.activeLabel(),
		Graph: m.graph,
		Stats: m.stats,
	})
	if err != nil {
		m.statusMsg = fmt.Sprintf("snapshot: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = "snapshot written to " + path
	m.statusIsError = false
}

// renderMarkdown renders markdown through glamour at the sidebar width,
// falling back to the raw text when rendering fails.
func (m *Model) renderMarkdown(text string) string {
	if m.md == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.sidebarWidth()-4),
		)
		if err != nil {
			return text
		}
		m.md = r
	}
	out, err := m.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	header := m.viewHeader()
	status := m.viewStatus()

	var body string
	if m.modal.open {
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center,
			m.modal.view(m.theme, m.modalWidth(), m.bodyHeight()))
	} else {
		body = m.viewBody()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) viewHeader() string {
	var tabs []string
	for i, g := range m.grades {
		label := "Grade " + g.Label
		if i == m.gradeIdx {
			tabs = append(tabs, m.theme.Header.Render(label))
		} else {
			tabs = append(tabs, m.theme.SecondaryText.Render(" "+label+" "))
		}
	}
	learned := ""
	if m.store != nil {
		learned = m.theme.LearnedMark.Render(
			fmt.Sprintf("  ✓ %d/%d", m.store.CountForGrade(m.activeLabel()), m.list.conceptCount()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.PrimaryBold.Render("smap "), strings.Join(tabs, " "), learned)
}

func (m Model) viewStatus() string {
	msg := m.statusMsg
	if msg == "" {
		msg = "j/k move · tab grade · l learned · e explain · q quiz · y yank · s snapshot · esc quit"
	}
	style := m.theme.MutedText
	if m.statusIsError {
		style = m.theme.ErrorText
	}
	return style.Render(truncate(msg, m.width-1))
}

func (m Model) viewBody() string {
	listWidth := m.width / 3
	if listWidth < 28 {
		listWidth = 28
	}
	rightWidth := m.width - listWidth - 3

	learned := func(domain, concept string) bool {
		if m.store == nil {
			return false
		}
		return m.store.IsLearned(m.activeLabel(), domain, concept)
	}

	left := m.theme.Renderer.NewStyle().
		Width(listWidth).
		Height(m.bodyHeight()).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(m.theme.Border).
		Render(m.list.view(listWidth, m.theme, learned))

	right := m.viewDetail(rightWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) viewDetail(width int) string {
	if m.graphErr != nil {
		return m.theme.ErrorText.Render(fmt.Sprintf("graph build failed: %v", m.graphErr))
	}
	concept, ok := m.list.selected()
	if !ok || m.graph == nil {
		return m.theme.MutedText.Render("no concept selected")
	}

	g := m.activeGrade()
	parts := []string{
		renderEgoView(m.theme, m.graph, concept, width),
		"",
		renderMetrics(m.theme, m.stats, conceptNames(g.Concepts), concept),
	}

	if m.showSidebar {
		if c := g.ConceptByName()[concept]; c != nil {
			md := conceptMarkdown(g.Label, c, g.ActivitiesFor(concept))
			parts = append(parts, "", m.renderMarkdown(md))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func conceptNames(concepts []model.Concept) []string {
	names := make([]string, len(concepts))
	for i := range concepts {
		names[i] = concepts[i].Name
	}
	return names
}
