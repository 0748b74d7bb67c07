package ui

import (
	"strings"

	"github.com/r-imagination/sciencemap/pkg/graph"
	"github.com/r-imagination/sciencemap/pkg/model"
)

type rowKind int

const (
	rowDomain rowKind = iota
	rowStrand
	rowConcept
)

// listRow is one rendered line of the concept list: a domain header, a
// strand header, or a selectable concept.
type listRow struct {
	kind        rowKind
	label       string
	nodeID      string // concept rows carry the tier-prefixed node ID
	domain      string
	strand      string
	hasActivity bool
}

// conceptList is the left pane: every concept of the active grade grouped
// under its domain and strand headers, with a movable selection bar.
// Headers are skipped during navigation; the cursor always sits on a
// concept row (or -1 for an empty grade).
type conceptList struct {
	rows   []listRow
	cursor int
	offset int
	height int
}

// newConceptList groups the grade's concepts under domain and strand
// headers, preserving record order throughout (same ordering the graph
// builder uses).
func newConceptList(grade model.Grade, activities []model.Activity) conceptList {
	withActivity := make(map[string]struct{}, len(activities))
	for i := range activities {
		if p := activities[i].ParentConcept; p != "" {
			withActivity[p] = struct{}{}
		}
	}

	// Record order, grouped: domains in first-seen order, strands in
	// first-seen order within their domain, concepts in record order
	// within their strand.
	var domainOrder []string
	strandsOf := map[string][]string{}
	conceptsOf := map[[2]string][]*model.Concept{}
	seenDomain := map[string]struct{}{}
	seenStrand := map[[2]string]struct{}{}

	for i := range grade.Concepts {
		c := &grade.Concepts[i]
		if _, ok := seenDomain[c.Domain]; !ok {
			seenDomain[c.Domain] = struct{}{}
			domainOrder = append(domainOrder, c.Domain)
		}
		sk := [2]string{c.Domain, c.Strand}
		if _, ok := seenStrand[sk]; !ok {
			seenStrand[sk] = struct{}{}
			strandsOf[c.Domain] = append(strandsOf[c.Domain], c.Strand)
		}
		conceptsOf[sk] = append(conceptsOf[sk], c)
	}

	l := conceptList{cursor: -1}
	for _, d := range domainOrder {
		l.rows = append(l.rows, listRow{kind: rowDomain, label: d, domain: d})
		for _, s := range strandsOf[d] {
			l.rows = append(l.rows, listRow{kind: rowStrand, label: s, domain: d, strand: s})
			for _, c := range conceptsOf[[2]string{d, s}] {
				_, act := withActivity[c.Name]
				l.rows = append(l.rows, listRow{
					kind:        rowConcept,
					label:       c.Name,
					nodeID:      graph.ConceptID(c.Name),
					domain:      c.Domain,
					strand:      c.Strand,
					hasActivity: act,
				})
				if l.cursor < 0 {
					l.cursor = len(l.rows) - 1
				}
			}
		}
	}
	return l
}

// selectedID returns the node ID under the cursor, or "".
func (l *conceptList) selectedID() string {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return ""
	}
	return l.rows[l.cursor].nodeID
}

// selected normalizes the cursor position into an optional concept name.
// Header rows (and an empty list) yield no selection.
func (l *conceptList) selected() (string, bool) {
	return graph.ConceptName(l.selectedID())
}

// selectedRow returns the row under the cursor, or nil.
func (l *conceptList) selectedRow() *listRow {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return nil
	}
	return &l.rows[l.cursor]
}

// move shifts the cursor by delta concept rows, skipping headers.
func (l *conceptList) move(delta int) {
	if l.cursor < 0 {
		return
	}
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for ; delta > 0; delta-- {
		next := l.cursor
		for {
			next += step
			if next < 0 || next >= len(l.rows) {
				return
			}
			if l.rows[next].kind == rowConcept {
				l.cursor = next
				break
			}
		}
	}
}

// selectConcept moves the cursor to the named concept. Returns false when
// the concept is not in the list; the cursor then falls back to the first
// concept so a reload never leaves the bar on a vanished row.
func (l *conceptList) selectConcept(name string) bool {
	id := graph.ConceptID(name)
	for i := range l.rows {
		if l.rows[i].nodeID == id {
			l.cursor = i
			return true
		}
	}
	for i := range l.rows {
		if l.rows[i].kind == rowConcept {
			l.cursor = i
			break
		}
	}
	return false
}

// conceptCount returns the number of selectable rows.
func (l *conceptList) conceptCount() int {
	n := 0
	for i := range l.rows {
		if l.rows[i].kind == rowConcept {
			n++
		}
	}
	return n
}

// ensureVisible scrolls the window so the cursor row is on screen.
func (l *conceptList) ensureVisible() {
	if l.height <= 0 || l.cursor < 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
}

// view renders the visible window of the list.
func (l *conceptList) view(width int, t Theme, learned func(domain, concept string) bool) string {
	l.ensureVisible()

	var b strings.Builder
	end := l.offset + l.height
	if end > len(l.rows) {
		end = len(l.rows)
	}
	for i := l.offset; i < end; i++ {
		r := l.rows[i]
		var line string
		switch r.kind {
		case rowDomain:
			line = t.DomainStyle(r.domain).Render(truncate(r.label, width-1))
		case rowStrand:
			line = "  " + t.StrandHead.Render(truncate(r.label, width-3))
		case rowConcept:
			isLearned := learned != nil && learned(r.domain, r.label)
			suffix := ""
			if r.hasActivity {
				suffix = " ●"
			}
			// Style is applied around pre-truncated plain text; truncating
			// styled text would count the escape codes as width.
			text := truncate(r.label+suffix, width-8)
			switch {
			case i == l.cursor && isLearned:
				line = t.Selected.Render("  ✓ " + text)
			case i == l.cursor:
				line = t.Selected.Render("    " + text)
			case isLearned:
				line = "    " + t.LearnedMark.Render("✓") + " " + text
			default:
				line = "      " + text
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
