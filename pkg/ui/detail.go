package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/graph"
	"github.com/r-imagination/sciencemap/pkg/model"
)

// renderEgoView draws the selected concept's neighborhood: its domain and
// strand boxes on top, the concept itself in the middle (double border when
// an activity is linked), and its in-grade interconnections below.
func renderEgoView(t Theme, g *graph.Graph, concept string, width int) string {
	node := g.Node(graph.ConceptID(concept))
	if node == nil {
		return t.MutedText.Render("no concept selected")
	}

	domainStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg(graph.DomainColor(node.Domain))).
		Padding(0, 1)
	strandStyle := t.Renderer.NewStyle().
		Border(lipgloss.HiddenBorder()).
		Foreground(t.Secondary).
		Padding(0, 1)

	border := lipgloss.NormalBorder()
	if node.HasActivity {
		border = lipgloss.DoubleBorder()
	}
	conceptStyle := t.Renderer.NewStyle().
		Border(border).
		BorderForeground(ThemeFg(node.Color)).
		Padding(0, 1).
		Bold(true)

	var linked []string
	for _, e := range g.Edges {
		if e.Kind != graph.EdgeConceptLink {
			continue
		}
		if e.Source == node.ID {
			if name, ok := graph.ConceptName(e.Target); ok {
				linked = append(linked, name)
			}
		} else if e.Target == node.ID {
			if name, ok := graph.ConceptName(e.Source); ok {
				linked = append(linked, name)
			}
		}
	}

	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Center,
			domainStyle.Render(truncate(node.Domain, width/2-4)),
			strandStyle.Render(truncate(node.Strand, width/2-4)),
		),
		conceptStyle.Render(truncate(node.Label, width-6)),
	}
	if len(linked) > 0 {
		parts = append(parts,
			t.MutedText.Render("interconnections:"),
			"  "+truncate(strings.Join(linked, " · "), width-4))
	} else {
		parts = append(parts, t.MutedText.Render("no interconnections in this grade"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderMetrics draws the analysis panel for the selected concept: degree,
// PageRank and betweenness as mini-bars scaled against the grade maximum,
// each with its rank.
func renderMetrics(t Theme, stats *analysis.Stats, names []string, concept string) string {
	if stats == nil || concept == "" {
		return ""
	}

	var maxDeg, maxPR, maxBet float64
	for _, n := range names {
		if d := float64(stats.Degree(n)); d > maxDeg {
			maxDeg = d
		}
		if p := stats.PageRank(n); p > maxPR {
			maxPR = p
		}
		if b := stats.Betweenness(n); b > maxBet {
			maxBet = b
		}
	}

	barWidth := 10
	row := func(label string, value, max float64, display string, rank int) string {
		return fmt.Sprintf("%s %s %s %s",
			padRight(label, 12),
			miniBar(value, max, barWidth),
			padRight(display, 8),
			t.MutedText.Render(fmt.Sprintf("#%d", rank)))
	}

	lines := []string{
		t.PrimaryBold.Render("network metrics"),
		row("degree", float64(stats.Degree(concept)), maxDeg,
			fmt.Sprintf("%d", stats.Degree(concept)), stats.DegreeRank(concept)),
		row("pagerank", stats.PageRank(concept), maxPR,
			fmt.Sprintf("%.3f", stats.PageRank(concept)), stats.PageRankRank(concept)),
		row("betweenness", stats.Betweenness(concept), maxBet,
			fmt.Sprintf("%.1f", stats.Betweenness(concept)), stats.BetweennessRank(concept)),
	}
	if comp, ok := stats.Component(concept); ok {
		lines = append(lines, t.MutedText.Render(
			fmt.Sprintf("component %d of %d", comp+1, stats.ComponentCount())))
	}

	return strings.Join(lines, "\n")
}

// conceptMarkdown builds the markdown document for the detail sidebar; the
// clipboard yank reuses the same text.
func conceptMarkdown(gradeLabel string, c *model.Concept, activities []model.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	fmt.Fprintf(&b, "**Grade:** %s · **Domain:** %s · **Strand:** %s\n\n", gradeLabel, c.Domain, c.Strand)
	if c.BriefExplanation != "" {
		fmt.Fprintf(&b, "%s\n\n", c.BriefExplanation)
	}
	if c.ConceptType != "" || c.CognitiveLevel != "" {
		fmt.Fprintf(&b, "- Type: %s\n- Cognitive level: %s\n", orDash(c.ConceptType), orDash(c.CognitiveLevel))
	}
	if len(c.ChapterReferences) > 0 {
		fmt.Fprintf(&b, "- Chapters: %s\n", strings.Join(c.ChapterReferences, ", "))
	}
	if len(c.Interconnections) > 0 {
		fmt.Fprintf(&b, "- Related: %s\n", strings.Join(c.Interconnections, ", "))
	}
	if len(activities) > 0 {
		b.WriteString("\n## Activities\n\n")
		for _, a := range activities {
			if a.LearningGoal != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", a.Name, a.LearningGoal)
			} else {
				fmt.Fprintf(&b, "- **%s**\n", a.Name)
			}
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
