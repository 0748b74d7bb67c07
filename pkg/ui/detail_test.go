package ui

import (
	"strings"
	"testing"

	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/graph"
)

func TestRenderEgoView(t *testing.T) {
	g := fixtureGrade()
	built, err := graph.Build(g.Concepts, g.Activities)
	if err != nil {
		t.Fatal(err)
	}

	out := renderEgoView(TestTheme(), built, "Force", 80)
	for _, want := range []string{"Force", "Mechanics", "Motion"} {
		if !strings.Contains(out, want) {
			t.Errorf("ego view missing %q", want)
		}
	}

	out = renderEgoView(TestTheme(), built, "Atoms", 80)
	if !strings.Contains(out, "no interconnections") {
		t.Error("isolated concept should say it has no interconnections")
	}

	out = renderEgoView(TestTheme(), built, "Nope", 80)
	if !strings.Contains(out, "no concept selected") {
		t.Errorf("unknown concept view = %q", out)
	}
}

func TestRenderMetrics(t *testing.T) {
	g := fixtureGrade()
	stats := analysis.Analyze(g.Concepts)

	out := renderMetrics(TestTheme(), stats, conceptNames(g.Concepts), "Force")
	for _, want := range []string{"degree", "pagerank", "betweenness", "#1", "component"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics panel missing %q", want)
		}
	}

	if renderMetrics(TestTheme(), nil, nil, "Force") != "" {
		t.Error("nil stats should render nothing")
	}
}

func TestConceptMarkdown(t *testing.T) {
	g := fixtureGrade()
	c := g.ConceptByName()["Force"]

	md := conceptMarkdown(g.Label, c, g.ActivitiesFor("Force"))
	for _, want := range []string{"# Force", "**Grade:** 7", "Mechanics", "Tug of war"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// No activities section when none are linked.
	md = conceptMarkdown(g.Label, g.ConceptByName()["Atoms"], nil)
	if strings.Contains(md, "## Activities") {
		t.Error("Atoms has no activities, section should be absent")
	}
}
