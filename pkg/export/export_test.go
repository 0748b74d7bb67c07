package export

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/graph"
	"github.com/r-imagination/sciencemap/pkg/model"
)

func fixtureGraph(t *testing.T) (*graph.Graph, *analysis.Stats) {
	t.Helper()
	concepts := []model.Concept{
		{Name: "Force", Domain: "Physics (The Physical World)", Strand: "Mechanics",
			BriefExplanation: "x", Interconnections: []string{"Motion", "Friction"}},
		{Name: "Motion", Domain: "Physics (The Physical World)", Strand: "Mechanics",
			BriefExplanation: "x", Interconnections: []string{"Force"}},
		{Name: "Friction", Domain: "Physics (The Physical World)", Strand: "Mechanics",
			BriefExplanation: "x"},
		{Name: "Cells", Domain: "Biology (The Living World)", Strand: "Life Processes",
			BriefExplanation: "x"},
	}
	activities := []model.Activity{
		{Name: "Tug of war", ParentConcept: "Force", LearningGoal: "x"},
	}
	g, err := graph.Build(concepts, activities)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g, analysis.Analyze(concepts)
}

func TestSnapshotSVG(t *testing.T) {
	g, stats := fixtureGraph(t)
	path := filepath.Join(t.TempDir(), "grade7_map.svg")

	if err := Snapshot(Options{Path: path, Grade: "7", Graph: g, Stats: stats}); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"<svg",
		"grade 7",
		"Force",
		"Cells",
		"Mechanics",
		"Physics (The Physical World)",
		graph.DomainColors["Physics (The Physical World)"],
		"top hub: Force",
		"2 interconnections",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot missing %q", want)
		}
	}
}

func TestSnapshotPNG(t *testing.T) {
	g, stats := fixtureGraph(t)
	path := filepath.Join(t.TempDir(), "map.png")

	if err := Snapshot(Options{Path: path, Grade: "7", Graph: g, Stats: stats}); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != canvasWidth {
		t.Errorf("PNG width = %d, want %d", img.Bounds().Dx(), canvasWidth)
	}
}

func TestSnapshotWithoutStats(t *testing.T) {
	g, _ := fixtureGraph(t)
	path := filepath.Join(t.TempDir(), "map.svg")

	if err := Snapshot(Options{Path: path, Grade: "8", Graph: g}); err != nil {
		t.Fatalf("Snapshot without stats: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "top hub") {
		t.Error("summary should omit the top hub without stats")
	}
}

func TestSnapshotEmptyGraph(t *testing.T) {
	err := Snapshot(Options{Path: filepath.Join(t.TempDir(), "x.svg"), Graph: &graph.Graph{}})
	if err == nil {
		t.Fatal("empty graph should not export")
	}
}

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		path, format string
		want         string
		wantErr      bool
	}{
		{"map.svg", "", FormatSVG, false},
		{"map.png", "", FormatPNG, false},
		{"map.PNG", "", FormatPNG, false},
		{"map", "", FormatSVG, false},
		{"map.txt", "", FormatSVG, false},
		{"map.svg", "png", FormatPNG, false},
		{"map.svg", "jpeg", "", true},
	}
	for _, tc := range cases {
		got, err := resolveFormat(tc.path, tc.format)
		if tc.wantErr {
			if err == nil {
				t.Errorf("resolveFormat(%q, %q): expected error", tc.path, tc.format)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveFormat(%q, %q): %v", tc.path, tc.format, err)
			continue
		}
		if got != tc.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tc.path, tc.format, got, tc.want)
		}
	}
}

func TestBuildLayoutConceptOrder(t *testing.T) {
	g, stats := fixtureGraph(t)
	l := buildLayout(Options{Grade: "7", Graph: g, Stats: stats})

	// Force is the top hub, so it leads the concept column.
	var conceptOrder []string
	for _, p := range l.nodes {
		if p.node.Tier == graph.TierConcept {
			conceptOrder = append(conceptOrder, p.node.Label)
		}
	}
	if len(conceptOrder) != 4 || conceptOrder[0] != "Force" {
		t.Errorf("concept column order = %v, want Force first", conceptOrder)
	}
}

func TestDefaultSnapshotPath(t *testing.T) {
	if got := DefaultSnapshotPath("7", FormatPNG); got != "grade7_map.png" {
		t.Errorf("DefaultSnapshotPath = %q", got)
	}
	if got := DefaultSnapshotPath("8", ""); got != "grade8_map.svg" {
		t.Errorf("DefaultSnapshotPath with empty format = %q", got)
	}
}

func TestTruncateLabel(t *testing.T) {
	long := strings.Repeat("a", maxLabelRunes+10)
	got := truncateLabel(long)
	if r := []rune(got); len(r) != maxLabelRunes {
		t.Errorf("truncated label is %d runes, want %d", len(r), maxLabelRunes)
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("truncated label should end in an ellipsis")
	}
}
