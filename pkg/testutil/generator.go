// Package testutil provides deterministic curriculum fixture generators.
// All generators are seeded so two runs produce identical grades.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/r-imagination/sciencemap/pkg/loader"
	"github.com/r-imagination/sciencemap/pkg/model"
)

// The generator draws from the real domain/strand vocabulary so fixtures
// exercise the same palette paths as production data.
var domainStrands = map[string][]string{
	"Physics (The Physical World)":    {"Mechanics", "Energy", "Waves"},
	"Chemistry (The World of Matter)": {"Matter", "Reactions"},
	"Biology (The Living World)":      {"Life Processes", "Ecosystems"},
	"Earth & Space Science":           {"Earth Systems", "Astronomy"},
}

var domainOrder = []string{
	"Physics (The Physical World)",
	"Chemistry (The World of Matter)",
	"Biology (The Living World)",
	"Earth & Space Science",
}

// GeneratorConfig controls grade generation.
type GeneratorConfig struct {
	Seed         int64   // random seed (default 42)
	Grade        string  // grade label (default "7")
	Concepts     int     // number of concepts (default 20)
	LinkDensity  float64 // probability of an interconnection per concept pair considered (default 0.15)
	ActivityRate float64 // fraction of concepts with a linked activity (default 0.3)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:         42,
		Grade:        "7",
		Concepts:     20,
		LinkDensity:  0.15,
		ActivityRate: 0.3,
	}
}

// GenerateGrade builds a deterministic grade from the config.
func GenerateGrade(cfg GeneratorConfig) model.Grade {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Grade == "" {
		cfg.Grade = "7"
	}
	if cfg.Concepts <= 0 {
		cfg.Concepts = 20
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	g := model.Grade{Label: cfg.Grade}
	names := make([]string, cfg.Concepts)
	for i := 0; i < cfg.Concepts; i++ {
		domain := domainOrder[rng.Intn(len(domainOrder))]
		strands := domainStrands[domain]
		strand := strands[rng.Intn(len(strands))]
		name := fmt.Sprintf("Concept %02d", i+1)
		names[i] = name
		g.Concepts = append(g.Concepts, model.Concept{
			Name:             name,
			Domain:           domain,
			Strand:           strand,
			BriefExplanation: fmt.Sprintf("Explanation for %s in %s.", name, strand),
			ConceptType:      pick(rng, "core", "supporting", "extension"),
			CognitiveLevel:   pick(rng, "remember", "understand", "apply"),
		})
	}

	// Interconnections between distinct concepts; duplicates are allowed by
	// the model and collapse during graph construction.
	for i := range g.Concepts {
		for j := range names {
			if i == j {
				continue
			}
			if rng.Float64() < cfg.LinkDensity {
				g.Concepts[i].Interconnections = append(g.Concepts[i].Interconnections, names[j])
			}
		}
	}

	for i, name := range names {
		if rng.Float64() < cfg.ActivityRate {
			g.Activities = append(g.Activities, model.Activity{
				Name:          fmt.Sprintf("Activity %02d", i+1),
				LearningGoal:  fmt.Sprintf("Observe %s in practice.", name),
				ParentConcept: name,
			})
		}
	}

	return g
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

// WriteGradeFile marshals the grade into dir under its canonical filename
// (grade<N>_knowledge_base.json) and returns the path.
func WriteGradeFile(dir string, g model.Grade) (string, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding grade %s: %w", g.Label, err)
	}
	path := filepath.Join(dir, loader.GradeFilename(g.Label))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
