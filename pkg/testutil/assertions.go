package testutil

import (
	"testing"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// AssertConceptCount verifies the expected number of concepts.
func AssertConceptCount(t *testing.T, g model.Grade, expected int) {
	t.Helper()
	if len(g.Concepts) != expected {
		t.Errorf("expected %d concepts, got %d", expected, len(g.Concepts))
	}
}

// AssertNoDuplicateNames verifies all concept names are unique.
func AssertNoDuplicateNames(t *testing.T, g model.Grade) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range g.Concepts {
		if seen[c.Name] {
			t.Errorf("duplicate concept name: %s", c.Name)
		}
		seen[c.Name] = true
	}
}

// AssertAllValid verifies every record in the grade passes validation.
func AssertAllValid(t *testing.T, g model.Grade) {
	t.Helper()
	if err := g.Validate(); err != nil {
		t.Errorf("grade %s invalid: %v", g.Label, err)
	}
}

// AssertInterconnection verifies that a concept links to another.
func AssertInterconnection(t *testing.T, g model.Grade, from, to string) {
	t.Helper()
	for _, c := range g.Concepts {
		if c.Name != from {
			continue
		}
		for _, link := range c.Interconnections {
			if link == to {
				return
			}
		}
		t.Errorf("expected interconnection from %s to %s not found", from, to)
		return
	}
	t.Errorf("concept %s not found", from)
}
