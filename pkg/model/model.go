// Package model defines the curriculum records the rest of the application
// consumes: concepts, their linked learning activities, and the per-grade
// datasets that group them.
package model

import (
	"fmt"
	"strings"
)

// Concept is a single curriculum topic, the finest-grained unit of the
// knowledge graph. Concepts are keyed by Name; the name is assumed unique
// within one grade's dataset (a data-quality invariant of the source files,
// not something we validate).
type Concept struct {
	Name              string   `json:"concept_name"`
	Domain            string   `json:"domain"`
	Strand            string   `json:"strand"`
	BriefExplanation  string   `json:"brief_explanation,omitempty"`
	ConceptType       string   `json:"concept_type,omitempty"`
	CognitiveLevel    string   `json:"cognitive_level,omitempty"`
	ChapterReferences []string `json:"chapter_references,omitempty"`

	// Interconnections names related concepts. Entries may reference concepts
	// that are not part of the current grade; such references are dropped when
	// building edges, never treated as errors.
	Interconnections []string `json:"interconnections,omitempty"`
}

// Validate checks the fields every concept must carry.
func (c *Concept) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("concept has no concept_name")
	}
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("concept %q has no domain", c.Name)
	}
	if strings.TrimSpace(c.Strand) == "" {
		return fmt.Errorf("concept %q has no strand", c.Name)
	}
	return nil
}

// Activity is a hands-on learning activity, optionally attached to one concept.
type Activity struct {
	Name         string `json:"activity_name"`
	LearningGoal string `json:"learning_goal,omitempty"`

	// ParentConcept names the concept this activity belongs to.
	// Empty means the activity is unassociated.
	ParentConcept string `json:"parent_concept,omitempty"`
}

// Validate checks the fields every activity must carry.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity has no activity_name")
	}
	return nil
}

// Grade bundles one grade's curriculum records.
type Grade struct {
	Label      string     `json:"grade"`
	Concepts   []Concept  `json:"concepts"`
	Activities []Activity `json:"activities"`
}

// ConceptByName returns a lookup map over the grade's concepts.
// Later records win on duplicate names, matching graph construction.
func (g *Grade) ConceptByName() map[string]*Concept {
	m := make(map[string]*Concept, len(g.Concepts))
	for i := range g.Concepts {
		m[g.Concepts[i].Name] = &g.Concepts[i]
	}
	return m
}

// ActivitiesFor returns the activities whose parent is the named concept,
// in file order.
func (g *Grade) ActivitiesFor(concept string) []Activity {
	var out []Activity
	for _, a := range g.Activities {
		if a.ParentConcept == concept {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks every record in the grade, reporting the index of the first
// offender so the data file can be fixed.
func (g *Grade) Validate() error {
	if strings.TrimSpace(g.Label) == "" {
		return fmt.Errorf("grade has no label")
	}
	for i := range g.Concepts {
		if err := g.Concepts[i].Validate(); err != nil {
			return fmt.Errorf("concept record %d: %w", i, err)
		}
	}
	for i := range g.Activities {
		if err := g.Activities[i].Validate(); err != nil {
			return fmt.Errorf("activity record %d: %w", i, err)
		}
	}
	return nil
}
