package model_test

import (
	"strings"
	"testing"

	"github.com/r-imagination/sciencemap/pkg/model"
)

func TestConceptValidate(t *testing.T) {
	tests := []struct {
		name    string
		concept model.Concept
		wantErr string
	}{
		{
			name:    "valid",
			concept: model.Concept{Name: "Force", Domain: "Physics", Strand: "Mechanics"},
		},
		{
			name:    "missing name",
			concept: model.Concept{Domain: "Physics", Strand: "Mechanics"},
			wantErr: "concept_name",
		},
		{
			name:    "missing domain",
			concept: model.Concept{Name: "Force", Strand: "Mechanics"},
			wantErr: "domain",
		},
		{
			name:    "missing strand",
			concept: model.Concept{Name: "Force", Domain: "Physics"},
			wantErr: "strand",
		},
		{
			name:    "whitespace only name",
			concept: model.Concept{Name: "   ", Domain: "Physics", Strand: "Mechanics"},
			wantErr: "concept_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.concept.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestGradeValidateReportsRecordIndex(t *testing.T) {
	g := model.Grade{
		Label: "7",
		Concepts: []model.Concept{
			{Name: "Force", Domain: "Physics", Strand: "Mechanics"},
			{Name: "", Domain: "Physics", Strand: "Mechanics"},
		},
	}

	err := g.Validate()
	if err == nil {
		t.Fatal("expected error for invalid concept record")
	}
	if !strings.Contains(err.Error(), "concept record 1") {
		t.Errorf("error should identify record index 1, got: %v", err)
	}
}

func TestGradeActivitiesFor(t *testing.T) {
	g := model.Grade{
		Label: "8",
		Concepts: []model.Concept{
			{Name: "Light", Domain: "Physics", Strand: "Optics"},
		},
		Activities: []model.Activity{
			{Name: "Pinhole camera", LearningGoal: "Image formation", ParentConcept: "Light"},
			{Name: "Unrelated", ParentConcept: "Sound"},
			{Name: "Mirror play", ParentConcept: "Light"},
			{Name: "Orphan"},
		},
	}

	acts := g.ActivitiesFor("Light")
	if len(acts) != 2 {
		t.Fatalf("expected 2 activities for Light, got %d", len(acts))
	}
	if acts[0].Name != "Pinhole camera" || acts[1].Name != "Mirror play" {
		t.Errorf("activities out of file order: %v", acts)
	}

	if got := g.ActivitiesFor("Sound"); len(got) != 1 {
		t.Errorf("expected 1 activity for Sound, got %d", len(got))
	}
	if got := g.ActivitiesFor("Heat"); got != nil {
		t.Errorf("expected nil for concept with no activities, got %v", got)
	}
}

func TestConceptByNameLastWriteWins(t *testing.T) {
	g := model.Grade{
		Label: "7",
		Concepts: []model.Concept{
			{Name: "Force", Domain: "Physics", Strand: "Mechanics", ConceptType: "first"},
			{Name: "Force", Domain: "Physics", Strand: "Dynamics", ConceptType: "second"},
		},
	}

	m := g.ConceptByName()
	if len(m) != 1 {
		t.Fatalf("expected collapsed map of 1 entry, got %d", len(m))
	}
	if m["Force"].ConceptType != "second" {
		t.Errorf("expected last record to win, got %q", m["Force"].ConceptType)
	}
}
