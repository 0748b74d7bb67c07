package tutor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/r-imagination/sciencemap/pkg/model"
)

var forceConcept = model.Concept{
	Name:              "Force",
	Domain:            "Physics",
	Strand:            "Mechanics",
	BriefExplanation:  "A push or pull acting on an object.",
	ConceptType:       "core",
	CognitiveLevel:    "understand",
	ChapterReferences: []string{"Chapter 2"},
	Interconnections:  []string{"Motion", "Friction"},
}

func TestExplainPrompt(t *testing.T) {
	acts := []model.Activity{{Name: "Tug of war", LearningGoal: "Feel opposing forces"}}
	p := ExplainPrompt("7", forceConcept, acts)

	for _, want := range []string{
		"Concept: Force",
		"Grade: 7",
		"Curriculum explanation: A push or pull",
		"Chapter references: Chapter 2",
		"Related concepts: Motion, Friction",
		"Linked activity: Tug of war (goal: Feel opposing forces)",
		"100-150 words",
		"real-life example",
		"curiosity",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("explain prompt missing %q", want)
		}
	}
}

func TestQuizPrompt(t *testing.T) {
	p := QuizPrompt("8", forceConcept, nil)

	for _, want := range []string{
		"exactly 3 questions",
		"easy recall",
		"application",
		"Do not include the answers",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("quiz prompt missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short answer"); got != "short answer" {
		t.Errorf("short input should pass through, got %q", got)
	}

	// Multi-byte runes must not be split.
	long := strings.Repeat("ü", MaxResponseRunes+100)
	got := Truncate(long)
	runes := []rune(got)
	if len(runes) != MaxResponseRunes+1 {
		t.Errorf("truncated to %d runes, want %d plus ellipsis", len(runes), MaxResponseRunes)
	}
	if runes[len(runes)-1] != '…' {
		t.Error("truncated response should end in an ellipsis")
	}
	if !strings.HasPrefix(got, "ü") {
		t.Error("truncation corrupted multi-byte text")
	}
}

func TestCannedGenerate(t *testing.T) {
	g := NewCanned()

	explain, err := g.Generate(context.Background(), ExplainPrompt("7", forceConcept, nil))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(explain, "Force") {
		t.Errorf("canned explanation should name the concept: %q", explain)
	}

	quiz, err := g.Generate(context.Background(), QuizPrompt("7", forceConcept, nil))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(quiz, "1.") || !strings.Contains(quiz, "3.") {
		t.Errorf("canned quiz should have numbered questions: %q", quiz)
	}
}

func newTestGemini(url string) *Gemini {
	return &Gemini{
		apiKey:  "test-key",
		model:   DefaultGeminiModel,
		baseURL: url,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Forces push and pull.  "}]}}]}`))
	}))
	defer srv.Close()

	g := newTestGemini(srv.URL)
	got, err := g.Generate(context.Background(), "explain force")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Forces push and pull." {
		t.Errorf("Generate = %q", got)
	}
	if gotPath != "/models/"+DefaultGeminiModel+":generateContent" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
}

func TestGeminiGenerateTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxResponseRunes+500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` + long + `"}]}}]}`))
	}))
	defer srv.Close()

	got, err := newTestGemini(srv.URL).Generate(context.Background(), "explain")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len([]rune(got)) != MaxResponseRunes+1 {
		t.Errorf("response not truncated: %d runes", len([]rune(got)))
	}
}

func TestGeminiGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv.URL).Generate(context.Background(), "explain")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	if _, err := newTestGemini(srv.URL).Generate(context.Background(), "explain"); err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}

func TestNewProviderSelection(t *testing.T) {
	t.Setenv(GeminiKeyEnvVar, "")
	t.Setenv(ProviderEnvVar, "")

	g, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := g.(*Canned); !ok {
		t.Errorf("no key, no provider: want canned, got %T", g)
	}

	t.Setenv(GeminiKeyEnvVar, "k")
	g, err = New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := g.(*Gemini); !ok {
		t.Errorf("key present: want gemini, got %T", g)
	}

	// Env var beats the configured provider.
	t.Setenv(ProviderEnvVar, "canned")
	g, err = New(Options{Provider: "gemini"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := g.(*Canned); !ok {
		t.Errorf("env override: want canned, got %T", g)
	}

	t.Setenv(ProviderEnvVar, "carrier-pigeon")
	if _, err := New(Options{}); err == nil {
		t.Error("unknown provider should error")
	}

	t.Setenv(ProviderEnvVar, "gemini")
	t.Setenv(GeminiKeyEnvVar, "")
	if _, err := New(Options{}); err == nil {
		t.Error("gemini without a key should error")
	}
}
