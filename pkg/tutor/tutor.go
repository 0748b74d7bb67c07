// Package tutor generates explanations and quizzes for curriculum concepts
// via an external text-generation backend.
//
// Backends implement Generator and are selected by configuration or the
// SCIENCEMAP_TUTOR environment variable. All responses are truncated to a
// fixed budget and every failure is returned as an error for the UI to show;
// the tutor never retries and never takes the session down.
package tutor

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ProviderEnvVar overrides the configured tutor provider.
const ProviderEnvVar = "SCIENCEMAP_TUTOR"

// MaxResponseRunes is the display budget for a generated response.
const MaxResponseRunes = 1500

// Generator produces text for a prompt. Implementations must be safe for
// concurrent use; the TUI issues requests from background commands.
type Generator interface {
	// Generate returns the model's response for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend for status messages.
	Name() string
}

// Options selects and tunes the generator backend.
type Options struct {
	// Provider is "gemini" or "canned". Empty means auto: gemini when an
	// API key is available, canned otherwise.
	Provider string
	// Model overrides the backend's default model.
	Model string
}

// New builds the generator named by opts, the SCIENCEMAP_TUTOR env var
// taking precedence over the configured provider.
func New(opts Options) (Generator, error) {
	provider := opts.Provider
	if env := os.Getenv(ProviderEnvVar); env != "" {
		provider = env
	}

	switch provider {
	case "gemini":
		return NewGemini(opts.Model)
	case "canned":
		return NewCanned(), nil
	case "":
		if os.Getenv(GeminiKeyEnvVar) != "" {
			return NewGemini(opts.Model)
		}
		return NewCanned(), nil
	default:
		return nil, fmt.Errorf("unknown tutor provider %q", provider)
	}
}

// Truncate trims a response to MaxResponseRunes, appending an ellipsis when
// anything was cut. Truncation counts runes, not bytes, so multi-byte text
// is never split mid-character.
func Truncate(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= MaxResponseRunes {
		return string(runes)
	}
	return string(runes[:MaxResponseRunes]) + "…"
}
