package tutor

import (
	"context"
	"fmt"
	"strings"
)

// Canned is a deterministic offline generator. It is the fallback when no
// API key is configured and the backend tests run against.
type Canned struct{}

// NewCanned returns the offline generator.
func NewCanned() *Canned { return &Canned{} }

// Name implements Generator.
func (c *Canned) Name() string { return "canned (offline)" }

// Generate implements Generator. The response echoes the concept line from
// the prompt so the UI flow can be exercised without network access.
func (c *Canned) Generate(_ context.Context, prompt string) (string, error) {
	concept := "this concept"
	for _, line := range strings.Split(prompt, "\n") {
		if after, ok := strings.CutPrefix(line, "Concept: "); ok {
			concept = after
			break
		}
	}

	if strings.Contains(prompt, "quiz") {
		return Truncate(fmt.Sprintf(
			"1. What is %[1]s?\n"+
				"2. How does %[1]s show up in everyday life?\n"+
				"3. Design a small experiment that demonstrates %[1]s.",
			concept)), nil
	}

	return Truncate(fmt.Sprintf(
		"%[1]s is a core idea in this part of the curriculum. "+
			"The offline tutor cannot generate a full explanation; set %s to "+
			"enable the online tutor. Meanwhile, check the brief explanation in "+
			"the sidebar. What everyday situation might involve %[1]s?",
		concept, GeminiKeyEnvVar)), nil
}
