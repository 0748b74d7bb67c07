package tutor

import (
	"fmt"
	"strings"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// conceptContext renders the metadata block shared by both prompt kinds so
// the model answers from the curriculum's framing rather than its own.
func conceptContext(grade string, c model.Concept, activities []model.Activity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Concept: %s\n", c.Name)
	fmt.Fprintf(&b, "Grade: %s\n", grade)
	fmt.Fprintf(&b, "Domain: %s\n", c.Domain)
	fmt.Fprintf(&b, "Strand: %s\n", c.Strand)
	if c.BriefExplanation != "" {
		fmt.Fprintf(&b, "Curriculum explanation: %s\n", c.BriefExplanation)
	}
	if c.ConceptType != "" {
		fmt.Fprintf(&b, "Concept type: %s\n", c.ConceptType)
	}
	if c.CognitiveLevel != "" {
		fmt.Fprintf(&b, "Cognitive level: %s\n", c.CognitiveLevel)
	}
	if len(c.ChapterReferences) > 0 {
		fmt.Fprintf(&b, "Chapter references: %s\n", strings.Join(c.ChapterReferences, ", "))
	}
	if len(c.Interconnections) > 0 {
		fmt.Fprintf(&b, "Related concepts: %s\n", strings.Join(c.Interconnections, ", "))
	}
	for _, a := range activities {
		if a.LearningGoal != "" {
			fmt.Fprintf(&b, "Linked activity: %s (goal: %s)\n", a.Name, a.LearningGoal)
		} else {
			fmt.Fprintf(&b, "Linked activity: %s\n", a.Name)
		}
	}

	return b.String()
}

// ExplainPrompt asks for a student-friendly explanation of the concept.
func ExplainPrompt(grade string, c model.Concept, activities []model.Activity) string {
	var b strings.Builder
	b.WriteString("You are a friendly science tutor for school students.\n\n")
	b.WriteString(conceptContext(grade, c, activities))
	fmt.Fprintf(&b,
		"\nExplain the concept %q to a grade %s student in 100-150 words. "+
			"Use simple language, include one real-life example, and end with "+
			"a question that sparks curiosity about the topic.",
		c.Name, grade)
	return b.String()
}

// QuizPrompt asks for a three-question quiz on the concept.
func QuizPrompt(grade string, c model.Concept, activities []model.Activity) string {
	var b strings.Builder
	b.WriteString("You are a friendly science tutor for school students.\n\n")
	b.WriteString(conceptContext(grade, c, activities))
	fmt.Fprintf(&b,
		"\nCreate a short quiz of exactly 3 questions about %q for a grade %s "+
			"student: one easy recall question, one medium understanding question, "+
			"and one application question. Number them 1-3. Do not include the answers.",
		c.Name, grade)
	return b.String()
}
