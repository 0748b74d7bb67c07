package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// GradeDiff captures what changed between two loads of the same grade. The
// reload path uses it for the status-line message.
type GradeDiff struct {
	AddedConcepts   []string
	RemovedConcepts []string
	// ChangedConcepts lists concepts whose explanation, strand or domain
	// differ between the two loads.
	ChangedConcepts []string
	ActivityDelta   int
}

// HasChanges reports whether the two loads differ at all.
func (d GradeDiff) HasChanges() bool {
	return len(d.AddedConcepts) > 0 || len(d.RemovedConcepts) > 0 ||
		len(d.ChangedConcepts) > 0 || d.ActivityDelta != 0
}

// Summary returns a short human-readable description, e.g.
// "+2 concepts, -1 concept, 3 changed, +1 activity".
func (d GradeDiff) Summary() string {
	if !d.HasChanges() {
		return "no changes"
	}

	var parts []string
	if n := len(d.AddedConcepts); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d %s", n, plural(n, "concept")))
	}
	if n := len(d.RemovedConcepts); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d %s", n, plural(n, "concept")))
	}
	if n := len(d.ChangedConcepts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if d.ActivityDelta > 0 {
		parts = append(parts, fmt.Sprintf("+%d %s", d.ActivityDelta, plural(d.ActivityDelta, "activity")))
	} else if d.ActivityDelta < 0 {
		parts = append(parts, fmt.Sprintf("-%d %s", -d.ActivityDelta, plural(-d.ActivityDelta, "activity")))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "y") {
		return word[:len(word)-1] + "ies"
	}
	return word + "s"
}

// DiffGrades compares two loads of a grade by concept name.
func DiffGrades(prev, cur model.Grade) GradeDiff {
	var d GradeDiff

	oldByName := prev.ConceptByName()
	newByName := cur.ConceptByName()

	for name := range newByName {
		if _, ok := oldByName[name]; !ok {
			d.AddedConcepts = append(d.AddedConcepts, name)
		}
	}
	for name, oc := range oldByName {
		nc, ok := newByName[name]
		if !ok {
			d.RemovedConcepts = append(d.RemovedConcepts, name)
			continue
		}
		if oc.BriefExplanation != nc.BriefExplanation ||
			oc.Strand != nc.Strand || oc.Domain != nc.Domain {
			d.ChangedConcepts = append(d.ChangedConcepts, name)
		}
	}

	sort.Strings(d.AddedConcepts)
	sort.Strings(d.RemovedConcepts)
	sort.Strings(d.ChangedConcepts)

	d.ActivityDelta = len(cur.Activities) - len(prev.Activities)
	return d
}
