// Package datasource discovers and selects curriculum data sources. A grade
// can be served by its JSON knowledge-base file or by a shared curriculum.db
// SQLite database; the freshest valid source wins, SQLite preferred when the
// timestamps are comparable.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/r-imagination/sciencemap/pkg/loader"
)

// SourceType identifies the kind of data source.
type SourceType string

const (
	// SourceTypeSQLite is the shared curriculum.db database.
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a per-grade knowledge-base JSON file.
	SourceTypeJSON SourceType = "json"
)

// DatabaseFilename is the name of the SQLite database in the data directory.
const DatabaseFilename = "curriculum.db"

// Priority values for source types (higher wins at equal freshness).
const (
	PrioritySQLite = 100
	PriorityJSON   = 50
)

// Source is one place a grade's records can be loaded from.
type Source struct {
	Type SourceType `json:"type"`
	Path string     `json:"path"`
	// Grade is the grade label this source serves. The SQLite database
	// serves every grade it contains; one Source is emitted per grade.
	Grade           string    `json:"grade"`
	Priority        int       `json:"priority"`
	ModTime         time.Time `json:"mod_time"`
	Size            int64     `json:"size"`
	Valid           bool      `json:"valid"`
	ValidationError string    `json:"validation_error,omitempty"`
	ConceptCount    int       `json:"concept_count"`
}

// String returns a human-readable description of the source.
func (s Source) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (grade %s, %s, priority=%d, mod=%s, concepts=%d, %s)",
		s.Path, s.Grade, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.ConceptCount, status)
}

// DiscoveryOptions configures source discovery.
type DiscoveryOptions struct {
	// DataDir is the curriculum data directory.
	DataDir string
	// Validate runs validation on each discovered source.
	Validate bool
	// IncludeInvalid keeps sources that failed validation in the results.
	IncludeInvalid bool
	// Logger receives discovery log messages; nil disables logging.
	Logger func(msg string)
}

// DiscoverSources finds every grade source in the data directory: the
// per-grade JSON files plus, when curriculum.db exists, one SQLite source per
// grade the database contains. Results are sorted freshest-first, priority
// breaking ties, so the first source per grade is the one to load.
func DiscoverSources(opts DiscoveryOptions) ([]Source, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string) {}
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = loader.DataDir("")
		if err != nil {
			return nil, err
		}
	}
	logf(fmt.Sprintf("Discovering sources in: %s", dataDir))

	var sources []Source

	jsonSources, err := discoverJSONSources(dataDir, logf)
	if err != nil {
		logf(fmt.Sprintf("JSON discovery warning: %v", err))
	}
	sources = append(sources, jsonSources...)

	sqliteSources, err := discoverSQLiteSources(dataDir, logf)
	if err != nil {
		logf(fmt.Sprintf("SQLite discovery warning: %v", err))
	}
	sources = append(sources, sqliteSources...)

	if len(sources) == 0 {
		return nil, fmt.Errorf("no curriculum sources found in %s", dataDir)
	}

	if opts.Validate {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil {
				logf(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	logf(fmt.Sprintf("Discovered %d sources", len(sources)))
	return sources, nil
}

// discoverJSONSources finds grade knowledge-base files in the data directory.
func discoverJSONSources(dataDir string, logf func(string)) ([]Source, error) {
	files, err := loader.FindGradeFiles(dataDir)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		sources = append(sources, Source{
			Type:     SourceTypeJSON,
			Path:     path,
			Grade:    label,
			Priority: PriorityJSON,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		logf(fmt.Sprintf("Found grade %s JSON: %s (mod=%s)", label, path, info.ModTime().Format(time.RFC3339)))
	}
	return sources, nil
}

// discoverSQLiteSources emits one source per grade present in curriculum.db.
func discoverSQLiteSources(dataDir string, logf func(string)) ([]Source, error) {
	dbPath := filepath.Join(dataDir, DatabaseFilename)
	info, err := os.Stat(dbPath)
	if err != nil {
		// No database is the common case, not an error.
		return nil, nil
	}

	reader, err := NewSQLiteReader(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", dbPath, err)
	}
	defer reader.Close()

	grades, err := reader.Grades()
	if err != nil {
		return nil, fmt.Errorf("cannot list grades in %s: %w", dbPath, err)
	}

	var sources []Source
	for _, label := range grades {
		// Cheap count at discovery time so the source log line is useful
		// even when validation is skipped.
		count, err := reader.CountConcepts(label)
		if err != nil {
			count = 0
		}
		sources = append(sources, Source{
			Type:         SourceTypeSQLite,
			Path:         dbPath,
			Grade:        label,
			Priority:     PrioritySQLite,
			ModTime:      info.ModTime(),
			Size:         info.Size(),
			ConceptCount: count,
		})
		logf(fmt.Sprintf("Found grade %s in SQLite: %s (mod=%s, concepts=%d)", label, dbPath, info.ModTime().Format(time.RFC3339), count))
	}
	return sources, nil
}

// ValidateSource loads enough of the source to prove it can serve its grade,
// recording the outcome on the source itself.
func ValidateSource(s *Source) error {
	g, err := LoadFromSource(*s)
	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		return err
	}
	s.Valid = true
	s.ValidationError = ""
	s.ConceptCount = len(g.Concepts)
	return nil
}

// SelectForGrade returns the best source for a grade label from an
// already-sorted discovery result, or an error when no source serves it.
func SelectForGrade(sources []Source, grade string) (Source, error) {
	for _, s := range sources {
		if s.Grade == grade {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("no source found for grade %s", grade)
}

// GradeLabels returns the distinct grade labels served by the sources,
// sorted numerically.
func GradeLabels(sources []Source) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, s := range sources {
		if _, ok := seen[s.Grade]; ok {
			continue
		}
		seen[s.Grade] = struct{}{}
		labels = append(labels, s.Grade)
	}
	loader.SortGradeLabels(labels)
	return labels
}
