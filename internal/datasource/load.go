package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/r-imagination/sciencemap/pkg/loader"
	"github.com/r-imagination/sciencemap/pkg/model"
)

// LoadGrades performs smart multi-source loading of every grade in the data
// directory. Sources are discovered and validated, the best source per grade
// selected (freshest wins, SQLite preferred at comparable freshness), and all
// grades load concurrently. Results come back ordered by grade label.
//
// Any grade failing to load fails the whole call; a broken knowledge base is
// a startup error, not something to paper over.
func LoadGrades(ctx context.Context, dataDir string, opts loader.ParseOptions) ([]model.Grade, error) {
	// Invalid sources stay in the result so a grade whose only source is
	// broken fails the load instead of silently disappearing.
	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:        dataDir,
		Validate:       true,
		IncludeInvalid: true,
	})
	if err != nil {
		return nil, err
	}

	labels := GradeLabels(sources)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no curriculum sources in %s", dataDir)
	}

	grades := make([]model.Grade, len(labels))
	g, ctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		g.Go(func() error {
			src, err := validSourceForGrade(sources, label)
			if err != nil {
				return err
			}
			grade, err := LoadFromSourceWithOptions(src, opts)
			if err != nil {
				return fmt.Errorf("grade %s: %w", label, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			grades[i] = *grade
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grades, nil
}

// validSourceForGrade returns the freshest valid source for a grade. A grade
// whose sources all failed validation is an error carrying the validation
// message of the best candidate.
func validSourceForGrade(sources []Source, grade string) (Source, error) {
	invalidErr := ""
	seen := false
	for _, s := range sources {
		if s.Grade != grade {
			continue
		}
		if s.Valid {
			return s, nil
		}
		seen = true
		if invalidErr == "" {
			invalidErr = s.ValidationError
		}
	}
	if seen {
		return Source{}, fmt.Errorf("grade %s: no valid source: %s", grade, invalidErr)
	}
	return Source{}, fmt.Errorf("no source found for grade %s", grade)
}

// LoadGrade loads a single grade from its best available source.
func LoadGrade(dataDir, label string, opts loader.ParseOptions) (*model.Grade, error) {
	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:  dataDir,
		Validate: true,
	})
	if err != nil {
		return nil, err
	}
	src, err := SelectForGrade(sources, label)
	if err != nil {
		return nil, err
	}
	return LoadFromSourceWithOptions(src, opts)
}

// LoadFromSource loads a grade from a specific source.
func LoadFromSource(source Source) (*model.Grade, error) {
	return LoadFromSourceWithOptions(source, loader.ParseOptions{})
}

// LoadFromSourceWithOptions dispatches to the reader matching the source type.
func LoadFromSourceWithOptions(source Source, opts loader.ParseOptions) (*model.Grade, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadGrade(source.Grade)

	case SourceTypeJSON:
		return loader.LoadGradeFile(source.Path, opts)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
