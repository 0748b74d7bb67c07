// Package loader reads grade knowledge-base files. Each grade lives in one
// JSON document named grade<N>_knowledge_base.json holding the flat concept
// and activity records; parsing validates every record and fails fast with
// the offending index so bad data never reaches graph construction.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// DataDirEnvVar overrides the data directory when the --data flag is unset.
const DataDirEnvVar = "SCIENCEMAP_DATA"

// DefaultDataDir is used when neither the flag nor the env var is set.
const DefaultDataDir = "data"

var gradeFileRe = regexp.MustCompile(`^grade(\d+)_knowledge_base\.json$`)

// DataDir resolves the curriculum data directory: explicit flag value first,
// then SCIENCEMAP_DATA, then ./data relative to the working directory.
func DataDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envDir := os.Getenv(DataDirEnvVar); envDir != "" {
		return envDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return filepath.Join(cwd, DefaultDataDir), nil
}

// GradeFilename returns the canonical file name for a grade label.
func GradeFilename(label string) string {
	return fmt.Sprintf("grade%s_knowledge_base.json", label)
}

// GradeFromFilename extracts the grade label from a knowledge-base file name.
// The second return is false for files that do not follow the naming scheme.
func GradeFromFilename(name string) (string, bool) {
	m := gradeFileRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindGradeFiles scans dir for grade knowledge-base files and returns
// label -> path, labels sorted numerically by SortGradeLabels when callers
// need an order.
func FindGradeFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	files := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		label, ok := GradeFromFilename(e.Name())
		if !ok {
			continue
		}
		files[label] = filepath.Join(dir, e.Name())
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no grade knowledge-base files found in %s", dir)
	}
	return files, nil
}

// SortGradeLabels orders grade labels numerically ("7" before "10").
func SortGradeLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		a, errA := strconv.Atoi(labels[i])
		b, errB := strconv.Atoi(labels[j])
		if errA != nil || errB != nil {
			return labels[i] < labels[j]
		}
		return a < b
	})
}

// ParseOptions configures grade parsing.
type ParseOptions struct {
	// WarningHandler receives non-fatal warnings (e.g. a missing grade
	// field). If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)
}

func (o ParseOptions) warn(msg string) {
	if o.WarningHandler != nil {
		o.WarningHandler(msg)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// LoadGradeFile reads and validates one grade knowledge-base file. When the
// document omits the grade field the label is taken from the file name.
func LoadGradeFile(path string, opts ParseOptions) (*model.Grade, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no knowledge base found at %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer f.Close()

	fallback, _ := GradeFromFilename(path)
	g, err := ParseGrade(f, fallback, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ParseGrade decodes one grade document from r. fallbackLabel is used when
// the document has no grade field; a warning is emitted in that case.
func ParseGrade(r io.Reader, fallbackLabel string, opts ParseOptions) (*model.Grade, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading knowledge base: %w", err)
	}
	data = stripBOM(data)

	var g model.Grade
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("malformed knowledge base JSON: %w", err)
	}

	if g.Label == "" {
		if fallbackLabel == "" {
			return nil, fmt.Errorf("knowledge base has no grade field and none can be inferred")
		}
		opts.warn(fmt.Sprintf("knowledge base has no grade field; using %q from the file name", fallbackLabel))
		g.Label = fallbackLabel
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
