package export

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user backs out of the export wizard.
var ErrCancelled = errors.New("export cancelled")

// WizardResult holds the choices made in the export wizard.
type WizardResult struct {
	Grade  string
	Format string
	Path   string
}

// newForm applies the shared theme and switches huh into accessible mode
// when stdin is not a terminal, so the wizard stays usable in scripts and
// CI logs.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard walks the user through an export: grade, format, output path.
// gradeLabels must be the labels of the loaded grades, in display order.
func RunWizard(gradeLabels []string) (*WizardResult, error) {
	if len(gradeLabels) == 0 {
		return nil, fmt.Errorf("no grades loaded, nothing to export")
	}

	fmt.Println("Curriculum snapshot export")
	fmt.Println()

	gradeOpts := make([]huh.Option[string], len(gradeLabels))
	for i, g := range gradeLabels {
		gradeOpts[i] = huh.NewOption("Grade "+g, g)
	}

	res := WizardResult{
		Grade:  gradeLabels[0],
		Format: FormatSVG,
	}
	confirmed := true

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which grade?").
				Options(gradeOpts...).
				Value(&res.Grade),
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("SVG (scalable, small)", FormatSVG),
					huh.NewOption("PNG (raster)", FormatPNG),
				).
				Value(&res.Format),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output path").
				Placeholder("leave empty for ./grade<N>_map.<format>").
				Value(&res.Path),
			huh.NewConfirm().
				Title("Write the snapshot?").
				Affirmative("Export").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("export wizard: %w", err)
	}
	if !confirmed {
		return nil, ErrCancelled
	}

	res.Path = strings.TrimSpace(res.Path)
	if res.Path == "" {
		res.Path = DefaultSnapshotPath(res.Grade, res.Format)
	}

	return &res, nil
}

// DefaultSnapshotPath names a snapshot file for a grade in the current
// directory, e.g. "grade7_map.svg".
func DefaultSnapshotPath(grade, format string) string {
	if format == "" {
		format = FormatSVG
	}
	return fmt.Sprintf("grade%s_map.%s", grade, format)
}
