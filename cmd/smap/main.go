package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-imagination/sciencemap/internal/datasource"
	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/config"
	"github.com/r-imagination/sciencemap/pkg/export"
	"github.com/r-imagination/sciencemap/pkg/graph"
	"github.com/r-imagination/sciencemap/pkg/loader"
	"github.com/r-imagination/sciencemap/pkg/model"
	"github.com/r-imagination/sciencemap/pkg/progress"
	"github.com/r-imagination/sciencemap/pkg/tutor"
	"github.com/r-imagination/sciencemap/pkg/ui"
	"github.com/r-imagination/sciencemap/pkg/version"
	"github.com/r-imagination/sciencemap/pkg/watcher"
)

func main() {
	dataFlag := flag.String("data", "", "Directory holding the grade knowledge-base files")
	gradeFlag := flag.String("grade", "", "Grade to open at startup (e.g. 7)")
	exportFlag := flag.Bool("export", false, "Run the snapshot export wizard instead of the TUI")
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("Usage: smap [options]")
		fmt.Println("\nAn interactive science curriculum map.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("smap %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		fmt.Fprintf(os.Stderr, "warning: config: %v\n", cfgErr)
	}

	dataDir := resolveDataDir(*dataFlag, cfg)

	parseOpts := loader.ParseOptions{}
	grades, err := datasource.LoadGrades(context.Background(), dataDir, parseOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading curriculum data: %v\n", err)
		fmt.Fprintf(os.Stderr, "Expected grade files like %s under %s (override with --data or %s).\n",
			loader.GradeFilename("7"), dataDir, loader.DataDirEnvVar)
		os.Exit(1)
	}
	if len(grades) == 0 {
		fmt.Fprintf(os.Stderr, "No grade files found under %s.\n", dataDir)
		os.Exit(1)
	}

	if *exportFlag {
		if err := runExportWizard(dataDir, grades); err != nil {
			if errors.Is(err, export.ErrCancelled) {
				fmt.Println("Cancelled.")
				os.Exit(0)
			}
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	initialGrade := *gradeFlag
	if initialGrade == "" {
		initialGrade = cfg.DefaultGrade
	}
	if initialGrade == "" {
		initialGrade = grades[0].Label
	}

	store, err := progress.Open(filepath.Join(config.StateDir(), progress.DefaultFilename))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: progress store: %v (starting fresh)\n", err)
		store, _ = progress.Open(filepath.Join(os.TempDir(), progress.DefaultFilename))
	}

	gen, err := tutor.New(tutor.Options{Provider: cfg.Tutor.Provider, Model: cfg.Tutor.Model})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: tutor: %v (falling back to offline tutor)\n", err)
		gen = tutor.NewCanned()
	}

	w := newGradeWatcher(dataDir, initialGrade)
	if w != nil {
		if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: live reload disabled: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m := ui.NewModel(ui.Options{
		Grades:       grades,
		InitialGrade: initialGrade,
		DataDir:      dataDir,
		Progress:     store,
		Tutor:        gen,
		Watcher:      w,
		ShowSidebar:  cfg.UI.SidebarVisible(),
		ParseOptions: parseOpts,
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running curriculum map: %v\n", err)
		os.Exit(1)
	}
}

// resolveDataDir picks the data directory: flag, then environment, then the
// config file, then the built-in default.
func resolveDataDir(flagValue string, cfg config.Config) string {
	if flagValue == "" && os.Getenv(loader.DataDirEnvVar) == "" && cfg.DataDir != "" {
		return cfg.DataDir
	}
	dir, err := loader.DataDir(flagValue)
	if err != nil {
		return loader.DefaultDataDir
	}
	return dir
}

// newGradeWatcher builds a watcher for the initial grade's freshest source
// file. Returns nil when no source can be resolved; the TUI then runs
// without live reload.
func newGradeWatcher(dataDir, grade string) *watcher.Watcher {
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{DataDir: dataDir})
	if err != nil {
		return nil
	}
	src, err := datasource.SelectForGrade(sources, grade)
	if err != nil {
		return nil
	}
	w, err := watcher.New(src.Path)
	if err != nil {
		return nil
	}
	return w
}

// runExportWizard walks the user through the snapshot export and writes the
// file.
func runExportWizard(dataDir string, grades []model.Grade) error {
	labels := make([]string, len(grades))
	byLabel := make(map[string]*model.Grade, len(grades))
	for i := range grades {
		labels[i] = grades[i].Label
		byLabel[grades[i].Label] = &grades[i]
	}

	res, err := export.RunWizard(labels)
	if err != nil {
		return err
	}

	g := byLabel[res.Grade]
	built, err := graph.Build(g.Concepts, g.Activities)
	if err != nil {
		return fmt.Errorf("building grade %s graph: %w", res.Grade, err)
	}

	err = export.Snapshot(export.Options{
		Path:   res.Path,
		Format: res.Format,
		Grade:  res.Grade,
		Graph:  built,
		Stats:  analysis.Analyze(g.Concepts),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s\n", res.Path)
	return nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
