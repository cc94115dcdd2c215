package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"doctree/internal/adapter"
	"doctree/internal/analyzer"
	"doctree/internal/config"
	"doctree/internal/exporter"
	"doctree/internal/logger"
	"doctree/internal/srctree"
	"doctree/internal/srctreegen"
	"doctree/internal/testdoc"
	"doctree/internal/ui"

	"github.com/spf13/cobra"
)

const logFileName = "doctree.log"

func newGenerateCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Scan the test sources and write the documentation tree",
		Long: `Generate scans project.root_dir for Java sources, parses each file once and
runs the collection passes (roots, subs, overrides, code bodies). The tree is
written to <output.dir>/<output.file_name>.<ext> for each output format.

Examples:
  # Use doctree.yaml in the current directory
  doctree generate

  # Override the source root and write JSON
  doctree generate --root src/test/java --format json --output build/doctree

  # Write the tree and a spreadsheet dump of it
  doctree generate --format yaml,xlsx
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer logger.Close()

			_, err = runGenerate(ctx, cfg, newPipeline(cmd.OutOrStdout(), flags.quiet))
			return err
		},
	}
}

// setup loads the configuration, starts logging into the output directory
// and validates the result
func setup(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(flags.configPath, flags.overrides(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logPath := filepath.Join(cfg.Output.Dir, logFileName)
	if err := logger.Init(cmd.OutOrStdout(), logPath, flags.verbose); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Close()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		logger.Close()
		return nil, err
	}
	if logger.IsVerbose() {
		cfg.Print()
	}
	return cfg, nil
}

func newPipeline(out io.Writer, quiet bool) *ui.Pipeline {
	p := ui.NewPipelineWithOutput(ui.GeneratePhases, out)
	if quiet {
		p.Disable()
	}
	return p
}

// generateResult summarizes one completed run
type generateResult struct {
	OutputPaths []string
	Stats       srctree.Stats
	Warnings    []srctreegen.Warning
	Elapsed     time.Duration
}

// runGenerate executes one full scan, parse, generate and write cycle.
// Nothing is written when generation fails.
func runGenerate(ctx context.Context, cfg *config.Config, pipeline *ui.Pipeline) (*generateResult, error) {
	start := time.Now()
	defer pipeline.Finish()

	fw, err := adapter.Lookup(cfg.Analysis.Framework)
	if err != nil {
		return nil, err
	}
	overrides, err := loadOverrides(fw, cfg.Analysis.OverrideFiles)
	if err != nil {
		return nil, err
	}
	exporters, err := exporter.GetExporters(cfg.Formats())
	if err != nil {
		return nil, err
	}

	// --- Phase 1 & 2: Scanning and Parsing ---
	logger.Debug("Phase 1: Scanning %s", cfg.Project.RootDir)
	scanBar := pipeline.NextPhase(1)
	var parseBar *ui.ProgressBar
	project, err := analyzer.Analyze(ctx, cfg.AnalyzerConfig(), analyzer.Hooks{
		OnScanned: func(files int) {
			scanBar.Describe(fmt.Sprintf("%d sources", files))
			scanBar.Increment()
			parseBar = pipeline.NextPhase(max(files, 1))
		},
		OnParsed: func(string) { parseBar.Increment() },
	})
	if err != nil {
		return nil, err
	}
	defer project.Close()
	logger.Info("Parsed %d source files", len(project.Files))

	// --- Phase 3: Collecting ---
	collectBar := pipeline.NextPhase(1)
	res, err := srctreegen.Generate(ctx, project, srctreegen.Options{
		Classifier: fw.Classifier,
		Overrides:  overrides,
		Inline:     testdoc.NewAnnotationSource(cfg.Analysis.AnnotationPackages...),
		OnProgress: collectBar.Track,
	})
	if err != nil {
		var unsupported *srctreegen.UnsupportedConstructError
		if errors.As(err, &unsupported) {
			logger.Error("Generation aborted at %s:%d (%s)", unsupported.File, unsupported.Line, unsupported.Construct)
		}
		return nil, err
	}

	// --- Phase 4: Writing ---
	writeBar := pipeline.NextPhase(len(exporters))
	var outPaths []string
	for _, exp := range exporters {
		outPath := cfg.GetOutputPath(exp.Extension())
		if err := writeTree(exp, res.Tree, outPath); err != nil {
			return nil, err
		}
		outPaths = append(outPaths, outPath)
		writeBar.Increment()
	}
	pipeline.Finish()

	for _, w := range res.Warnings {
		logger.Warn("%s", w)
	}

	result := &generateResult{
		OutputPaths: outPaths,
		Stats:       res.Tree.Stats(),
		Warnings:    res.Warnings,
		Elapsed:     time.Since(start),
	}
	s := result.Stats
	pipeline.PrintSummary(fmt.Sprintf("✅ %d root classes, %d root functions, %d sub classes, %d sub functions, %d code lines (%d warnings, %s)",
		s.RootClasses, s.RootFuncs, s.SubClasses, s.SubFuncs, s.CodeLines, len(res.Warnings), result.Elapsed.Round(time.Millisecond)))
	for _, p := range outPaths {
		logger.Info("Wrote %s", p)
	}
	logger.Debug("Log: %s (%d warnings logged so far)", logger.GetLogFilePath(), logger.Count(logger.LevelWarn))
	return result, nil
}

// loadOverrides merges the framework's built-in docs with the configured
// override files. Later files win.
func loadOverrides(fw *adapter.Adapter, paths []string) (*testdoc.OverrideTable, error) {
	table, err := fw.Overrides()
	if err != nil {
		return nil, err
	}
	files, err := testdoc.LoadFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load override files: %w", err)
	}
	table.Merge(files)
	logger.Debug("[OVERRIDE] %d entries (%s built-ins + %d files)", table.Len(), fw.Name, len(paths))
	return table, nil
}

// writeTree replaces path only after a complete export
func writeTree(exp exporter.Exporter, tree *srctree.SourceTree, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".doctree-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := exp.Export(tree, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%s export failed: %w", exp.Format(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
