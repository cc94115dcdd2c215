package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"doctree/internal/javaparser"
	"doctree/internal/logger"
)

// Config holds the source discovery settings for one analysis run
type Config struct {
	// RootDir is scanned recursively for .java files
	RootDir string

	// ExcludePatterns are glob patterns (relative to RootDir) for directories
	// and files to skip
	ExcludePatterns []string

	// Encodings are tried in order when decoding a source file
	// (e.g., "utf-8", "euc-kr", "ms949")
	Encodings []string

	// ClassPath lists directories, jars and zips whose types count as known
	// when resolving imports
	ClassPath []string

	// UseEnvClassPath appends the entries of $CLASSPATH to ClassPath
	UseEnvClassPath bool

	// Workers bounds the number of files parsed concurrently (0 = unbounded)
	Workers int
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig(rootDir string) *Config {
	return &Config{
		RootDir: rootDir,
		ExcludePatterns: []string{
			"**/target/**",
			"**/build/**",
			"**/.git/**",
		},
		Encodings: []string{"utf-8"},
		Workers:   4,
	}
}

// Hooks receive progress notifications from Analyze. Both are optional.
type Hooks struct {
	// OnScanned is called once with the number of discovered sources
	OnScanned func(files int)
	// OnParsed is called after each source is parsed, from worker goroutines
	OnParsed func(path string)
}

// Analyze scans the root directory, parses every source exactly once and
// indexes the classpath. The caller owns the returned project and must Close it.
func Analyze(ctx context.Context, cfg *Config, hooks Hooks) (*javaparser.Project, error) {
	files, err := ScanDirectory(cfg.RootDir, cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	logger.Debug("[SCAN] %d sources under %s", len(files), cfg.RootDir)
	if hooks.OnScanned != nil {
		hooks.OnScanned(len(files))
	}

	decoder, err := NewDecoder(cfg.Encodings)
	if err != nil {
		return nil, err
	}

	parsed, err := javaparser.ParseFiles(ctx, files, decoder.ReadFile, cfg.Workers, hooks.OnParsed)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	entries := append([]string(nil), cfg.ClassPath...)
	if cfg.UseEnvClassPath {
		entries = append(entries, SplitClassPathEnv()...)
	}
	index, err := NewClassIndex(ExpandClassPath(entries))
	if err != nil {
		javaparser.NewProject(parsed, nil).Close()
		return nil, err
	}
	logger.Debug("[CLASSPATH] %d known types from %d entries", index.Len(), len(entries))

	return javaparser.NewProject(parsed, index), nil
}

// SplitClassPathEnv returns the non-empty entries of $CLASSPATH
func SplitClassPathEnv() []string {
	var entries []string
	for _, e := range filepath.SplitList(os.Getenv("CLASSPATH")) {
		if e != "" && e != "." {
			entries = append(entries, e)
		}
	}
	return entries
}
