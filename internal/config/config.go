package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"doctree/internal/adapter"
	"doctree/internal/analyzer"
	"doctree/internal/exporter"
	"doctree/internal/logger"
	"doctree/internal/testdoc"

	"github.com/spf13/viper"
)

// DefaultConfigFile is read when no config path is given
const DefaultConfigFile = "doctree.yaml"

// Config represents the application configuration
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
}

// ProjectConfig describes where the sources live and how to read them
type ProjectConfig struct {
	RootDir         string   `mapstructure:"root_dir"`          // Scanned recursively for *.java
	Encoding        []string `mapstructure:"encoding"`          // Tried in order (e.g., ["utf-8", "euc-kr"])
	ClassPath       []string `mapstructure:"classpath"`         // Directories, jars and zips
	UseEnvClassPath bool     `mapstructure:"use_env_classpath"` // Also read $CLASSPATH
}

// AnalysisConfig holds tree generation settings
type AnalysisConfig struct {
	Framework          string   `mapstructure:"framework"`           // junit4, junit5 or testng
	ExcludeDirs        []string `mapstructure:"exclude_dirs"`        // Glob patterns relative to root_dir
	OverrideFiles      []string `mapstructure:"override_files"`      // .yaml/.yml/.xlsx, later files win
	ParseWorkers       int      `mapstructure:"parse_workers"`       // Concurrent parses, 0 = unbounded
	AnnotationPackages []string `mapstructure:"annotation_packages"` // Packages of @Page / @TestDoc
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`       // Output directory
	FileName string `mapstructure:"file_name"` // Output file name (without extension)
	Format   string `mapstructure:"format"`    // yaml, json or xlsx; comma separated for several
}

// Load reads the configuration from a file or uses defaults.
// See LoadWithOverrides.
func Load(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides reads the configuration file (DefaultConfigFile when
// configPath is empty), applies DOCTREE_* environment variables and then the
// given key/value overrides (e.g. command line flags keyed "output.format").
// A missing file is not an error: defaults are used.
func LoadWithOverrides(configPath string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOCTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = DefaultConfigFile
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Info("Config file %s not found. Using defaults.", configPath)
	} else {
		logger.Info("Loaded config from: %s", v.ConfigFileUsed())
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("project.root_dir", "./src/test/java")
	v.SetDefault("project.encoding", []string{"utf-8"})
	v.SetDefault("project.classpath", []string{})
	v.SetDefault("project.use_env_classpath", false)

	v.SetDefault("analysis.framework", "junit4")
	v.SetDefault("analysis.exclude_dirs", []string{
		"**/target/**",
		"**/build/**",
		"**/out/**",
		"**/.git/**",
		"**/.svn/**",
	})
	v.SetDefault("analysis.override_files", []string{})
	v.SetDefault("analysis.parse_workers", 4)
	v.SetDefault("analysis.annotation_packages", testdoc.DefaultAnnotationPackages)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "srctree")
	v.SetDefault("output.format", "yaml")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absRoot, err := filepath.Abs(c.Project.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root_dir: %w", err)
	}
	c.Project.RootDir = absRoot

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	for i, p := range c.Analysis.OverrideFiles {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve override file %s: %w", p, err)
		}
		c.Analysis.OverrideFiles[i] = abs
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path of the output file for an extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+"."+ext)
}

// Formats splits output.format on commas ("yaml,xlsx")
func (c *Config) Formats() []string {
	var formats []string
	for _, f := range strings.Split(c.Output.Format, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// AnalyzerConfig returns the source discovery settings
func (c *Config) AnalyzerConfig() *analyzer.Config {
	return &analyzer.Config{
		RootDir:         c.Project.RootDir,
		ExcludePatterns: c.Analysis.ExcludeDirs,
		Encodings:       c.Project.Encoding,
		ClassPath:       c.Project.ClassPath,
		UseEnvClassPath: c.Project.UseEnvClassPath,
		Workers:         c.Analysis.ParseWorkers,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if info, err := os.Stat(c.Project.RootDir); err != nil || !info.IsDir() {
		return fmt.Errorf("root_dir does not exist: %s", c.Project.RootDir)
	}

	if len(c.Project.Encoding) == 0 {
		return fmt.Errorf("project.encoding must contain at least one encoding")
	}
	if _, err := analyzer.NewDecoder(c.Project.Encoding); err != nil {
		return fmt.Errorf("project.encoding: %w", err)
	}

	if _, err := adapter.Lookup(c.Analysis.Framework); err != nil {
		return fmt.Errorf("analysis.framework: %w", err)
	}

	for _, p := range c.Analysis.OverrideFiles {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("override file does not exist: %s", p)
		}
	}

	if c.Analysis.ParseWorkers < 0 {
		return fmt.Errorf("analysis.parse_workers cannot be negative")
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if len(c.Formats()) == 0 {
		return fmt.Errorf("output.format cannot be empty")
	}
	if _, err := exporter.GetExporters(c.Formats()); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Doctree Configuration ===")
	fmt.Printf("Project Root:     %s\n", c.Project.RootDir)
	fmt.Printf("Encodings:        %v\n", c.Project.Encoding)
	fmt.Printf("Classpath:        %v (env: %v)\n", c.Project.ClassPath, c.Project.UseEnvClassPath)
	fmt.Printf("Framework:        %s\n", c.Analysis.Framework)
	fmt.Printf("Exclude Dirs:     %v\n", c.Analysis.ExcludeDirs)
	fmt.Printf("Override Files:   %v\n", c.Analysis.OverrideFiles)
	fmt.Printf("Parse Workers:    %d\n", c.Analysis.ParseWorkers)
	fmt.Printf("Annotations From: %v\n", c.Analysis.AnnotationPackages)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output Format:    %s\n", c.Output.Format)
	fmt.Println("=============================")
}
