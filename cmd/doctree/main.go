package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName = "doctree"
	appDesc = "Builds documentation trees from Java test sources"
)

var (
	// Version information, set via ldflags at build time
	Version   = "dev"
	GitCommit = "none"
)

// Flags shared by generate and watch
type runFlags struct {
	configPath string
	verbose    bool
	quiet      bool
	rootDir    string
	format     string
	outputDir  string
}

// overrides maps the flags that were set onto config keys
func (f *runFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := make(map[string]interface{})
	if cmd.Flags().Changed("root") {
		out["project.root_dir"] = f.rootDir
	}
	if cmd.Flags().Changed("format") {
		out["output.format"] = f.format
	}
	if cmd.Flags().Changed("output") {
		out["output.dir"] = f.outputDir
	}
	return out
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:           appName,
		Short:         appDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "doctree.yaml", "Path to configuration file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Disable progress bars")
	pf.StringVar(&flags.rootDir, "root", "", "Override project.root_dir from config")
	pf.StringVar(&flags.format, "format", "", "Override output.format from config (yaml, json, xlsx)")
	pf.StringVar(&flags.outputDir, "output", "", "Override output.dir from config")

	root.AddCommand(newGenerateCmd(flags), newWatchCmd(flags), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of doctree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n%s\n", appName, Version, GitCommit, appDesc)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
