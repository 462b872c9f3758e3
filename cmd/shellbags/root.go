package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/pkg/shellbags"
)

var (
	// Global flags
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool

	vp = config.NewViper()

	// outFs receives report files.
	outFs afero.Fs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "shellbags",
	Short: "Reconstruct folder access history from UsrClass.dat shell bags",
	Long: `shellbags reads the BagMRU tree of a Windows UsrClass.dat hive and
reports every folder Explorer remembered under This PC, with the folder's
created, modified and last access times.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML configuration file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text, json")
	pf.String("key-path", shellbags.DefaultKeyPath, "BagMRU key path inside the hive")
	bindFlags(pf.Lookup, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"key_path":   "key-path",
	})
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// bindFlags binds configuration keys to the named flags.
func bindFlags(lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if err := vp.BindPFlag(key, lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// loadConfig merges the config file, environment and flags. --quiet and
// --verbose override the configured log level.
func loadConfig() (*config.Config, error) {
	if err := config.ReadFile(vp, configFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromViper(vp)
	if err != nil {
		return nil, err
	}
	switch {
	case quiet:
		cfg.Logging.Level = "error"
	case verbose:
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	errLabel.Fprint(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, format, args...)
}

var errLabel = color.New(color.FgRed, color.Bold)

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
