package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/internal/logger"
	"github.com/joshuapare/shellbags/internal/output"
	"github.com/joshuapare/shellbags/pkg/shellbags"
)

func init() {
	cmd := newParseCmd()
	f := cmd.Flags()
	f.StringP("output", "o", config.DefaultOutput, `Report file ("-" for stdout)`)
	f.StringP("format", "f", config.FormatCSV, "Report format: csv, json, table")
	f.String("lang", "ja", "Header language: ja, en")
	f.Int("max-depth", shellbags.DefaultMaxDepth, "Maximum bag nesting below a drive")
	f.Int("utc-offset", 9, "Hours east of UTC that timestamps are reported in")
	bindFlags(f.Lookup, map[string]string{
		"output":           "output",
		"format":           "format",
		"lang":             "lang",
		"max_depth":        "max-depth",
		"utc_offset_hours": "utc-offset",
	})
	rootCmd.AddCommand(cmd)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <UsrClass.dat>",
		Short: "Reconstruct folder history below This PC",
		Long: `The parse command walks the BagMRU tree below the This PC bag and
writes one row per bag: its key chain, the reconstructed folder path, its
subkey count and the folder's created, modified and last access times.

Example:
  shellbags parse UsrClass.dat
  shellbags parse UsrClass.dat -o report.csv --lang en
  shellbags parse UsrClass.dat --format table
  shellbags parse UsrClass.dat --format json --utc-offset 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runParse(cfg, args[0])
		},
	}
}

func runParse(cfg *config.Config, hivePath string) (err error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		if cerr := log.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log: %w", cerr)
		}
	}()

	printVerbose("Opening hive: %s\n", hivePath)

	opts := append(cfg.AnalyzeOptions(), shellbags.WithLogger(log.Logger))
	tree, err := shellbags.AnalyzeFile(hivePath, opts...)
	if err != nil {
		return fmt.Errorf("failed to analyze shell bags: %w", err)
	}
	rows := shellbags.Flatten(tree)

	if reportToStdout(cfg) {
		return output.Write(os.Stdout, rows, cfg.Format, cfg.Lang)
	}
	if err := output.WriteFile(outFs, cfg.Output, rows, cfg.Format, cfg.Lang); err != nil {
		return err
	}
	printInfo("Wrote %d rows to %s\n", len(rows), cfg.Output)
	return nil
}

// reportToStdout reports whether rows go to stdout instead of cfg.Output.
// Tables always do; JSON does unless an output file other than the CSV
// default was chosen.
func reportToStdout(cfg *config.Config) bool {
	switch {
	case cfg.Output == "-", cfg.Format == config.FormatTable:
		return true
	case cfg.Format == config.FormatJSON:
		return cfg.Output == "" || cfg.Output == config.DefaultOutput
	default:
		return false
	}
}
