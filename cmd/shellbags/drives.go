package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/internal/reader"
	"github.com/joshuapare/shellbags/pkg/shellbags"
	"github.com/joshuapare/shellbags/pkg/types"
)

func init() {
	rootCmd.AddCommand(newDrivesCmd())
}

func newDrivesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drives <UsrClass.dat>",
		Short: "Show the This PC bag and the drives recorded under it",
		Long: `The drives command locates the This PC bag below BagMRU and lists
the drive entries recorded in it. Drives without a bag of their own are
marked; parse skips them.

Example:
  shellbags drives UsrClass.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runDrives(cfg, args[0])
		},
	}
}

func runDrives(cfg *config.Config, hivePath string) (err error) {
	printVerbose("Opening hive: %s\n", hivePath)

	r, err := reader.Open(hivePath)
	if err != nil {
		return fmt.Errorf("failed to open hive: %w", err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	loc := cfg.Location()
	printInfo("Hive last written: %s\n", formatStamp(r.Info().LastWrite, loc))

	bagMRU, err := r.Find(cfg.KeyPath)
	if err != nil {
		return fmt.Errorf("failed to open BagMRU: %w", err)
	}
	top, err := r.Values(bagMRU)
	if err != nil {
		return fmt.Errorf("failed to read BagMRU values: %w", err)
	}
	pcKey, ok := shellbags.FindThisPC(top)
	if !ok {
		return shellbags.ErrThisPCNotFound
	}
	pcID, err := r.Lookup(bagMRU, pcKey)
	if err != nil {
		return fmt.Errorf(`failed to open BagMRU\%s: %w`, pcKey, err)
	}
	pcMeta, err := r.StatKey(pcID)
	if err != nil {
		return fmt.Errorf(`failed to stat BagMRU\%s: %w`, pcKey, err)
	}
	printInfo("This PC: BagMRU\\%s (last written %s)\n", pcKey, formatStamp(pcMeta.LastWrite, loc))

	pcValues, err := r.Values(pcID)
	if err != nil {
		return fmt.Errorf(`failed to read BagMRU\%s values: %w`, pcKey, err)
	}
	for _, d := range shellbags.FindDrives(pcValues) {
		_, err := r.Lookup(pcID, d.Key)
		switch {
		case err == nil:
			printInfo("  %s: %s\n", d.Key, d.Label)
		case errors.Is(err, types.ErrNotFound):
			printInfo("  %s: %s (no bag)\n", d.Key, d.Label)
		default:
			return fmt.Errorf(`failed to open BagMRU\%s\%s: %w`, pcKey, d.Key, err)
		}
	}
	return nil
}

// formatStamp renders a key or hive last-write time in loc, or "unknown"
// when the stamp is unset.
func formatStamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(loc).Format(shellbags.TimeLayout)
}
