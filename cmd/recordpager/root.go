package main

import (
	"os"

	"github.com/spf13/cobra"
)

var setenv = os.Setenv

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "recordpager <command> [flags]",
		Short:             "Record Pager service",
		Long:              `Serve the paged record browsing API, or seed it from a YAML file.`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
	}
	cmd.PersistentFlags().String("storage", "", "Storage driver: postgres or memory (overrides STORAGE_DRIVER)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

// applyFlagOverrides copies explicitly set flags into the environment before config.Load reads it.
func applyFlagOverrides(cmd *cobra.Command, envByFlag map[string]string) error {
	for flag, env := range envByFlag {
		f := cmd.Flag(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := setenv(env, f.Value.String()); err != nil {
			return err
		}
	}
	return nil
}
