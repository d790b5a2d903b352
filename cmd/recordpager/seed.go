package main

import (
	"context"
	"errors"
	"fmt"

	"recordpager/config"
	"recordpager/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load collections and records from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				return errors.New("--file is required")
			}
			if err := applyFlagOverrides(cmd, map[string]string{"storage": "STORAGE_DRIVER"}); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := applySeedFile(cmd.Context(), a, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d collections and %d records for owner %s\n", res.Collections, res.Records, res.OwnerID)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Path to the seed YAML file")
	return cmd
}

func applySeedFile(ctx context.Context, a *app, path string) (*seed.Result, error) {
	f, err := seed.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return seed.NewSeeder(a.users, a.authSvc, a.browseSvc, a.logger).Apply(ctx, f)
}
