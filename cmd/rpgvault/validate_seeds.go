// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgvault/rpgvault/internal/seed"
)

// NewValidateSeedsCmd creates the validate-seeds subcommand.
func NewValidateSeedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seeds [file...]",
		Short: "Validate seed files without touching the database",
		Long: `Validates seed YAML files against the seed schema. With no
arguments, validates the bundled example roster.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch seed file errors early:
  rpgvault validate-seeds deploy/seeds/*.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateSeeds(cmd, args)
		},
	}
}

func runValidateSeeds(cmd *cobra.Command, paths []string) error {
	if len(paths) == 0 {
		file, err := seed.Default()
		if err != nil {
			return err
		}
		cmd.Printf("bundled roster valid: %d user(s)\n", len(file.Users))
		return nil
	}

	var failures []string
	for _, path := range paths {
		file, err := seed.Load(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("  %s: %v", path, err))
			continue
		}
		cmd.Printf("%s: valid, %d user(s)\n", path, len(file.Users))
	}

	if len(failures) > 0 {
		for _, f := range failures {
			cmd.PrintErrln(f)
		}
		return fmt.Errorf("validation failed: %d of %d seed files invalid", len(failures), len(paths))
	}
	return nil
}
