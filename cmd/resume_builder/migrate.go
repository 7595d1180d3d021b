package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite the stored snapshot at the current schema version",
	Long:  "Loads the saved session from the configured storage, upgrading older snapshot versions, and writes it back at the current version. Snapshots that cannot be read are reported and left untouched.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	manager, err := a.manager(ctx)
	if err != nil {
		return err
	}

	doc, err := manager.Load(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if doc == nil {
		fmt.Fprintf(out, "No usable snapshot under %q\n", manager.Key())
		return nil
	}

	manager.Save(*doc)
	if err := manager.Flush(ctx); err != nil {
		return err
	}
	a.logger.Info("snapshot migrated", "key", manager.Key(), "version", persistence.CurrentVersion)
	fmt.Fprintf(out, "✓ Snapshot %q written at version %d\n", manager.Key(), persistence.CurrentVersion)
	return nil
}
