// Part of the canvasctl CLI - this file implements 'canvasctl migrate'.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canvasengine/engine/migrate"
	"github.com/canvasengine/engine/schema"
)

var migrateOutPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate <file>",
	Short: "Migrate a document to the current schema version",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateOutPath, "out", "o", "", "write the migrated document here instead of stdout")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	compat, err := migrate.CheckCompatibility(data)
	if err != nil {
		return err
	}
	logVerbose("detected version %s, current=%t, needsMigration=%t, path=%v", compat.Version, compat.IsCurrent, compat.NeedsMigration, compat.Path)

	var doc schema.Document
	err = spanCall("migrate.Migrate", func() error {
		var migrateErr error
		doc, migrateErr = migrate.Migrate(data)
		return migrateErr
	})
	if err != nil {
		return err
	}

	out, err := schema.Serialize(doc)
	if err != nil {
		return err
	}

	if migrateOutPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(migrateOutPath, out, 0o644)
}
