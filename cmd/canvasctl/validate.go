// Part of the canvasctl CLI - this file implements 'canvasctl validate'.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canvasengine/engine/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a document against the current schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	err := spanCall("schema.Validate", func() error {
		_, err := loadDocument(args[0])
		return err
	})
	if err != nil {
		if ve, ok := err.(*schema.ValidationError); ok {
			for _, v := range ve.Violations {
				fmt.Printf("%s\n", v)
			}
			return fmt.Errorf("%d violation(s) found", len(ve.Violations))
		}
		return err
	}
	fmt.Println("valid")
	return nil
}
