// Part of the canvasctl CLI - this file implements 'canvasctl parse'.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canvasengine/engine/budget"
	"github.com/canvasengine/engine/traverse"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a document and print a structural summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	var stats traverse.Stats
	var report budget.Report
	err = spanCall("traverse.ComputeStats", func() error {
		stats = traverse.ComputeStats(&doc)
		report = budget.Check(&doc, limitsFromConfig())
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("document %s %q (schema %s)\n", doc.ID, doc.Name, doc.SchemaVersion)
	fmt.Printf("  artboards: %d\n", stats.ArtboardCount)
	fmt.Printf("  nodes:     %d (max depth %d)\n", stats.TotalNodes, stats.MaxDepth)
	for kind, count := range stats.CountByType {
		fmt.Printf("    %-9s %d\n", kind, count)
	}
	for _, w := range report.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}
