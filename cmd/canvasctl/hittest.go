// Part of the canvasctl CLI - this file implements 'canvasctl hit-test'.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/canvasengine/engine/hittest"
)

var hitTestCmd = &cobra.Command{
	Use:   "hit-test <file> <x> <y>",
	Short: "Report which nodes contain point (x, y), topmost first",
	Args:  cobra.ExactArgs(3),
	RunE:  runHitTest,
}

func runHitTest(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid y: %w", err)
	}

	var results []hittest.Result
	err = spanCall("hittest.HitTest", func() error {
		results = hittest.HitTest(&doc, x, y)
		return nil
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no hits")
		return nil
	}
	for i, r := range results {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Printf("%s artboard %d  %-10s %s  %s\n", marker, r.ArtboardIndex, r.Node.Type, r.Node.ID, r.Path.Pointer())
	}
	return nil
}
