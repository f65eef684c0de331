// Part of the canvasctl CLI - this file implements 'canvasctl merge'.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canvasengine/engine/merge"
	"github.com/canvasengine/engine/schema"
)

var mergeOutPath string
var mergePreferRemote bool

var mergeCmd = &cobra.Command{
	Use:   "merge <base> <local> <remote>",
	Short: "Three-way merge local and remote against their common base",
	Args:  cobra.ExactArgs(3),
	RunE:  runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutPath, "out", "o", "", "write the merged document here instead of stdout")
	mergeCmd.Flags().BoolVar(&mergePreferRemote, "prefer-remote", false, "resolve conflicts toward remote instead of local")
}

func runMerge(cmd *cobra.Command, args []string) error {
	base, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	local, err := loadDocument(args[1])
	if err != nil {
		return err
	}
	remote, err := loadDocument(args[2])
	if err != nil {
		return err
	}

	resolution := merge.ResolutionPreferLocal
	if mergePreferRemote {
		resolution = merge.ResolutionPreferRemote
	}

	var result merge.Result
	err = spanCall("merge.Merge", func() error {
		var mergeErr error
		result, mergeErr = merge.Merge(base, local, remote, merge.Options{
			ConflictResolution: resolution,
			Limits:             limitsFromConfig(),
		})
		return mergeErr
	})
	if err != nil {
		return err
	}

	for _, c := range result.Conflicts {
		fmt.Fprintf(os.Stderr, "conflict [%s] %s: %s\n", c.Code, c.Path, c.Message)
	}
	logVerbose("%d conflict(s), %d patch operation(s) from base", len(result.Conflicts), len(result.PatchesFromBase))

	out, err := schema.Serialize(result.Merged)
	if err != nil {
		return err
	}
	if mergeOutPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(mergeOutPath, out, 0o644)
}
