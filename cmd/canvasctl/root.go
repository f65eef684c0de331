// Part of the canvasctl CLI - this file wires the root command, shared
// flags, and the document-loading helper every subcommand uses.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/canvasengine/engine/budget"
	"github.com/canvasengine/engine/observability"
	"github.com/canvasengine/engine/schema"
)

var (
	verbose bool
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "canvasctl",
	Short: "canvasctl",
	Long:  "canvasctl exercises the canvas document engine: parse, validate, migrate, merge, and hit-test.",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show detailed output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.canvasctl.yaml)")
	rootCmd.PersistentFlags().Int("max-nodes", 0, "budget guard: maximum node count (0 = engine default)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "budget guard: maximum tree depth (0 = engine default)")
	rootCmd.PersistentFlags().Int("max-artboards", 0, "budget guard: maximum artboard count (0 = engine default)")
	_ = viper.BindPFlag("budget.maxNodes", rootCmd.PersistentFlags().Lookup("max-nodes"))
	_ = viper.BindPFlag("budget.maxDepth", rootCmd.PersistentFlags().Lookup("max-depth"))
	_ = viper.BindPFlag("budget.maxArtboards", rootCmd.PersistentFlags().Lookup("max-artboards"))

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(hitTestCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".canvasctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("CANVASCTL")
	viper.AutomaticEnv()
	// Config is entirely optional: canvasctl runs fine from flags/env
	// alone, so a missing file is not an error.
	_ = viper.ReadInConfig()
}

// limitsFromConfig builds budget.Limits from whatever viper resolved
// out of flags, env, and config file, falling back to the engine's
// defaults for any threshold left at zero.
func limitsFromConfig() budget.Limits {
	limits := budget.DefaultLimits()
	if n := viper.GetInt("budget.maxNodes"); n > 0 {
		limits.MaxNodes = n
	}
	if n := viper.GetInt("budget.maxDepth"); n > 0 {
		limits.MaxDepth = n
	}
	if n := viper.GetInt("budget.maxArtboards"); n > 0 {
		limits.MaxArtboards = n
	}
	return limits
}

// loadDocument reads and parses a document from path, dispatching to
// YAML or JSON decoding by file extension.
func loadDocument(path string) (schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return schema.ParseYAML(data)
	}
	return schema.Parse(data)
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "canvasctl: "+format+"\n", args...)
	}
}

// stderrObserver reports each engine call's duration and outcome under
// --verbose. It is the only Observer canvasctl constructs; every
// subcommand shares it rather than each standing up its own.
type stderrObserver struct{}

func (stderrObserver) Observe(ev observability.Event) {
	status := "ok"
	if ev.Err != nil {
		status = "error: " + ev.Err.Error()
	}
	logVerbose("%-16s %s  trace=%s  %s", ev.Operation, ev.Duration, ev.TraceID, status)
}

var obs observability.Observer = stderrObserver{}

// spanCall runs fn under an observability.Span, so every engine call a
// subcommand makes reports its duration and outcome the same way.
func spanCall(operation string, fn func() error) error {
	var err error
	defer observability.Span(obs, operation)(&err)
	err = fn()
	return err
}
