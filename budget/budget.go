// Package budget enforces the document-size and operation-duration
// thresholds that keep the engine's memory and latency bounded: total
// node count, artboard count, maximum nesting depth, estimated memory,
// and per-operation wall time.
//
// Read paths (traversal, hit testing, validation) only ever see
// non-fatal warnings from Check; they still return their result.
// Write paths that grow a document (create, duplicate, and any merge
// that adds nodes) call Guard, which turns an exceeded threshold into a
// hard error and the caller discards the candidate document rather than
// returning it.
package budget

import (
	"time"

	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/traverse"
	"github.com/canvasengine/engine/schema"
)

// bytesPerNode approximates a node's resident memory footprint for the
// estimated-memory threshold.
const bytesPerNode = 1024

// Limits is a set of thresholds. The zero value stands for
// DefaultLimits; a non-zero Limits is used as given, so fill in every
// field.
type Limits struct {
	MaxNodes        int
	MaxArtboards    int
	MaxDepth        int
	MaxMemoryBytes  int64
	MaxOperationTime time.Duration
}

// DefaultLimits returns the engine's standard thresholds.
func DefaultLimits() Limits {
	return Limits{
		MaxNodes:         10000,
		MaxArtboards:     100,
		MaxDepth:         50,
		MaxMemoryBytes:   100 * 1024 * 1024,
		MaxOperationTime: 30 * time.Second,
	}
}

// resolve substitutes DefaultLimits for a zero-value Limits, so callers
// that don't care about custom thresholds can pass the zero value.
func resolve(l Limits) Limits {
	if l == (Limits{}) {
		return DefaultLimits()
	}
	return l
}

// Report summarizes a document's shape against a set of limits.
type Report struct {
	NodeCount            int
	ArtboardCount        int
	MaxDepth             int
	EstimatedMemoryBytes int64
	Warnings             []string
}

// Check computes doc's shape and returns a Report carrying any exceeded
// threshold as a warning string. It never errors; callers on read
// paths surface the warnings without rejecting the read.
func Check(doc *schema.Document, limits Limits) Report {
	limits = resolve(limits)
	stats := traverse.ComputeStats(doc)

	r := Report{
		NodeCount:            stats.TotalNodes,
		ArtboardCount:        len(doc.Artboards),
		MaxDepth:             stats.MaxDepth,
		EstimatedMemoryBytes: int64(stats.TotalNodes) * bytesPerNode,
	}

	if r.NodeCount > limits.MaxNodes {
		r.Warnings = append(r.Warnings, errs.Newf(errs.BudgetExceeded, "budget.Check", "node count %d exceeds limit %d", r.NodeCount, limits.MaxNodes).Error())
	}
	if r.ArtboardCount > limits.MaxArtboards {
		r.Warnings = append(r.Warnings, errs.Newf(errs.BudgetExceeded, "budget.Check", "artboard count %d exceeds limit %d", r.ArtboardCount, limits.MaxArtboards).Error())
	}
	if r.MaxDepth > limits.MaxDepth {
		r.Warnings = append(r.Warnings, errs.Newf(errs.BudgetExceeded, "budget.Check", "nesting depth %d exceeds limit %d", r.MaxDepth, limits.MaxDepth).Error())
	}
	if r.EstimatedMemoryBytes > limits.MaxMemoryBytes {
		r.Warnings = append(r.Warnings, errs.Newf(errs.BudgetExceeded, "budget.Check", "estimated memory %d bytes exceeds limit %d", r.EstimatedMemoryBytes, limits.MaxMemoryBytes).Error())
	}
	return r
}

// Guard is Check's hard-failure counterpart for write paths: it returns
// a *errs.EngineError with Code BudgetExceeded if doc crosses any
// threshold, or nil if doc is within budget.
func Guard(doc *schema.Document, limits Limits) error {
	r := Check(doc, limits)
	if len(r.Warnings) == 0 {
		return nil
	}
	return errs.New(errs.BudgetExceeded, "budget.Guard", r.Warnings[0]).WithDetails(map[string]interface{}{
		"nodeCount":             r.NodeCount,
		"artboardCount":         r.ArtboardCount,
		"maxDepth":              r.MaxDepth,
		"estimatedMemoryBytes":  r.EstimatedMemoryBytes,
		"warnings":              r.Warnings,
	})
}

// EnforceDeadline reports a BudgetExceeded error if elapsed wall time
// since start has crossed limits.MaxOperationTime.
func EnforceDeadline(start time.Time, limits Limits) error {
	limits = resolve(limits)
	if elapsed := time.Since(start); elapsed > limits.MaxOperationTime {
		return errs.Newf(errs.BudgetExceeded, "budget.EnforceDeadline", "operation exceeded %s (took %s)", limits.MaxOperationTime, elapsed)
	}
	return nil
}
