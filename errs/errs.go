// Package errs defines the engine's closed error taxonomy.
//
// Engine operations return *EngineError, so callers can errors.As into it
// and switch on Code rather than matching strings. Two exceptions:
// schema.Validate and schema.Parse return *schema.ValidationError (its
// EngineError method converts it), and decoding failures (malformed JSON
// or YAML, an invalid name pattern) are returned as plain errors. The taxonomy is closed: Code only ever holds one of the values
// declared below.
package errs

import "fmt"

// Code identifies one member of the engine's closed error taxonomy.
type Code string

const (
	InvalidSchema          Code = "InvalidSchema"
	UnknownVersion         Code = "UnknownVersion"
	NoMigrationPath        Code = "NoMigrationPath"
	NodeNotFound           Code = "NodeNotFound"
	PathNotFound           Code = "PathNotFound"
	ParentNotFound         Code = "ParentNotFound"
	ParentNotContainer     Code = "ParentNotContainer"
	TargetNotContainer     Code = "TargetNotContainer"
	TypeChangeDisallowed   Code = "TypeChangeDisallowed"
	WouldCreateCycle       Code = "WouldCreateCycle"
	InvalidValue           Code = "InvalidValue"
	InvalidNode            Code = "InvalidNode"
	RootDeletionDisallowed Code = "RootDeletionDisallowed"
	PatchPreconditionFailed Code = "PatchPreconditionFailed"
	BudgetExceeded         Code = "BudgetExceeded"
	MergeAborted           Code = "MergeAborted"
	Cancelled              Code = "Cancelled"
)

// EngineError is the sole error shape the engine returns. It carries a
// stable, machine-checkable Code alongside an operation label, a JSON
// Pointer-style Path (when the error is localized to one node or field),
// and optional structured Details for diagnostics.
type EngineError struct {
	Code       Code
	Operation  string
	Message    string
	Path       string
	Details    map[string]interface{}
	Underlying error
}

func (e *EngineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Operation, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap allows errors.Is/As to reach an underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// New builds an EngineError with the given code, operation label and message.
func New(code Code, operation, message string) *EngineError {
	return &EngineError{Code: code, Operation: operation, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting of message.
func Newf(code Code, operation, format string, args ...interface{}) *EngineError {
	return &EngineError{Code: code, Operation: operation, Message: fmt.Sprintf(format, args...)}
}

// WithPath attaches a JSON Pointer-style path to the error and returns it.
func (e *EngineError) WithPath(path string) *EngineError {
	e.Path = path
	return e
}

// WithDetails attaches structured diagnostic data and returns the error.
func (e *EngineError) WithDetails(details map[string]interface{}) *EngineError {
	e.Details = details
	return e
}

// Wrap wraps an underlying error under the given code/operation.
func Wrap(code Code, operation string, underlying error) *EngineError {
	msg := "wrapped error"
	if underlying != nil {
		msg = underlying.Error()
	}
	return &EngineError{Code: code, Operation: operation, Message: msg, Underlying: underlying}
}
