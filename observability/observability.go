// Package observability gives callers a hook into what the engine does,
// without the engine holding any ambient state of its own. An Observer
// is a plain value the caller passes in; nothing here is global, and a
// caller that never constructs one pays nothing beyond a nil check.
package observability

import (
	"time"

	"github.com/google/uuid"

	"github.com/canvasengine/engine/errs"
)

// Event is one completed engine operation, reported after the fact.
// TraceID is a scratch correlation id minted per call, distinct from
// the document's own identifiers, which are never exposed for this
// purpose.
type Event struct {
	TraceID   string
	Operation string
	Started   time.Time
	Duration  time.Duration
	Err       error
}

// Observer receives Events as operations complete. Implementations must
// not block for long: the engine calls Observe synchronously on the
// calling goroutine.
type Observer interface {
	Observe(Event)
}

// Noop discards every event. It is the zero value a nil Observer
// effectively behaves as, named so callers can pass it explicitly.
type Noop struct{}

func (Noop) Observe(Event) {}

// Span starts timing one operation and returns a function that reports
// the finished Event to obs. obs may be nil, in which case Finish is a
// no-op beyond computing nothing.
//
//	finish := observability.Span(obs, "ops.Create")
//	defer finish(&err)
func Span(obs Observer, operation string) func(errp *error) {
	if obs == nil {
		return func(*error) {}
	}
	start := time.Now()
	traceID := uuid.NewString()
	return func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		obs.Observe(Event{
			TraceID:   traceID,
			Operation: operation,
			Started:   start,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
}

// Code extracts the engine error code from an Event's Err, if any, for
// observers that want to bucket by failure kind rather than by the raw
// error string.
func Code(ev Event) (errs.Code, bool) {
	ee, ok := ev.Err.(*errs.EngineError)
	if !ok || ee == nil {
		return "", false
	}
	return ee.Code, true
}
