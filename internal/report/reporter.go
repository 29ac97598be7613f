// Package report aggregates diagnostics across the whole run. Every
// diagnostic is unrecoverable for the run as a whole, but collection is
// batched so one invocation surfaces as many problems as possible.
package report

import (
	"fmt"

	"github.com/xiedantibu/dagger/internal/errors"
)

// Diagnostic is one (message, offending symbol) pair surfaced to the user
type Diagnostic struct {
	Code     errors.ErrorCode
	Symbol   string // offending symbol, e.g. "widgets.Widget" or a member name
	Message  string
	Location errors.SourceLocation
	Cause    error
}

// String renders the diagnostic the way it is shown to the user
func (d Diagnostic) String() string {
	if d.Location.IsEmpty() {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Code, d.Message)
}

// Reporter is an append-only, ordered diagnostic sink
type Reporter struct {
	diagnostics []Diagnostic
}

// NewReporter creates an empty reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report appends one diagnostic
func (r *Reporter) Report(code errors.ErrorCode, symbol string, location errors.SourceLocation, format string, args ...interface{}) {
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Code:     code,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

// ReportCause appends one diagnostic carrying an underlying error
func (r *Reporter) ReportCause(code errors.ErrorCode, symbol string, cause error, format string, args ...interface{}) {
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Code:    code,
		Symbol:  symbol,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	})
}

// Diagnostics returns every collected diagnostic in append order
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// HasErrors reports whether any diagnostic was collected
func (r *Reporter) HasErrors() bool {
	return len(r.diagnostics) > 0
}

// Count returns the number of collected diagnostics
func (r *Reporter) Count() int {
	return len(r.diagnostics)
}

// HasCode reports whether any diagnostic of the given code was collected
func (r *Reporter) HasCode(code errors.ErrorCode) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Err folds the collected diagnostics into a single error, or nil when
// the run is clean
func (r *Reporter) Err() error {
	if len(r.diagnostics) == 0 {
		return nil
	}
	combined := errors.NewMultipleErrors()
	for _, d := range r.diagnostics {
		combined.Add(errors.New(d.Code, d.Message).WithLocation(d.Location).WithCause(d.Cause))
	}
	return combined
}
