package csvload

import (
	"fmt"
	"strings"
)

// TransportError reports a fetch that did not complete with a success status.
// StatusCode is zero when the failure happened below HTTP (dial, file read,
// cancellation); Err then carries the cause.
type TransportError struct {
	Locator    string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Locator, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Locator, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Diagnostic is one structural problem found by the parser. Line and Column
// are 1-based positions in the source text.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d, column %d: %s", d.Line, d.Column, d.Message)
}

// ParseError reports a malformed CSV body. No rows are returned with it.
type ParseError struct {
	Locator     string
	Diagnostics []Diagnostic
}

func (e *ParseError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	src := e.Locator
	if src == "" {
		src = "input"
	}
	return fmt.Sprintf("parse %s: %s", src, strings.Join(msgs, "; "))
}
