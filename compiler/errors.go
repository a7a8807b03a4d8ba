package compiler

import (
	"fmt"
	"strings"
)

// ValidationError reports a query rejected before freezing: schema rule
// violations, unresolved fragment references, and malformed namespaces.
// File and Line point into the caller's source, adjusted so that line
// numbers inside a multi-line query string land on the right source line.
type ValidationError struct {
	File    string
	Line    int
	Message string
	Hint    string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "%s:%d: ", e.File, e.Line)
	}
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString(" (")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	return b.String()
}

// ParseError reports query text the parser could not read at all.
type ParseError struct {
	File string
	Err  error
}

// The parser already prefixes messages with the source name, so Error does
// not repeat it.
func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }
