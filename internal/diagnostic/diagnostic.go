package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single compiler error or warning
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
	File     string // optional file path
	Hint     string // optional suggestion
	Kind     Kind   // classification, set for errors recorded with Add
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Add records err as an error diagnostic. A *CompileError keeps its kind,
// position and related declarations; any other error is recorded as
// Internal at position 0:0.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	var e *CompileError
	if !errors.As(err, &e) {
		d.items = append(d.items, Diagnostic{
			Severity: Error,
			Message:  err.Error(),
			Kind:     Internal,
		})
		return
	}
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  err.Error(),
		Line:     e.Line,
		Column:   e.Column,
		Hint:     e.hint(),
		Kind:     e.Kind,
	})
}

// Merge appends every diagnostic of other, preserving order
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.items = append(d.items, other.items...)
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Warning {
			count++
		}
	}
	return count
}

// Format returns human-readable error messages
// Output format:
//
//	error[prog.json:3:10]: unresolved name: 'x' is not declared
//	error[prog.json:1:1]: duplicate class: duplicate class found: A, A
//	  hint: declared 'A' at 1:1, 'A' at 9:1
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		// Use item.File if set, otherwise use the filename parameter
		fileToUse := filename
		if item.File != "" {
			fileToUse = item.File
		}

		// Format the main diagnostic line
		builder.WriteString(fmt.Sprintf("%s[%s:%d:%d]: %s",
			item.Severity.String(),
			fileToUse,
			item.Line,
			item.Column,
			item.Message,
		))

		// Add hint if present
		if item.Hint != "" {
			builder.WriteString(fmt.Sprintf("\n  hint: %s", item.Hint))
		}

		// Add newline unless it's the last item
		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

