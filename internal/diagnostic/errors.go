package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a compiler error
type Kind int

const (
	DuplicateClass Kind = iota
	DuplicateMember
	DuplicateParam
	TypeMismatch
	UnresolvedName
	SignatureMismatch
	// Internal marks a defect in the compiler passes themselves, never in
	// the input program.
	Internal
)

// String returns the string representation of the error kind
func (k Kind) String() string {
	switch k {
	case DuplicateClass:
		return "duplicate class"
	case DuplicateMember:
		return "duplicate member"
	case DuplicateParam:
		return "duplicate param"
	case TypeMismatch:
		return "type mismatch"
	case UnresolvedName:
		return "unresolved name"
	case SignatureMismatch:
		return "signature mismatch"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Related points at one declaration involved in an error, e.g. each of
// the colliding declarations of a duplicate.
type Related struct {
	Name   string
	Line   int
	Column int
}

// CompileError is a structured compiler error
type CompileError struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
	Related []Related
}

// Errorf creates an error of the given kind with a formatted message
func Errorf(kind Kind, line, col int, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}

func (e *CompileError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Names returns the names of the related declarations in order
func (e *CompileError) Names() []string {
	names := make([]string, len(e.Related))
	for i, r := range e.Related {
		names[i] = r.Name
	}
	return names
}

// hint renders the related declarations as a diagnostic hint
func (e *CompileError) hint() string {
	if len(e.Related) == 0 {
		return ""
	}
	parts := make([]string, len(e.Related))
	for i, r := range e.Related {
		parts[i] = fmt.Sprintf("'%s' at %d:%d", r.Name, r.Line, r.Column)
	}
	return "declared " + strings.Join(parts, ", ")
}

// KindOf reports the kind of the first *CompileError in err's chain
func KindOf(err error) (Kind, bool) {
	var e *CompileError
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err's chain contains an *CompileError of the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
