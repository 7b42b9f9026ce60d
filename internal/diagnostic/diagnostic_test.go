package diagnostic

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestKindOfWrappedError(t *testing.T) {
	base := Errorf(TypeMismatch, 3, 7, "operator '+' not defined for Int and Bool")
	wrapped := fmt.Errorf("class main: %w", base)

	kind, ok := KindOf(wrapped)
	be.True(t, ok)
	be.Equal(t, TypeMismatch, kind)
	be.True(t, Is(wrapped, TypeMismatch))
	be.True(t, !Is(wrapped, UnresolvedName))

	_, ok = KindOf(errors.New("plain"))
	be.True(t, !ok)
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(UnresolvedName, 1, 2, "'%s' is not declared", "x")
	be.Equal(t, "unresolved name: 'x' is not declared", err.Error())
}

func TestErrorNames(t *testing.T) {
	err := &CompileError{
		Kind:    DuplicateClass,
		Message: "duplicate class found: A, A",
		Related: []Related{{Name: "A", Line: 1, Column: 1}, {Name: "A", Line: 9, Column: 1}},
	}
	be.Equal(t, []string{"A", "A"}, err.Names())
	be.Equal(t, "declared 'A' at 1:1, 'A' at 9:1", err.hint())
}

func TestAddTypedError(t *testing.T) {
	d := New()
	d.Add(nil)
	be.Equal(t, 0, d.Count())

	d.Add(&CompileError{
		Kind:    DuplicateParam,
		Message: "duplicate param found: a, a",
		Line:    4,
		Column:  2,
		Related: []Related{{Name: "a", Line: 4, Column: 10}, {Name: "a", Line: 4, Column: 17}},
	})
	d.Add(errors.New("boom"))
	d.Warningf(5, 1, "local 'x' shadows field 'x'")

	be.True(t, d.HasErrors())
	be.Equal(t, 2, d.ErrorCount())
	be.Equal(t, 1, d.WarningCount())

	errs := d.Errors()
	be.Equal(t, DuplicateParam, errs[0].Kind)
	be.Equal(t, Internal, errs[1].Kind)

	out := d.Format("prog.json")
	lines := strings.Split(out, "\n")
	be.Equal(t, 4, len(lines))
	be.Equal(t, "error[prog.json:4:2]: duplicate param: duplicate param found: a, a", lines[0])
	be.Equal(t, "  hint: declared 'a' at 4:10, 'a' at 4:17", lines[1])
	be.Equal(t, "error[prog.json:0:0]: boom", lines[2])
	be.Equal(t, "warning[prog.json:5:1]: local 'x' shadows field 'x'", lines[3])
}

func TestFormatEmpty(t *testing.T) {
	be.Equal(t, "", New().Format("x"))
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{DuplicateClass, "duplicate class"},
		{DuplicateMember, "duplicate member"},
		{DuplicateParam, "duplicate param"},
		{TypeMismatch, "type mismatch"},
		{UnresolvedName, "unresolved name"},
		{SignatureMismatch, "signature mismatch"},
		{Internal, "internal"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	d := New()
	d.Errorf(1, 1, "first")

	other := New()
	other.Warningf(2, 3, "second")
	other.Warningf(4, 5, "third")

	d.Merge(other)
	d.Merge(nil)

	be.Equal(t, 3, d.Count())
	be.Equal(t, 1, d.ErrorCount())
	be.Equal(t, 2, d.WarningCount())
	be.Equal(t, "third", d.All()[2].Message)
}

func TestAddKeepsErrorSeverity(t *testing.T) {
	d := New()
	d.Add(fmt.Errorf("main::main: %w", Errorf(TypeMismatch, 4, 11, "operator '+' not defined for Int and Bool")))

	item := d.All()[0]
	be.Equal(t, Error, item.Severity)
	be.Equal(t, TypeMismatch, item.Kind)
	be.Equal(t, 4, item.Line)

	var ce *CompileError
	be.True(t, errors.As(fmt.Errorf("wrapped: %w", Errorf(Internal, 0, 0, "x")), &ce))
	be.Equal(t, Internal, ce.Kind)
}
