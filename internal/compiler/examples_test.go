package compiler

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/lhaig/jlite/internal/diagnostic"
)

func TestExamples(t *testing.T) {
	tests := []struct {
		file     string
		kind     diagnostic.Kind // checked only when message is set
		message  string
		warnings int
	}{
		{file: "counter"},
		{file: "linked_list"},
		{file: "shadow", warnings: 1},
		{file: "type_error", kind: diagnostic.TypeMismatch, message: "operator '+' not defined for Int and Bool"},
		{file: "duplicate_class", kind: diagnostic.DuplicateClass, message: "duplicate class found: Shape, Shape"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			prog, err := ReadProgram("../../examples/" + tt.file + ".json")
			be.Err(t, err, nil)

			res := Compile(prog)
			be.Equal(t, res.Diagnostics.WarningCount(), tt.warnings)

			if tt.message == "" {
				if res.Diagnostics.HasErrors() {
					t.Fatalf("Expected no errors, got:\n%s", res.Diagnostics.Format(tt.file))
				}
				be.True(t, res.IR != nil)
				return
			}

			errs := res.Diagnostics.Errors()
			be.Equal(t, len(errs), 1)
			be.Equal(t, errs[0].Kind, tt.kind)
			be.True(t, strings.Contains(errs[0].Message, tt.message))
			be.True(t, res.IR == nil)
		})
	}
}

func TestExampleErrorPositions(t *testing.T) {
	prog, err := ReadProgram("../../examples/duplicate_class.json")
	be.Err(t, err, nil)

	out := Check(prog).Format("duplicate_class.json")
	be.Equal(t, out, "error[duplicate_class.json:3:1]: duplicate class: duplicate class found: Shape, Shape\n"+
		"  hint: declared 'Shape' at 3:1, 'Shape' at 7:1")
}

func TestReadProgramErrors(t *testing.T) {
	_, err := ReadProgram("../../examples/missing.json")
	be.True(t, err != nil)

	_, err = ReadProgram("compiler_test.go")
	be.Err(t, err, "compiler_test.go:")
}
