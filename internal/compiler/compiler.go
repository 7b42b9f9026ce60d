package compiler

import (
	"fmt"
	"os"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/astjson"
	"github.com/lhaig/jlite/internal/checker"
	"github.com/lhaig/jlite/internal/diagnostic"
	"github.com/lhaig/jlite/internal/ir"
	"github.com/lhaig/jlite/internal/linter"
	"github.com/lhaig/jlite/internal/types"
)

// Result holds the output of a compilation
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Registry    *types.Registry
	Annotations *checker.Annotations
	IR          *ir.Program
}

// Compile runs the full pipeline: structure -> index -> check -> lower -> validate.
// IR is nil whenever Diagnostics has errors.
func Compile(prog *ast.Program) *Result {
	res := &Result{}

	checked, diag := analyze(prog)
	res.Diagnostics = diag
	if diag.HasErrors() {
		return res
	}
	res.Registry = checked.Registry
	res.Annotations = checked.Annotations

	// Lower to IR
	out, err := ir.Lower(prog, checked)
	if err != nil {
		diag.Add(err)
		return res
	}

	// A program that type checked must lower to well-formed IR
	if problems := ir.Validate(out); len(problems) > 0 {
		for _, p := range problems {
			diag.Add(diagnostic.Errorf(diagnostic.Internal, 0, 0, "invalid IR: %s", p))
		}
		return res
	}
	res.IR = out

	return res
}

// Check runs the structural and type checks only (no lowering).
func Check(prog *ast.Program) *diagnostic.Diagnostics {
	_, diag := analyze(prog)
	return diag
}

// analyze runs the checker passes and collects their diagnostics. Lint
// warnings are added only for programs that check cleanly.
func analyze(prog *ast.Program) (*checker.Result, *diagnostic.Diagnostics) {
	diag := diagnostic.New()
	if prog == nil || prog.Main == nil {
		diag.Add(diagnostic.Errorf(diagnostic.Internal, 0, 0, "program has no main class"))
		return nil, diag
	}

	res, err := checker.CheckWithResult(prog)
	if err != nil {
		diag.Add(err)
		return nil, diag
	}
	diag.Merge(linter.Lint(prog))
	return res, diag
}

// ReadProgram decodes the JSON AST stored at path.
func ReadProgram(path string) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prog, err := astjson.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Emit runs the full pipeline and renders the IR for opts.Target.
func Emit(prog *ast.Program, opts Options) ([]byte, error) {
	emit, err := getEmitter(opts.target())
	if err != nil {
		return nil, err
	}

	res := Compile(prog)
	if res.Diagnostics.HasErrors() {
		return nil, fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format(opts.filename()))
	}
	return emit(res.IR)
}
