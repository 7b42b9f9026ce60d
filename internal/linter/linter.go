package linter

import (
	"strings"
	"unicode"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
	"github.com/lhaig/jlite/internal/types"
)

// Linter performs style and best-practice checks on an AST program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ast.Program
	diag *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given program and returns diagnostics.
// The program is expected to have passed the structural checks.
func Lint(prog *ast.Program) *diagnostic.Diagnostics {
	l := &Linter{
		prog: prog,
		diag: diagnostic.New(),
	}

	for _, class := range prog.AllClasses() {
		l.lintClass(class, class == prog.Main)
	}

	return l.diag
}

// lintClass checks a class declaration and each of its methods.
func (l *Linter) lintClass(class *ast.Class, entry bool) {
	if !entry {
		l.checkClassNaming(class)
	}

	fields := make(map[string]bool, len(class.Fields))
	for _, f := range class.Fields {
		fields[f.Name] = true
	}

	for _, m := range class.Methods {
		name := types.QualifiedName(class.Name, m.Name)
		l.checkMethodNaming(name, m)
		if m.Body == nil || len(m.Body.Statements) == 0 {
			l.diag.Warningf(m.Line, m.Column, "method '%s' has an empty body", name)
			continue
		}

		used := collectUsedNames(m.Body.Statements)
		l.checkUnusedParams(name, m.Params, used)
		l.checkUnusedVariables(name, m.Body.Vars, used)
		l.checkShadowedFields(name, class.Name, m.Body.Vars, fields)
		l.checkUnreachable(name, m.Body.Statements)
	}
}

// --- Lint rules ---

// checkClassNaming warns if a class name is not PascalCase.
func (l *Linter) checkClassNaming(class *ast.Class) {
	if !isPascalCase(class.Name) {
		l.diag.Warningf(class.Line, class.Column,
			"class '%s' should use PascalCase naming", class.Name)
	}
}

// checkMethodNaming warns if a method name is not camelCase.
func (l *Linter) checkMethodNaming(name string, m *ast.Method) {
	if !isCamelCase(m.Name) {
		l.diag.Warningf(m.Line, m.Column,
			"method '%s' should use camelCase naming", name)
	}
}

// checkUnusedParams warns about method parameters that are never read in the body.
func (l *Linter) checkUnusedParams(scopeName string, params []*ast.Param, used map[string]bool) {
	for _, p := range params {
		if !used[p.Name] {
			l.diag.Warningf(p.Line, p.Column,
				"parameter '%s' in '%s' is never used", p.Name, scopeName)
		}
	}
}

// checkUnusedVariables warns about locals that are never read. Assigning
// to a local or reading input into it does not count as a use.
func (l *Linter) checkUnusedVariables(scopeName string, vars []*ast.VarDecl, used map[string]bool) {
	for _, v := range vars {
		if !used[v.Name] {
			l.diag.Warningf(v.Line, v.Column,
				"variable '%s' in '%s' is declared but never used", v.Name, scopeName)
		}
	}
}

// checkShadowedFields warns about locals that hide a field of their class.
func (l *Linter) checkShadowedFields(scopeName, className string, vars []*ast.VarDecl, fields map[string]bool) {
	for _, v := range vars {
		if fields[v.Name] {
			l.diag.Warningf(v.Line, v.Column,
				"local '%s' in %s shadows a field of class %s", v.Name, scopeName, className)
		}
	}
}

// checkUnreachable warns about the first statement following a return in
// any statement list.
func (l *Linter) checkUnreachable(scopeName string, stmts []ast.Statement) {
	for i, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			if i+1 < len(stmts) {
				line, col := stmts[i+1].Pos()
				l.diag.Warningf(line, col, "unreachable statement after return in '%s'", scopeName)
			}
			return
		case *ast.IfStmt:
			if s.Then != nil {
				l.checkUnreachable(scopeName, s.Then.Statements)
			}
			if s.Else != nil {
				l.checkUnreachable(scopeName, s.Else.Statements)
			}
		case *ast.WhileStmt:
			if s.Body != nil {
				l.checkUnreachable(scopeName, s.Body.Statements)
			}
		}
	}
}

// --- Name collection helpers ---

// collectUsedNames walks all expressions in a slice of statements and collects
// all identifier names that are read (referenced).
func collectUsedNames(stmts []ast.Statement) map[string]bool {
	used := make(map[string]bool)
	for _, stmt := range stmts {
		collectUsedNamesFromStmt(stmt, used)
	}
	return used
}

func collectUsedNamesFromStmt(stmt ast.Statement, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		// The target is a write
		collectUsedNamesFromExpr(s.Value, used)
	case *ast.FieldAssignStmt:
		collectUsedNamesFromExpr(s.Object, used)
		collectUsedNamesFromExpr(s.Value, used)
	case *ast.ReturnStmt:
		collectUsedNamesFromExpr(s.Value, used)
	case *ast.SyscallStmt:
		if s.Name == ast.SysReadln {
			return
		}
		for _, arg := range s.Args {
			collectUsedNamesFromExpr(arg, used)
		}
	case *ast.IfStmt:
		collectUsedNamesFromExpr(s.Condition, used)
		if s.Then != nil {
			for _, inner := range s.Then.Statements {
				collectUsedNamesFromStmt(inner, used)
			}
		}
		if s.Else != nil {
			for _, inner := range s.Else.Statements {
				collectUsedNamesFromStmt(inner, used)
			}
		}
	case *ast.WhileStmt:
		collectUsedNamesFromExpr(s.Condition, used)
		if s.Body != nil {
			for _, inner := range s.Body.Statements {
				collectUsedNamesFromStmt(inner, used)
			}
		}
	case *ast.ExprStmt:
		collectUsedNamesFromExpr(s.Expr, used)
	}
}

func collectUsedNamesFromExpr(expr ast.Expression, used map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		used[e.Name] = true
	case *ast.BinaryExpr:
		collectUsedNamesFromExpr(e.Left, used)
		collectUsedNamesFromExpr(e.Right, used)
	case *ast.UnaryExpr:
		collectUsedNamesFromExpr(e.Operand, used)
	case *ast.AccessExpr:
		collectUsedNamesFromExpr(e.Object, used)
	case *ast.CallExpr:
		// A bare method name callee is not a variable read
		if access, ok := e.Callee.(*ast.AccessExpr); ok {
			collectUsedNamesFromExpr(access.Object, used)
		}
		for _, arg := range e.Args {
			collectUsedNamesFromExpr(arg, used)
		}
	}
}

// --- Naming convention helpers ---

// isCamelCase returns true if the name starts with a lowercase letter
// and contains no underscores.
func isCamelCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsLower(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}
