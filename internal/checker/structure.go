package checker

import (
	"strings"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
)

// CheckStructure validates name uniqueness: classes across the program,
// fields and methods within a class (one shared namespace) and
// parameters within a method. Each duplicate error lists every colliding
// declaration; otherwise the first failing class is reported.
func CheckStructure(prog *ast.Program) error {
	classes := prog.AllClasses()

	if dups := duplicates(classes, func(c *ast.Class) string { return c.Name }); len(dups) > 0 {
		related := make([]diagnostic.Related, len(dups))
		for i, c := range dups {
			related[i] = relatedOf(c.Name, c)
		}
		return duplicateError(diagnostic.DuplicateClass, "class", related)
	}

	for _, c := range classes {
		if err := checkClassStructure(c); err != nil {
			return err
		}
	}
	return nil
}

func checkClassStructure(c *ast.Class) error {
	members := make([]diagnostic.Related, 0, len(c.Fields)+len(c.Methods))
	for _, f := range c.Fields {
		members = append(members, relatedOf(f.Name, f))
	}
	for _, m := range c.Methods {
		members = append(members, relatedOf(m.Name, m))
	}

	if dups := duplicates(members, func(r diagnostic.Related) string { return r.Name }); len(dups) > 0 {
		return duplicateError(diagnostic.DuplicateMember, "member", dups)
	}

	for _, m := range c.Methods {
		if err := checkMethodStructure(m); err != nil {
			return err
		}
	}
	return nil
}

func checkMethodStructure(m *ast.Method) error {
	if dups := duplicates(m.Params, func(p *ast.Param) string { return p.Name }); len(dups) > 0 {
		related := make([]diagnostic.Related, len(dups))
		for i, p := range dups {
			related[i] = relatedOf(p.Name, p)
		}
		return duplicateError(diagnostic.DuplicateParam, "param", related)
	}
	return nil
}

// duplicates returns, in order, every item whose name occurs more than once
func duplicates[T any](items []T, name func(T) string) []T {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[name(it)]++
	}
	var out []T
	for _, it := range items {
		if counts[name(it)] > 1 {
			out = append(out, it)
		}
	}
	return out
}

func relatedOf(name string, n ast.Node) diagnostic.Related {
	line, col := n.Pos()
	return diagnostic.Related{Name: name, Line: line, Column: col}
}

func duplicateError(kind diagnostic.Kind, what string, related []diagnostic.Related) *diagnostic.CompileError {
	names := make([]string, len(related))
	for i, r := range related {
		names[i] = r.Name
	}
	return &diagnostic.CompileError{
		Kind:    kind,
		Message: "duplicate " + what + " found: " + strings.Join(names, ", "),
		Line:    related[0].Line,
		Column:  related[0].Column,
		Related: related,
	}
}
