package types

import (
	"fmt"
	"sort"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
)

// Registry maps every type name (built-ins, declared classes) and every
// qualified method name to its descriptor. It is written only while
// indexing and is read-only afterwards.
type Registry struct {
	types   map[string]Type
	classes []*Class // declared classes, entry class first
	frozen  bool
}

func newRegistry() *Registry {
	r := &Registry{types: make(map[string]Type)}
	for _, name := range Builtins {
		r.types[name] = newClass(name)
	}
	return r
}

// Index builds the registry for a program. All class placeholders are
// registered before any field or signature is resolved, so a field or
// parameter may name any class of the program, including its own.
func Index(prog *ast.Program) (*Registry, error) {
	r := newRegistry()
	classes := prog.AllClasses()

	for _, c := range classes {
		line, col := c.Pos()
		if IsBuiltin(c.Name) {
			return nil, diagnostic.Errorf(diagnostic.DuplicateClass, line, col,
				"class '%s' redeclares a built-in type", c.Name)
		}
		info := newClass(c.Name)
		if err := r.define(c.Name, info, line, col, diagnostic.DuplicateClass); err != nil {
			return nil, err
		}
		r.classes = append(r.classes, info)
	}

	for _, c := range classes {
		info, _ := r.Class(c.Name)
		for _, f := range c.Fields {
			line, col := f.Pos()
			if _, exists := info.Fields[f.Name]; exists {
				return nil, diagnostic.Errorf(diagnostic.DuplicateMember, line, col,
					"field '%s' already defined in class '%s'", f.Name, c.Name)
			}
			ft, err := r.resolve(f.Type, fmt.Sprintf("field '%s::%s'", c.Name, f.Name))
			if err != nil {
				return nil, err
			}
			info.Fields[f.Name] = ft
			info.FieldOrder = append(info.FieldOrder, f.Name)
		}
	}

	for _, c := range classes {
		info, _ := r.Class(c.Name)
		for _, m := range c.Methods {
			line, col := m.Pos()
			name := QualifiedName(c.Name, m.Name)
			if _, clash := info.Fields[m.Name]; clash {
				return nil, diagnostic.Errorf(diagnostic.DuplicateMember, line, col,
					"method '%s' clashes with a field of class '%s'", m.Name, c.Name)
			}

			ret, err := r.resolve(m.ReturnType, "return type of "+name)
			if err != nil {
				return nil, err
			}
			params := make([]*Class, 0, len(m.Params))
			for _, p := range m.Params {
				pt, err := r.resolve(p.Type, fmt.Sprintf("parameter '%s' of %s", p.Name, name))
				if err != nil {
					return nil, err
				}
				params = append(params, pt)
			}

			method := &Method{
				Name:   name,
				Owner:  c.Name,
				Simple: m.Name,
				Return: ret,
				Params: params,
			}
			if err := r.define(name, method, line, col, diagnostic.DuplicateMember); err != nil {
				return nil, err
			}
			info.Methods[m.Name] = method
			info.MethodOrder = append(info.MethodOrder, m.Name)
		}
	}

	r.frozen = true
	return r, nil
}

// define assigns a key exactly once, and only while indexing
func (r *Registry) define(name string, t Type, line, col int, kind diagnostic.Kind) error {
	if r.frozen {
		panic(fmt.Sprintf("types: define %q on a frozen registry", name))
	}
	if _, exists := r.types[name]; exists {
		return diagnostic.Errorf(kind, line, col, "'%s' is already defined", name)
	}
	r.types[name] = t
	return nil
}

// resolve looks up a declared type name; what describes the declaration
// for the error message.
func (r *Registry) resolve(ref *ast.TypeRef, what string) (*Class, error) {
	if ref == nil {
		return nil, diagnostic.Errorf(diagnostic.UnresolvedName, 0, 0, "%s has no type", what)
	}
	c, ok := r.Class(ref.Name)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.UnresolvedName, ref.Line, ref.Column,
			"unknown type '%s' in %s", ref.Name, what)
	}
	return c, nil
}

// Lookup returns the descriptor registered under name
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Class returns the class type registered under name
func (r *Registry) Class(name string) (*Class, bool) {
	c, ok := r.types[name].(*Class)
	return c, ok
}

// Method returns the method type registered under a qualified name
func (r *Registry) Method(qualified string) (*Method, bool) {
	m, ok := r.types[qualified].(*Method)
	return m, ok
}

// Classes returns the declared classes in declaration order, entry first
func (r *Registry) Classes() []*Class {
	return r.classes
}

// Names returns every registered key in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frozen reports whether indexing has completed
func (r *Registry) Frozen() bool {
	return r.frozen
}
