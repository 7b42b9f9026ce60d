package types

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/nalgeon/be"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
)

// linkedList declares a self-referential class and a forward reference
// from the entry class.
func linkedList(b *ast.Builder) *ast.Program {
	main := b.Class("main", nil,
		b.Method("main", "Void", nil, b.Body(nil)),
	)
	node := b.Class("Node",
		[]*ast.Field{b.Field("Int", "value"), b.Field("Node", "next")},
		b.Method("append", "Node", []*ast.Param{b.Param("Int", "v"), b.Param("Bool", "front")}, b.Body(nil)),
		b.Method("size", "Int", nil, b.Body(nil)),
	)
	list := b.Class("List",
		[]*ast.Field{b.Field("Node", "head")},
	)
	return b.Program(main, node, list)
}

func TestIndexRegistersEverything(t *testing.T) {
	reg, err := Index(linkedList(ast.NewBuilder()))
	be.Err(t, err, nil)
	be.True(t, reg.Frozen())

	want := []string{
		"Bool", "Int", "List", "Node", "Node::append", "Node::size",
		"String", "Void", "main", "main::main",
	}
	if diff := deep.Equal(reg.Names(), want); diff != nil {
		t.Error(diff)
	}

	var declared []string
	for _, c := range reg.Classes() {
		declared = append(declared, c.Name)
	}
	be.Equal(t, []string{"main", "Node", "List"}, declared)
}

func TestIndexSelfReference(t *testing.T) {
	reg, err := Index(linkedList(ast.NewBuilder()))
	be.Err(t, err, nil)

	node, ok := reg.Class("Node")
	be.True(t, ok)
	next, ok := node.Field("next")
	be.True(t, ok)
	be.True(t, next == node)
	be.Equal(t, []string{"value", "next"}, node.FieldOrder)

	list, _ := reg.Class("List")
	head, _ := list.Field("head")
	be.True(t, head == node)
}

func TestIndexMethodTypes(t *testing.T) {
	reg, err := Index(linkedList(ast.NewBuilder()))
	be.Err(t, err, nil)

	m, ok := reg.Method("Node::append")
	be.True(t, ok)
	be.Equal(t, "Node", m.Owner)
	be.Equal(t, "append", m.Simple)
	be.Equal(t, "Node", m.Return.Name)
	be.Equal(t, "(Int, Bool)", m.Signature())

	node, _ := reg.Class("Node")
	local, ok := node.Method("append")
	be.True(t, ok)
	be.True(t, local == m)
	be.Equal(t, []string{"append", "size"}, node.MethodOrder)

	_, ok = reg.Method("Node")
	be.True(t, !ok)
	_, ok = reg.Class("Node::size")
	be.True(t, !ok)
}

func TestIndexBuiltinsAlwaysPresent(t *testing.T) {
	b := ast.NewBuilder()
	reg, err := Index(b.Program(b.Class("main", nil)))
	be.Err(t, err, nil)
	for _, name := range Builtins {
		c, ok := reg.Class(name)
		be.True(t, ok)
		be.Equal(t, 0, len(c.Fields))
	}
}

func TestIndexErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) *ast.Program
		kind  diagnostic.Kind
	}{
		{
			name: "unknown field type",
			build: func(b *ast.Builder) *ast.Program {
				return b.Program(b.Class("main", []*ast.Field{b.Field("Missing", "x")}))
			},
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "unknown parameter type",
			build: func(b *ast.Builder) *ast.Program {
				m := b.Method("f", "Void", []*ast.Param{b.Param("Nope", "p")}, b.Body(nil))
				return b.Program(b.Class("main", nil, m))
			},
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "unknown return type",
			build: func(b *ast.Builder) *ast.Program {
				return b.Program(b.Class("main", nil, b.Method("f", "Nope", nil, b.Body(nil))))
			},
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "method name used as type",
			build: func(b *ast.Builder) *ast.Program {
				m := b.Method("f", "Void", nil, b.Body(nil))
				return b.Program(b.Class("main", []*ast.Field{b.Field("main::f", "x")}, m))
			},
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "class shadows builtin",
			build: func(b *ast.Builder) *ast.Program {
				return b.Program(b.Class("main", nil), b.Class("Int", nil))
			},
			kind: diagnostic.DuplicateClass,
		},
		{
			name: "class declared twice",
			build: func(b *ast.Builder) *ast.Program {
				return b.Program(b.Class("main", nil), b.Class("A", nil), b.Class("A", nil))
			},
			kind: diagnostic.DuplicateClass,
		},
		{
			name: "method clashes with field",
			build: func(b *ast.Builder) *ast.Program {
				m := b.Method("x", "Void", nil, b.Body(nil))
				return b.Program(b.Class("main", []*ast.Field{b.Field("Int", "x")}, m))
			},
			kind: diagnostic.DuplicateMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Index(tt.build(ast.NewBuilder()))
			be.True(t, reg == nil)
			be.True(t, diagnostic.Is(err, tt.kind))
		})
	}
}

func TestIsPrimitive(t *testing.T) {
	be.True(t, IsPrimitive(Int))
	be.True(t, IsPrimitive(Bool))
	be.True(t, IsPrimitive(String))
	be.True(t, !IsPrimitive(Void))
	be.True(t, !IsPrimitive("Node"))
	be.True(t, IsBuiltin(Void))
}
