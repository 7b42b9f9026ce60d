// Package types holds the type descriptors of the language and the
// registry that maps every type name and qualified method name to its
// descriptor.
package types

import "strings"

// Type is a class type or a method type.
type Type interface {
	TypeName() string
	typeNode()
}

// Class describes a class type: a built-in or a declared class.
type Class struct {
	Name        string
	Fields      map[string]*Class
	FieldOrder  []string // preserve declaration order
	Methods     map[string]*Method
	MethodOrder []string
}

// Method describes a method type, keyed globally by its qualified name.
type Method struct {
	Name   string // qualified, e.g. "Point::move"
	Owner  string
	Simple string
	Return *Class
	Params []*Class
}

func (c *Class) TypeName() string  { return c.Name }
func (*Class) typeNode()           {}
func (m *Method) TypeName() string { return m.Name }
func (*Method) typeNode()          {}

func newClass(name string) *Class {
	return &Class{
		Name:    name,
		Fields:  make(map[string]*Class),
		Methods: make(map[string]*Method),
	}
}

// Field returns the declared type of the named field
func (c *Class) Field(name string) (*Class, bool) {
	t, ok := c.Fields[name]
	return t, ok
}

// Method returns the named method of the class
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// QualifiedName builds the global key of a method
func QualifiedName(class, method string) string {
	return class + "::" + method
}

// ParamNames returns the parameter type names in order
func (m *Method) ParamNames() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

// Signature renders the parameter list, e.g. "(Int, Bool)"
func (m *Method) Signature() string {
	return "(" + strings.Join(m.ParamNames(), ", ") + ")"
}

// Built-in type names
const (
	Void   = "Void"
	Int    = "Int"
	Bool   = "Bool"
	String = "String"
)

// Builtins lists the built-in type names in registration order.
var Builtins = []string{Void, Int, Bool, String}

// IsBuiltin reports whether name is one of the four built-in types
func IsBuiltin(name string) bool {
	switch name {
	case Void, Int, Bool, String:
		return true
	}
	return false
}

// IsPrimitive reports whether name is a value type readable and printable
// by the builtin syscalls.
func IsPrimitive(name string) bool {
	switch name {
	case Int, Bool, String:
		return true
	}
	return false
}
