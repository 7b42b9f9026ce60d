package checker

import "github.com/lhaig/jlite/internal/types"

// SymbolKind represents the kind of symbol
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParam
	SymField
	SymThis
	SymMethod
)

// String returns the string representation of the symbol kind
func (sk SymbolKind) String() string {
	switch sk {
	case SymVariable:
		return "variable"
	case SymParam:
		return "parameter"
	case SymField:
		return "field"
	case SymThis:
		return "this"
	case SymMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Symbol is a name bound in a scope. Class is set for every kind except
// SymMethod, which sets Method.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Class  *types.Class
	Method *types.Method
}

// Type returns the bound class or method type
func (s *Symbol) Type() types.Type {
	if s.Kind == SymMethod {
		return s.Method
	}
	return s.Class
}

// ScopeKind identifies the level a scope was created for
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeClass
	ScopeMethod
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Scope is an immutable binding context. Extend returns a child that
// shadows its parent; a scope is never modified after construction, so
// children share their ancestors freely.
type Scope struct {
	parent   *Scope
	kind     ScopeKind
	registry *types.Registry
	vars     map[string]*Symbol
	varOrder []string
	methods  map[string]*Symbol
}

// NewScope creates the global scope over a frozen registry
func NewScope(reg *types.Registry) *Scope {
	return &Scope{
		kind:     ScopeGlobal,
		registry: reg,
		vars:     make(map[string]*Symbol),
		methods:  make(map[string]*Symbol),
	}
}

// Extend returns a new scope of the given kind binding syms on top of s.
// Method symbols go to the method namespace, all others to the variable
// namespace. When syms binds a name twice the later binding wins but
// keeps the position of the first.
func (s *Scope) Extend(kind ScopeKind, syms ...*Symbol) *Scope {
	child := &Scope{
		parent:   s,
		kind:     kind,
		registry: s.registry,
		vars:     make(map[string]*Symbol),
		methods:  make(map[string]*Symbol),
	}
	for _, sym := range syms {
		if sym.Kind == SymMethod {
			child.methods[sym.Name] = sym
			continue
		}
		if _, exists := child.vars[sym.Name]; !exists {
			child.varOrder = append(child.varOrder, sym.Name)
		}
		child.vars[sym.Name] = sym
	}
	return child
}

// Kind returns the level this scope was created for
func (s *Scope) Kind() ScopeKind { return s.kind }

// Registry returns the registry shared by the whole chain
func (s *Scope) Registry() *types.Registry { return s.registry }

// Resolve looks up a bare name: variable bindings (locals, parameters,
// fields, this) across the whole chain first, then method bindings.
// Returns false if the name is not bound.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	if sym, ok := s.lookupVar(name); ok {
		return sym, true
	}
	return s.lookupMethod(name)
}

func (s *Scope) lookupVar(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.vars[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *Scope) lookupMethod(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.methods[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Vars returns the visible variable bindings, outermost scope first and
// in insertion order within a scope. Shadowed bindings are omitted.
func (s *Scope) Vars() []*Symbol {
	var chain []*Scope
	for sc := s; sc != nil; sc = sc.parent {
		chain = append(chain, sc)
	}

	var out []*Symbol
	for i := len(chain) - 1; i >= 0; i-- {
		sc := chain[i]
		for _, name := range sc.varOrder {
			if visible, _ := s.lookupVar(name); visible == sc.vars[name] {
				out = append(out, visible)
			}
		}
	}
	return out
}
