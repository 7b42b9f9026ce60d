package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Builder constructs AST nodes and stamps each one with a fresh NodeID.
// A single Builder should be used for a whole program so identities stay
// unique within it.
type Builder struct {
	count int
}

// NewBuilder creates a Builder whose first NodeID is 1.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) next() NodeID {
	b.count++
	id, err := safecast.Convert[uint32](b.count)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return NodeID(id)
}

// Count returns the number of identities handed out so far.
func (b *Builder) Count() int { return b.count }

func (b *Builder) Program(main *Class, classes ...*Class) *Program {
	return &Program{Main: main, Classes: classes, NodeID: b.next()}
}

func (b *Builder) Class(name string, fields []*Field, methods ...*Method) *Class {
	return &Class{Name: name, Fields: fields, Methods: methods, NodeID: b.next()}
}

func (b *Builder) Field(typ, name string) *Field {
	return &Field{Type: &TypeRef{Name: typ}, Name: name, NodeID: b.next()}
}

func (b *Builder) Param(typ, name string) *Param {
	return &Param{Type: &TypeRef{Name: typ}, Name: name, NodeID: b.next()}
}

func (b *Builder) Var(typ, name string) *VarDecl {
	return &VarDecl{Type: &TypeRef{Name: typ}, Name: name, NodeID: b.next()}
}

func (b *Builder) Method(name, ret string, params []*Param, body *Body) *Method {
	return &Method{Name: name, ReturnType: &TypeRef{Name: ret}, Params: params, Body: body, NodeID: b.next()}
}

func (b *Builder) Body(vars []*VarDecl, stmts ...Statement) *Body {
	return &Body{Vars: vars, Statements: stmts, NodeID: b.next()}
}

func (b *Builder) Block(stmts ...Statement) *Block {
	return &Block{Statements: stmts, NodeID: b.next()}
}

func (b *Builder) If(cond Expression, then, els *Block) *IfStmt {
	return &IfStmt{Condition: cond, Then: then, Else: els, NodeID: b.next()}
}

func (b *Builder) While(cond Expression, body *Block) *WhileStmt {
	return &WhileStmt{Condition: cond, Body: body, NodeID: b.next()}
}

func (b *Builder) Assign(target string, value Expression) *AssignStmt {
	return &AssignStmt{Target: b.Ident(target), Value: value, NodeID: b.next()}
}

func (b *Builder) FieldAssign(obj Expression, field string, value Expression) *FieldAssignStmt {
	return &FieldAssignStmt{Object: obj, Field: field, Value: value, NodeID: b.next()}
}

// Return builds a return statement; value may be nil.
func (b *Builder) Return(value Expression) *ReturnStmt {
	return &ReturnStmt{Value: value, NodeID: b.next()}
}

func (b *Builder) Syscall(name string, args ...Expression) *SyscallStmt {
	return &SyscallStmt{Name: name, Args: args, NodeID: b.next()}
}

func (b *Builder) ExprStmt(e Expression) *ExprStmt {
	return &ExprStmt{Expr: e, NodeID: b.next()}
}

func (b *Builder) Ident(name string) *Identifier {
	return &Identifier{Name: name, NodeID: b.next()}
}

func (b *Builder) This() *Identifier { return b.Ident(ThisName) }

func (b *Builder) Int(v int64) *IntLit {
	return &IntLit{Value: v, NodeID: b.next()}
}

func (b *Builder) Bool(v bool) *BoolLit {
	return &BoolLit{Value: v, NodeID: b.next()}
}

func (b *Builder) Str(v string) *StringLit {
	return &StringLit{Value: v, NodeID: b.next()}
}

func (b *Builder) Binary(op Operator, left, right Expression) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right, NodeID: b.next()}
}

func (b *Builder) Unary(op Operator, operand Expression) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, NodeID: b.next()}
}

func (b *Builder) New(class string) *NewExpr {
	return &NewExpr{Class: class, NodeID: b.next()}
}

func (b *Builder) Access(obj Expression, member string) *AccessExpr {
	return &AccessExpr{Object: obj, Member: member, NodeID: b.next()}
}

func (b *Builder) Call(callee Expression, args ...Expression) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, NodeID: b.next()}
}

// Renumber assigns a fresh identity to every node reachable from prog,
// in pre-order, discarding any identities it carried before. It returns
// the number of nodes numbered.
func Renumber(prog *Program) int {
	b := NewBuilder()
	Inspect(prog, func(n Node) bool {
		setID(n, b.next())
		return true
	})
	return b.Count()
}

func setID(n Node, id NodeID) {
	switch n := n.(type) {
	case *Program:
		n.NodeID = id
	case *Class:
		n.NodeID = id
	case *Field:
		n.NodeID = id
	case *Param:
		n.NodeID = id
	case *VarDecl:
		n.NodeID = id
	case *Method:
		n.NodeID = id
	case *Body:
		n.NodeID = id
	case *Block:
		n.NodeID = id
	case *IfStmt:
		n.NodeID = id
	case *WhileStmt:
		n.NodeID = id
	case *AssignStmt:
		n.NodeID = id
	case *FieldAssignStmt:
		n.NodeID = id
	case *ReturnStmt:
		n.NodeID = id
	case *SyscallStmt:
		n.NodeID = id
	case *ExprStmt:
		n.NodeID = id
	case *Identifier:
		n.NodeID = id
	case *IntLit:
		n.NodeID = id
	case *BoolLit:
		n.NodeID = id
	case *StringLit:
		n.NodeID = id
	case *BinaryExpr:
		n.NodeID = id
	case *UnaryExpr:
		n.NodeID = id
	case *NewExpr:
		n.NodeID = id
	case *AccessExpr:
		n.NodeID = id
	case *CallExpr:
		n.NodeID = id
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}
