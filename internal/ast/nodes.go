package ast

// NodeID identifies a node within one program. Zero is the invalid sentinel.
type NodeID uint32

// NoNodeID is the zero NodeID carried by nodes that were never numbered.
const NoNodeID NodeID = 0

// IsValid returns true if the ID was assigned by a Builder or Renumber.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is the base interface for all AST nodes
type Node interface {
	ID() NodeID
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Operator is a binary or unary operator symbol.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpGT  Operator = ">"
	OpGEQ Operator = ">="
	OpLT  Operator = "<"
	OpLEQ Operator = "<="
	OpEQ  Operator = "=="
	OpNEQ Operator = "!="
	OpAnd Operator = "&&"
	OpOr  Operator = "||"

	OpNeg Operator = "-"
	OpNot Operator = "!"
)

// Builtin syscall names
const (
	SysReadln  = "readln"
	SysPrintln = "println"
)

// ThisName is the implicit receiver bound in every method scope.
const ThisName = "this"

// Program represents the entire program: the entry class plus ordinary classes
type Program struct {
	Main    *Class
	Classes []*Class
	NodeID  NodeID
}

func (p *Program) ID() NodeID { return p.NodeID }
func (p *Program) Pos() (int, int) {
	if p.Main != nil {
		return p.Main.Pos()
	}
	return 0, 0
}

// AllClasses returns the entry class followed by the ordinary classes.
func (p *Program) AllClasses() []*Class {
	classes := make([]*Class, 0, len(p.Classes)+1)
	if p.Main != nil {
		classes = append(classes, p.Main)
	}
	return append(classes, p.Classes...)
}

// Class represents a class declaration
type Class struct {
	Name    string
	Fields  []*Field
	Methods []*Method
	NodeID  NodeID
	Line    int
	Column  int
}

func (c *Class) ID() NodeID      { return c.NodeID }
func (c *Class) Pos() (int, int) { return c.Line, c.Column }

// TypeRef represents a type reference
type TypeRef struct {
	Name   string
	Line   int
	Column int
}

// Field represents a class field declaration
type Field struct {
	Type   *TypeRef
	Name   string
	NodeID NodeID
	Line   int
	Column int
}

func (f *Field) ID() NodeID      { return f.NodeID }
func (f *Field) Pos() (int, int) { return f.Line, f.Column }

// Param represents a method parameter
type Param struct {
	Type   *TypeRef
	Name   string
	NodeID NodeID
	Line   int
	Column int
}

func (p *Param) ID() NodeID      { return p.NodeID }
func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// VarDecl represents a method-local variable declaration
type VarDecl struct {
	Type   *TypeRef
	Name   string
	NodeID NodeID
	Line   int
	Column int
}

func (v *VarDecl) ID() NodeID      { return v.NodeID }
func (v *VarDecl) Pos() (int, int) { return v.Line, v.Column }

// Method represents a class method. The owning class is implicit.
type Method struct {
	Name       string
	ReturnType *TypeRef
	Params     []*Param
	Body       *Body
	NodeID     NodeID
	Line       int
	Column     int
}

func (m *Method) ID() NodeID      { return m.NodeID }
func (m *Method) Pos() (int, int) { return m.Line, m.Column }

// Body is a method body: local declarations followed by statements
type Body struct {
	Vars       []*VarDecl
	Statements []Statement
	NodeID     NodeID
	Line       int
	Column     int
}

func (b *Body) ID() NodeID      { return b.NodeID }
func (b *Body) Pos() (int, int) { return b.Line, b.Column }

// Block represents a block of statements
type Block struct {
	Statements []Statement
	NodeID     NodeID
	Line       int
	Column     int
}

func (b *Block) ID() NodeID      { return b.NodeID }
func (b *Block) Pos() (int, int) { return b.Line, b.Column }

// IfStmt represents an if/else statement. Both branches are always present.
type IfStmt struct {
	Condition Expression
	Then      *Block
	Else      *Block
	NodeID    NodeID
	Line      int
	Column    int
}

func (i *IfStmt) ID() NodeID      { return i.NodeID }
func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// WhileStmt represents a while statement
type WhileStmt struct {
	Condition Expression
	Body      *Block
	NodeID    NodeID
	Line      int
	Column    int
}

func (w *WhileStmt) ID() NodeID      { return w.NodeID }
func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// AssignStmt writes a bare name: a local, a parameter or a field of this
type AssignStmt struct {
	Target *Identifier
	Value  Expression
	NodeID NodeID
	Line   int
	Column int
}

func (a *AssignStmt) ID() NodeID      { return a.NodeID }
func (a *AssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssignStmt) stmtNode()       {}

// FieldAssignStmt writes a field of an explicit receiver
type FieldAssignStmt struct {
	Object Expression
	Field  string
	Value  Expression
	NodeID NodeID
	Line   int
	Column int
}

func (f *FieldAssignStmt) ID() NodeID      { return f.NodeID }
func (f *FieldAssignStmt) Pos() (int, int) { return f.Line, f.Column }
func (f *FieldAssignStmt) stmtNode()       {}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Value  Expression // nil for bare return
	NodeID NodeID
	Line   int
	Column int
}

func (r *ReturnStmt) ID() NodeID      { return r.NodeID }
func (r *ReturnStmt) Pos() (int, int) { return r.Line, r.Column }
func (r *ReturnStmt) stmtNode()       {}

// SyscallStmt represents a builtin call (readln, println)
type SyscallStmt struct {
	Name   string
	Args   []Expression
	NodeID NodeID
	Line   int
	Column int
}

func (s *SyscallStmt) ID() NodeID      { return s.NodeID }
func (s *SyscallStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *SyscallStmt) stmtNode()       {}

// ExprStmt represents an expression statement
type ExprStmt struct {
	Expr   Expression
	NodeID NodeID
	Line   int
	Column int
}

func (e *ExprStmt) ID() NodeID      { return e.NodeID }
func (e *ExprStmt) Pos() (int, int) { return e.Line, e.Column }
func (e *ExprStmt) stmtNode()       {}

// Identifier represents a bare name, including this
type Identifier struct {
	Name   string
	NodeID NodeID
	Line   int
	Column int
}

func (i *Identifier) ID() NodeID      { return i.NodeID }
func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  int64
	NodeID NodeID
	Line   int
	Column int
}

func (i *IntLit) ID() NodeID      { return i.NodeID }
func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// BoolLit represents a boolean literal
type BoolLit struct {
	Value  bool
	NodeID NodeID
	Line   int
	Column int
}

func (b *BoolLit) ID() NodeID      { return b.NodeID }
func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// StringLit represents a string literal
type StringLit struct {
	Value  string
	NodeID NodeID
	Line   int
	Column int
}

func (s *StringLit) ID() NodeID      { return s.NodeID }
func (s *StringLit) Pos() (int, int) { return s.Line, s.Column }
func (s *StringLit) exprNode()       {}

// BinaryExpr represents a binary expression
type BinaryExpr struct {
	Left   Expression
	Op     Operator
	Right  Expression
	NodeID NodeID
	Line   int
	Column int
}

func (b *BinaryExpr) ID() NodeID      { return b.NodeID }
func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr represents a unary expression
type UnaryExpr struct {
	Op      Operator
	Operand Expression
	NodeID  NodeID
	Line    int
	Column  int
}

func (u *UnaryExpr) ID() NodeID      { return u.NodeID }
func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// NewExpr allocates an instance of a class
type NewExpr struct {
	Class  string
	NodeID NodeID
	Line   int
	Column int
}

func (n *NewExpr) ID() NodeID      { return n.NodeID }
func (n *NewExpr) Pos() (int, int) { return n.Line, n.Column }
func (n *NewExpr) exprNode()       {}

// AccessExpr represents a member access (field or method) on a receiver
type AccessExpr struct {
	Object Expression
	Member string
	NodeID NodeID
	Line   int
	Column int
}

func (a *AccessExpr) ID() NodeID      { return a.NodeID }
func (a *AccessExpr) Pos() (int, int) { return a.Line, a.Column }
func (a *AccessExpr) exprNode()       {}

// CallExpr represents a method call. Callee is an Identifier (implicitly
// on this) or an AccessExpr.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	NodeID NodeID
	Line   int
	Column int
}

func (c *CallExpr) ID() NodeID      { return c.NodeID }
func (c *CallExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *CallExpr) exprNode()       {}
