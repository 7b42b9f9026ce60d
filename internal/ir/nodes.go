package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Program is a lowered program: one data layout per class and the flat
// instruction lists of every method.
type Program struct {
	Data    []*Data   `json:"data"`
	Methods []*Method `json:"methods"`
}

// Data is the field layout of a class.
type Data struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

// Field is one field of a data layout.
type Field struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Method is a lowered method. Params starts with the implicit receiver
// "this". Body holds every temporary declaration first, then the
// executable instructions.
type Method struct {
	Class  string  `json:"class"`
	Name   string  `json:"name"` // qualified, e.g. "Point::getX"
	Return string  `json:"return"`
	Params []*Var  `json:"params"`
	Locals []*Var  `json:"locals"`
	Body   []Instr `json:"body"`
}

// Instr is the interface for all IR instructions.
type Instr interface {
	fmt.Stringer
	Op() string
	instrNode()
}

// Var declares a variable: a parameter, a local or a temporary.
type Var struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// New allocates an instance of Class into Dst.
type New struct {
	Dst   string `json:"dst"`
	Class string `json:"class"`
}

// Assign copies Src into the local Dst.
type Assign struct {
	Dst string `json:"dst"`
	Src string `json:"src"`
}

// FieldLoad reads Object.Field into Dst.
type FieldLoad struct {
	Dst    string `json:"dst"`
	Object string `json:"object"`
	Field  string `json:"field"`
}

// FieldStore writes Value into Object.Field.
type FieldStore struct {
	Object string `json:"object"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// IntLit materializes an integer constant.
type IntLit struct {
	Dst   string `json:"dst"`
	Value int64  `json:"value"`
}

// BoolLit materializes a boolean constant.
type BoolLit struct {
	Dst   string `json:"dst"`
	Value bool   `json:"value"`
}

// StringLit materializes a string constant.
type StringLit struct {
	Dst   string `json:"dst"`
	Value string `json:"value"`
}

// BinOp computes Left Operator Right into Dst.
type BinOp struct {
	Dst      string `json:"dst"`
	Operator string `json:"operator"`
	Left     string `json:"left"`
	Right    string `json:"right"`
}

// UnOp computes Operator Operand into Dst.
type UnOp struct {
	Dst      string `json:"dst"`
	Operator string `json:"operator"`
	Operand  string `json:"operand"`
}

// Call invokes the method named Target. Args[0] is the receiver.
type Call struct {
	Dst    string   `json:"dst"`
	Target string   `json:"target"`
	Args   []string `json:"args"`
}

// Syscall invokes a builtin (readln, println).
type Syscall struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// Return leaves the method; Value is empty for a bare return.
type Return struct {
	Value string `json:"value"`
}

// Label marks a jump target.
type Label struct {
	Name string `json:"name"`
}

// Goto jumps unconditionally.
type Goto struct {
	Label string `json:"label"`
}

// BranchIfTrue jumps to Label iff Cond holds, otherwise falls through.
type BranchIfTrue struct {
	Cond  string `json:"cond"`
	Label string `json:"label"`
}

func (*Var) instrNode()          {}
func (*New) instrNode()          {}
func (*Assign) instrNode()       {}
func (*FieldLoad) instrNode()    {}
func (*FieldStore) instrNode()   {}
func (*IntLit) instrNode()       {}
func (*BoolLit) instrNode()      {}
func (*StringLit) instrNode()    {}
func (*BinOp) instrNode()        {}
func (*UnOp) instrNode()         {}
func (*Call) instrNode()         {}
func (*Syscall) instrNode()      {}
func (*Return) instrNode()       {}
func (*Label) instrNode()        {}
func (*Goto) instrNode()         {}
func (*BranchIfTrue) instrNode() {}

func (*Var) Op() string          { return "var" }
func (*New) Op() string          { return "new" }
func (*Assign) Op() string       { return "assign" }
func (*FieldLoad) Op() string    { return "load" }
func (*FieldStore) Op() string   { return "store" }
func (*IntLit) Op() string       { return "int" }
func (*BoolLit) Op() string      { return "bool" }
func (*StringLit) Op() string    { return "string" }
func (*BinOp) Op() string        { return "binop" }
func (*UnOp) Op() string         { return "unop" }
func (*Call) Op() string         { return "call" }
func (*Syscall) Op() string      { return "syscall" }
func (*Return) Op() string       { return "return" }
func (*Label) Op() string        { return "label" }
func (*Goto) Op() string         { return "goto" }
func (*BranchIfTrue) Op() string { return "branch" }

func (i *Var) String() string       { return i.Type + " " + i.Name + ";" }
func (i *New) String() string       { return i.Dst + " = new " + i.Class + "();" }
func (i *Assign) String() string    { return i.Dst + " = " + i.Src + ";" }
func (i *FieldLoad) String() string { return i.Dst + " = " + i.Object + "." + i.Field + ";" }
func (i *FieldStore) String() string {
	return i.Object + "." + i.Field + " = " + i.Value + ";"
}
func (i *IntLit) String() string    { return i.Dst + " = " + strconv.FormatInt(i.Value, 10) + ";" }
func (i *BoolLit) String() string   { return i.Dst + " = " + strconv.FormatBool(i.Value) + ";" }
func (i *StringLit) String() string { return i.Dst + " = " + strconv.Quote(i.Value) + ";" }
func (i *BinOp) String() string {
	return i.Dst + " = " + i.Left + " " + i.Operator + " " + i.Right + ";"
}
func (i *UnOp) String() string { return i.Dst + " = " + i.Operator + i.Operand + ";" }
func (i *Call) String() string {
	return i.Dst + " = " + i.Target + "(" + strings.Join(i.Args, ", ") + ");"
}
func (i *Syscall) String() string { return i.Name + "(" + strings.Join(i.Args, ", ") + ");" }
func (i *Return) String() string {
	if i.Value == "" {
		return "return;"
	}
	return "return " + i.Value + ";"
}
func (i *Label) String() string        { return i.Name + ":" }
func (i *Goto) String() string         { return "goto " + i.Label + ";" }
func (i *BranchIfTrue) String() string { return "if (" + i.Cond + ") goto " + i.Label + ";" }

// Method returns the lowered method with the given qualified name
func (p *Program) Method(name string) *Method {
	for _, m := range p.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Executable returns the body without its leading declarations
func (m *Method) Executable() []Instr {
	for i, instr := range m.Body {
		if _, ok := instr.(*Var); !ok {
			return m.Body[i:]
		}
	}
	return nil
}

// Temps returns the leading temporary declarations of the body
func (m *Method) Temps() []*Var {
	var out []*Var
	for _, instr := range m.Body {
		v, ok := instr.(*Var)
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
