// Package astjson decodes programs from their JSON form. Every statement
// and expression object carries a "kind" discriminator; positions are
// optional "line" and "column" members on any node.
package astjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/lhaig/jlite/internal/ast"
)

type rawProgram struct {
	Main    *rawClass   `json:"main"`
	Classes []*rawClass `json:"classes"`
}

type rawClass struct {
	Name    string       `json:"name"`
	Fields  []*rawDecl   `json:"fields"`
	Methods []*rawMethod `json:"methods"`
	Line    int          `json:"line"`
	Column  int          `json:"column"`
}

// rawDecl is a field, parameter or local declaration
type rawDecl struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type rawMethod struct {
	Name    string     `json:"name"`
	Returns string     `json:"returns"`
	Params  []*rawDecl `json:"params"`
	Vars    []*rawDecl `json:"vars"`
	Body    []*rawNode `json:"body"`
	Line    int        `json:"line"`
	Column  int        `json:"column"`
}

// rawNode holds any statement or expression. Value is a literal for
// literal kinds and a nested node for assignments and returns.
type rawNode struct {
	Kind    string          `json:"kind"`
	Name    string          `json:"name"`
	Target  string          `json:"target"`
	Field   string          `json:"field"`
	Member  string          `json:"member"`
	Class   string          `json:"class"`
	Op      string          `json:"op"`
	Value   json.RawMessage `json:"value"`
	Cond    *rawNode        `json:"cond"`
	Then    []*rawNode      `json:"then"`
	Else    []*rawNode      `json:"else"`
	Body    []*rawNode      `json:"body"`
	Object  *rawNode        `json:"object"`
	Left    *rawNode        `json:"left"`
	Right   *rawNode        `json:"right"`
	Operand *rawNode        `json:"operand"`
	Callee  *rawNode        `json:"callee"`
	Expr    *rawNode        `json:"expr"`
	Args    []*rawNode      `json:"args"`
	Line    int             `json:"line"`
	Column  int             `json:"column"`
}

var binaryOps = map[string]ast.Operator{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv,
	">": ast.OpGT, ">=": ast.OpGEQ, "<": ast.OpLT, "<=": ast.OpLEQ,
	"==": ast.OpEQ, "!=": ast.OpNEQ, "&&": ast.OpAnd, "||": ast.OpOr,
}

var unaryOps = map[string]ast.Operator{"-": ast.OpNeg, "!": ast.OpNot}

// Decode reads one JSON program from r and numbers its nodes. Errors
// name the JSON path of the offending node, e.g. "classes[1].methods[0].body[2]".
func Decode(r io.Reader) (*ast.Program, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var raw rawProgram
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if raw.Main == nil {
		return nil, errors.New("decode program: missing main class")
	}

	prog := &ast.Program{}
	var err error
	if prog.Main, err = convertClass(raw.Main, "main"); err != nil {
		return nil, err
	}
	for i, c := range raw.Classes {
		class, err := convertClass(c, fmt.Sprintf("classes[%d]", i))
		if err != nil {
			return nil, err
		}
		prog.Classes = append(prog.Classes, class)
	}

	ast.Renumber(prog)
	return prog, nil
}

func convertClass(c *rawClass, path string) (*ast.Class, error) {
	if c == nil {
		return nil, fmt.Errorf("%s: null class", path)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%s: class has no name", path)
	}
	class := &ast.Class{Name: c.Name, Line: c.Line, Column: c.Column}
	for i, f := range c.Fields {
		p := fmt.Sprintf("%s.fields[%d]", path, i)
		if err := checkDecl(f, p); err != nil {
			return nil, err
		}
		class.Fields = append(class.Fields, &ast.Field{
			Type: typeRef(f), Name: f.Name, Line: f.Line, Column: f.Column,
		})
	}
	for i, m := range c.Methods {
		method, err := convertMethod(m, fmt.Sprintf("%s.methods[%d]", path, i))
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, method)
	}
	return class, nil
}

func checkDecl(d *rawDecl, path string) error {
	if d == nil {
		return fmt.Errorf("%s: null declaration", path)
	}
	if d.Type == "" || d.Name == "" {
		return fmt.Errorf("%s: declaration needs a type and a name", path)
	}
	return nil
}

func typeRef(d *rawDecl) *ast.TypeRef {
	return &ast.TypeRef{Name: d.Type, Line: d.Line, Column: d.Column}
}

func convertMethod(m *rawMethod, path string) (*ast.Method, error) {
	if m == nil {
		return nil, fmt.Errorf("%s: null method", path)
	}
	if m.Name == "" || m.Returns == "" {
		return nil, fmt.Errorf("%s: method needs a name and a return type", path)
	}

	method := &ast.Method{
		Name:       m.Name,
		ReturnType: &ast.TypeRef{Name: m.Returns, Line: m.Line, Column: m.Column},
		Body:       &ast.Body{Line: m.Line, Column: m.Column},
		Line:       m.Line,
		Column:     m.Column,
	}
	for i, p := range m.Params {
		if err := checkDecl(p, fmt.Sprintf("%s.params[%d]", path, i)); err != nil {
			return nil, err
		}
		method.Params = append(method.Params, &ast.Param{
			Type: typeRef(p), Name: p.Name, Line: p.Line, Column: p.Column,
		})
	}
	for i, v := range m.Vars {
		if err := checkDecl(v, fmt.Sprintf("%s.vars[%d]", path, i)); err != nil {
			return nil, err
		}
		method.Body.Vars = append(method.Body.Vars, &ast.VarDecl{
			Type: typeRef(v), Name: v.Name, Line: v.Line, Column: v.Column,
		})
	}

	stmts, err := convertStmts(m.Body, path+".body")
	if err != nil {
		return nil, err
	}
	method.Body.Statements = stmts
	return method, nil
}

func convertStmts(nodes []*rawNode, path string) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for i, n := range nodes {
		stmt, err := convertStmt(n, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func convertBlock(nodes []*rawNode, path string) (*ast.Block, error) {
	stmts, err := convertStmts(nodes, path)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts}, nil
}

// nested decodes a node carried in a "value" member; absent or null
// values yield nil.
func nested(value json.RawMessage, path string) (*rawNode, error) {
	if len(value) == 0 || string(value) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	var n rawNode
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &n, nil
}

func convertStmt(n *rawNode, path string) (ast.Statement, error) {
	if n == nil {
		return nil, fmt.Errorf("%s: null statement", path)
	}
	line, col := n.Line, n.Column

	switch n.Kind {
	case "if":
		cond, err := convertExpr(n.Cond, path+".cond")
		if err != nil {
			return nil, err
		}
		then, err := convertBlock(n.Then, path+".then")
		if err != nil {
			return nil, err
		}
		els, err := convertBlock(n.Else, path+".else")
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Condition: cond, Then: then, Else: els, Line: line, Column: col}, nil

	case "while":
		cond, err := convertExpr(n.Cond, path+".cond")
		if err != nil {
			return nil, err
		}
		body, err := convertBlock(n.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Condition: cond, Body: body, Line: line, Column: col}, nil

	case "assign":
		if n.Target == "" {
			return nil, fmt.Errorf("%s: assignment has no target", path)
		}
		value, err := valueExpr(n.Value, path+".value")
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, fmt.Errorf("%s: assignment has no value", path)
		}
		target := &ast.Identifier{Name: n.Target, Line: line, Column: col}
		return &ast.AssignStmt{Target: target, Value: value, Line: line, Column: col}, nil

	case "fieldassign":
		obj, err := convertExpr(n.Object, path+".object")
		if err != nil {
			return nil, err
		}
		if n.Field == "" {
			return nil, fmt.Errorf("%s: field assignment has no field", path)
		}
		value, err := valueExpr(n.Value, path+".value")
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, fmt.Errorf("%s: field assignment has no value", path)
		}
		return &ast.FieldAssignStmt{Object: obj, Field: n.Field, Value: value, Line: line, Column: col}, nil

	case "return":
		value, err := valueExpr(n.Value, path+".value")
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: value, Line: line, Column: col}, nil

	case "syscall":
		args, err := convertExprs(n.Args, path+".args")
		if err != nil {
			return nil, err
		}
		return &ast.SyscallStmt{Name: n.Name, Args: args, Line: line, Column: col}, nil

	case "expr":
		expr, err := convertExpr(n.Expr, path+".expr")
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Line: line, Column: col}, nil

	default:
		return nil, fmt.Errorf("%s: unknown statement kind %q", path, n.Kind)
	}
}

func valueExpr(value json.RawMessage, path string) (ast.Expression, error) {
	n, err := nested(value, path)
	if err != nil || n == nil {
		return nil, err
	}
	return convertExpr(n, path)
}

func convertExprs(nodes []*rawNode, path string) ([]ast.Expression, error) {
	var exprs []ast.Expression
	for i, n := range nodes {
		expr, err := convertExpr(n, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func convertExpr(n *rawNode, path string) (ast.Expression, error) {
	if n == nil {
		return nil, fmt.Errorf("%s: missing expression", path)
	}
	line, col := n.Line, n.Column

	switch n.Kind {
	case "ident":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: identifier has no name", path)
		}
		return &ast.Identifier{Name: n.Name, Line: line, Column: col}, nil

	case "this":
		return &ast.Identifier{Name: ast.ThisName, Line: line, Column: col}, nil

	case "int":
		v, err := strconv.ParseInt(string(n.Value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad integer literal: %w", path, err)
		}
		return &ast.IntLit{Value: v, Line: line, Column: col}, nil

	case "bool":
		var v bool
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("%s: bad boolean literal: %w", path, err)
		}
		return &ast.BoolLit{Value: v, Line: line, Column: col}, nil

	case "string":
		var v string
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("%s: bad string literal: %w", path, err)
		}
		return &ast.StringLit{Value: v, Line: line, Column: col}, nil

	case "binary":
		op, ok := binaryOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("%s: unknown binary operator %q", path, n.Op)
		}
		left, err := convertExpr(n.Left, path+".left")
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(n.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Left: left, Op: op, Right: right, Line: line, Column: col}, nil

	case "unary":
		op, ok := unaryOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("%s: unknown unary operator %q", path, n.Op)
		}
		operand, err := convertExpr(n.Operand, path+".operand")
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand, Line: line, Column: col}, nil

	case "new":
		if n.Class == "" {
			return nil, fmt.Errorf("%s: new has no class", path)
		}
		return &ast.NewExpr{Class: n.Class, Line: line, Column: col}, nil

	case "access":
		obj, err := convertExpr(n.Object, path+".object")
		if err != nil {
			return nil, err
		}
		if n.Member == "" {
			return nil, fmt.Errorf("%s: access has no member", path)
		}
		return &ast.AccessExpr{Object: obj, Member: n.Member, Line: line, Column: col}, nil

	case "call":
		callee, err := convertExpr(n.Callee, path+".callee")
		if err != nil {
			return nil, err
		}
		switch callee.(type) {
		case *ast.Identifier, *ast.AccessExpr:
		default:
			return nil, fmt.Errorf("%s: callee must be an identifier or an access", path)
		}
		args, err := convertExprs(n.Args, path+".args")
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: callee, Args: args, Line: line, Column: col}, nil

	default:
		return nil, fmt.Errorf("%s: unknown expression kind %q", path, n.Kind)
	}
}
