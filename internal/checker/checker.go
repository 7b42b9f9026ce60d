package checker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
	"github.com/lhaig/jlite/internal/types"
)

// Checker type checks the methods of one class and records the type of
// every expression it visits. Checking stops at the first error.
type Checker struct {
	registry *types.Registry
	class    *types.Class
	method   *types.Method // method being checked
	ann      *Annotations
}

// Result holds the results of type checking for use by later pipeline stages
type Result struct {
	Registry    *types.Registry
	Annotations *Annotations
}

// CheckWithResult runs the structural checks, indexes the program and
// type checks it.
func CheckWithResult(prog *ast.Program) (*Result, error) {
	if err := CheckStructure(prog); err != nil {
		return nil, err
	}
	reg, err := types.Index(prog)
	if err != nil {
		return nil, err
	}
	ann, err := Check(prog, reg)
	if err != nil {
		return nil, err
	}
	return &Result{Registry: reg, Annotations: ann}, nil
}

// Check type checks every class of prog against a frozen registry and
// returns the merged annotation map. Classes are checked independently,
// each into its own map.
func Check(prog *ast.Program, reg *types.Registry) (*Annotations, error) {
	if !reg.Frozen() {
		return nil, diagnostic.Errorf(diagnostic.Internal, 0, 0, "registry is still being indexed")
	}

	global := NewScope(reg)
	all := NewAnnotations()
	for _, decl := range prog.AllClasses() {
		info, ok := reg.Class(decl.Name)
		if !ok {
			line, col := decl.Pos()
			return nil, diagnostic.Errorf(diagnostic.Internal, line, col, "class '%s' was not indexed", decl.Name)
		}
		c := &Checker{registry: reg, class: info, ann: NewAnnotations()}
		if err := c.checkClass(decl, global); err != nil {
			return nil, err
		}
		if err := all.Merge(c.ann); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// classScope binds the fields and methods of the class being checked
func (c *Checker) classScope(global *Scope) *Scope {
	syms := make([]*Symbol, 0, len(c.class.FieldOrder)+len(c.class.MethodOrder))
	for _, name := range c.class.FieldOrder {
		syms = append(syms, &Symbol{Name: name, Kind: SymField, Class: c.class.Fields[name]})
	}
	for _, name := range c.class.MethodOrder {
		syms = append(syms, &Symbol{Name: name, Kind: SymMethod, Method: c.class.Methods[name]})
	}
	return global.Extend(ScopeClass, syms...)
}

func (c *Checker) checkClass(decl *ast.Class, global *Scope) error {
	scope := c.classScope(global)
	for _, m := range decl.Methods {
		if err := c.checkMethod(m, scope); err != nil {
			return fmt.Errorf("%s: %w", types.QualifiedName(decl.Name, m.Name), err)
		}
	}
	return nil
}

func (c *Checker) checkMethod(decl *ast.Method, classScope *Scope) error {
	line, col := decl.Pos()
	qualified := types.QualifiedName(c.class.Name, decl.Name)
	method, ok := c.registry.Method(qualified)
	if !ok {
		return diagnostic.Errorf(diagnostic.Internal, line, col, "method '%s' was not indexed", qualified)
	}
	c.method = method

	params := make([]*Symbol, 0, len(decl.Params)+1)
	params = append(params, &Symbol{Name: ast.ThisName, Kind: SymThis, Class: c.class})
	for _, p := range decl.Params {
		t, ok := classScope.Registry().Class(typeName(p.Type))
		if !ok {
			pl, pc := p.Pos()
			return diagnostic.Errorf(diagnostic.UnresolvedName, pl, pc,
				"unknown type '%s' for parameter '%s'", typeName(p.Type), p.Name)
		}
		params = append(params, &Symbol{Name: p.Name, Kind: SymParam, Class: t})
	}
	scope := classScope.Extend(ScopeMethod, params...)

	// The bound parameters must agree with the indexed signature
	if bound := paramSignature(scope); bound != method.Signature() {
		return diagnostic.Errorf(diagnostic.Internal, line, col,
			"method '%s' binds parameters %s but was indexed as %s", qualified, bound, method.Signature())
	}

	if decl.Body == nil {
		return nil
	}

	locals := make([]*Symbol, 0, len(decl.Body.Vars))
	for _, v := range decl.Body.Vars {
		t, ok := scope.Registry().Class(typeName(v.Type))
		if !ok {
			line, col := v.Pos()
			return diagnostic.Errorf(diagnostic.UnresolvedName, line, col,
				"unknown type '%s' for local '%s'", typeName(v.Type), v.Name)
		}
		locals = append(locals, &Symbol{Name: v.Name, Kind: SymVariable, Class: t})
	}
	scope = scope.Extend(ScopeBlock, locals...)

	return c.checkStatements(decl.Body.Statements, scope)
}

// paramSignature renders the parameters visible in a method scope in the
// form of types.Method.Signature.
func paramSignature(scope *Scope) string {
	var names []string
	for _, sym := range scope.Vars() {
		if sym.Kind == SymParam {
			names = append(names, sym.Class.Name)
		}
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func typeName(ref *ast.TypeRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}

func (c *Checker) checkBlock(block *ast.Block, scope *Scope) error {
	if block == nil {
		return nil
	}
	return c.checkStatements(block.Statements, scope)
}

func (c *Checker) checkStatements(stmts []ast.Statement, scope *Scope) error {
	for _, stmt := range stmts {
		if err := c.checkStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

// checkStatement checks a single statement
func (c *Checker) checkStatement(stmt ast.Statement, scope *Scope) error {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		if err := c.checkCondition("if", s.Condition, scope); err != nil {
			return err
		}
		if err := c.checkBlock(s.Then, scope); err != nil {
			return err
		}
		return c.checkBlock(s.Else, scope)
	case *ast.WhileStmt:
		if err := c.checkCondition("while", s.Condition, scope); err != nil {
			return err
		}
		return c.checkBlock(s.Body, scope)
	case *ast.AssignStmt:
		return c.checkAssignStmt(s, scope)
	case *ast.FieldAssignStmt:
		return c.checkFieldAssignStmt(s, scope)
	case *ast.ReturnStmt:
		return c.checkReturnStmt(s, scope)
	case *ast.SyscallStmt:
		return c.checkSyscallStmt(s, scope)
	case *ast.ExprStmt:
		_, err := c.checkValue(s.Expr, scope)
		return err
	default:
		line, col := stmt.Pos()
		return diagnostic.Errorf(diagnostic.Internal, line, col, "unexpected statement %T", stmt)
	}
}

func (c *Checker) checkCondition(what string, cond ast.Expression, scope *Scope) error {
	t, err := c.checkValue(cond, scope)
	if err != nil {
		return err
	}
	if t.Name != types.Bool {
		line, col := cond.Pos()
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"%s condition must be Bool, got %s", what, t.Name)
	}
	return nil
}

// checkAssignStmt checks an assignment to a bare name
func (c *Checker) checkAssignStmt(stmt *ast.AssignStmt, scope *Scope) error {
	line, col := stmt.Pos()
	if stmt.Target == nil {
		return diagnostic.Errorf(diagnostic.Internal, line, col, "assignment has no target")
	}
	name := stmt.Target.Name

	sym, ok := scope.Resolve(name)
	if !ok {
		return diagnostic.Errorf(diagnostic.UnresolvedName, line, col, "'%s' is not declared", name)
	}
	switch sym.Kind {
	case SymMethod:
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col, "cannot assign to method '%s'", name)
	case SymThis:
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col, "cannot assign to 'this'")
	}
	if err := c.ann.record(stmt.Target, sym.Class.Name); err != nil {
		return err
	}

	valueType, err := c.checkValue(stmt.Value, scope)
	if err != nil {
		return err
	}
	if valueType.Name != sym.Class.Name {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"cannot assign %s to '%s' of type %s", valueType.Name, name, sym.Class.Name)
	}
	return c.ann.record(stmt, sym.Class.Name)
}

// checkFieldAssignStmt checks an assignment to a field of an explicit receiver
func (c *Checker) checkFieldAssignStmt(stmt *ast.FieldAssignStmt, scope *Scope) error {
	line, col := stmt.Pos()
	recv, err := c.checkValue(stmt.Object, scope)
	if err != nil {
		return err
	}
	fieldType, ok := recv.Field(stmt.Field)
	if !ok {
		return diagnostic.Errorf(diagnostic.UnresolvedName, line, col,
			"class '%s' has no field '%s'", recv.Name, stmt.Field)
	}

	valueType, err := c.checkValue(stmt.Value, scope)
	if err != nil {
		return err
	}
	if valueType.Name != fieldType.Name {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"cannot assign %s to field '%s::%s' of type %s", valueType.Name, recv.Name, stmt.Field, fieldType.Name)
	}
	return c.ann.record(stmt, fieldType.Name)
}

// checkReturnStmt checks a return against the declared return type
func (c *Checker) checkReturnStmt(stmt *ast.ReturnStmt, scope *Scope) error {
	line, col := stmt.Pos()
	want := c.method.Return.Name

	if stmt.Value == nil {
		if want != types.Void {
			return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
				"missing return value, %s returns %s", c.method.Name, want)
		}
		return nil
	}

	t, err := c.checkValue(stmt.Value, scope)
	if err != nil {
		return err
	}
	if t.Name != want {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"cannot return %s from %s, expected %s", t.Name, c.method.Name, want)
	}
	return c.ann.record(stmt, t.Name)
}

// checkSyscallStmt checks readln and println
func (c *Checker) checkSyscallStmt(stmt *ast.SyscallStmt, scope *Scope) error {
	line, col := stmt.Pos()
	if stmt.Name != ast.SysReadln && stmt.Name != ast.SysPrintln {
		return diagnostic.Errorf(diagnostic.UnresolvedName, line, col, "unknown builtin '%s'", stmt.Name)
	}
	if len(stmt.Args) != 1 {
		return diagnostic.Errorf(diagnostic.SignatureMismatch, line, col,
			"%s() expects 1 argument, got %d", stmt.Name, len(stmt.Args))
	}
	arg := stmt.Args[0]

	if stmt.Name == ast.SysPrintln {
		t, err := c.checkValue(arg, scope)
		if err != nil {
			return err
		}
		if !types.IsPrimitive(t.Name) {
			return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
				"println() cannot print %s", t.Name)
		}
		return nil
	}

	ident, ok := arg.(*ast.Identifier)
	if !ok {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col, "readln() requires a variable")
	}
	sym, ok := scope.Resolve(ident.Name)
	if !ok {
		return diagnostic.Errorf(diagnostic.UnresolvedName, line, col, "'%s' is not declared", ident.Name)
	}
	if sym.Kind == SymMethod || sym.Kind == SymThis {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col, "readln() cannot read into '%s'", ident.Name)
	}
	if !types.IsPrimitive(sym.Class.Name) {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"readln() cannot read %s into '%s'", sym.Class.Name, ident.Name)
	}
	return c.ann.record(ident, sym.Class.Name)
}

// checkValue checks an expression used as a value. Methods are not values.
func (c *Checker) checkValue(expr ast.Expression, scope *Scope) (*types.Class, error) {
	t, err := c.checkExpression(expr, scope)
	if err != nil {
		return nil, err
	}
	class, ok := t.(*types.Class)
	if !ok {
		line, col := expr.Pos()
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"method '%s' used as a value", t.TypeName())
	}
	return class, nil
}

func (c *Checker) annotate(expr ast.Expression, t types.Type, err error) (types.Type, error) {
	if err != nil {
		return nil, err
	}
	if err := c.ann.record(expr, t.TypeName()); err != nil {
		return nil, err
	}
	return t, nil
}

// checkExpression infers and records the type of an expression
func (c *Checker) checkExpression(expr ast.Expression, scope *Scope) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return c.annotate(e, c.builtin(types.Int), nil)
	case *ast.BoolLit:
		return c.annotate(e, c.builtin(types.Bool), nil)
	case *ast.StringLit:
		return c.annotate(e, c.builtin(types.String), nil)
	case *ast.Identifier:
		t, err := c.checkIdentifier(e, scope)
		return c.annotate(e, t, err)
	case *ast.BinaryExpr:
		t, err := c.checkBinaryExpr(e, scope)
		return c.annotate(e, t, err)
	case *ast.UnaryExpr:
		t, err := c.checkUnaryExpr(e, scope)
		return c.annotate(e, t, err)
	case *ast.NewExpr:
		t, err := c.checkNewExpr(e)
		return c.annotate(e, t, err)
	case *ast.AccessExpr:
		t, err := c.checkAccessExpr(e, scope)
		return c.annotate(e, t, err)
	case *ast.CallExpr:
		t, err := c.checkCallExpr(e, scope)
		return c.annotate(e, t, err)
	case nil:
		return nil, diagnostic.Errorf(diagnostic.Internal, 0, 0, "missing expression")
	default:
		line, col := expr.Pos()
		return nil, diagnostic.Errorf(diagnostic.Internal, line, col, "unexpected expression %T", expr)
	}
}

func (c *Checker) builtin(name string) *types.Class {
	t, _ := c.registry.Class(name)
	return t
}

// checkIdentifier resolves a bare name: a variable, then a method
func (c *Checker) checkIdentifier(expr *ast.Identifier, scope *Scope) (types.Type, error) {
	sym, ok := scope.Resolve(expr.Name)
	if !ok {
		line, col := expr.Pos()
		return nil, diagnostic.Errorf(diagnostic.UnresolvedName, line, col, "'%s' is not declared", expr.Name)
	}
	return sym.Type(), nil
}

// checkBinaryExpr checks a binary expression
func (c *Checker) checkBinaryExpr(expr *ast.BinaryExpr, scope *Scope) (types.Type, error) {
	left, err := c.checkValue(expr.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := c.checkValue(expr.Right, scope)
	if err != nil {
		return nil, err
	}

	line, col := expr.Pos()
	mismatch := func() error {
		return diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"operator '%s' not defined for %s and %s", expr.Op, left.Name, right.Name)
	}

	switch expr.Op {
	case ast.OpAdd:
		// Int + Int, String + String
		if left.Name == right.Name && (left.Name == types.Int || left.Name == types.String) {
			return left, nil
		}
		return nil, mismatch()

	case ast.OpSub, ast.OpMul, ast.OpDiv:
		if left.Name == types.Int && right.Name == types.Int {
			return left, nil
		}
		return nil, mismatch()

	case ast.OpGT, ast.OpGEQ, ast.OpLT, ast.OpLEQ:
		if left.Name == types.Int && right.Name == types.Int {
			return c.builtin(types.Bool), nil
		}
		return nil, mismatch()

	case ast.OpEQ, ast.OpNEQ:
		if left.Name == right.Name && types.IsPrimitive(left.Name) {
			return c.builtin(types.Bool), nil
		}
		return nil, mismatch()

	case ast.OpAnd, ast.OpOr:
		if left.Name == types.Bool && right.Name == types.Bool {
			return left, nil
		}
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"operator '%s' requires boolean operands, got %s and %s", expr.Op, left.Name, right.Name)

	default:
		return nil, diagnostic.Errorf(diagnostic.Internal, line, col, "unknown binary operator '%s'", expr.Op)
	}
}

// checkUnaryExpr checks a unary expression
func (c *Checker) checkUnaryExpr(expr *ast.UnaryExpr, scope *Scope) (types.Type, error) {
	operand, err := c.checkValue(expr.Operand, scope)
	if err != nil {
		return nil, err
	}

	line, col := expr.Pos()

	switch expr.Op {
	case ast.OpNeg:
		if operand.Name == types.Int {
			return operand, nil
		}
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"unary '-' not defined for %s", operand.Name)

	case ast.OpNot:
		if operand.Name == types.Bool {
			return operand, nil
		}
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"unary '!' requires boolean operand, got %s", operand.Name)

	default:
		return nil, diagnostic.Errorf(diagnostic.Internal, line, col, "unknown unary operator '%s'", expr.Op)
	}
}

// checkNewExpr checks an instantiation of a declared class
func (c *Checker) checkNewExpr(expr *ast.NewExpr) (types.Type, error) {
	line, col := expr.Pos()
	t, ok := c.registry.Lookup(expr.Class)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.UnresolvedName, line, col, "unknown class '%s'", expr.Class)
	}
	class, ok := t.(*types.Class)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"cannot instantiate method %s", expr.Class)
	}
	if types.IsBuiltin(expr.Class) {
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"cannot instantiate built-in type %s", expr.Class)
	}
	return class, nil
}

// checkAccessExpr resolves a member of the receiver's class: a field,
// then a method
func (c *Checker) checkAccessExpr(expr *ast.AccessExpr, scope *Scope) (types.Type, error) {
	recv, err := c.checkValue(expr.Object, scope)
	if err != nil {
		return nil, err
	}
	if t, ok := recv.Field(expr.Member); ok {
		return t, nil
	}
	if m, ok := recv.Method(expr.Member); ok {
		return m, nil
	}
	line, col := expr.Pos()
	return nil, diagnostic.Errorf(diagnostic.UnresolvedName, line, col,
		"class '%s' has no member '%s'", recv.Name, expr.Member)
}

// checkCallExpr checks a method call against the callee's signature
func (c *Checker) checkCallExpr(expr *ast.CallExpr, scope *Scope) (types.Type, error) {
	line, col := expr.Pos()

	calleeType, err := c.checkExpression(expr.Callee, scope)
	if err != nil {
		return nil, err
	}
	method, ok := calleeType.(*types.Method)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.TypeMismatch, line, col,
			"cannot call a value of type %s", calleeType.TypeName())
	}

	got := make([]string, 0, len(expr.Args))
	for _, arg := range expr.Args {
		t, err := c.checkValue(arg, scope)
		if err != nil {
			return nil, err
		}
		got = append(got, t.Name)
	}

	if !slices.Equal(method.ParamNames(), got) {
		return nil, diagnostic.Errorf(diagnostic.SignatureMismatch, line, col,
			"%s expected %s got (%s)", method.Name, method.Signature(), strings.Join(got, ", "))
	}
	return method.Return, nil
}
