package checker

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
	"github.com/lhaig/jlite/internal/types"
)

func checkProgram(t *testing.T, prog *ast.Program) (*Annotations, error) {
	t.Helper()
	res, err := CheckWithResult(prog)
	if err != nil {
		return nil, err
	}
	if !res.Registry.Frozen() {
		t.Fatalf("registry returned unfrozen")
	}
	return res.Annotations, nil
}

// mainWith wraps statements in the entry method of a program that also
// declares a Point class and a helper method add(Int, Int) Int.
func mainWith(b *ast.Builder, vars []*ast.VarDecl, stmts ...ast.Statement) *ast.Program {
	point := b.Class("Point",
		[]*ast.Field{b.Field("Int", "x"), b.Field("Point", "next")},
		b.Method("getX", "Int", nil, b.Body(nil, b.Return(b.Ident("x")))),
	)
	add := b.Method("add", "Int",
		[]*ast.Param{b.Param("Int", "a"), b.Param("Int", "b")},
		b.Body(nil, b.Return(b.Binary(ast.OpAdd, b.Ident("a"), b.Ident("b")))),
	)
	main := b.Class("main",
		[]*ast.Field{b.Field("Int", "count")},
		b.Method("main", "Void", nil, b.Body(vars, stmts...)),
		add,
	)
	return b.Program(main, point)
}

func TestValidProgram(t *testing.T) {
	b := ast.NewBuilder()
	call := b.Call(b.Access(b.This(), "add"), b.Int(1), b.Int(2))
	p := b.Access(b.Ident("p"), "x")
	prog := mainWith(b, []*ast.VarDecl{b.Var("Point", "p"), b.Var("Int", "n")},
		b.Assign("p", b.New("Point")),
		b.Assign("n", call),
		b.FieldAssign(b.Ident("p"), "x", b.Ident("n")),
		b.If(b.Binary(ast.OpLT, p, b.Int(10)),
			b.Block(b.Syscall(ast.SysPrintln, b.Str("small"))),
			b.Block(b.Syscall(ast.SysReadln, b.Ident("count"))),
		),
		b.While(b.Bool(false), b.Block(b.Return(nil))),
	)

	ann, err := checkProgram(t, prog)
	be.Err(t, err, nil)

	got, ok := ann.Lookup(call)
	be.True(t, ok)
	be.Equal(t, types.Int, got)

	got, _ = ann.Lookup(call.Callee)
	be.Equal(t, "main::add", got)

	got, _ = ann.Lookup(p)
	be.Equal(t, types.Int, got)
}

func TestIdenticalLiteralsAnnotatedSeparately(t *testing.T) {
	b := ast.NewBuilder()
	first, second := b.Int(1), b.Int(1)
	prog := mainWith(b, nil,
		b.Syscall(ast.SysPrintln, first),
		b.Syscall(ast.SysPrintln, second),
	)

	ann, err := checkProgram(t, prog)
	be.Err(t, err, nil)

	be.True(t, first.ID() != second.ID())
	_, ok := ann.Lookup(first)
	be.True(t, ok)
	_, ok = ann.Lookup(second)
	be.True(t, ok)
}

func TestBinaryOperatorTyping(t *testing.T) {
	tests := []struct {
		name  string
		op    ast.Operator
		left  func(b *ast.Builder) ast.Expression
		right func(b *ast.Builder) ast.Expression
		want  string // empty when a mismatch is expected
	}{
		{"int plus", ast.OpAdd, intLit, intLit, types.Int},
		{"string concat", ast.OpAdd, strLit, strLit, types.String},
		{"int plus string", ast.OpAdd, intLit, strLit, ""},
		{"bool plus", ast.OpAdd, boolLit, boolLit, ""},
		{"int minus", ast.OpSub, intLit, intLit, types.Int},
		{"int times", ast.OpMul, intLit, intLit, types.Int},
		{"string times", ast.OpMul, strLit, strLit, ""},
		{"int div", ast.OpDiv, intLit, intLit, types.Int},
		{"int less", ast.OpLT, intLit, intLit, types.Bool},
		{"int geq", ast.OpGEQ, intLit, intLit, types.Bool},
		{"string less", ast.OpLT, strLit, strLit, ""},
		{"bool equal", ast.OpEQ, boolLit, boolLit, types.Bool},
		{"string not equal", ast.OpNEQ, strLit, strLit, types.Bool},
		{"int equal bool", ast.OpEQ, intLit, boolLit, ""},
		{"class equal", ast.OpEQ, newPoint, newPoint, ""},
		{"and", ast.OpAnd, boolLit, boolLit, types.Bool},
		{"int or", ast.OpOr, intLit, intLit, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			expr := b.Binary(tt.op, tt.left(b), tt.right(b))
			ann, err := checkProgram(t, mainWith(b, nil, b.ExprStmt(expr)))

			if tt.want == "" {
				be.True(t, diagnostic.Is(err, diagnostic.TypeMismatch))
				be.True(t, strings.Contains(err.Error(), "'"+string(tt.op)+"'"))
				return
			}
			be.Err(t, err, nil)
			got, _ := ann.Lookup(expr)
			be.Equal(t, tt.want, got)
		})
	}
}

func intLit(b *ast.Builder) ast.Expression   { return b.Int(3) }
func strLit(b *ast.Builder) ast.Expression   { return b.Str("s") }
func boolLit(b *ast.Builder) ast.Expression  { return b.Bool(true) }
func newPoint(b *ast.Builder) ast.Expression { return b.New("Point") }

func TestUnaryOperatorTyping(t *testing.T) {
	b := ast.NewBuilder()
	neg := b.Unary(ast.OpNeg, b.Int(1))
	not := b.Unary(ast.OpNot, b.Bool(true))
	ann, err := checkProgram(t, mainWith(b, nil, b.ExprStmt(neg), b.ExprStmt(not)))
	be.Err(t, err, nil)

	got, _ := ann.Lookup(neg)
	be.Equal(t, types.Int, got)
	got, _ = ann.Lookup(not)
	be.Equal(t, types.Bool, got)

	b = ast.NewBuilder()
	_, err = checkProgram(t, mainWith(b, nil, b.ExprStmt(b.Unary(ast.OpNeg, b.Bool(true)))))
	be.True(t, diagnostic.Is(err, diagnostic.TypeMismatch))
}

func TestCallSignature(t *testing.T) {
	b := ast.NewBuilder()
	bare := b.Call(b.Ident("add"), b.Int(1), b.Int(2))
	ann, err := checkProgram(t, mainWith(b, nil, b.ExprStmt(bare)))
	be.Err(t, err, nil)
	got, _ := ann.Lookup(bare)
	be.Equal(t, types.Int, got)

	b = ast.NewBuilder()
	bad := b.Call(b.Access(b.This(), "add"), b.Int(1), b.Bool(true))
	_, err = checkProgram(t, mainWith(b, nil, b.ExprStmt(bad)))
	be.True(t, diagnostic.Is(err, diagnostic.SignatureMismatch))
	be.True(t, strings.Contains(err.Error(), "expected (Int, Int) got (Int, Bool)"))

	b = ast.NewBuilder()
	short := b.Call(b.Ident("add"), b.Int(1))
	_, err = checkProgram(t, mainWith(b, nil, b.ExprStmt(short)))
	be.True(t, diagnostic.Is(err, diagnostic.SignatureMismatch))
}

func TestCallNonMethod(t *testing.T) {
	b := ast.NewBuilder()
	prog := mainWith(b, []*ast.VarDecl{b.Var("Int", "n")},
		b.ExprStmt(b.Call(b.Ident("n"))),
	)
	_, err := checkProgram(t, prog)
	be.True(t, diagnostic.Is(err, diagnostic.TypeMismatch))
}

func TestMethodIsNotAValue(t *testing.T) {
	tests := []struct {
		name string
		stmt func(b *ast.Builder) ast.Statement
	}{
		{"assign", func(b *ast.Builder) ast.Statement { return b.Assign("count", b.Ident("add")) }},
		{"print", func(b *ast.Builder) ast.Statement {
			return b.Syscall(ast.SysPrintln, b.Access(b.This(), "add"))
		}},
		{"operand", func(b *ast.Builder) ast.Statement {
			return b.ExprStmt(b.Binary(ast.OpAdd, b.Ident("add"), b.Int(1)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			_, err := checkProgram(t, mainWith(b, nil, tt.stmt(b)))
			be.True(t, diagnostic.Is(err, diagnostic.TypeMismatch))
			be.True(t, strings.Contains(err.Error(), "main::add"))
		})
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name string
		vars func(b *ast.Builder) []*ast.VarDecl
		stmt func(b *ast.Builder) ast.Statement
		kind diagnostic.Kind
	}{
		{
			name: "undeclared name",
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall(ast.SysPrintln, b.Ident("missing")) },
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "assign wrong type",
			stmt: func(b *ast.Builder) ast.Statement { return b.Assign("count", b.Bool(true)) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "assign to this",
			stmt: func(b *ast.Builder) ast.Statement { return b.Assign("this", b.New("main")) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "assign to undeclared",
			stmt: func(b *ast.Builder) ast.Statement { return b.Assign("nope", b.Int(1)) },
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "unknown field",
			stmt: func(b *ast.Builder) ast.Statement { return b.FieldAssign(b.New("Point"), "y", b.Int(1)) },
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "field wrong type",
			stmt: func(b *ast.Builder) ast.Statement { return b.FieldAssign(b.New("Point"), "x", b.Str("1")) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "member of builtin",
			stmt: func(b *ast.Builder) ast.Statement { return b.ExprStmt(b.Access(b.Int(1), "x")) },
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "if condition",
			stmt: func(b *ast.Builder) ast.Statement { return b.If(b.Int(1), b.Block(), b.Block()) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "error in else branch",
			stmt: func(b *ast.Builder) ast.Statement {
				return b.If(b.Bool(true), b.Block(), b.Block(b.Assign("count", b.Str("x"))))
			},
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "while condition",
			stmt: func(b *ast.Builder) ast.Statement { return b.While(b.Str("x"), b.Block()) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "return value from void",
			stmt: func(b *ast.Builder) ast.Statement { return b.Return(b.Int(1)) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "new builtin",
			stmt: func(b *ast.Builder) ast.Statement { return b.ExprStmt(b.New("Int")) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "new of a method",
			stmt: func(b *ast.Builder) ast.Statement { return b.ExprStmt(b.New("main::add")) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "new unknown class",
			stmt: func(b *ast.Builder) ast.Statement { return b.ExprStmt(b.New("Missing")) },
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "unknown local type",
			vars: func(b *ast.Builder) []*ast.VarDecl { return []*ast.VarDecl{b.Var("Missing", "m")} },
			stmt: func(b *ast.Builder) ast.Statement { return b.Return(nil) },
			kind: diagnostic.UnresolvedName,
		},
		{
			name: "println arity",
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall(ast.SysPrintln, b.Int(1), b.Int(2)) },
			kind: diagnostic.SignatureMismatch,
		},
		{
			name: "println object",
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall(ast.SysPrintln, b.New("Point")) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "readln literal",
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall(ast.SysReadln, b.Int(1)) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "readln this",
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall(ast.SysReadln, b.This()) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "readln object",
			vars: func(b *ast.Builder) []*ast.VarDecl { return []*ast.VarDecl{b.Var("Point", "p")} },
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall(ast.SysReadln, b.Ident("p")) },
			kind: diagnostic.TypeMismatch,
		},
		{
			name: "unknown builtin",
			stmt: func(b *ast.Builder) ast.Statement { return b.Syscall("exit", b.Int(1)) },
			kind: diagnostic.UnresolvedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			var vars []*ast.VarDecl
			if tt.vars != nil {
				vars = tt.vars(b)
			}
			ann, err := checkProgram(t, mainWith(b, vars, tt.stmt(b)))
			be.True(t, ann == nil)
			be.True(t, diagnostic.Is(err, tt.kind))
		})
	}
}

func TestMissingReturnValue(t *testing.T) {
	b := ast.NewBuilder()
	m := b.Method("f", "Int", nil, b.Body(nil, b.Return(nil)))
	prog := b.Program(b.Class("main", nil, m))

	_, err := checkProgram(t, prog)
	be.True(t, diagnostic.Is(err, diagnostic.TypeMismatch))
	be.True(t, strings.HasPrefix(err.Error(), "main::f: "))
}

func TestAssignmentAnnotations(t *testing.T) {
	b := ast.NewBuilder()
	local := b.Assign("n", b.Int(4))
	field := b.FieldAssign(b.This(), "count", b.Int(5))
	ret := b.Return(b.Binary(ast.OpAdd, b.Ident("a"), b.Ident("b")))
	add := b.Method("add", "Int", []*ast.Param{b.Param("Int", "a"), b.Param("Int", "b")}, b.Body(nil, ret))
	main := b.Class("main", []*ast.Field{b.Field("Int", "count")},
		b.Method("main", "Void", nil, b.Body([]*ast.VarDecl{b.Var("Int", "n")}, local, field)),
		add,
	)

	ann, err := checkProgram(t, b.Program(main))
	be.Err(t, err, nil)

	for _, n := range []ast.Node{local, local.Target, field, ret} {
		got, ok := ann.Lookup(n)
		be.True(t, ok)
		be.Equal(t, types.Int, got)
	}
}

func TestLocalShadowsField(t *testing.T) {
	b := ast.NewBuilder()
	use := b.Ident("count")
	prog := mainWith(b, []*ast.VarDecl{b.Var("String", "count")},
		b.Syscall(ast.SysPrintln, use),
	)
	ann, err := checkProgram(t, prog)
	be.Err(t, err, nil)
	got, _ := ann.Lookup(use)
	be.Equal(t, types.String, got)
}

func TestMemberAccessChain(t *testing.T) {
	b := ast.NewBuilder()
	chain := b.Access(b.Access(b.New("Point"), "next"), "x")
	getX := b.Call(b.Access(b.New("Point"), "getX"))
	ann, err := checkProgram(t, mainWith(b, nil, b.ExprStmt(chain), b.ExprStmt(getX)))
	be.Err(t, err, nil)

	got, _ := ann.Lookup(chain.Object)
	be.Equal(t, "Point", got)
	got, _ = ann.Lookup(chain)
	be.Equal(t, types.Int, got)
	got, _ = ann.Lookup(getX.Callee)
	be.Equal(t, "Point::getX", got)
}

func TestCheckRequiresFrozenRegistry(t *testing.T) {
	b := ast.NewBuilder()
	_, err := Check(b.Program(b.Class("main", nil)), &types.Registry{})
	be.True(t, diagnostic.Is(err, diagnostic.Internal))
}

func TestCheckRejectsMismatchedRegistry(t *testing.T) {
	b := ast.NewBuilder()
	prog := mainWith(b, nil, b.Return(nil))

	// same classes, but add indexed with a single parameter
	other := ast.NewBuilder()
	stale := other.Program(
		other.Class("main", []*ast.Field{other.Field("Int", "count")},
			other.Method("main", "Void", nil, other.Body(nil)),
			other.Method("add", "Int", []*ast.Param{other.Param("Int", "a")}, other.Body(nil)),
		),
		other.Class("Point", []*ast.Field{other.Field("Int", "x"), other.Field("Point", "next")},
			other.Method("getX", "Int", nil, other.Body(nil)),
		),
	)
	reg, err := types.Index(stale)
	be.Err(t, err, nil)

	_, err = Check(prog, reg)
	be.True(t, diagnostic.Is(err, diagnostic.Internal))
	be.True(t, strings.Contains(err.Error(), "method 'main::add' binds parameters (Int, Int) but was indexed as (Int)"))
}

func TestParamSignature(t *testing.T) {
	reg := testRegistry(t)
	intT, _ := reg.Class(types.Int)
	boolT, _ := reg.Class(types.Bool)
	mainT, _ := reg.Class("main")

	scope := NewScope(reg).
		Extend(ScopeClass, &Symbol{Name: "a", Kind: SymField, Class: intT}).
		Extend(ScopeMethod,
			&Symbol{Name: ast.ThisName, Kind: SymThis, Class: mainT},
			&Symbol{Name: "a", Kind: SymParam, Class: boolT},
			&Symbol{Name: "b", Kind: SymParam, Class: intT},
		)
	be.Equal(t, "(Bool, Int)", paramSignature(scope))
	be.Equal(t, "()", paramSignature(NewScope(reg)))
}
