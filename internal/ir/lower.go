package ir

import (
	"fmt"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/checker"
	"github.com/lhaig/jlite/internal/diagnostic"
	"github.com/lhaig/jlite/internal/types"
)

// lowerer transforms a checked AST into IR. One lowerer serves a whole
// program so temporary and label names never repeat.
type lowerer struct {
	ann     *checker.Annotations
	counter int

	// per-method state
	locals map[string]bool
}

// fragment is the lowered form of one AST node: the temporaries it
// introduced, its executable code and, for expressions, the name holding
// its value.
type fragment struct {
	ref   string
	decls []Instr
	code  []Instr
}

func (f *fragment) add(other fragment) {
	f.decls = append(f.decls, other.decls...)
	f.code = append(f.code, other.code...)
}

func (f *fragment) emit(instrs ...Instr) {
	f.code = append(f.code, instrs...)
}

// lowerError carries an internal failure out of the recursive walk.
type lowerError struct {
	err *diagnostic.CompileError
}

// Lower transforms a type checked program into an IR Program. The
// program must have passed the checker; a node without an annotation is
// reported as an Internal error.
func Lower(prog *ast.Program, result *checker.Result) (out *Program, err error) {
	if result == nil || result.Registry == nil || result.Annotations == nil {
		return nil, diagnostic.Errorf(diagnostic.Internal, 0, 0, "lowering requires a checked program")
	}

	defer func() {
		if r := recover(); r != nil {
			le, ok := r.(lowerError)
			if !ok {
				panic(r)
			}
			out, err = nil, le.err
		}
	}()

	l := &lowerer{ann: result.Annotations}
	out = &Program{}

	for _, c := range result.Registry.Classes() {
		out.Data = append(out.Data, lowerData(c))
	}
	for _, c := range prog.AllClasses() {
		for _, m := range c.Methods {
			out.Methods = append(out.Methods, l.lowerMethod(c, m))
		}
	}
	return out, nil
}

// lowerData lays out a class's fields in declaration order
func lowerData(c *types.Class) *Data {
	d := &Data{Name: c.Name}
	for _, name := range c.FieldOrder {
		d.Fields = append(d.Fields, &Field{Type: c.Fields[name].Name, Name: name})
	}
	return d
}

func (l *lowerer) fail(n ast.Node, format string, args ...interface{}) {
	line, col := 0, 0
	if n != nil {
		line, col = n.Pos()
	}
	panic(lowerError{err: diagnostic.Errorf(diagnostic.Internal, line, col, format, args...)})
}

// typeOf returns the annotated type of n
func (l *lowerer) typeOf(n ast.Node) string {
	t, ok := l.ann.Lookup(n)
	if !ok {
		l.fail(n, "%T (node %d) has no type annotation", n, n.ID())
	}
	return t
}

func (l *lowerer) next() int {
	l.counter++
	return l.counter
}

// temp declares a fresh temporary of the given type
func (l *lowerer) temp(f *fragment, typ string) string {
	name := fmt.Sprintf("%%t%d", l.next())
	f.decls = append(f.decls, &Var{Type: typ, Name: name})
	return name
}

func (l *lowerer) label() string {
	return fmt.Sprintf("%%L%d", l.next())
}

func (l *lowerer) lowerMethod(c *ast.Class, m *ast.Method) *Method {
	method := &Method{
		Class:  c.Name,
		Name:   types.QualifiedName(c.Name, m.Name),
		Return: m.ReturnType.Name,
	}

	l.locals = map[string]bool{ast.ThisName: true}
	method.Params = append(method.Params, &Var{Type: c.Name, Name: ast.ThisName})
	for _, p := range m.Params {
		method.Params = append(method.Params, &Var{Type: p.Type.Name, Name: p.Name})
		l.locals[p.Name] = true
	}

	var body fragment
	if m.Body != nil {
		for _, v := range m.Body.Vars {
			method.Locals = append(method.Locals, &Var{Type: v.Type.Name, Name: v.Name})
			l.locals[v.Name] = true
		}
		body = l.lowerStatements(m.Body.Statements)
	}

	method.Body = append(body.decls, body.code...)
	return method
}

func (l *lowerer) lowerBlock(block *ast.Block) fragment {
	if block == nil {
		return fragment{}
	}
	return l.lowerStatements(block.Statements)
}

func (l *lowerer) lowerStatements(stmts []ast.Statement) fragment {
	var f fragment
	for _, stmt := range stmts {
		f.add(l.lowerStmt(stmt))
	}
	return f
}

func (l *lowerer) lowerStmt(stmt ast.Statement) fragment {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		return l.lowerIf(s)
	case *ast.WhileStmt:
		return l.lowerWhile(s)
	case *ast.AssignStmt:
		return l.lowerAssign(s)
	case *ast.FieldAssignStmt:
		var f fragment
		obj := l.lowerExpr(s.Object)
		value := l.lowerExpr(s.Value)
		f.add(obj)
		f.add(value)
		f.emit(&FieldStore{Object: obj.ref, Field: s.Field, Value: value.ref})
		return f
	case *ast.ReturnStmt:
		if s.Value == nil {
			return fragment{code: []Instr{&Return{}}}
		}
		f := l.lowerExpr(s.Value)
		f.emit(&Return{Value: f.ref})
		f.ref = ""
		return f
	case *ast.SyscallStmt:
		return l.lowerSyscall(s)
	case *ast.ExprStmt:
		f := l.lowerExpr(s.Expr)
		f.ref = ""
		return f
	default:
		l.fail(stmt, "unexpected statement %T", stmt)
		return fragment{}
	}
}

// negate lowers cond followed by its negation into a fresh temporary
func (l *lowerer) negate(cond ast.Expression) fragment {
	f := l.lowerExpr(cond)
	nc := l.temp(&f, types.Bool)
	f.emit(&UnOp{Dst: nc, Operator: string(ast.OpNot), Operand: f.ref})
	f.ref = nc
	return f
}

// lowerIf emits: cond; nc = !c; if nc goto alt; then; goto end; alt: else; end:
func (l *lowerer) lowerIf(s *ast.IfStmt) fragment {
	var f fragment
	cond := l.negate(s.Condition)
	alt, end := l.label(), l.label()

	f.add(cond)
	f.emit(&BranchIfTrue{Cond: cond.ref, Label: alt})
	f.add(l.lowerBlock(s.Then))
	f.emit(&Goto{Label: end}, &Label{Name: alt})
	f.add(l.lowerBlock(s.Else))
	f.emit(&Label{Name: end})
	return f
}

// lowerWhile emits: start: cond; nc = !c; if nc goto end; body; goto start; end:
func (l *lowerer) lowerWhile(s *ast.WhileStmt) fragment {
	var f fragment
	start, end := l.label(), l.label()

	f.emit(&Label{Name: start})
	cond := l.negate(s.Condition)
	f.add(cond)
	f.emit(&BranchIfTrue{Cond: cond.ref, Label: end})
	f.add(l.lowerBlock(s.Body))
	f.emit(&Goto{Label: start}, &Label{Name: end})
	return f
}

func (l *lowerer) lowerAssign(s *ast.AssignStmt) fragment {
	if s.Target == nil {
		l.fail(s, "assignment has no target")
	}
	f := l.lowerExpr(s.Value)
	name := s.Target.Name
	if l.locals[name] {
		f.emit(&Assign{Dst: name, Src: f.ref})
	} else {
		f.emit(&FieldStore{Object: ast.ThisName, Field: name, Value: f.ref})
	}
	f.ref = ""
	return f
}

func (l *lowerer) lowerSyscall(s *ast.SyscallStmt) fragment {
	if len(s.Args) != 1 {
		l.fail(s, "%s expects 1 argument, got %d", s.Name, len(s.Args))
	}

	switch s.Name {
	case ast.SysPrintln:
		f := l.lowerExpr(s.Args[0])
		f.emit(&Syscall{Name: s.Name, Args: []string{f.ref}})
		f.ref = ""
		return f

	case ast.SysReadln:
		ident, ok := s.Args[0].(*ast.Identifier)
		if !ok {
			l.fail(s, "readln target is %T", s.Args[0])
		}
		if l.locals[ident.Name] {
			return fragment{code: []Instr{&Syscall{Name: s.Name, Args: []string{ident.Name}}}}
		}
		var f fragment
		tmp := l.temp(&f, l.typeOf(ident))
		f.emit(
			&Syscall{Name: s.Name, Args: []string{tmp}},
			&FieldStore{Object: ast.ThisName, Field: ident.Name, Value: tmp},
		)
		return f

	default:
		l.fail(s, "unknown builtin %q", s.Name)
		return fragment{}
	}
}

// lowerExpr lowers an expression; the returned fragment's ref names the
// value. Operand code always precedes the code consuming it.
func (l *lowerer) lowerExpr(expr ast.Expression) fragment {
	var f fragment

	switch e := expr.(type) {
	case *ast.IntLit:
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&IntLit{Dst: f.ref, Value: e.Value})

	case *ast.BoolLit:
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&BoolLit{Dst: f.ref, Value: e.Value})

	case *ast.StringLit:
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&StringLit{Dst: f.ref, Value: e.Value})

	case *ast.Identifier:
		if l.locals[e.Name] {
			f.ref = e.Name
			break
		}
		// implicit field of this
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&FieldLoad{Dst: f.ref, Object: ast.ThisName, Field: e.Name})

	case *ast.BinaryExpr:
		left := l.lowerExpr(e.Left)
		right := l.lowerExpr(e.Right)
		f.add(left)
		f.add(right)
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&BinOp{Dst: f.ref, Operator: string(e.Op), Left: left.ref, Right: right.ref})

	case *ast.UnaryExpr:
		operand := l.lowerExpr(e.Operand)
		f.add(operand)
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&UnOp{Dst: f.ref, Operator: string(e.Op), Operand: operand.ref})

	case *ast.NewExpr:
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&New{Dst: f.ref, Class: e.Class})

	case *ast.AccessExpr:
		obj := l.lowerExpr(e.Object)
		f.add(obj)
		f.ref = l.temp(&f, l.typeOf(e))
		f.emit(&FieldLoad{Dst: f.ref, Object: obj.ref, Field: e.Member})

	case *ast.CallExpr:
		return l.lowerCall(e)

	default:
		l.fail(expr, "unexpected expression %T", expr)
	}
	return f
}

// lowerCall passes the receiver as the first argument: this for a bare
// method name, the lowered object for an access.
func (l *lowerer) lowerCall(e *ast.CallExpr) fragment {
	var f fragment
	target := l.typeOf(e.Callee)

	var recv string
	switch callee := e.Callee.(type) {
	case *ast.Identifier:
		recv = ast.ThisName
	case *ast.AccessExpr:
		obj := l.lowerExpr(callee.Object)
		f.add(obj)
		recv = obj.ref
	default:
		l.fail(e, "cannot call %T", e.Callee)
	}

	args := []string{recv}
	for _, arg := range e.Args {
		a := l.lowerExpr(arg)
		f.add(a)
		args = append(args, a.ref)
	}

	f.ref = l.temp(&f, l.typeOf(e))
	f.emit(&Call{Dst: f.ref, Target: target, Args: args})
	return f
}
