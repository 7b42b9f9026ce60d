package ast

// Inspect traverses the tree rooted at node in depth-first pre-order,
// calling f for each node. If f returns false the children of that node
// are skipped. Children are visited in source order.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, c := range n.AllClasses() {
			Inspect(c, f)
		}
	case *Class:
		for _, fd := range n.Fields {
			Inspect(fd, f)
		}
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	case *Method:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *Body:
		for _, v := range n.Vars {
			Inspect(v, f)
		}
		inspectStmts(n.Statements, f)
	case *Block:
		inspectStmts(n.Statements, f)
	case *IfStmt:
		inspectExpr(n.Condition, f)
		if n.Then != nil {
			Inspect(n.Then, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *WhileStmt:
		inspectExpr(n.Condition, f)
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *AssignStmt:
		if n.Target != nil {
			Inspect(n.Target, f)
		}
		inspectExpr(n.Value, f)
	case *FieldAssignStmt:
		inspectExpr(n.Object, f)
		inspectExpr(n.Value, f)
	case *ReturnStmt:
		inspectExpr(n.Value, f)
	case *SyscallStmt:
		for _, a := range n.Args {
			inspectExpr(a, f)
		}
	case *ExprStmt:
		inspectExpr(n.Expr, f)
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *UnaryExpr:
		inspectExpr(n.Operand, f)
	case *AccessExpr:
		inspectExpr(n.Object, f)
	case *CallExpr:
		inspectExpr(n.Callee, f)
		for _, a := range n.Args {
			inspectExpr(a, f)
		}
	}
}

func inspectStmts(stmts []Statement, f func(Node) bool) {
	for _, s := range stmts {
		if s != nil {
			Inspect(s, f)
		}
	}
}

func inspectExpr(e Expression, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}
