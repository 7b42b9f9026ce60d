package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		sb.WriteString(prefix + "Program\n")
		for _, c := range n.AllClasses() {
			printNode(sb, c, indent+1)
		}

	case *Class:
		sb.WriteString(fmt.Sprintf("%sClass: %s\n", prefix, n.Name))
		for _, f := range n.Fields {
			printNode(sb, f, indent+1)
		}
		for _, m := range n.Methods {
			printNode(sb, m, indent+1)
		}

	case *Field:
		sb.WriteString(fmt.Sprintf("%sField: %s %s\n", prefix, typeName(n.Type), n.Name))

	case *Param:
		sb.WriteString(fmt.Sprintf("%sParam: %s %s\n", prefix, typeName(n.Type), n.Name))

	case *VarDecl:
		sb.WriteString(fmt.Sprintf("%sVar: %s %s\n", prefix, typeName(n.Type), n.Name))

	case *Method:
		sb.WriteString(fmt.Sprintf("%sMethod: %s %s\n", prefix, typeName(n.ReturnType), n.Name))
		for _, p := range n.Params {
			printNode(sb, p, indent+1)
		}
		if n.Body != nil {
			printNode(sb, n.Body, indent+1)
		}

	case *Body:
		sb.WriteString(prefix + "Body\n")
		for _, v := range n.Vars {
			printNode(sb, v, indent+1)
		}
		for _, s := range n.Statements {
			printNode(sb, s, indent+1)
		}

	case *Block:
		if n == nil {
			return
		}
		sb.WriteString(prefix + "Block\n")
		for _, s := range n.Statements {
			printNode(sb, s, indent+1)
		}

	case *IfStmt:
		sb.WriteString(prefix + "If\n")
		sb.WriteString(prefix + "  Condition:\n")
		printNode(sb, n.Condition, indent+2)
		sb.WriteString(prefix + "  Then:\n")
		printNode(sb, n.Then, indent+2)
		sb.WriteString(prefix + "  Else:\n")
		printNode(sb, n.Else, indent+2)

	case *WhileStmt:
		sb.WriteString(prefix + "While\n")
		sb.WriteString(prefix + "  Condition:\n")
		printNode(sb, n.Condition, indent+2)
		printNode(sb, n.Body, indent+1)

	case *AssignStmt:
		sb.WriteString(prefix + "Assign\n")
		if n.Target != nil {
			printNode(sb, n.Target, indent+1)
		}
		printNode(sb, n.Value, indent+1)

	case *FieldAssignStmt:
		sb.WriteString(fmt.Sprintf("%sFieldAssign: .%s\n", prefix, n.Field))
		printNode(sb, n.Object, indent+1)
		printNode(sb, n.Value, indent+1)

	case *ReturnStmt:
		sb.WriteString(prefix + "Return\n")
		if n.Value != nil {
			printNode(sb, n.Value, indent+1)
		}

	case *SyscallStmt:
		sb.WriteString(fmt.Sprintf("%sSyscall: %s\n", prefix, n.Name))
		for _, a := range n.Args {
			printNode(sb, a, indent+1)
		}

	case *ExprStmt:
		sb.WriteString(prefix + "ExprStmt\n")
		printNode(sb, n.Expr, indent+1)

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdent: %s\n", prefix, n.Name))

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sInt: %d\n", prefix, n.Value))

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBool: %t\n", prefix, n.Value))

	case *StringLit:
		sb.WriteString(fmt.Sprintf("%sString: %s\n", prefix, strconv.Quote(n.Value)))

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinary: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *UnaryExpr:
		sb.WriteString(fmt.Sprintf("%sUnary: %s\n", prefix, n.Op))
		printNode(sb, n.Operand, indent+1)

	case *NewExpr:
		sb.WriteString(fmt.Sprintf("%sNew: %s\n", prefix, n.Class))

	case *AccessExpr:
		sb.WriteString(fmt.Sprintf("%sAccess: .%s\n", prefix, n.Member))
		printNode(sb, n.Object, indent+1)

	case *CallExpr:
		sb.WriteString(prefix + "Call\n")
		printNode(sb, n.Callee, indent+1)
		for _, a := range n.Args {
			printNode(sb, a, indent+1)
		}

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown %T>\n", prefix, node))
	}
}

func typeName(t *TypeRef) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
