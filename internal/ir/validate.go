package ir

import (
	"fmt"
)

// Validate checks an IR program against the backend contract and returns
// a list of error messages. An empty slice indicates the program is valid.
func Validate(prog *Program) []string {
	var errors []string

	data := make(map[string]bool, len(prog.Data))
	for _, d := range prog.Data {
		if data[d.Name] {
			errors = append(errors, fmt.Sprintf("data %s declared more than once", d.Name))
		}
		data[d.Name] = true
	}

	methods := make(map[string]*Method, len(prog.Methods))
	for _, m := range prog.Methods {
		if _, dup := methods[m.Name]; dup {
			errors = append(errors, fmt.Sprintf("method %s declared more than once", m.Name))
		}
		methods[m.Name] = m
	}

	for _, m := range prog.Methods {
		if !data[m.Class] {
			errors = append(errors, fmt.Sprintf("method %s: class %s has no data declaration", m.Name, m.Class))
		}
		errors = append(errors, validateMethod(m, data, methods)...)
	}

	return errors
}

// validateMethod checks declarations, labels and references of one method.
func validateMethod(m *Method, data map[string]bool, methods map[string]*Method) []string {
	var errors []string
	context := "method " + m.Name

	declared := make(map[string]bool)
	declare := func(v *Var, what string) {
		if declared[v.Name] {
			errors = append(errors, fmt.Sprintf("%s: %s %s declared more than once", context, what, v.Name))
		}
		declared[v.Name] = true
	}
	for _, p := range m.Params {
		declare(p, "parameter")
	}
	for _, v := range m.Locals {
		declare(v, "local")
	}

	// hoisted prefix
	i := 0
	for ; i < len(m.Body); i++ {
		v, ok := m.Body[i].(*Var)
		if !ok {
			break
		}
		declare(v, "temporary")
	}

	labels := make(map[string]bool)
	for _, instr := range m.Body[i:] {
		if l, ok := instr.(*Label); ok {
			if labels[l.Name] {
				errors = append(errors, fmt.Sprintf("%s: label %s defined more than once", context, l.Name))
			}
			labels[l.Name] = true
		}
	}

	for _, instr := range m.Body[i:] {
		for _, name := range operands(instr) {
			if name != "" && !declared[name] {
				errors = append(errors, fmt.Sprintf("%s: %s uses undeclared %s", context, instr.Op(), name))
			}
		}

		switch in := instr.(type) {
		case *Var:
			errors = append(errors, fmt.Sprintf("%s: declaration of %s after the first instruction", context, in.Name))
		case *Goto:
			if !labels[in.Label] {
				errors = append(errors, fmt.Sprintf("%s: goto to undefined label %s", context, in.Label))
			}
		case *BranchIfTrue:
			if !labels[in.Label] {
				errors = append(errors, fmt.Sprintf("%s: branch to undefined label %s", context, in.Label))
			}
		case *Call:
			target, ok := methods[in.Target]
			if !ok {
				errors = append(errors, fmt.Sprintf("%s: call to unknown method %s", context, in.Target))
			} else if !data[target.Class] {
				errors = append(errors, fmt.Sprintf("%s: call target %s has no data declaration", context, in.Target))
			}
			if len(in.Args) == 0 {
				errors = append(errors, fmt.Sprintf("%s: call to %s has no receiver", context, in.Target))
			}
		case *New:
			if !data[in.Class] {
				errors = append(errors, fmt.Sprintf("%s: new of undeclared class %s", context, in.Class))
			}
		}
	}

	return errors
}

// operands returns every variable name an instruction reads or writes.
// A bare return yields an empty name, which is skipped.
func operands(instr Instr) []string {
	switch in := instr.(type) {
	case *New:
		return []string{in.Dst}
	case *Assign:
		return []string{in.Dst, in.Src}
	case *FieldLoad:
		return []string{in.Dst, in.Object}
	case *FieldStore:
		return []string{in.Object, in.Value}
	case *IntLit:
		return []string{in.Dst}
	case *BoolLit:
		return []string{in.Dst}
	case *StringLit:
		return []string{in.Dst}
	case *BinOp:
		return []string{in.Dst, in.Left, in.Right}
	case *UnOp:
		return []string{in.Dst, in.Operand}
	case *Call:
		return append([]string{in.Dst}, in.Args...)
	case *Syscall:
		return in.Args
	case *Return:
		return []string{in.Value}
	case *BranchIfTrue:
		return []string{in.Cond}
	default:
		return nil
	}
}
