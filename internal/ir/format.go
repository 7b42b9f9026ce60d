package ir

import (
	"encoding/json"
	"strings"
)

// Format renders the program as text: data layouts, then methods, one
// instruction per line. Labels are outdented.
func Format(prog *Program) string {
	var sb strings.Builder

	for _, d := range prog.Data {
		sb.WriteString("data " + d.Name + " {\n")
		for _, f := range d.Fields {
			sb.WriteString("  " + f.Type + " " + f.Name + ";\n")
		}
		sb.WriteString("}\n\n")
	}

	for i, m := range prog.Methods {
		params := make([]string, len(m.Params))
		for j, p := range m.Params {
			params[j] = p.Type + " " + p.Name
		}
		sb.WriteString("method " + m.Return + " " + m.Name + "(" + strings.Join(params, ", ") + ") {\n")
		for _, v := range m.Locals {
			sb.WriteString("  " + v.String() + "\n")
		}
		for _, instr := range m.Body {
			if _, ok := instr.(*Label); ok {
				sb.WriteString(instr.String() + "\n")
				continue
			}
			sb.WriteString("  " + instr.String() + "\n")
		}
		sb.WriteString("}\n")
		if i < len(prog.Methods)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// jsonMethod mirrors Method with instructions tagged by their opcode.
type jsonMethod struct {
	Class  string      `json:"class"`
	Name   string      `json:"name"`
	Return string      `json:"return"`
	Params []*Var      `json:"params"`
	Locals []*Var      `json:"locals"`
	Body   []jsonInstr `json:"body"`
}

type jsonInstr struct {
	Instr
}

func (j jsonInstr) MarshalJSON() ([]byte, error) {
	fields, err := json.Marshal(j.Instr)
	if err != nil {
		return nil, err
	}
	op, err := json.Marshal(j.Op())
	if err != nil {
		return nil, err
	}
	out := []byte(`{"op":`)
	out = append(out, op...)
	if len(fields) > 2 {
		out = append(out, ',')
	}
	return append(out, fields[1:]...), nil
}

// MarshalJSON encodes the program with every instruction carrying an
// "op" discriminator next to its fields.
func (p *Program) MarshalJSON() ([]byte, error) {
	methods := make([]jsonMethod, len(p.Methods))
	for i, m := range p.Methods {
		body := make([]jsonInstr, len(m.Body))
		for j, instr := range m.Body {
			body[j] = jsonInstr{instr}
		}
		methods[i] = jsonMethod{
			Class:  m.Class,
			Name:   m.Name,
			Return: m.Return,
			Params: m.Params,
			Locals: m.Locals,
			Body:   body,
		}
	}
	return json.Marshal(struct {
		Data    []*Data      `json:"data"`
		Methods []jsonMethod `json:"methods"`
	}{p.Data, methods})
}
