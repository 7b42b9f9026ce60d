package compiler

import (
	"fmt"
	"strings"

	"github.com/lhaig/jlite/internal/types"
)

// FormatRegistry lists every registered type name in sorted order, one
// per line, with its kind: builtins, classes with their fields, and
// methods with their signatures.
func FormatRegistry(reg *types.Registry) string {
	var sb strings.Builder
	for _, name := range reg.Names() {
		t, _ := reg.Lookup(name)
		switch t := t.(type) {
		case *types.Class:
			if types.IsBuiltin(name) {
				fmt.Fprintf(&sb, "builtin %s\n", name)
				continue
			}
			fields := make([]string, len(t.FieldOrder))
			for i, f := range t.FieldOrder {
				fields[i] = t.Fields[f].Name + " " + f
			}
			fmt.Fprintf(&sb, "class %s {%s}\n", name, strings.Join(fields, "; "))
		case *types.Method:
			fmt.Fprintf(&sb, "method %s%s %s\n", name, t.Signature(), t.Return.Name)
		}
	}
	return sb.String()
}
