package checker

import (
	"sort"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/diagnostic"
)

// Annotations maps AST node identities to the name of the type inferred
// for them: a class name, or a qualified method name for expressions that
// denote a method. Keys are node identities, so structurally equal nodes
// at different positions are distinct entries.
type Annotations struct {
	types map[ast.NodeID]string
}

// NewAnnotations creates an empty annotation map
func NewAnnotations() *Annotations {
	return &Annotations{types: make(map[ast.NodeID]string)}
}

// record stores the type of n. Recording the same type twice is a no-op;
// recording a different one means a node was checked twice inconsistently.
func (a *Annotations) record(n ast.Node, typeName string) error {
	id := n.ID()
	if !id.IsValid() {
		line, col := n.Pos()
		return diagnostic.Errorf(diagnostic.Internal, line, col, "%T has no node id", n)
	}
	return a.put(id, typeName)
}

func (a *Annotations) put(id ast.NodeID, typeName string) error {
	if prev, ok := a.types[id]; ok && prev != typeName {
		return diagnostic.Errorf(diagnostic.Internal, 0, 0,
			"node %d annotated as both %s and %s", id, prev, typeName)
	}
	a.types[id] = typeName
	return nil
}

// Merge copies every entry of other into a, failing on a conflicting key
func (a *Annotations) Merge(other *Annotations) error {
	for _, id := range other.IDs() {
		if err := a.put(id, other.types[id]); err != nil {
			return err
		}
	}
	return nil
}

// TypeOf returns the type recorded for a node identity
func (a *Annotations) TypeOf(id ast.NodeID) (string, bool) {
	t, ok := a.types[id]
	return t, ok
}

// Lookup returns the type recorded for n
func (a *Annotations) Lookup(n ast.Node) (string, bool) {
	return a.TypeOf(n.ID())
}

// Len returns the number of annotated nodes
func (a *Annotations) Len() int { return len(a.types) }

// IDs returns the annotated node identities in ascending order
func (a *Annotations) IDs() []ast.NodeID {
	ids := make([]ast.NodeID, 0, len(a.types))
	for id := range a.types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
