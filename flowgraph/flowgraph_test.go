package flowgraph_test

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/flowgraph"
)

// diamond builds root -> a -> c, root -> b -> c, c -> terminal.
func diamond(t *testing.T) (*flowgraph.Graph[string], int, int, int, int) {
	t.Helper()
	g := flowgraph.New[string]()
	a := g.EmplaceVertex("a")
	b := g.EmplaceVertex("b")
	c := g.EmplaceVertex("c")
	g.Link(g.RootID(), a, flowgraph.ConditionTrue)
	g.Link(g.RootID(), b, flowgraph.ConditionFalse)
	g.Link(a, c, flowgraph.Unconditional)
	g.Link(b, c, flowgraph.Unconditional)
	g.Link(c, g.TerminalID(), flowgraph.Unconditional)
	return g, g.RootID(), a, b, c
}

func TestDominatorsConvergeAtRoot(t *testing.T) {
	g, root, a, b, c := diamond(t)
	tree := flowgraph.Dominators(g)

	if tree.IDom(a) != root {
		t.Errorf("IDom(a) = %d, want root %d", tree.IDom(a), root)
	}
	if tree.IDom(b) != root {
		t.Errorf("IDom(b) = %d, want root %d", tree.IDom(b), root)
	}
	if tree.IDom(c) != root {
		t.Errorf("IDom(c) = %d, want root %d (neither branch alone dominates the join)", tree.IDom(c), root)
	}
	if !tree.Dominates(root, c) {
		t.Errorf("Dominates(root, c) = false, want true")
	}
	if tree.Dominates(a, c) {
		t.Errorf("Dominates(a, c) = true, want false")
	}
}

func TestInsertAfterSplicesVertex(t *testing.T) {
	g := flowgraph.New[string]()
	a := g.EmplaceVertex("a")
	b := g.EmplaceVertex("b")
	g.Link(g.RootID(), a, flowgraph.Unconditional)
	g.Link(a, b, flowgraph.Unconditional)

	mid := g.InsertAfter(a, "mid", flowgraph.Unconditional)

	av := g.Vertex(a)
	if len(av.Out) != 1 || av.Out[0].Target != mid {
		t.Fatalf("a's out edges = %+v, want a single edge to %d", av.Out, mid)
	}
	bv := g.Vertex(b)
	var foundFromMid bool
	for _, e := range bv.In {
		if e.Target == mid {
			foundFromMid = true
		}
	}
	if !foundFromMid {
		t.Fatalf("b's in edges = %+v, want one from %d", bv.In, mid)
	}
}
