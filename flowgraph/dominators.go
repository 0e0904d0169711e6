package flowgraph

// Tree is a dominator (or post-dominator) tree over a Graph's vertex ids:
// idom[v] is v's immediate dominator, idom[root] == root.
type Tree struct {
	idom []int
	root int
}

// Dominators computes the dominator tree of g rooted at g.RootID() using
// the simple (non-path-compressed-bucket) Lengauer-Tarjan formulation:
// DFS numbering, semidominators via a union-find that tracks the vertex of
// minimum semidominator label on the path to its set's root, bucket-based
// deferred idom resolution, then a forward pass linking children whose
// semidominator does not yet equal their eventual idom.
func Dominators[V any](g *Graph[V]) *Tree {
	return computeTree(g, true)
}

// PostDominators computes the post-dominator tree, rooted at g.TerminalID(),
// by running the same algorithm over reversed edges.
func PostDominators[V any](g *Graph[V]) *Tree {
	return computeTree(g, false)
}

func computeTree[V any](g *Graph[V], forward bool) *Tree {
	n := g.Size()
	startID := g.RootID()
	if !forward {
		startID = g.TerminalID()
	}

	dfnum := make([]int, n)
	vertexOf := make([]int, 0, n)
	parent := make([]int, n)
	for i := range dfnum {
		dfnum[i] = -1
	}

	var dfs func(id, par int)
	dfs = func(id, par int) {
		if dfnum[id] != -1 {
			return
		}
		dfnum[id] = len(vertexOf)
		vertexOf = append(vertexOf, id)
		parent[id] = par
		for _, e := range edgesOf(forward, g.vtx[id]) {
			dfs(e.Target, id)
		}
	}
	dfs(startID, startID)

	semi := make([]int, n)
	idomGuess := make([]int, n)
	ancestor := make([]int, n)
	label := make([]int, n)
	bucket := make([][]int, n)
	for i := 0; i < n; i++ {
		semi[i] = i
		ancestor[i] = -1
		label[i] = i
	}

	var compress func(v int)
	compress = func(v int) {
		if ancestor[ancestor[v]] != -1 {
			compress(ancestor[v])
			if dfnum[semi[label[ancestor[v]]]] < dfnum[semi[label[v]]] {
				label[v] = label[ancestor[v]]
			}
			ancestor[v] = ancestor[ancestor[v]]
		}
	}
	eval := func(v int) int {
		if ancestor[v] == -1 {
			return v
		}
		compress(v)
		return label[v]
	}
	link := func(p, c int) { ancestor[c] = p }

	idom := make([]int, n)

	for i := len(vertexOf) - 1; i >= 1; i-- {
		w := vertexOf[i]
		for _, e := range edgesOf(!forward, g.vtx[w]) {
			v := e.Target
			if dfnum[v] == -1 {
				continue
			}
			u := eval(v)
			if dfnum[semi[u]] < dfnum[semi[w]] {
				semi[w] = semi[u]
			}
		}
		bucket[semi[w]] = append(bucket[semi[w]], w)
		link(parent[w], w)
		for _, v := range bucket[parent[w]] {
			u := eval(v)
			if dfnum[semi[u]] < dfnum[semi[v]] {
				idomGuess[v] = u
			} else {
				idomGuess[v] = parent[w]
			}
		}
		bucket[parent[w]] = nil
	}

	for i := 1; i < len(vertexOf); i++ {
		w := vertexOf[i]
		if idomGuess[w] != semi[w] {
			idomGuess[w] = idom[idomGuess[w]]
		}
		idom[w] = idomGuess[w]
	}
	idom[startID] = startID

	for i := 0; i < n; i++ {
		if dfnum[i] == -1 {
			idom[i] = -1
		}
	}

	return &Tree{idom: idom, root: startID}
}

// IDom returns v's immediate dominator id, or -1 if v is unreachable.
func (t *Tree) IDom(v int) int { return t.idom[v] }

// Dominates reports whether n dominates m: walking m's idom chain reaches n
// before (or at) the root.
func (t *Tree) Dominates(n, m int) bool {
	if t.idom[m] == -1 {
		return false
	}
	for cur := m; ; {
		if cur == n {
			return true
		}
		if cur == t.root {
			return cur == n
		}
		cur = t.idom[cur]
	}
}
