package cfg

import "sort"

// ComputeLoops finds natural loops over g's finished block set: a block is
// a loop header iff it has an in-edge from a block it can reach (a back
// edge) as well as an in-edge from outside that reachable set (the root
// counts as entered from outside, by the routine's caller). Each
// header's loop contents are the union, over its back edges, of every
// block that can reach the back edge's source without first passing
// through a block already known to be in the loop.
func ComputeLoops(g *SubroutineGraph) {
	n := len(g.BlocksByID)
	reach := make([]map[int]bool, n)
	for i := 0; i < n; i++ {
		reach[i] = forwardReachable(g, i)
	}

	for h := 0; h < n; h++ {
		hb := g.BlocksByID[h]
		var backSources []int
		for _, e := range hb.In {
			if reach[h][e.Source] {
				backSources = append(backSources, e.Source)
			}
		}
		if len(backSources) == 0 {
			continue
		}
		hasEntry := h == g.Root
		for _, e := range hb.In {
			if !reach[h][e.Source] {
				hasEntry = true
			}
		}
		if !hasEntry {
			continue
		}

		for i := range hb.In {
			if reach[h][hb.In[i].Source] {
				hb.In[i].Kind = BackEdge
			}
		}
		contents := map[int]bool{h: true}
		worklist := append([]int(nil), backSources...)
		for len(worklist) > 0 {
			cur := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			if contents[cur] {
				continue
			}
			contents[cur] = true
			for _, e := range g.BlocksByID[cur].In {
				worklist = append(worklist, e.Source)
			}
		}

		exitSet := map[int]bool{}
		for c := range contents {
			for _, oe := range g.BlocksByID[c].Out {
				if !contents[oe.Target] {
					exitSet[oe.Target] = true
				}
			}
		}
		exits := make([]int, 0, len(exitSet))
		for e := range exitSet {
			exits = append(exits, e)
		}
		sort.Ints(exits)

		g.Loops = append(g.Loops, Loop{Header: h, Contents: contents, Exits: exits})
	}
}

func forwardReachable(g *SubroutineGraph, start int) map[int]bool {
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, oe := range g.BlocksByID[cur].Out {
			if !visited[oe.Target] {
				visited[oe.Target] = true
				queue = append(queue, oe.Target)
			}
		}
	}
	return visited
}
