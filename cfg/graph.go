package cfg

import "github.com/broadwayrc/ppcdecomp/rangeindex"

// Loop is a natural loop: a header block plus every block that can reach
// the header without leaving the loop, and the distinct targets any
// content block transfers to outside the loop.
type Loop struct {
	Header   int
	Contents map[int]bool
	Exits    []int
}

// SubroutineGraph is the CFG for one subroutine: blocks indexed by id and
// by address range, exit points, natural loops, and the direct-call VAs
// observed along the way (surfaced read-only per the call-graph note in
// the supplemented-features expansion).
type SubroutineGraph struct {
	Root         int
	BlocksByID   []*BasicBlock
	blocksByRange rangeindex.Index[int]
	Exits        []int
	Loops        []Loop
	DirectCalls  []uint32
}

// BlockByVA returns the block containing va, if one was reached during
// construction.
func (g *SubroutineGraph) BlockByVA(va uint32) (*BasicBlock, bool) {
	id, ok := g.blocksByRange.Query(va)
	if !ok {
		return nil, false
	}
	return g.BlocksByID[id], true
}

func (g *SubroutineGraph) fillRangeIndex() {
	for _, b := range g.BlocksByID {
		g.blocksByRange.Insert(b.Start, b.End, b.ID)
	}
}
