package cfg

import (
	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/decode"
)

// Build discovers every basic block reachable from start by following
// branches, splitting blocks whose range a later-discovered target falls
// inside, then computes natural loops over the finished block set.
func Build(data abi.RandomAccessData, start uint32) *SubroutineGraph {
	bld := &builder{data: data, startIndex: map[uint32]int{}, processed: map[uint32]bool{}}
	root := bld.newBlock(start)
	g := &SubroutineGraph{Root: root.ID}
	bld.queue = append(bld.queue, start)

	for len(bld.queue) > 0 {
		va := bld.queue[len(bld.queue)-1]
		bld.queue = bld.queue[:len(bld.queue)-1]
		if bld.processed[va] {
			continue
		}
		bld.processed[va] = true
		bld.walkBlock(bld.blocks[bld.startIndex[va]], g)
	}

	g.BlocksByID = bld.blocks
	g.DirectCalls = bld.directCalls
	g.Exits = bld.exits
	g.fillRangeIndex()
	ComputeLoops(g)
	return g
}

type builder struct {
	data        abi.RandomAccessData
	blocks      []*BasicBlock
	startIndex  map[uint32]int
	queue       []uint32
	processed   map[uint32]bool
	directCalls []uint32
	exits       []int
}

func (bld *builder) newBlock(start uint32) *BasicBlock {
	b := &BasicBlock{ID: len(bld.blocks), Start: start, End: start}
	bld.blocks = append(bld.blocks, b)
	bld.startIndex[start] = b.ID
	return b
}

func (bld *builder) findContaining(va uint32) *BasicBlock {
	for _, b := range bld.blocks {
		if va >= b.Start && va < b.End {
			return b
		}
	}
	return nil
}

// split breaks existing at va: the upper half (existing, same id) keeps its
// in-edges and gains a Fallthrough to the fresh lower half, which inherits
// existing's out-edges (with their targets' in-edges repointed).
func (bld *builder) split(existing *BasicBlock, va uint32) *BasicBlock {
	lower := bld.newBlock(va)
	splitIdx := int((va - existing.Start) / 4)
	lower.Insts = append(lower.Insts, existing.Insts[splitIdx:]...)
	lower.End = existing.End
	lower.Out = existing.Out

	for _, oe := range lower.Out {
		target := bld.blocks[oe.Target]
		for i := range target.In {
			if target.In[i].Source == existing.ID {
				target.In[i].Source = lower.ID
			}
		}
	}

	existing.Insts = existing.Insts[:splitIdx]
	existing.End = va
	existing.Out = []OutEdge{{Target: lower.ID, Kind: Fallthrough}}
	lower.In = append(lower.In, InEdge{Source: existing.ID, Kind: ForwardEdge})
	return lower
}

// resolveTarget returns the id of the block starting at va, creating,
// queueing, or splitting as needed.
func (bld *builder) resolveTarget(va uint32) int {
	if id, ok := bld.startIndex[va]; ok {
		return id
	}
	if existing := bld.findContaining(va); existing != nil {
		return bld.split(existing, va).ID
	}
	nb := bld.newBlock(va)
	bld.queue = append(bld.queue, va)
	return nb.ID
}

func (bld *builder) link(from int, oe OutEdge) {
	b := bld.blocks[from]
	b.Out = append(b.Out, oe)
	bld.blocks[oe.Target].In = append(bld.blocks[oe.Target].In, InEdge{Source: from, Kind: ForwardEdge})
}

func (bld *builder) walkBlock(b *BasicBlock, g *SubroutineGraph) {
	cur := b.Start
	for {
		if cur != b.Start {
			if existingID, ok := bld.startIndex[cur]; ok {
				bld.link(b.ID, OutEdge{Target: existingID, Kind: Fallthrough})
				return
			}
		}
		if !bld.data.Contains(cur) {
			return
		}
		inst := abi.ReadInstruction(bld.data, cur)
		b.Insts = append(b.Insts, inst)
		b.End = cur + 4

		if inst.Side&decode.WritesLR != 0 {
			if inst.Op == decode.B {
				bld.directCalls = append(bld.directCalls, branchTarget(inst, cur))
			}
			cur += 4
			continue
		}

		switch inst.Op {
		case decode.Bclr, decode.Bcctr:
			bld.exits = append(bld.exits, b.ID)
			return
		case decode.B:
			target := bld.resolveTarget(branchTarget(inst, cur))
			if cur >= b.End {
				// The target split b itself; the branch now ends the lower half.
				b = bld.findContaining(cur)
			}
			bld.link(b.ID, OutEdge{Target: target, Kind: Unconditional})
			return
		case decode.Bc:
			taken := bld.resolveTarget(branchTarget(inst, cur))
			fall := bld.resolveTarget(cur + 4)
			if cur >= b.End {
				b = bld.findContaining(cur)
			}
			bld.link(b.ID, OutEdge{Target: taken, Kind: ConditionTrue})
			bld.link(b.ID, OutEdge{Target: fall, Kind: ConditionFalse})
			return
		}
		cur += 4
	}
}

// branchTarget resolves a branch's absolute target address from its
// RelBranch operand and the encoding's AA flag.
func branchTarget(inst decode.MetaInst, va uint32) uint32 {
	var rel int32
	for _, r := range inst.ReadList() {
		if rb, ok := r.(datasource.RelBranch); ok {
			rel = rb.Value
		}
	}
	if inst.Flags&decode.AbsoluteAddr != 0 {
		return uint32(rel)
	}
	return uint32(int64(va) + int64(rel))
}
