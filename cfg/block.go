// Package cfg holds the per-subroutine control-flow graph: basic blocks
// discovered by following branches from an entrypoint, their edges, and
// the loop structure derived from back-edges. Liveness, stack, and
// perilogue facts are attached to each block by separate analyzer
// packages; cfg itself only knows the shapes those facts live in.
package cfg

import (
	"github.com/broadwayrc/ppcdecomp/decode"
	"github.com/broadwayrc/ppcdecomp/regs"
)

// OutEdgeKind labels a block's outgoing control transfer.
type OutEdgeKind uint8

const (
	Unconditional OutEdgeKind = iota
	ConditionTrue
	ConditionFalse
	Fallthrough
)

// InEdgeKind labels a block's incoming edge as ordinary or as a loop
// back-edge (set during loop detection, initially ForwardEdge for all).
type InEdgeKind uint8

const (
	ForwardEdge InEdgeKind = iota
	BackEdge
)

type OutEdge struct {
	Target int
	Kind   OutEdgeKind
}

type InEdge struct {
	Source int
	Kind   InEdgeKind
}

// LivenessFacts holds the liveness analyzer's per-block output: parallel
// per-instruction vectors plus whole-block summaries. Populated by the
// liveness package, never by cfg itself.
type LivenessFacts struct {
	Def     []regs.GPRSet
	Use     []regs.GPRSet
	LiveIn  []regs.GPRSet
	LiveOut []regs.GPRSet

	Input     regs.GPRSet
	Output    regs.GPRSet
	Overwrite regs.GPRSet

	GuessOut   regs.GPRSet
	Propagated regs.GPRSet
}

// PerilogueTag classifies one instruction's role in a subroutine's entry
// or exit sequence.
type PerilogueTag uint8

const (
	NormalInst PerilogueTag = iota
	FrameAllocate
	MoveLRToR0
	SaveSenderLR
	CalleeGPRSave
	CalleeFPRSave
	CalleeGPRRestore
	CalleeFPRRestore
	AbiRoutine
	LoadSenderLR
	MoveR0toLR
	FrameDeallocate
)

// BasicBlock is a maximal straight-line run of instructions: [Start, End)
// is half-open and 4-byte aligned. Out/In edges mirror the source's plain
// vector-of-tuples shape rather than the generic flowgraph substrate —
// the CFG's own edges are address-derived and never need the generic
// pseudo-root/terminal machinery the IR-level graph does.
type BasicBlock struct {
	ID    int
	Start uint32
	End   uint32

	In  []InEdge
	Out []OutEdge

	Insts []decode.MetaInst

	Liveness      LivenessFacts
	PerilogueTags []PerilogueTag
}

// InstAt returns the instruction starting at va within the block, if any.
func (b *BasicBlock) InstAt(va uint32) (decode.MetaInst, bool) {
	if va < b.Start || va >= b.End {
		return decode.MetaInst{}, false
	}
	idx := (va - b.Start) / 4
	if int(idx) >= len(b.Insts) {
		return decode.MetaInst{}, false
	}
	return b.Insts[idx], true
}
