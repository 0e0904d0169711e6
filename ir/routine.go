package ir

import "github.com/broadwayrc/ppcdecomp/flowgraph"

// Terminator records the condition a bc's containing block branches on,
// once the branch itself has been elided from the instruction stream.
type Terminator struct {
	HasCond      bool
	Cond         Temp
	InvCond      bool
	CounterCheck bool
}

// IrBlock is one lowered basic block: straight-line IR instructions plus
// whatever conditional terminator its PPC source block carried.
type IrBlock struct {
	Insts []Instruction
	Term  Terminator
}

// BindInfo is a routine-scoped temp's full identity: which physical
// register it was ever bound to, the disjoint VA ranges it covers, and
// whether it ever carries an incoming parameter or outgoing return value.
type BindInfo struct {
	ID       int
	RegKind  RegKind
	RegNum   uint8
	Regions  [][2]uint32
	IsParam  bool
	IsRet    bool
}

// RegKind distinguishes which register file a BindInfo's RegNum indexes.
type RegKind uint8

const (
	GPRKind RegKind = iota
	FPRKind
	CondKind
)

// IrRoutine is a lowered Subroutine: the IR-level flow graph (same shape
// as the PPC CFG, one IrBlock per PPC block), the full bind table, and
// the ordered parameter table the ABI's fixed register order produced.
type IrRoutine struct {
	Graph  *flowgraph.Graph[*IrBlock]
	Binds  []*BindInfo
	Params []int
	// BlockOf maps a cfg.BasicBlock.ID to this routine's graph vertex id,
	// since the two graphs share shape but not indices (the IR graph's
	// pseudo root/terminal occupy ids 0 and 1).
	BlockOf map[int]int
}
