// Package structurizer turns an ir.IrRoutine's flow graph into a tree of
// abstract control nodes: the high-level emitter's only input, expressing
// the same control flow as nested sequence/if/switch/loop constructs
// instead of basic blocks and edges.
package structurizer

import "github.com/broadwayrc/ppcdecomp/ir"

// Kind names one abstract control node shape.
type Kind uint8

const (
	Basic Kind = iota
	Seq
	If
	IfElse
	IfElseIf
	Switch
	SelfLoop
	While
	DoWhile
	For
	Goto
	Tail
)

// ForInfo is the best-effort induction-variable description a For node
// carries when the structurizer's narrow pattern match succeeds.
type ForInfo struct {
	InductionReg string
	Step         int32
}

// ACN is the tagged variant every control-tree node is built from. Field
// use depends on Kind: Basic carries Block; Seq/Switch carry Children in
// order; If/IfElse/IfElseIf carry Cond plus Then/Else (further arms in
// Children); loop kinds
// carry Body and, for For, ForInfo; Goto/Tail carry TargetLabel.
type ACN struct {
	Kind Kind

	Block *ir.IrBlock

	Children []*ACN

	Cond *ir.Terminator
	Then *ACN
	Else *ACN

	Body *ACN
	For  ForInfo

	TargetLabel string
}

// Tree is a structurized routine's single root node.
type Tree struct {
	Root *ACN
}
