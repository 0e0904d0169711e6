// Package subroutine wires the per-subroutine analysis pipeline together:
// CFG construction, liveness, stack recovery, perilogue classification, IR
// lowering, and structurization, in that order, into one owning type.
package subroutine

import (
	"fmt"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/corefail"
	"github.com/broadwayrc/ppcdecomp/ir"
	"github.com/broadwayrc/ppcdecomp/liveness"
	"github.com/broadwayrc/ppcdecomp/perilogue"
	"github.com/broadwayrc/ppcdecomp/stack"
	"github.com/broadwayrc/ppcdecomp/structurizer"
)

// Subroutine owns every analysis artifact for one routine exclusively: its
// graph, stack layout, lowered IR, and structurized tree. Nothing here is
// shared across subroutines, so a caller may drive many of these in
// parallel as long as each has its own instance (spec.md's parallelism
// note — RandomAccessData itself stays read-only and shared).
type Subroutine struct {
	StartVA uint32
	Graph   *cfg.SubroutineGraph
	Stack   *stack.SubroutineStack
	IR      *ir.IrRoutine
	Tree    *structurizer.Tree

	GPRParamSet []int
	FPRParamSet []int
}

// Analyze runs the full pipeline over one subroutine starting at startVA:
// CFG build, liveness, stack recovery, perilogue classification, IR
// lowering, then structurization.
func Analyze(data abi.RandomAccessData, startVA uint32, cfgABI abi.CWABIConfiguration) (*Subroutine, error) {
	if !data.Contains(startVA) {
		return nil, corefail.FatalErr(
			fmt.Errorf("subroutine: start address %#x is not mapped: %w", startVA, corefail.ErrNoEntryBlock))
	}

	g := cfg.Build(data, startVA)
	liveness.Analyze(g)
	st := stack.Analyze(g)
	perilogue.Analyze(g, st, cfgABI)

	irRoutine := ir.Translate(g, st)
	tree, structErr := structurizer.Structurize(irRoutine, g)

	sub := &Subroutine{
		StartVA: startVA,
		Graph:   g,
		Stack:   st,
		IR:      irRoutine,
		Tree:    tree,
	}
	sub.fillParamSets()
	return sub, structErr
}

// fillParamSets splits the IR's ordered parameter binds by register kind,
// the GPR/FPR parameter sets a Subroutine is defined to own (spec.md §3).
func (s *Subroutine) fillParamSets() {
	byID := map[int]*ir.BindInfo{}
	for _, b := range s.IR.Binds {
		byID[b.ID] = b
	}
	for _, id := range s.IR.Params {
		b, ok := byID[id]
		if !ok {
			continue
		}
		switch b.RegKind {
		case ir.GPRKind:
			s.GPRParamSet = append(s.GPRParamSet, id)
		case ir.FPRKind:
			s.FPRParamSet = append(s.FPRParamSet, id)
		}
	}
}
