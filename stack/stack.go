// Package stack recovers a subroutine's stack frame: the frame size set up
// by its prologue, and the set of locals and incoming parameters addressed
// relative to r1 along the way.
package stack

import (
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/decode"
	"github.com/broadwayrc/ppcdecomp/regs"
)

// RefKind classifies one instruction's relationship to a stack slot.
type RefKind uint8

const (
	Read RefKind = iota
	Write
	AddressOf
)

// StackReference records one instruction's touch of a StackVariable.
type StackReference struct {
	VA    uint32
	Kind  RefKind
	Width datasource.Width
}

// StackVariable is one offset-addressed slot relative to r1.
type StackVariable struct {
	Offset        int32
	Widths        map[datasource.Width]bool
	References    []StackReference
	IsFrameStorage bool
}

func (v *StackVariable) touch(va uint32, kind RefKind, width datasource.Width) {
	if v.Widths == nil {
		v.Widths = map[datasource.Width]bool{}
	}
	v.Widths[width] = true
	v.References = append(v.References, StackReference{VA: va, Kind: kind, Width: width})
}

// SubroutineStack is the recovered frame: its allocated size plus locals
// and parameters partitioned by offset relative to stack_size.
type SubroutineStack struct {
	StackSize int32
	Locals    map[int32]*StackVariable
	Params    map[int32]*StackVariable
}

func newStack() *SubroutineStack {
	return &SubroutineStack{Locals: map[int32]*StackVariable{}, Params: map[int32]*StackVariable{}}
}

// VariableAt returns the StackVariable already recovered at offset, in
// either locals or params, without creating one.
func (s *SubroutineStack) VariableAt(offset int32) (*StackVariable, bool) {
	if v, ok := s.Locals[offset]; ok {
		return v, true
	}
	if v, ok := s.Params[offset]; ok {
		return v, true
	}
	return nil, false
}

// slot returns the StackVariable at offset, partitioned into locals or
// params by the current stack_size, creating it on first reference.
func (s *SubroutineStack) slot(offset int32) *StackVariable {
	table := s.Locals
	if offset > s.StackSize+4 {
		table = s.Params
	}
	v, ok := table[offset]
	if !ok {
		v = &StackVariable{Offset: offset}
		table[offset] = v
	}
	return v
}

// Analyze walks g in forward DFS order from its root, recovering the
// stack frame of the subroutine it represents.
func Analyze(g *cfg.SubroutineGraph) *SubroutineStack {
	s := newStack()
	visited := make([]bool, len(g.BlocksByID))
	var walk func(id int)
	walk = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		b := g.BlocksByID[id]
		va := b.Start
		for _, inst := range b.Insts {
			analyzeInst(s, inst, va)
			va += 4
		}
		for _, oe := range b.Out {
			walk(oe.Target)
		}
	}
	walk(g.Root)
	return s
}

func analyzeInst(s *SubroutineStack, inst decode.MetaInst, va uint32) {
	if setsFrameSize(inst) {
		mem := inst.Write.(datasource.MemRegOff)
		s.StackSize = -int32(mem.Offset)
	}

	if inst.HasWrite {
		recordRef(s, inst.Write, va, Write)
	}
	for _, r := range inst.ReadList() {
		if ds, ok := r.(datasource.GPRSlice); ok && ds.Reg == regs.R1 && inst.Op == decode.Addi {
			recordAddressOf(s, inst, va)
			continue
		}
		recordRef(s, r, va, Read)
	}
}

// setsFrameSize reports whether inst is the canonical stwu r1, -N(r1)
// prologue instruction that fixes the frame's size.
func setsFrameSize(inst decode.MetaInst) bool {
	if inst.Op != decode.Stwu {
		return false
	}
	mem, ok := inst.Write.(datasource.MemRegOff)
	if !ok || mem.Base != regs.R1 {
		return false
	}
	for _, r := range inst.ReadList() {
		if ds, ok := r.(datasource.GPRSlice); ok && ds.Reg == regs.R1 {
			return mem.Offset < 0
		}
	}
	return false
}

// recordAddressOf handles addi rX, r1, imm: the frame address itself is
// taken, not a value at an offset read or written.
func recordAddressOf(s *SubroutineStack, inst decode.MetaInst, va uint32) {
	if !inst.HasWrite {
		return
	}
	var offset int32
	for _, r := range inst.ReadList() {
		if simm, ok := r.(datasource.SIMM); ok {
			offset = int32(simm.Value)
		}
	}
	v := s.slot(offset)
	v.touch(va, AddressOf, datasource.S4)
}

func recordRef(s *SubroutineStack, ds datasource.DataSource, va uint32, kind RefKind) {
	mem, ok := ds.(datasource.MemRegOff)
	if !ok || mem.Base != regs.R1 {
		return
	}
	offset := int32(mem.Offset)
	width := mem.Width

	v := s.slot(offset)
	v.touch(va, kind, width)

	if width == datasource.PackedSingle {
		v2 := s.slot(offset + 4)
		v2.touch(va, kind, datasource.S4)
	}
}
