// Package perilogue classifies the instructions of a subroutine's entry
// and exit blocks by their role in the function's prologue/epilogue: frame
// setup and teardown, link-register save/restore, and callee-saved
// register spill/reload.
package perilogue

import (
	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/decode"
	"github.com/broadwayrc/ppcdecomp/regs"
	"github.com/broadwayrc/ppcdecomp/stack"
)

// calleeSavedGPR and calleeSavedFPR are the SVR4/CodeWarrior ABI's
// non-volatile register ranges: r14-r31 and f14-f31.
var calleeSavedGPR = regs.Range(regs.GPR(14), regs.GPR(32))
var calleeSavedFPR = regs.Range(regs.FPR(14), regs.FPR(32))

// Analyze tags every instruction of every block in g, using st to cross
// mark stack slots touched by link-register and callee-save spills, and
// cfgABI to recognize ABI helper calls when the caller already knows
// their entry addresses.
func Analyze(g *cfg.SubroutineGraph, st *stack.SubroutineStack, cfgABI abi.CWABIConfiguration) {
	for _, b := range g.BlocksByID {
		classifyBlock(b, st, cfgABI)
	}
}

func classifyBlock(b *cfg.BasicBlock, st *stack.SubroutineStack, cfgABI abi.CWABIConfiguration) {
	tags := make([]cfg.PerilogueTag, len(b.Insts))

	var lrInR0 bool
	var lrLoadedFromSlot bool

	for i, inst := range b.Insts {
		tag := cfg.NormalInst

		switch {
		case isFrameAllocate(inst):
			tag = cfg.FrameAllocate

		case isFrameDeallocate(inst):
			tag = cfg.FrameDeallocate

		case inst.Op == decode.Mfspr && readsSPR(inst, regs.LR) && writesGPR(inst, regs.R0):
			tag = cfg.MoveLRToR0
			lrInR0 = true

		case inst.Op == decode.Mtspr && writesSPR(inst, regs.LR) && readsGPR(inst, regs.R0) && lrInR0:
			tag = cfg.MoveR0toLR

		case inst.Op == decode.Stw && writesStackSlotFrom(inst, regs.R0) && lrInR0:
			tag = cfg.SaveSenderLR
			markFrameStorage(st, inst)
			lrInR0 = false

		case inst.Op == decode.Lwz && readsStackSlotTo(inst, regs.R0) && isFrameStorageSlot(st, inst):
			if lrLoadedFromSlot {
				tag = cfg.CalleeGPRRestore
			} else {
				tag = cfg.LoadSenderLR
				lrInR0 = true
				lrLoadedFromSlot = true
			}

		case inst.Op == decode.Stw && isCalleeSaveStore(inst, b, i):
			tag = cfg.CalleeGPRSave
			markFrameStorage(st, inst)

		case inst.Op == decode.Stfd && isCalleeFPRSaveStore(inst, b, i):
			tag = cfg.CalleeFPRSave
			markFrameStorage(st, inst)

		case inst.Op == decode.Stmw:
			tag = cfg.CalleeGPRSave
			markFrameStorage(st, inst)

		case inst.Op == decode.Lmw && isFrameStorageSlot(st, inst):
			tag = cfg.CalleeGPRRestore

		case inst.Op == decode.Lfd && isFrameStorageSlot(st, inst):
			tag = cfg.CalleeFPRRestore

		case inst.Op == decode.B && isAbiHelperTarget(inst, cfgABI):
			tag = cfg.AbiRoutine
			if i > 0 && tags[i-1] == cfg.NormalInst && setsR11(b.Insts[i-1]) {
				tags[i-1] = cfg.CalleeGPRSave
			}
		}

		tags[i] = tag
	}

	b.PerilogueTags = tags
}

func isFrameAllocate(inst decode.MetaInst) bool {
	if inst.Op != decode.Stwu {
		return false
	}
	mem, ok := inst.Write.(datasource.MemRegOff)
	return ok && mem.Base == regs.R1 && mem.Offset < 0
}

func isFrameDeallocate(inst decode.MetaInst) bool {
	if inst.Op != decode.Addi || !inst.HasWrite {
		return false
	}
	w, ok := inst.Write.(datasource.GPRSlice)
	if !ok || w.Reg != regs.R1 {
		return false
	}
	for _, r := range inst.ReadList() {
		if g, ok := r.(datasource.GPRSlice); ok && g.Reg == regs.R1 {
			return true
		}
	}
	return false
}

func readsSPR(inst decode.MetaInst, spr regs.SpecialReg) bool {
	for _, r := range inst.ReadList() {
		if s, ok := r.(datasource.SPRRef); ok && s.SPR == spr {
			return true
		}
	}
	return false
}

func writesSPR(inst decode.MetaInst, spr regs.SpecialReg) bool {
	s, ok := inst.Write.(datasource.SPRRef)
	return ok && s.SPR == spr
}

func readsGPR(inst decode.MetaInst, r regs.GPR) bool {
	for _, rd := range inst.ReadList() {
		if g, ok := rd.(datasource.GPRSlice); ok && g.Reg == r {
			return true
		}
	}
	return false
}

func writesGPR(inst decode.MetaInst, r regs.GPR) bool {
	g, ok := inst.Write.(datasource.GPRSlice)
	return ok && g.Reg == r
}

func memOffset(ds datasource.DataSource) (int32, bool) {
	mem, ok := ds.(datasource.MemRegOff)
	if !ok || mem.Base != regs.R1 {
		return 0, false
	}
	return int32(mem.Offset), true
}

func writesStackSlotFrom(inst decode.MetaInst, r regs.GPR) bool {
	mem, ok := inst.Write.(datasource.MemRegOff)
	if !ok || mem.Base != regs.R1 {
		return false
	}
	return readsGPR(inst, r)
}

func readsStackSlotTo(inst decode.MetaInst, r regs.GPR) bool {
	if !writesGPR(inst, r) {
		return false
	}
	for _, rd := range inst.ReadList() {
		if _, ok := memOffset(rd); ok {
			return true
		}
	}
	return false
}

func isFrameStorageSlot(st *stack.SubroutineStack, inst decode.MetaInst) bool {
	var off int32
	var found bool
	for _, r := range inst.ReadList() {
		if o, ok := memOffset(r); ok {
			off, found = o, true
		}
	}
	if !found {
		if o, ok := memOffset(inst.Write); ok {
			off, found = o, true
		}
	}
	if !found {
		return false
	}
	v, ok := st.VariableAt(off)
	return ok && v.IsFrameStorage
}

func markFrameStorage(st *stack.SubroutineStack, inst decode.MetaInst) {
	off, ok := memOffset(inst.Write)
	if !ok {
		return
	}
	if v, ok := st.VariableAt(off); ok {
		v.IsFrameStorage = true
	}
}

// isCalleeSaveStore recognizes a store of a callee-saved GPR that has been
// live since block entry — i.e. it is a spill of the caller's value, not
// a value this block computed itself.
func isCalleeSaveStore(inst decode.MetaInst, b *cfg.BasicBlock, idx int) bool {
	mem, ok := inst.Write.(datasource.MemRegOff)
	if !ok || mem.Base != regs.R1 {
		return false
	}
	for _, r := range inst.ReadList() {
		g, ok := r.(datasource.GPRSlice)
		if !ok || !calleeSavedGPR.Has(g.Reg) {
			continue
		}
		if b.Liveness.LiveIn != nil && idx < len(b.Liveness.LiveIn) {
			return b.Liveness.LiveIn[0].Has(g.Reg)
		}
	}
	return false
}

func isCalleeFPRSaveStore(inst decode.MetaInst, b *cfg.BasicBlock, idx int) bool {
	mem, ok := inst.Write.(datasource.MemRegOff)
	if !ok || mem.Base != regs.R1 {
		return false
	}
	for _, r := range inst.ReadList() {
		if f, ok := r.(datasource.FPRSlice); ok && calleeSavedFPR.Has(f.Reg) {
			return true
		}
	}
	return false
}

// isAbiHelperTarget reports whether inst's branch target lands inside the
// configured savegpr/restgpr helper range: one four-byte entry point per
// callee-saved GPR, starting at the configured start address.
func isAbiHelperTarget(inst decode.MetaInst, cfgABI abi.CWABIConfiguration) bool {
	var target uint32
	for _, r := range inst.ReadList() {
		if rb, ok := r.(datasource.RelBranch); ok {
			target = uint32(rb.Value)
		}
	}
	if inst.Flags&decode.AbsoluteAddr == 0 {
		target += inst.VA
	}
	span := uint32(calleeSavedGPR.Count()) * 4
	if cfgABI.HasSavegpr && target-cfgABI.SavegprStart < span {
		return true
	}
	if cfgABI.HasRestgpr && target-cfgABI.RestgprStart < span {
		return true
	}
	return false
}

func setsR11(inst decode.MetaInst) bool {
	return inst.Op == decode.Addi && writesGPR(inst, regs.GPR(11))
}
