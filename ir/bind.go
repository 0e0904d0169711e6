package ir

import (
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/regs"
)

// abiFixed are the registers named directly rather than tracked as temps:
// the stack pointer, the read-only TOC base, and the small-data base.
func abiFixed(r regs.GPR) bool {
	return r == regs.R1 || r == regs.R2 || r == regs.R13
}

var gprParamRange = regs.Range(regs.GPR(3), regs.GPR(11))
var gprRetRange = regs.Range(regs.GPR(3), regs.GPR(11))

// blockBind is phase A's per-block, per-register output: one local live
// range plus whether it touches the block's entry or exit.
type blockBind struct {
	blockID    int
	reg        regs.GPR
	lo, hi     uint32
	atEntry    bool
	atExit     bool
}

// GPRBindTracker runs the two-phase bind-tracking algorithm over a
// subroutine's GPRs: block-local accumulation from liveness deltas, then
// a union-find merge across edges into routine-scoped binds.
type GPRBindTracker struct {
	binds []blockBind
	uf    []int
}

func newGPRBindTracker() *GPRBindTracker {
	return &GPRBindTracker{}
}

// PhaseA walks every block in address order, emitting one blockBind per
// maximal local live range of a non-fixed GPR.
func (t *GPRBindTracker) PhaseA(g *cfg.SubroutineGraph) {
	for _, b := range g.BlocksByID {
		lf := b.Liveness
		rgnBegin := map[regs.GPR]uint32{}
		n := len(b.Insts)

		emit := func(reg regs.GPR, lo, hi uint32, atEntry bool) {
			t.binds = append(t.binds, blockBind{blockID: b.ID, reg: reg, lo: lo, hi: hi, atEntry: atEntry})
		}

		for i := 0; i < n; i++ {
			va := b.Start + uint32(i)*4
			delta := lf.LiveIn[i].Xor(lf.LiveOut[i])
			delta.ForEach(func(reg regs.GPR) {
				if abiFixed(reg) {
					return
				}
				if _, ok := rgnBegin[reg]; !ok {
					rgnBegin[reg] = b.Start
				}
				if lf.LiveIn[i].Has(reg) {
					emit(reg, rgnBegin[reg], va+4, lf.Input.Has(reg))
					delete(rgnBegin, reg)
				} else {
					rgnBegin[reg] = va
				}
			})
		}

		lf.Output.ForEach(func(reg regs.GPR) {
			if abiFixed(reg) {
				return
			}
			lo, ok := rgnBegin[reg]
			if !ok {
				lo = b.Start
			}
			t.binds = append(t.binds, blockBind{
				blockID: b.ID, reg: reg, lo: lo, hi: b.End,
				atEntry: lf.Input.Has(reg), atExit: true,
			})
		})
	}
}

// PhaseB unions block-binds of the same register across any edge where
// the value is live on both sides, then collects each group into one
// routine-scoped BindInfo. next supplies globally-unique temp ids shared
// across every register kind so Temp.ID stays opaque at the ir.OpVar
// level.
func (t *GPRBindTracker) PhaseB(g *cfg.SubroutineGraph, next func() int) []*BindInfo {
	n := len(t.binds)
	t.uf = make([]int, n)
	for i := range t.uf {
		t.uf[i] = i
	}

	byBlockReg := map[[2]int][]int{}
	for i, bb := range t.binds {
		key := [2]int{bb.blockID, int(bb.reg)}
		byBlockReg[key] = append(byBlockReg[key], i)
	}

	for _, b := range g.BlocksByID {
		for _, oe := range b.Out {
			succ := oe.Target
			for reg := regs.GPR(0); reg < regs.NumGPR; reg++ {
				exits := byBlockReg[[2]int{b.ID, int(reg)}]
				entries := byBlockReg[[2]int{succ, int(reg)}]
				var exitIdx, entryIdx int = -1, -1
				for _, i := range exits {
					if t.binds[i].atExit {
						exitIdx = i
					}
				}
				for _, i := range entries {
					if t.binds[i].atEntry {
						entryIdx = i
					}
				}
				if exitIdx >= 0 && entryIdx >= 0 {
					t.union(exitIdx, entryIdx)
				}
			}
		}
	}

	groups := map[int]*BindInfo{}
	var order []int
	for i, bb := range t.binds {
		root := t.find(i)
		info, ok := groups[root]
		if !ok {
			info = &BindInfo{ID: next(), RegKind: GPRKind, RegNum: uint8(bb.reg)}
			groups[root] = info
			order = append(order, root)
		}
		info.Regions = append(info.Regions, [2]uint32{bb.lo, bb.hi})
		if bb.atEntry && gprParamRange.Has(bb.reg) && bb.blockID == g.Root {
			info.IsParam = true
		}
		if bb.atExit && gprRetRange.Has(bb.reg) && isExitBlock(g, bb.blockID) {
			info.IsRet = true
		}
	}

	result := make([]*BindInfo, 0, len(order))
	for _, root := range order {
		result = append(result, groups[root])
	}
	return result
}

func isExitBlock(g *cfg.SubroutineGraph, id int) bool {
	for _, e := range g.Exits {
		if e == id {
			return true
		}
	}
	return false
}

func (t *GPRBindTracker) find(i int) int {
	for t.uf[i] != i {
		t.uf[i] = t.uf[t.uf[i]]
		i = t.uf[i]
	}
	return i
}

func (t *GPRBindTracker) union(a, b int) {
	ra, rb := t.find(a), t.find(b)
	if ra != rb {
		t.uf[ra] = rb
	}
}

// TempForBind looks up which BindInfo, if any, owns reg at va — the
// query the IR translator uses to resolve temp(rX@va).
func TempForBind(binds []*BindInfo, reg regs.GPR, va uint32) (Temp, bool) {
	for _, info := range binds {
		if info.RegKind != GPRKind || info.RegNum != uint8(reg) {
			continue
		}
		for _, r := range info.Regions {
			if va >= r[0] && va < r[1] {
				return Temp{ID: info.ID}, true
			}
		}
	}
	return Temp{}, false
}
