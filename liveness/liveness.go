// Package liveness computes per-instruction and per-block GPR liveness
// over a finished cfg.SubroutineGraph: a local pass, a forward
// guess-propagation fixpoint, a backward output-confirmation fixpoint, and
// a final unused-range clearing sweep.
package liveness

import (
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/decode"
	"github.com/broadwayrc/ppcdecomp/regs"
)

// Analyze populates every block's Liveness field in g.
func Analyze(g *cfg.SubroutineGraph) {
	localPass(g)
	forwardGuessPropagation(g)
	backwardOutputConfirmation(g)
	clearUnusedRanges(g)
}

func gprSetOf(ds datasource.DataSource) regs.GPRSet {
	switch v := ds.(type) {
	case datasource.GPRSlice:
		return regs.Of(v.Reg)
	case datasource.MemRegOff:
		return regs.Of(v.Base)
	case datasource.MemRegReg:
		return regs.Of(v.Base, v.Index)
	case datasource.MultiReg:
		n := uint8(v.Width / 4)
		if n == 0 {
			n = 1
		}
		hi := uint8(v.Low) + n
		if hi > 32 {
			hi = 32
		}
		return regs.Range(v.Low, regs.GPR(hi))
	default:
		return 0
	}
}

func instUse(inst decode.MetaInst) regs.GPRSet {
	var use regs.GPRSet
	for _, r := range inst.ReadList() {
		use = use.Union(gprSetOf(r))
	}
	// A store's address registers live in its write operand.
	if inst.HasWrite && datasource.IsMemoryRef(inst.Write) {
		use = use.Union(gprSetOf(inst.Write))
	}
	return use
}

// instDef returns the def set and, separately, whatever of it is also in
// use — an updating memory form defines its base register via
// WritesBaseReg, and such registers must stay in use only, not def, per
// the local pass's rule for updating forms.
func instDef(inst decode.MetaInst) (def regs.GPRSet, updatingBase regs.GPRSet) {
	if inst.HasWrite {
		switch inst.Write.(type) {
		case datasource.MemRegOff, datasource.MemRegReg:
			// A store redefines memory, not a register: its base GPR is only
			// a def when the form is updating (WritesBaseReg), since that's
			// the only case where the base itself takes on a new value.
			if inst.Side&decode.WritesBaseReg != 0 {
				def = def.Union(gprSetOf(inst.Write))
			}
		default:
			def = def.Union(gprSetOf(inst.Write))
		}
	}
	if inst.Side&decode.WritesBaseReg != 0 {
		for _, r := range inst.ReadList() {
			for _, base := range datasource.BaseGPRs(r) {
				updatingBase = updatingBase.Add(base)
			}
		}
		if inst.HasWrite {
			for _, base := range datasource.BaseGPRs(inst.Write) {
				updatingBase = updatingBase.Add(base)
			}
		}
	}
	return def, updatingBase
}

// callerSaved is the volatile GPR range a call-like instruction (WritesLR)
// kills; r3-r10 hold the return value(s)/scratch and are defined, not used,
// across the call edge.
var callerSaved = regs.Range(regs.GPR(3), regs.GPR(13))
var returnSet = regs.Range(regs.GPR(3), regs.GPR(11))

func localPass(g *cfg.SubroutineGraph) {
	for _, b := range g.BlocksByID {
		n := len(b.Insts)
		lf := &b.Liveness
		lf.Def = make([]regs.GPRSet, n)
		lf.Use = make([]regs.GPRSet, n)
		lf.LiveIn = make([]regs.GPRSet, n)
		lf.LiveOut = make([]regs.GPRSet, n)

		var overwrite, input regs.GPRSet
		for i, inst := range b.Insts {
			use := instUse(inst)
			def, updatingBase := instDef(inst)
			use = use.Union(updatingBase)
			def = def.Sub(updatingBase)

			if inst.Side&decode.WritesLR != 0 {
				use = use.Sub(callerSaved)
				def = def.Union(returnSet)
			}

			input = input.Union(use.Sub(overwrite))
			overwrite = overwrite.Union(def)

			lf.Use[i] = use
			lf.Def[i] = def
		}
		lf.Input = input
		lf.Overwrite = overwrite
		lf.GuessOut = overwrite

		// Thread input forward through the block: live_in[i] is whatever of
		// input hasn't been killed by an earlier def, plus this instruction's
		// own use; live_out[i] is live_in[i] minus this def, plus what later
		// instructions use of the surviving set.
		var carried regs.GPRSet = input
		for i := range b.Insts {
			lf.LiveIn[i] = carried.Union(lf.Use[i])
			carried = carried.Sub(lf.Def[i])
			lf.LiveOut[i] = carried.Union(lf.Use[i]).Sub(lf.Def[i])
			if i+1 < n {
				lf.LiveOut[i] = lf.LiveOut[i].Union(lf.Use[i+1])
			}
		}
	}
}

func forwardGuessPropagation(g *cfg.SubroutineGraph) {
	changed := true
	for changed {
		changed = false
		for _, b := range g.BlocksByID {
			var fromPreds regs.GPRSet
			for _, e := range b.In {
				pred := g.BlocksByID[e.Source].Liveness
				fromPreds = fromPreds.Union(pred.GuessOut.Union(pred.Propagated))
			}
			next := fromPreds.Sub(b.Liveness.Overwrite.Union(b.Liveness.Input))
			if next != b.Liveness.Propagated {
				b.Liveness.Propagated = next
				changed = true
			}
		}
	}
}

// backwardOutputConfirmation narrows each block's guessed live-out set to
// what its successors actually confirm as live-in. A block with no
// successors (a true exit, ending in blr/bctr without WritesLR) never
// gets a turn in that successor-driven loop, so it's seeded first from
// the instruction-level return-value convention: whatever it guessed
// live is only genuinely live-out if it's also in returnSet.
func backwardOutputConfirmation(g *cfg.SubroutineGraph) {
	for _, b := range g.BlocksByID {
		if len(b.Out) == 0 {
			confirmed := b.Liveness.GuessOut.Union(b.Liveness.Propagated).Intersect(returnSet)
			applyConfirmed(b, confirmed)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range g.BlocksByID {
			var confirmed regs.GPRSet
			for _, oe := range b.Out {
				succ := g.BlocksByID[oe.Target].Liveness
				confirmed = confirmed.Union(succ.Input.Intersect(b.Liveness.GuessOut.Union(b.Liveness.Propagated)))
			}
			if applyConfirmed(b, confirmed) {
				changed = true
			}
		}
	}
}

// applyConfirmed folds confirmed into b's Output, narrowing its guessed
// and propagated sets and widening its per-instruction liveness to
// match. Reports whether Output actually grew.
func applyConfirmed(b *cfg.BasicBlock, confirmed regs.GPRSet) bool {
	newOutput := b.Liveness.Output.Union(confirmed)
	if newOutput == b.Liveness.Output {
		return false
	}
	b.Liveness.Output = newOutput
	b.Liveness.GuessOut = b.Liveness.GuessOut.Sub(confirmed)
	b.Liveness.Propagated = b.Liveness.Propagated.Sub(confirmed)

	b.Liveness.Input = b.Liveness.Input.Union(confirmed)
	for i := range b.Insts {
		b.Liveness.LiveIn[i] = b.Liveness.LiveIn[i].Union(confirmed)
		b.Liveness.LiveOut[i] = b.Liveness.LiveOut[i].Union(confirmed)
	}
	return true
}

func clearUnusedRanges(g *cfg.SubroutineGraph) {
	for _, b := range g.BlocksByID {
		lf := &b.Liveness
		stale := lf.GuessOut
		if stale.Empty() {
			continue
		}
		for i := len(b.Insts) - 1; i >= 0; i-- {
			lf.LiveOut[i] = lf.LiveOut[i].Sub(stale)
			if !lf.Def[i].Intersect(stale).Empty() || !lf.Use[i].Intersect(stale).Empty() {
				break
			}
			lf.LiveIn[i] = lf.LiveIn[i].Sub(stale)
		}
	}
}
