package ir

import (
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/decode"
	"github.com/broadwayrc/ppcdecomp/flowgraph"
	"github.com/broadwayrc/ppcdecomp/regs"
	"github.com/broadwayrc/ppcdecomp/stack"
)

// lowerCtx carries everything the per-instruction lowering rules need to
// resolve an operand into an OpVar: the GPR bind table (real, liveness
// driven), the recovered stack frame, and per-routine temp tables for
// FPR/CR values — these lack a liveness pass of their own (spec.md §4.3
// scopes liveness to GPRs only) so each physical FPR/CR register maps to
// exactly one routine-wide temp rather than a liveness-split family.
type lowerCtx struct {
	binds     []*BindInfo
	stack     *stack.SubroutineStack
	fprTemp   map[regs.FPR]Temp
	crTemp    map[regs.CRField]Temp
	pairedTmp map[regs.FPR][2]Temp
	nextID    func() int
}

func newLowerCtx(binds []*BindInfo, st *stack.SubroutineStack, nextID func() int) *lowerCtx {
	return &lowerCtx{
		binds:     binds,
		stack:     st,
		fprTemp:   map[regs.FPR]Temp{},
		crTemp:    map[regs.CRField]Temp{},
		pairedTmp: map[regs.FPR][2]Temp{},
		nextID:    nextID,
	}
}

func (c *lowerCtx) gpr(reg regs.GPR, va uint32) OpVar {
	if t, ok := TempForBind(c.binds, reg, va); ok {
		return t
	}
	return Temp{ID: c.nextID()}
}

func (c *lowerCtx) fpr(reg regs.FPR) Temp {
	if t, ok := c.fprTemp[reg]; ok {
		return t
	}
	t := Temp{ID: c.nextID()}
	c.fprTemp[reg] = t
	return t
}

func (c *lowerCtx) paired(reg regs.FPR) [2]Temp {
	if t, ok := c.pairedTmp[reg]; ok {
		return t
	}
	t := [2]Temp{{ID: c.nextID()}, {ID: c.nextID()}}
	c.pairedTmp[reg] = t
	return t
}

func (c *lowerCtx) crField(field regs.CRField) Temp {
	if t, ok := c.crTemp[field]; ok {
		return t
	}
	t := Temp{ID: c.nextID()}
	c.crTemp[field] = t
	return t
}

// memOperand resolves a memory-addressing DataSource to a stack reference
// when its base is r1, or a MemRef through the base register's temp
// otherwise.
func (c *lowerCtx) memOperand(mem datasource.MemRegOff, va uint32) OpVar {
	if mem.Base == regs.R1 {
		return StackRef{Offset: int32(mem.Offset)}
	}
	return MemRef{Base: c.gpr(mem.Base, va).(Temp), Offset: int32(mem.Offset)}
}

// operand resolves any read/write DataSource to its OpVar form.
func (c *lowerCtx) operand(ds datasource.DataSource, va uint32) OpVar {
	switch v := ds.(type) {
	case datasource.GPRSlice:
		return c.gpr(v.Reg, va)
	case datasource.FPRSlice:
		return c.fpr(v.Reg)
	case datasource.MemRegOff:
		return c.memOperand(v, va)
	case datasource.CRFieldRef:
		return c.crField(v.Field)
	case datasource.CRBitRef:
		return c.crField(v.Bit.Field())
	case datasource.SIMM:
		return Immediate{Value: int64(v.Value), Signed: true}
	case datasource.UIMM:
		return Immediate{Value: int64(v.Value), Signed: false}
	case datasource.AuxImm:
		return Immediate{Value: int64(v.Value), Signed: false}
	default:
		return Immediate{Value: 0}
	}
}

// dest resolves an instruction's write operand to a Temp, if it has one
// that belongs in the GPR/FPR temp space (CR writes are tracked through
// crField and surfaced only via Cmp's own Dst).
func (c *lowerCtx) dest(inst decode.MetaInst, va uint32) (Temp, bool) {
	if !inst.HasWrite {
		return Temp{}, false
	}
	switch v := inst.Write.(type) {
	case datasource.GPRSlice:
		return c.gpr(v.Reg, va).(Temp), true
	case datasource.FPRSlice:
		return c.fpr(v.Reg), true
	case datasource.CRFieldRef:
		return c.crField(v.Field), true
	case datasource.MemRegOff:
		return Temp{}, false
	}
	return Temp{}, false
}

// binaryArith maps the common register-form arithmetic and logical
// families straight through: two reads, one write, same opcode shape.
var binaryArith = map[decode.InstOperation]Opcode{
	decode.Add: Add, decode.Addc: Addc, decode.Adde: Addc,
	decode.Subf: Sub, decode.Subfc: Sub, decode.Subfe: Sub,
	decode.Mullw: Mul, decode.Mulhw: Mul, decode.Mulhwu: Mul,
	decode.Divw: Div, decode.Divwu: Div,
	decode.And: AndB, decode.Andc: AndB,
	decode.Or: OrB, decode.Orc: OrB,
	decode.Xor: XorB, decode.Eqv: XorB,
	decode.Nand: AndB, decode.Nor: OrB,
	decode.Addi: Add, decode.Addis: Add, decode.Addic: Addc, decode.AddicDot: Addc,
	decode.Mulli: Mul,
	decode.AndiDot: AndB, decode.AndisDot: AndB,
	decode.Ori: OrB, decode.Oris: OrB,
	decode.Xori: XorB, decode.Xoris: XorB,
	decode.Slw: Lsh, decode.Srw: Rsh, decode.Sraw: Rsh,
}

var unaryArith = map[decode.InstOperation]Opcode{
	decode.Neg: Neg, decode.Addme: Add, decode.Addze: Add,
	decode.Subfme: Sub, decode.Subfze: Sub,
	decode.Cntlzw: Intrinsic, decode.Extsb: Intrinsic, decode.Extsh: Intrinsic,
	decode.Srawi: Rsh,
}

var compareOps = map[decode.InstOperation]bool{
	decode.Cmp: true, decode.Cmpi: true, decode.Cmpl: true, decode.Cmpli: true,
}

var loadOps = map[decode.InstOperation]bool{
	decode.Lwz: true, decode.Lwzu: true, decode.Lwzx: true, decode.Lwzux: true,
	decode.Lbz: true, decode.Lbzu: true, decode.Lbzx: true, decode.Lbzux: true,
	decode.Lhz: true, decode.Lhzu: true, decode.Lhzx: true, decode.Lhzux: true,
	decode.Lha: true, decode.Lhau: true, decode.Lhax: true, decode.Lhaux: true,
	decode.Lfs: true, decode.Lfsu: true, decode.Lfd: true, decode.Lfdu: true,
}

var storeOps = map[decode.InstOperation]bool{
	decode.Stw: true, decode.Stwu: true, decode.Stwx: true, decode.Stwux: true,
	decode.Stb: true, decode.Stbu: true, decode.Stbx: true, decode.Stbux: true,
	decode.Sth: true, decode.Sthu: true, decode.Sthx: true, decode.Sthux: true,
	decode.Stfs: true, decode.Stfsu: true, decode.Stfd: true, decode.Stfdu: true,
}

// fpBinary/fpUnary mirror binaryArith/unaryArith for the FP family.
var fpBinary = map[decode.InstOperation]Opcode{
	decode.Fadd: Add, decode.Fadds: Add, decode.Fsub: Sub, decode.Fsubs: Sub,
	decode.Fmul: Mul, decode.Fmuls: Mul, decode.Fdiv: Div, decode.Fdivs: Div,
}

var fpUnary = map[decode.InstOperation]Opcode{
	decode.Fneg: Neg, decode.Fabs: Abs, decode.Fnabs: Abs, decode.Fmr: Mov,
	decode.Fres: Div, decode.Frsqrte: Sqrt, decode.Frsp: Mov,
	decode.Fctiw: Intrinsic, decode.Fctiwz: Intrinsic,
}

var psArith = map[decode.InstOperation]Opcode{
	decode.PsAdd: Add, decode.PsSub: Sub, decode.PsMul: Mul, decode.PsDiv: Div,
	decode.PsNeg: Neg, decode.PsAbs: Abs, decode.PsNabs: Abs, decode.PsMr: Mov,
	decode.PsRes: Div, decode.PsRsqrte: Sqrt,
}

// Translate lowers g's blocks into an IrRoutine whose graph has the same
// shape, wiring up a fresh flowgraph.Graph[*IrBlock] with matching edges.
func Translate(g *cfg.SubroutineGraph, st *stack.SubroutineStack) *IrRoutine {
	tracker := newGPRBindTracker()
	tracker.PhaseA(g)

	id := 0
	next := func() int { v := id; id++; return v }
	binds := tracker.PhaseB(g, next)
	ctx := newLowerCtx(binds, st, next)

	fg := flowgraph.New[*IrBlock]()
	cfgToIr := map[int]int{}
	for _, b := range g.BlocksByID {
		blk := lowerBlock(ctx, b)
		cfgToIr[b.ID] = fg.EmplaceVertex(blk)
	}
	if root, ok := cfgToIr[g.Root]; ok {
		fg.Link(fg.RootID(), root, flowgraph.Unconditional)
	}
	for _, b := range g.BlocksByID {
		from := cfgToIr[b.ID]
		for _, oe := range b.Out {
			fg.Link(from, cfgToIr[oe.Target], convertEdgeKind(oe.Kind))
		}
		if len(b.Out) == 0 {
			fg.Link(from, fg.TerminalID(), flowgraph.Unconditional)
		}
	}

	params := paramTable(binds)
	return &IrRoutine{Graph: fg, Binds: binds, Params: params, BlockOf: cfgToIr}
}

func convertEdgeKind(k cfg.OutEdgeKind) flowgraph.EdgeKind {
	switch k {
	case cfg.ConditionTrue:
		return flowgraph.ConditionTrue
	case cfg.ConditionFalse:
		return flowgraph.ConditionFalse
	case cfg.Fallthrough:
		return flowgraph.Fallthrough
	default:
		return flowgraph.Unconditional
	}
}

// paramTable orders every bind marked is_param into the ABI's fixed slot
// order: r3..r10 first (the only order the GPR tracker can populate).
func paramTable(binds []*BindInfo) []int {
	var params []int
	for reg := uint8(3); reg <= 10; reg++ {
		for _, b := range binds {
			if b.RegKind == GPRKind && b.RegNum == reg && b.IsParam {
				params = append(params, b.ID)
				break
			}
		}
	}
	return params
}

func lowerBlock(ctx *lowerCtx, b *cfg.BasicBlock) *IrBlock {
	blk := &IrBlock{}
	va := b.Start
	for _, inst := range b.Insts {
		lowerInst(ctx, blk, inst, va)
		va += 4
	}
	return blk
}

func lowerInst(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	switch {
	case inst.Op == decode.Sync || inst.Op == decode.Isync:
		blk.Insts = append(blk.Insts, Instruction{Op: OptBarrier, VA: va})
		return

	case inst.Op == decode.Bclr && inst.Side&decode.WritesLR == 0:
		blk.Insts = append(blk.Insts, Instruction{Op: Return, VA: va})
		return

	case inst.Op == decode.B && inst.Side&decode.WritesLR != 0:
		lowerCall(blk, inst, va)
		return

	case (inst.Op == decode.Bclr || inst.Op == decode.Bcctr) && inst.Side&decode.WritesLR != 0:
		lowerIndirectCall(blk, va)
		return

	case inst.Op == decode.Bc:
		lowerBcTerminator(ctx, blk, inst)
		return

	case inst.Op == decode.B || inst.Op == decode.Bclr || inst.Op == decode.Bcctr:
		return

	case inst.Op == decode.Stwu && isFrameAllocateStore(inst):
		return

	case compareOps[inst.Op]:
		lowerCompare(ctx, blk, inst, va)
		return

	case loadOps[inst.Op]:
		lowerLoad(ctx, blk, inst, va)
		return

	case storeOps[inst.Op]:
		lowerStore(ctx, blk, inst, va)
		return

	case inst.Op == decode.Lmw || inst.Op == decode.Stmw:
		blk.Insts = append(blk.Insts, Instruction{Op: Intrinsic, VA: va})
		return

	case inst.Op == decode.Rlwinm || inst.Op == decode.Rlwimi || inst.Op == decode.Rlwnm:
		lowerRotate(ctx, blk, inst, va)
		return

	case isPairedSingle(inst.Op):
		lowerPaired(ctx, blk, inst, va)
		return
	}

	if op, ok := binaryArith[inst.Op]; ok {
		lowerBinary(ctx, blk, inst, va, op)
		return
	}
	if op, ok := unaryArith[inst.Op]; ok {
		lowerUnary(ctx, blk, inst, va, op)
		return
	}
	if op, ok := fpBinary[inst.Op]; ok {
		lowerBinary(ctx, blk, inst, va, op)
		return
	}
	if op, ok := fpUnary[inst.Op]; ok {
		lowerUnary(ctx, blk, inst, va, op)
		return
	}
	if inst.Op == decode.Fmadd || inst.Op == decode.Fmadds || inst.Op == decode.Fmsub || inst.Op == decode.Fmsubs ||
		inst.Op == decode.Fnmadd || inst.Op == decode.Fnmadds || inst.Op == decode.Fnmsub || inst.Op == decode.Fnmsubs {
		lowerMadd(ctx, blk, inst, va)
		return
	}
	if inst.Op == decode.Fcmpo || inst.Op == decode.Fcmpu {
		lowerCompare(ctx, blk, inst, va)
		return
	}

	// Unknown, privileged, or otherwise unmodeled op — per spec.md §7's
	// decode-unknown policy, surface as an opaque Intrinsic.
	blk.Insts = append(blk.Insts, Instruction{Op: Intrinsic, VA: va})
}

func isFrameAllocateStore(inst decode.MetaInst) bool {
	mem, ok := inst.Write.(datasource.MemRegOff)
	return ok && mem.Base == regs.R1 && mem.Offset < 0
}

func lowerCall(blk *IrBlock, inst decode.MetaInst, va uint32) {
	var target uint32
	for _, r := range inst.ReadList() {
		if rb, ok := r.(datasource.RelBranch); ok {
			target = uint32(rb.Value)
		}
	}
	if inst.Flags&decode.AbsoluteAddr == 0 {
		target = va + uint32(int32(target))
	}
	in := Instruction{Op: Call, VA: va}
	in.AppendOperand(FunctionRef{VA: target})
	blk.Insts = append(blk.Insts, in)
}

// lowerIndirectCall lowers bctrl/blrl: a call through ctr or lr whose
// target isn't known until runtime, so no FunctionRef operand is
// available — the bare Call instruction itself is the indirect marker.
func lowerIndirectCall(blk *IrBlock, va uint32) {
	blk.Insts = append(blk.Insts, Instruction{Op: Call, VA: va})
}

func lowerBcTerminator(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst) {
	var bo uint8
	var bit regs.CRBit
	for _, r := range inst.ReadList() {
		switch v := r.(type) {
		case datasource.AuxImm:
			bo = uint8(v.Value)
		case datasource.CRBitRef:
			bit = v.Bit
		}
	}
	class := decode.ClassifyBO(bo)
	blk.Term = Terminator{
		HasCond:      true,
		Cond:         ctx.crField(bit.Field()),
		InvCond:      class == decode.BODnzf || class == decode.BODzf || class == decode.BOF,
		CounterCheck: class == decode.BODnzf || class == decode.BODzf || class == decode.BODnzt || class == decode.BODzt || class == decode.BODnz || class == decode.BODz,
	}
}

func lowerCompare(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	in := Instruction{Op: Cmp, VA: va}
	for _, r := range inst.ReadList() {
		in.AppendOperand(ctx.operand(r, va))
	}
	if t, ok := ctx.dest(inst, va); ok {
		in.SetDst(t)
	}
	blk.Insts = append(blk.Insts, in)
}

func lowerLoad(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	in := Instruction{Op: Load, VA: va}
	for _, r := range inst.ReadList() {
		in.AppendOperand(ctx.operand(r, va))
	}
	if t, ok := ctx.dest(inst, va); ok {
		in.SetDst(t)
	}
	blk.Insts = append(blk.Insts, in)
	if inst.Side&decode.WritesBaseReg != 0 {
		emitBaseUpdate(ctx, blk, inst, va)
	}
}

func lowerStore(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	if isFrameAllocateStore(inst) && inst.Op == decode.Stwu {
		return
	}
	in := Instruction{Op: Store, VA: va}
	for _, r := range inst.ReadList() {
		in.AppendOperand(ctx.operand(r, va))
	}
	in.AppendOperand(ctx.operand(inst.Write, va))
	blk.Insts = append(blk.Insts, in)
	if inst.Side&decode.WritesBaseReg != 0 {
		emitBaseUpdate(ctx, blk, inst, va)
	}
}

// emitBaseUpdate materializes the effective-address writeback an updating
// load/store form performs on its base register, as an explicit Add.
func emitBaseUpdate(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	for _, r := range inst.ReadList() {
		mem, ok := r.(datasource.MemRegOff)
		if !ok {
			continue
		}
		in := Instruction{Op: Add, VA: va}
		base := ctx.gpr(mem.Base, va).(Temp)
		in.SetDst(base)
		in.AppendOperand(base)
		in.AppendOperand(Immediate{Value: int64(mem.Offset), Signed: true})
		blk.Insts = append(blk.Insts, in)
		return
	}
}

// subfFamily are the subf-shaped ops whose reads are encoded (rA, rB) but
// whose result is rB - rA, per setSubf's own note on operand order.
var subfFamily = map[decode.InstOperation]bool{
	decode.Subf: true, decode.Subfc: true, decode.Subfe: true,
}

func lowerBinary(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32, op Opcode) {
	in := Instruction{Op: op, VA: va}
	reads := inst.ReadList()
	if (inst.Op == decode.Addi || inst.Op == decode.Addis) && len(reads) == 2 {
		// rA = r0 reads as literal zero: the immediate is the whole value.
		if g, ok := reads[0].(datasource.GPRSlice); ok && g.Reg == regs.R0 {
			reads = reads[1:]
		}
	}
	if subfFamily[inst.Op] && len(reads) >= 2 {
		in.Op = Sub
		in.AppendOperand(ctx.operand(reads[1], va))
		in.AppendOperand(ctx.operand(reads[0], va))
	} else {
		for _, r := range reads {
			in.AppendOperand(ctx.operand(r, va))
		}
	}
	if t, ok := ctx.dest(inst, va); ok {
		in.SetDst(t)
	}
	blk.Insts = append(blk.Insts, in)
	if inst.Flags&decode.RecordForm != 0 {
		blk.Insts = append(blk.Insts, Instruction{Op: RcTest, VA: va, Operands: []OpVar{in.Dst}})
	}
}

func lowerUnary(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32, op Opcode) {
	in := Instruction{Op: op, VA: va}
	for _, r := range inst.ReadList() {
		in.AppendOperand(ctx.operand(r, va))
	}
	if t, ok := ctx.dest(inst, va); ok {
		in.SetDst(t)
	}
	blk.Insts = append(blk.Insts, in)
	if inst.Flags&decode.RecordForm != 0 {
		blk.Insts = append(blk.Insts, Instruction{Op: RcTest, VA: va, Operands: []OpVar{in.Dst}})
	}
}

func lowerMadd(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	reads := inst.ReadList()
	if len(reads) < 3 {
		blk.Insts = append(blk.Insts, Instruction{Op: Intrinsic, VA: va})
		return
	}
	dst, _ := ctx.dest(inst, va)
	mul := Instruction{Op: Mul, VA: va}
	mul.AppendOperand(ctx.operand(reads[0], va))
	mul.AppendOperand(ctx.operand(reads[1], va))
	mul.SetDst(dst)
	blk.Insts = append(blk.Insts, mul)

	addOp := Add
	if inst.Op == decode.Fmsub || inst.Op == decode.Fmsubs || inst.Op == decode.Fnmsub || inst.Op == decode.Fnmsubs {
		addOp = Sub
	}
	add := Instruction{Op: addOp, VA: va}
	add.AppendOperand(dst)
	add.AppendOperand(ctx.operand(reads[2], va))
	add.SetDst(dst)
	blk.Insts = append(blk.Insts, add)

	if inst.Op == decode.Fnmadd || inst.Op == decode.Fnmadds || inst.Op == decode.Fnmsub || inst.Op == decode.Fnmsubs {
		neg := Instruction{Op: Neg, VA: va}
		neg.AppendOperand(dst)
		neg.SetDst(dst)
		blk.Insts = append(blk.Insts, neg)
	}
}

func lowerRotate(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	reads := inst.ReadList()
	src := ctx.operand(reads[0], va)
	dst, _ := ctx.dest(inst, va)

	var shAmt OpVar
	if inst.Op == decode.Rlwimi {
		shAmt = ctx.operand(reads[2], va)
	} else {
		shAmt = ctx.operand(reads[1], va)
	}
	var mb, me uint8
	if inst.Op == decode.Rlwimi {
		mb, me = 0, 31
	} else if aux, ok := lastTwoAux(reads); ok {
		mb, me = aux[0], aux[1]
	}

	rot := Instruction{Op: Rol, VA: va}
	rot.AppendOperand(src)
	rot.AppendOperand(shAmt)
	rot.SetDst(dst)
	blk.Insts = append(blk.Insts, rot)

	mask := rotateMask(mb, me)
	and := Instruction{Op: AndB, VA: va}
	and.AppendOperand(dst)
	and.AppendOperand(Immediate{Value: int64(mask), Signed: false})
	and.SetDst(dst)
	blk.Insts = append(blk.Insts, and)

	if inst.Op == decode.Rlwimi {
		merge := Instruction{Op: OrB, VA: va}
		merge.AppendOperand(dst)
		merge.AppendOperand(ctx.operand(reads[1], va))
		merge.SetDst(dst)
		blk.Insts = append(blk.Insts, merge)
	}
}

func lastTwoAux(reads []datasource.DataSource) ([2]uint8, bool) {
	var vals []uint8
	for _, r := range reads {
		if a, ok := r.(datasource.AuxImm); ok {
			vals = append(vals, uint8(a.Value))
		}
	}
	if len(vals) < 2 {
		return [2]uint8{}, false
	}
	return [2]uint8{vals[len(vals)-2], vals[len(vals)-1]}, true
}

// rotateMask builds the PowerPC mask(MB, ME) value: a contiguous run of
// one bits from MB to ME inclusive, wrapping if MB > ME.
func rotateMask(mb, me uint8) uint32 {
	var mask uint32
	i := mb
	for {
		mask |= 1 << (31 - i)
		if i == me {
			break
		}
		i = (i + 1) % 32
	}
	return mask
}

func isPairedSingle(op decode.InstOperation) bool {
	return op >= decode.PsAdd && op <= decode.PsqStu
}

// lowerPaired lowers a paired-single op into two scalar-shaped IR
// instructions over per-lane Single-width temps (Open Question 1
// resolution): merge/select/sum/compare forms that mix lanes fall back to
// one Intrinsic per lane since they have no one-to-one scalar opcode.
func lowerPaired(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	if inst.Op == decode.PsqL || inst.Op == decode.PsqLu || inst.Op == decode.PsqSt || inst.Op == decode.PsqStu {
		lowerPairedMemory(ctx, blk, inst, va)
		return
	}

	op, ok := psArith[inst.Op]
	if !ok {
		blk.Insts = append(blk.Insts, Instruction{Op: Intrinsic, VA: va}, Instruction{Op: Intrinsic, VA: va})
		return
	}

	var dstReg regs.FPR
	if w, ok := inst.Write.(datasource.FPRSlice); ok {
		dstReg = w.Reg
	}
	dstLanes := ctx.paired(dstReg)

	for lane := 0; lane < 2; lane++ {
		in := Instruction{Op: op, VA: va}
		for _, r := range inst.ReadList() {
			if f, ok := r.(datasource.FPRSlice); ok {
				lanes := ctx.paired(f.Reg)
				in.AppendOperand(lanes[lane])
			}
		}
		in.SetDst(dstLanes[lane])
		blk.Insts = append(blk.Insts, in)
	}
}

func lowerPairedMemory(ctx *lowerCtx, blk *IrBlock, inst decode.MetaInst, va uint32) {
	var mem datasource.MemRegOff
	var memOK bool
	var freg regs.FPR
	var store bool
	for _, r := range inst.ReadList() {
		if m, ok := r.(datasource.MemRegOff); ok {
			mem, memOK = m, true
		}
		if f, ok := r.(datasource.FPRSlice); ok {
			freg, store = f.Reg, true
		}
	}
	if !memOK {
		return
	}
	addr := ctx.memOperand(mem, va)

	if store {
		lanes := ctx.paired(freg)
		s0 := Instruction{Op: Store, VA: va}
		s0.AppendOperand(lanes[0])
		s0.AppendOperand(addr)
		blk.Insts = append(blk.Insts, s0)
		if inst.Flags&decode.PsLoadsOne == 0 {
			s1 := Instruction{Op: Store, VA: va}
			s1.AppendOperand(lanes[1])
			s1.AppendOperand(addrPlus(addr, 4))
			blk.Insts = append(blk.Insts, s1)
		}
		return
	}

	var lanes [2]Temp
	if w, ok := inst.Write.(datasource.FPRSlice); ok {
		lanes = ctx.paired(w.Reg)
	}
	l0 := Instruction{Op: Load, VA: va}
	l0.AppendOperand(addr)
	l0.SetDst(lanes[0])
	blk.Insts = append(blk.Insts, l0)
	if inst.Flags&decode.PsLoadsOne == 0 {
		l1 := Instruction{Op: Load, VA: va}
		l1.AppendOperand(addrPlus(addr, 4))
		l1.SetDst(lanes[1])
		blk.Insts = append(blk.Insts, l1)
	}
}

func addrPlus(addr OpVar, delta int32) OpVar {
	switch v := addr.(type) {
	case StackRef:
		return StackRef{Offset: v.Offset + delta}
	case MemRef:
		return MemRef{Base: v.Base, Offset: v.Offset + delta}
	default:
		return addr
	}
}
