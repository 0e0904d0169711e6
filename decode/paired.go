package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

// decode4 dispatches primary opcode 4: the Gekko/Broadway paired-single
// extension. Arithmetic forms share the A-form layout with the
// single-precision family; ps_merge/ps_sum/ps_sel use the X-form 10-bit xo.
func decode4(w word, m *MetaInst) {
	switch w.xo() {
	case 0:
		setPsCompare(w, m, PsCmpu0)
		return
	case 32:
		setPsCompare(w, m, PsCmpo0)
		return
	case 64:
		setPsCompare(w, m, PsCmpu1)
		return
	case 96:
		setPsCompare(w, m, PsCmpo1)
		return
	case 40:
		setPsArith1(w, m, PsNeg)
		return
	case 72:
		setPsArith1(w, m, PsMr)
		return
	case 136:
		setPsArith1(w, m, PsNabs)
		return
	case 264:
		setPsArith1(w, m, PsAbs)
		return
	case 528:
		setPsArith2(w, m, PsMerge00)
		return
	case 560:
		setPsArith2(w, m, PsMerge01)
		return
	case 592:
		setPsArith2(w, m, PsMerge10)
		return
	case 624:
		setPsArith2(w, m, PsMerge11)
		return
	}
	switch w.xo5() {
	case 21:
		setPsArith2(w, m, PsAdd)
	case 20:
		setPsArith2(w, m, PsSub)
	case 25:
		setPsArithMul(w, m, PsMul)
	case 18:
		setPsArith2(w, m, PsDiv)
	case 23:
		setPsSel(w, m)
	case 24:
		setPsArith1(w, m, PsRes)
	case 26:
		setPsArith1(w, m, PsRsqrte)
	case 29:
		setPsArithMadd(w, m, PsMadd)
	case 28:
		setPsArithMadd(w, m, PsMsub)
	case 31:
		setPsArithMadd(w, m, PsNmadd)
	case 30:
		setPsArithMadd(w, m, PsNmsub)
	case 10:
		setPsArith2(w, m, PsSum0)
	case 11:
		setPsArith2(w, m, PsSum1)
	default:
		m.Op = Invalid
		return
	}
	m.FPSCREffs |= FxBit | FexBit | FrBit | FiBit | FprfMask
}

func setPsCompare(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(psW(w.fra()))
	m.AppendRead(psW(w.frb()))
	m.SetWrite(datasource.CRFieldRef{Field: regCRField(w.crfd())})
	m.FPSCREffs |= FxBit | FexBit | VxBit | FprfMask
}

func psW(r uint8) datasource.FPRSlice {
	return datasource.FPRSlice{Reg: regFPR(r), Width: datasource.PackedSingle}
}

func setPsArith1(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(psW(w.frb()))
	m.SetWrite(psW(w.frd()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setPsArith2(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(psW(w.fra()))
	m.AppendRead(psW(w.frb()))
	m.SetWrite(psW(w.frd()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setPsArithMul(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(psW(w.fra()))
	m.AppendRead(psW(w.frc()))
	m.SetWrite(psW(w.frd()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setPsArithMadd(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(psW(w.fra()))
	m.AppendRead(psW(w.frc()))
	m.AppendRead(psW(w.frb()))
	m.SetWrite(psW(w.frd()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setPsSel(w word, m *MetaInst) {
	m.Op = PsSel
	m.AppendRead(psW(w.fra()))
	m.AppendRead(psW(w.frc()))
	m.AppendRead(psW(w.frb()))
	m.SetWrite(psW(w.frd()))
}

// decodePsqLoadStore decodes the quantized paired-single load/store forms
// (psq_l, psq_lu, psq_st, psq_stu), primary opcodes 56/57/60/61. The
// quantize-register index (I) and type/scale fields select the packed
// on-disk representation; the core only needs the GPR base, offset, and
// register-pair width (per Open Question 1, paired-single lowering follows
// the manual: two Single-width lanes, not a guess from behavior observed in
// any one binary).
func decodePsqLoadStore(w word, m *MetaInst, op InstOperation, updating bool) {
	m.Op = op
	mem := datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.ps_d(), Width: datasource.PackedSingle}
	if op == PsqSt || op == PsqStu {
		m.AppendRead(psW(w.frs()))
		m.SetWrite(mem)
	} else {
		m.AppendRead(mem)
		m.SetWrite(psW(w.frd()))
		if w.ps_w() {
			m.Flags |= PsLoadsOne
		}
	}
	if updating {
		m.Side |= WritesBaseReg
	}
}
