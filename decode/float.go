package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

func fprW(r uint8, width datasource.Width) datasource.FPRSlice {
	return datasource.FPRSlice{Reg: regFPR(r), Width: width}
}

// decode59 dispatches primary opcode 59: single-precision A-form FP
// arithmetic, keyed by the 5-bit extended opcode in bits 26-30.
func decode59(w word, m *MetaInst) {
	switch w.xo5() {
	case 21:
		setFArith3(w, m, Fadds, false, datasource.Single)
	case 20:
		setFArith3(w, m, Fsubs, false, datasource.Single)
	case 25:
		setFArithMul(w, m, Fmuls, datasource.Single)
	case 18:
		setFArith3(w, m, Fdivs, false, datasource.Single)
	case 24:
		setFArith1(w, m, Fres, datasource.Single)
	case 29:
		setFArithMadd(w, m, Fmadds, datasource.Single)
	case 28:
		setFArithMadd(w, m, Fmsubs, datasource.Single)
	case 31:
		setFArithMadd(w, m, Fnmadds, datasource.Single)
	case 30:
		setFArithMadd(w, m, Fnmsubs, datasource.Single)
	default:
		m.Op = Invalid
	}
	m.FPSCREffs |= FxBit | FexBit | FrBit | FiBit | FprfMask
}

// decode63 dispatches primary opcode 63: double-precision A-form FP
// arithmetic (5-bit xo) and the X-form move/compare/convert family (10-bit
// xo, frC field reserved to zero in every one of these encodings).
func decode63(w word, m *MetaInst) {
	switch w.xo() {
	case 0:
		setFCompare(w, m, Fcmpu)
		return
	case 32:
		setFCompare(w, m, Fcmpo)
		return
	case 12:
		setFArith1(w, m, Frsp, datasource.Single)
		return
	case 14:
		setFArith1(w, m, Fctiw, datasource.S4)
		return
	case 15:
		setFArith1(w, m, Fctiwz, datasource.S4)
		return
	case 40:
		setFArith1(w, m, Fneg, datasource.Double)
		return
	case 72:
		setFArith1(w, m, Fmr, datasource.Double)
		return
	case 136:
		setFArith1(w, m, Fnabs, datasource.Double)
		return
	case 264:
		setFArith1(w, m, Fabs, datasource.Double)
		return
	}
	switch w.xo5() {
	case 21:
		setFArith3(w, m, Fadd, false, datasource.Double)
	case 20:
		setFArith3(w, m, Fsub, false, datasource.Double)
	case 25:
		setFArithMul(w, m, Fmul, datasource.Double)
	case 18:
		setFArith3(w, m, Fdiv, false, datasource.Double)
	case 23:
		setFSel(w, m)
	case 26:
		setFArith1(w, m, Frsqrte, datasource.Double)
	case 29:
		setFArithMadd(w, m, Fmadd, datasource.Double)
	case 28:
		setFArithMadd(w, m, Fmsub, datasource.Double)
	case 31:
		setFArithMadd(w, m, Fnmadd, datasource.Double)
	case 30:
		setFArithMadd(w, m, Fnmsub, datasource.Double)
	default:
		m.Op = Invalid
	}
	m.FPSCREffs |= FxBit | FexBit | FrBit | FiBit | FprfMask
}

func setFArith3(w word, m *MetaInst, op InstOperation, _ bool, width datasource.Width) {
	m.Op = op
	m.AppendRead(fprW(w.fra(), width))
	m.AppendRead(fprW(w.frb(), width))
	m.SetWrite(fprW(w.frd(), width))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setFArithMul(w word, m *MetaInst, op InstOperation, width datasource.Width) {
	m.Op = op
	m.AppendRead(fprW(w.fra(), width))
	m.AppendRead(fprW(w.frc(), width))
	m.SetWrite(fprW(w.frd(), width))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setFArithMadd(w word, m *MetaInst, op InstOperation, width datasource.Width) {
	m.Op = op
	m.AppendRead(fprW(w.fra(), width))
	m.AppendRead(fprW(w.frc(), width))
	m.AppendRead(fprW(w.frb(), width))
	m.SetWrite(fprW(w.frd(), width))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setFArith1(w word, m *MetaInst, op InstOperation, width datasource.Width) {
	m.Op = op
	m.AppendRead(fprW(w.frb(), width))
	m.SetWrite(fprW(w.frd(), width))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setFSel(w word, m *MetaInst) {
	m.Op = Fsel
	m.AppendRead(fprW(w.fra(), datasource.Double))
	m.AppendRead(fprW(w.frc(), datasource.Double))
	m.AppendRead(fprW(w.frb(), datasource.Double))
	m.SetWrite(fprW(w.frd(), datasource.Double))
}

func setFCompare(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(fprW(w.fra(), datasource.Double))
	m.AppendRead(fprW(w.frb(), datasource.Double))
	m.SetWrite(datasource.CRFieldRef{Field: regCRField(w.crfd())})
	m.FPSCREffs |= FxBit | FexBit | VxBit | FprfMask
}
