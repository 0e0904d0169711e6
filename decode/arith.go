package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

func gprW(r uint8) datasource.GPRSlice {
	return datasource.GPRSlice{Reg: regGPR(r), Width: datasource.S4}
}

func decodeAddi(w word, m *MetaInst) {
	m.Op = Addi
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.SIMM{Value: w.simm()})
	m.SetWrite(gprW(w.rd()))
}

func decodeAddis(w word, m *MetaInst) {
	m.Op = Addis
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.SIMM{Value: w.simm()})
	m.SetWrite(gprW(w.rd()))
}

func decodeAddic(w word, m *MetaInst, record bool) {
	m.Op = Addic
	if record {
		m.Op = AddicDot
		m.Flags |= RecordForm
	}
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.SIMM{Value: w.simm()})
	m.SetWrite(gprW(w.rd()))
}

func decodeMulli(w word, m *MetaInst) {
	m.Op = Mulli
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.SIMM{Value: w.simm()})
	m.SetWrite(gprW(w.rd()))
}

func decodeSubfic(w word, m *MetaInst) {
	m.Op = Subfic
	// subf-family order: (rA, SIMM) with the result = SIMM - rA; order matters
	// for the non-commutative subtract.
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.SIMM{Value: w.simm()})
	m.SetWrite(gprW(w.rd()))
}

// decode31XOArith dispatches the register-form integer arithmetic
// instructions living under primary opcode 31, keyed by the
// extended opcode in bits 21-30.
func decode31XOArith(w word, m *MetaInst) bool {
	switch w.xo() {
	case 266:
		setArith(w, m, Add)
	case 10:
		setArith(w, m, Addc)
	case 138:
		setArith(w, m, Adde)
	case 234:
		setArithUnary(w, m, Addme)
	case 202:
		setArithUnary(w, m, Addze)
	case 40:
		setSubf(w, m, Subf)
	case 8:
		setSubf(w, m, Subfc)
	case 136:
		setSubf(w, m, Subfe)
	case 232:
		setArithUnary(w, m, Subfme)
	case 200:
		setArithUnary(w, m, Subfze)
	case 104:
		setArithUnary(w, m, Neg)
	case 235:
		setArith(w, m, Mullw)
	case 75:
		setArithNoOE(w, m, Mulhw)
	case 11:
		setArithNoOE(w, m, Mulhwu)
	case 491:
		setArith(w, m, Divw)
	case 459:
		setArith(w, m, Divwu)
	default:
		return false
	}
	return true
}

func setArith(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(gprW(w.rb()))
	m.SetWrite(gprW(w.rd()))
	applyOERc(w, m)
}

func setArithNoOE(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(gprW(w.rb()))
	m.SetWrite(gprW(w.rd()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setArithUnary(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.ra()))
	m.SetWrite(gprW(w.rd()))
	applyOERc(w, m)
}

// setSubf orders reads (rA, rB) though the result is rB - rA; order is kept
// stable so the IR lowering stage can fix the operand order once, rather
// than every caller re-deriving it.
func setSubf(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(gprW(w.rb()))
	m.SetWrite(gprW(w.rd()))
	applyOERc(w, m)
}

func applyOERc(w word, m *MetaInst) {
	if w.oe() {
		m.Flags |= WritesXER
	}
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}
