package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

func decodeAndi(w word, m *MetaInst, shifted bool) {
	m.Op = AndiDot
	if shifted {
		m.Op = AndisDot
	}
	m.Flags |= RecordForm // andi./andis. always set cr0
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(datasource.UIMM{Value: w.uimm()})
	m.SetWrite(gprW(w.ra()))
}

func decodeOriFamily(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(datasource.UIMM{Value: w.uimm()})
	m.SetWrite(gprW(w.ra()))
}

// decode31XOLogical dispatches the register-form logical instructions
// living under primary opcode 31.
func decode31XOLogical(w word, m *MetaInst) bool {
	switch w.xo() {
	case 28:
		setLogical(w, m, And)
	case 60:
		setLogical(w, m, Andc)
	case 444:
		setLogical(w, m, Or)
	case 412:
		setLogical(w, m, Orc)
	case 316:
		setLogical(w, m, Xor)
	case 476:
		setLogical(w, m, Nand)
	case 124:
		setLogical(w, m, Nor)
	case 284:
		setLogical(w, m, Eqv)
	case 26:
		setCntlzw(w, m)
	case 954:
		setExt(w, m, Extsb)
	case 922:
		setExt(w, m, Extsh)
	default:
		return false
	}
	return true
}

func setLogical(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(gprW(w.rb()))
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setCntlzw(w word, m *MetaInst) {
	m.Op = Cntlzw
	m.AppendRead(gprW(w.rs()))
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setExt(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(gprW(w.rs()))
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}
