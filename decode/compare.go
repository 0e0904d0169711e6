package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

func decodeCmpi(w word, m *MetaInst) {
	m.Op = Cmpi
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.SIMM{Value: w.simm()})
	m.SetWrite(datasource.CRFieldRef{Field: regCRField(w.crfd())})
}

func decodeCmpli(w word, m *MetaInst) {
	m.Op = Cmpli
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(datasource.UIMM{Value: w.uimm()})
	m.SetWrite(datasource.CRFieldRef{Field: regCRField(w.crfd())})
}

// decode31XOCompare handles cmp/cmpl (register forms) under opcode 31.
func decode31XOCompare(w word, m *MetaInst) bool {
	switch w.xo() {
	case 0:
		m.Op = Cmp
	case 32:
		m.Op = Cmpl
	default:
		return false
	}
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(gprW(w.rb()))
	m.SetWrite(datasource.CRFieldRef{Field: regCRField(w.crfd())})
	return true
}
