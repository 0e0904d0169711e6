package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

func decodeLoadStore(w word, m *MetaInst, op InstOperation, width datasource.Width, updating bool) {
	m.Op = op
	m.AppendRead(datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.d(), Width: width})
	m.SetWrite(gprW(w.rd()))
	if updating {
		m.Side |= WritesBaseReg
	}
}

func decodeStore(w word, m *MetaInst, op InstOperation, width datasource.Width, updating bool) {
	m.Op = op
	m.AppendRead(gprW(w.rs()))
	m.SetWrite(datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.d(), Width: width})
	if updating {
		m.Side |= WritesBaseReg
	}
}

func decodeLmw(w word, m *MetaInst) {
	m.Op = Lmw
	m.AppendRead(datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.d(), Width: datasource.Unknown})
	m.SetWrite(datasource.MultiReg{Low: regGPR(w.rd()), Width: datasource.Width(4 * (32 - w.rd()))})
}

func decodeStmw(w word, m *MetaInst) {
	m.Op = Stmw
	m.AppendRead(datasource.MultiReg{Low: regGPR(w.rs()), Width: datasource.Width(4 * (32 - w.rs()))})
	m.SetWrite(datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.d(), Width: datasource.Unknown})
}

func decodeFloatLoadStore(w word, m *MetaInst, op InstOperation, width datasource.Width, updating, store bool) {
	m.Op = op
	if store {
		m.AppendRead(datasource.FPRSlice{Reg: regFPR(w.frs()), Width: width})
		m.SetWrite(datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.d(), Width: width})
	} else {
		m.AppendRead(datasource.MemRegOff{Base: regGPR(w.ra()), Offset: w.d(), Width: width})
		m.SetWrite(datasource.FPRSlice{Reg: regFPR(w.frd()), Width: width})
	}
	if updating {
		m.Side |= WritesBaseReg
	}
}

// decode31XOLoadStore handles the indexed (register+register) addressing
// forms that live under primary opcode 31.
func decode31XOLoadStore(w word, m *MetaInst) bool {
	type form struct {
		op       InstOperation
		width    datasource.Width
		store    bool
		updating bool
		float    bool
	}
	forms := map[uint32]form{
		23:  {Lwzx, datasource.S4, false, false, false},
		55:  {Lwzux, datasource.S4, false, true, false},
		87:  {Lbzx, datasource.S1, false, false, false},
		119: {Lbzux, datasource.S1, false, true, false},
		279: {Lhzx, datasource.S2, false, false, false},
		311: {Lhzux, datasource.S2, false, true, false},
		343: {Lhax, datasource.S2, false, false, false},
		375: {Lhaux, datasource.S2, false, true, false},
		151: {Stwx, datasource.S4, true, false, false},
		183: {Stwux, datasource.S4, true, true, false},
		215: {Stbx, datasource.S1, true, false, false},
		247: {Stbux, datasource.S1, true, true, false},
		407: {Sthx, datasource.S2, true, false, false},
		439: {Sthux, datasource.S2, true, true, false},
	}
	f, ok := forms[w.xo()]
	if !ok {
		return false
	}
	m.Op = f.op
	mem := datasource.MemRegReg{Base: regGPR(w.ra()), Index: regGPR(w.rb()), Width: f.width}
	if f.store {
		m.AppendRead(gprW(w.rs()))
		m.SetWrite(mem)
	} else {
		m.AppendRead(mem)
		m.SetWrite(gprW(w.rd()))
	}
	if f.updating {
		m.Side |= WritesBaseReg
	}
	_ = f.float
	return true
}
