package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

// decode31 dispatches primary opcode 31: register-form arithmetic/logical/
// compare/load-store (handled by the family helpers), shifts, and the
// system-register family below.
func decode31(w word, m *MetaInst) {
	if decode31XOArith(w, m) {
		return
	}
	if decode31XOLogical(w, m) {
		return
	}
	if decode31XOCompare(w, m) {
		return
	}
	if decode31XOLoadStore(w, m) {
		return
	}
	if decode31XOShift(w, m) {
		return
	}
	switch w.xo() {
	case 339:
		decodeMfspr(w, m)
	case 467:
		decodeMtspr(w, m)
	case 19:
		decodeMfcr(w, m)
	case 144:
		decodeMtcrf(w, m)
	case 598:
		m.Op = Sync
	case 854:
		m.Op = Eieio
	case 4:
		decodeTw(w, m)
	case 371:
		decodeMftb(w, m)
	default:
		m.Op = Invalid
	}
}

// decode31XOShift handles the register-count shift/rotate family: slw, srw,
// sraw, srawi.
func decode31XOShift(w word, m *MetaInst) bool {
	switch w.xo() {
	case 24:
		setShift(w, m, Slw, false)
	case 536:
		setShift(w, m, Srw, false)
	case 792:
		setShift(w, m, Sraw, false)
	case 824:
		setSrawi(w, m)
	default:
		return false
	}
	return true
}

func setShift(w word, m *MetaInst, op InstOperation, _ bool) {
	m.Op = op
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(gprW(w.rb()))
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func setSrawi(w word, m *MetaInst) {
	m.Op = Srawi
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(datasource.AuxImm{Value: uint32(w.sh())})
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func decodeMfspr(w word, m *MetaInst) {
	m.Op = Mfspr
	m.AppendRead(datasource.SPRRef{SPR: sprFromEncoded(w.spr())})
	m.SetWrite(gprW(w.rd()))
}

func decodeMtspr(w word, m *MetaInst) {
	m.Op = Mtspr
	m.AppendRead(gprW(w.rs()))
	m.SetWrite(datasource.SPRRef{SPR: sprFromEncoded(w.spr())})
	if sprFromEncoded(w.spr()) == regsCTR() {
		m.Side |= WritesCTR
	}
}

func decodeMfcr(w word, m *MetaInst) {
	m.Op = Mfcr
	m.AppendRead(datasource.CRFieldRef{Field: 0})
	m.SetWrite(gprW(w.rd()))
}

func decodeMtcrf(w word, m *MetaInst) {
	m.Op = Mtcrf
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(datasource.AuxImm{Value: uint32(w.crm())})
	m.SetWrite(datasource.CRFieldRef{Field: 0})
}

func decodeTw(w word, m *MetaInst) {
	m.Op = Tw
	m.AppendRead(gprW(w.ra()))
	m.AppendRead(gprW(w.rb()))
	m.Side |= Traps
}

func decodeMftb(w word, m *MetaInst) {
	m.Op = Mftb
	m.AppendRead(datasource.TBRRef{Upper: w.spr() == 269})
	m.SetWrite(gprW(w.rd()))
}
