package decode

import (
	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/regs"
)

func decodeB(w word, m *MetaInst) {
	m.Op = B
	m.AppendRead(datasource.RelBranch{Value: w.li()})
	if w.aa() {
		m.Flags |= AbsoluteAddr
	}
	if w.lk() {
		m.Side |= WritesLR
	}
}

func decodeBc(w word, m *MetaInst) {
	m.Op = Bc
	m.AppendRead(datasource.AuxImm{Value: uint32(w.bo())})
	m.AppendRead(datasource.CRBitRef{Bit: crBitFromIndex(w.bi())})
	m.AppendRead(datasource.RelBranch{Value: w.bd()})
	if w.aa() {
		m.Flags |= AbsoluteAddr
	}
	if w.lk() {
		m.Side |= WritesLR
	}
}

// decode19 dispatches primary opcode 19: bclr/bcctr, condition-register
// logical ops, mcrf, isync.
func decode19(w word, m *MetaInst) {
	switch w.xo() {
	case 16:
		m.Op = Bclr
		decodeBcCommon(w, m)
	case 528:
		m.Op = Bcctr
		decodeBcCommon(w, m)
	case 0:
		m.Op = Mcrf
		m.AppendRead(datasource.CRFieldRef{Field: regCRField(w.crfs())})
		m.SetWrite(datasource.CRFieldRef{Field: regCRField(w.crfd())})
	case 257:
		decodeCrLogical(w, m, Crand)
	case 449:
		decodeCrLogical(w, m, Cror)
	case 193:
		decodeCrLogical(w, m, Crxor)
	case 225:
		decodeCrLogical(w, m, Crnand)
	case 33:
		decodeCrLogical(w, m, Crnor)
	case 274:
		decodeCrLogical(w, m, Creqv)
	case 129:
		decodeCrLogical(w, m, Crandc)
	case 417:
		decodeCrLogical(w, m, Crorc)
	case 150:
		m.Op = Isync
	default:
		m.Op = Invalid
	}
}

func decodeBcCommon(w word, m *MetaInst) {
	m.AppendRead(datasource.AuxImm{Value: uint32(w.bo())})
	m.AppendRead(datasource.CRBitRef{Bit: crBitFromIndex(w.bi())})
	if w.lk() {
		m.Side |= WritesLR
	}
}

func decodeCrLogical(w word, m *MetaInst, op InstOperation) {
	m.Op = op
	m.AppendRead(datasource.CRBitRef{Bit: crBitFromIndex(w.crba())})
	m.AppendRead(datasource.CRBitRef{Bit: crBitFromIndex(w.crbb())})
	m.SetWrite(datasource.CRBitRef{Bit: crBitFromIndex(w.crbd())})
}

// crBitFromIndex builds a CRBit from a raw 0-31 bit index as found in the
// BI/BA/BB/BT operand fields.
func crBitFromIndex(idx uint8) regs.CRBit {
	return regs.Bit(regs.CRField(idx/4), idx%4)
}

// BOClass is the deterministic classification of the 5-bit BO field.
type BOClass uint8

const (
	BOInvalid BOClass = iota
	BODnzf           // decrement ctr, branch if ctr!=0 and cond false
	BODzf            // decrement ctr, branch if ctr==0 and cond false
	BOF              // branch if cond false
	BODnzt           // decrement ctr, branch if ctr!=0 and cond true
	BODzt            // decrement ctr, branch if ctr==0 and cond true
	BOT              // branch if cond true
	BODnz            // decrement ctr, branch if ctr!=0 (cond ignored)
	BODz             // decrement ctr, branch if ctr==0 (cond ignored)
	BOAlways
)

// ClassifyBO maps the 5-bit BO field to one of the nine PowerPC branch
// classes by bit pattern match against the architecture manual's BO table.
// Bits are numbered MSB-first (bo bit 0 is the field's top bit); "y"/"z"
// hint bits are don't-cares and excluded from each entry's mask.
func ClassifyBO(bo uint8) BOClass {
	bo &= 0x1f
	switch {
	case bo&0b11110 == 0b00000:
		return BODnzf
	case bo&0b11110 == 0b00010:
		return BODzf
	case bo&0b11100 == 0b00100:
		return BOF
	case bo&0b11110 == 0b01000:
		return BODnzt
	case bo&0b11110 == 0b01010:
		return BODzt
	case bo&0b11100 == 0b01100:
		return BOT
	case bo&0b10110 == 0b10000:
		return BODnz
	case bo&0b10110 == 0b10010:
		return BODz
	case bo&0b10100 == 0b10100:
		return BOAlways
	default:
		return BOInvalid
	}
}
