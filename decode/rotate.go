package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

func decodeRlwinm(w word, m *MetaInst) {
	m.Op = Rlwinm
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(datasource.AuxImm{Value: uint32(w.sh())})
	m.AppendRead(datasource.AuxImm{Value: uint32(w.mb())})
	m.AppendRead(datasource.AuxImm{Value: uint32(w.me())})
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func decodeRlwimi(w word, m *MetaInst) {
	m.Op = Rlwimi
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(gprW(w.ra())) // rlwimi merges into its own destination
	m.AppendRead(datasource.AuxImm{Value: uint32(w.sh())})
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

func decodeRlwnm(w word, m *MetaInst) {
	m.Op = Rlwnm
	m.AppendRead(gprW(w.rs()))
	m.AppendRead(gprW(w.rb()))
	m.AppendRead(datasource.AuxImm{Value: uint32(w.mb())})
	m.AppendRead(datasource.AuxImm{Value: uint32(w.me())})
	m.SetWrite(gprW(w.ra()))
	if w.rcBit() {
		m.Flags |= RecordForm
	}
}

// RotateForm is the simplified mnemonic a rlwinm/rlwimi/rlwnm encoding
// reduces to, classified deterministically from (SH, MB, ME) per the
// PowerPC compiler-writer conventions. Kind is the empty string when no
// simplification applies and the generic rlwinm/rlwimi/rlwnm form should be
// kept.
type RotateForm struct {
	Kind string // "extlwi", "clrlwi", "clrrwi", "rotlwi", "slwi", "srwi", "inslwi", "insrwi", "clrlslwi", "rotlw"
	N    uint8
	B    uint8 // extlwi/inslwi/insrwi: starting bit offset
}

// ClassifyRlwinm simplifies an rlwinm (or rlwnm, ignoring its register
// shift amount) encoding given its decoded SH/MB/ME fields.
func ClassifyRlwinm(sh, mb, me uint8) RotateForm {
	switch {
	case sh == 0 && mb == 0 && me == 31:
		return RotateForm{Kind: "rotlwi", N: 0}
	case sh == 0 && mb == 0:
		return RotateForm{Kind: "clrrwi", N: 31 - me}
	case sh == 0 && me == 31:
		return RotateForm{Kind: "clrlwi", N: mb}
	case mb == 0 && me == 31-sh:
		return RotateForm{Kind: "slwi", N: sh}
	case me == 31 && mb != 0 && sh == 32-mb:
		return RotateForm{Kind: "srwi", N: mb}
	case mb == 0 && me == 31:
		return RotateForm{Kind: "rotlwi", N: sh}
	case mb == 0:
		return RotateForm{Kind: "extlwi", N: me + 1, B: sh}
	case me == 31 && sh != 0:
		return RotateForm{Kind: "clrlslwi", N: 32 - sh, B: mb - sh}
	default:
		return RotateForm{}
	}
}

// ClassifyRlwnm is the register-shift counterpart: only the pure-rotate
// (no mask) case has a simplified name — the shift amount is runtime-only,
// so clr/ext/slwi-style forms cannot be named at decode time.
func ClassifyRlwnm(mb, me uint8) RotateForm {
	if mb == 0 && me == 31 {
		return RotateForm{Kind: "rotlw"}
	}
	return RotateForm{}
}
