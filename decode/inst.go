// Package decode turns a 32-bit PowerPC (Gekko/Broadway) word at a virtual
// address into a MetaInst: the decoder is pure, stateless, and never fails —
// unknown encodings surface as InstOperation Invalid rather than an error.
package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

// InstOperation names the operation a MetaInst performs. Only a single
// canonical name is used per instruction form; Rc/OE/LK variants are carried
// in Flags rather than as separate operations (e.g. "add." is Add with
// RecordForm set, matching the encoding's own single sub-opcode field).
type InstOperation uint16

const (
	Invalid InstOperation = iota

	// Integer arithmetic
	Add
	Addc
	Adde
	Addi
	Addic
	AddicDot
	Addis
	Addme
	Addze
	Subf
	Subfc
	Subfe
	Subfic
	Subfme
	Subfze
	Neg
	Mulli
	Mullw
	Mulhw
	Mulhwu
	Divw
	Divwu

	// Integer compare
	Cmp
	Cmpi
	Cmpl
	Cmpli

	// Integer logical
	And
	Andc
	AndiDot
	AndisDot
	Or
	Orc
	Ori
	Oris
	Xor
	Xori
	Xoris
	Nand
	Nor
	Eqv
	Cntlzw
	Extsb
	Extsh

	// Rotate / shift
	Rlwinm
	Rlwimi
	Rlwnm
	Slw
	Srw
	Sraw
	Srawi

	// Integer load/store
	Lwz
	Lwzu
	Lwzx
	Lwzux
	Lbz
	Lbzu
	Lbzx
	Lbzux
	Lhz
	Lhzu
	Lhzx
	Lhzux
	Lha
	Lhau
	Lhax
	Lhaux
	Stw
	Stwu
	Stwx
	Stwux
	Stb
	Stbu
	Stbx
	Stbux
	Sth
	Sthu
	Sthx
	Sthux
	Lmw
	Stmw

	// Floating point load/store
	Lfs
	Lfsu
	Lfd
	Lfdu
	Stfs
	Stfsu
	Stfd
	Stfdu

	// Floating point arithmetic
	Fadd
	Fadds
	Fsub
	Fsubs
	Fmul
	Fmuls
	Fdiv
	Fdivs
	Fmadd
	Fmadds
	Fmsub
	Fmsubs
	Fnmadd
	Fnmadds
	Fnmsub
	Fnmsubs
	Fneg
	Fabs
	Fnabs
	Fmr
	Fsel
	Fres
	Frsqrte
	Fcmpo
	Fcmpu
	Frsp
	Fctiw
	Fctiwz

	// Branch
	B
	Bc
	Bclr
	Bcctr

	// System / special registers
	Mfspr
	Mtspr
	Mfcr
	Mtcrf
	Mcrf
	Crand
	Crandc
	Cror
	Crorc
	Crxor
	Crnand
	Crnor
	Creqv
	Sync
	Isync
	Eieio
	Sc
	Tw
	Twi
	Mftb

	// Paired-single
	PsAdd
	PsSub
	PsMul
	PsDiv
	PsMadd
	PsMsub
	PsNmadd
	PsNmsub
	PsNeg
	PsAbs
	PsNabs
	PsMr
	PsSel
	PsMerge00
	PsMerge01
	PsMerge10
	PsMerge11
	PsSum0
	PsSum1
	PsRes
	PsRsqrte
	PsCmpu0
	PsCmpo0
	PsCmpu1
	PsCmpo1
	PsqL
	PsqLu
	PsqSt
	PsqStu

	numOperations
)

// SideEffects are side effects beyond the primary write operand.
type SideEffects uint32

const (
	NoSideEffects SideEffects = 0
	// WritesLR is set by bl/bcl/bclrl/bcctrl — call-shaped branches.
	WritesLR SideEffects = 1 << iota >> 1
	// WritesBaseReg is set by updating load/store forms (lwzu, stwu, ...):
	// the base GPR operand is written with the effective address, in
	// addition to (not instead of) the memory read/write operand.
	WritesBaseReg
	// WritesCTR is set by mtctr (via mtspr) to flag it for bdnz pairing.
	WritesCTR
	// Traps marks tw/twi/sc as potentially transferring control out of line.
	Traps
)

// Flags carries the encoding's Rc/OE/AA/LK/W/L derived bits.
type Flags uint32

const (
	NoFlags Flags = 0
	// RecordForm is the trailing "." — result compared against zero into cr0.
	RecordForm Flags = 1 << iota >> 1
	// WritesXER is set by the OE bit — overflow detection updates XER.
	WritesXER
	// AbsoluteAddr is the AA bit on b/bc — target is absolute, not relative.
	AbsoluteAddr
	// PsLoadsOne is the W bit on psq_l/psq_lu — quantized load fills only lane 0.
	PsLoadsOne
	// LongMode names the L bit on the cmpl/cmp family — 64-bit compare. No
	// decoder in this package sets it; compares decode the same whatever L is.
	LongMode
)

// FPSCREffects is the fixed per-op-family mask of FPSCR bits an instruction
// writes. Values are opaque bit positions private to this package; callers
// only need equality/union, not individual bit names.
type FPSCREffects uint32

const (
	NoFPSCREffects FPSCREffects = 0
	FxBit          FPSCREffects = 1 << iota >> 1
	FexBit
	VxBit
	OxBit
	UxBit
	ZxBit
	XxBit
	FrBit
	FiBit
	FprfMask FPSCREffects = 0b11111 << 9
)

// MetaInst is the decoder's output: an operation kind plus ordered operand
// descriptors. Reads preserves semantic operand order — load-bearing for
// non-commutative operations (sub, div, cmp, shifts, branch condition
// tests). Write is present iff the operation produces a visible result.
type MetaInst struct {
	BinaryWord uint32
	VA         uint32
	Op         InstOperation
	// Reads holds at most 4 operands, matching the ReservedVector<DataSource,4>
	// shape in the source the decoder is grounded on.
	Reads      [4]datasource.DataSource
	NumReads   int
	Write      datasource.DataSource
	HasWrite   bool
	Side       SideEffects
	Flags      Flags
	FPSCREffs  FPSCREffects
}

// AppendRead appends a read operand in semantic order. Panics if more than
// four reads are appended — that would violate the decoder's own encoding
// tables and indicates a bug in a decode* helper, not bad input.
func (m *MetaInst) AppendRead(ds datasource.DataSource) {
	if m.NumReads >= len(m.Reads) {
		panic("decode: more than four read operands")
	}
	m.Reads[m.NumReads] = ds
	m.NumReads++
}

// SetWrite sets the instruction's single write operand.
func (m *MetaInst) SetWrite(ds datasource.DataSource) {
	m.Write = ds
	m.HasWrite = true
}

// ReadList returns the populated prefix of Reads.
func (m *MetaInst) ReadList() []datasource.DataSource {
	return m.Reads[:m.NumReads]
}
