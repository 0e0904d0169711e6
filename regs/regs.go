// Package regs models the Gekko/Broadway register universes: 32 general
// purpose integer registers, 32 floating registers, 8 condition fields
// addressable as 32 individual bits, and the handful of special registers.
package regs

// GPR is a general-purpose integer register, r0..r31.
type GPR uint8

// FPR is a floating-point register, f0..f31.
type FPR uint8

// CRField is one of the eight 4-bit condition register fields, cr0..cr7.
type CRField uint8

// CRBit addresses one of the 32 individual condition bits.
type CRBit uint8

const (
	// NumGPR is the size of the GPR file.
	NumGPR = 32
	// NumFPR is the size of the FPR file.
	NumFPR = 32
	// NumCRField is the number of 4-bit condition fields.
	NumCRField = 8
	// NumCRBit is the number of individually addressable condition bits.
	NumCRBit = NumCRField * 4
)

// Fixed ABI registers named directly rather than tracked as temps.
const (
	// R0 has no addressing mode as a base register; used as a zero/literal source.
	R0 GPR = 0
	// R1 is the stack pointer.
	R1 GPR = 1
	// R2 is the read-only TOC base under the CodeWarrior ABI.
	R2 GPR = 2
	// R13 is the small-data base.
	R13 GPR = 13
)

// CR bit positions within a field, in PowerPC order.
const (
	BitLt uint8 = 0
	BitGt uint8 = 1
	BitEq uint8 = 2
	BitSo uint8 = 3
)

// Field returns the CRField this bit belongs to.
func (b CRBit) Field() CRField { return CRField(uint8(b) / 4) }

// Index returns the bit's position within its field (0..3).
func (b CRBit) Index() uint8 { return uint8(b) % 4 }

// Bit builds a CRBit from a field and a within-field index.
func Bit(f CRField, idx uint8) CRBit { return CRBit(uint8(f)*4 + idx) }

// Lt/Gt/Eq/So build the named bit of a field.
func Lt(f CRField) CRBit { return Bit(f, BitLt) }
func Gt(f CRField) CRBit { return Bit(f, BitGt) }
func Eq(f CRField) CRBit { return Bit(f, BitEq) }
func So(f CRField) CRBit { return Bit(f, BitSo) }

// CR1 aliases its four bits as FP exception summary flags (Open Question 3:
// resolved as aliases, not distinct temps — the underlying storage is the
// same bit as Lt/Gt/Eq/So for field 1).
const CR1 CRField = 1

func Fx(f CRField) CRBit  { return Lt(f) }
func Fex(f CRField) CRBit { return Gt(f) }
func Vx(f CRField) CRBit  { return Eq(f) }
func Ox(f CRField) CRBit  { return So(f) }

// SpecialReg names the small set of special/time-base registers.
type SpecialReg uint8

const (
	LR SpecialReg = iota
	CTR
	XER
	XER_CA
	XER_OV
	XER_SO
	XER_BC
)
