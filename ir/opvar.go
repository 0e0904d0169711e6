// Package ir is the register-free intermediate representation a Subroutine
// is lowered into once its CFG, liveness, stack, and perilogue facts are
// complete: instructions over routine-scoped temporaries, stack slots,
// parameters, immediates and function references, never physical
// registers.
package ir

// OpVar is a tagged variant over every operand an IR instruction can take.
type OpVar interface {
	isOpVar()
}

// Temp is a routine-scoped symbolic value: the bind tracker's output. Two
// Temps with the same ID denote the same value across its whole live
// range, however many physical registers or stack slots carried it.
type Temp struct {
	ID int
}

// MemRef is a memory reference through a base temp plus displacement —
// the lowered form of any off(rA) addressing mode where rA isn't the
// frame pointer.
type MemRef struct {
	Base   Temp
	Offset int32
}

// StackRef addresses a recovered stack slot directly, bypassing the base
// temp — the lowered form of any off(r1) addressing mode. AddrOf marks a
// `addi rX, r1, off` address-taken reference rather than a memory access.
type StackRef struct {
	Offset int32
	AddrOf bool
}

// ParamRef names an incoming parameter by its position in the fixed ABI
// order (r3..r10, then f1..f13, then stack), independent of which temp
// ends up bound to it.
type ParamRef struct {
	Index int
}

// Immediate is a literal operand carried straight from the encoding.
type Immediate struct {
	Value  int64
	Signed bool
}

// FunctionRef names a call target by its virtual address.
type FunctionRef struct {
	VA uint32
}

func (Temp) isOpVar()        {}
func (MemRef) isOpVar()      {}
func (StackRef) isOpVar()    {}
func (ParamRef) isOpVar()    {}
func (Immediate) isOpVar()   {}
func (FunctionRef) isOpVar() {}
