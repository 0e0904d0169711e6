package decode

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/datasource"
	"github.com/broadwayrc/ppcdecomp/regs"
)

func TestDecodeAddi(t *testing.T) {
	// addi r3, r1, 16 -> 0x38610010
	m := Decode(0x1000, 0x38610010)
	if m.Op != Addi {
		t.Fatalf("Op = %v, want Addi", m.Op)
	}
	if !m.HasWrite {
		t.Fatalf("expected a write operand")
	}
	wr, ok := m.Write.(datasource.GPRSlice)
	if !ok || wr.Reg != regs.GPR(3) {
		t.Fatalf("Write = %#v, want GPRSlice{Reg: r3}", m.Write)
	}
	reads := m.ReadList()
	if len(reads) != 2 {
		t.Fatalf("got %d reads, want 2", len(reads))
	}
	ra, ok := reads[0].(datasource.GPRSlice)
	if !ok || ra.Reg != regs.GPR(1) {
		t.Fatalf("reads[0] = %#v, want GPRSlice{Reg: r1}", reads[0])
	}
	imm, ok := reads[1].(datasource.SIMM)
	if !ok || imm.Value != 16 {
		t.Fatalf("reads[1] = %#v, want SIMM{16}", reads[1])
	}
}

func TestDecodeStwu(t *testing.T) {
	// stwu r1, -32(r1) -> opcd 37, rs=1, ra=1, d=-32
	raw := uint32(37)<<26 | uint32(1)<<21 | uint32(1)<<16 | uint32(0xffe0)
	m := Decode(0x2000, raw)
	if m.Op != Stwu {
		t.Fatalf("Op = %v, want Stwu", m.Op)
	}
	mem, ok := m.Write.(datasource.MemRegOff)
	if !ok {
		t.Fatalf("Write = %#v, want MemRegOff", m.Write)
	}
	if mem.Base != regs.GPR(1) || mem.Offset != -32 {
		t.Fatalf("Write = %+v, want {Base: r1, Offset: -32}", mem)
	}
}

func TestDecodeUnknownIsInvalid(t *testing.T) {
	// opcode 1 is unassigned in the primary opcode map.
	m := Decode(0x3000, uint32(1)<<26)
	if m.Op != Invalid {
		t.Fatalf("Op = %v, want Invalid for an unassigned primary opcode", m.Op)
	}
}

func TestDecodeBPreservesAddress(t *testing.T) {
	// b +8 (relative, AA=0, LK=0): opcd 18, LI = 8>>2 = 2
	raw := uint32(18)<<26 | uint32(2)<<2
	m := Decode(0x4000, raw)
	if m.Op != B {
		t.Fatalf("Op = %v, want B", m.Op)
	}
	if m.VA != 0x4000 {
		t.Fatalf("VA = %#x, want 0x4000", m.VA)
	}
}
