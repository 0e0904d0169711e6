package stack_test

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/stack"
)

func word32(v uint32, b []byte, off int) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

// buildPrologue assembles:
//   0x1000: stwu r1, -32(r1)
//   0x1004: stw  r3, 24(r1)
//   0x1008: lwz  r4, 24(r1)
//   0x100c: addi r5, r1, 40     (address-of a param slot)
func buildPrologue() *abi.SectionedData {
	img := make([]byte, 16)
	word32(uint32(37)<<26|uint32(1)<<21|uint32(1)<<16|uint32(0xffe0), img, 0)
	word32(uint32(36)<<26|uint32(3)<<21|uint32(1)<<16|24, img, 4)
	word32(uint32(32)<<26|uint32(4)<<21|uint32(1)<<16|24, img, 8)
	word32(uint32(14)<<26|uint32(5)<<21|uint32(1)<<16|40, img, 12)

	var data abi.SectionedData
	data.AddSection(0x1000, img)
	return &data
}

func TestAnalyzeRecoversFrameSizeAndLocal(t *testing.T) {
	data := buildPrologue()
	g := cfg.Build(data, 0x1000)
	s := stack.Analyze(g)

	if s.StackSize != 32 {
		t.Fatalf("StackSize = %d, want 32", s.StackSize)
	}

	v, ok := s.VariableAt(24)
	if !ok {
		t.Fatalf("no local recovered at offset 24")
	}
	if len(v.References) != 2 {
		t.Fatalf("got %d references at offset 24, want 2 (one write, one read)", len(v.References))
	}
	var sawWrite, sawRead bool
	for _, ref := range v.References {
		switch ref.Kind {
		case stack.Write:
			sawWrite = true
		case stack.Read:
			sawRead = true
		}
	}
	if !sawWrite || !sawRead {
		t.Fatalf("references = %+v, want one write and one read", v.References)
	}
}

func TestAnalyzeRecoversParamAddressOf(t *testing.T) {
	data := buildPrologue()
	g := cfg.Build(data, 0x1000)
	s := stack.Analyze(g)

	// offset 40 > StackSize(32)+4, so it belongs to the caller's frame.
	v, ok := s.Params[40]
	if !ok {
		t.Fatalf("no param recovered at offset 40; params = %+v", s.Params)
	}
	if len(v.References) != 1 || v.References[0].Kind != stack.AddressOf {
		t.Fatalf("references = %+v, want one AddressOf", v.References)
	}
}
