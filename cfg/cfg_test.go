package cfg_test

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
)

func word32(v uint32, b []byte, off int) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

// buildDiamond assembles:
//   0x1000: addi r3, r0, 1
//   0x1004: bc  12, 2, +8      (taken -> 0x100c, fallthrough -> 0x1008)
//   0x1008: addi r4, r0, 2
//   0x100c: addi r5, r0, 3
func buildDiamond() *abi.SectionedData {
	img := make([]byte, 16)
	word32(uint32(14)<<26|uint32(3)<<21|1, img, 0)
	word32(uint32(16)<<26|uint32(12)<<21|uint32(2)<<16|8, img, 4)
	word32(uint32(14)<<26|uint32(4)<<21|2, img, 8)
	word32(uint32(14)<<26|uint32(5)<<21|3, img, 12)

	var data abi.SectionedData
	data.AddSection(0x1000, img)
	return &data
}

func TestBuildSplitsOnConditionalBranch(t *testing.T) {
	data := buildDiamond()
	g := cfg.Build(data, 0x1000)

	root := g.BlocksByID[g.Root]
	if len(root.Insts) != 2 {
		t.Fatalf("root has %d insts, want 2", len(root.Insts))
	}
	if len(root.Out) != 2 {
		t.Fatalf("root has %d out edges, want 2", len(root.Out))
	}

	var sawTrue, sawFalse bool
	for _, oe := range root.Out {
		target := g.BlocksByID[oe.Target]
		switch oe.Kind {
		case cfg.ConditionTrue:
			sawTrue = true
			if target.Start != 0x100c {
				t.Errorf("ConditionTrue target = %#x, want 0x100c", target.Start)
			}
		case cfg.ConditionFalse:
			sawFalse = true
			if target.Start != 0x1008 {
				t.Errorf("ConditionFalse target = %#x, want 0x1008", target.Start)
			}
		default:
			t.Errorf("unexpected out edge kind %v", oe.Kind)
		}
	}
	if !sawTrue || !sawFalse {
		t.Fatalf("missing an edge kind: true=%v false=%v", sawTrue, sawFalse)
	}

	if b, ok := g.BlockByVA(0x100c); !ok || b.Start != 0x100c {
		t.Fatalf("BlockByVA(0x100c) = %v, %v", b, ok)
	}
}

func TestComputeLoopsFindsBackEdge(t *testing.T) {
	// 0x2000: addi r3, r0, 1
	// 0x2004: bc 12, 2, -4   (back edge to self)
	img := make([]byte, 8)
	word32(uint32(14)<<26|uint32(3)<<21|1, img, 0)
	word32(uint32(16)<<26|uint32(12)<<21|uint32(2)<<16|(uint32(0x3fff)<<2), img, 4)

	var data abi.SectionedData
	data.AddSection(0x2000, img)
	g := cfg.Build(&data, 0x2000)

	if len(g.Loops) != 1 {
		t.Fatalf("got %d loops, want 1", len(g.Loops))
	}
	loop := g.Loops[0]
	if loop.Header != g.Root {
		t.Fatalf("loop header = %d, want root %d", loop.Header, g.Root)
	}
	if !loop.Contents[g.Root] {
		t.Fatalf("loop contents %v does not include header %d", loop.Contents, g.Root)
	}
}
