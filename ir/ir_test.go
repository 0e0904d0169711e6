package ir_test

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/ir"
	"github.com/broadwayrc/ppcdecomp/liveness"
	"github.com/broadwayrc/ppcdecomp/stack"
)

func word32(v uint32, b []byte, off int) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

// buildIncrementAndReturn assembles:
//   0x1000: addi r3, r3, 1
//   0x1004: blr
func buildIncrementAndReturn() *abi.SectionedData {
	img := make([]byte, 8)
	word32(uint32(14)<<26|uint32(3)<<21|uint32(3)<<16|1, img, 0)
	word32(0x4E800020, img, 4)

	var data abi.SectionedData
	data.AddSection(0x1000, img)
	return &data
}

func TestTranslateLowersArithAndReturn(t *testing.T) {
	data := buildIncrementAndReturn()
	g := cfg.Build(data, 0x1000)
	liveness.Analyze(g)
	st := stack.Analyze(g)
	routine := ir.Translate(g, st)

	vid, ok := routine.BlockOf[g.Root]
	if !ok {
		t.Fatalf("BlockOf missing entry for root block %d", g.Root)
	}
	blk := routine.Graph.Vertex(vid).Data()

	var sawAdd, sawReturn bool
	for _, inst := range blk.Insts {
		switch inst.Op {
		case ir.Add:
			sawAdd = true
			if !inst.HasDst {
				t.Errorf("Add instruction has no destination")
			}
		case ir.Return:
			sawReturn = true
		}
	}
	if !sawAdd {
		t.Errorf("no Add instruction lowered from addi r3, r3, 1")
	}
	if !sawReturn {
		t.Errorf("no Return instruction lowered from blr")
	}

	if len(routine.Params) == 0 {
		t.Errorf("expected r3 to be recovered as an incoming parameter")
	}
}
