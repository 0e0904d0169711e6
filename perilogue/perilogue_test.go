package perilogue_test

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/perilogue"
	"github.com/broadwayrc/ppcdecomp/stack"
)

func word32(v uint32, b []byte, off int) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

func TestAnalyzeTagsFrameAllocateAndDeallocate(t *testing.T) {
	// 0x1000: stwu r1, -32(r1)
	// 0x1004: addi r1, r1, 32
	img := make([]byte, 8)
	word32(uint32(37)<<26|uint32(1)<<21|uint32(1)<<16|uint32(0xffe0), img, 0)
	word32(uint32(14)<<26|uint32(1)<<21|uint32(1)<<16|32, img, 4)

	var data abi.SectionedData
	data.AddSection(0x1000, img)
	g := cfg.Build(&data, 0x1000)
	st := stack.Analyze(g)
	perilogue.Analyze(g, st, abi.CWABIConfiguration{})

	root := g.BlocksByID[g.Root]
	if len(root.PerilogueTags) != 2 {
		t.Fatalf("got %d tags, want 2", len(root.PerilogueTags))
	}
	if root.PerilogueTags[0] != cfg.FrameAllocate {
		t.Errorf("tags[0] = %v, want FrameAllocate", root.PerilogueTags[0])
	}
	if root.PerilogueTags[1] != cfg.FrameDeallocate {
		t.Errorf("tags[1] = %v, want FrameDeallocate", root.PerilogueTags[1])
	}
}
