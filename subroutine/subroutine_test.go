package subroutine_test

import (
	"errors"
	"testing"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/corefail"
	"github.com/broadwayrc/ppcdecomp/subroutine"
)

func word32(v uint32, b []byte, off int) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

func TestAnalyzeRunsFullPipeline(t *testing.T) {
	// 0x1000: stwu r1, -32(r1)
	// 0x1004: addi r1, r1, 32
	// 0x1008: blr
	img := make([]byte, 12)
	word32(uint32(37)<<26|uint32(1)<<21|uint32(1)<<16|uint32(0xffe0), img, 0)
	word32(uint32(14)<<26|uint32(1)<<21|uint32(1)<<16|32, img, 4)
	word32(0x4E800020, img, 8)

	var data abi.SectionedData
	data.AddSection(0x1000, img)

	sub, err := subroutine.Analyze(&data, 0x1000, abi.CWABIConfiguration{})
	if err != nil {
		t.Fatalf("Analyze returned an error: %v", err)
	}
	if sub.Stack.StackSize != 32 {
		t.Fatalf("StackSize = %d, want 32", sub.Stack.StackSize)
	}
	if sub.Tree == nil || sub.Tree.Root == nil {
		t.Fatalf("no structurized tree produced")
	}
}

func TestAnalyzeRejectsUnmappedEntry(t *testing.T) {
	var data abi.SectionedData
	data.AddSection(0x1000, make([]byte, 4))

	_, err := subroutine.Analyze(&data, 0x9000, abi.CWABIConfiguration{})
	if err == nil {
		t.Fatalf("expected an error for an unmapped entry address")
	}
	var failure *corefail.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error %v is not a *corefail.Failure", err)
	}
	if failure.Severity != corefail.Fatal {
		t.Fatalf("Severity = %v, want Fatal", failure.Severity)
	}
	if !errors.Is(err, corefail.ErrNoEntryBlock) {
		t.Fatalf("error does not wrap ErrNoEntryBlock: %v", err)
	}
}
