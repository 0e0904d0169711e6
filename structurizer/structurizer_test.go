package structurizer_test

import (
	"testing"

	"github.com/broadwayrc/ppcdecomp/abi"
	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/ir"
	"github.com/broadwayrc/ppcdecomp/liveness"
	"github.com/broadwayrc/ppcdecomp/stack"
	"github.com/broadwayrc/ppcdecomp/structurizer"
)

func word32(v uint32, b []byte, off int) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

// buildDiamond assembles an if/else with no merge point:
//   0x1000: addi r3, r0, 1
//   0x1004: bc  12, 2, +12     (taken -> 0x1010, fallthrough -> 0x1008)
//   0x1008: addi r4, r0, 2
//   0x100c: blr
//   0x1010: addi r5, r0, 3
//   0x1014: blr
func buildDiamond() *abi.SectionedData {
	img := make([]byte, 24)
	word32(uint32(14)<<26|uint32(3)<<21|1, img, 0)
	word32(uint32(16)<<26|uint32(12)<<21|uint32(2)<<16|12, img, 4)
	word32(uint32(14)<<26|uint32(4)<<21|2, img, 8)
	word32(0x4e800020, img, 12)
	word32(uint32(14)<<26|uint32(5)<<21|3, img, 16)
	word32(0x4e800020, img, 20)

	var data abi.SectionedData
	data.AddSection(0x1000, img)
	return &data
}

func TestStructurizeDiamondYieldsIfElse(t *testing.T) {
	data := buildDiamond()
	g := cfg.Build(data, 0x1000)
	liveness.Analyze(g)
	st := stack.Analyze(g)
	routine := ir.Translate(g, st)

	tree, err := structurizer.Structurize(routine, g)
	if err != nil {
		t.Fatalf("Structurize returned an error: %v", err)
	}
	if tree.Root == nil {
		t.Fatalf("nil root")
	}
	if tree.Root.Kind != structurizer.IfElse {
		t.Fatalf("root kind = %v, want IfElse", tree.Root.Kind)
	}
	if tree.Root.Then == nil || tree.Root.Else == nil {
		t.Fatalf("IfElse node missing a branch: then=%v else=%v", tree.Root.Then, tree.Root.Else)
	}
}

func TestStructurizeCountedSingleBlockLoopIsWhile(t *testing.T) {
	// 0x2000: addi r3, r0, 1
	// 0x2004: bc 12, 2, -4 (genuine conditional back edge, exits to 0x2008)
	img := make([]byte, 8)
	word32(uint32(14)<<26|uint32(3)<<21|1, img, 0)
	word32(uint32(16)<<26|uint32(12)<<21|uint32(2)<<16|(uint32(0x3fff)<<2), img, 4)

	var data abi.SectionedData
	data.AddSection(0x2000, img)
	g := cfg.Build(&data, 0x2000)
	liveness.Analyze(g)
	st := stack.Analyze(g)
	routine := ir.Translate(g, st)

	tree, err := structurizer.Structurize(routine, g)
	if err != nil {
		t.Fatalf("Structurize returned an error: %v", err)
	}
	// A single-block loop whose back edge is conditional has a real exit
	// to recover — it must not collapse to the catch-all SelfLoop shape.
	if containsKind(tree.Root, structurizer.SelfLoop) {
		t.Fatalf("conditional single-block loop misclassified as SelfLoop: %+v", tree.Root)
	}
	if !containsKind(tree.Root, structurizer.While) && !containsKind(tree.Root, structurizer.DoWhile) {
		t.Fatalf("no While/DoWhile node found in tree rooted at kind %v", tree.Root.Kind)
	}
}

func TestStructurizeUnconditionalSelfLoop(t *testing.T) {
	// 0x3000: addi r3, r0, 1
	// 0x3004: b -4 (unconditional jump back to itself, no exit edge)
	img := make([]byte, 8)
	word32(uint32(14)<<26|uint32(3)<<21|1, img, 0)
	word32(uint32(18)<<26|(uint32(0xffffff)<<2), img, 4)

	var data abi.SectionedData
	data.AddSection(0x3000, img)
	g := cfg.Build(&data, 0x3000)
	liveness.Analyze(g)
	st := stack.Analyze(g)
	routine := ir.Translate(g, st)

	tree, err := structurizer.Structurize(routine, g)
	if err != nil {
		t.Fatalf("Structurize returned an error: %v", err)
	}
	if tree.Root.Kind != structurizer.SelfLoop {
		t.Fatalf("root kind = %v, want SelfLoop", tree.Root.Kind)
	}
}

func containsKind(n *structurizer.ACN, k structurizer.Kind) bool {
	if n == nil {
		return false
	}
	if n.Kind == k {
		return true
	}
	for _, c := range n.Children {
		if containsKind(c, k) {
			return true
		}
	}
	return containsKind(n.Then, k) || containsKind(n.Else, k) || containsKind(n.Body, k)
}
