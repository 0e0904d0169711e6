package structurizer

import (
	"fmt"
	"sort"

	"github.com/broadwayrc/ppcdecomp/cfg"
	"github.com/broadwayrc/ppcdecomp/corefail"
	"github.com/broadwayrc/ppcdecomp/ir"
)

type edge struct {
	to   int
	kind cfg.OutEdgeKind
}

type node struct {
	acn *ACN
	out []edge
	in  []edge
}

// Structurize reduces routine's flow graph to a single root ACN, using g's
// already-computed natural loops as hints for the cyclic recognition
// phase (§4.8 step 4) instead of rediscovering strongly-connected
// components from scratch. It returns a non-nil corefail.Failure
// (Recoverable) if any region had to fall back to the bounded Goto/Seq
// refinement instead of fully structuring — the tree is still usable.
func Structurize(routine *ir.IrRoutine, g *cfg.SubroutineGraph) (*Tree, error) {
	nodes := buildInitialNodes(routine, g)

	loops := append([]cfg.Loop(nil), g.Loops...)
	sort.Slice(loops, func(i, j int) bool { return len(loops[i].Contents) < len(loops[j].Contents) })

	var incomplete bool
	for _, loop := range loops {
		collapseLoop(nodes, g, loop, &incomplete)
	}

	all := map[int]bool{}
	for id := range nodes {
		all[id] = true
	}
	root := reduceRegion(nodes, all, g.Root, &incomplete)
	if incomplete {
		return &Tree{Root: root}, corefail.RecoverableErr(
			fmt.Errorf("subroutine at entry block %d: %w", g.Root, corefail.ErrStructurizeIncomplete))
	}
	return &Tree{Root: root}, nil
}

func buildInitialNodes(routine *ir.IrRoutine, g *cfg.SubroutineGraph) map[int]*node {
	nodes := map[int]*node{}
	for _, b := range g.BlocksByID {
		nodes[b.ID] = &node{acn: &ACN{Kind: Basic, Block: blockOf(routine, b.ID)}}
	}
	for _, b := range g.BlocksByID {
		for _, oe := range b.Out {
			nodes[b.ID].out = append(nodes[b.ID].out, edge{to: oe.Target, kind: oe.Kind})
			nodes[oe.Target].in = append(nodes[oe.Target].in, edge{to: b.ID, kind: oe.Kind})
		}
	}
	return nodes
}

func blockOf(routine *ir.IrRoutine, cfgID int) *ir.IrBlock {
	vid, ok := routine.BlockOf[cfgID]
	if !ok {
		return nil
	}
	return routine.Graph.Vertex(vid).Data()
}

// collapseLoop reduces loop's internal structure with the back edge
// removed, classifies its shape, and replaces the whole contents set with
// one synthetic node keyed at the header's id.
func collapseLoop(nodes map[int]*node, g *cfg.SubroutineGraph, loop cfg.Loop, incomplete *bool) {
	contents := map[int]bool{}
	for id := range loop.Contents {
		contents[id] = true
	}

	// Remove the back edge(s) into the header so the region is acyclic.
	h := nodes[loop.Header]
	h.in = filterEdges(h.in, func(e edge) bool { return !contents[e.to] })
	for id := range contents {
		nodes[id].out = filterEdges(nodes[id].out, func(e edge) bool { return !(e.to == loop.Header) })
	}
	// Re-add exactly one synthetic self reference is unnecessary; the
	// body's own out-edges leaving contents become the loop's exits.

	body := reduceRegion(nodes, contents, loop.Header, incomplete)

	selfLoop := isUnconditionalSelfLoop(g, loop)
	forInfo, isFor := detectInductionVariable(body)
	kind := While
	switch {
	case selfLoop:
		kind = SelfLoop
	case isFor:
		kind = For
	case headerExitsDirectly(g, loop):
		kind = While
	default:
		kind = DoWhile
	}

	loopACN := &ACN{Kind: kind, Body: body}
	if isFor {
		loopACN.For = forInfo
	}

	survivor := &node{acn: loopACN}
	for _, e := range h.in {
		survivor.in = append(survivor.in, e)
		nodes[e.to].out = retarget(nodes[e.to].out, loop.Header, loop.Header)
	}
	for id := range contents {
		for _, e := range nodes[id].out {
			if !contents[e.to] {
				survivor.out = append(survivor.out, e)
				nodes[e.to].in = retarget(nodes[e.to].in, id, loop.Header)
			}
		}
	}
	for id := range contents {
		if id != loop.Header {
			delete(nodes, id)
		}
	}
	nodes[loop.Header] = survivor
}

func retarget(edges []edge, from, to int) []edge {
	out := make([]edge, len(edges))
	for i, e := range edges {
		if e.to == from {
			e.to = to
		}
		out[i] = e
	}
	return out
}

func filterEdges(edges []edge, keep func(edge) bool) []edge {
	var out []edge
	for _, e := range edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// isUnconditionalSelfLoop reports whether loop is a single block whose own
// back edge is an unconditional jump to itself — the only shape SelfLoop
// is meant for. A single-block loop whose back edge is conditional (a
// counted or tested exit) has a real condition to recover and must fall
// through to the While/DoWhile/For classification instead.
func isUnconditionalSelfLoop(g *cfg.SubroutineGraph, loop cfg.Loop) bool {
	if len(loop.Contents) != 1 {
		return false
	}
	h := g.BlocksByID[loop.Header]
	for _, oe := range h.Out {
		if oe.Target == loop.Header {
			return oe.Kind == cfg.Unconditional
		}
	}
	return false
}

// headerExitsDirectly reports whether the loop's header block itself has
// an out-edge leaving the loop's contents — a while-shaped, test-before-
// body loop rather than a do-while, test-after-body one.
func headerExitsDirectly(g *cfg.SubroutineGraph, loop cfg.Loop) bool {
	h := g.BlocksByID[loop.Header]
	for _, oe := range h.Out {
		if !loop.Contents[oe.Target] {
			return true
		}
	}
	return false
}

// detectInductionVariable is the narrow, best-effort For-pattern match:
// an Add of a temp to itself by a nonzero immediate step somewhere in the
// body. Whether that temp feeds the loop's exit comparison is not checked.
func detectInductionVariable(body *ACN) (ForInfo, bool) {
	var stepFound int32
	var reg string
	var ok bool
	walkBasics(body, func(b *ir.IrBlock) {
		if b == nil {
			return
		}
		for _, inst := range b.Insts {
			if inst.Op != ir.Add || !inst.HasDst || len(inst.Operands) != 2 {
				continue
			}
			if t, isTemp := inst.Operands[0].(ir.Temp); isTemp && t == inst.Dst {
				if imm, isImm := inst.Operands[1].(ir.Immediate); isImm && imm.Value != 0 {
					stepFound = int32(imm.Value)
					reg = tempLabel(inst.Dst)
					ok = true
				}
			}
		}
	})
	if !ok {
		return ForInfo{}, false
	}
	return ForInfo{InductionReg: reg, Step: stepFound}, true
}

func tempLabel(t ir.Temp) string {
	const digits = "0123456789"
	if t.ID == 0 {
		return "t0"
	}
	n := t.ID
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "t" + string(buf)
}

func walkBasics(a *ACN, fn func(*ir.IrBlock)) {
	if a == nil {
		return
	}
	switch a.Kind {
	case Basic:
		fn(a.Block)
	case Seq, Switch:
		for _, c := range a.Children {
			walkBasics(c, fn)
		}
	case If, IfElse, IfElseIf:
		walkBasics(a.Then, fn)
		walkBasics(a.Else, fn)
		for _, c := range a.Children {
			walkBasics(c, fn)
		}
	case SelfLoop, While, DoWhile, For:
		walkBasics(a.Body, fn)
	}
}

// reduceRegion repeatedly merges acyclic regions within ids (entry is
// only used to seed a deterministic postorder) until one node remains or
// no further reduction is possible, in which case the survivors are
// wrapped as a best-effort Seq refinement (spec.md §4.8 step 5 / §7's
// structurizer non-convergence policy: never loop forever).
func reduceRegion(nodes map[int]*node, ids map[int]bool, entry int, incomplete *bool) *ACN {
	for {
		if len(ids) == 1 {
			for id := range ids {
				return nodes[id].acn
			}
		}
		order := postorder(nodes, ids, entry)
		if tryReduceOnce(nodes, ids, order) {
			continue
		}
		*incomplete = true
		return refine(nodes, ids, order)
	}
}

func postorder(nodes map[int]*node, ids map[int]bool, entry int) []int {
	visited := map[int]bool{}
	var order []int
	var visit func(id int)
	visit = func(id int) {
		if visited[id] || !ids[id] {
			return
		}
		visited[id] = true
		for _, e := range nodes[id].out {
			visit(e.to)
		}
		order = append(order, id)
	}
	if ids[entry] {
		visit(entry)
	}
	for id := range ids {
		visit(id)
	}
	return order
}

func tryReduceOnce(nodes map[int]*node, ids map[int]bool, order []int) bool {
	for _, v := range order {
		if trySeq(nodes, ids, v) {
			return true
		}
	}
	for _, v := range order {
		if tryIfElse(nodes, ids, v) || tryIf(nodes, ids, v) || trySwitch(nodes, ids, v) {
			return true
		}
	}
	return false
}

// trySeq merges v with its unique successor when that successor has no
// other predecessor, flattening nested Seq children.
func trySeq(nodes map[int]*node, ids map[int]bool, v int) bool {
	nv := nodes[v]
	if len(nv.out) != 1 {
		return false
	}
	s := nv.out[0].to
	if !ids[s] || s == v {
		return false
	}
	ns := nodes[s]
	if len(ns.in) != 1 {
		return false
	}
	merged := &ACN{Kind: Seq}
	merged.Children = append(merged.Children, flattenSeq(nv.acn)...)
	merged.Children = append(merged.Children, flattenSeq(ns.acn)...)
	merge(nodes, ids, v, s, merged)
	return true
}

func flattenSeq(a *ACN) []*ACN {
	if a.Kind == Seq {
		return a.Children
	}
	return []*ACN{a}
}

// tryIfElse matches v with exactly two single-predecessor successors that
// both converge on a common follow node (or both end) after one node each.
func tryIfElse(nodes map[int]*node, ids map[int]bool, v int) bool {
	nv := nodes[v]
	if len(nv.out) != 2 {
		return false
	}
	var thenE, elseE edge
	switch {
	case nv.out[0].kind == cfg.ConditionTrue:
		thenE, elseE = nv.out[0], nv.out[1]
	case nv.out[1].kind == cfg.ConditionTrue:
		thenE, elseE = nv.out[1], nv.out[0]
	default:
		return false
	}
	if !ids[thenE.to] || !ids[elseE.to] || thenE.to == elseE.to {
		return false
	}
	thenN, elseN := nodes[thenE.to], nodes[elseE.to]
	if len(thenN.in) != 1 || len(elseN.in) != 1 {
		return false
	}
	follow, ok := commonFollow(thenN, elseN)
	if !ok {
		return false
	}

	acn := &ACN{Kind: IfElse, Then: thenN.acn, Else: elseN.acn}
	absorbed := []int{thenE.to, elseE.to}
	mergeMany(nodes, ids, v, absorbed, acn)
	if follow >= 0 {
		seq := &ACN{Kind: Seq, Children: []*ACN{acn, nodes[follow].acn}}
		merge(nodes, ids, v, follow, seq)
	}
	return true
}

// commonFollow reports the shared successor of both branches (-1, true
// if both branches are terminal with no successor of their own).
func commonFollow(a, b *node) (int, bool) {
	if len(a.out) == 0 && len(b.out) == 0 {
		return -1, true
	}
	if len(a.out) == 1 && len(b.out) == 1 && a.out[0].to == b.out[0].to {
		return a.out[0].to, true
	}
	return -1, false
}

// tryIf matches the triangle shape: one branch lands directly on the
// other branch's single successor (an empty/guard-only arm).
func tryIf(nodes map[int]*node, ids map[int]bool, v int) bool {
	nv := nodes[v]
	if len(nv.out) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		body, guard := nv.out[i], nv.out[1-i]
		if !ids[body.to] || body.to == v {
			continue
		}
		bn := nodes[body.to]
		if len(bn.in) != 1 || len(bn.out) != 1 {
			continue
		}
		if bn.out[0].to != guard.to {
			continue
		}
		acn := &ACN{Kind: If, Then: bn.acn}
		merge(nodes, ids, v, body.to, acn)
		return true
	}
	return false
}

// trySwitch matches v with three or more successors, each with a single
// predecessor and at most one successor, converging on a common follow
// node (or all ending).
func trySwitch(nodes map[int]*node, ids map[int]bool, v int) bool {
	nv := nodes[v]
	if len(nv.out) < 3 {
		return false
	}
	var follow = -2
	var cases []int
	for _, e := range nv.out {
		if !ids[e.to] || e.to == v {
			return false
		}
		en := nodes[e.to]
		if len(en.in) != 1 || len(en.out) > 1 {
			return false
		}
		f := -1
		if len(en.out) == 1 {
			f = en.out[0].to
		}
		if follow == -2 {
			follow = f
		} else if follow != f {
			return false
		}
		cases = append(cases, e.to)
	}

	acn := &ACN{Kind: Switch}
	for _, c := range cases {
		acn.Children = append(acn.Children, nodes[c].acn)
	}
	mergeMany(nodes, ids, v, cases, acn)
	if follow >= 0 {
		seq := &ACN{Kind: Seq, Children: []*ACN{acn, nodes[follow].acn}}
		merge(nodes, ids, v, follow, seq)
	}
	return true
}

// merge folds b into a, replacing a's ACN with combined and rewiring
// every edge that touched a or b to point at the surviving id a.
func merge(nodes map[int]*node, ids map[int]bool, a, b int, combined *ACN) {
	mergeMany(nodes, ids, a, []int{b}, combined)
}

func mergeMany(nodes map[int]*node, ids map[int]bool, survivor int, absorbed []int, combined *ACN) {
	absorbedSet := map[int]bool{}
	for _, id := range absorbed {
		absorbedSet[id] = true
	}
	sv := nodes[survivor]

	var out []edge
	for _, id := range append([]int{survivor}, absorbed...) {
		for _, e := range nodes[id].out {
			if e.to == survivor || absorbedSet[e.to] {
				continue
			}
			out = append(out, e)
		}
	}
	var in []edge
	for _, id := range append([]int{survivor}, absorbed...) {
		for _, e := range nodes[id].in {
			if e.to == survivor || absorbedSet[e.to] {
				continue
			}
			in = append(in, e)
		}
	}
	sv.acn = combined
	sv.out = out
	sv.in = in

	for _, id := range absorbed {
		delete(ids, id)
		delete(nodes, id)
	}
	for id, n := range nodes {
		if !ids[id] && id != survivor {
			continue
		}
		n.out = retargetAll(n.out, absorbedSet, survivor)
		n.in = retargetAll(n.in, absorbedSet, survivor)
	}
}

func retargetAll(edges []edge, absorbed map[int]bool, survivor int) []edge {
	out := make([]edge, 0, len(edges))
	seen := map[edge]bool{}
	for _, e := range edges {
		if absorbed[e.to] {
			e.to = survivor
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// refine is the last-resort step: the region didn't reduce any further,
// so its survivors are emitted as a flat Seq in postorder, with any
// out-of-order jump expressed as a Goto rather than left dangling.
func refine(nodes map[int]*node, ids map[int]bool, order []int) *ACN {
	if len(order) == 0 {
		return &ACN{Kind: Tail}
	}
	var kept []int
	for _, id := range order {
		if ids[id] {
			kept = append(kept, id)
		}
	}
	seq := &ACN{Kind: Seq}
	for i, id := range kept {
		n := nodes[id]
		seq.Children = append(seq.Children, n.acn)
		for _, e := range n.out {
			if i+1 < len(kept) && e.to == kept[i+1] {
				continue
			}
			seq.Children = append(seq.Children, &ACN{Kind: Goto, TargetLabel: fmt.Sprintf("block %d", e.to)})
		}
	}
	return seq
}
