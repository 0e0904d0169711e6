// Package rangeindex is a disjoint half-open-interval index keyed by a
// uint32 address: [lo, hi) -> T, with no two entries ever overlapping. It
// backs the CFG's blocks-by-range lookup and abi.SectionedData's section
// lookup.
//
// The source this core is modeled on keeps these in a self-balancing
// (AVL) tree of overlap-augmented nodes; since consumers here mostly
// query after their disjoint ranges are known (the CFG fixes block
// boundaries before filling the index), a sorted slice
// with binary search gives the same O(log n) query for a fraction of the
// code, and insertion order doesn't need to be preserved.
package rangeindex

import "sort"

type entry[T any] struct {
	lo, hi uint32
	val    T
}

// Index is a read-mostly disjoint range map. The zero value is an empty,
// usable index.
type Index[T any] struct {
	entries []entry[T]
	sorted  bool
}

// Insert adds [lo, hi) -> val. Panics if it overlaps an existing entry,
// matching the source's try_emplace-returns-false-on-overlap contract
// promoted to a hard invariant violation here.
func (ix *Index[T]) Insert(lo, hi uint32, val T) {
	if _, ok := ix.Query(lo); ok {
		panic("rangeindex: overlapping insert")
	}
	for _, e := range ix.entries {
		if lo < e.hi && e.lo < hi {
			panic("rangeindex: overlapping insert")
		}
	}
	ix.entries = append(ix.entries, entry[T]{lo: lo, hi: hi, val: val})
	ix.sorted = false
}

func (ix *Index[T]) ensureSorted() {
	if ix.sorted {
		return
	}
	sort.Slice(ix.entries, func(i, j int) bool { return ix.entries[i].lo < ix.entries[j].lo })
	ix.sorted = true
}

// Query returns the value whose range contains pt, if any.
func (ix *Index[T]) Query(pt uint32) (T, bool) {
	ix.ensureSorted()
	var zero T
	i := sort.Search(len(ix.entries), func(i int) bool { return ix.entries[i].lo > pt })
	if i == 0 {
		return zero, false
	}
	e := ix.entries[i-1]
	if pt >= e.lo && pt < e.hi {
		return e.val, true
	}
	return zero, false
}

// Len reports how many disjoint ranges are stored.
func (ix *Index[T]) Len() int { return len(ix.entries) }

// ForEach visits every entry in ascending lo order.
func (ix *Index[T]) ForEach(fn func(lo, hi uint32, val T)) {
	ix.ensureSorted()
	for _, e := range ix.entries {
		fn(e.lo, e.hi, e.val)
	}
}
