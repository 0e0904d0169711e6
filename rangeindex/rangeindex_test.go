package rangeindex

import "testing"

func TestQueryFindsContainingRange(t *testing.T) {
	var ix Index[string]
	ix.Insert(0x1000, 0x1010, "a")
	ix.Insert(0x1010, 0x1020, "b")
	ix.Insert(0x2000, 0x2004, "c")

	tests := []struct {
		pt   uint32
		want string
		ok   bool
	}{
		{0x1000, "a", true},
		{0x100f, "a", true},
		{0x1010, "b", true},
		{0x101f, "b", true},
		{0x1020, "", false},
		{0x1fff, "", false},
		{0x2000, "c", true},
		{0x2003, "c", true},
		{0x2004, "", false},
	}
	for _, tt := range tests {
		got, ok := ix.Query(tt.pt)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Query(%#x) = %q, %v; want %q, %v", tt.pt, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInsertOverlapPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overlapping insert")
		}
	}()
	var ix Index[int]
	ix.Insert(0x100, 0x200, 1)
	ix.Insert(0x150, 0x160, 2)
}

func TestForEachAscending(t *testing.T) {
	var ix Index[int]
	ix.Insert(0x200, 0x300, 2)
	ix.Insert(0x100, 0x200, 1)
	var order []int
	ix.ForEach(func(lo, hi uint32, val int) { order = append(order, val) })
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("ForEach order = %v, want [1 2]", order)
	}
}
