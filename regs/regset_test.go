package regs

import "testing"

func TestRangeHalfOpen(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi GPR
		want   []GPR
	}{
		{"empty", GPR(3), GPR(3), nil},
		{"single", GPR(3), GPR(4), []GPR{3}},
		{"r3_r10", GPR(3), GPR(11), []GPR{3, 4, 5, 6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Range(tt.lo, tt.hi)
			var got []GPR
			s.ForEach(func(r GPR) { got = append(got, r) })
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestSetBasics(t *testing.T) {
	s := Of(GPR(3), GPR(5), GPR(31))
	if !s.Has(GPR(3)) || !s.Has(GPR(5)) || !s.Has(GPR(31)) {
		t.Fatalf("Of did not add all registers: %v", s)
	}
	if s.Has(GPR(4)) {
		t.Fatalf("unexpected register 4 in %v", s)
	}
	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", s.Count())
	}

	s2 := s.Remove(GPR(5))
	if s2.Has(GPR(5)) {
		t.Fatalf("Remove did not clear register 5")
	}
	if got, ok := s2.Lowest(); !ok || got != GPR(3) {
		t.Fatalf("Lowest() = %v, %v, want 3, true", got, ok)
	}
}

func TestSetXorDelta(t *testing.T) {
	a := Of(GPR(3), GPR(4))
	b := Of(GPR(4), GPR(5))
	delta := a.Xor(b)
	if !delta.Has(GPR(3)) || !delta.Has(GPR(5)) || delta.Has(GPR(4)) {
		t.Fatalf("Xor delta = %v, want {3,5}", delta)
	}
}

func TestCRBitFieldIndex(t *testing.T) {
	b := Bit(CRField(2), BitEq)
	if b.Field() != CRField(2) {
		t.Errorf("Field() = %v, want 2", b.Field())
	}
	if b.Index() != BitEq {
		t.Errorf("Index() = %v, want BitEq", b.Index())
	}
}
