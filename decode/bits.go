package decode

// word wraps a raw instruction word with the PowerPC "bit 0 is MSB" field
// extraction scheme used throughout the manual and mirrored here bit for
// bit, rather than re-deriving ranges from the LSB-first Go convention.
type word uint32

// extRange reads an inclusive [left, right] bit range, PowerPC numbering
// (bit 0 = most significant bit, bit 31 = least significant).
func (w word) extRange(left, right uint32) uint32 {
	width := right - left + 1
	shift := 31 - right
	mask := uint32(1)<<width - 1
	return (uint32(w) >> shift) & mask
}

// extRangeSigned reads the same range and sign-extends from its own width.
func (w word) extRangeSigned(left, right uint32) int32 {
	v := w.extRange(left, right)
	width := right - left + 1
	signBit := uint32(1) << (width - 1)
	if v&signBit != 0 {
		return int32(v | ^(signBit<<1 - 1))
	}
	return int32(v)
}

func (w word) opcd() uint32 { return w.extRange(0, 5) }

func (w word) rd() uint8 { return uint8(w.extRange(6, 10)) }
func (w word) rs() uint8 { return uint8(w.extRange(6, 10)) }
func (w word) ra() uint8 { return uint8(w.extRange(11, 15)) }
func (w word) rb() uint8 { return uint8(w.extRange(16, 20)) }

func (w word) frd() uint8 { return uint8(w.extRange(6, 10)) }
func (w word) frs() uint8 { return uint8(w.extRange(6, 10)) }
func (w word) fra() uint8 { return uint8(w.extRange(11, 15)) }
func (w word) frb() uint8 { return uint8(w.extRange(16, 20)) }
func (w word) frc() uint8 { return uint8(w.extRange(21, 25)) }

func (w word) simm() int16  { return int16(w.extRangeSigned(16, 31)) }
func (w word) uimm() uint16 { return uint16(w.extRange(16, 31)) }
func (w word) d() int16     { return int16(w.extRangeSigned(16, 31)) }

func (w word) li() int32 { return w.extRangeSigned(6, 29) << 2 }
func (w word) bd() int32 { return w.extRangeSigned(16, 29) << 2 }
func (w word) bo() uint8 { return uint8(w.extRange(6, 10)) }
func (w word) bi() uint8 { return uint8(w.extRange(11, 15)) }

func (w word) crfd() uint8 { return uint8(w.extRange(6, 8)) }
func (w word) crfs() uint8 { return uint8(w.extRange(11, 13)) }
func (w word) crbd() uint8 { return uint8(w.extRange(6, 10)) }
func (w word) crba() uint8 { return uint8(w.extRange(11, 15)) }
func (w word) crbb() uint8 { return uint8(w.extRange(16, 20)) }
func (w word) crm() uint8  { return uint8(w.extRange(12, 19)) }

func (w word) sh() uint8 { return uint8(w.extRange(16, 20)) }
func (w word) mb() uint8 { return uint8(w.extRange(21, 25)) }
func (w word) me() uint8 { return uint8(w.extRange(26, 30)) }

func (w word) xo() uint32 { return w.extRange(21, 30) }
func (w word) xo9() uint32 { return w.extRange(22, 30) }
func (w word) xo5() uint32 { return w.extRange(26, 30) }

// spr reads the byte-swapped 10-bit SPR field (bits 11-20 are the low and
// high five-bit halves in reverse order, per the encoding).
func (w word) spr() uint16 {
	v := w.extRange(11, 20)
	return uint16(((v >> 5) & 0x1f) | ((v << 5) & 0x3e0))
}

func (w word) oe() bool { return w.extRange(21, 21) != 0 }
func (w word) rcBit() bool { return w.extRange(31, 31) != 0 }
func (w word) aa() bool { return w.extRange(30, 30) != 0 }
func (w word) lk() bool { return w.extRange(31, 31) != 0 }
func (w word) ps_w() bool { return w.extRange(21, 21) != 0 }
func (w word) ps_i() uint8 { return uint8(w.extRange(17, 19)) }
func (w word) ps_d() int16 { return int16(w.extRangeSigned(20, 31)) }
