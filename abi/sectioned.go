package abi

import (
	"encoding/binary"
	"math"

	"github.com/broadwayrc/ppcdecomp/rangeindex"
)

type section struct {
	base uint32
	data []byte
}

// SectionedData is the concrete RandomAccessData every demo and test in
// this repo is built against: a set of disjoint, big-endian byte regions
// addressed by base VA. Reads outside every section return zero rather
// than erroring, matching the external-interface contract.
type SectionedData struct {
	regions rangeindex.Index[section]
}

// AddSection registers data at base; returns false if it overlaps a
// section already present.
func (s *SectionedData) AddSection(base uint32, data []byte) bool {
	if _, ok := s.regions.Query(base); ok {
		return false
	}
	end := base + uint32(len(data))
	overlaps := false
	s.regions.ForEach(func(lo, hi uint32, _ section) {
		if base < hi && lo < end {
			overlaps = true
		}
	})
	if overlaps {
		return false
	}
	s.regions.Insert(base, end, section{base: base, data: data})
	return true
}

func (s *SectionedData) find(vaddr uint32) (section, bool) {
	return s.regions.Query(vaddr)
}

func (s *SectionedData) Contains(vaddr uint32) bool {
	_, ok := s.find(vaddr)
	return ok
}

func (s *SectionedData) ReadByte(vaddr uint32) uint8 {
	sec, ok := s.find(vaddr)
	if !ok {
		return 0
	}
	return sec.data[vaddr-sec.base]
}

func (s *SectionedData) ReadHalf(vaddr uint32) uint16 {
	sec, ok := s.find(vaddr)
	if !ok {
		return 0
	}
	off := vaddr - sec.base
	if int(off)+2 > len(sec.data) {
		return 0
	}
	return binary.BigEndian.Uint16(sec.data[off:])
}

func (s *SectionedData) ReadWord(vaddr uint32) uint32 {
	sec, ok := s.find(vaddr)
	if !ok {
		return 0
	}
	off := vaddr - sec.base
	if int(off)+4 > len(sec.data) {
		return 0
	}
	return binary.BigEndian.Uint32(sec.data[off:])
}

func (s *SectionedData) ReadLong(vaddr uint32) uint64 {
	sec, ok := s.find(vaddr)
	if !ok {
		return 0
	}
	off := vaddr - sec.base
	if int(off)+8 > len(sec.data) {
		return 0
	}
	return binary.BigEndian.Uint64(sec.data[off:])
}

func (s *SectionedData) ReadFloat(vaddr uint32) float32 {
	return math.Float32frombits(s.ReadWord(vaddr))
}

func (s *SectionedData) ReadDouble(vaddr uint32) float64 {
	return math.Float64frombits(s.ReadLong(vaddr))
}
