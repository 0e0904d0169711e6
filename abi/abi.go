// Package abi holds the two small contracts every analysis pass is built
// against: a random-access view of the binary's address space, and the
// CodeWarrior-toolchain ABI facts a caller can supply.
package abi

import "github.com/broadwayrc/ppcdecomp/decode"

// RandomAccessData gives byte/half/word/long/float/double access to a
// loaded image by virtual address. Implementations are expected to be
// backed by a flat byte slice plus a base VA, but the interface makes no
// assumption about backing storage.
type RandomAccessData interface {
	ReadByte(vaddr uint32) uint8
	ReadHalf(vaddr uint32) uint16
	ReadWord(vaddr uint32) uint32
	ReadLong(vaddr uint32) uint64
	ReadFloat(vaddr uint32) float32
	ReadDouble(vaddr uint32) float64
	// Contains reports whether vaddr falls within the addressable range.
	Contains(vaddr uint32) bool
}

// ReadInstruction decodes the word at vaddr through src, the one piece of
// composition every RandomAccessData implementation gets for free.
func ReadInstruction(src RandomAccessData, vaddr uint32) decode.MetaInst {
	return decode.Decode(vaddr, src.ReadWord(vaddr))
}

// CWABIConfiguration carries the optional ABI facts a caller may already
// know about the binary. The savegpr/restgpr start addresses let perilogue
// classification tag branches into those helpers as AbiRoutine; without
// them no helper call is recognized, as no pattern scan is done. The
// TOC/small-data bases are carried but read by no analysis pass.
type CWABIConfiguration struct {
	RtocBase      uint32
	HasRtocBase   bool
	R13Base       uint32
	HasR13Base    bool
	SavegprStart  uint32
	HasSavegpr    bool
	RestgprStart  uint32
	HasRestgpr    bool
}
