package decode

import "github.com/broadwayrc/ppcdecomp/regs"

func regGPR(r uint8) regs.GPR { return regs.GPR(r) }
func regFPR(r uint8) regs.FPR { return regs.FPR(r) }
func regCRField(f uint8) regs.CRField { return regs.CRField(f) }

// sprFromEncoded maps the raw SPR field value to the small special-register
// enumeration this package cares about; anything else is reported as XER
// since unrecognized SPRs do not affect liveness of the tracked subset.
func sprFromEncoded(v uint16) regs.SpecialReg {
	switch v {
	case 1:
		return regs.XER
	case 8:
		return regs.LR
	case 9:
		return regs.CTR
	default:
		return regs.XER
	}
}

func regsCTR() regs.SpecialReg { return regs.CTR }
