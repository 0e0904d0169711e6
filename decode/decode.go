package decode

import "github.com/broadwayrc/ppcdecomp/datasource"

// Decode turns one 32-bit word at va into a populated MetaInst. It never
// fails: an encoding this table does not recognize yields Op == Invalid
// with no reads/writes, which downstream passes treat as an opaque
// intrinsic (spec §7, Decode-unknown).
func Decode(va uint32, raw uint32) MetaInst {
	m := MetaInst{BinaryWord: raw, VA: va}
	w := word(raw)
	switch w.opcd() {
	case 14:
		decodeAddi(w, &m)
	case 15:
		decodeAddis(w, &m)
	case 12:
		decodeAddic(w, &m, false)
	case 13:
		decodeAddic(w, &m, true)
	case 7:
		decodeMulli(w, &m)
	case 8:
		decodeSubfic(w, &m)
	case 11:
		decodeCmpi(w, &m)
	case 10:
		decodeCmpli(w, &m)
	case 28:
		decodeAndi(w, &m, false)
	case 29:
		decodeAndi(w, &m, true)
	case 24:
		decodeOriFamily(w, &m, Ori)
	case 25:
		decodeOriFamily(w, &m, Oris)
	case 26:
		decodeOriFamily(w, &m, Xori)
	case 27:
		decodeOriFamily(w, &m, Xoris)
	case 20:
		decodeRlwimi(w, &m)
	case 21:
		decodeRlwinm(w, &m)
	case 23:
		decodeRlwnm(w, &m)
	case 18:
		decodeB(w, &m)
	case 16:
		decodeBc(w, &m)
	case 19:
		decode19(w, &m)
	case 31:
		decode31(w, &m)
	case 32:
		decodeLoadStore(w, &m, Lwz, datasource.S4, false)
	case 33:
		decodeLoadStore(w, &m, Lwzu, datasource.S4, true)
	case 34:
		decodeLoadStore(w, &m, Lbz, datasource.S1, false)
	case 35:
		decodeLoadStore(w, &m, Lbzu, datasource.S1, true)
	case 40:
		decodeLoadStore(w, &m, Lhz, datasource.S2, false)
	case 41:
		decodeLoadStore(w, &m, Lhzu, datasource.S2, true)
	case 42:
		decodeLoadStore(w, &m, Lha, datasource.S2, false)
	case 43:
		decodeLoadStore(w, &m, Lhau, datasource.S2, true)
	case 36:
		decodeStore(w, &m, Stw, datasource.S4, false)
	case 37:
		decodeStore(w, &m, Stwu, datasource.S4, true)
	case 38:
		decodeStore(w, &m, Stb, datasource.S1, false)
	case 39:
		decodeStore(w, &m, Stbu, datasource.S1, true)
	case 44:
		decodeStore(w, &m, Sth, datasource.S2, false)
	case 45:
		decodeStore(w, &m, Sthu, datasource.S2, true)
	case 46:
		decodeLmw(w, &m)
	case 47:
		decodeStmw(w, &m)
	case 48:
		decodeFloatLoadStore(w, &m, Lfs, datasource.Single, false, false)
	case 49:
		decodeFloatLoadStore(w, &m, Lfsu, datasource.Single, true, false)
	case 50:
		decodeFloatLoadStore(w, &m, Lfd, datasource.Double, false, false)
	case 51:
		decodeFloatLoadStore(w, &m, Lfdu, datasource.Double, true, false)
	case 52:
		decodeFloatLoadStore(w, &m, Stfs, datasource.Single, false, true)
	case 53:
		decodeFloatLoadStore(w, &m, Stfsu, datasource.Single, true, true)
	case 54:
		decodeFloatLoadStore(w, &m, Stfd, datasource.Double, false, true)
	case 55:
		decodeFloatLoadStore(w, &m, Stfdu, datasource.Double, true, true)
	case 59:
		decode59(w, &m)
	case 63:
		decode63(w, &m)
	case 4:
		decode4(w, &m)
	case 56:
		decodePsqLoadStore(w, &m, PsqL, false)
	case 57:
		decodePsqLoadStore(w, &m, PsqLu, true)
	case 60:
		decodePsqLoadStore(w, &m, PsqSt, false)
	case 61:
		decodePsqLoadStore(w, &m, PsqStu, true)
	default:
		m.Op = Invalid
	}
	return m
}
