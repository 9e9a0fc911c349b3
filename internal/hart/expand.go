/*
 * swerv-ISS - Compressed (RVC) instruction expander.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package hart

// expandCompressed maps a 16-bit RVC instruction to its 32-bit
// equivalent, a fixed syntactic transform defined by the RISC-V C
// extension. Decoding then proceeds uniformly on the returned word.
// ok is false for a reserved or illegal 16-bit pattern (which becomes
// an IllegalInst exception at the caller), or for a floating-point
// form (this simulator has no F/D extension).
func expandCompressed(code16 uint16, xlen int) (word uint32, ok bool) {
	if code16 == 0 {
		return 0, false
	}
	quadrant := code16 & 0x3
	funct3 := (code16 >> 13) & 0x7

	// Compressed 3-bit register fields address x8..x15.
	rdp := func(shift uint) uint32 { return 8 + uint32((code16>>shift)&0x7) }

	switch quadrant {
	case 0x0:
		rd := rdp(2)
		rs1 := rdp(7)
		switch funct3 {
		case 0x0: // C.ADDI4SPN
			nzuimm := ((code16 >> 6) & 0x1) << 2
			nzuimm |= ((code16 >> 5) & 0x1) << 3
			nzuimm |= ((code16 >> 11) & 0x3) << 4
			nzuimm |= ((code16 >> 7) & 0xF) << 6
			imm := uint32(nzuimm)
			if imm == 0 {
				return 0, false
			}
			return encodeI(opcodeOpImm, rd, 0x0, 2 /* sp */, imm), true
		case 0x2: // C.LW
			imm := clwImm(code16)
			return encodeI(opcodeLoad, rd, 0x2, rs1, imm), true
		case 0x3: // C.FLW (rv32) / C.LD (rv64)
			if xlen != 64 {
				return 0, false
			}
			imm := cldImm(code16)
			return encodeI(opcodeLoad, rd, 0x3, rs1, imm), true
		case 0x6: // C.SW
			imm := clwImm(code16)
			return encodeS(opcodeStore, 0x2, rs1, rd, imm), true
		case 0x7: // C.FSW (rv32) / C.SD (rv64)
			if xlen != 64 {
				return 0, false
			}
			imm := cldImm(code16)
			return encodeS(opcodeStore, 0x3, rs1, rd, imm), true
		default:
			return 0, false
		}

	case 0x1:
		rd5 := uint32((code16 >> 7) & 0x1F)
		switch funct3 {
		case 0x0: // C.NOP / C.ADDI
			imm := ciImm(code16)
			return encodeI(opcodeOpImm, rd5, 0x0, rd5, uint32(imm)&0xFFF), true
		case 0x1: // C.JAL (rv32) / C.ADDIW (rv64, rd != 0)
			if xlen == 32 {
				imm := cjImm(code16)
				return encodeJ(opcodeJal, 1 /* ra */, imm), true
			}
			if rd5 == 0 {
				return 0, false
			}
			imm := ciImm(code16)
			return encodeI(opcodeOpImm32, rd5, 0x0, rd5, uint32(imm)&0xFFF), true
		case 0x2: // C.LI
			imm := ciImm(code16)
			return encodeI(opcodeOpImm, rd5, 0x0, 0, uint32(imm)&0xFFF), true
		case 0x3: // C.ADDI16SP / C.LUI
			if rd5 == 2 {
				nz := (code16 >> 6) & 0x1
				nz |= ((code16 >> 2) & 0x1) << 1
				nz |= ((code16 >> 5) & 0x1) << 2
				nz |= ((code16 >> 3) & 0x3) << 3
				nz |= ((code16 >> 12) & 0x1) << 5
				imm := signExtend(uint32(nz)<<4, 10)
				if imm == 0 {
					return 0, false
				}
				return encodeI(opcodeOpImm, 2, 0x0, 2, uint32(imm)&0xFFF), true
			}
			if rd5 == 0 {
				return 0, false
			}
			nz := (code16 >> 2) & 0x1F
			nz |= ((code16 >> 12) & 0x1) << 5
			imm := signExtend(uint32(nz)<<12, 18)
			if imm == 0 {
				return 0, false
			}
			return encodeU(opcodeLui, rd5, uint32(imm)), true
		case 0x4:
			rd3 := rdp(7)
			top2 := (code16 >> 10) & 0x3
			switch top2 {
			case 0x0: // C.SRLI
				shamt := cshamt(code16)
				return encodeIShift(opcodeOpImm, rd3, 0x5, rd3, shamt, 0x00), true
			case 0x1: // C.SRAI
				shamt := cshamt(code16)
				return encodeIShift(opcodeOpImm, rd3, 0x5, rd3, shamt, 0x20), true
			case 0x2: // C.ANDI
				imm := ciImm(code16)
				return encodeI(opcodeOpImm, rd3, 0x7, rd3, uint32(imm)&0xFFF), true
			case 0x3:
				rs2 := rdp(2)
				sel := ((code16 >> 12) & 0x1) << 2 | (code16>>5)&0x3
				switch sel {
				case 0x0:
					return encodeR(opcodeOp, rd3, 0x0, rd3, rs2, 0x20), true // C.SUB
				case 0x1:
					return encodeR(opcodeOp, rd3, 0x4, rd3, rs2, 0x00), true // C.XOR
				case 0x2:
					return encodeR(opcodeOp, rd3, 0x6, rd3, rs2, 0x00), true // C.OR
				case 0x3:
					return encodeR(opcodeOp, rd3, 0x7, rd3, rs2, 0x00), true // C.AND
				case 0x4:
					if xlen != 64 {
						return 0, false
					}
					return encodeR(opcodeOp32, rd3, 0x0, rd3, rs2, 0x20), true // C.SUBW
				case 0x5:
					if xlen != 64 {
						return 0, false
					}
					return encodeR(opcodeOp32, rd3, 0x0, rd3, rs2, 0x00), true // C.ADDW
				default:
					return 0, false
				}
			}
		case 0x5: // C.J
			imm := cjImm(code16)
			return encodeJ(opcodeJal, 0, imm), true
		case 0x6: // C.BEQZ
			rs1 := rdp(7)
			imm := cbImm(code16)
			return encodeB(opcodeBranch, 0x0, rs1, 0, imm), true
		case 0x7: // C.BNEZ
			rs1 := rdp(7)
			imm := cbImm(code16)
			return encodeB(opcodeBranch, 0x1, rs1, 0, imm), true
		}
		return 0, false

	case 0x2:
		rd5 := uint32((code16 >> 7) & 0x1F)
		switch funct3 {
		case 0x0: // C.SLLI
			shamt := cshamt(code16)
			if rd5 == 0 {
				return 0, false
			}
			return encodeIShift(opcodeOpImm, rd5, 0x1, rd5, shamt, 0x00), true
		case 0x2: // C.LWSP
			if rd5 == 0 {
				return 0, false
			}
			imm := clwspImm(code16)
			return encodeI(opcodeLoad, rd5, 0x2, 2, imm), true
		case 0x3: // C.FLWSP (rv32) / C.LDSP (rv64)
			if xlen != 64 || rd5 == 0 {
				return 0, false
			}
			imm := cldspImm(code16)
			return encodeI(opcodeLoad, rd5, 0x3, 2, imm), true
		case 0x4:
			rs2 := uint32((code16 >> 2) & 0x1F)
			bit12 := (code16 >> 12) & 0x1
			switch {
			case bit12 == 0 && rs2 == 0: // C.JR
				if rd5 == 0 {
					return 0, false
				}
				return encodeI(opcodeJalr, 0, 0x0, rd5, 0), true
			case bit12 == 0: // C.MV
				return encodeR(opcodeOp, rd5, 0x0, 0, rs2, 0x00), true
			case bit12 == 1 && rd5 == 0 && rs2 == 0: // C.EBREAK
				return encodeSystem(1), true
			case bit12 == 1 && rs2 == 0: // C.JALR
				return encodeI(opcodeJalr, 1, 0x0, rd5, 0), true
			default: // C.ADD
				return encodeR(opcodeOp, rd5, 0x0, rd5, rs2, 0x00), true
			}
		case 0x6: // C.SWSP
			rs2 := uint32((code16 >> 2) & 0x1F)
			imm := uint32((code16>>9)&0xF)<<2 | uint32((code16>>7)&0x3)<<6
			return encodeS(opcodeStore, 0x2, 2, rs2, imm), true
		case 0x7: // C.FSWSP (rv32) / C.SDSP (rv64)
			if xlen != 64 {
				return 0, false
			}
			rs2 := uint32((code16 >> 2) & 0x1F)
			imm := uint32((code16>>10)&0x7)<<3 | uint32((code16>>7)&0x7)<<6
			return encodeS(opcodeStore, 0x3, 2, rs2, imm), true
		}
		return 0, false
	}
	return 0, false
}

// -- immediate field extraction, named after the RVC field layouts --

func ciImm(code16 uint16) int64 {
	imm := (code16 >> 2) & 0x1F
	imm |= ((code16 >> 12) & 0x1) << 5
	return signExtend(uint32(imm), 6)
}

func clwImm(code16 uint16) uint32 {
	imm := ((code16 >> 6) & 0x1) << 2
	imm |= ((code16 >> 10) & 0x7) << 3
	imm |= ((code16 >> 5) & 0x1) << 6
	return uint32(imm)
}

func cldImm(code16 uint16) uint32 {
	imm := ((code16 >> 10) & 0x7) << 3
	imm |= ((code16 >> 5) & 0x3) << 6
	return uint32(imm)
}

func cjImm(code16 uint16) int64 {
	b := code16
	imm := ((b >> 3) & 0x7) << 1
	imm |= ((b >> 11) & 0x1) << 4
	imm |= ((b >> 2) & 0x1) << 5
	imm |= ((b >> 7) & 0x1) << 6
	imm |= ((b >> 6) & 0x1) << 7
	imm |= ((b >> 9) & 0x3) << 8
	imm |= ((b >> 8) & 0x1) << 10
	imm |= ((b >> 12) & 0x1) << 11
	return signExtend(uint32(imm), 12)
}

func cbImm(code16 uint16) int64 {
	b := code16
	imm := ((b >> 3) & 0x3) << 1
	imm |= ((b >> 10) & 0x3) << 3
	imm |= ((b >> 2) & 0x1) << 5
	imm |= ((b >> 5) & 0x3) << 6
	imm |= ((b >> 12) & 0x1) << 8
	return signExtend(uint32(imm), 9)
}

func cshamt(code16 uint16) uint32 {
	shamt := uint32((code16 >> 2) & 0x1F)
	shamt |= uint32((code16>>12)&0x1) << 5
	return shamt
}

func clwspImm(code16 uint16) uint32 {
	imm := ((code16 >> 4) & 0x7) << 2
	imm |= ((code16 >> 12) & 0x1) << 5
	imm |= ((code16 >> 2) & 0x3) << 6
	return uint32(imm)
}

func cldspImm(code16 uint16) uint32 {
	imm := ((code16 >> 5) & 0x3) << 3
	imm |= ((code16 >> 12) & 0x1) << 5
	imm |= ((code16 >> 2) & 0x7) << 6
	return uint32(imm)
}

// -- 32-bit encoders producing words decode32 can parse uniformly --

func encodeI(opcode, rd, funct3, rs1, imm uint32) uint32 {
	return (imm&0xFFF)<<20 | (rs1&0x1F)<<15 | (funct3&0x7)<<12 | (rd&0x1F)<<7 | opcode
}

func encodeIShift(opcode, rd, funct3, rs1, shamt, funct7 uint32) uint32 {
	return (funct7&0x7F)<<25 | (shamt&0x3F)<<20 | (rs1&0x1F)<<15 | (funct3&0x7)<<12 | (rd&0x1F)<<7 | opcode
}

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7&0x7F)<<25 | (rs2&0x1F)<<20 | (rs1&0x1F)<<15 | (funct3&0x7)<<12 | (rd&0x1F)<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	return (imm>>5&0x7F)<<25 | (rs2&0x1F)<<20 | (rs1&0x1F)<<15 | (funct3&0x7)<<12 | (imm&0x1F)<<7 | opcode
}

func encodeB(opcode, funct3, rs1, rs2 uint32, imm int64) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bit11 := (u >> 11) & 0x1
	bits10_5 := (u >> 5) & 0x3F
	bits4_1 := (u >> 1) & 0xF
	return bit12<<31 | bits10_5<<25 | (rs2&0x1F)<<20 | (rs1&0x1F)<<15 |
		(funct3&0x7)<<12 | bits4_1<<8 | bit11<<7 | opcode
}

func encodeU(opcode, rd, imm uint32) uint32 {
	return (imm & 0xFFFFF000) | (rd&0x1F)<<7 | opcode
}

func encodeJ(opcode, rd uint32, imm int64) uint32 {
	u := uint32(imm)
	bit20 := (u >> 20) & 0x1
	bits10_1 := (u >> 1) & 0x3FF
	bit11 := (u >> 11) & 0x1
	bits19_12 := (u >> 12) & 0xFF
	return bit20<<31 | bits10_1<<21 | bit11<<20 | bits19_12<<12 | (rd&0x1F)<<7 | opcode
}

// encodeSystem builds a SYSTEM-major instruction with rd=rs1=0 and
// funct12 in the top bits, e.g. ECALL (0) or EBREAK (1).
func encodeSystem(funct12 uint32) uint32 {
	return (funct12 & 0xFFF) << 20 | opcodeSystem
}
