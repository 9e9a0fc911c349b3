/*
 * swerv-ISS - Instruction decoder.
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

// Op tags the family+mnemonic a decoded instruction belongs to. The
// executor dispatches on this with an exhaustive switch, which the Go
// compiler turns into a jump table -- there is no separate per-opcode
// entry point to forget to wire up.
type Op int

const (
	OpIllegal Op = iota

	// Branches.
	OpBeq
	OpBne
	OpBlt
	OpBltu
	OpBge
	OpBgeu

	// Jumps.
	OpJal
	OpJalr

	// Upper immediate.
	OpLui
	OpAuipc

	// Register-immediate ALU.
	OpAddi
	OpSlti
	OpSltiu
	OpXori
	OpOri
	OpAndi
	OpSlli
	OpSrli
	OpSrai
	OpAddiw
	OpSlliw
	OpSrliw
	OpSraiw

	// Register-register ALU.
	OpAdd
	OpSub
	OpSll
	OpSlt
	OpSltu
	OpXor
	OpSrl
	OpSra
	OpOr
	OpAnd
	OpAddw
	OpSubw
	OpSllw
	OpSrlw
	OpSraw

	// Loads.
	OpLb
	OpLh
	OpLw
	OpLbu
	OpLhu
	OpLwu
	OpLd

	// Stores.
	OpSb
	OpSh
	OpSw
	OpSd

	// Fences.
	OpFence
	OpFenceI

	// System.
	OpEcall
	OpEbreak
	OpMret
	OpSret
	OpUret
	OpWfi

	// CSR.
	OpCsrrw
	OpCsrrs
	OpCsrrc
	OpCsrrwi
	OpCsrrsi
	OpCsrrci

	// M extension.
	OpMul
	OpMulh
	OpMulhsu
	OpMulhu
	OpDiv
	OpDivu
	OpRem
	OpRemu
	OpMulw
	OpDivw
	OpDivuw
	OpRemw
	OpRemuw
)

// Inst is the tagged, decoded form of one instruction. All immediate
// and offset fields are already sign-extended to 64 bits at decode
// time; the executor narrows them to XLEN where required.
type Inst struct {
	Op   Op
	Rd   uint
	Rs1  uint
	Rs2  uint
	Imm  int64
	Csr  uint
	Size uint // instruction length in bytes: 2 (compressed) or 4
	Raw  uint32
}

func signExtend(value uint32, bit uint) int64 {
	shift := 32 - bit
	return int64(int32(value<<shift)) >> shift
}

// DecodeWord decodes a full 32-bit RISC-V instruction word for
// callers outside the package.
func DecodeWord(word uint32) Inst {
	return decode32(word)
}

// decode32 decodes a full 32-bit RISC-V instruction word. It never
// fails structurally: unrecognized encodings decode to OpIllegal so
// that the executor's uniform illegal-instruction path handles them.
func decode32(word uint32) Inst {
	opcode := word & 0x7F
	rd := uint((word >> 7) & 0x1F)
	funct3 := (word >> 12) & 0x7
	rs1 := uint((word >> 15) & 0x1F)
	rs2 := uint((word >> 20) & 0x1F)
	funct7 := (word >> 25) & 0x7F

	inst := Inst{Raw: word, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}

	switch opcode {
	case opcodeLui:
		inst.Op = OpLui
		inst.Imm = signExtend(word&0xFFFFF000, 32)
		return inst

	case opcodeAuipc:
		inst.Op = OpAuipc
		inst.Imm = signExtend(word&0xFFFFF000, 32)
		return inst

	case opcodeJal:
		inst.Op = OpJal
		imm := ((word >> 31) & 0x1) << 20
		imm |= ((word >> 21) & 0x3FF) << 1
		imm |= ((word >> 20) & 0x1) << 11
		imm |= ((word >> 12) & 0xFF) << 12
		inst.Imm = signExtend(imm, 21)
		return inst

	case opcodeJalr:
		if funct3 != 0 {
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}
		inst.Op = OpJalr
		inst.Imm = signExtend(word>>20, 12)
		return inst

	case opcodeBranch:
		imm := ((word >> 31) & 0x1) << 12
		imm |= ((word >> 7) & 0x1) << 11
		imm |= ((word >> 25) & 0x3F) << 5
		imm |= ((word >> 8) & 0xF) << 1
		inst.Imm = signExtend(imm, 13)
		switch funct3 {
		case 0x0:
			inst.Op = OpBeq
		case 0x1:
			inst.Op = OpBne
		case 0x4:
			inst.Op = OpBlt
		case 0x5:
			inst.Op = OpBge
		case 0x6:
			inst.Op = OpBltu
		case 0x7:
			inst.Op = OpBgeu
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}
		return inst

	case opcodeLoad:
		inst.Imm = signExtend(word>>20, 12)
		switch funct3 {
		case 0x0:
			inst.Op = OpLb
		case 0x1:
			inst.Op = OpLh
		case 0x2:
			inst.Op = OpLw
		case 0x3:
			inst.Op = OpLd
		case 0x4:
			inst.Op = OpLbu
		case 0x5:
			inst.Op = OpLhu
		case 0x6:
			inst.Op = OpLwu
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}
		return inst

	case opcodeStore:
		imm := ((word >> 25) & 0x7F) << 5
		imm |= (word >> 7) & 0x1F
		inst.Imm = signExtend(imm, 12)
		switch funct3 {
		case 0x0:
			inst.Op = OpSb
		case 0x1:
			inst.Op = OpSh
		case 0x2:
			inst.Op = OpSw
		case 0x3:
			inst.Op = OpSd
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}
		return inst

	case opcodeOpImm:
		inst.Imm = signExtend(word>>20, 12)
		shamt := uint(rs2)
		switch funct3 {
		case 0x0:
			inst.Op = OpAddi
		case 0x2:
			inst.Op = OpSlti
		case 0x3:
			inst.Op = OpSltiu
		case 0x4:
			inst.Op = OpXori
		case 0x6:
			inst.Op = OpOri
		case 0x7:
			inst.Op = OpAndi
		case 0x1:
			if funct7&^0x1 != 0 { // top 6 bits must be zero (RV64 uses 6-bit shamt)
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			inst.Op = OpSlli
			inst.Imm = int64(shamt) | int64(funct7&1)<<5
		case 0x5:
			top := funct7 >> 1
			switch top {
			case 0x00:
				inst.Op = OpSrli
			case 0x20 >> 1:
				inst.Op = OpSrai
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			inst.Imm = int64(shamt) | int64(funct7&1)<<5
		}
		return inst

	case opcodeOpImm32:
		imm := signExtend(word>>20, 12)
		shamt := uint(rs2)
		switch funct3 {
		case 0x0:
			inst.Op = OpAddiw
			inst.Imm = imm
		case 0x1:
			if funct7 != 0 {
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			inst.Op = OpSlliw
			inst.Imm = int64(shamt)
		case 0x5:
			switch funct7 {
			case 0x00:
				inst.Op = OpSrliw
			case 0x20:
				inst.Op = OpSraiw
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			inst.Imm = int64(shamt)
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}
		return inst

	case opcodeOp:
		switch funct7 {
		case 0x00:
			switch funct3 {
			case 0x0:
				inst.Op = OpAdd
			case 0x1:
				inst.Op = OpSll
			case 0x2:
				inst.Op = OpSlt
			case 0x3:
				inst.Op = OpSltu
			case 0x4:
				inst.Op = OpXor
			case 0x5:
				inst.Op = OpSrl
			case 0x6:
				inst.Op = OpOr
			case 0x7:
				inst.Op = OpAnd
			}
			return inst
		case 0x20:
			switch funct3 {
			case 0x0:
				inst.Op = OpSub
			case 0x5:
				inst.Op = OpSra
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			return inst
		case 0x01:
			switch funct3 {
			case 0x0:
				inst.Op = OpMul
			case 0x1:
				inst.Op = OpMulh
			case 0x2:
				inst.Op = OpMulhsu
			case 0x3:
				inst.Op = OpMulhu
			case 0x4:
				inst.Op = OpDiv
			case 0x5:
				inst.Op = OpDivu
			case 0x6:
				inst.Op = OpRem
			case 0x7:
				inst.Op = OpRemu
			}
			return inst
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}

	case opcodeOp32:
		switch funct7 {
		case 0x00:
			switch funct3 {
			case 0x0:
				inst.Op = OpAddw
			case 0x1:
				inst.Op = OpSllw
			case 0x5:
				inst.Op = OpSrlw
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			return inst
		case 0x20:
			switch funct3 {
			case 0x0:
				inst.Op = OpSubw
			case 0x5:
				inst.Op = OpSraw
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			return inst
		case 0x01:
			switch funct3 {
			case 0x0:
				inst.Op = OpMulw
			case 0x4:
				inst.Op = OpDivw
			case 0x5:
				inst.Op = OpDivuw
			case 0x6:
				inst.Op = OpRemw
			case 0x7:
				inst.Op = OpRemuw
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			return inst
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}

	case opcodeMiscMem:
		switch funct3 {
		case 0x0:
			inst.Op = OpFence
		case 0x1:
			inst.Op = OpFenceI
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}
		return inst

	case opcodeSystem:
		switch funct3 {
		case 0x0:
			switch word >> 20 {
			case 0x000:
				if rd != 0 || rs1 != 0 {
					return Inst{Op: OpIllegal, Raw: word, Size: 4}
				}
				inst.Op = OpEcall
			case 0x001:
				if rd != 0 || rs1 != 0 {
					return Inst{Op: OpIllegal, Raw: word, Size: 4}
				}
				inst.Op = OpEbreak
			case 0x102:
				inst.Op = OpSret
			case 0x302:
				inst.Op = OpMret
			case 0x002:
				inst.Op = OpUret
			case 0x105:
				inst.Op = OpWfi
			default:
				return Inst{Op: OpIllegal, Raw: word, Size: 4}
			}
			return inst
		case 0x1:
			inst.Op = OpCsrrw
			inst.Csr = uint(word >> 20)
			return inst
		case 0x2:
			inst.Op = OpCsrrs
			inst.Csr = uint(word >> 20)
			return inst
		case 0x3:
			inst.Op = OpCsrrc
			inst.Csr = uint(word >> 20)
			return inst
		case 0x5:
			inst.Op = OpCsrrwi
			inst.Csr = uint(word >> 20)
			inst.Imm = int64(rs1) // zero-extended uimm carried in rs1 field
			return inst
		case 0x6:
			inst.Op = OpCsrrsi
			inst.Csr = uint(word >> 20)
			inst.Imm = int64(rs1)
			return inst
		case 0x7:
			inst.Op = OpCsrrci
			inst.Csr = uint(word >> 20)
			inst.Imm = int64(rs1)
			return inst
		default:
			return Inst{Op: OpIllegal, Raw: word, Size: 4}
		}

	default:
		return Inst{Op: OpIllegal, Raw: word, Size: 4}
	}
}
