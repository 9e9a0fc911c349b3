/*
 * swerv-ISS - Instruction disassembler.
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

// Package disassemble renders decoded instructions as text, purely
// from the fields the decoder already extracted -- it never touches
// guest state and never fails.
package disassemble

import (
	"fmt"

	"github.com/issuehsu/swerv-ISS/internal/hart"
	"github.com/issuehsu/swerv-ISS/internal/intregs"
)

var mnemonics = map[hart.Op]string{
	hart.OpBeq: "beq", hart.OpBne: "bne", hart.OpBlt: "blt", hart.OpBltu: "bltu",
	hart.OpBge: "bge", hart.OpBgeu: "bgeu",
	hart.OpJal: "jal", hart.OpJalr: "jalr",
	hart.OpLui: "lui", hart.OpAuipc: "auipc",
	hart.OpAddi: "addi", hart.OpSlti: "slti", hart.OpSltiu: "sltiu",
	hart.OpXori: "xori", hart.OpOri: "ori", hart.OpAndi: "andi",
	hart.OpSlli: "slli", hart.OpSrli: "srli", hart.OpSrai: "srai",
	hart.OpAddiw: "addiw", hart.OpSlliw: "slliw", hart.OpSrliw: "srliw", hart.OpSraiw: "sraiw",
	hart.OpAdd: "add", hart.OpSub: "sub", hart.OpSll: "sll", hart.OpSlt: "slt",
	hart.OpSltu: "sltu", hart.OpXor: "xor", hart.OpSrl: "srl", hart.OpSra: "sra",
	hart.OpOr: "or", hart.OpAnd: "and",
	hart.OpAddw: "addw", hart.OpSubw: "subw", hart.OpSllw: "sllw", hart.OpSrlw: "srlw", hart.OpSraw: "sraw",
	hart.OpLb: "lb", hart.OpLh: "lh", hart.OpLw: "lw", hart.OpLbu: "lbu", hart.OpLhu: "lhu",
	hart.OpLwu: "lwu", hart.OpLd: "ld",
	hart.OpSb: "sb", hart.OpSh: "sh", hart.OpSw: "sw", hart.OpSd: "sd",
	hart.OpFence: "fence", hart.OpFenceI: "fence.i",
	hart.OpEcall: "ecall", hart.OpEbreak: "ebreak",
	hart.OpMret: "mret", hart.OpSret: "sret", hart.OpUret: "uret", hart.OpWfi: "wfi",
	hart.OpCsrrw: "csrrw", hart.OpCsrrs: "csrrs", hart.OpCsrrc: "csrrc",
	hart.OpCsrrwi: "csrrwi", hart.OpCsrrsi: "csrrsi", hart.OpCsrrci: "csrrci",
	hart.OpMul: "mul", hart.OpMulh: "mulh", hart.OpMulhsu: "mulhsu", hart.OpMulhu: "mulhu",
	hart.OpDiv: "div", hart.OpDivu: "divu", hart.OpRem: "rem", hart.OpRemu: "remu",
	hart.OpMulw: "mulw", hart.OpDivw: "divw", hart.OpDivuw: "divuw", hart.OpRemw: "remw", hart.OpRemuw: "remuw",
}

func reg(n uint) string { return intregs.ABIName(n) }

// Disassemble renders a decoded instruction. Unknown or illegal
// encodings render as ".word 0x...." in the style objdump uses for
// data it cannot decode.
func Disassemble(inst hart.Inst) string {
	name, known := mnemonics[inst.Op]
	if !known {
		return fmt.Sprintf(".word\t0x%08x", inst.Raw)
	}

	switch inst.Op {
	case hart.OpBeq, hart.OpBne, hart.OpBlt, hart.OpBltu, hart.OpBge, hart.OpBgeu:
		return fmt.Sprintf("%s\t%s, %s, %d", name, reg(inst.Rs1), reg(inst.Rs2), inst.Imm)

	case hart.OpJal:
		return fmt.Sprintf("%s\t%s, %d", name, reg(inst.Rd), inst.Imm)
	case hart.OpJalr:
		return fmt.Sprintf("%s\t%s, %d(%s)", name, reg(inst.Rd), inst.Imm, reg(inst.Rs1))

	case hart.OpLui, hart.OpAuipc:
		return fmt.Sprintf("%s\t%s, 0x%x", name, reg(inst.Rd), uint32(inst.Imm)>>12)

	case hart.OpLb, hart.OpLh, hart.OpLw, hart.OpLbu, hart.OpLhu, hart.OpLwu, hart.OpLd:
		return fmt.Sprintf("%s\t%s, %d(%s)", name, reg(inst.Rd), inst.Imm, reg(inst.Rs1))
	case hart.OpSb, hart.OpSh, hart.OpSw, hart.OpSd:
		return fmt.Sprintf("%s\t%s, %d(%s)", name, reg(inst.Rs2), inst.Imm, reg(inst.Rs1))

	case hart.OpAddi, hart.OpSlti, hart.OpSltiu, hart.OpXori, hart.OpOri, hart.OpAndi,
		hart.OpSlli, hart.OpSrli, hart.OpSrai, hart.OpAddiw, hart.OpSlliw, hart.OpSrliw, hart.OpSraiw:
		return fmt.Sprintf("%s\t%s, %s, %d", name, reg(inst.Rd), reg(inst.Rs1), inst.Imm)

	case hart.OpAdd, hart.OpSub, hart.OpSll, hart.OpSlt, hart.OpSltu, hart.OpXor, hart.OpSrl,
		hart.OpSra, hart.OpOr, hart.OpAnd, hart.OpAddw, hart.OpSubw, hart.OpSllw, hart.OpSrlw, hart.OpSraw,
		hart.OpMul, hart.OpMulh, hart.OpMulhsu, hart.OpMulhu, hart.OpDiv, hart.OpDivu, hart.OpRem, hart.OpRemu,
		hart.OpMulw, hart.OpDivw, hart.OpDivuw, hart.OpRemw, hart.OpRemuw:
		return fmt.Sprintf("%s\t%s, %s, %s", name, reg(inst.Rd), reg(inst.Rs1), reg(inst.Rs2))

	case hart.OpFence, hart.OpFenceI, hart.OpEcall, hart.OpEbreak, hart.OpMret, hart.OpSret, hart.OpUret, hart.OpWfi:
		return name

	case hart.OpCsrrw, hart.OpCsrrs, hart.OpCsrrc:
		return fmt.Sprintf("%s\t%s, 0x%x, %s", name, reg(inst.Rd), inst.Csr, reg(inst.Rs1))
	case hart.OpCsrrwi, hart.OpCsrrsi, hart.OpCsrrci:
		return fmt.Sprintf("%s\t%s, 0x%x, %d", name, reg(inst.Rd), inst.Csr, inst.Imm)

	default:
		return fmt.Sprintf(".word\t0x%08x", inst.Raw)
	}
}
