/*
 * swerv-ISS - Instruction execution: ALU, branch, and jump semantics.
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

// execResult communicates a taken trap out of an opcode handler
// without the handler having to know about mcause/mepc bookkeeping
// itself; the caller (step) fills those in from currPc.
type execResult struct {
	trapped bool
	cause   ExceptionCause
	tval    uint64
	nextPC  uint64 // valid only when trapped is false and the handler set an explicit target
	jumped  bool

	// storeAddr/storeValue/storeWidth are valid only for a successful
	// store, so Step can trace the memory side effect without redoing
	// the address computation.
	storeAddr  uint64
	storeValue uint64
	storeWidth uint
}

// illegalInstruction builds the trap result for an illegal-instruction
// exception, used uniformly by decode failures, privilege violations,
// and read-only CSR writes so mtval is populated the same way at
// every call site.
func illegalInstruction(inst Inst) execResult {
	return execResult{trapped: true, cause: IllegalInst, tval: uint64(inst.Raw)}
}

// execute dispatches a decoded instruction against the current hart
// state. The big switch mirrors decode32's opcode grouping so the two
// stay easy to cross-check by eye.
func (h *Hart) execute(inst Inst) execResult {
	switch inst.Op {

	case OpLui:
		h.regs.Write(inst.Rd, h.maskXlen(uint64(inst.Imm)))
		return execResult{}

	case OpAuipc:
		h.regs.Write(inst.Rd, h.maskXlen(h.currPc+uint64(inst.Imm)))
		return execResult{}

	case OpJal:
		target := h.currPc + uint64(inst.Imm)
		if target&1 != 0 {
			return execResult{trapped: true, cause: InstAddrMisaligned, tval: target}
		}
		h.regs.Write(inst.Rd, h.maskXlen(h.currPc+uint64(inst.Size)))
		return execResult{nextPC: target, jumped: true}

	case OpJalr:
		base := h.regs.Read(inst.Rs1)
		target := h.maskXlen((base + uint64(inst.Imm)) &^ 1)
		if target&1 != 0 {
			return execResult{trapped: true, cause: InstAddrMisaligned, tval: target}
		}
		link := h.currPc + uint64(inst.Size)
		h.regs.Write(inst.Rd, h.maskXlen(link))
		return execResult{nextPC: target, jumped: true}

	case OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu:
		return h.execBranch(inst)

	case OpAddi, OpSlti, OpSltiu, OpXori, OpOri, OpAndi, OpSlli, OpSrli, OpSrai,
		OpAddiw, OpSlliw, OpSrliw, OpSraiw:
		return h.execOpImm(inst)

	case OpAdd, OpSub, OpSll, OpSlt, OpSltu, OpXor, OpSrl, OpSra, OpOr, OpAnd,
		OpAddw, OpSubw, OpSllw, OpSrlw, OpSraw:
		return h.execOpReg(inst)

	case OpMul, OpMulh, OpMulhsu, OpMulhu, OpDiv, OpDivu, OpRem, OpRemu,
		OpMulw, OpDivw, OpDivuw, OpRemw, OpRemuw:
		return h.execMulDiv(inst)

	case OpLb, OpLh, OpLw, OpLbu, OpLhu, OpLwu, OpLd:
		return h.execLoad(inst)

	case OpSb, OpSh, OpSw, OpSd:
		return h.execStore(inst)

	case OpFence, OpFenceI:
		return execResult{}

	case OpEcall:
		cause := UEnvCall
		switch h.privilege {
		case SupervisorMode:
			cause = SEnvCall
		case MachineMode:
			cause = MEnvCall
		}
		return execResult{trapped: true, cause: cause}

	case OpEbreak:
		return execResult{trapped: true, cause: Breakpoint, tval: h.currPc}

	case OpMret:
		if h.privilege != MachineMode {
			return illegalInstruction(inst)
		}
		h.handleMret()
		return execResult{nextPC: h.pc, jumped: true}

	case OpSret, OpUret:
		return illegalInstruction(inst)

	case OpWfi:
		return execResult{}

	case OpCsrrw, OpCsrrs, OpCsrrc, OpCsrrwi, OpCsrrsi, OpCsrrci:
		return h.execCsr(inst)

	default: // OpIllegal and any unrecognized encoding
		return illegalInstruction(inst)
	}
}

func (h *Hart) execBranch(inst Inst) execResult {
	a := h.regs.Read(inst.Rs1)
	b := h.regs.Read(inst.Rs2)
	var taken bool
	switch inst.Op {
	case OpBeq:
		taken = a == b
	case OpBne:
		taken = a != b
	case OpBlt:
		taken = h.asSigned(a) < h.asSigned(b)
	case OpBge:
		taken = h.asSigned(a) >= h.asSigned(b)
	case OpBltu:
		taken = h.maskXlen(a) < h.maskXlen(b)
	case OpBgeu:
		taken = h.maskXlen(a) >= h.maskXlen(b)
	}
	if !taken {
		return execResult{}
	}
	target := h.currPc + uint64(inst.Imm)
	if target&1 != 0 {
		return execResult{trapped: true, cause: InstAddrMisaligned, tval: target}
	}
	return execResult{nextPC: target, jumped: true}
}

// asSigned interprets v as a signed XLEN-wide integer.
func (h *Hart) asSigned(v uint64) int64 {
	if h.xlen == 32 {
		return int64(int32(uint32(v)))
	}
	return int64(v)
}

func (h *Hart) execOpImm(inst Inst) execResult {
	a := h.regs.Read(inst.Rs1)
	var result uint64
	switch inst.Op {
	case OpAddi:
		result = h.maskXlen(a + uint64(inst.Imm))
	case OpSlti:
		if h.asSigned(a) < inst.Imm {
			result = 1
		}
	case OpSltiu:
		if h.maskXlen(a) < h.maskXlen(uint64(inst.Imm)) {
			result = 1
		}
	case OpXori:
		result = h.maskXlen(a ^ uint64(inst.Imm))
	case OpOri:
		result = h.maskXlen(a | uint64(inst.Imm))
	case OpAndi:
		result = h.maskXlen(a & uint64(inst.Imm))
	case OpSlli:
		shamt := uint(inst.Imm) & h.shiftMask()
		result = h.maskXlen(a << shamt)
	case OpSrli:
		shamt := uint(inst.Imm) & h.shiftMask()
		result = h.maskXlen(a) >> shamt
	case OpSrai:
		shamt := uint(inst.Imm) & h.shiftMask()
		result = h.maskXlen(uint64(h.asSigned(a) >> shamt))
	case OpAddiw:
		result = signExtend32(uint32(a) + uint32(inst.Imm))
	case OpSlliw:
		result = signExtend32(uint32(a) << (uint(inst.Imm) & 0x1F))
	case OpSrliw:
		result = signExtend32(uint32(a) >> (uint(inst.Imm) & 0x1F))
	case OpSraiw:
		result = signExtend32(uint32(int32(uint32(a)) >> (uint(inst.Imm) & 0x1F)))
	}
	h.regs.Write(inst.Rd, result)
	return execResult{}
}

func (h *Hart) execOpReg(inst Inst) execResult {
	a := h.regs.Read(inst.Rs1)
	b := h.regs.Read(inst.Rs2)
	var result uint64
	switch inst.Op {
	case OpAdd:
		result = h.maskXlen(a + b)
	case OpSub:
		result = h.maskXlen(a - b)
	case OpSll:
		result = h.maskXlen(a << (uint(b) & h.shiftMask()))
	case OpSlt:
		if h.asSigned(a) < h.asSigned(b) {
			result = 1
		}
	case OpSltu:
		if h.maskXlen(a) < h.maskXlen(b) {
			result = 1
		}
	case OpXor:
		result = h.maskXlen(a ^ b)
	case OpSrl:
		result = h.maskXlen(a) >> (uint(b) & h.shiftMask())
	case OpSra:
		result = h.maskXlen(uint64(h.asSigned(a) >> (uint(b) & h.shiftMask())))
	case OpOr:
		result = h.maskXlen(a | b)
	case OpAnd:
		result = h.maskXlen(a & b)
	case OpAddw:
		result = signExtend32(uint32(a) + uint32(b))
	case OpSubw:
		result = signExtend32(uint32(a) - uint32(b))
	case OpSllw:
		result = signExtend32(uint32(a) << (uint(b) & 0x1F))
	case OpSrlw:
		result = signExtend32(uint32(a) >> (uint(b) & 0x1F))
	case OpSraw:
		result = signExtend32(uint32(int32(uint32(a)) >> (uint(b) & 0x1F)))
	}
	h.regs.Write(inst.Rd, result)
	return execResult{}
}

// shiftMask returns the mask applied to a shift amount: 0x1F for
// XLEN=32 (5-bit shamt), 0x3F for XLEN=64 (6-bit shamt).
func (h *Hart) shiftMask() uint {
	if h.xlen == 32 {
		return 0x1F
	}
	return 0x3F
}

func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}
