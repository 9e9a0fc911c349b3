/*
 * swerv-ISS - Built-in self test.
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

import "fmt"

// SelfTest runs a short destructive sequence exercising addi, add,
// sub, mul, and ebreak and checks the architectural result. Loads,
// stores, branches, jumps, shifts, divides, and CSR instructions are
// not exercised.
// It clobbers registers, CSRs, and the first bytes of memory, so it
// is only meant to be called against a hart nobody else needs
// afterward. It returns nil on success or the first mismatch found.
func (h *Hart) SelfTest() error {
	h.Initialize(0)

	prog := []uint32{
		encodeIWord(opcodeOpImm, 1, 0x0, 0, 5), // addi x1, x0, 5
		encodeIWord(opcodeOpImm, 2, 0x0, 0, 7), // addi x2, x0, 7
		encodeRWord(opcodeOp, 3, 0x0, 1, 2, 0), // add x3, x1, x2
		encodeRWord(opcodeOp, 4, 0x0, 2, 1, 0x20), // sub x4, x2, x1
		encodeRWord(opcodeOp, 5, 0x0, 1, 2, 0x01), // mul x5, x1, x2
	}

	base := uint64(0)
	for i, word := range prog {
		if !h.mem.WriteWord(base+uint64(i*4), word) {
			return fmt.Errorf("selftest: failed to load word %d", i)
		}
	}
	// Trailing ebreak to stop the loop deterministically.
	h.mem.WriteWord(base+uint64(len(prog)*4), encodeSystemWord(0x73, 0, 0, 0, 0x001))

	for i := 0; i < len(prog); i++ {
		if reason := h.Step(); reason != StopNone {
			return fmt.Errorf("selftest: unexpected stop %v at instruction %d", reason, i)
		}
	}

	if v := h.regs.Read(1); v != 5 {
		return fmt.Errorf("selftest: x1 = %d, want 5", v)
	}
	if v := h.regs.Read(2); v != 7 {
		return fmt.Errorf("selftest: x2 = %d, want 7", v)
	}
	if v := h.regs.Read(3); v != 12 {
		return fmt.Errorf("selftest: x3 = %d, want 12", v)
	}
	if v := h.asSigned(h.regs.Read(4)); v != 2 {
		return fmt.Errorf("selftest: x4 = %d, want 2", v)
	}
	if v := h.regs.Read(5); v != 35 {
		return fmt.Errorf("selftest: x5 = %d, want 35", v)
	}

	if reason := h.Step(); reason != StopBreakpoint {
		return fmt.Errorf("selftest: expected ebreak stop, got %v", reason)
	}
	mcause, _ := h.csrs.Peek(CsrMcause)
	if mcause != uint64(Breakpoint) {
		return fmt.Errorf("selftest: mcause = %d, want %d", mcause, Breakpoint)
	}

	return nil
}

func encodeIWord(opcode uint32, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm) << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func encodeRWord(opcode uint32, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func encodeSystemWord(opcode uint32, rd, rs1 uint32, funct3 uint32, imm12 uint32) uint32 {
	return (imm12 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}
