/*
 * swerv-ISS - Debug peek/poke interface.
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

import "github.com/issuehsu/swerv-ISS/internal/intregs"

// PeekPC returns the address of the next instruction to be fetched.
func (h *Hart) PeekPC() uint64 { return h.pc }

// PokePC overwrites the program counter. Never fails.
func (h *Hart) PokePC(addr uint64) { h.pc = addr }

// PeekIntReg reads integer register num. ok is false for an
// out-of-range index.
func (h *Hart) PeekIntReg(num uint) (value uint64, ok bool) {
	if num >= intregs.Count {
		return 0, false
	}
	return h.regs.Read(num), true
}

// PokeIntReg writes integer register num. ok is false for an
// out-of-range index; state is left unmodified in that case.
func (h *Hart) PokeIntReg(num uint, value uint64) (ok bool) {
	if num >= intregs.Count {
		return false
	}
	h.regs.Write(num, value)
	return true
}

// FindIntReg maps a register name to its index for the debug
// interface.
func (h *Hart) FindIntReg(name string) (num uint, ok bool) {
	return intregs.FindByName(name)
}

// PeekCsr reads a CSR bypassing the privilege check.
func (h *Hart) PeekCsr(num uint) (value uint64, ok bool) {
	return h.csrs.Peek(num)
}

// PokeCsr writes a CSR bypassing the privilege and read-only checks.
func (h *Hart) PokeCsr(num uint, value uint64) (ok bool) {
	return h.csrs.Poke(num, value)
}

// FindCsr maps a CSR name to its number for the debug interface.
func (h *Hart) FindCsr(name string) (num uint, ok bool) {
	return h.csrs.FindByName(name)
}

// PeekMemory8/16/32/64 and PokeMemory read and write guest memory
// directly, bypassing alignment checks and trap delivery.
func (h *Hart) PeekMemory8(addr uint64) (value uint8, ok bool)   { return h.mem.ReadByte(addr) }
func (h *Hart) PeekMemory16(addr uint64) (value uint16, ok bool) { return h.mem.ReadHalf(addr) }
func (h *Hart) PeekMemory32(addr uint64) (value uint32, ok bool) { return h.mem.ReadWord(addr) }
func (h *Hart) PeekMemory64(addr uint64) (value uint64, ok bool) { return h.mem.ReadDouble(addr) }

func (h *Hart) PokeMemory8(addr uint64, value uint8) bool   { return h.mem.WriteByte(addr, value) }
func (h *Hart) PokeMemory16(addr uint64, value uint16) bool { return h.mem.WriteHalf(addr, value) }
func (h *Hart) PokeMemory32(addr uint64, value uint32) bool { return h.mem.WriteWord(addr, value) }
func (h *Hart) PokeMemory64(addr uint64, value uint64) bool { return h.mem.WriteDouble(addr, value) }

// PeekInstruction decodes the instruction at addr for the debug
// interface, applying the same compressed/32-bit low-2-bit check as
// the fetch-decode loop so a breakpoint on a 16-bit instruction
// disassembles correctly instead of being misread as a full word.
func (h *Hart) PeekInstruction(addr uint64) (Inst, bool) {
	low, ok := h.mem.ReadHalf(addr)
	if !ok {
		return Inst{}, false
	}
	if low&0x3 != 0x3 {
		return h.decodeAt(uint32(low), 2), true
	}
	high, ok := h.mem.ReadHalf(addr + 2)
	if !ok {
		return Inst{}, false
	}
	return h.decodeAt(uint32(low)|uint32(high)<<16, 4), true
}
