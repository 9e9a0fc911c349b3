/*
 * swerv-ISS - Integer register file.
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

// Package intregs models the 32-entry integer register file shared by
// RV32I and RV64I. Values are always stored as full 64-bit words; the
// Hart is responsible for masking down to XLEN=32 where required.
package intregs

// Count is the number of integer registers (x0..x31).
const Count = 32

// IntRegs is the RISC-V integer register file. x0 always reads as
// zero and silently discards writes.
type IntRegs struct {
	regs [Count]uint64
}

// Read returns the value of register i, or 0 if i is out of range or
// is x0.
func (r *IntRegs) Read(i uint) uint64 {
	if i == 0 || i >= Count {
		return 0
	}
	return r.regs[i]
}

// Write stores value into register i. Writes to x0 or to an
// out-of-range index are silently discarded.
func (r *IntRegs) Write(i uint, value uint64) {
	if i == 0 || i >= Count {
		return
	}
	r.regs[i] = value
}

// Reset zeroes all registers.
func (r *IntRegs) Reset() {
	for i := range r.regs {
		r.regs[i] = 0
	}
}

// names holds x0..x31 plus their ABI aliases; multiple names may map
// to the same register number.
var names = map[string]uint{
	"x0": 0, "zero": 0,
	"x1": 1, "ra": 1,
	"x2": 2, "sp": 2,
	"x3": 3, "gp": 3,
	"x4": 4, "tp": 4,
	"x5": 5, "t0": 5,
	"x6": 6, "t1": 6,
	"x7": 7, "t2": 7,
	"x8": 8, "s0": 8, "fp": 8,
	"x9": 9, "s1": 9,
	"x10": 10, "a0": 10,
	"x11": 11, "a1": 11,
	"x12": 12, "a2": 12,
	"x13": 13, "a3": 13,
	"x14": 14, "a4": 14,
	"x15": 15, "a5": 15,
	"x16": 16, "a6": 16,
	"x17": 17, "a7": 17,
	"x18": 18, "s2": 18,
	"x19": 19, "s3": 19,
	"x20": 20, "s4": 20,
	"x21": 21, "s5": 21,
	"x22": 22, "s6": 22,
	"x23": 23, "s7": 23,
	"x24": 24, "s8": 24,
	"x25": 25, "s9": 25,
	"x26": 26, "s10": 26,
	"x27": 27, "s11": 27,
	"x28": 28, "t3": 28,
	"x29": 29, "t4": 29,
	"x30": 30, "t5": 30,
	"x31": 31, "t6": 31,
}

// abiNames is indexed by register number and gives the canonical ABI
// name used by the disassembler.
var abiNames = [Count]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// FindByName maps a register name (x0..x31 or an ABI alias) to its
// number. ok is false if name is not a valid register name.
func FindByName(name string) (num uint, ok bool) {
	num, ok = names[name]
	return num, ok
}

// ABIName returns the canonical ABI name for register i.
func ABIName(i uint) string {
	if i >= Count {
		return "?"
	}
	return abiNames[i]
}
