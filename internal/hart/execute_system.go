/*
 * swerv-ISS - CSR instruction execution.
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

// execCsr implements CSRRW/CSRRS/CSRRC and their immediate forms.
//
// The read is suppressed only for CSRRW/CSRRWI when rd is x0 (so a
// write-only use of a side-effecting CSR does not need to be
// readable). The write is suppressed for CSRRS/CSRRC/CSRRSI/CSRRCI
// when the architectural source is literally zero -- rs1 == x0 for
// the register forms, or the 5-bit immediate == 0 for the immediate
// forms -- not when the value it happens to hold at runtime is zero;
// rs1 could be a nonzero register that currently holds zero, and the
// write must still be attempted (and can still fault against a
// read-only CSR) in that case. CSRRW/CSRRWI always write. An unknown
// CSR, or one above the current privilege, traps as an illegal
// instruction even when the read is suppressed. The read-only check
// applies only when the write is performed, so a suppressed write to a
// read-only CSR does not trap.
func (h *Hart) execCsr(inst Inst) execResult {
	isImmediate := inst.Op == OpCsrrwi || inst.Op == OpCsrrsi || inst.Op == OpCsrrci
	var src uint64
	if isImmediate {
		src = uint64(inst.Imm)
	} else {
		src = h.regs.Read(inst.Rs1)
	}

	suppressRead := (inst.Op == OpCsrrw || inst.Op == OpCsrrwi) && inst.Rd == 0
	var suppressWrite bool
	switch inst.Op {
	case OpCsrrs, OpCsrrc:
		suppressWrite = inst.Rs1 == 0
	case OpCsrrsi, OpCsrrci:
		suppressWrite = inst.Imm == 0
	}

	var oldValue uint64
	var trap bool
	if !suppressRead {
		oldValue, trap = h.csrs.Read(inst.Csr, h.privilege)
	} else {
		_, trap = h.csrs.Read(inst.Csr, h.privilege)
	}
	if trap {
		return illegalInstruction(inst)
	}

	if !suppressWrite {
		var newValue uint64
		switch inst.Op {
		case OpCsrrw, OpCsrrwi:
			newValue = src
		case OpCsrrs, OpCsrrsi:
			newValue = oldValue | src
		case OpCsrrc, OpCsrrci:
			newValue = oldValue &^ src
		}
		if h.csrs.Write(inst.Csr, newValue, h.privilege) {
			return illegalInstruction(inst)
		}
	}

	if !suppressRead {
		h.regs.Write(inst.Rd, h.maskXlen(oldValue))
	}
	return execResult{}
}
