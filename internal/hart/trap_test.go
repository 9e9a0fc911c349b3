/*
 * swerv-ISS - Trap delivery tests.
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

import "testing"

func TestExternalInterruptDelivered(t *testing.T) {
	h := newTestHart(t)
	h.csrs.Write(CsrMtvec, 0x800, MachineMode)
	h.csrs.Write(CsrMie, uint64(1)<<interruptMaskBit(MExternal), MachineMode)
	h.csrs.Write(CsrMstatus, uint64(1)<<mstatusMIEBit, MachineMode)

	h.SetExternalInterrupt(true)

	reason := h.Step()
	if reason != StopNone {
		t.Fatalf("unexpected stop delivering an interrupt: %v", reason)
	}
	if h.pc != 0x800 {
		t.Fatalf("pc after interrupt = 0x%x, want 0x800", h.pc)
	}
	mcause, _ := h.csrs.Peek(CsrMcause)
	wantCause := uint64(MExternal) | (uint64(1) << 63)
	if mcause != wantCause {
		t.Fatalf("mcause = 0x%x, want 0x%x", mcause, wantCause)
	}
}

func TestInterruptMaskedByMstatusMie(t *testing.T) {
	h := newTestHart(t)
	h.csrs.Write(CsrMie, uint64(1)<<interruptMaskBit(MExternal), MachineMode)
	// mstatus.MIE left clear.
	h.SetExternalInterrupt(true)
	h.mem.WriteWord(0, encodeIWord(opcodeOpImm, 0, 0x0, 0, 0)) // nop (addi x0,x0,0)

	reason := h.Step()
	if reason != StopNone {
		t.Fatalf("unexpected stop: %v", reason)
	}
	if h.pc != 4 {
		t.Fatalf("interrupt fired despite mstatus.MIE being clear, pc=0x%x", h.pc)
	}
}

func TestMretRestoresPrivilegeAndPC(t *testing.T) {
	h := newTestHart(t)
	h.initiateException(IllegalInst, 0x40, 0)
	if h.privilege != MachineMode {
		t.Fatalf("privilege after trap = %v, want Machine", h.privilege)
	}
	mepc, _ := h.csrs.Peek(CsrMepc)
	if mepc != 0x40 {
		t.Fatalf("mepc = 0x%x, want 0x40", mepc)
	}

	h.handleMret()
	if h.pc != 0x40 {
		t.Fatalf("pc after mret = 0x%x, want 0x40", h.pc)
	}
}
