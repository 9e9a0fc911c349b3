/*
 * swerv-ISS - Trap delivery: exception and interrupt entry.
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

// pendingInterrupt returns the highest-priority interrupt that is
// currently enabled and pending, or ok=false if none should be taken.
// mstatus.MIE gates delivery at every privilege level, including
// after an mret has dropped the hart to the mode held in MPP; no S/U
// trap delegation is implemented.
func (h *Hart) pendingInterrupt() (InterruptCause, bool) {
	mie, _ := h.csrs.Peek(CsrMie)
	mip, _ := h.csrs.Peek(CsrMip)
	mstatus, _ := h.csrs.Peek(CsrMstatus)

	if mstatus&(1<<mstatusMIEBit) == 0 {
		return 0, false
	}

	for _, cause := range interruptPriority {
		bit := interruptMaskBit(cause)
		if mie&(1<<bit) != 0 && mip&(1<<bit) != 0 {
			return cause, true
		}
	}
	return 0, false
}

// initiateTrap performs the common part of the trap-entry sequence
// described in spec.md section 4.6: it stashes mepc/mcause/mtval,
// copies mstatus.MIE into MPIE and the current privilege into MPP,
// clears MIE, forces machine mode, and
// redirects the PC via mtvec.
func (h *Hart) initiateTrap(causeBit uint, isInterrupt bool, epc, tval uint64, vectored bool) {
	mstatus, _ := h.csrs.Peek(CsrMstatus)

	mie := (mstatus >> mstatusMIEBit) & 1
	mstatus &^= uint64(1) << mstatusMPIEBit
	mstatus |= mie << mstatusMPIEBit

	mstatus &^= uint64(1) << mstatusMIEBit

	mstatus &^= uint64(0x3) << mstatusMPPLo
	mstatus |= uint64(h.privilege) << mstatusMPPLo

	h.csrs.rawSet(CsrMstatus, mstatus)
	h.csrs.rawSet(CsrMepc, epc&^uint64(1))
	h.csrs.rawSet(CsrMtval, tval)

	cause := uint64(causeBit)
	if isInterrupt {
		xlenTop := uint64(1) << 63
		if h.xlen == 32 {
			xlenTop = uint64(1) << 31
		}
		cause |= xlenTop
	}
	h.csrs.rawSet(CsrMcause, cause)

	h.privilege = MachineMode

	mtvec, _ := h.csrs.Peek(CsrMtvec)
	base := mtvec &^ uint64(0x3)
	mode := mtvec & 0x3
	if isInterrupt && mode == 1 {
		h.pc = base + 4*uint64(causeBit)
	} else {
		h.pc = base
	}
	_ = vectored
}

// initiateException delivers a synchronous exception. epc is the PC of
// the faulting instruction; tval carries the cause-specific
// information (faulting address, or the illegal instruction word).
func (h *Hart) initiateException(cause ExceptionCause, epc, tval uint64) {
	h.initiateTrap(uint(cause), false, epc, tval, false)
}

// initiateInterrupt delivers an asynchronous interrupt. epc is the PC
// the hart would otherwise have fetched next.
func (h *Hart) initiateInterrupt(cause InterruptCause, epc uint64) {
	h.initiateTrap(uint(cause), true, epc, 0, true)
}

// handleMret executes the MRET instruction: restores mstatus.MIE from
// MPIE, restores privilege from MPP, sets MPIE and clears MPP to the
// least-privileged mode this simulator supports, and redirects the PC
// to mepc.
func (h *Hart) handleMret() {
	mstatus, _ := h.csrs.Peek(CsrMstatus)

	mpie := (mstatus >> mstatusMPIEBit) & 1
	mstatus &^= uint64(1) << mstatusMIEBit
	mstatus |= mpie << mstatusMIEBit

	mpp := Privilege((mstatus >> mstatusMPPLo) & 0x3)

	mstatus |= uint64(1) << mstatusMPIEBit

	mstatus &^= uint64(0x3) << mstatusMPPLo
	mstatus |= uint64(UserMode) << mstatusMPPLo

	h.csrs.rawSet(CsrMstatus, mstatus)
	h.privilege = mpp

	mepc, _ := h.csrs.Peek(CsrMepc)
	h.pc = mepc
}
