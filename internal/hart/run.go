/*
 * swerv-ISS - The fetch-decode-execute run loop.
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

import (
	"fmt"
)

// StopReason explains why Run returned.
type StopReason int

const (
	StopNone StopReason = iota
	StopAddress
	StopToHost
	StopSignal
	StopBreakpoint
	StopFetchFault
)

func (r StopReason) String() string {
	switch r {
	case StopAddress:
		return "stop address reached"
	case StopToHost:
		return "tohost write observed"
	case StopSignal:
		return "host signal"
	case StopBreakpoint:
		return "ebreak"
	case StopFetchFault:
		return "instruction fetch fault"
	default:
		return "none"
	}
}

// SetExternalInterrupt sets or clears mip.MEIP, the machine external
// interrupt pending bit. The run loop polls it once per instruction
// boundary; a host signal handler (SIGUSR2 in the driver) is the
// expected caller.
func (h *Hart) SetExternalInterrupt(pending bool) {
	mip, _ := h.csrs.Peek(CsrMip)
	bit := uint64(1) << interruptMaskBit(MExternal)
	if pending {
		mip |= bit
	} else {
		mip &^= bit
	}
	h.csrs.rawSet(CsrMip, mip)
}

func (h *Hart) fetch() (word uint32, size uint, ok bool) {
	low, ok := h.mem.ReadHalf(h.pc)
	if !ok {
		return 0, 0, false
	}
	if low&0x3 != 0x3 {
		return uint32(low), 2, true
	}
	high, ok := h.mem.ReadHalf(h.pc + 2)
	if !ok {
		return 0, 0, false
	}
	return uint32(low) | uint32(high)<<16, 4, true
}

func (h *Hart) decodeAt(word uint32, size uint) Inst {
	if size == 2 {
		expanded, ok := expandCompressed(uint16(word), h.xlen)
		if !ok {
			return Inst{Op: OpIllegal, Raw: word, Size: 2}
		}
		inst := decode32(expanded)
		inst.Size = 2
		inst.Raw = word
		return inst
	}
	return decode32(word)
}

// Step fetches, decodes, and executes exactly one instruction,
// delivering a pending interrupt first if one is enabled and pending.
// It returns the reason execution should stop, or StopNone to keep
// going.
func (h *Hart) Step() StopReason {
	defer h.syncCounterCsrs()

	if cause, pending := h.pendingInterrupt(); pending {
		h.initiateInterrupt(cause, h.pc)
		h.cycleCount++
		if h.trace != nil {
			h.trace.Trace(TraceRecord{Tag: TagTrap, CurrPc: h.pc, TrapCause: uint64(cause), Interrupt: true})
		}
		return StopNone
	}

	if h.stopAddrValid && h.pc == h.stopAddress {
		return StopAddress
	}

	h.currPc = h.pc
	if h.currPc&1 != 0 {
		h.initiateException(InstAddrMisaligned, h.currPc, h.currPc)
		h.cycleCount++
		return StopNone
	}

	word, size, ok := h.fetch()
	if !ok {
		h.initiateException(InstAccessFault, h.currPc, h.currPc)
		h.cycleCount++
		return StopNone
	}

	inst := h.decodeAt(word, size)
	res := h.execute(inst)

	h.cycleCount++

	if res.trapped {
		h.initiateException(res.cause, h.currPc, res.tval)
		if h.trace != nil {
			h.trace.Trace(TraceRecord{Tag: TagTrap, CurrPc: h.currPc, RawInst: inst.Raw,
				InstSize: inst.Size, TrapCause: uint64(res.cause)})
		}
		if inst.Op == OpEbreak {
			return StopBreakpoint
		}
		return StopNone
	}

	if res.jumped {
		h.pc = res.nextPC
	} else {
		h.pc = h.currPc + uint64(inst.Size)
	}
	h.retiredInsts++

	if h.trace != nil {
		h.trace.Trace(h.traceRecord(inst, res))
	}

	if h.toHostHit {
		h.toHostHit = false
		return StopToHost
	}

	return StopNone
}

// syncCounterCsrs reflects the hart's private cycle and retirement
// counters into the cycle/time/instret CSRs (and their *h upper
// halves on rv32) so rdcycle/rdinstret observe live values instead of
// the zero the CSR file was reset to. time tracks cycleCount: this
// simulator has no independent wall-clock source.
func (h *Hart) syncCounterCsrs() {
	h.csrs.rawSet(CsrCycle, h.cycleCount)
	h.csrs.rawSet(CsrTime, h.cycleCount)
	h.csrs.rawSet(CsrInstret, h.retiredInsts)
	if h.xlen == 32 {
		h.csrs.rawSet(CsrCycleh, h.cycleCount>>32)
		h.csrs.rawSet(CsrTimeh, h.cycleCount>>32)
		h.csrs.rawSet(CsrInstreth, h.retiredInsts>>32)
	}
}

// traceRecord builds the retirement trace for inst given the result of
// executing it, tagging whichever piece of state it modified: an
// integer register, a CSR, or a memory word.
func (h *Hart) traceRecord(inst Inst, res execResult) TraceRecord {
	rec := TraceRecord{Tag: TagNone, CurrPc: h.currPc, RawInst: inst.Raw,
		InstSize: inst.Size, Disasm: Disassemble(inst)}

	switch {
	case isStoreOp(inst.Op):
		rec.Tag = TagStore
		rec.StoreAddr = res.storeAddr
		rec.StoreValue = res.storeValue
		rec.StoreWidth = res.storeWidth
	case isCsrOp(inst.Op):
		rec.Tag = TagCsr
		rec.CsrNum = inst.Csr
		rec.RegValue, _ = h.csrs.Peek(inst.Csr)
	case writesIntReg(inst.Op) && inst.Rd != 0:
		rec.Tag = TagIntReg
		rec.RegNum = inst.Rd
		rec.RegValue = h.regs.Read(inst.Rd)
	}
	return rec
}

// isStoreOp, isCsrOp, and writesIntReg classify an opcode by which
// piece of hart state it modifies, for trace tagging.
func isStoreOp(op Op) bool {
	switch op {
	case OpSb, OpSh, OpSw, OpSd:
		return true
	default:
		return false
	}
}

func isCsrOp(op Op) bool {
	switch op {
	case OpCsrrw, OpCsrrs, OpCsrrc, OpCsrrwi, OpCsrrsi, OpCsrrci:
		return true
	default:
		return false
	}
}

func writesIntReg(op Op) bool {
	switch op {
	case OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu,
		OpSb, OpSh, OpSw, OpSd,
		OpFence, OpFenceI, OpEcall, OpEbreak, OpMret, OpSret, OpUret, OpWfi,
		OpCsrrw, OpCsrrs, OpCsrrc, OpCsrrwi, OpCsrrsi, OpCsrrci,
		OpIllegal:
		return false
	default:
		return true
	}
}

// Run steps the hart until a stop condition fires or shouldStop
// returns true when polled between instructions (the driver wires a
// closure here that reports a received SIGTERM; SIGUSR2 reaches the
// hart through SetExternalInterrupt instead).
func (h *Hart) Run(shouldStop func() bool) StopReason {
	for {
		if shouldStop != nil && shouldStop() {
			return StopSignal
		}
		if reason := h.Step(); reason != StopNone {
			return reason
		}
	}
}

// RunUntilAddress runs until the PC equals addr (checked before each
// fetch, in addition to any stop address already armed) or another
// stop condition fires.
func (h *Hart) RunUntilAddress(addr uint64, shouldStop func() bool) StopReason {
	for {
		if shouldStop != nil && shouldStop() {
			return StopSignal
		}
		if h.pc == addr {
			return StopAddress
		}
		if reason := h.Step(); reason != StopNone {
			return reason
		}
	}
}

// Disassemble is redeclared here to avoid an import cycle between hart
// and disassemble; the real implementation lives in the disassemble
// package and is wired into the trace path through this indirection
// point when the driver assigns hart.DisassembleFunc.
var DisassembleFunc func(inst Inst) string

func Disassemble(inst Inst) string {
	if DisassembleFunc != nil {
		return DisassembleFunc(inst)
	}
	return fmt.Sprintf("0x%08x", inst.Raw)
}
