/*
 * swerv-ISS - Hart: the top-level single-hart simulator state.
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

// Package hart implements the architectural execution engine: decode,
// execute, CSR access, and trap delivery for a single RV32I/RV64I hart
// with the M and C extensions.
package hart

import (
	"log/slog"

	"github.com/issuehsu/swerv-ISS/internal/intregs"
	"github.com/issuehsu/swerv-ISS/internal/memory"
)

// Hart is one simulated RISC-V hart: registers, CSRs, memory, and the
// bookkeeping the run loop and debug interface need.
type Hart struct {
	xlen int // 32 or 64

	hartID uint32

	pc     uint64 // address of the next instruction to fetch
	currPc uint64 // address of the instruction currently executing

	privilege Privilege

	regs *intregs.IntRegs
	csrs *CsrFile
	mem  *memory.Memory

	retiredInsts uint64
	cycleCount   uint64

	stopAddress   uint64
	stopAddrValid bool
	toHostAddress uint64
	toHostValid   bool
	toHostHit     bool
	toHostValue   uint64

	trace TraceSink

	log *slog.Logger
}

// Config bundles the construction-time parameters for a Hart.
type Config struct {
	Xlen     int
	HartID   uint32
	MemBytes uint64
	Log      *slog.Logger
}

// NewHart builds a Hart with a freshly zeroed register file, CSR file,
// and memory of the requested size.
func NewHart(cfg Config) *Hart {
	if cfg.Xlen != 32 && cfg.Xlen != 64 {
		cfg.Xlen = 64
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	h := &Hart{
		xlen:      cfg.Xlen,
		hartID:    cfg.HartID,
		regs:      &intregs.IntRegs{},
		csrs:      NewCsrFile(cfg.Xlen, cfg.HartID),
		mem:       memory.New(cfg.MemBytes),
		privilege: MachineMode,
		log:       cfg.Log,
	}
	return h
}

// Xlen reports the hart's configured register width, 32 or 64.
func (h *Hart) Xlen() int { return h.xlen }

// Memory exposes the hart's backing memory to loaders.
func (h *Hart) Memory() *memory.Memory { return h.mem }

// SetTraceSink installs the sink that receives one TraceRecord per
// retired instruction. A nil sink disables tracing.
func (h *Hart) SetTraceSink(sink TraceSink) { h.trace = sink }

// Initialize resets architectural state to power-on values and sets
// the initial program counter.
func (h *Hart) Initialize(entryPC uint64) {
	h.regs.Reset()
	h.csrs.Reset()
	h.pc = entryPC
	h.currPc = entryPC
	h.privilege = MachineMode
	h.retiredInsts = 0
	h.cycleCount = 0
}

func (h *Hart) maskXlen(v uint64) uint64 {
	if h.xlen == 32 {
		return v & 0xFFFFFFFF
	}
	return v
}

func (h *Hart) signBit() uint64 {
	if h.xlen == 32 {
		return 1 << 31
	}
	return 1 << 63
}

// SetStopAddress arms the run loop to stop just before fetching from
// addr.
func (h *Hart) SetStopAddress(addr uint64) {
	h.stopAddress = addr
	h.stopAddrValid = true
}

// ClearStopAddress disarms the stop-address condition.
func (h *Hart) ClearStopAddress() {
	h.stopAddrValid = false
}

// SetToHostAddress arms the run loop to stop when a store retires to
// addr, the RISC-V test-harness convention for signalling completion.
func (h *Hart) SetToHostAddress(addr uint64) {
	h.toHostAddress = addr
	h.toHostValid = true
}

// ClearToHostAddress disarms the tohost stop condition.
func (h *Hart) ClearToHostAddress() {
	h.toHostValid = false
}

// RetiredInsts reports the number of instructions retired since the
// last Initialize.
func (h *Hart) RetiredInsts() uint64 { return h.retiredInsts }

// CycleCount reports the number of cycles elapsed since the last
// Initialize. Every Step that retires an instruction, takes an
// exception, or delivers an interrupt counts one cycle; only the
// retiring ones advance retiredInsts, so cycleCount == retiredInsts +
// (number of traps taken).
func (h *Hart) CycleCount() uint64 { return h.cycleCount }

// PC reports the address of the next instruction to be fetched.
func (h *Hart) PC() uint64 { return h.pc }

// Privilege reports the hart's current privilege mode.
func (h *Hart) Privilege() Privilege { return h.privilege }
