/*
 * swerv-ISS - RISC-V hart definitions: privilege modes, trap causes,
 * CSR numbers, and raw opcode encodings.
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

// Privilege is one of the three RISC-V privilege modes this simulator
// tracks (no hypervisor mode).
type Privilege uint8

const (
	UserMode Privilege = iota
	SupervisorMode
	_ // reserved, matches the RISC-V encoding gap at 2
	MachineMode
)

func (p Privilege) String() string {
	switch p {
	case UserMode:
		return "U"
	case SupervisorMode:
		return "S"
	case MachineMode:
		return "M"
	default:
		return "?"
	}
}

// ExceptionCause enumerates the synchronous trap causes this engine
// can raise. Numbering follows the WdRiscv Core reference this
// simulator is modeled on.
type ExceptionCause uint

const (
	InstAddrMisaligned ExceptionCause = iota
	InstAccessFault
	IllegalInst
	Breakpoint
	LoadAddrMisaligned
	LoadAccessFault
	StoreAddrMisaligned
	StoreAccessFault
	UEnvCall
	SEnvCall
	_ // reserved cause 10
	MEnvCall
	InstPageFault
	LoadPageFault
	_ // reserved cause 14
	StorePageFault
)

// InterruptCause enumerates the asynchronous trap causes.
type InterruptCause uint

const (
	USoftware InterruptCause = 0
	SSoftware InterruptCause = 1
	MSoftware InterruptCause = 3
	UTimer    InterruptCause = 4
	STimer    InterruptCause = 5
	MTimer    InterruptCause = 7
	UExternal InterruptCause = 8
	SExternal InterruptCause = 9
	MExternal InterruptCause = 11
)

// interruptPriority lists the standard delivery order, highest first.
var interruptPriority = []InterruptCause{
	MExternal, MSoftware, MTimer,
	SExternal, SSoftware, STimer,
	UExternal, USoftware, UTimer,
}

// interruptMaskBit returns the mie/mip bit position for a cause.
func interruptMaskBit(cause InterruptCause) uint {
	return uint(cause)
}

// CSR numbers implemented by this simulator (M-mode subset named in
// spec.md plus the counters).
const (
	CsrMstatus  = 0x300
	CsrMisa     = 0x301
	CsrMedeleg  = 0x302
	CsrMideleg  = 0x303
	CsrMie      = 0x304
	CsrMtvec    = 0x305
	CsrMscratch = 0x340
	CsrMepc     = 0x341
	CsrMcause   = 0x342
	CsrMtval    = 0x343
	CsrMip      = 0x344

	CsrMvendorid = 0xF11
	CsrMarchid   = 0xF12
	CsrMimpid    = 0xF13
	CsrMhartid   = 0xF14

	CsrCycle    = 0xC00
	CsrTime     = 0xC01
	CsrInstret  = 0xC02
	CsrCycleh   = 0xC80
	CsrTimeh    = 0xC81
	CsrInstreth = 0xC82
)

// mstatus bit positions used by this simulator (M-mode subset).
const (
	mstatusMIEBit  = 3
	mstatusMPIEBit = 7
	mstatusMPPLo   = 11 // 2-bit field, bits 11:12
)

// Raw RISC-V major opcodes (bits [6:0] of a 32-bit instruction).
const (
	opcodeLoad     = 0x03
	opcodeMiscMem  = 0x0F
	opcodeOpImm    = 0x13
	opcodeAuipc    = 0x17
	opcodeOpImm32  = 0x1B
	opcodeStore    = 0x23
	opcodeOp       = 0x33
	opcodeLui      = 0x37
	opcodeOp32     = 0x3B
	opcodeBranch   = 0x63
	opcodeJalr     = 0x67
	opcodeJal      = 0x6F
	opcodeSystem   = 0x73
)
