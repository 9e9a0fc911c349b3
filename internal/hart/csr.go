/*
 * swerv-ISS - Control and Status Register file.
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

// csrEntry holds one CSR's static access attributes plus its current
// value. Registered once at construction; the map is keyed by CSR
// number rather than a dense [4096]entry array since only a couple
// dozen numbers are ever populated (see design notes: either encoding
// satisfies the contract, this one wastes less space for a sparse M-
// mode-only register set).
type csrEntry struct {
	number       uint
	name         string
	value        uint64
	writeMask    uint64
	resetValue   uint64
	minPrivilege Privilege
	readOnly     bool
}

// CsrFile is the sparse CSR file described in spec.md section 4.3.
type CsrFile struct {
	regs  map[uint]*csrEntry
	names map[string]uint
	xlen  int
}

func maskXlen(xlen int, v uint64) uint64 {
	if xlen == 32 {
		return v & 0xFFFFFFFF
	}
	return v
}

// NewCsrFile constructs the standard M-mode CSR set for the given
// XLEN and hart ID.
func NewCsrFile(xlen int, hartID uint32) *CsrFile {
	f := &CsrFile{
		regs:  make(map[uint]*csrEntry),
		names: make(map[string]uint),
		xlen:  xlen,
	}

	full := ^uint64(0)
	if xlen == 32 {
		full = 0xFFFFFFFF
	}

	// misa: base (I) + M + C extension bits, MXL reports XLEN.
	misa := uint64(1<<8 | 1<<12 | 1<<2) // I, M, C
	if xlen == 32 {
		misa |= uint64(1) << 30
	} else {
		misa |= uint64(2) << 62
	}

	f.register(CsrMstatus, "mstatus", 0, full, MachineMode, false)
	f.register(CsrMisa, "misa", misa, 0, MachineMode, true)
	f.register(CsrMedeleg, "medeleg", 0, full, MachineMode, false)
	f.register(CsrMideleg, "mideleg", 0, full, MachineMode, false)
	f.register(CsrMie, "mie", 0, full, MachineMode, false)
	f.register(CsrMtvec, "mtvec", 0, full, MachineMode, false)
	f.register(CsrMscratch, "mscratch", 0, full, MachineMode, false)
	f.register(CsrMepc, "mepc", 0, full&^uint64(1), MachineMode, false)
	f.register(CsrMcause, "mcause", 0, full, MachineMode, false)
	f.register(CsrMtval, "mtval", 0, full, MachineMode, false)
	f.register(CsrMip, "mip", 0, full, MachineMode, false)

	f.register(CsrMvendorid, "mvendorid", 0, 0, MachineMode, true)
	f.register(CsrMarchid, "marchid", 0, 0, MachineMode, true)
	f.register(CsrMimpid, "mimpid", 0, 0, MachineMode, true)
	f.register(CsrMhartid, "mhartid", uint64(hartID), 0, MachineMode, true)

	f.register(CsrCycle, "cycle", 0, 0, UserMode, true)
	f.register(CsrTime, "time", 0, 0, UserMode, true)
	f.register(CsrInstret, "instret", 0, 0, UserMode, true)
	f.register(CsrCycleh, "cycleh", 0, 0, UserMode, true)
	f.register(CsrTimeh, "timeh", 0, 0, UserMode, true)
	f.register(CsrInstreth, "instreth", 0, 0, UserMode, true)

	return f
}

func (f *CsrFile) register(number uint, name string, reset, writeMask uint64, priv Privilege, readOnly bool) {
	e := &csrEntry{
		number:       number,
		name:         name,
		value:        reset,
		writeMask:    writeMask,
		resetValue:   reset,
		minPrivilege: priv,
		readOnly:     readOnly,
	}
	f.regs[number] = e
	f.names[name] = number
}

// Reset restores every CSR to its reset value.
func (f *CsrFile) Reset() {
	for _, e := range f.regs {
		e.value = e.resetValue
	}
}

// Read implements the architectural CSR read: fails if the CSR is
// unknown or the current privilege is below the CSR's minimum.
func (f *CsrFile) Read(number uint, priv Privilege) (value uint64, trap bool) {
	e, ok := f.regs[number]
	if !ok || priv < e.minPrivilege {
		return 0, true
	}
	return maskXlen(f.xlen, e.value), false
}

// Write implements the architectural CSR write: fails additionally if
// the CSR is read-only (top two bits of the CSR number are 11, or the
// CSR is defined as read-only regardless of numbering, e.g. counters).
func (f *CsrFile) Write(number uint, src uint64, priv Privilege) (trap bool) {
	e, ok := f.regs[number]
	if !ok || priv < e.minPrivilege {
		return true
	}
	if e.readOnly || (number>>10)&0x3 == 0x3 {
		return true
	}
	e.value = maskXlen(f.xlen, (e.value &^ e.writeMask) | (src & e.writeMask))
	return false
}

// Peek reads a CSR bypassing the privilege check, for the debug
// interface.
func (f *CsrFile) Peek(number uint) (value uint64, ok bool) {
	e, found := f.regs[number]
	if !found {
		return 0, false
	}
	return maskXlen(f.xlen, e.value), true
}

// Poke writes a CSR bypassing the privilege and read-only checks, for
// the debug interface.
func (f *CsrFile) Poke(number uint, value uint64) bool {
	e, ok := f.regs[number]
	if !ok {
		return false
	}
	e.value = maskXlen(f.xlen, value)
	return true
}

// FindByName maps a CSR name to its number.
func (f *CsrFile) FindByName(name string) (number uint, ok bool) {
	number, ok = f.names[name]
	return number, ok
}

// rawSet writes a CSR's full value unconditionally, used internally by
// the trap unit and xRET handling to update mstatus/mepc/mcause/mtval
// fields that are not simple write-masked CSRRW targets.
func (f *CsrFile) rawSet(number uint, value uint64) {
	if e, ok := f.regs[number]; ok {
		e.value = maskXlen(f.xlen, value)
	}
}

func (f *CsrFile) rawGet(number uint) uint64 {
	if e, ok := f.regs[number]; ok {
		return maskXlen(f.xlen, e.value)
	}
	return 0
}
