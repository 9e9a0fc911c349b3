/*
 * swerv-ISS - Load and store instruction execution.
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

func (h *Hart) execLoad(inst Inst) execResult {
	addr := h.maskXlen(h.regs.Read(inst.Rs1) + uint64(inst.Imm))

	var width uint64
	switch inst.Op {
	case OpLb, OpLbu:
		width = 1
	case OpLh, OpLhu:
		width = 2
	case OpLw, OpLwu:
		width = 4
	case OpLd:
		width = 8
	}
	if addr%width != 0 {
		return execResult{trapped: true, cause: LoadAddrMisaligned, tval: addr}
	}

	var value uint64
	var ok bool
	switch inst.Op {
	case OpLb:
		var v uint8
		v, ok = h.mem.ReadByte(addr)
		value = uint64(int64(int8(v)))
	case OpLbu:
		var v uint8
		v, ok = h.mem.ReadByte(addr)
		value = uint64(v)
	case OpLh:
		var v uint16
		v, ok = h.mem.ReadHalf(addr)
		value = uint64(int64(int16(v)))
	case OpLhu:
		var v uint16
		v, ok = h.mem.ReadHalf(addr)
		value = uint64(v)
	case OpLw:
		var v uint32
		v, ok = h.mem.ReadWord(addr)
		value = uint64(int64(int32(v)))
	case OpLwu:
		var v uint32
		v, ok = h.mem.ReadWord(addr)
		value = uint64(v)
	case OpLd:
		value, ok = h.mem.ReadDouble(addr)
	}
	if !ok {
		return execResult{trapped: true, cause: LoadAccessFault, tval: addr}
	}
	h.regs.Write(inst.Rd, h.maskXlen(value))
	return execResult{}
}

func (h *Hart) execStore(inst Inst) execResult {
	addr := h.maskXlen(h.regs.Read(inst.Rs1) + uint64(inst.Imm))
	value := h.regs.Read(inst.Rs2)

	var width uint64
	switch inst.Op {
	case OpSb:
		width = 1
	case OpSh:
		width = 2
	case OpSw:
		width = 4
	case OpSd:
		width = 8
	}
	if addr%width != 0 {
		return execResult{trapped: true, cause: StoreAddrMisaligned, tval: addr}
	}

	var ok bool
	switch inst.Op {
	case OpSb:
		ok = h.mem.WriteByte(addr, uint8(value))
	case OpSh:
		ok = h.mem.WriteHalf(addr, uint16(value))
	case OpSw:
		ok = h.mem.WriteWord(addr, uint32(value))
	case OpSd:
		ok = h.mem.WriteDouble(addr, value)
	}
	if !ok {
		return execResult{trapped: true, cause: StoreAccessFault, tval: addr}
	}

	if h.toHostValid && addr == h.toHostAddress {
		h.toHostHit = true
		h.toHostValue = value
	}
	return execResult{storeAddr: addr, storeValue: value, storeWidth: uint(width)}
}
