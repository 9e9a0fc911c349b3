/*
 * swerv-ISS - M-extension execution: multiply and divide.
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

import "math/bits"

// execMulDiv implements the M extension. Divide-by-zero and the
// INT_MIN/-1 signed overflow case never trap in RISC-V; they produce
// fixed results instead: for divide-by-zero an all-ones quotient and
// the dividend as remainder; for the overflow case a quotient of
// INT_MIN and a remainder of 0.
func (h *Hart) execMulDiv(inst Inst) execResult {
	a := h.regs.Read(inst.Rs1)
	b := h.regs.Read(inst.Rs2)
	var result uint64

	switch inst.Op {
	case OpMul:
		result = h.maskXlen(a * b)

	case OpMulh:
		result = h.maskXlen(uint64(mulhSigned(h.asSigned(a), h.asSigned(b), h.xlen)))

	case OpMulhsu:
		result = h.maskXlen(uint64(mulhSignedUnsigned(h.asSigned(a), h.maskXlen(b), h.xlen)))

	case OpMulhu:
		result = h.maskXlen(mulhUnsigned(h.maskXlen(a), h.maskXlen(b), h.xlen))

	case OpDiv:
		result = h.maskXlen(uint64(divSigned(h.asSigned(a), h.asSigned(b))))

	case OpDivu:
		result = h.maskXlen(divUnsigned(h.maskXlen(a), h.maskXlen(b)))

	case OpRem:
		result = h.maskXlen(uint64(remSigned(h.asSigned(a), h.asSigned(b))))

	case OpRemu:
		result = h.maskXlen(remUnsigned(h.maskXlen(a), h.maskXlen(b)))

	case OpMulw:
		result = signExtend32(uint32(a) * uint32(b))

	case OpDivw:
		result = signExtend32(uint32(divSigned(int64(int32(uint32(a))), int64(int32(uint32(b))))))

	case OpDivuw:
		result = signExtend32(uint32(divUnsigned(uint64(uint32(a)), uint64(uint32(b)))))

	case OpRemw:
		result = signExtend32(uint32(remSigned(int64(int32(uint32(a))), int64(int32(uint32(b))))))

	case OpRemuw:
		result = signExtend32(uint32(remUnsigned(uint64(uint32(a)), uint64(uint32(b)))))
	}

	h.regs.Write(inst.Rd, result)
	return execResult{}
}

func divSigned(a, b int64) int64 {
	if b == 0 {
		return -1
	}
	if a == minInt64ForBits(64) && b == -1 {
		return a
	}
	return a / b
}

func remSigned(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if a == minInt64ForBits(64) && b == -1 {
		return 0
	}
	return a % b
}

func minInt64ForBits(n int) int64 {
	return -1 << (n - 1)
}

func divUnsigned(a, b uint64) uint64 {
	if b == 0 {
		return ^uint64(0)
	}
	return a / b
}

func remUnsigned(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

func mulhUnsigned(a, b uint64, xlen int) uint64 {
	if xlen == 32 {
		return (a * b) >> 32
	}
	hi, _ := bits.Mul64(a, b)
	return hi
}

func mulhSigned(a, b int64, xlen int) int64 {
	if xlen == 32 {
		return (a * b) >> 32
	}
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

func mulhSignedUnsigned(a int64, b uint64, xlen int) int64 {
	if xlen == 32 {
		return (a * int64(b)) >> 32
	}
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return int64(hi)
}
