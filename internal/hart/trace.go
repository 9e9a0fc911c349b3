/*
 * swerv-ISS - Instruction trace records.
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

// RecordTag classifies what changed as a side effect of the retired
// instruction, for consumers that render or filter traces.
type RecordTag int

const (
	TagNone RecordTag = iota
	TagIntReg
	TagCsr
	TagStore
	TagTrap
)

// TraceRecord describes one retired instruction, or one delivered
// trap, for a TraceSink.
type TraceRecord struct {
	Tag        RecordTag
	CurrPc     uint64
	RawInst    uint32
	InstSize   uint
	Disasm     string
	RegNum     uint
	RegValue   uint64
	CsrNum     uint
	StoreAddr  uint64
	StoreValue uint64
	StoreWidth uint
	TrapCause  uint64
	Interrupt  bool
}

// TraceSink receives one TraceRecord per retired instruction, per
// trap raised by an executed instruction, and per delivered interrupt
// when tracing is enabled on a Hart. Traps raised by instruction
// fetch (odd pc, fetch access fault) produce no record.
type TraceSink interface {
	Trace(rec TraceRecord)
}

// TraceFunc adapts a plain function to the TraceSink interface.
type TraceFunc func(rec TraceRecord)

// Trace implements TraceSink.
func (f TraceFunc) Trace(rec TraceRecord) { f(rec) }
