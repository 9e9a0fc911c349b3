/*
 * swerv-ISS - Hart execution tests.
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

func newTestHart(t *testing.T) *Hart {
	t.Helper()
	h := NewHart(Config{Xlen: 64, MemBytes: 0x10000})
	h.Initialize(0)
	return h
}

func TestAddiChainThenEbreak(t *testing.T) {
	h := newTestHart(t)
	prog := []uint32{
		encodeIWord(opcodeOpImm, 1, 0x0, 0, 1), // addi x1, x0, 1
		encodeIWord(opcodeOpImm, 1, 0x0, 1, 1), // addi x1, x1, 1
		encodeIWord(opcodeOpImm, 1, 0x0, 1, 1), // addi x1, x1, 1
		encodeSystemWord(opcodeSystem, 0, 0, 0, 0x001), // ebreak
	}
	for i, w := range prog {
		h.mem.WriteWord(uint64(i*4), w)
	}

	for i := 0; i < 3; i++ {
		if reason := h.Step(); reason != StopNone {
			t.Fatalf("step %d: unexpected stop %v", i, reason)
		}
	}
	if v := h.regs.Read(1); v != 3 {
		t.Fatalf("x1 = %d, want 3", v)
	}

	reason := h.Step()
	if reason != StopBreakpoint {
		t.Fatalf("expected StopBreakpoint, got %v", reason)
	}
	mepc, _ := h.csrs.Peek(CsrMepc)
	if mepc != 3*4 {
		t.Fatalf("mepc = 0x%x, want 0x%x", mepc, 3*4)
	}
	mcause, _ := h.csrs.Peek(CsrMcause)
	if mcause != uint64(Breakpoint) {
		t.Fatalf("mcause = %d, want %d", mcause, Breakpoint)
	}
}

func TestDivideByZero(t *testing.T) {
	h := newTestHart(t)
	h.regs.Write(1, 42)
	h.regs.Write(2, 0)
	inst := Inst{Op: OpDiv, Rd: 3, Rs1: 1, Rs2: 2}
	h.execute(inst)
	if v := int64(h.regs.Read(3)); v != -1 {
		t.Fatalf("div by zero = %d, want -1", v)
	}

	inst = Inst{Op: OpRem, Rd: 4, Rs1: 1, Rs2: 2}
	h.execute(inst)
	if v := h.regs.Read(4); v != 42 {
		t.Fatalf("rem by zero = %d, want 42", v)
	}
}

func TestSignedDivideOverflow(t *testing.T) {
	h := newTestHart(t)
	minInt64 := uint64(1) << 63
	h.regs.Write(1, minInt64)
	h.regs.Write(2, ^uint64(0)) // -1
	h.execute(Inst{Op: OpDiv, Rd: 3, Rs1: 1, Rs2: 2})
	if v := h.regs.Read(3); v != minInt64 {
		t.Fatalf("div overflow = 0x%x, want 0x%x", v, minInt64)
	}
	h.execute(Inst{Op: OpRem, Rd: 4, Rs1: 1, Rs2: 2})
	if v := h.regs.Read(4); v != 0 {
		t.Fatalf("rem overflow = %d, want 0", v)
	}
}

func TestCsrWriteToReadOnlyTraps(t *testing.T) {
	h := newTestHart(t)
	// csrrw x0, mvendorid, x1 -- attempted write to a read-only CSR.
	// The read half is suppressed (rd=x0) but the write must still be
	// attempted and must trap.
	inst := Inst{Op: OpCsrrw, Rd: 0, Rs1: 1, Csr: CsrMvendorid}
	res := h.execute(inst)
	if !res.trapped || res.cause != IllegalInst {
		t.Fatalf("expected IllegalInst trap, got %+v", res)
	}
}

func TestCsrrsWriteAttemptedEvenWhenSourceValueIsZero(t *testing.T) {
	h := newTestHart(t)
	// csrrs x1, mvendorid, x5 with x5 == 0 at runtime -- rs1 is x5, not
	// x0, so the write must still be attempted against the read-only
	// CSR and trap, even though the value it would OR in is zero.
	h.regs.Write(5, 0)
	inst := Inst{Op: OpCsrrs, Rd: 1, Rs1: 5, Csr: CsrMvendorid}
	res := h.execute(inst)
	if !res.trapped || res.cause != IllegalInst {
		t.Fatalf("expected IllegalInst trap, got %+v", res)
	}
}

func TestCsrrsWriteSuppressedWhenRs1IsX0(t *testing.T) {
	h := newTestHart(t)
	// csrrs x1, mvendorid, x0 -- rs1 is x0, so the write is genuinely
	// suppressed and a read-only CSR can still be read this way.
	inst := Inst{Op: OpCsrrs, Rd: 1, Rs1: 0, Csr: CsrMvendorid}
	res := h.execute(inst)
	if res.trapped {
		t.Fatalf("expected no trap reading a read-only csr via csrrs x0, got %+v", res)
	}
}

func TestCsrrsiWriteSuppressionUsesImmediateNotRegister(t *testing.T) {
	h := newTestHart(t)
	// csrrsi x1, mvendorid, 0 -- the immediate itself is zero, so the
	// write is suppressed for the immediate form.
	inst := Inst{Op: OpCsrrsi, Rd: 1, Imm: 0, Csr: CsrMvendorid}
	res := h.execute(inst)
	if res.trapped {
		t.Fatalf("expected no trap for csrrsi with a zero immediate, got %+v", res)
	}
}

func TestCompressedAddiMatchesUncompressed(t *testing.T) {
	h1 := newTestHart(t)
	h2 := newTestHart(t)

	// c.addi x1, 1 encodes as 0x0085 (quadrant 1, funct3 0, rd=x1, imm=1).
	word, ok := expandCompressed(0x0085, 64)
	if !ok {
		t.Fatalf("expandCompressed failed to expand c.addi")
	}
	inst := DecodeWord(word)
	if inst.Op != OpAddi || inst.Rd != 1 || inst.Rs1 != 1 || inst.Imm != 1 {
		t.Fatalf("unexpected decode of expanded c.addi: %+v", inst)
	}

	h1.execute(inst)
	h2.execute(Inst{Op: OpAddi, Rd: 1, Rs1: 1, Imm: 1})
	if h1.regs.Read(1) != h2.regs.Read(1) {
		t.Fatalf("compressed and uncompressed addi diverged: %d vs %d",
			h1.regs.Read(1), h2.regs.Read(1))
	}
}

func TestToHostStopsRunLoop(t *testing.T) {
	h := newTestHart(t)
	h.SetToHostAddress(0x100)
	prog := []uint32{
		encodeIWord(opcodeOpImm, 1, 0x0, 0, 7),               // addi x1, x0, 7
		encodeSWord(opcodeStore, 0x2, 0, 1, 0x100),           // sw x1, 0x100(x0)
	}
	for i, w := range prog {
		h.mem.WriteWord(uint64(i*4), w)
	}
	reason := h.Run(nil)
	if reason != StopToHost {
		t.Fatalf("expected StopToHost, got %v", reason)
	}
	v, _ := h.mem.ReadWord(0x100)
	if v != 7 {
		t.Fatalf("tohost value = %d, want 7", v)
	}
}

func TestX0AlwaysZero(t *testing.T) {
	h := newTestHart(t)
	h.regs.Write(0, 0xdeadbeef)
	if v := h.regs.Read(0); v != 0 {
		t.Fatalf("x0 = 0x%x, want 0", v)
	}
}

func TestSelfTest(t *testing.T) {
	h := NewHart(Config{Xlen: 64, MemBytes: 0x10000})
	if err := h.SelfTest(); err != nil {
		t.Fatalf("self test failed: %v", err)
	}
}

func TestFetchOfOddPcTraps(t *testing.T) {
	h := newTestHart(t)
	h.mem.WriteWord(0, encodeIWord(opcodeOpImm, 1, 0x0, 0, 1)) // addi x1, x0, 1
	h.PokePC(1)

	reason := h.Step()
	if reason != StopNone {
		t.Fatalf("unexpected stop fetching an odd pc: %v", reason)
	}
	mcause, _ := h.csrs.Peek(CsrMcause)
	if mcause != uint64(InstAddrMisaligned) {
		t.Fatalf("mcause = %d, want %d (InstAddrMisaligned)", mcause, InstAddrMisaligned)
	}
	mepc, _ := h.csrs.Peek(CsrMepc)
	if mepc != 0 {
		t.Fatalf("mepc = 0x%x, want 0 (mepc[0] is hardwired low)", mepc)
	}
	if h.regs.Read(1) != 0 {
		t.Fatalf("x1 = %d, want 0: the misaligned fetch must not execute anything", h.regs.Read(1))
	}
}

func TestTrappedInstructionDoesNotRetire(t *testing.T) {
	h := newTestHart(t)
	h.mem.WriteWord(0, encodeSystemWord(opcodeSystem, 0, 0, 0, 0x001)) // ebreak

	before := h.RetiredInsts()
	if reason := h.Step(); reason != StopBreakpoint {
		t.Fatalf("expected StopBreakpoint, got %v", reason)
	}
	if got := h.RetiredInsts(); got != before {
		t.Fatalf("retiredInsts = %d after a trapped instruction, want unchanged %d", got, before)
	}
	if h.CycleCount() != before+1 {
		t.Fatalf("cycleCount = %d, want %d: cycleCount must advance even when retiredInsts does not",
			h.CycleCount(), before+1)
	}
}

func TestCycleAndInstretCsrsTrackHartCounters(t *testing.T) {
	h := newTestHart(t)
	prog := []uint32{
		encodeIWord(opcodeOpImm, 1, 0x0, 0, 1), // addi x1, x0, 1
		encodeIWord(opcodeOpImm, 1, 0x0, 1, 1), // addi x1, x1, 1
		encodeSystemWord(opcodeSystem, 0, 0, 0, 0x001), // ebreak
	}
	for i, w := range prog {
		h.mem.WriteWord(uint64(i*4), w)
	}

	h.Step()
	h.Step()

	cycle, _ := h.csrs.Peek(CsrCycle)
	instret, _ := h.csrs.Peek(CsrInstret)
	if cycle != h.CycleCount() {
		t.Fatalf("cycle csr = %d, want %d", cycle, h.CycleCount())
	}
	if instret != h.RetiredInsts() {
		t.Fatalf("instret csr = %d, want %d", instret, h.RetiredInsts())
	}
	if cycle == 0 || instret == 0 {
		t.Fatalf("cycle/instret csrs are still zero stubs: cycle=%d instret=%d", cycle, instret)
	}

	time, _ := h.csrs.Peek(CsrTime)
	if time != cycle {
		t.Fatalf("time csr = %d, want %d (tracks cycle in this simulator)", time, cycle)
	}
}

func TestTraceRecordsRegisterCsrAndStore(t *testing.T) {
	h := newTestHart(t)
	var recs []TraceRecord
	h.SetTraceSink(TraceFunc(func(rec TraceRecord) { recs = append(recs, rec) }))

	prog := []uint32{
		encodeIWord(opcodeOpImm, 1, 0x0, 0, 7),                              // addi x1, x0, 7
		encodeSystemWord(opcodeSystem, 2, 1, 0x1, uint32(CsrMscratch)),      // csrrw x2, mscratch, x1
		encodeSWord(opcodeStore, 0x2, 0, 1, 0x40),                           // sw x1, 0x40(x0)
	}
	for i, w := range prog {
		h.mem.WriteWord(uint64(i*4), w)
	}
	for i := range prog {
		if reason := h.Step(); reason != StopNone {
			t.Fatalf("step %d: unexpected stop %v", i, reason)
		}
	}
	if len(recs) != 3 {
		t.Fatalf("got %d trace records, want 3", len(recs))
	}

	if recs[0].Tag != TagIntReg || recs[0].RegNum != 1 || recs[0].RegValue != 7 {
		t.Fatalf("addi trace = %+v, want TagIntReg x1=7", recs[0])
	}
	if recs[1].Tag != TagCsr || recs[1].CsrNum != CsrMscratch || recs[1].RegValue != 7 {
		t.Fatalf("csrrw trace = %+v, want TagCsr mscratch=7", recs[1])
	}
	if recs[2].Tag != TagStore || recs[2].StoreAddr != 0x40 || recs[2].StoreValue != 7 || recs[2].StoreWidth != 4 {
		t.Fatalf("sw trace = %+v, want TagStore addr=0x40 value=7 width=4", recs[2])
	}
}

func encodeSWord(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7F)<<25 | (rs2&0x1F)<<20 | (rs1&0x1F)<<15 | (funct3&0x7)<<12 | (u&0x1F)<<7 | opcode
}
