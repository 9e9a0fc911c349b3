/*
 * swerv-ISS - Command parser tests.
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

package parser

import (
	"testing"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

func newTestHart(t *testing.T) *hart.Hart {
	t.Helper()
	h := hart.NewHart(hart.Config{Xlen: 64, MemBytes: 0x10000})
	h.Initialize(0)
	return h
}

func TestDepositAndExaminePC(t *testing.T) {
	h := newTestHart(t)
	if quit, err := ProcessCommand("deposit pc 0x100", h); err != nil || quit {
		t.Fatalf("deposit pc failed: quit=%v err=%v", quit, err)
	}
	if h.PC() != 0x100 {
		t.Fatalf("pc = 0x%x, want 0x100", h.PC())
	}
	if _, err := ProcessCommand("examine pc", h); err != nil {
		t.Fatalf("examine pc failed: %v", err)
	}
}

func TestDepositAndExamineIntReg(t *testing.T) {
	h := newTestHart(t)
	if _, err := ProcessCommand("deposit a0 5", h); err != nil {
		t.Fatalf("deposit a0 failed: %v", err)
	}
	if v, _ := h.PeekIntReg(10); v != 5 {
		t.Fatalf("a0 = %d, want 5", v)
	}
}

func TestAmbiguousCommandPrefix(t *testing.T) {
	h := newTestHart(t)
	// "d" matches both "deposit" and "disassemble".
	if _, err := ProcessCommand("d", h); err == nil {
		t.Fatal("expected an error for an ambiguous command prefix")
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newTestHart(t)
	if _, err := ProcessCommand("frobnicate", h); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestQuitReturnsTrue(t *testing.T) {
	h := newTestHart(t)
	quit, err := ProcessCommand("quit", h)
	if err != nil || !quit {
		t.Fatalf("quit = %v, %v; want true, nil", quit, err)
	}
}
