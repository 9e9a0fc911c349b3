/*
 * swerv-ISS - Disassembler tests.
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

package disassemble

import (
	"strings"
	"testing"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

func TestDisassembleAddi(t *testing.T) {
	inst := hart.Inst{Op: hart.OpAddi, Rd: 1, Rs1: 2, Imm: 5}
	got := Disassemble(inst)
	if !strings.HasPrefix(got, "addi\t") {
		t.Fatalf("Disassemble(addi) = %q", got)
	}
	if !strings.Contains(got, "ra") || !strings.Contains(got, "sp") {
		t.Fatalf("Disassemble(addi) = %q, want ABI names ra and sp", got)
	}
}

func TestDisassembleUnknownIsWordDirective(t *testing.T) {
	inst := hart.Inst{Op: hart.OpIllegal, Raw: 0xFFFFFFFF}
	got := Disassemble(inst)
	if !strings.HasPrefix(got, ".word") {
		t.Fatalf("Disassemble(illegal) = %q, want a .word directive", got)
	}
}

func TestDisassembleNoOperandForms(t *testing.T) {
	got := Disassemble(hart.Inst{Op: hart.OpEbreak})
	if got != "ebreak" {
		t.Fatalf("Disassemble(ebreak) = %q, want ebreak", got)
	}
}
