/*
 * swerv-ISS - Hex loader tests.
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

package loader

import (
	"strings"
	"testing"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

func TestLoadHexBasic(t *testing.T) {
	h := hart.NewHart(hart.Config{Xlen: 64, MemBytes: 0x100})
	image := "# comment\n@10\n01 02 03 04\n@20\nAB CD\n"

	if err := LoadHex(h, strings.NewReader(image)); err != nil {
		t.Fatalf("LoadHex failed: %v", err)
	}

	for i, want := range []byte{0x01, 0x02, 0x03, 0x04} {
		v, ok := h.PeekMemory8(uint64(0x10 + i))
		if !ok || v != want {
			t.Fatalf("byte at 0x%x = %v, %v; want %v, true", 0x10+i, v, ok, want)
		}
	}
	v, _ := h.PeekMemory8(0x20)
	if v != 0xAB {
		t.Fatalf("byte at 0x20 = 0x%x, want 0xAB", v)
	}
}

func TestLoadHexBadByte(t *testing.T) {
	h := hart.NewHart(hart.Config{Xlen: 64, MemBytes: 0x100})
	if err := LoadHex(h, strings.NewReader("@0\nzz\n")); err == nil {
		t.Fatal("expected an error for a malformed byte token")
	}
}

func TestLoadHexOutOfRange(t *testing.T) {
	h := hart.NewHart(hart.Config{Xlen: 64, MemBytes: 0x10})
	if err := LoadHex(h, strings.NewReader("@100\n01\n")); err == nil {
		t.Fatal("expected an error for an out-of-range address")
	}
}
