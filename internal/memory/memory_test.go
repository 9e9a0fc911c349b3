/*
 * swerv-ISS - Memory access tests.
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

package memory

import "testing"

func TestReadWriteRoundTrip(t *testing.T) {
	m := New(0x1000)

	if !m.WriteByte(0x10, 0x42) {
		t.Fatal("WriteByte failed in bounds")
	}
	v, ok := m.ReadByte(0x10)
	if !ok || v != 0x42 {
		t.Fatalf("ReadByte = %v, %v; want 0x42, true", v, ok)
	}

	if !m.WriteWord(0x20, 0xDEADBEEF) {
		t.Fatal("WriteWord failed in bounds")
	}
	w, ok := m.ReadWord(0x20)
	if !ok || w != 0xDEADBEEF {
		t.Fatalf("ReadWord = 0x%x, %v; want 0xDEADBEEF, true", w, ok)
	}

	if !m.WriteDouble(0x30, 0x0102030405060708) {
		t.Fatal("WriteDouble failed in bounds")
	}
	d, ok := m.ReadDouble(0x30)
	if !ok || d != 0x0102030405060708 {
		t.Fatalf("ReadDouble = 0x%x, %v", d, ok)
	}
}

func TestOutOfBoundsFails(t *testing.T) {
	m := New(0x100)
	if _, ok := m.ReadByte(0x100); ok {
		t.Fatal("expected out-of-bounds ReadByte to fail")
	}
	if m.WriteWord(0xFE, 1) {
		t.Fatal("expected straddling out-of-bounds WriteWord to fail")
	}
}

func TestOverflowingAddressFails(t *testing.T) {
	m := New(0x100)
	if _, ok := m.ReadDouble(^uint64(0) - 2); ok {
		t.Fatal("expected address+width overflow to fail rather than wrap")
	}
}

func TestLoadBytes(t *testing.T) {
	m := New(0x100)
	data := []byte{1, 2, 3, 4}
	if !m.LoadBytes(0x10, data) {
		t.Fatal("LoadBytes failed in bounds")
	}
	for i, want := range data {
		v, ok := m.ReadByte(uint64(0x10 + i))
		if !ok || v != want {
			t.Fatalf("byte %d = %v, %v; want %v, true", i, v, ok, want)
		}
	}
}
