/*
 * swerv-ISS - Flat little-endian guest memory.
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

// Package memory models the flat byte-addressable guest memory owned by
// a Hart. It never rejects a misaligned access on its own -- alignment
// policy belongs to the load/store opcode handlers, which need to raise
// the architectural misalignment exception with the faulting address,
// not a generic memory error.
package memory

import "encoding/binary"

// Memory is a flat, little-endian byte array addressed from 0 to
// Size()-1. It is exclusively owned by the Hart that created it.
type Memory struct {
	bytes []byte
}

// New allocates a zeroed memory image of the given size in bytes.
func New(size uint64) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the number of addressable bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.bytes))
}

func (m *Memory) inBounds(addr uint64, width uint64) bool {
	if addr+width < addr {
		return false // overflow
	}
	return addr+width <= m.Size()
}

// ReadByte reads one byte at addr. ok is false on out-of-range access.
func (m *Memory) ReadByte(addr uint64) (value uint8, ok bool) {
	if !m.inBounds(addr, 1) {
		return 0, false
	}
	return m.bytes[addr], true
}

// ReadHalf reads a 16-bit little-endian half-word at addr.
func (m *Memory) ReadHalf(addr uint64) (value uint16, ok bool) {
	if !m.inBounds(addr, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(m.bytes[addr : addr+2]), true
}

// ReadWord reads a 32-bit little-endian word at addr.
func (m *Memory) ReadWord(addr uint64) (value uint32, ok bool) {
	if !m.inBounds(addr, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.bytes[addr : addr+4]), true
}

// ReadDouble reads a 64-bit little-endian double-word at addr.
func (m *Memory) ReadDouble(addr uint64) (value uint64, ok bool) {
	if !m.inBounds(addr, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.bytes[addr : addr+8]), true
}

// WriteByte stores one byte at addr.
func (m *Memory) WriteByte(addr uint64, value uint8) bool {
	if !m.inBounds(addr, 1) {
		return false
	}
	m.bytes[addr] = value
	return true
}

// WriteHalf stores a 16-bit little-endian half-word at addr.
func (m *Memory) WriteHalf(addr uint64, value uint16) bool {
	if !m.inBounds(addr, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(m.bytes[addr:addr+2], value)
	return true
}

// WriteWord stores a 32-bit little-endian word at addr.
func (m *Memory) WriteWord(addr uint64, value uint32) bool {
	if !m.inBounds(addr, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.bytes[addr:addr+4], value)
	return true
}

// WriteDouble stores a 64-bit little-endian double-word at addr.
func (m *Memory) WriteDouble(addr uint64, value uint64) bool {
	if !m.inBounds(addr, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.bytes[addr:addr+8], value)
	return true
}

// LoadBytes copies data into memory starting at addr, for use by the
// hex and ELF loaders. Returns false if the range does not fit.
func (m *Memory) LoadBytes(addr uint64, data []byte) bool {
	if !m.inBounds(addr, uint64(len(data))) {
		return false
	}
	copy(m.bytes[addr:], data)
	return true
}
