/*
 * swerv-ISS - ELF loader tests.
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
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

func TestLoadElfMissingFile(t *testing.T) {
	h := hart.NewHart(hart.Config{Xlen: 64, MemBytes: 0x1000})
	if _, err := LoadElf(h, "/nonexistent/path/to/image.elf"); err == nil {
		t.Fatal("expected an error loading a nonexistent ELF file")
	}
}

func TestLoadElfPositivePath(t *testing.T) {
	text := []byte{0x13, 0x00, 0x00, 0x00, 0x13, 0x00, 0x00, 0x00} // two addi x0,x0,0
	path := buildMinimalElf(t, 0x1000, 0x1000, text, 0x2000)

	h := hart.NewHart(hart.Config{Xlen: 64, MemBytes: 0x4000})
	img, err := LoadElf(h, path)
	if err != nil {
		t.Fatalf("LoadElf failed: %v", err)
	}
	if img.Entry != 0x1000 {
		t.Fatalf("Entry = 0x%x, want 0x1000", img.Entry)
	}
	if want := 0x1000 + uint64(len(text)); img.HighestAddr != want {
		t.Fatalf("HighestAddr = 0x%x, want 0x%x", img.HighestAddr, want)
	}
	if !img.ToHostFound || img.ToHostAddr != 0x2000 {
		t.Fatalf("tohost = (0x%x, found=%v), want (0x2000, true)", img.ToHostAddr, img.ToHostFound)
	}
	for i, want := range text {
		v, ok := h.PeekMemory8(0x1000 + uint64(i))
		if !ok || v != want {
			t.Fatalf("byte at 0x%x = (0x%x, %v), want 0x%x", 0x1000+i, v, ok, want)
		}
	}
}

// buildMinimalElf hand-assembles a tiny ELFCLASS64/EM_RISCV image with
// one PT_LOAD segment and a "tohost" symbol. There is no RISC-V
// toolchain available in this environment to produce a real one, so
// the layout is built directly against the Elf64_Ehdr/Phdr/Shdr/Sym
// wire format debug/elf parses.
func buildMinimalElf(t *testing.T, entry, vaddr uint64, text []byte, tohostAddr uint64) string {
	t.Helper()

	const (
		ehdrSize = 64
		phdrSize = 56
		shdrSize = 64
		symSize  = 24
	)

	textOff := uint64(ehdrSize + phdrSize)

	strtabData := append([]byte{0}, []byte("tohost\x00")...)

	symtabData := make([]byte, 2*symSize) // index 0: null symbol
	binary.LittleEndian.PutUint32(symtabData[symSize:], 1)         // st_name -> "tohost"
	symtabData[symSize+4] = 0x10                                   // st_info: GLOBAL/NOTYPE
	binary.LittleEndian.PutUint16(symtabData[symSize+6:], 1)       // st_shndx: .text
	binary.LittleEndian.PutUint64(symtabData[symSize+8:], tohostAddr)
	binary.LittleEndian.PutUint64(symtabData[symSize+16:], 8) // st_size

	symtabOff := textOff + uint64(len(text))
	strtabOff := symtabOff + uint64(len(symtabData))
	shoff := strtabOff + uint64(len(strtabData))

	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }

	ident := [16]byte{0x7f, 'E', 'L', 'F', 2, 1, 1}
	buf.Write(ident[:])
	w(uint16(elf.ET_EXEC))
	w(uint16(elf.EM_RISCV))
	w(uint32(elf.EV_CURRENT))
	w(entry)
	w(uint64(ehdrSize)) // phoff
	w(shoff)
	w(uint32(0)) // flags
	w(uint16(ehdrSize))
	w(uint16(phdrSize))
	w(uint16(1)) // phnum
	w(uint16(shdrSize))
	w(uint16(4)) // shnum: null, .text, .symtab, .strtab
	w(uint16(0)) // shstrndx: none

	w(uint32(elf.PT_LOAD))
	w(uint32(elf.PF_R | elf.PF_X))
	w(textOff)
	w(vaddr)
	w(vaddr) // paddr
	w(uint64(len(text)))
	w(uint64(len(text)))
	w(uint64(4)) // align

	buf.Write(text)
	buf.Write(symtabData)
	buf.Write(strtabData)

	writeShdr := func(typ elf.SectionType, flags elf.SectionFlag, addr, off, size uint64, link, info uint32, align, entsize uint64) {
		w(uint32(0)) // sh_name (unused; shstrndx is 0)
		w(uint32(typ))
		w(uint64(flags))
		w(addr)
		w(off)
		w(size)
		w(link)
		w(info)
		w(align)
		w(entsize)
	}

	writeShdr(elf.SHT_NULL, 0, 0, 0, 0, 0, 0, 0, 0)
	writeShdr(elf.SHT_PROGBITS, elf.SHF_ALLOC|elf.SHF_EXECINSTR, vaddr, textOff, uint64(len(text)), 0, 0, 4, 0)
	writeShdr(elf.SHT_SYMTAB, 0, 0, symtabOff, uint64(len(symtabData)), 3, 1, 8, symSize)
	writeShdr(elf.SHT_STRTAB, 0, 0, strtabOff, uint64(len(strtabData)), 0, 0, 1, 0)

	path := filepath.Join(t.TempDir(), "image.elf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing test elf image: %v", err)
	}
	return path
}
