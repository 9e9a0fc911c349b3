/*
 * swerv-ISS - ELF memory-image loader.
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
	"debug/elf"
	"fmt"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

// ElfImage reports the addresses an ELF load resolved, for the driver
// to seed the hart's PC and optional tohost stop condition.
type ElfImage struct {
	Entry        uint64
	HighestAddr  uint64
	ToHostAddr   uint64
	ToHostFound  bool
}

// LoadElf loads every PT_LOAD segment of an ELF binary into the
// hart's memory and reports its entry point. If the binary carries a
// "tohost" symbol (the convention used by the riscv-tests suite),
// its address is also reported.
func LoadElf(h *hart.Hart, path string) (ElfImage, error) {
	f, err := elf.Open(path)
	if err != nil {
		return ElfImage{}, fmt.Errorf("elf image %s: %w", path, err)
	}
	defer f.Close()

	switch f.Class {
	case elf.ELFCLASS32, elf.ELFCLASS64:
	default:
		return ElfImage{}, fmt.Errorf("elf image %s: unsupported class %v", path, f.Class)
	}
	if f.Machine != elf.EM_RISCV {
		return ElfImage{}, fmt.Errorf("elf image %s: not a RISC-V binary (machine %v)", path, f.Machine)
	}

	img := ElfImage{Entry: f.Entry}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return ElfImage{}, fmt.Errorf("elf image %s: reading segment at 0x%x: %w", path, prog.Vaddr, err)
		}
		if !h.Memory().LoadBytes(prog.Vaddr, data) {
			return ElfImage{}, fmt.Errorf("elf image %s: segment at 0x%x exceeds memory", path, prog.Vaddr)
		}
		top := prog.Vaddr + prog.Memsz
		if top > img.HighestAddr {
			img.HighestAddr = top
		}
	}

	symbols, err := f.Symbols()
	if err == nil {
		for _, sym := range symbols {
			if sym.Name == "tohost" {
				img.ToHostAddr = sym.Value
				img.ToHostFound = true
				break
			}
		}
	}

	return img, nil
}
