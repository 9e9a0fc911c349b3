/*
 * swerv-ISS - Hex memory-image loader.
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

// Package loader populates a hart's memory from a hex text image or an
// ELF binary before the run loop starts.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

// LoadHex reads the simple text hex-image format: a line beginning
// with '@' sets the load address for subsequent bytes (hex, no
// leading 0x); every other non-blank, non-comment line is a run of
// whitespace-separated two-hex-digit bytes loaded consecutively.
// Lines starting with '#' are comments. Malformed lines fail the
// load, leaving memory partially written -- callers should treat any
// error as fatal to the load rather than try to recover mid-image.
func LoadHex(h *hart.Hart, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var addr uint64
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "@") {
			v, err := strconv.ParseUint(strings.TrimSpace(line[1:]), 16, 64)
			if err != nil {
				return fmt.Errorf("hex image line %d: bad address %q: %w", lineNo, line, err)
			}
			addr = v
			continue
		}

		for _, tok := range strings.Fields(line) {
			b, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return fmt.Errorf("hex image line %d: bad byte %q: %w", lineNo, tok, err)
			}
			if !h.Memory().WriteByte(addr, uint8(b)) {
				return fmt.Errorf("hex image line %d: address 0x%x out of range", lineNo, addr)
			}
			addr++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("hex image: %w", err)
	}
	return nil
}
