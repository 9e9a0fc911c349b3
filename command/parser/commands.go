/*
 * swerv-ISS - Command executer.
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
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/issuehsu/swerv-ISS/internal/disassemble"
	"github.com/issuehsu/swerv-ISS/internal/hart"
)

func parseAddr(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}

func cmdStep(args []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Step")
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("step count must be a number: %w", err)
		}
		count = n
	}
	for i := 0; i < count; i++ {
		reason := h.Step()
		fmt.Printf("pc=0x%x\n", h.PC())
		if reason != hart.StopNone {
			fmt.Println(reason)
			break
		}
	}
	return false, nil
}

func cmdContinue(args []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Continue")
	reason := h.Run(nil)
	fmt.Printf("stopped: %s at pc=0x%x\n", reason, h.PC())
	return false, nil
}

func cmdExamine(args []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Examine")
	if len(args) < 1 {
		return false, errors.New("examine requires a register, csr, or address")
	}
	name := args[0]

	if name == "pc" {
		fmt.Printf("pc = 0x%x\n", h.PeekPC())
		return false, nil
	}
	if num, ok := h.FindIntReg(name); ok {
		v, _ := h.PeekIntReg(num)
		fmt.Printf("%s = 0x%x\n", name, v)
		return false, nil
	}
	if num, ok := h.FindCsr(name); ok {
		v, _ := h.PeekCsr(num)
		fmt.Printf("%s = 0x%x\n", name, v)
		return false, nil
	}
	addr, err := parseAddr(name)
	if err != nil {
		return false, fmt.Errorf("unknown register/csr/address: %s", name)
	}
	v, ok := h.PeekMemory32(addr)
	if !ok {
		return false, fmt.Errorf("address 0x%x out of range", addr)
	}
	fmt.Printf("0x%x: 0x%08x\n", addr, v)
	return false, nil
}

func cmdDeposit(args []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Deposit")
	if len(args) < 2 {
		return false, errors.New("deposit requires a target and a value")
	}
	name := args[0]
	value, err := parseAddr(args[1])
	if err != nil {
		return false, fmt.Errorf("bad value %q: %w", args[1], err)
	}

	if name == "pc" {
		h.PokePC(value)
		return false, nil
	}
	if num, ok := h.FindIntReg(name); ok {
		h.PokeIntReg(num, value)
		return false, nil
	}
	if num, ok := h.FindCsr(name); ok {
		h.PokeCsr(num, value)
		return false, nil
	}
	addr, err := parseAddr(name)
	if err != nil {
		return false, fmt.Errorf("unknown register/csr/address: %s", name)
	}
	if !h.PokeMemory32(addr, uint32(value)) {
		return false, fmt.Errorf("address 0x%x out of range", addr)
	}
	return false, nil
}

func cmdRegs(_ []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Regs")
	fmt.Printf("pc = 0x%x  priv = %s\n", h.PeekPC(), h.Privilege())
	for i := uint(0); i < 32; i++ {
		v, _ := h.PeekIntReg(i)
		fmt.Printf("x%-2d = 0x%016x  ", i, v)
		if i%4 == 3 {
			fmt.Println()
		}
	}
	return false, nil
}

func cmdBreak(args []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Break")
	if len(args) < 1 {
		return false, errors.New("break requires an address")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return false, fmt.Errorf("bad address %q: %w", args[0], err)
	}
	h.SetStopAddress(addr)
	return false, nil
}

func cmdUnbreak(_ []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Unbreak")
	h.ClearStopAddress()
	return false, nil
}

func cmdQuit(_ []string, _ *hart.Hart) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}

func cmdDisassemble(args []string, h *hart.Hart) (bool, error) {
	slog.Debug("Command Disassemble")
	addr := h.PC()
	if len(args) > 0 {
		a, err := parseAddr(args[0])
		if err != nil {
			return false, fmt.Errorf("bad address %q: %w", args[0], err)
		}
		addr = a
	}
	inst, ok := h.PeekInstruction(addr)
	if !ok {
		return false, fmt.Errorf("address 0x%x out of range", addr)
	}
	fmt.Printf("0x%x: %s\n", addr, disassemble.Disassemble(inst))
	return false, nil
}
