/*
 * swerv-ISS - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	reader "github.com/issuehsu/swerv-ISS/command/reader"
	"github.com/issuehsu/swerv-ISS/internal/disassemble"
	"github.com/issuehsu/swerv-ISS/internal/hart"
	"github.com/issuehsu/swerv-ISS/internal/loader"
	logger "github.com/issuehsu/swerv-ISS/util/logger"
)

func init() {
	hart.DisassembleFunc = disassemble.Disassemble
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}

func main() {
	optXlen := getopt.IntLong("xlen", 'x', 64, "Register width: 32 or 64")
	optMem := getopt.StringLong("mem", 'm', "0x10000", "Memory size in bytes (hex or decimal)")
	optHex := getopt.StringLong("hex", 0, "", "Load a hex text image")
	optElf := getopt.StringLong("elf", 0, "", "Load an ELF image")
	optStop := getopt.StringLong("stop", 0, "", "Stop address")
	optToHost := getopt.StringLong("tohost", 0, "", "tohost address (overrides the ELF symbol if given)")
	optTrace := getopt.BoolLong("trace", 't', "Trace every retired instruction to the log")
	optInteractive := getopt.BoolLong("interactive", 'i', "Drop into the debug console instead of free-running")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("swerv-ISS started")

	memSize, err := parseUint(*optMem)
	if err != nil {
		Logger.Error("bad -mem value: " + err.Error())
		os.Exit(1)
	}

	h := hart.NewHart(hart.Config{Xlen: *optXlen, HartID: 0, MemBytes: memSize, Log: Logger})

	var entry uint64
	var toHostAddr uint64
	var toHostFound bool

	switch {
	case *optElf != "":
		img, err := loader.LoadElf(h, *optElf)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		entry = img.Entry
		toHostAddr, toHostFound = img.ToHostAddr, img.ToHostFound
	case *optHex != "":
		f, err := os.Open(*optHex)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		err = loader.LoadHex(h, f)
		f.Close()
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	default:
		Logger.Error("specify -hex or -elf to load a memory image")
		os.Exit(1)
	}

	h.Initialize(entry)

	if *optStop != "" {
		addr, err := parseUint(*optStop)
		if err != nil {
			Logger.Error("bad -stop value: " + err.Error())
			os.Exit(1)
		}
		h.SetStopAddress(addr)
	}

	if *optToHost != "" {
		addr, err := parseUint(*optToHost)
		if err != nil {
			Logger.Error("bad -tohost value: " + err.Error())
			os.Exit(1)
		}
		h.SetToHostAddress(addr)
	} else if toHostFound {
		h.SetToHostAddress(toHostAddr)
	}

	if *optTrace {
		h.SetTraceSink(hart.TraceFunc(func(rec hart.TraceRecord) {
			switch rec.Tag {
			case hart.TagTrap:
				Logger.Debug(fmt.Sprintf("trap cause=%d pc=0x%x interrupt=%v", rec.TrapCause, rec.CurrPc, rec.Interrupt))
			case hart.TagIntReg:
				Logger.Debug(fmt.Sprintf("pc=0x%x %s x%d=0x%x", rec.CurrPc, rec.Disasm, rec.RegNum, rec.RegValue))
			case hart.TagCsr:
				Logger.Debug(fmt.Sprintf("pc=0x%x %s csr(0x%x)=0x%x", rec.CurrPc, rec.Disasm, rec.CsrNum, rec.RegValue))
			case hart.TagStore:
				Logger.Debug(fmt.Sprintf("pc=0x%x %s mem[0x%x]<-0x%x (%d bytes)", rec.CurrPc, rec.Disasm, rec.StoreAddr, rec.StoreValue, rec.StoreWidth))
			default:
				Logger.Debug(fmt.Sprintf("pc=0x%x %s", rec.CurrPc, rec.Disasm))
			}
		}))
	}

	if *optInteractive {
		reader.ConsoleReader(h)
		Logger.Info("console exited")
		return
	}

	var stopping atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGUSR2)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGTERM:
				stopping.Store(true)
			case syscall.SIGUSR2:
				h.SetExternalInterrupt(true)
			}
		}
	}()

	reason := h.Run(func() bool { return stopping.Load() })
	Logger.Info(strings.Join([]string{"stopped:", reason.String()}, " "))
	fmt.Printf("stopped: %s  pc=0x%x  retired=%d  cycles=%d\n",
		reason, h.PC(), h.RetiredInsts(), h.CycleCount())
}
