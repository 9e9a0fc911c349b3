/*
 * swerv-ISS - Command parser.
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

// Package parser implements the debug console's command language: a
// short table of verbs matched by unique-prefix, each operating on a
// hart through its peek/poke interface.
package parser

import (
	"errors"
	"strings"

	"github.com/issuehsu/swerv-ISS/internal/hart"
)

type cmd struct {
	Name    string
	Min     int
	Process func(args []string, h *hart.Hart) (bool, error)
}

var cmdList = []cmd{
	{Name: "step", Min: 1, Process: cmdStep},
	{Name: "continue", Min: 1, Process: cmdContinue},
	{Name: "examine", Min: 1, Process: cmdExamine},
	{Name: "deposit", Min: 1, Process: cmdDeposit},
	{Name: "regs", Min: 1, Process: cmdRegs},
	{Name: "disassemble", Min: 1, Process: cmdDisassemble},
	{Name: "break", Min: 3, Process: cmdBreak},
	{Name: "unbreak", Min: 3, Process: cmdUnbreak},
	{Name: "quit", Min: 1, Process: cmdQuit},
}

// ProcessCommand executes one command line against h. It returns
// quit=true when the console loop should exit.
func ProcessCommand(commandLine string, h *hart.Hart) (bool, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	matches := matchList(name)
	if len(matches) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(matches) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return matches[0].Process(args, h)
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.Name) {
		return false
	}
	return c.Name[:len(name)] == name && len(name) >= c.Min
}

func matchList(name string) []cmd {
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

// CompleteCmd returns the command names that could complete the
// partially typed line, for liner's tab-completion hook.
func CompleteCmd(line string) []string {
	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.Name, strings.ToLower(line)) {
			out = append(out, c.Name)
		}
	}
	return out
}
