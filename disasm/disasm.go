// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the MIPS32 instruction
// subset supported by the assembler.
package disasm

import (
	"fmt"

	"github.com/beevik/mipsasm/isa"
)

// Disassembler formatting for instruction formats
var formatters = map[isa.Format]func(inst *isa.Instruction, f isa.Fields, addr int) string{
	isa.R: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		return fmt.Sprintf("%s %s, %s, %s", inst.Name, reg(f.Rd), reg(f.Rs), reg(f.Rt))
	},
	isa.HiLo: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		return fmt.Sprintf("%s %s, %s", inst.Name, reg(f.Rs), reg(f.Rt))
	},
	isa.MoveFrom: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		return fmt.Sprintf("%s %s", inst.Name, reg(f.Rd))
	},
	isa.I: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		return fmt.Sprintf("%s %s, %s, %d", inst.Name, reg(f.Rt), reg(f.Rs), f.SignedImm())
	},
	isa.Branch: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		// Convert the relative displacement to an absolute address.
		return fmt.Sprintf("%s %s, %s, %d", inst.Name, reg(f.Rs), reg(f.Rt), addr+1+f.SignedImm())
	},
	isa.Mem: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		return fmt.Sprintf("%s %s, %d(%s)", inst.Name, reg(f.Rt), f.SignedImm(), reg(f.Rs))
	},
	isa.J: func(inst *isa.Instruction, f isa.Fields, addr int) string {
		return fmt.Sprintf("%s %d", inst.Name, f.Target)
	},
}

func reg(n uint32) string {
	return isa.RegisterName(n)
}

// Disassemble the word at address 'addr' in 'words'. Return a 'line'
// string representing the disassembled instruction and a 'next' address
// that starts the following line of machine code. A word that matches no
// supported instruction is shown as a .word directive.
func Disassemble(words []uint32, addr int) (line string, next int) {
	w := words[addr]
	next = addr + 1

	inst, f := isa.GetInstructionSet().Decode(w)
	if inst == nil {
		return Data(w), next
	}

	format, ok := formatters[inst.Format]
	if !ok {
		return inst.Name, next
	}
	return format(inst, f, addr), next
}

// Data returns a word formatted as a .word directive.
func Data(w uint32) string {
	return fmt.Sprintf(".word 0x%08x", w)
}
