// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa describes the subset of the MIPS32 instruction set understood
// by the assembler and disassembler: opcode variants, their bit layouts and
// the register names.
package isa

import "strings"

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADDU opsym = iota
	symAND
	symOR
	symSLT
	symSUBU
	symMULT
	symDIV
	symMFHI
	symMFLO
	symADDIU
	symBEQ
	symBNE
	symLW
	symSW
	symJ
	symSYSCALL
	symNOP
)

// Format describes the bit layout and operand roles of an instruction.
type Format byte

// All supported instruction formats
const (
	R        Format = iota // rd, rs, rt
	HiLo                   // rs, rt (multiply/divide into hi/lo)
	MoveFrom               // rd (move from hi/lo)
	I                      // rt, rs, immediate
	Branch                 // rs, rt, label
	Mem                    // rt, offset(rs)
	J                      // label
	Syscall                // no operands
	Nop                    // no operands
)

var formatName = []string{
	"R",
	"HILO",
	"MF",
	"I",
	"BR",
	"MEM",
	"J",
	"SYS",
	"NOP",
}

var formatOperands = []int{
	3, // R
	2, // HiLo
	1, // MoveFrom
	3, // I
	3, // Branch
	3, // Mem
	1, // J
	0, // Syscall
	0, // Nop
}

func (f Format) String() string {
	return formatName[f]
}

// Operands returns the number of source tokens that follow the mnemonic
// of an instruction with this format.
func (f Format) Operands() int {
	return formatOperands[f]
}

// Bit positions and field masks of a 32-bit instruction word.
const (
	OpcodeShift = 26
	RsShift     = 21
	RtShift     = 16
	RdShift     = 11
	ShamtShift  = 6

	OpcodeMask = 1<<6 - 1
	RegMask    = 1<<5 - 1
	FunctMask  = 1<<6 - 1
	ImmMask    = 1<<16 - 1
	TargetMask = 1<<26 - 1
)

// Opcode data for each supported mnemonic
type opcodeData struct {
	sym    opsym
	name   string
	format Format
	opcode uint32
	funct  uint32
}

var data = []opcodeData{
	{symADDU, "addu", R, 0x00, 0x21},
	{symAND, "and", R, 0x00, 0x24},
	{symOR, "or", R, 0x00, 0x25},
	{symSLT, "slt", R, 0x00, 0x2a},
	{symSUBU, "subu", R, 0x00, 0x23},
	{symMULT, "mult", HiLo, 0x00, 0x18},
	{symDIV, "div", HiLo, 0x00, 0x1a},
	{symMFHI, "mfhi", MoveFrom, 0x00, 0x10},
	{symMFLO, "mflo", MoveFrom, 0x00, 0x12},
	{symADDIU, "addiu", I, 0x09, 0x00},
	{symBEQ, "beq", Branch, 0x04, 0x00},
	{symBNE, "bne", Branch, 0x05, 0x00},
	{symLW, "lw", Mem, 0x23, 0x00},
	{symSW, "sw", Mem, 0x2b, 0x00},
	{symJ, "j", J, 0x02, 0x00},
	{symSYSCALL, "syscall", Syscall, 0x00, 0x0c},
	{symNOP, "nop", Nop, 0x00, 0x00},
}

// An Instruction describes a single opcode variant: its mnemonic, its bit
// layout, and the fixed opcode and function field values.
type Instruction struct {
	Name   string // lower-case mnemonic
	Format Format // bit layout and operand roles
	Opcode uint32 // 6-bit primary opcode
	Funct  uint32 // 6-bit function field (opcode 0 only)
	sym    opsym
}

// Fields holds the variable fields of an instruction word. Imm holds the
// raw 16-bit pattern; use SignedImm to interpret it.
type Fields struct {
	Rs     uint32
	Rt     uint32
	Rd     uint32
	Shamt  uint32
	Imm    uint32
	Target uint32
}

// SignedImm returns the immediate field interpreted as a 16-bit two's
// complement value.
func (f Fields) SignedImm() int {
	return int(int16(uint16(f.Imm)))
}

// Encode assembles the instruction's fixed fields and the operand fields
// into a 32-bit word. Operand fields are truncated to their widths.
func (inst *Instruction) Encode(f Fields) uint32 {
	w := (inst.Opcode & OpcodeMask) << OpcodeShift
	switch inst.Format {
	case J:
		w |= f.Target & TargetMask
	case I, Branch, Mem:
		w |= (f.Rs & RegMask) << RsShift
		w |= (f.Rt & RegMask) << RtShift
		w |= f.Imm & ImmMask
	default:
		w |= (f.Rs & RegMask) << RsShift
		w |= (f.Rt & RegMask) << RtShift
		w |= (f.Rd & RegMask) << RdShift
		w |= (f.Shamt & RegMask) << ShamtShift
		w |= inst.Funct & FunctMask
	}
	return w
}

// An InstructionSet defines the set of all supported instructions.
type InstructionSet struct {
	instructions []Instruction
	byName       map[string]*Instruction
	byOpcode     map[uint32]*Instruction // primary opcode != 0
	byFunct      map[uint32]*Instruction // primary opcode == 0
	nop          *Instruction
}

// Lookup retrieves the instruction with the requested mnemonic. It
// returns nil if the mnemonic is not supported.
func (s *InstructionSet) Lookup(name string) *Instruction {
	return s.byName[strings.ToLower(name)]
}

// Instructions returns all supported instructions in table order.
func (s *InstructionSet) Instructions() []*Instruction {
	l := make([]*Instruction, len(s.instructions))
	for i := range s.instructions {
		l[i] = &s.instructions[i]
	}
	return l
}

// Decode splits a word into its instruction and operand fields. If the
// word matches no supported instruction, the returned instruction is nil.
func (s *InstructionSet) Decode(w uint32) (*Instruction, Fields) {
	if w == 0 {
		return s.nop, Fields{}
	}

	var inst *Instruction
	opcode := (w >> OpcodeShift) & OpcodeMask
	if opcode == 0 {
		inst = s.byFunct[w&FunctMask]
	} else {
		inst = s.byOpcode[opcode]
	}
	if inst == nil {
		return nil, Fields{}
	}

	var f Fields
	switch inst.Format {
	case J:
		f.Target = w & TargetMask
	case I, Branch, Mem:
		f.Rs = (w >> RsShift) & RegMask
		f.Rt = (w >> RtShift) & RegMask
		f.Imm = w & ImmMask
	default:
		f.Rs = (w >> RsShift) & RegMask
		f.Rt = (w >> RtShift) & RegMask
		f.Rd = (w >> RdShift) & RegMask
		f.Shamt = (w >> ShamtShift) & RegMask
	}
	return inst, f
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		instructions: make([]Instruction, len(data)),
		byName:       make(map[string]*Instruction, len(data)),
		byOpcode:     make(map[uint32]*Instruction),
		byFunct:      make(map[uint32]*Instruction),
	}

	for i, d := range data {
		inst := &set.instructions[i]
		inst.Name = d.name
		inst.Format = d.format
		inst.Opcode = d.opcode
		inst.Funct = d.funct
		inst.sym = d.sym

		set.byName[inst.Name] = inst
		switch {
		case d.sym == symNOP:
			set.nop = inst
		case d.opcode == 0:
			if _, dup := set.byFunct[d.funct]; dup {
				panic("duplicate function code")
			}
			set.byFunct[d.funct] = inst
		default:
			if _, dup := set.byOpcode[d.opcode]; dup {
				panic("duplicate opcode")
			}
			set.byOpcode[d.opcode] = inst
		}
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the supported instruction set. The set is
// immutable and safe for concurrent use.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
