// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "github.com/beevik/mipsasm/isa"

type encodeFunc func(a *assembler, sl *sourceLine) (isa.Fields, error)

// Operand encoders for each instruction format. The operand tokens have
// already been checked against the format's operand count.
var encoders = map[isa.Format]encodeFunc{
	isa.R:        (*assembler).encodeR,
	isa.HiLo:     (*assembler).encodeHiLo,
	isa.MoveFrom: (*assembler).encodeMoveFrom,
	isa.I:        (*assembler).encodeI,
	isa.Branch:   (*assembler).encodeBranch,
	isa.Mem:      (*assembler).encodeMem,
	isa.J:        (*assembler).encodeJ,
	isa.Syscall:  (*assembler).encodeNone,
	isa.Nop:      (*assembler).encodeNone,
}

// Encode every instruction line into a word. Words are appended in source
// order, so each instruction lands at the address assigned to it while
// building the label table.
func (a *assembler) encodeInstructions() error {
	a.logSection("Encoding instructions")

	a.words = make([]uint32, 0, a.codeWords)
	for i := range a.lines {
		sl := &a.lines[i]
		if sl.kind != lineCode || sl.op.isEmpty() {
			continue
		}

		w, err := a.encodeInstruction(sl)
		if err != nil {
			return err
		}

		a.words = append(a.words, w)
		a.sourceLines = append(a.sourceLines, SourceLine{Address: sl.addr, Line: sl.text.row})
		a.logLine(sl.text, "%04d  %s", sl.addr, HexWord(w))
	}
	return nil
}

// Encode a single instruction line. An unrecognized mnemonic is reported
// and encoded as a nop, so that the address space stays dense.
func (a *assembler) encodeInstruction(sl *sourceLine) (uint32, error) {
	inst := a.instSet.Lookup(sl.op.str)
	if inst == nil {
		a.addWarning(sl.op, "bad instruction '%s' at address %d", sl.op.str, sl.addr)
		return 0, nil
	}

	if len(sl.args) != inst.Format.Operands() {
		return 0, a.operandCountError(sl, inst.Format.Operands())
	}

	f, err := encoders[inst.Format](a, sl)
	if err != nil {
		return 0, err
	}
	return inst.Encode(f), nil
}

// addu rd, rs, rt
func (a *assembler) encodeR(sl *sourceLine) (isa.Fields, error) {
	r, err := a.registers(sl.args...)
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Rd: r[0], Rs: r[1], Rt: r[2]}, nil
}

// mult rs, rt
func (a *assembler) encodeHiLo(sl *sourceLine) (isa.Fields, error) {
	r, err := a.registers(sl.args...)
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Rs: r[0], Rt: r[1]}, nil
}

// mfhi rd
func (a *assembler) encodeMoveFrom(sl *sourceLine) (isa.Fields, error) {
	rd, err := a.register(sl.args[0])
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Rd: rd}, nil
}

// addiu rt, rs, imm
func (a *assembler) encodeI(sl *sourceLine) (isa.Fields, error) {
	r, err := a.registers(sl.args[0], sl.args[1])
	if err != nil {
		return isa.Fields{}, err
	}
	imm, err := a.immediate(sl.args[2])
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Rt: r[0], Rs: r[1], Imm: imm}, nil
}

// beq rs, rt, label
func (a *assembler) encodeBranch(sl *sourceLine) (isa.Fields, error) {
	r, err := a.registers(sl.args[0], sl.args[1])
	if err != nil {
		return isa.Fields{}, err
	}
	off, err := a.branchOffset(sl.addr, sl.args[2])
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Rs: r[0], Rt: r[1], Imm: off}, nil
}

// lw rt, offset(rs)
func (a *assembler) encodeMem(sl *sourceLine) (isa.Fields, error) {
	r, err := a.registers(sl.args[0], sl.args[2])
	if err != nil {
		return isa.Fields{}, err
	}
	off, err := a.memOffset(sl.args[1])
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Rt: r[0], Rs: r[1], Imm: off}, nil
}

// j label
func (a *assembler) encodeJ(sl *sourceLine) (isa.Fields, error) {
	target, err := a.jumpTarget(sl.args[0])
	if err != nil {
		return isa.Fields{}, err
	}
	return isa.Fields{Target: target}, nil
}

func (a *assembler) encodeNone(sl *sourceLine) (isa.Fields, error) {
	return isa.Fields{}, nil
}

func (a *assembler) operandCountError(sl *sourceLine, n int) error {
	switch {
	case len(sl.args) < n:
		a.addError(sl.op, "missing operand for '%s' (expected %d, got %d)", sl.op.str, n, len(sl.args))
	default:
		a.addError(sl.args[n], "unexpected operand '%s'", sl.args[n].str)
	}
	return errParse
}
