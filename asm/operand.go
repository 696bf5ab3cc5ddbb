// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"

	"github.com/beevik/mipsasm/isa"
)

var errUnresolvedLabel = errors.New("unresolved label")

// Resolve a jump operand to a 26-bit target field. The operand is either a
// label or an integer word address.
func (t LabelTable) jumpTarget(s string) (uint32, error) {
	if l, ok := t[s]; ok {
		return uint32(l.Addr) & isa.TargetMask, nil
	}
	if isNumber(s) {
		v, err := parseInt(s)
		if err != nil {
			return 0, err
		}
		return uint32(v) & isa.TargetMask, nil
	}
	return 0, fmt.Errorf("%w '%s'", errUnresolvedLabel, s)
}

// Resolve a branch operand to a 16-bit displacement relative to the
// instruction following pc. An integer operand is taken as the
// displacement itself.
func (t LabelTable) branchOffset(pc int, s string) (uint32, error) {
	if l, ok := t[s]; ok {
		return uint32(l.Addr-(pc+1)) & isa.ImmMask, nil
	}
	if isNumber(s) {
		v, err := parseInt(s)
		if err != nil {
			return 0, err
		}
		return uint32(v) & isa.ImmMask, nil
	}
	return 0, fmt.Errorf("%w '%s'", errUnresolvedLabel, s)
}

// Resolve a load/store offset to a 16-bit field. A label resolves to its
// distance from the start of the data segment; anything else must be an
// integer literal.
func (t LabelTable) memOffset(s string) (uint32, error) {
	if l, ok := t[s]; ok {
		base := t.DataStart()
		if base < 0 {
			base = 0
		}
		return uint32(l.Addr-base) & isa.ImmMask, nil
	}
	if !isNumber(s) {
		return 0, fmt.Errorf("%w '%s'", errUnresolvedLabel, s)
	}
	v, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	return uint32(v) & isa.ImmMask, nil
}

func (a *assembler) register(tok fstring) (uint32, error) {
	r, err := isa.Register(tok.str)
	if err != nil {
		a.addError(tok, "%v", err)
		return 0, errParse
	}
	return r, nil
}

func (a *assembler) registers(toks ...fstring) ([]uint32, error) {
	regs := make([]uint32, len(toks))
	for i, tok := range toks {
		r, err := a.register(tok)
		if err != nil {
			return nil, err
		}
		regs[i] = r
	}
	return regs, nil
}

func (a *assembler) immediate(tok fstring) (uint32, error) {
	v, err := parseInt(tok.str)
	if err != nil {
		a.addError(tok, "%v", err)
		return 0, errParse
	}
	return uint32(v) & isa.ImmMask, nil
}

func (a *assembler) jumpTarget(tok fstring) (uint32, error) {
	v, err := a.labels.jumpTarget(tok.str)
	if err != nil {
		a.addError(tok, "%v", err)
		return 0, errParse
	}
	return v, nil
}

func (a *assembler) branchOffset(pc int, tok fstring) (uint32, error) {
	v, err := a.labels.branchOffset(pc, tok.str)
	if err != nil {
		a.addError(tok, "%v", err)
		return 0, errParse
	}
	return v, nil
}

func (a *assembler) memOffset(tok fstring) (uint32, error) {
	v, err := a.labels.memOffset(tok.str)
	if err != nil {
		a.addError(tok, "%v", err)
		return 0, errParse
	}
	return v, nil
}
