// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import (
	"errors"
	"fmt"
)

// ErrInvalidRegister is returned when a register mnemonic is not recognized.
var ErrInvalidRegister = errors.New("invalid register")

type registerData struct {
	name   string
	number uint32
}

// The register table. Where two names share a number, the first one listed
// is used by RegisterName.
var registerTable = []registerData{
	{"$zero", 0},
	{"$at", 1},
	{"$v0", 2},
	{"$v1", 3},
	{"$a0", 4},
	{"$a1", 5},
	{"$a2", 6},
	{"$a3", 7},
	{"$t0", 8},
	{"$t1", 9},
	{"$t2", 10},
	{"$t3", 11},
	{"$t4", 12},
	{"$t5", 13},
	{"$t6", 14},
	{"$t7", 15},
	{"$s0", 16},
	{"$s1", 17},
	{"$s2", 18},
	{"$s3", 19},
	{"$s4", 20},
	{"$s5", 21},
	{"$s6", 22},
	{"$s7", 23},
	{"$t8", 24},
	{"$t9", 25},
	{"$k0", 6},
	{"$k1", 7},
	{"$gp", 28},
	{"$sp", 29},
	{"$fp", 30},
	{"$ra", 31},
}

var (
	registers     = make(map[string]uint32, len(registerTable))
	registerNames [32]string
)

func init() {
	for _, r := range registerTable {
		registers[r.name] = r.number
		if registerNames[r.number] == "" {
			registerNames[r.number] = r.name
		}
	}
	for i := range registerNames {
		if registerNames[i] == "" {
			registerNames[i] = fmt.Sprintf("$%d", i)
		}
	}
}

// Register returns the 5-bit number of the register with the given
// mnemonic, e.g. "$t3" or "$sp".
func Register(name string) (uint32, error) {
	if n, ok := registers[name]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w '%s'", ErrInvalidRegister, name)
}

// RegisterName returns the mnemonic used to display a register number.
func RegisterName(n uint32) string {
	return registerNames[n&RegMask]
}
