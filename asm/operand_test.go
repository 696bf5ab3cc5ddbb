// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"testing"
)

func testLabels() LabelTable {
	return LabelTable{
		"main":    {Name: "main", Addr: 0, Segment: Text},
		"loop":    {Name: "loop", Addr: 5, Segment: Text},
		DataLabel: {Name: DataLabel, Addr: 10, Segment: Data},
		"arr":     {Name: "arr", Addr: 18, Segment: Data},
	}
}

func TestJumpTarget(t *testing.T) {
	labels := testLabels()

	tests := []struct {
		s   string
		exp uint32
	}{
		{"main", 0},
		{"loop", 5},
		{"12", 12},
		{"0x4000000", 0},
	}
	for _, tst := range tests {
		v, err := labels.jumpTarget(tst.s)
		if err != nil {
			t.Errorf("jumpTarget(%q): %v", tst.s, err)
			continue
		}
		if v != tst.exp {
			t.Errorf("jumpTarget(%q): exp %d, got %d", tst.s, tst.exp, v)
		}
	}

	if _, err := labels.jumpTarget("nowhere"); !errors.Is(err, errUnresolvedLabel) {
		t.Errorf("expected unresolved label, got %v", err)
	}
}

func TestBranchOffset(t *testing.T) {
	labels := testLabels()

	tests := []struct {
		pc  int
		s   string
		exp uint32
	}{
		{7, "loop", 0xfffd},
		{4, "loop", 0},
		{0, "loop", 4},
		{5, "loop", 0xffff},
		{3, "-2", 0xfffe},
	}
	for _, tst := range tests {
		v, err := labels.branchOffset(tst.pc, tst.s)
		if err != nil {
			t.Errorf("branchOffset(%d, %q): %v", tst.pc, tst.s, err)
			continue
		}
		if v != tst.exp {
			t.Errorf("branchOffset(%d, %q): exp %#04x, got %#04x", tst.pc, tst.s, tst.exp, v)
		}
	}

	if _, err := labels.branchOffset(0, "nowhere"); !errors.Is(err, errUnresolvedLabel) {
		t.Errorf("expected unresolved label, got %v", err)
	}
}

func TestMemOffset(t *testing.T) {
	labels := testLabels()

	tests := []struct {
		s   string
		exp uint32
	}{
		{"arr", 8},
		{DataLabel, 0},
		{"4", 4},
		{"-4", 0xfffc},
		{"0x20", 0x20},
	}
	for _, tst := range tests {
		v, err := labels.memOffset(tst.s)
		if err != nil {
			t.Errorf("memOffset(%q): %v", tst.s, err)
			continue
		}
		if v != tst.exp {
			t.Errorf("memOffset(%q): exp %d, got %d", tst.s, tst.exp, v)
		}
	}

	if _, err := labels.memOffset("bogus"); !errors.Is(err, errUnresolvedLabel) {
		t.Errorf("expected unresolved label, got %v", err)
	}
	if _, err := labels.memOffset("12x"); !errors.Is(err, errInvalidNumber) {
		t.Errorf("expected invalid number, got %v", err)
	}
}

func TestLabelTableSorted(t *testing.T) {
	sorted := testLabels().Sorted()
	exp := []string{"main", "loop", DataLabel, "arr"}
	if len(sorted) != len(exp) {
		t.Fatalf("exp %d labels, got %d", len(exp), len(sorted))
	}
	for i, name := range exp {
		if sorted[i].Name != name {
			t.Errorf("position %d: exp %s, got %s", i, name, sorted[i].Name)
		}
	}

	if ds := (LabelTable{}).DataStart(); ds != -1 {
		t.Errorf("DataStart of empty table: exp -1, got %d", ds)
	}
}
