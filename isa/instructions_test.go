package isa

import "testing"

func TestEncodeKnownWords(t *testing.T) {
	set := GetInstructionSet()
	cases := []struct {
		name string
		f    Fields
		exp  uint32
	}{
		{"addiu", Fields{Rs: 0, Rt: 8, Imm: 5}, 0x24080005},
		{"addu", Fields{Rs: 8, Rt: 9, Rd: 10}, 0x01095021},
		{"and", Fields{Rs: 17, Rt: 18, Rd: 16}, 0x02328024},
		{"or", Fields{Rs: 4, Rt: 5, Rd: 2}, 0x00851025},
		{"slt", Fields{Rs: 16, Rt: 17, Rd: 8}, 0x0211402a},
		{"subu", Fields{Rs: 29, Rt: 31, Rd: 29}, 0x03bfe823},
		{"mult", Fields{Rs: 8, Rt: 9}, 0x01090018},
		{"div", Fields{Rs: 8, Rt: 9}, 0x0109001a},
		{"mfhi", Fields{Rd: 10}, 0x00005010},
		{"mflo", Fields{Rd: 11}, 0x00005812},
		{"beq", Fields{Rs: 8, Rt: 9, Imm: 1}, 0x11090001},
		{"bne", Fields{Rs: 8, Imm: 0xfffe}, 0x1500fffe},
		{"lw", Fields{Rs: 28, Rt: 8}, 0x8f880000},
		{"sw", Fields{Rs: 28, Rt: 9, Imm: 4}, 0xaf890004},
		{"j", Fields{Target: 3}, 0x08000003},
		{"syscall", Fields{}, 0x0000000c},
		{"nop", Fields{}, 0x00000000},
	}

	for _, c := range cases {
		inst := set.Lookup(c.name)
		if inst == nil {
			t.Errorf("%s: not found", c.name)
			continue
		}
		if got := inst.Encode(c.f); got != c.exp {
			t.Errorf("%s: exp %08x, got %08x", c.name, c.exp, got)
		}
	}
}

func TestEncodeTruncatesFields(t *testing.T) {
	inst := GetInstructionSet().Lookup("addiu")
	w := inst.Encode(Fields{Rs: 0x3f, Rt: 0x21, Imm: 0x12345})
	exp := uint32(0x09)<<26 | 0x1f<<21 | 0x01<<16 | 0x2345
	if w != exp {
		t.Errorf("exp %08x, got %08x", exp, w)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	set := GetInstructionSet()
	for _, inst := range set.Instructions() {
		var f Fields
		switch inst.Format {
		case R:
			f = Fields{Rs: 1, Rt: 2, Rd: 3}
		case HiLo:
			f = Fields{Rs: 4, Rt: 5}
		case MoveFrom:
			f = Fields{Rd: 6}
		case I, Branch, Mem:
			f = Fields{Rs: 7, Rt: 8, Imm: 0x8001}
		case J:
			f = Fields{Target: 0x2abcdef}
		}

		w := inst.Encode(f)
		got, gf := set.Decode(w)
		if got != inst {
			t.Errorf("%s: decoded as %v", inst.Name, got)
			continue
		}
		if gf != f {
			t.Errorf("%s: fields exp %+v, got %+v", inst.Name, f, gf)
		}
	}
}

func TestDecodeAddiuFields(t *testing.T) {
	inst, f := GetInstructionSet().Decode(0x24080005)
	if inst == nil || inst.Name != "addiu" {
		t.Fatalf("expected addiu, got %v", inst)
	}
	if inst.Opcode != 0x09 || f.Rs != 0 || f.Rt != 8 || f.SignedImm() != 5 {
		t.Errorf("unexpected fields %+v", f)
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, w := range []uint32{0xfc000000, 0x00000001, 0x0000003f} {
		if inst, _ := GetInstructionSet().Decode(w); inst != nil {
			t.Errorf("%08x: expected no match, got %s", w, inst.Name)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	set := GetInstructionSet()
	if set.Lookup("ADDIU") != set.Lookup("addiu") {
		t.Error("lookup should ignore case")
	}
	if set.Lookup("jal") != nil {
		t.Error("jal is not supported")
	}
}

func TestOperandCounts(t *testing.T) {
	exp := map[string]int{
		"addu": 3, "mult": 2, "mfhi": 1, "addiu": 3,
		"beq": 3, "lw": 3, "j": 1, "syscall": 0, "nop": 0,
	}
	for name, n := range exp {
		if got := GetInstructionSet().Lookup(name).Format.Operands(); got != n {
			t.Errorf("%s: exp %d operands, got %d", name, n, got)
		}
	}
}
