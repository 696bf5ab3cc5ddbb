package isa

import (
	"errors"
	"testing"
)

func TestRegisterNumbers(t *testing.T) {
	cases := []struct {
		name string
		num  uint32
	}{
		{"$zero", 0}, {"$at", 1}, {"$v0", 2}, {"$v1", 3},
		{"$a0", 4}, {"$a1", 5}, {"$a2", 6}, {"$a3", 7},
		{"$t0", 8}, {"$t3", 11}, {"$t7", 15},
		{"$s0", 16}, {"$s7", 23},
		{"$t8", 24}, {"$t9", 25},
		{"$k0", 6}, {"$k1", 7},
		{"$gp", 28}, {"$sp", 29}, {"$fp", 30}, {"$ra", 31},
	}

	for _, c := range cases {
		n, err := Register(c.name)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if n != c.num {
			t.Errorf("%s: exp %d, got %d", c.name, c.num, n)
		}

		// Same name, same answer.
		n2, _ := Register(c.name)
		if n2 != n {
			t.Errorf("%s: lookup is not stable", c.name)
		}
	}
}

func TestRegisterInvalid(t *testing.T) {
	for _, name := range []string{"", "$", "t0", "$t10", "$a4", "$s8", "$v2", "$k2", "$x", "$8", "$ZERO"} {
		_, err := Register(name)
		if !errors.Is(err, ErrInvalidRegister) {
			t.Errorf("%q: expected ErrInvalidRegister, got %v", name, err)
		}
		_, err2 := Register(name)
		if err == nil || err2 == nil || err.Error() != err2.Error() {
			t.Errorf("%q: error is not stable", name)
		}
	}
}

func TestRegisterName(t *testing.T) {
	cases := map[uint32]string{
		0:  "$zero",
		6:  "$a2",
		7:  "$a3",
		8:  "$t0",
		26: "$26",
		27: "$27",
		31: "$ra",
	}
	for n, exp := range cases {
		if got := RegisterName(n); got != exp {
			t.Errorf("register %d: exp %s, got %s", n, exp, got)
		}
	}
}
