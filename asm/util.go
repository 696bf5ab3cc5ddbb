// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var hex = "0123456789abcdef"

var (
	errInvalidNumber = errors.New("invalid number")
	errInvalidHex    = errors.New("invalid hex word")
)

// HexWord returns the 8-character lower-case hexadecimal representation of
// a 32-bit word, most significant nibble first.
func HexWord(w uint32) string {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = hex[w&0x0f]
		w >>= 4
	}
	return string(b[:])
}

// ParseHexWord is the inverse of HexWord. It accepts exactly eight hex
// digits of either case.
func ParseHexWord(s string) (uint32, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("%w '%s'", errInvalidHex, s)
	}
	var w uint32
	for i := 0; i < len(s); i++ {
		if !hexadecimal(s[i]) {
			return 0, fmt.Errorf("%w '%s'", errInvalidHex, s)
		}
		w = w<<4 | uint32(hexchar(s[i]))
	}
	return w, nil
}

func hexchar(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// Parse a signed decimal or 0x-prefixed hexadecimal literal. The value must
// fit in 32 bits, either signed or unsigned.
func parseInt(s string) (int64, error) {
	var v int64
	var err error

	neg := len(s) > 0 && (s[0] == '-' || s[0] == '+')
	digits := s
	if neg {
		digits = s[1:]
	}

	switch {
	case len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X'):
		var u uint64
		u, err = strconv.ParseUint(digits[2:], 16, 32)
		v = int64(u)
	default:
		for i := 0; i < len(digits); i++ {
			if !decimal(digits[i]) {
				return 0, fmt.Errorf("%w '%s'", errInvalidNumber, s)
			}
		}
		v, err = strconv.ParseInt(digits, 10, 64)
	}
	if err != nil || digits == "" {
		return 0, fmt.Errorf("%w '%s'", errInvalidNumber, s)
	}

	if s[0] == '-' {
		v = -v
	}
	if v < math.MinInt32 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w '%s' (out of range)", errInvalidNumber, s)
	}
	return v, nil
}

// Return true if the string looks like a numeric literal rather than a
// label reference.
func isNumber(s string) bool {
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	return len(s) > 0 && decimal(s[0])
}
