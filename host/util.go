// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"
)

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

// Parse a non-negative decimal or 0x-prefixed hexadecimal number.
func stringToInt(s string) (int, error) {
	v, err := strconv.ParseUint(s, 0, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	return int(v), nil
}

// Wrap text at the given width, indenting every line.
func indentWrap(indent int, s string) string {
	const width = 72

	var b strings.Builder
	pad := strings.Repeat(" ", indent)
	n := 0
	for _, word := range strings.Fields(s) {
		switch {
		case n == 0:
			b.WriteString(pad)
			n = indent
		case n+1+len(word) > width:
			b.WriteString("\n")
			b.WriteString(pad)
			n = indent
		default:
			b.WriteByte(' ')
			n++
		}
		b.WriteString(word)
		n += len(word)
	}
	return b.String()
}
