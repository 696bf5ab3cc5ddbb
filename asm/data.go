// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// Append the data segment to the encoded instructions. Each .word element
// or bare literal becomes one word, and each .space N becomes N zero
// words. Data addresses continue directly after the last instruction.
func (a *assembler) linearizeData() error {
	a.logSection("Linearizing data")

	a.dataStart = len(a.words)
	for i := range a.lines {
		sl := &a.lines[i]
		if sl.kind != lineData {
			continue
		}

		addr := len(a.words)
		switch sl.op.str {
		case ".space":
			n, _ := parseInt(sl.args[0].str)
			for j := int64(0); j < n; j++ {
				a.words = append(a.words, 0)
			}

		default:
			for _, arg := range sl.args {
				v, err := parseInt(arg.str)
				if err != nil {
					a.addError(arg, "%v", err)
					return errParse
				}
				a.words = append(a.words, uint32(v))
			}
		}

		for j := addr; j < len(a.words); j++ {
			a.sourceLines = append(a.sourceLines, SourceLine{Address: j, Line: sl.text.row})
		}
		a.logWords(sl.text, addr, a.words[addr:])
	}
	return nil
}
