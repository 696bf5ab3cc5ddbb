// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "sort"

// DataStride is the amount by which a data label's address advances for
// each data word. Code addresses advance by 1 per word.
const DataStride = 4

// The largest word count accepted by a single .space directive.
const maxSpaceWords = 1 << 20

// DataLabel is the name of the pseudo-label marking the start of the data
// segment.
const DataLabel = ".data"

// A Segment identifies the code (text) or data portion of a program.
type Segment byte

// Program segments
const (
	Text Segment = iota
	Data
)

func (s Segment) String() string {
	switch s {
	case Data:
		return "data"
	default:
		return "text"
	}
}

// A Label binds a name to an address. Code labels hold word addresses.
// Data labels hold the address of the data segment plus a DataStride-scaled
// offset into it.
type Label struct {
	Name    string
	Addr    int
	Segment Segment
	Row     int // source line on which the label was defined
}

// A LabelTable maps label names, without their trailing colon, to labels.
type LabelTable map[string]Label

// DataStart returns the address of the .data pseudo-label, or -1 if the
// program has no data segment.
func (t LabelTable) DataStart() int {
	if l, ok := t[DataLabel]; ok {
		return l.Addr
	}
	return -1
}

// Sorted returns all labels ordered by address, then by name.
func (t LabelTable) Sorted() []Label {
	labels := make([]Label, 0, len(t))
	for _, l := range t {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Addr != labels[j].Addr {
			return labels[i].Addr < labels[j].Addr
		}
		return labels[i].Name < labels[j].Name
	})
	return labels
}

type lineKind byte

const (
	lineBlank   lineKind = iota // nothing but whitespace or comments
	lineSegment                 // .data or .text marker
	lineCode                    // optional label, optional instruction
	lineData                    // optional label, optional .word/.space/literals
)

// A sourceLine is a classified line of assembly code.
type sourceLine struct {
	kind  lineKind
	text  fstring   // the line with comments stripped
	label fstring   // label defined on the line, if any
	op    fstring   // mnemonic or directive, if any
	args  []fstring // tokens following op
	addr  int       // word address (code) or data word index (data)
}

// Classify every source line using only its own text. The label table is
// not consulted.
func (a *assembler) classifyLines() error {
	a.logSection("Classifying lines")

	seg := Text
	for _, l := range a.source {
		sl := sourceLine{text: l, addr: -1}

		label, remain, found := l.splitLabel()
		if found {
			if !validLabel(label.str) {
				a.addError(label, "invalid label '%s'", label.str)
				return errParse
			}
			sl.label = label
		}

		toks := remain.tokens()
		switch {
		case len(toks) == 0 && !found:
			sl.kind = lineBlank

		case len(toks) > 0 && (toks[0].str == ".data" || toks[0].str == ".text"):
			if found {
				a.addError(label, "label '%s' cannot mark a segment", label.str)
				return errParse
			}
			if len(toks) > 1 {
				a.addError(toks[1], "unexpected operand '%s'", toks[1].str)
				return errParse
			}
			sl.kind, sl.op = lineSegment, toks[0]
			if toks[0].str == ".data" {
				seg = Data
			} else {
				seg = Text
			}

		case seg == Data:
			sl.kind = lineData
			if len(toks) > 0 && toks[0].startsWithChar('.') {
				if !isDataDirective(toks[0].str) {
					a.addError(toks[0], "unsupported directive '%s'", toks[0].str)
					return errParse
				}
				sl.op, toks = toks[0], toks[1:]
			}
			sl.args = toks

		default:
			sl.kind = lineCode
			if len(toks) > 0 {
				if toks[0].startsWithChar('.') {
					if isDataDirective(toks[0].str) {
						a.addError(toks[0], "directive '%s' outside of .data segment", toks[0].str)
					} else {
						a.addError(toks[0], "unsupported directive '%s'", toks[0].str)
					}
					return errParse
				}
				sl.op, sl.args = toks[0], toks[1:]
			}
		}

		a.logLine(l, "kind=%s", sl.kindString())
		a.lines = append(a.lines, sl)
	}
	return nil
}

// Build the label table from the classified lines. Code labels receive the
// address of the next instruction. The .data pseudo-label receives the
// number of code words, and data labels are offset from it by DataStride
// per data word.
func (a *assembler) buildLabels() error {
	a.logSection("Building label table")

	codeWords := 0
	for i := range a.lines {
		if a.lines[i].kind == lineCode && !a.lines[i].op.isEmpty() {
			codeWords++
		}
	}

	pc, offset := 0, 0
	for i := range a.lines {
		sl := &a.lines[i]
		switch sl.kind {
		case lineSegment:
			if sl.op.str == DataLabel {
				if _, ok := a.labels[DataLabel]; !ok {
					if err := a.storeLabel(sl.op, codeWords, Data); err != nil {
						return err
					}
				}
			}

		case lineCode:
			if !sl.label.isEmpty() {
				if err := a.storeLabel(sl.label, pc, Text); err != nil {
					return err
				}
			}
			if !sl.op.isEmpty() {
				sl.addr = pc
				pc++
			}

		case lineData:
			if !sl.label.isEmpty() {
				if err := a.storeLabel(sl.label, codeWords+offset, Data); err != nil {
					return err
				}
			}
			n, err := a.dataWords(sl)
			if err != nil {
				return err
			}
			sl.addr = offset / DataStride
			offset += n * DataStride
		}
	}

	a.codeWords = codeWords
	return nil
}

// Store a label into the assembler's label table.
func (a *assembler) storeLabel(label fstring, addr int, seg Segment) error {
	if _, found := a.labels[label.str]; found {
		a.addError(label, "label '%s' used more than once", label.str)
		return errParse
	}

	a.labels[label.str] = Label{
		Name:    label.str,
		Addr:    addr,
		Segment: seg,
		Row:     label.row,
	}
	a.logLine(label, "label=%s addr=%d seg=%s", label.str, addr, seg)
	return nil
}

// Return the number of data words produced by a data line.
func (a *assembler) dataWords(sl *sourceLine) (int, error) {
	switch sl.op.str {
	case ".space":
		if len(sl.args) != 1 {
			return 0, a.operandCountError(sl, 1)
		}
		n, err := parseInt(sl.args[0].str)
		if err != nil || n < 0 || n > maxSpaceWords {
			a.addError(sl.args[0], "invalid .space count '%s'", sl.args[0].str)
			return 0, errParse
		}
		return int(n), nil

	case ".word":
		if len(sl.args) == 0 {
			a.addError(sl.op, "missing operand for '.word'")
			return 0, errParse
		}
		return len(sl.args), nil

	default:
		return len(sl.args), nil
	}
}

func (sl *sourceLine) kindString() string {
	switch sl.kind {
	case lineSegment:
		return "segment"
	case lineCode:
		return "code"
	case lineData:
		return "data"
	default:
		return "blank"
	}
}

func isDataDirective(s string) bool {
	return s == ".word" || s == ".space"
}

func validLabel(s string) bool {
	if s == "" || !labelStartChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !labelChar(s[i]) {
			return false
		}
	}
	return true
}
