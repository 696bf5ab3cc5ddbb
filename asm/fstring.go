// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// An fstring is a string that keeps track of its position within the
// file from which it was read.
type fstring struct {
	row    int    // 1-based line number of substring
	column int    // 0-based column of start of substring
	str    string // the actual substring of interest
	full   string // the full line as originally read from the file
}

func newFstring(row int, str string) fstring {
	return fstring{row, 0, str, str}
}

func (l fstring) String() string {
	return l.str
}

func (l *fstring) advanceColumn(n int) int {
	c := l.column
	for i := 0; i < n; i++ {
		if l.str[i] == '\t' {
			c += 8 - (c % 8)
		} else {
			c++
		}
	}
	return c
}

func (l fstring) consume(n int) fstring {
	col := l.advanceColumn(n)
	return fstring{l.row, col, l.str[n:], l.full}
}

func (l fstring) trunc(n int) fstring {
	return fstring{l.row, l.column, l.str[:n], l.full}
}

func (l *fstring) isEmpty() bool {
	return len(l.str) == 0
}

func (l *fstring) startsWithChar(c byte) bool {
	return len(l.str) > 0 && l.str[0] == c
}

func (l fstring) consumeWhitespace() fstring {
	return l.consume(l.scanWhile(whitespace))
}

func (l *fstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(l.str) && fn(l.str[i]); i++ {
	}
	return i
}

func (l *fstring) scanUntil(fn func(c byte) bool) int {
	i := 0
	for ; i < len(l.str) && !fn(l.str[i]); i++ {
	}
	return i
}

func (l *fstring) consumeWhile(fn func(c byte) bool) (consumed, remain fstring) {
	i := l.scanWhile(fn)
	consumed, remain = l.trunc(i), l.consume(i)
	return
}

func (l *fstring) consumeUntil(fn func(c byte) bool) (consumed, remain fstring) {
	i := l.scanUntil(fn)
	consumed, remain = l.trunc(i), l.consume(i)
	return
}

// Split the string into tokens separated by runs of delimiter characters.
// Each token keeps its own column.
func (l fstring) tokens() []fstring {
	var toks []fstring
	remain := l
	for {
		remain = remain.consume(remain.scanWhile(delimiter))
		if remain.isEmpty() {
			return toks
		}
		var tok fstring
		tok, remain = remain.consumeUntil(delimiter)
		toks = append(toks, tok)
	}
}

// Split a leading "label:" from the string. If there is no colon, the
// returned label is empty and remain is the whole string.
func (l fstring) splitLabel() (label, remain fstring, found bool) {
	i := l.scanUntil(func(c byte) bool { return c == ':' })
	if i == len(l.str) {
		return fstring{row: l.row, column: l.column, full: l.full}, l, false
	}
	label = l.trunc(i).trimRight()
	remain = l.consume(i + 1).consumeWhitespace()
	return label, remain, true
}

func (l fstring) trimRight() fstring {
	n := len(l.str)
	for n > 0 && whitespace(l.str[n-1]) {
		n--
	}
	return l.trunc(n)
}

func (l fstring) stripTrailingComment() fstring {
	lastNonWS := 0
	for i := 0; i < len(l.str); i++ {
		if comment(l.str[i]) {
			break
		}
		if !whitespace(l.str[i]) {
			lastNonWS = i + 1
		}
	}
	return l.trunc(lastNonWS)
}

//
// character helper functions
//

func whitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func delimiter(c byte) bool {
	return whitespace(c) || c == ',' || c == '(' || c == ')'
}

func alpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func decimal(c byte) bool {
	return (c >= '0' && c <= '9')
}

func hexadecimal(c byte) bool {
	return decimal(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func comment(c byte) bool {
	return c == '#'
}

func labelStartChar(c byte) bool {
	return alpha(c) || c == '_'
}

func labelChar(c byte) bool {
	return alpha(c) || decimal(c) || c == '_' || c == '.'
}
