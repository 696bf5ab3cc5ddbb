// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for a subset of the MIPS32
// instruction set.
//
// Source lines are classified, a label table is built, instructions are
// encoded into 32-bit words, and the data segment is appended after the
// last instruction. The result is a dense, zero-based sequence of words.
package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/mipsasm/isa"
)

// ErrParse is returned by Assemble when the source contains an error that
// prevents assembly. Assembly.Errors describes the error.
var ErrParse = errors.New("parse error")

var errParse = ErrParse

// An asmerror is used to keep track of errors encountered
// during assembly.
type asmerror struct {
	line fstring // line causing the error
	msg  string  // error message
}

// The assembler is a state object used during the assembly of
// machine code from assembly code.
type assembler struct {
	instSet     *isa.InstructionSet // supported instructions
	r           io.Reader           // the reader passed to Assemble
	filename    string              // name of the source
	source      []fstring           // ingested source lines
	lines       []sourceLine        // classified source lines
	labels      LabelTable          // label -> address
	codeWords   int                 // number of instruction words
	dataStart   int                 // address of the first data word
	words       []uint32            // generated machine code
	sourceLines []SourceLine        // address to source line mappings
	out         io.Writer           // output used for verbose output
	verbose     bool                // verbose output
	errors      []asmerror          // fatal errors encountered during assembly
	warnings    []asmerror          // recoverable errors
}

// Assembly contains the assembled machine code and other data associated
// with the machine code.
type Assembly struct {
	Words     []uint32   // Encoded words, indexed by word address
	DataStart int        // Address of the first data word
	Labels    LabelTable // Labels defined by the source
	Errors    []string   // Errors encountered during assembly
}

// ReadFrom reads machine code from hexadecimal text, one word per line.
// Blank lines are ignored.
func (a *Assembly) ReadFrom(r io.Reader) (n int64, err error) {
	a.Words = a.Words[:0]
	a.Errors = []string{}

	scanner := bufio.NewScanner(r)
	for row := 1; scanner.Scan(); row++ {
		line := scanner.Text()
		n += int64(len(line)) + 1

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w, err := ParseHexWord(line)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", row, err)
		}
		a.Words = append(a.Words, w)
	}
	return n, scanner.Err()
}

// WriteTo writes machine code as hexadecimal text, one word per line, in
// increasing address order.
func (a *Assembly) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)
	for _, word := range a.Words {
		nn, err := bw.WriteString(HexWord(word) + "\n")
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Option type used by the Assemble function.
type Option uint

// Options for the Assemble function.
const (
	Verbose Option = 1 << iota // verbose output during assembly
)

// AssembleFile reads a file containing assembly code, assembles it, and
// produces a hex output file and a source map file.
func AssembleFile(path string, options Option, out io.Writer) error {
	inFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer inFile.Close()

	assembly, sourceMap, err := Assemble(inFile, path, out, options)
	for _, e := range assembly.Errors {
		fmt.Fprintln(out, e)
	}
	if err != nil {
		return err
	}

	ext := filepath.Ext(path)
	prefix := path[:len(path)-len(ext)]
	hexPath := prefix + ".hex"
	hexFile, err := os.OpenFile(hexPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer hexFile.Close()

	_, err = assembly.WriteTo(hexFile)
	if err != nil {
		return err
	}

	mapPath := prefix + ".map"
	mapFile, err := os.OpenFile(mapPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer mapFile.Close()

	_, err = sourceMap.WriteTo(mapFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Assembled '%s' to produce '%s' and '%s'.\n",
		filepath.Base(path),
		filepath.Base(hexPath),
		filepath.Base(mapPath))
	return nil
}

// Assemble reads assembly code from the provided stream and encodes it
// into 32-bit words.
//
// Errors that make the output meaningless (an unknown register, a bad
// literal, an unresolved label and so on) stop assembly at the first
// occurrence; Assemble then returns an error wrapping ErrParse and an
// Assembly with no words. An unrecognized mnemonic is not fatal: it is
// reported in Assembly.Errors, encoded as a nop, and assembly continues.
func Assemble(r io.Reader, filename string, out io.Writer, options Option) (*Assembly, *SourceMap, error) {
	if out == nil {
		out = os.Stdout
	}

	a := &assembler{
		instSet:  isa.GetInstructionSet(),
		r:        r,
		filename: filename,
		labels:   make(LabelTable),
		out:      out,
		verbose:  (options & Verbose) != 0,
	}

	// Assembly consists of the following steps
	steps := []func(a *assembler) error{
		(*assembler).readLines,          // Ingest the source lines
		(*assembler).classifyLines,      // Classify lines by syntax alone
		(*assembler).buildLabels,        // Assign addresses to all labels
		(*assembler).encodeInstructions, // Encode the code segment
		(*assembler).linearizeData,      // Append the data segment
	}

	// Execute assembler steps, breaking if an error is encountered
	// in any one of them.
	var err error
	for _, step := range steps {
		err = step(a)
		if err == nil && len(a.errors) > 0 {
			err = errParse
		}
		if err != nil {
			break
		}
	}

	errors := make([]string, 0, len(a.warnings)+len(a.errors))
	for _, e := range a.warnings {
		errors = append(errors, a.formatError("Bad instruction", e))
	}
	for _, e := range a.errors {
		errors = append(errors, a.formatError("Syntax error", e))
	}

	assembly := &Assembly{
		Labels: a.labels,
		Errors: errors,
	}
	sourceMap := &SourceMap{
		Files:  []string{filename},
		Labels: a.labels.Sorted(),
	}

	if err != nil {
		if err == errParse && len(a.errors) > 0 {
			err = fmt.Errorf("%w: %s", errParse, a.errors[0].msg)
		}
		return assembly, sourceMap, err
	}

	assembly.Words = a.words
	assembly.DataStart = a.dataStart
	sourceMap.DataStart = a.dataStart
	sourceMap.Lines = sortSourceLines(a.sourceLines)
	return assembly, sourceMap, nil
}

// Read the source lines. Leading whitespace, trailing whitespace and
// comments are removed.
func (a *assembler) readLines() error {
	a.logSection("Reading source")

	scanner := bufio.NewScanner(a.r)
	for row := 1; scanner.Scan(); row++ {
		line := newFstring(row, scanner.Text())
		a.source = append(a.source, line.consumeWhitespace().stripTrailingComment())
	}
	if err := scanner.Err(); err != nil {
		a.addError(newFstring(len(a.source)+1, ""), "unable to read source: %v", err)
		return err
	}

	a.log("%d lines", len(a.source))
	return nil
}

// Append an error message to the assembler's error state.
func (a *assembler) addError(l fstring, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.errors = append(a.errors, asmerror{l, msg})
	if a.verbose {
		a.displayError("Syntax error", asmerror{l, msg})
	}
}

// Append a recoverable error message to the assembler's warning state.
func (a *assembler) addWarning(l fstring, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.warnings = append(a.warnings, asmerror{l, msg})
	if a.verbose {
		a.displayError("Bad instruction", asmerror{l, msg})
	}
}

func (a *assembler) formatError(kind string, e asmerror) string {
	return fmt.Sprintf("%s in '%s' line %d, col %d: %s", kind, a.filename, e.line.row, e.line.column+1, e.msg)
}

func (a *assembler) displayError(kind string, e asmerror) {
	fmt.Fprintln(a.out, a.formatError(kind, e))
	fmt.Fprintln(a.out, e.line.full)
	for i := 0; i < e.line.column; i++ {
		fmt.Fprintf(a.out, "-")
	}
	fmt.Fprintln(a.out, "^")
}

// In verbose mode, log a string to the output.
func (a *assembler) log(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.out, format, args...)
		fmt.Fprintf(a.out, "\n")
	}
}

// In verbose mode, log a string and its associated line
// of assembly code.
func (a *assembler) logLine(line fstring, format string, args ...any) {
	if a.verbose {
		detail := fmt.Sprintf(format, args...)
		fmt.Fprintf(a.out, "%-3d %-3d | %-28s | %s\n", line.row, line.column+1, detail, line.str)
	}
}

// In verbose mode, log a series of data words with starting address.
func (a *assembler) logWords(line fstring, addr int, words []uint32) {
	if a.verbose {
		for i, w := range words {
			a.logLine(line, "%04d  %s", addr+i, HexWord(w))
		}
	}
}

// In verbose mode, log a section header to the output.
func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(a.out, "-- %s --\n", name)
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
	}
}
