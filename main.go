// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mipsasm assembles a MIPS source file and writes one hexadecimal
// word per line to standard output.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/beevik/mipsasm/asm"
	"github.com/tebeka/atexit"
)

func init() {
	flag.CommandLine.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mipsasm <file>")
	}
}

func main() {
	flag.Parse()

	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { stdout.Flush() })

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: No input file specified!")
		atexit.Exit(1)
	}

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %s\n", path)
		atexit.Exit(1)
	}

	assembly, _, err := asm.Assemble(file, path, os.Stderr, 0)
	file.Close()
	for _, e := range assembly.Errors {
		fmt.Fprintln(os.Stderr, e)
	}
	if err != nil {
		if !errors.Is(err, asm.ErrParse) {
			fmt.Fprintf(os.Stderr, "Error reading file: %s\n", path)
		}
		atexit.Exit(1)
	}

	if _, err := assembly.WriteTo(stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
