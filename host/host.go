// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive shell around the MIPS assembler.
//
// Within the host it is possible to assemble source files, keep the
// resulting words loaded, dump and disassemble them, look up labels by
// unique prefix, map addresses back to source lines, and save or load hex
// files.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/mipsasm/asm"
	"github.com/beevik/mipsasm/disasm"
	"github.com/beevik/prefixtree/v2"
)

var errQuit = errors.New("exiting program")

// A Host holds a loaded assembly along with the state of the command
// shell used to inspect it.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection
	settings    *settings
	assembly    *asm.Assembly
	sourceMap   *asm.SourceMap
	labels      *prefixtree.Tree[asm.Label]
	hexPath     string
	sources     map[string][]string
}

// New creates a new host with nothing loaded.
func New() *Host {
	return &Host{
		output:   bufio.NewWriter(os.Stdout),
		settings: newSettings(),
		sources:  make(map[string][]string),
	}
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line = strings.TrimSpace(line); line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}
	h.flush()
}

// AssembleFile assembles a file and keeps the result loaded in the host.
// The hex and source map files are written next to the source file.
func (h *Host) AssembleFile(filename string) error {
	return h.assemble(filename, h.settings.Verbose)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) cmdAssemble(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("assemble")
		return nil
	}

	verbose := h.settings.Verbose
	if len(c.Args) >= 2 {
		v, err := stringToBool(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		verbose = v
	}

	h.assemble(c.Args[0], verbose)
	return nil
}

func (h *Host) assemble(filename string, verbose bool) error {
	if filepath.Ext(filename) == "" {
		filename += ".s"
	}

	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return err
	}
	defer file.Close()

	var options asm.Option
	if verbose {
		options |= asm.Verbose
	}

	assembly, sourceMap, err := asm.Assemble(file, filename, h.output, options)
	for _, e := range assembly.Errors {
		h.println(e)
	}
	if err != nil {
		h.printf("Failed to assemble: %s\n", filepath.Base(filename))
		return err
	}

	ext := filepath.Ext(filename)
	filePrefix := filename[0 : len(filename)-len(ext)]
	hexFilename := filePrefix + ".hex"
	if err := h.writeFile(hexFilename, assembly); err != nil {
		return err
	}

	mapFilename := filePrefix + ".map"
	if err := h.writeFile(mapFilename, sourceMap); err != nil {
		return err
	}

	h.setAssembly(assembly, sourceMap)
	h.hexPath = hexFilename

	h.printf("Assembled '%s' to '%s'.\n", filepath.Base(filename), filepath.Base(hexFilename))
	return nil
}

func (h *Host) writeFile(filename string, wt io.WriterTo) error {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		h.printf("Failed to create '%s': %v\n", filepath.Base(filename), err)
		return err
	}
	defer file.Close()

	_, err = wt.WriteTo(file)
	if err != nil {
		h.printf("Failed to write '%s': %v\n", filepath.Base(filename), err)
	}
	return err
}

func (h *Host) setAssembly(assembly *asm.Assembly, sourceMap *asm.SourceMap) {
	h.assembly = assembly
	h.sourceMap = sourceMap

	h.labels = prefixtree.New[asm.Label]()
	if sourceMap != nil {
		if assembly.Labels == nil {
			assembly.Labels = sourceMap.LabelTable()
		}
		for _, l := range sourceMap.Labels {
			h.labels.Add(l.Name, l)
		}
	}

	h.settings.NextWordsAddr = 0
	h.settings.NextDisasmAddr = 0
}

func (h *Host) cmdWords(c cmd.Selection) error {
	if !h.loaded() {
		return nil
	}

	addr, count, ok := h.parseRange(c.Args, h.settings.NextWordsAddr, h.settings.WordLines)
	if !ok {
		return nil
	}

	words := h.assembly.Words
	for i := 0; i < count && addr < len(words); i++ {
		h.printf("%04d  %s\n", addr, asm.HexWord(words[addr]))
		addr++
	}

	h.settings.NextWordsAddr = addr
	h.lastCmd.Args = []string{"$", strconv.Itoa(count)}
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if !h.loaded() {
		return nil
	}

	addr, count, ok := h.parseRange(c.Args, h.settings.NextDisasmAddr, h.settings.DisasmLines)
	if !ok {
		return nil
	}

	for i := 0; i < count && addr < len(h.assembly.Words); i++ {
		d, next := h.disassemble(addr)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", strconv.Itoa(count)}
	return nil
}

func (h *Host) disassemble(addr int) (str string, next int) {
	w := h.assembly.Words[addr]

	var line string
	if addr >= h.assembly.DataStart {
		line, next = disasm.Data(w), addr+1
	} else {
		line, next = disasm.Disassemble(h.assembly.Words, addr)
	}

	label := ""
	for _, l := range h.sourceLabels(addr) {
		label = l.Name + ":"
	}
	return fmt.Sprintf("%04d  %s  %-10s %s", addr, asm.HexWord(w), label, line), next
}

// Return the labels that mark a word address. Data labels are matched by
// their DataStride-scaled offsets.
func (h *Host) sourceLabels(addr int) []asm.Label {
	if h.sourceMap == nil {
		return nil
	}

	var labels []asm.Label
	ds := h.assembly.Labels.DataStart()
	for _, l := range h.sourceMap.Labels {
		switch {
		case l.Name == asm.DataLabel:
			continue
		case l.Segment == asm.Data && ds >= 0:
			if (l.Addr-ds)%asm.DataStride == 0 && h.assembly.DataStart+(l.Addr-ds)/asm.DataStride == addr {
				labels = append(labels, l)
			}
		case l.Segment == asm.Text && l.Addr == addr:
			labels = append(labels, l)
		}
	}
	return labels
}

func (h *Host) cmdLabels(c cmd.Selection) error {
	if h.sourceMap == nil {
		h.println("No labels loaded.")
		return nil
	}

	if len(c.Args) == 0 {
		for _, l := range h.sourceMap.Labels {
			h.printf("%-16s %-4s %d\n", l.Name, l.Segment, l.Addr)
		}
		return nil
	}

	l, err := h.findLabel(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("%-16s %-4s %d\n", l.Name, l.Segment, l.Addr)
	return nil
}

// Find the label named by s, or the single label that s is a prefix of.
func (h *Host) findLabel(s string) (asm.Label, error) {
	if h.sourceMap == nil {
		return asm.Label{}, fmt.Errorf("label '%s' not found", s)
	}
	if l, ok := h.assembly.Labels[s]; ok {
		return l, nil
	}

	l, err := h.labels.FindValue(s)
	if err == nil {
		return l, nil
	}

	n := 0
	for _, l := range h.sourceMap.Labels {
		if strings.HasPrefix(l.Name, s) {
			n++
		}
	}
	if n > 1 {
		return asm.Label{}, fmt.Errorf("label prefix '%s' is ambiguous", s)
	}
	return asm.Label{}, fmt.Errorf("label '%s' not found", s)
}

func (h *Host) cmdList(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("list")
		return nil
	}
	if h.sourceMap == nil {
		h.println("No source map loaded.")
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	filename, line := h.sourceMap.Search(addr)
	if line < 0 {
		h.printf("No source line for address %d.\n", addr)
		return nil
	}

	text := ""
	if lines, err := h.sourceLines(filename); err == nil && line <= len(lines) {
		text = lines[line-1]
	}
	h.printf("%s:%d: %s\n", filepath.Base(filename), line, text)
	return nil
}

func (h *Host) sourceLines(filename string) ([]string, error) {
	if lines, ok := h.sources[filename]; ok {
		return lines, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	h.sources[filename] = lines
	return lines, nil
}

func (h *Host) cmdSave(c cmd.Selection) error {
	if !h.loaded() {
		return nil
	}

	filename := h.hexPath
	if len(c.Args) > 0 {
		filename = c.Args[0]
		if filepath.Ext(filename) == "" {
			filename += ".hex"
		}
	}
	if filename == "" {
		h.displayUsage("save")
		return nil
	}

	if err := h.writeFile(filename, h.assembly); err != nil {
		return nil
	}
	h.hexPath = filename
	h.printf("Saved %d words to '%s'.\n", len(h.assembly.Words), filepath.Base(filename))
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("load")
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".hex"
	}

	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	assembly := &asm.Assembly{}
	if _, err := assembly.ReadFrom(file); err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	assembly.DataStart = len(assembly.Words)

	// Load the source map file if it exists.
	var sourceMap *asm.SourceMap
	ext := filepath.Ext(filename)
	mapFilename := filename[:len(filename)-len(ext)] + ".map"
	if mapFile, err := os.Open(mapFilename); err == nil {
		defer mapFile.Close()
		sm := &asm.SourceMap{}
		if _, err := sm.ReadFrom(mapFile); err != nil {
			h.printf("Failed to read '%s': %v\n", filepath.Base(mapFilename), err)
		} else {
			sourceMap = sm
			assembly.DataStart = sm.DataStart
		}
	}

	h.setAssembly(assembly, sourceMap)
	h.hexPath = filename

	h.printf("Loaded %d words from '%s'.\n", len(assembly.Words), filepath.Base(filename))
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands()
		return nil
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for i := range commandList {
		d := &commandList[i]
		if reflect.ValueOf(d.Data).Pointer() != reflect.ValueOf(s.Command.Data).Pointer() {
			continue
		}
		h.printf("Usage: %s\n\n", d.Usage)
		h.printf("Description:\n%s\n\n", indentWrap(3, d.Description))
		break
	}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage("set")

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("Setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int
			v, err = stringToInt(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

func (h *Host) loaded() bool {
	if h.assembly == nil || len(h.assembly.Words) == 0 {
		h.println("No words loaded.")
		return false
	}
	return true
}

// Parse the optional address and count arguments of a range command. An
// address of "$" continues from the next address.
func (h *Host) parseRange(args []string, next, count int) (addr, n int, ok bool) {
	addr = next
	if len(args) > 0 && args[0] != "$" {
		a, err := h.parseAddr(args[0])
		if err != nil {
			h.printf("%v\n", err)
			return 0, 0, false
		}
		addr = a
	}

	if len(args) > 1 {
		v, err := stringToInt(args[1])
		if err != nil {
			h.printf("%v\n", err)
			return 0, 0, false
		}
		count = v
	}

	if addr >= len(h.assembly.Words) {
		addr = 0
	}
	return addr, count, true
}

// Parse an address given as a number or a label. Data labels resolve to
// the word address of their first word.
func (h *Host) parseAddr(s string) (int, error) {
	if v, err := stringToInt(s); err == nil {
		return v, nil
	}
	if h.labels == nil {
		return 0, fmt.Errorf("invalid address '%s'", s)
	}

	l, err := h.findLabel(s)
	if err != nil {
		return 0, err
	}
	if l.Segment == asm.Data {
		ds := h.assembly.Labels.DataStart()
		return h.assembly.DataStart + (l.Addr-ds)/asm.DataStride, nil
	}
	return l.Addr, nil
}

func (h *Host) displayUsage(name string) {
	if d := findCommand(name); d != nil && d.Usage != "" {
		h.printf("Usage: %s\n", d.Usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands() {
	h.println("Commands:")
	for _, c := range commandList {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
}
