package asm

import (
	"encoding/json"
	"io"
	"sort"
)

// A SourceMap describes the mapping between source code line numbers and
// word addresses, along with the labels defined by the source.
type SourceMap struct {
	Files     []string
	DataStart int
	Lines     []SourceLine
	Labels    []Label
}

// A SourceLine represents a mapping between a word address and the source
// code file and line number used to generate it.
type SourceLine struct {
	Address   int // Word address
	FileIndex int // Source code file index
	Line      int // Source code line number
}

// Search searches the source map for a mapping with the requested address.
func (s *SourceMap) Search(addr int) (filename string, line int) {
	i := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].Address >= addr
	})
	if i < len(s.Lines) && s.Lines[i].Address == addr {
		return s.Files[s.Lines[i].FileIndex], s.Lines[i].Line
	}
	return "", -1
}

// LabelTable rebuilds a label table from the labels stored in the map.
func (s *SourceMap) LabelTable() LabelTable {
	t := make(LabelTable, len(s.Labels))
	for _, l := range s.Labels {
		t[l.Name] = l
	}
	return t
}

// ReadFrom reads the contents of an exported source map file.
func (s *SourceMap) ReadFrom(r io.Reader) (n int64, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	err = json.Unmarshal(b, s)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// WriteTo writes the contents of the source map to an output stream.
func (s *SourceMap) WriteTo(w io.Writer) (n int64, err error) {
	b, err := json.Marshal(*s)
	if err != nil {
		return 0, err
	}

	nn, err := w.Write(b)
	return int64(nn), err
}

func sortSourceLines(l []SourceLine) []SourceLine {
	sort.Slice(l, func(i, j int) bool {
		return l[i].Address < l[j].Address
	})
	return l
}
