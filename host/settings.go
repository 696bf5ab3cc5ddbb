// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	Verbose        bool `doc:"verbose assembler output"`
	WordLines      int  `doc:"default number of words to dump"`
	DisasmLines    int  `doc:"default number of lines to disassemble"`
	NextWordsAddr  int  `doc:"address of next word dump"`
	NextDisasmAddr int  `doc:"address of next disassembly"`
}

func newSettings() *settings {
	return &settings{
		Verbose:        false,
		WordLines:      16,
		DisasmLines:    10,
		NextWordsAddr:  0,
		NextDisasmAddr: 0,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		s := fmt.Sprintf("    %-16s %v", f.name, v)
		fmt.Fprintf(w, "%-28s (%s)\n", s, f.doc)
	}
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.Bool) != (vIn.Kind() == reflect.Bool) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	if f.kind == reflect.Int && vIn.Convert(f.typ).Int() < 0 {
		return errors.New("value must not be negative")
	}

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vIn.Convert(f.typ))
	return nil
}
