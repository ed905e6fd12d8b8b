package script

import (
	"fmt"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/strtab"
	"golang.org/x/text/encoding/charmap"
)

// Language is the language file of Gen4 (ENGLISH.DAT and similar). It holds
// three groups of strings sharing a single table.
type Language struct {
	Generic []string
	PSX     []string
	PC      []string
}

var languageOptions = strtab.Options{
	Key:             0xA5,
	Charset:         charmap.CodePage437,
	PlainTerminator: true,
}

func (l *Language) groups() [3][]string {
	return [3][]string{l.Generic, l.PSX, l.PC}
}

// Strings returns the strings of every group, in order.
func (l *Language) Strings() []string {
	var strs []string
	for _, g := range l.groups() {
		strs = append(strs, g...)
	}
	return strs
}

// DecodeLanguage decodes a language file. Bytes that follow the table are
// reported as a warning.
func DecodeLanguage(b []byte) (l *Language, warn, err error) {
	r := bin.NewReader(b)
	var counts, sizes [3]int
	for i := range counts {
		counts[i] = int(r.U16())
	}
	var total, size int
	for i := range sizes {
		sizes[i] = int(r.U16())
		total += counts[i]
		size += sizes[i]
	}
	offsets := bin.ReadArray[uint16](r, total)
	start := r.Pos()
	slab := r.Bytes(size)
	if r.Err() != nil {
		return nil, nil, r.Err()
	}
	strs, err := strtab.Decode(offsets, slab, languageOptions)
	if r.FailAt(start, err) {
		return nil, nil, r.Err()
	}

	l = &Language{}
	l.Generic, strs = strs[:counts[0]:counts[0]], strs[counts[0]:]
	l.PSX, strs = strs[:counts[1]:counts[1]], strs[counts[1]:]
	l.PC = strs

	if n := r.Remaining(); n > 0 {
		warn = errors.DataError{
			Offset: r.Pos(),
			Cause:  fmt.Errorf("%d bytes after end of language file", n),
		}
	}
	return l, warn, nil
}

// Encode returns the encoded language file.
func (l *Language) Encode() ([]byte, error) {
	w := bin.NewWriter()
	offsets, slab, err := strtab.Encode(l.Strings(), languageOptions)
	if w.Fail(err) {
		return nil, w.Err()
	}
	bound := func(i int) int {
		if i < len(offsets) {
			return int(offsets[i])
		}
		return len(slab)
	}
	groups := l.groups()
	for _, g := range groups {
		bin.PutCount[uint16](w, len(g))
	}
	i := 0
	for _, g := range groups {
		bin.PutCount[uint16](w, bound(i+len(g))-bound(i))
		i += len(g)
	}
	bin.WriteArray(w, offsets)
	w.PutBytes(slab)
	return w.Bytes()
}
