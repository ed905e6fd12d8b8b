// Package strtab implements the obfuscated string tables of gameflow scripts
// and language files.
//
// A table is a list of 16-bit offsets, the 16-bit length of a slab, and the
// slab. Each string runs from its offset to the next offset, or to the end of
// the slab for the last string, and is normally terminated with a NUL. Every
// byte of the slab is XORed with a key.
package strtab

import (
	"regexp"
	"strings"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Options configures the decoding and encoding of a table.
type Options struct {
	// Key is XORed with each byte of the slab. A key of 0 leaves the slab
	// unchanged.
	Key byte
	// Accents enables the conversion between the accent markers used by
	// gameflow scripts and combining characters.
	Accents bool
	// Charset converts between slab bytes and text. Defaults to ISO-8859-1.
	Charset encoding.Encoding
	// PlainTerminator indicates that NUL terminators are stored without the
	// key applied.
	PlainTerminator bool
}

func (o Options) charset() encoding.Encoding {
	if o.Charset == nil {
		return charmap.ISO8859_1
	}
	return o.Charset
}

func (o Options) mask(b []byte) {
	if o.Key == 0 {
		return
	}
	for i, c := range b {
		if c == 0 && o.PlainTerminator {
			continue
		}
		b[i] = c ^ o.Key
	}
}

func tableError(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrCorruptStringTable, format, args...)
}

// Decode returns the strings of a table, given its offsets and slab.
func Decode(offsets []uint16, slab []byte, opts Options) ([]string, error) {
	if len(offsets) == 0 {
		return nil, nil
	}
	dec := opts.charset().NewDecoder()
	strs := make([]string, len(offsets))
	for i, off := range offsets {
		end := len(slab)
		if i+1 < len(offsets) {
			end = int(offsets[i+1])
		}
		switch {
		case int(off) > len(slab):
			return nil, tableError("offset %d of string %d exceeds slab of %d bytes", off, i, len(slab))
		case end > len(slab):
			return nil, tableError("offset %d of string %d exceeds slab of %d bytes", end, i+1, len(slab))
		case end < int(off):
			return nil, tableError("offset %d of string %d precedes %d", end, i+1, off)
		}
		b := append([]byte(nil), slab[off:end]...)
		opts.mask(b)
		if n := len(b); n > 0 && b[n-1] == 0 {
			b = b[:n-1]
		}
		b, err := dec.Bytes(b)
		if err != nil {
			return nil, errors.Wrapf(err, "decode string %d", i)
		}
		s := string(b)
		if opts.Accents {
			s = NormalizeAccents(s)
		}
		strs[i] = s
	}
	return strs, nil
}

// Encode returns the offsets and slab of a table holding strs. Each string is
// terminated with a NUL.
func Encode(strs []string, opts Options) (offsets []uint16, slab []byte, err error) {
	enc := opts.charset().NewEncoder()
	offsets = make([]uint16, len(strs))
	for i, s := range strs {
		if len(slab) > 0xFFFF {
			return nil, nil, tableError("slab exceeds %d bytes", 0xFFFF)
		}
		offsets[i] = uint16(len(slab))
		if opts.Accents {
			s = DenormalizeAccents(s)
		}
		b, err := enc.Bytes([]byte(s))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "encode string %d", i)
		}
		slab = append(slab, b...)
		slab = append(slab, 0)
	}
	if len(slab) > 0xFFFF {
		return nil, nil, tableError("slab exceeds %d bytes", 0xFFFF)
	}
	opts.mask(slab)
	return offsets, slab, nil
}

// ReadTable reads a table of n strings from r.
func ReadTable(r *bin.Reader, n int, opts Options) ([]string, error) {
	offsets := bin.ReadArray[uint16](r, n)
	size := r.U16()
	start := r.Pos()
	slab := r.Bytes(int(size))
	if r.Err() != nil {
		return nil, r.Err()
	}
	strs, err := Decode(offsets, slab, opts)
	if r.FailAt(start, err) {
		return nil, r.Err()
	}
	return strs, nil
}

// WriteTable writes a table holding strs to w.
func WriteTable(w *bin.Writer, strs []string, opts Options) error {
	offsets, slab, err := Encode(strs, opts)
	if w.Fail(err) {
		return w.Err()
	}
	bin.WriteArray(w, offsets)
	w.PutU16(uint16(len(slab)))
	w.PutBytes(slab)
	return w.Err()
}

////////////////////////////////////////////////////////////////

// Strings whose markers do not follow the general rules.
var accentExceptions = map[string]string{
	"Red)marrer un niveau": "Redémarrer un niveau",
}

type accentRule struct {
	marker string
	mark   string
	from   *regexp.Regexp
	to     *regexp.Regexp
}

// Markers precede the letter they apply to.
var accentRules = []accentRule{
	{marker: ")", mark: "\u0301"},
	{marker: "(", mark: "\u0302"},
	{marker: "$", mark: "\u0300"},
	{marker: "~", mark: "\u0308"},
}

const letter = `[\pL\pN_]`

func init() {
	for i := range accentRules {
		r := &accentRules[i]
		r.from = regexp.MustCompile(regexp.QuoteMeta(r.marker) + `(` + letter + `)`)
		r.to = regexp.MustCompile(`(` + letter + `)` + r.mark)
	}
}

// NormalizeAccents trims s and converts accent markers to precomposed
// characters: ")e" becomes "é", "(e" becomes "ê", "$e" becomes "è", "~e"
// becomes "ë", and "=" becomes "ß".
func NormalizeAccents(s string) string {
	s = strings.TrimSpace(s)
	if v, ok := accentExceptions[s]; ok {
		return v
	}
	for _, r := range accentRules {
		s = r.from.ReplaceAllString(s, "${1}"+r.mark)
	}
	s = strings.ReplaceAll(s, "=", "ß")
	return norm.NFC.String(s)
}

// DenormalizeAccents is the inverse of NormalizeAccents.
func DenormalizeAccents(s string) string {
	s = strings.TrimSpace(s)
	for k, v := range accentExceptions {
		if s == v {
			return k
		}
	}
	s = norm.NFD.String(s)
	for _, r := range accentRules {
		s = r.to.ReplaceAllString(s, strings.ReplaceAll(r.marker, "$", "$$")+"${1}")
	}
	s = strings.ReplaceAll(s, "ß", "=")
	// Recompose marks that have no marker.
	return norm.NFC.String(s)
}
