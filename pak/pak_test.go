package pak

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
)

var payloads = [][]byte{
	{},
	[]byte("a"),
	[]byte("LARA"),
	bytes.Repeat([]byte("tomb raider "), 500),
}

func TestRoundTrip(t *testing.T) {
	for _, method := range []Method{Zlib, LZ4, Zstd} {
		c := Codec{Method: method}
		for _, p := range payloads {
			b, err := c.Compress(p)
			if err != nil {
				t.Fatalf("%s: compress %d bytes: %s", method, len(p), err)
			}
			if n, err := Length(b); err != nil || n != len(p) {
				t.Errorf("%s: unexpected length %d, %v", method, n, err)
			}
			q, err := c.Decompress(b)
			if err != nil {
				t.Fatalf("%s: decompress %d bytes: %s", method, len(p), err)
			}
			if !bytes.Equal(p, q) {
				t.Errorf("%s: unexpected result, got %d bytes, expected %d", method, len(q), len(p))
			}
		}
	}
}

func TestCompressEmpty(t *testing.T) {
	b, err := Compress(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b[:4], []byte{0, 0, 0, 0}) {
		t.Errorf("unexpected header % X", b[:4])
	}
	p, err := Decompress(b)
	if err != nil || len(p) != 0 {
		t.Errorf("unexpected result %v, %v", p, err)
	}
}

func TestDecompressFailure(t *testing.T) {
	b, err := Compress(bytes.Repeat([]byte{7}, 64))
	if err != nil {
		t.Fatal(err)
	}

	// Wrong size.
	bad := append([]byte(nil), b...)
	bad[0]++
	if _, err := Decompress(bad); !errors.Is(err, errors.ErrDecompressionFailure) {
		t.Errorf("expected decompression failure for size mismatch, got %v", err)
	}

	// Corrupt stream header.
	bad = append([]byte(nil), b...)
	bad[4] = 0xFF
	if _, err := Decompress(bad); !errors.Is(err, errors.ErrDecompressionFailure) {
		t.Errorf("expected decompression failure for corrupt stream, got %v", err)
	}

	// Truncated stream.
	if _, err := Decompress(b[:len(b)-6]); !errors.Is(err, errors.ErrDecompressionFailure) {
		t.Errorf("expected decompression failure for truncated stream, got %v", err)
	}

	if _, err := Decompress([]byte{1, 2}); !errors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input, got %v", err)
	}
}

func TestDecompressClaimedSize(t *testing.T) {
	for _, method := range []Method{LZ4, Zstd} {
		c := Codec{Method: method}
		b, err := c.Compress([]byte("LARA"))
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range []uint32{2, 0x10000000} {
			bad := append([]byte(nil), b...)
			binary.LittleEndian.PutUint32(bad, n)
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := c.Decompress(bad)
			runtime.ReadMemStats(&after)
			if !errors.Is(err, errors.ErrDecompressionFailure) {
				t.Errorf("%s: expected decompression failure for size %d, got %v", method, n, err)
			}
			if a := after.TotalAlloc - before.TotalAlloc; a > 1<<24 {
				t.Errorf("%s: allocated %d bytes for size %d", method, a, n)
			}
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	c := Codec{Method: Method(9)}
	if _, err := c.Compress([]byte("a")); !errors.Is(err, errUnknownMethod) {
		t.Errorf("expected unknown method, got %v", err)
	}
	if _, err := c.Decompress([]byte{1, 0, 0, 0, 0}); !errors.Is(err, errUnknownMethod) {
		t.Errorf("expected unknown method, got %v", err)
	}
}

func TestChunk(t *testing.T) {
	p := bytes.Repeat([]byte("XELA"), 100)
	w := bin.NewWriter()
	if err := WriteChunk(w, p, 9); err != nil {
		t.Fatal(err)
	}
	w.PutU8(0xAB)
	b, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	r := bin.NewReader(b)
	q, err := ReadChunk(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, q) {
		t.Errorf("unexpected chunk content")
	}
	if v := r.U8(); v != 0xAB {
		t.Errorf("chunk not fully consumed, next byte %02X", v)
	}

	b[0]++
	if _, err := ReadChunk(bin.NewReader(b)); !errors.Is(err, errors.ErrDecompressionFailure) {
		t.Errorf("expected decompression failure, got %v", err)
	}
	var derr errors.DataError
	if _, err := ReadChunk(bin.NewReader(b)); !errors.As(err, &derr) || derr.Offset != 8 {
		t.Errorf("expected error at offset 8, got %v", err)
	}
}

func TestSum(t *testing.T) {
	a := Sum([]byte("TR4"))
	b := Sum([]byte("TR5"))
	if a == b {
		t.Error("expected digests to differ")
	}
	if a != Sum([]byte("TR4")) {
		t.Error("expected digest to be stable")
	}
	if Checksum([]byte("TR4")) == Checksum([]byte("TR5")) {
		t.Error("expected checksums to differ")
	}
}

func TestMethodString(t *testing.T) {
	if LZ4.String() != "lz4" || Method(9).String() != "Invalid" {
		t.Error("unexpected result from String")
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{Zlib, LZ4, Zstd} {
		if got, err := ParseMethod(m.String()); err != nil || got != m {
			t.Errorf("unexpected method %s for %q: %v", got, m.String(), err)
		}
	}
	if _, err := ParseMethod("deflate"); !errors.Is(err, errUnknownMethod) {
		t.Errorf("expected unknown method, got %v", err)
	}
}
