// The trfile-dcomp command decompresses or compresses a PAK container.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/trlevel/trfile/pak"
)

const usage = `usage: trfile-dcomp [-c] [-m METHOD] [-level N] [INPUT] [OUTPUT]

Reads a PAK container from INPUT, and writes to OUTPUT its uncompressed
content. With -c, reads raw data from INPUT, and writes to OUTPUT a container
holding it.

METHOD is one of zlib, lz4 or zstd, and defaults to zlib, the method used by
the game files. N is passed to the compressor, where zero selects the default
level.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	compress := flag.Bool("c", false, "compress instead of decompress")
	method := flag.String("m", pak.Zlib.String(), "compression method")
	level := flag.Int("level", 0, "compression level")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	m, err := pak.ParseMethod(*method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	codec := pak.Codec{Method: m, Level: *level}

	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			return
		}
		defer out.Close()
		defer func() {
			err := out.Sync()
			if err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("sync output: %w", err))
				return
			}
		}()
		output = out
	}

	b, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
		return
	}
	if *compress {
		b, err = codec.Compress(b)
	} else {
		b, err = codec.Decompress(b)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %w", err))
		return
	}
	if _, err := output.Write(b); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write output: %w", err))
	}
}
