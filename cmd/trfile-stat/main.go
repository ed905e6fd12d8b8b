// The trfile-stat command displays stats for room, gameflow and language data.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/level"
	"github.com/trlevel/trfile/pak"
	"github.com/trlevel/trfile/script"
)

const usage = `usage: trfile-stat [-gen GEN] [-kind KIND] [-dump] [-psx] [-beta] [INPUT] [OUTPUT]

Reads data of the given KIND from INPUT, and writes to OUTPUT statistics for
the data, as JSON. KIND is one of:

	rooms     A room list of generation GEN, prefixed with a 16-bit count.
	chunk     The room chunk of a TR4 or TR5 level.
	gameflow  A TR2 or TR3 gameflow script. -psx and -beta select the
	          PlayStation layouts.
	language  A TR4 or TR5 language file.

GEN is one of TR1, TR1UB, TR2, TR3, TR4 or TR5, and defaults to TR1. With
-dump, rooms are written to OUTPUT in a readable form instead.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

// RoomStats summarizes a list of rooms.
type RoomStats struct {
	RoomCount int

	// Number of records overall.
	VertexCount     int
	QuadCount       int
	TriangleCount   int
	SpriteCount     int
	PortalCount     int
	SectorCount     int
	LightCount      int
	StaticMeshCount int

	// Number of rooms with bytes between their geometry and portals.
	PaddedRooms int `json:",omitempty"`

	// Number of lights per type.
	LightTypeCount map[string]int

	// Number of rooms per reverb type.
	ReverbCount map[string]int

	// Number of rooms per set flag bit.
	FlagCount map[string]int `json:",omitempty"`
}

func (s *RoomStats) Fill(rooms []trfile.Room) {
	s.RoomCount = len(rooms)
	s.LightTypeCount = map[string]int{}
	s.ReverbCount = map[string]int{}
	s.FlagCount = map[string]int{}
	for i := range rooms {
		room := &rooms[i]
		s.VertexCount += len(room.Vertices)
		s.QuadCount += len(room.Quads)
		s.TriangleCount += len(room.Triangles)
		s.SpriteCount += len(room.Sprites)
		s.PortalCount += len(room.Portals)
		s.SectorCount += len(room.Sectors)
		s.LightCount += len(room.Lights)
		s.StaticMeshCount += len(room.StaticMeshes)
		if len(room.GeometryPadding) > 0 {
			s.PaddedRooms++
		}
		for _, l := range room.Lights {
			s.LightTypeCount[l.Type.String()]++
		}
		s.ReverbCount[room.Reverb.String()]++
		for bit := 0; bit < 16; bit++ {
			if f := trfile.RoomFlags(1 << bit); room.Flags.Has(f) {
				s.FlagCount[fmt.Sprintf("%04X", uint16(f))]++
			}
		}
	}
}

// GameflowStats summarizes a gameflow script.
type GameflowStats struct {
	Version     uint32
	Description string
	Locale      string
	Obfuscated  bool

	LevelCount      int
	PictureCount    int
	TitleCount      int
	FMVCount        int
	CutsceneCount   int
	DemoLevelCount  int
	GameStringCount int

	// Number of opcodes per command over every script slot.
	CommandCount map[string]int
}

func (s *GameflowStats) Fill(g *script.Gameflow) {
	s.Version = g.Version
	s.Description = g.Description
	s.Locale = g.Locale.String()
	s.Obfuscated = g.Flags&script.UseSecurityTag != 0
	s.LevelCount = len(g.LevelNames)
	s.PictureCount = len(g.PictureFiles)
	s.TitleCount = len(g.TitleFiles)
	s.FMVCount = len(g.FMVFiles)
	s.CutsceneCount = len(g.CutsceneFiles)
	s.DemoLevelCount = len(g.DemoLevels)
	s.GameStringCount = len(g.GameStrings)
	s.CommandCount = map[string]int{}
	for _, slot := range g.Script {
		for _, op := range slot {
			s.CommandCount[op.Command.String()]++
		}
	}
}

// LanguageStats summarizes a language file.
type LanguageStats struct {
	GenericCount int
	PSXCount     int
	PCCount      int

	// Length in bytes of the longest string.
	LongestString int
}

func (s *LanguageStats) Fill(l *script.Language) {
	s.GenericCount = len(l.Generic)
	s.PSXCount = len(l.PSX)
	s.PCCount = len(l.PC)
	for _, str := range l.Strings() {
		if len(str) > s.LongestString {
			s.LongestString = len(str)
		}
	}
}

type Stats struct {
	Kind       string
	Generation string `json:",omitempty"`

	// Size and digests of the input.
	Size     int
	Checksum string
	Digest   string

	Warnings []string `json:",omitempty"`

	Rooms    *RoomStats     `json:",omitempty"`
	Gameflow *GameflowStats `json:",omitempty"`
	Language *LanguageStats `json:",omitempty"`
}

func (s *Stats) Source(b []byte) {
	s.Size = len(b)
	s.Checksum = strconv.FormatUint(pak.Checksum(b), 16)
	sum := pak.Sum(b)
	s.Digest = hex.EncodeToString(sum[:])
}

func (s *Stats) Warn(warn error) {
	if warn != nil {
		s.Warnings = append(s.Warnings, warn.Error())
	}
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	genName := flag.String("gen", trfile.Gen1.String(), "generation of room data")
	kind := flag.String("kind", "rooms", "kind of data")
	dump := flag.Bool("dump", false, "dump rooms instead of stats")
	psx := flag.Bool("psx", false, "gameflow uses the PlayStation layout")
	beta := flag.Bool("beta", false, "gameflow uses the PlayStation beta layout")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	gen, err := trfile.ParseGeneration(*genName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

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

	stats := Stats{Kind: *kind}
	stats.Source(b)
	var warn error
	var rooms []trfile.Room
	d := level.Decoder{Generation: gen}
	switch *kind {
	case "rooms":
		stats.Generation = gen.String()
		rooms, warn, err = d.DecodeRooms(b)
	case "chunk":
		stats.Generation = gen.String()
		var chunk *level.RoomChunk
		if chunk, warn, err = d.DecodeRoomChunk(b); chunk != nil {
			rooms = chunk.Rooms
		}
	case "gameflow":
		var g *script.Gameflow
		if g, warn, err = script.DecodeGameflow(b, script.GameflowOptions{PSX: *psx, Beta: *beta}); g != nil {
			stats.Gameflow = &GameflowStats{}
			stats.Gameflow.Fill(g)
		}
	case "language":
		var l *script.Language
		if l, warn, err = script.DecodeLanguage(b); l != nil {
			stats.Language = &LanguageStats{}
			stats.Language.Fill(l)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		return
	}
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
		return
	}
	stats.Warn(warn)

	if *dump {
		if err := level.Dump(output, rooms); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
		}
		return
	}
	if *kind == "rooms" || *kind == "chunk" {
		stats.Rooms = &RoomStats{}
		stats.Rooms.Fill(rooms)
	}

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
	}
}
