package script

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"

	"github.com/trlevel/trfile/errors"
)

func names(n int, format string) []string {
	strs := make([]string, n)
	for i := range strs {
		strs[i] = fmt.Sprintf(format, i+1)
	}
	return strs
}

func testGameflow(opts GameflowOptions) *Gameflow {
	g := &Gameflow{
		Version:         3,
		Description:     "Tomb Raider II Script. Final Release Version 1.1",
		FirstOption:     0x500,
		TitleReplace:    -1,
		OnDeathDemoMode: 0x500,
		NoInputTime:     9000,
		OnDemoInterrupt: 0x500,
		OnDemoEnd:       0x500,
		TitleTrack:      64,
		SingleLevel:     0xFFFF,
		Flags:           UseSecurityTag | GymEnabled,
		CypherCode:      0xA6,
		Locale:          French,
		SecretTrack:     47,

		LevelNames:    []string{"Lara's Home", "Opéra House"},
		PictureFiles:  []string{"data/legal.pcx"},
		TitleFiles:    []string{"data/title.tr2"},
		FMVFiles:      []string{"fmv/logo.rpl", "fmv/ancient.rpl"},
		LevelFiles:    []string{"data/assault.tr2", "data/opera.tr2"},
		CutsceneFiles: []string{"data/cut1.tr2"},
		Script: [][]Opcode{
			{{FMV, 0}, {FMV, 1}},
			{{Track, 0}, {Game, 0}, {Secrets, 0}, {RemoveWeapons, 0}},
			{{Track, 33}, {Game, 1}, {Bonus, 12}, {StartInv, 3}, {Complete, 0}},
		},
		DemoLevels:      []uint16{1},
		GameStrings:     []string{"INVENTORY", "OPTION", "ITEMS"},
		PlatformStrings: names(opts.platformStrings(), "spare %d"),
	}
	g.Reserved1[0] = 0xFF
	for i := range g.Puzzles {
		g.Puzzles[i] = names(2, fmt.Sprintf("Puzzle %d.%%d", i))
	}
	for i := range g.Pickups {
		g.Pickups[i] = names(2, fmt.Sprintf("Pickup %d.%%d", i))
	}
	for i := range g.Keys {
		g.Keys[i] = names(2, fmt.Sprintf("Key %d.%%d", i))
	}
	if opts.PSX {
		g.PSXFMVs = []FMVInfo{{0, 120}, {121, 2000}}
	}
	if opts.beta() {
		for i := range g.Secrets {
			g.Secrets[i] = names(2, "Secret %d")
		}
		for i := range g.Special {
			g.Special[i] = names(2, "Special %d")
		}
	}
	return g
}

func TestGameflowRoundTrip(t *testing.T) {
	for _, opts := range []GameflowOptions{
		{},
		{PSX: true},
		{PSX: true, Beta: true},
	} {
		g := testGameflow(opts)
		b, err := g.Encode(opts)
		if err != nil {
			t.Fatalf("%+v: %s", opts, err)
		}
		got, warn, err := DecodeGameflow(b, opts)
		if err != nil {
			t.Fatalf("%+v: %s", opts, err)
		}
		if warn != nil {
			t.Errorf("%+v: unexpected warning: %s", opts, warn)
		}
		if !reflect.DeepEqual(got, g) {
			t.Errorf("%+v: decoded gameflow differs\ngot:  %+v\nwant: %+v", opts, got, g)
		}
		c, err := got.Encode(opts)
		if err != nil {
			t.Fatalf("%+v: %s", opts, err)
		}
		if !bytes.Equal(b, c) {
			t.Errorf("%+v: re-encoding changed the file", opts)
		}
	}
}

func TestGameflowSecurityTag(t *testing.T) {
	g := testGameflow(GameflowOptions{})
	b, err := g.Encode(GameflowOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(b, []byte("data/opera.tr2")) {
		t.Error("expected header strings to be obfuscated")
	}

	g.Flags &^= UseSecurityTag
	b, err = g.Encode(GameflowOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("data/opera.tr2\x00")) {
		t.Error("expected plain header strings")
	}
	if !bytes.Contains(b, []byte("Op)era House\x00")) {
		t.Error("expected accent markers in level name")
	}
	if bytes.Contains(b, []byte("INVENTORY")) {
		t.Error("expected game strings to be obfuscated")
	}
}

func TestGameflowPadding(t *testing.T) {
	g := testGameflow(GameflowOptions{})
	g.Puzzles[3] = nil
	g.PlatformStrings = nil
	g.Script = g.Script[:1]
	b, err := g.Encode(GameflowOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := DecodeGameflow(b, GameflowOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Puzzles[3], []string{"P4", "P4"}) {
		t.Errorf("unexpected puzzle names %q", got.Puzzles[3])
	}
	if len(got.PlatformStrings) != 41 || got.PlatformStrings[40] != spare {
		t.Errorf("unexpected platform strings %q", got.PlatformStrings)
	}
	if len(got.Script) != 3 || got.Script[2] != nil {
		t.Errorf("unexpected script %v", got.Script)
	}

	g.Keys[0] = names(3, "K%d")
	if _, err := g.Encode(GameflowOptions{}); !errors.Is(err, errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record for oversized table, got %v", err)
	}
}

func TestGameflowErrors(t *testing.T) {
	g := testGameflow(GameflowOptions{})
	b, err := g.Encode(GameflowOptions{})
	if err != nil {
		t.Fatal(err)
	}

	bad := append([]byte(nil), b...)
	bad[4+descriptionSize]++
	if _, _, err := DecodeGameflow(bad, GameflowOptions{}); !errors.Is(err, errors.ErrCorruptRecord) {
		t.Errorf("expected corrupt record for block size, got %v", err)
	}

	if _, _, err := DecodeGameflow(b[:len(b)-1], GameflowOptions{}); !errors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("expected truncated input, got %v", err)
	}

	_, warn, err := DecodeGameflow(append(b, 0), GameflowOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if warn == nil {
		t.Error("expected warning for trailing bytes")
	}
}

func TestLocaleString(t *testing.T) {
	if French.String() != "French" || Locale(200).String() != "Invalid" {
		t.Error("unexpected result from String")
	}
}
