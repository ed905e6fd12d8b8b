package script

import (
	"bytes"
	"fmt"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/strtab"
)

// Flags are the options of a gameflow.
type Flags uint16

const (
	DemoVersion Flags = 1 << iota
	TitleDisabled
	CheatModeCheckDisabled
	NoInputTimeout
	LoadSaveDisabled
	ScreenSizingDisabled
	LockOutOptionRing
	DozyCheatEnabled
	UseSecurityTag // Obfuscate the header strings with the cypher code.
	GymEnabled
	SelectAnyLevel
	EnableCheatKey
)

// Locale is the language a gameflow is written for.
type Locale uint8

const (
	English Locale = iota
	French
	German
	American
	Japanese
	Italian
	Spanish
)

var localeStrings = map[Locale]string{
	English:  "English",
	French:   "French",
	German:   "German",
	American: "American",
	Japanese: "Japanese",
	Italian:  "Italian",
	Spanish:  "Spanish",
}

// String returns the name of the locale. If the locale is not valid, then the
// returned value will be "Invalid".
func (l Locale) String() string {
	s, ok := localeStrings[l]
	if !ok {
		return "Invalid"
	}
	return s
}

// FMVInfo is the frame range of a video on the PSX.
type FMVInfo struct {
	Start uint32
	End   uint32
}

// Gameflow is the gameflow file of Gen2 and Gen3 (TOMBPC.DAT and its PSX
// counterpart).
type Gameflow struct {
	Version     uint32
	Description string

	FirstOption     uint32
	TitleReplace    int32
	OnDeathDemoMode uint32
	OnDeathInGame   uint32
	NoInputTime     uint32
	OnDemoInterrupt uint32
	OnDemoEnd       uint32
	TitleTrack      uint16
	SingleLevel     uint16
	Flags           Flags
	CypherCode      byte
	Locale          Locale
	SecretTrack     uint16

	// Reserved bytes of the gameflow block, kept so that unmodified files
	// encode unchanged.
	Reserved1 [36]byte
	Reserved2 [32]byte
	Reserved3 [6]byte
	Reserved4 [4]byte

	LevelNames    []string
	PictureFiles  []string
	TitleFiles    []string
	FMVFiles      []string
	LevelFiles    []string
	CutsceneFiles []string

	// Script holds one slot for the frontend, followed by one slot per level.
	Script [][]Opcode

	DemoLevels []uint16
	// PSXFMVs holds one entry per FMV file. PSX only.
	PSXFMVs []FMVInfo

	GameStrings []string
	// PlatformStrings are the PC or PSX specific strings.
	PlatformStrings []string

	// Each table holds one string per level.
	Puzzles [4][]string
	Secrets [4][]string // PSX beta only.
	Special [2][]string // PSX beta only.
	Pickups [2][]string
	Keys    [4][]string
}

// GameflowOptions selects the platform variant of a gameflow.
type GameflowOptions struct {
	PSX bool
	// Beta selects the layout of the Gen2 PSX beta. Requires PSX.
	Beta bool
}

func (o GameflowOptions) platformStrings() int {
	switch {
	case o.PSX && o.Beta:
		return 79
	case o.PSX:
		return 80
	default:
		return 41
	}
}

func (o GameflowOptions) beta() bool {
	return o.PSX && o.Beta
}

const (
	descriptionSize = 256
	gameflowSize    = 128
)

// Padding of tables that have fewer strings than required.
const spare = "spare"

func (g *Gameflow) headerOptions() strtab.Options {
	o := strtab.Options{Accents: true}
	if g.Flags&UseSecurityTag != 0 {
		o.Key = g.CypherCode
	}
	return o
}

func (g *Gameflow) stringOptions() strtab.Options {
	return strtab.Options{Key: g.CypherCode, Accents: true}
}

// DecodeGameflow decodes a gameflow file. Bytes that follow the last table
// are reported as a warning.
func DecodeGameflow(b []byte, opts GameflowOptions) (g *Gameflow, warn, err error) {
	r := bin.NewReader(b)
	g = &Gameflow{}
	var warns errors.Errors

	g.Version = r.U32()
	if desc := r.Bytes(descriptionSize); desc != nil {
		if i := bytes.IndexByte(desc, 0); i >= 0 {
			desc = desc[:i]
		}
		g.Description = string(desc)
	}
	off := r.Pos()
	if size := r.U16(); r.Err() == nil && size != gameflowSize {
		r.FailAt(off, errors.Wrapf(errors.ErrCorruptRecord, "gameflow block size %d, expected %d", size, gameflowSize))
	}

	g.FirstOption = r.U32()
	g.TitleReplace = r.I32()
	g.OnDeathDemoMode = r.U32()
	g.OnDeathInGame = r.U32()
	g.NoInputTime = r.U32()
	g.OnDemoInterrupt = r.U32()
	g.OnDemoEnd = r.U32()
	copy(g.Reserved1[:], r.Bytes(len(g.Reserved1)))
	numLevels := int(r.U16())
	numPictures := int(r.U16())
	numTitles := int(r.U16())
	numFMVs := int(r.U16())
	numCutscenes := int(r.U16())
	numDemos := int(r.U16())
	g.TitleTrack = r.U16()
	g.SingleLevel = r.U16()
	copy(g.Reserved2[:], r.Bytes(len(g.Reserved2)))
	g.Flags = Flags(r.U16())
	copy(g.Reserved3[:], r.Bytes(len(g.Reserved3)))
	g.CypherCode = r.U8()
	g.Locale = Locale(r.U8())
	g.SecretTrack = r.U16()
	copy(g.Reserved4[:], r.Bytes(len(g.Reserved4)))
	if r.Err() != nil {
		return nil, nil, r.Err()
	}

	table := func(dst *[]string, n int, o strtab.Options) {
		if r.Err() != nil {
			return
		}
		strs, err := strtab.ReadTable(r, n, o)
		if r.Fail(err) {
			return
		}
		*dst = strs
	}

	ho := g.headerOptions()
	table(&g.LevelNames, numLevels, ho)
	table(&g.PictureFiles, numPictures, ho)
	table(&g.TitleFiles, numTitles, ho)
	table(&g.FMVFiles, numFMVs, ho)
	table(&g.LevelFiles, numLevels, ho)
	table(&g.CutsceneFiles, numCutscenes, ho)
	if r.Err() != nil {
		return nil, nil, r.Err()
	}

	script, scriptWarn, err := DecodeScript(r, numLevels+1)
	if err != nil {
		return nil, nil, err
	}
	g.Script = script

	g.DemoLevels = bin.ReadArray[uint16](r, numDemos)
	if opts.PSX && numFMVs > 0 {
		g.PSXFMVs = make([]FMVInfo, numFMVs)
		for i := range g.PSXFMVs {
			g.PSXFMVs[i] = FMVInfo{Start: r.U32(), End: r.U32()}
		}
	}

	so := g.stringOptions()
	table(&g.GameStrings, int(r.U16()), so)
	table(&g.PlatformStrings, opts.platformStrings(), so)
	for i := range g.Puzzles {
		table(&g.Puzzles[i], numLevels, so)
	}
	if opts.beta() {
		for i := range g.Secrets {
			table(&g.Secrets[i], numLevels, so)
		}
		for i := range g.Special {
			table(&g.Special[i], numLevels, so)
		}
	}
	for i := range g.Pickups {
		table(&g.Pickups[i], numLevels, so)
	}
	for i := range g.Keys {
		table(&g.Keys[i], numLevels, so)
	}
	if r.Err() != nil {
		return nil, nil, r.Err()
	}

	if n := r.Remaining(); n > 0 {
		warns = warns.Append(errors.DataError{
			Offset: r.Pos(),
			Cause:  fmt.Errorf("%d bytes after end of gameflow", n),
		})
	}
	return g, errors.Union(scriptWarn, warns.Return()), nil
}

// resize returns strs extended to n strings with pad, or an error if strs has
// more than n strings.
func resize(name string, strs []string, n int, pad string) ([]string, error) {
	if len(strs) > n {
		return nil, errors.Wrapf(errors.ErrCorruptRecord, "%s: %d strings, expected at most %d", name, len(strs), n)
	}
	out := make([]string, n)
	copy(out, strs)
	for i := len(strs); i < n; i++ {
		out[i] = pad
	}
	return out, nil
}

// Encode returns the encoded gameflow. Per-level tables with fewer strings
// than there are levels are padded with placeholder names, and missing
// script slots are encoded empty.
func (g *Gameflow) Encode(opts GameflowOptions) ([]byte, error) {
	w := bin.NewWriter()
	numLevels := len(g.LevelNames)

	if len(g.Description) > descriptionSize {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "description exceeds %d bytes", descriptionSize))
		return nil, w.Err()
	}
	if len(g.LevelFiles) != numLevels {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "%d level files for %d levels", len(g.LevelFiles), numLevels))
		return nil, w.Err()
	}
	if len(g.Script) > numLevels+1 {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "%d script slots for %d levels", len(g.Script), numLevels))
		return nil, w.Err()
	}
	if opts.PSX && len(g.PSXFMVs) > len(g.FMVFiles) {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "%d PSX FMV entries for %d files", len(g.PSXFMVs), len(g.FMVFiles)))
		return nil, w.Err()
	}

	w.PutU32(g.Version)
	w.PutString(g.Description)
	w.Pad(descriptionSize-len(g.Description), 0)
	w.PutU16(gameflowSize)

	w.PutU32(g.FirstOption)
	w.PutI32(g.TitleReplace)
	w.PutU32(g.OnDeathDemoMode)
	w.PutU32(g.OnDeathInGame)
	w.PutU32(g.NoInputTime)
	w.PutU32(g.OnDemoInterrupt)
	w.PutU32(g.OnDemoEnd)
	w.PutBytes(g.Reserved1[:])
	bin.PutCount[uint16](w, numLevels)
	bin.PutCount[uint16](w, len(g.PictureFiles))
	bin.PutCount[uint16](w, len(g.TitleFiles))
	bin.PutCount[uint16](w, len(g.FMVFiles))
	bin.PutCount[uint16](w, len(g.CutsceneFiles))
	bin.PutCount[uint16](w, len(g.DemoLevels))
	w.PutU16(g.TitleTrack)
	w.PutU16(g.SingleLevel)
	w.PutBytes(g.Reserved2[:])
	w.PutU16(uint16(g.Flags))
	w.PutBytes(g.Reserved3[:])
	w.PutU8(g.CypherCode)
	w.PutU8(uint8(g.Locale))
	w.PutU16(g.SecretTrack)
	w.PutBytes(g.Reserved4[:])
	if w.Err() != nil {
		return nil, w.Err()
	}

	ho := g.headerOptions()
	for _, strs := range [][]string{
		g.LevelNames,
		g.PictureFiles,
		g.TitleFiles,
		g.FMVFiles,
		g.LevelFiles,
		g.CutsceneFiles,
	} {
		if err := strtab.WriteTable(w, strs, ho); err != nil {
			return nil, err
		}
	}

	slots := make([][]Opcode, numLevels+1)
	copy(slots, g.Script)
	if err := EncodeScript(w, slots); err != nil {
		return nil, err
	}
	bin.WriteArray(w, g.DemoLevels)
	if opts.PSX {
		for i := range g.FMVFiles {
			var fmv FMVInfo
			if i < len(g.PSXFMVs) {
				fmv = g.PSXFMVs[i]
			}
			w.PutU32(fmv.Start)
			w.PutU32(fmv.End)
		}
	}

	so := g.stringOptions()
	bin.PutCount[uint16](w, len(g.GameStrings))
	if err := strtab.WriteTable(w, g.GameStrings, so); err != nil {
		return nil, err
	}

	type table struct {
		name string
		strs []string
		n    int
		pad  string
	}
	tables := []table{{"platform strings", g.PlatformStrings, opts.platformStrings(), spare}}
	for i, strs := range g.Puzzles {
		tables = append(tables, table{fmt.Sprintf("puzzle %d", i+1), strs, numLevels, fmt.Sprintf("P%d", i+1)})
	}
	if opts.beta() {
		for i, strs := range g.Secrets {
			tables = append(tables, table{fmt.Sprintf("secret %d", i+1), strs, numLevels, fmt.Sprintf("S%d", i+1)})
		}
		for i, strs := range g.Special {
			tables = append(tables, table{fmt.Sprintf("special %d", i+1), strs, numLevels, fmt.Sprintf("S%d", i+1)})
		}
	}
	for i, strs := range g.Pickups {
		tables = append(tables, table{fmt.Sprintf("pickup %d", i+1), strs, numLevels, fmt.Sprintf("P%d", i+1)})
	}
	for i, strs := range g.Keys {
		tables = append(tables, table{fmt.Sprintf("key %d", i+1), strs, numLevels, fmt.Sprintf("K%d", i+1)})
	}
	for _, t := range tables {
		strs, err := resize(t.name, t.strs, t.n, t.pad)
		if w.Fail(err) {
			return nil, w.Err()
		}
		if err := strtab.WriteTable(w, strs, so); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}
