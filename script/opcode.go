// Package script implements the gameflow script formats: the opcode streams
// that sequence each level, the gameflow file of Gen2 and Gen3 that holds
// them, and the language files of Gen4.
//
// Commands are numbered differently in memory than on disk. The end marker
// has no logical command, and the on-disk StartInv command is split into two
// logical commands: Bonus, for operands below 1000, and StartInv, for operands
// of 1000 and above, which are stored with the offset removed.
package script

import (
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
)

// Command is the logical index of a script command.
type Command uint16

const (
	Picture        Command = iota // Unused.
	PSXTrack                      // Unused.
	PSXFMV                        // Unused.
	FMV                           // Plays a video.
	Game                          // Starts a playable level.
	Cut                           // Plays a cutscene.
	Complete                      // Shows level statistics.
	Demo                          // Plays a demo.
	PSXDemo                       // Unused.
	Track                         // Plays a soundtrack.
	Sunset                        // No visible effect.
	LoadPic                       // Unused.
	DeadlyWater                   // No visible effect.
	RemoveWeapons                 // Starts the level without weapons.
	GameComplete                  // Ends the game.
	CutAngle                      // Orients a cutscene.
	NoFloor                       // Kills when falling below a depth.
	Bonus                         // Gives an item when all secrets are found.
	StartInv                      // Gives an item at the start of the level.
	StartAnim                     // Plays an animation at the start of the level.
	Secrets                       // Sets the number of secrets.
	KillToComplete                // Requires killing every enemy.
	RemoveAmmo                    // Starts the level without ammunition.
)

// CommandCount is the number of logical commands.
const CommandCount = int(RemoveAmmo) + 1

var commands = [CommandCount]struct {
	name    string
	operand bool
}{
	Picture:        {"Picture", true},
	PSXTrack:       {"PSXTrack", true},
	PSXFMV:         {"PSXFMV", true},
	FMV:            {"FMV", true},
	Game:           {"Game", true},
	Cut:            {"Cut", true},
	Complete:       {"Complete", false},
	Demo:           {"Demo", true},
	PSXDemo:        {"PSXDemo", true},
	Track:          {"Track", true},
	Sunset:         {"Sunset", false},
	LoadPic:        {"LoadPic", true},
	DeadlyWater:    {"DeadlyWater", false},
	RemoveWeapons:  {"RemoveWeapons", false},
	GameComplete:   {"GameComplete", false},
	CutAngle:       {"CutAngle", true},
	NoFloor:        {"NoFloor", true},
	Bonus:          {"Bonus", true},
	StartInv:       {"StartInv", true},
	StartAnim:      {"StartAnim", true},
	Secrets:        {"Secrets", true},
	KillToComplete: {"KillToComplete", false},
	RemoveAmmo:     {"RemoveAmmo", false},
}

// Valid returns whether the command is defined.
func (c Command) Valid() bool {
	return int(c) < CommandCount
}

// String returns the name of the command. If the command is not valid, then
// the returned value will be "Invalid".
func (c Command) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return commands[c].name
}

// HasOperand returns whether the command is followed by an operand.
func (c Command) HasOperand() bool {
	return c.Valid() && commands[c].operand
}

const (
	// Closes a slot.
	rawEnd = 9
	// Number of on-disk command ids, including the end marker.
	rawCount = 23
	// Added to the operand of a StartInv command on disk.
	startInvOffset = 1000
)

func fromRaw(raw uint16) (Command, error) {
	if raw >= rawCount {
		return 0, errors.Wrapf(errors.ErrCorruptRecord, "undefined opcode %d", raw)
	}
	c := raw
	if c > rawEnd {
		c--
	}
	if c >= uint16(StartInv) {
		c++
	}
	return Command(c), nil
}

func toRaw(c Command) uint16 {
	raw := uint16(c)
	if c > StartInv {
		raw--
	}
	if raw >= rawEnd {
		raw++
	}
	return raw
}

// Opcode is a single command of a slot.
type Opcode struct {
	Command Command
	// Operand is the argument of the command. It is zero for commands without
	// an operand, and is ignored when such a command is encoded.
	Operand uint16
}

// DecodeSlot reads opcodes from r up to and including the end marker.
func DecodeSlot(r *bin.Reader) ([]Opcode, error) {
	var ops []Opcode
	for {
		off := r.Pos()
		raw := r.U16()
		if r.Err() != nil {
			return nil, r.Err()
		}
		if raw == rawEnd {
			return ops, nil
		}
		c, err := fromRaw(raw)
		if r.FailAt(off, err) {
			return nil, r.Err()
		}
		op := Opcode{Command: c}
		if c.HasOperand() {
			if op.Operand = r.U16(); r.Err() != nil {
				return nil, r.Err()
			}
			if c == Bonus && op.Operand >= startInvOffset {
				op.Command = StartInv
				op.Operand -= startInvOffset
			}
		}
		ops = append(ops, op)
	}
}

// EncodeSlot writes ops to w, followed by the end marker.
func EncodeSlot(w *bin.Writer, ops []Opcode) error {
	for i, op := range ops {
		c, v := op.Command, op.Operand
		switch c {
		case Bonus:
			if v >= startInvOffset {
				w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "opcode %d: %s operand %d is not below %d", i, c, v, startInvOffset))
				return w.Err()
			}
		case StartInv:
			if v > 0xFFFF-startInvOffset {
				w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "opcode %d: %s operand %d exceeds %d", i, c, v, 0xFFFF-startInvOffset))
				return w.Err()
			}
			c, v = Bonus, v+startInvOffset
		}
		if !c.Valid() {
			w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "opcode %d: undefined command %d", i, uint16(c)))
			return w.Err()
		}
		w.PutU16(toRaw(c))
		if c.HasOperand() {
			w.PutU16(v)
		}
	}
	w.PutU16(rawEnd)
	return w.Err()
}
