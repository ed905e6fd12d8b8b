package level

import (
	"fmt"

	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/pak"
)

// Decoder decodes rooms from bytes.
type Decoder struct {
	// Generation selects the layouts of the decoded records.
	Generation trfile.Generation
}

// RoomChunk is the section of a Gen4 or Gen5 level that holds the rooms. Gen4
// stores it compressed.
type RoomChunk struct {
	// Unused is the word that precedes the room count.
	Unused uint32
	Rooms  []trfile.Room
	// Rest holds the data that follows the rooms within the chunk, such as
	// floor data and meshes.
	Rest []byte
}

func trailing(warn *errors.Errors, r *bin.Reader, what string) {
	if n := r.Remaining(); n > 0 {
		*warn = warn.Append(errors.DataError{
			Offset: r.Pos(),
			Cause:  fmt.Errorf("%d bytes after end of %s", n, what),
		})
	}
}

// DecodeRoom decodes a single room from b. Bytes that follow the room are
// reported as a warning.
func (d Decoder) DecodeRoom(b []byte) (room *trfile.Room, warn, err error) {
	r := bin.NewReader(b)
	var warns errors.Errors
	room = decodeRoom(r, d.Generation, &warns)
	if r.Err() != nil {
		return nil, warns.Return(), r.Err()
	}
	trailing(&warns, r, "room")
	return room, warns.Return(), nil
}

// DecodeRooms decodes a list of rooms from b, prefixed with a 16-bit count.
func (d Decoder) DecodeRooms(b []byte) (rooms []trfile.Room, warn, err error) {
	r := bin.NewReader(b)
	var warns errors.Errors
	n := int(r.U16())
	rooms, err = d.readRooms(r, n, &warns)
	if err != nil {
		return nil, warns.Return(), err
	}
	trailing(&warns, r, "room list")
	return rooms, warns.Return(), nil
}

func (d Decoder) readRooms(r *bin.Reader, n int, warn *errors.Errors) ([]trfile.Room, error) {
	if r.Err() != nil {
		return nil, r.Err()
	}
	var rooms []trfile.Room
	for i := 0; i < n; i++ {
		room := decodeRoom(r, d.Generation, warn)
		if r.Err() != nil {
			return nil, errors.Wrapf(r.Err(), "room %d", i)
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

// DecodeRoomChunk decodes the room chunk of a Gen4 or Gen5 level. Gen4
// chunks are zlib compressed, and count rooms with 16 bits. Gen5 chunks are
// stored uncompressed, and count rooms with 32 bits.
func (d Decoder) DecodeRoomChunk(b []byte) (chunk *RoomChunk, warn, err error) {
	r := bin.NewReader(b)
	var warns errors.Errors
	var cr *bin.Reader
	switch d.Generation {
	case trfile.Gen4:
		p, err := pak.ReadChunk(r)
		if err != nil {
			return nil, nil, err
		}
		cr = bin.NewReader(p)
	case trfile.Gen5:
		size := r.U32()
		if stored := r.U32(); r.Err() == nil && stored != size {
			r.FailAt(4, errors.Wrapf(errors.ErrCorruptRecord, "stored size %d does not match %d", stored, size))
			return nil, nil, r.Err()
		}
		cr = r.Sub(int(size))
	default:
		return nil, nil, errors.GenerationError{Record: "room chunk", Generation: d.Generation}
	}

	chunk = &RoomChunk{}
	var n int
	if d.Generation == trfile.Gen5 {
		chunk.Unused = check(&warns, cr, "unused", 0)
		n = int(cr.U32())
	} else {
		chunk.Unused = cr.U32()
		n = int(cr.U16())
	}
	if chunk.Rooms, err = d.readRooms(cr, n, &warns); err != nil {
		return nil, warns.Return(), err
	}
	if cr.Remaining() > 0 {
		chunk.Rest = cr.Bytes(cr.Remaining())
	}
	trailing(&warns, r, "room chunk")
	return chunk, warns.Return(), nil
}
