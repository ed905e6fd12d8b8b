package level

import (
	"github.com/trlevel/trfile"
	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
	"github.com/trlevel/trfile/pak"
)

// Encoder encodes rooms to bytes. Encoding never modifies the rooms.
type Encoder struct {
	// Generation selects the layouts of the encoded records.
	Generation trfile.Generation
	// Level is the zlib compression level of Gen4 room chunks. Zero selects
	// the default level.
	Level int
}

// EncodeRoom encodes a single room.
func (e Encoder) EncodeRoom(room *trfile.Room) ([]byte, error) {
	w := bin.NewWriter()
	encodeRoom(w, e.Generation, room)
	return w.Bytes()
}

// EncodeRooms encodes a list of rooms, prefixed with a 16-bit count.
func (e Encoder) EncodeRooms(rooms []trfile.Room) ([]byte, error) {
	w := bin.NewWriter()
	if bin.PutCount[uint16](w, len(rooms)) {
		e.writeRooms(w, rooms)
	}
	return w.Bytes()
}

func (e Encoder) writeRooms(w *bin.Writer, rooms []trfile.Room) {
	for i := range rooms {
		if encodeRoom(w, e.Generation, &rooms[i]); w.Err() != nil {
			return
		}
	}
}

// EncodeRoomChunk encodes the room chunk of a Gen4 or Gen5 level.
func (e Encoder) EncodeRoomChunk(chunk *RoomChunk) ([]byte, error) {
	if chunk == nil {
		return nil, errors.New("nil room chunk")
	}
	if e.Generation != trfile.Gen4 && e.Generation != trfile.Gen5 {
		return nil, errors.GenerationError{Record: "room chunk", Generation: e.Generation}
	}

	cw := bin.NewWriter()
	cw.PutU32(chunk.Unused)
	if e.Generation == trfile.Gen5 {
		bin.PutCount[uint32](cw, len(chunk.Rooms))
	} else {
		bin.PutCount[uint16](cw, len(chunk.Rooms))
	}
	e.writeRooms(cw, chunk.Rooms)
	cw.PutBytes(chunk.Rest)
	p, err := cw.Bytes()
	if err != nil {
		return nil, err
	}

	w := bin.NewWriter()
	if e.Generation == trfile.Gen4 {
		pak.WriteChunk(w, p, e.Level)
	} else {
		bin.PutCount[uint32](w, len(p))
		bin.PutCount[uint32](w, len(p))
		w.PutBytes(p)
	}
	return w.Bytes()
}
