package script

import (
	"fmt"

	"github.com/trlevel/trfile/bin"
	"github.com/trlevel/trfile/errors"
)

// DecodeScript reads a script section of n slots from r.
//
// The section starts with n+1 byte offsets, relative to the end of the offset
// list. Slot i spans from offset i to offset i+1, and the last offset is the
// size of the slot data. Words that follow the end marker of a slot are
// reported as warnings.
func DecodeScript(r *bin.Reader, n int) (slots [][]Opcode, warn, err error) {
	offsets := bin.ReadArray[uint16](r, n+1)
	if r.Err() != nil {
		return nil, nil, r.Err()
	}
	base := r.Pos()
	var warns errors.Errors
	slots = make([][]Opcode, n)
	for i := range slots {
		start, end := int64(offsets[i]), int64(offsets[i+1])
		if end < start {
			r.Fail(errors.Wrapf(errors.ErrCorruptRecord, "offset %d of slot %d precedes %d", end, i+1, start))
			return nil, nil, r.Err()
		}
		s := r.Fork(base + start).Sub(int(end - start))
		if slots[i], err = DecodeSlot(s); r.Fail(err) {
			return nil, nil, r.Err()
		}
		if s.Remaining() > 0 {
			warns = warns.Append(errors.DataError{
				Offset: s.Pos(),
				Cause:  fmt.Errorf("slot %d: %d bytes after end marker", i, s.Remaining()),
			})
		}
	}
	r.SkipTo(base + int64(offsets[n]))
	if r.Err() != nil {
		return nil, nil, r.Err()
	}
	return slots, warns.Return(), nil
}

// EncodeScript writes a script section holding slots to w.
func EncodeScript(w *bin.Writer, slots [][]Opcode) error {
	data := bin.NewWriter()
	offsets := make([]uint16, 0, len(slots)+1)
	for i, ops := range slots {
		if data.Len() > 0xFFFF {
			break
		}
		offsets = append(offsets, uint16(data.Len()))
		if err := EncodeSlot(data, ops); err != nil {
			w.Fail(errors.Wrapf(err, "slot %d", i))
			return w.Err()
		}
	}
	if data.Len() > 0xFFFF {
		w.Fail(errors.Wrapf(errors.ErrCorruptRecord, "script data exceeds %d bytes", 0xFFFF))
		return w.Err()
	}
	offsets = append(offsets, uint16(data.Len()))
	b, _ := data.Bytes()
	bin.WriteArray(w, offsets)
	w.PutBytes(b)
	return w.Err()
}
