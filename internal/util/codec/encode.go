package codec

import (
	"encoding/binary"
	"encoding/json"
)

// MarshalWithSize marshals v into a JSON frame.
// It adds the payload's (32bit) size in front of the payload.
func MarshalWithSize(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	size := uint32(len(b))
	sizebuf := make([]byte, 4)

	binary.LittleEndian.PutUint32(sizebuf, size)

	return append(sizebuf, b...), nil
}
