package codec

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

const decoderBufSize = 1 << 16

type Decoder struct {
	src    io.Reader
	lenbuf []byte
	buf    []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		src:    r,
		lenbuf: make([]byte, 4),
		buf:    make([]byte, decoderBufSize),
	}
}

// Decode decodes the next frame read from source into dst.
// It is caller's responsibility to handle EOF.
func (d *Decoder) Decode(dst any) error {
	if _, err := io.ReadFull(d.src, d.lenbuf); err != nil {
		return errors.Wrap(err, "reading length")
	}

	size := binary.LittleEndian.Uint32(d.lenbuf)

	if size > decoderBufSize {
		return io.ErrShortBuffer
	}

	if _, err := io.ReadFull(d.src, d.buf[:size]); err != nil {
		return errors.Wrap(err, "reading payload")
	}

	if err := json.Unmarshal(d.buf[:size], dst); err != nil {
		return errors.Wrap(err, "unmarshaling payload")
	}

	return nil
}
