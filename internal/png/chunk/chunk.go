// Package chunk contains a PNG chunk reader/writer.
package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"unicode/utf8"
)

// ErrDataTooLarge is returned when the declared length of a chunk exceeds the allowed maximum.
var ErrDataTooLarge = errors.New("chunk data too large")

// ErrUndisplayable is returned when a text chunk contains a payload that is not valid text.
var ErrUndisplayable = errors.New("text chunk payload is not valid UTF-8")

// Chunk is a PNG chunk.
//
// Length and CRC are stored values: they are set by NewText and Read,
// and written back by Marshal without being recomputed.
type Chunk struct {
	Length uint32
	Type   TypeCode
	Data   []byte
	CRC    uint32
}

// NewText allocates a text-comment chunk.
//
// The CRC covers the payload only, not the type code.
// StandardCRC returns the value expected by other decoders.
func NewText(text string) *Chunk {
	data := []byte(text)

	return &Chunk{
		Length: uint32(len(data)),
		Type:   TypeText,
		Data:   data,
		CRC:    crc32.ChecksumIEEE(data),
	}
}

// Read reads a chunk.
// It returns io.EOF if r ends exactly before the chunk,
// and io.ErrUnexpectedEOF if r ends inside the chunk.
// The CRC is not verified.
func Read(r io.Reader) (*Chunk, error) {
	return ReadLimited(r, 0)
}

// ReadLimited is like Read, but fails with ErrDataTooLarge when
// the declared length is greater than maxDataLen.
// A maxDataLen of zero disables the check.
func ReadLimited(r io.Reader, maxDataLen uint32) (*Chunk, error) {
	var buf [4]byte

	_, err := io.ReadFull(r, buf[:])
	if err != nil {
		return nil, err
	}

	c := &Chunk{
		Length: binary.BigEndian.Uint32(buf[:]),
	}

	if maxDataLen != 0 && c.Length > maxDataLen {
		return nil, fmt.Errorf("%w: %d, maximum is %d", ErrDataTooLarge, c.Length, maxDataLen)
	}

	_, err = io.ReadFull(r, c.Type[:])
	if err != nil {
		return nil, truncated(err)
	}

	c.Data = make([]byte, c.Length)
	_, err = io.ReadFull(r, c.Data)
	if err != nil {
		return nil, truncated(err)
	}

	_, err = io.ReadFull(r, buf[:])
	if err != nil {
		return nil, truncated(err)
	}

	c.CRC = binary.BigEndian.Uint32(buf[:])

	return c, nil
}

// once the length has been read, the chunk is incomplete
// even if no byte of the next field is available.
func truncated(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (c Chunk) marshalSize() int {
	return 4 + 4 + len(c.Data) + 4
}

// Marshal encodes the chunk.
func (c Chunk) Marshal() []byte {
	buf := make([]byte, c.marshalSize())

	binary.BigEndian.PutUint32(buf[0:], c.Length)
	copy(buf[4:], c.Type[:])
	n := 8 + copy(buf[8:], c.Data)
	binary.BigEndian.PutUint32(buf[n:], c.CRC)

	return buf
}

// StandardCRC computes the CRC defined by the PNG specification,
// that covers both type code and payload.
func (c Chunk) StandardCRC() uint32 {
	h := crc32.NewIEEE()
	h.Write(c.Type[:]) //nolint:errcheck
	h.Write(c.Data)    //nolint:errcheck
	return h.Sum32()
}

// CRCMatches returns whether the stored CRC is the one defined by the PNG specification.
func (c Chunk) CRCMatches() bool {
	return c.CRC == c.StandardCRC()
}

// Render returns a human-readable description of the chunk.
// Text chunks include their payload, and fail with ErrUndisplayable
// when the payload is not valid UTF-8.
func (c Chunk) Render() (string, error) {
	s := c.header()

	if c.Type.IsText() {
		if !utf8.Valid(c.Data) {
			return "", ErrUndisplayable
		}
		s += ` - "` + string(c.Data) + `"`
	}

	return s, nil
}

// String implements fmt.Stringer.
func (c Chunk) String() string {
	s, err := c.Render()
	if err != nil {
		return c.header() + " - (" + err.Error() + ")"
	}
	return s
}

func (c Chunk) header() string {
	return fmt.Sprintf("Chunk type: %s, Data len: %d, CRC: 0x%X", c.Type, c.Length, c.CRC)
}
