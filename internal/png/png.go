// Package png contains a PNG file reader/writer that works at the chunk level.
package png

import (
	"bytes"
	"errors"
	"io"

	"github.com/bluenviron/pngmeta/internal/multireader"
	"github.com/bluenviron/pngmeta/internal/png/chunk"
)

// Signature is the sequence of bytes that starts every PNG file.
var Signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// ErrInvalidSignature is returned when a stream doesn't start with Signature.
var ErrInvalidSignature = errors.New("invalid PNG signature")

// File is a PNG file, seen as a sequence of chunks.
type File struct {
	Chunks []*chunk.Chunk
}

// Decode decodes a PNG file.
// Chunks are read until the stream ends at a chunk boundary.
// maxDataLen limits the payload size of each chunk; zero means no limit.
func Decode(r io.Reader, maxDataLen uint32) (*File, error) {
	sig := make([]byte, len(Signature))
	_, err := io.ReadFull(r, sig)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrInvalidSignature
		}
		return nil, err
	}

	if !bytes.Equal(sig, Signature) {
		return nil, ErrInvalidSignature
	}

	f := &File{}

	for {
		c, err := chunk.ReadLimited(r, maxDataLen)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		f.Chunks = append(f.Chunks, c)
	}

	return f, nil
}

// InsertText adds a text chunk before the IEND chunk,
// or at the end of the file if there's no IEND chunk.
func (f *File) InsertText(text string) *chunk.Chunk {
	c := chunk.NewText(text)

	pos := len(f.Chunks)
	for i, existing := range f.Chunks {
		if existing.Type == chunk.TypeEnd {
			pos = i
			break
		}
	}

	f.Chunks = append(f.Chunks, nil)
	copy(f.Chunks[pos+1:], f.Chunks[pos:])
	f.Chunks[pos] = c

	return c
}

// Texts returns the text chunks of the file.
func (f *File) Texts() []*chunk.Chunk {
	var ret []*chunk.Chunk
	for _, c := range f.Chunks {
		if c.Type.IsText() {
			ret = append(ret, c)
		}
	}
	return ret
}

// Reader returns a reader that yields the encoded file.
func (f *File) Reader() io.Reader {
	readers := make([]io.Reader, 1+len(f.Chunks))
	readers[0] = bytes.NewReader(Signature)

	for i, c := range f.Chunks {
		readers[1+i] = bytes.NewReader(c.Marshal())
	}

	return multireader.New(readers...)
}

// Encode writes the encoded file into w.
func (f *File) Encode(w io.Writer) error {
	_, err := io.Copy(w, f.Reader())
	return err
}

// Size returns the size of the encoded file.
func (f *File) Size() uint64 {
	n := uint64(len(Signature))
	for _, c := range f.Chunks {
		n += 12 + uint64(len(c.Data))
	}
	return n
}
