// Package multireader contains a reader that concatenates multiple readers.
package multireader

import (
	"io"
)

// Reader reads from a sequence of readers, one after the other.
// A reader is drained when it returns io.EOF; the next one is then used.
// Once all readers are drained, Read always returns io.EOF.
type Reader struct {
	cur     io.Reader
	pending []io.Reader
}

// New allocates a Reader.
func New(readers ...io.Reader) *Reader {
	r := &Reader{}

	if len(readers) != 0 {
		r.cur = readers[0]
		r.pending = append([]io.Reader(nil), readers[1:]...)
	}

	return r
}

func (r *Reader) next() {
	if len(r.pending) == 0 {
		r.cur = nil
		return
	}

	r.cur = r.pending[0]
	r.pending[0] = nil
	r.pending = r.pending[1:]
}

// Read implements io.Reader.
// Errors other than io.EOF are returned without advancing to the next reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for r.cur != nil {
		n, err := r.cur.Read(p)

		if err == io.EOF {
			r.next()

			if n > 0 {
				return n, nil
			}
			continue
		}

		return n, err
	}

	return 0, io.EOF
}
