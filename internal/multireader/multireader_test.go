package multireader

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestReadOrder(t *testing.T) {
	r := New(
		strings.NewReader("AB"),
		strings.NewReader(""),
		strings.NewReader("CD"),
	)

	var out []byte
	buf := make([]byte, 1)

	for {
		n, err := r.Read(buf)
		if err == io.EOF {
			require.Equal(t, 0, n)
			break
		}
		require.NoError(t, err)
		require.Equal(t, 1, n)
		out = append(out, buf[0])
	}

	require.Equal(t, []byte("ABCD"), out)

	for i := 0; i < 3; i++ {
		n, err := r.Read(buf)
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)
	}
}

func TestReadAll(t *testing.T) {
	for _, ca := range []struct {
		name    string
		sources []string
		out     string
	}{
		{
			"none",
			nil,
			"",
		},
		{
			"all empty",
			[]string{"", "", ""},
			"",
		},
		{
			"single",
			[]string{"test content"},
			"test content",
		},
		{
			"multiple",
			[]string{"---- HEADER ----\n", "", "content\n", "---- FOOTER ----\n"},
			"---- HEADER ----\ncontent\n---- FOOTER ----\n",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			readers := make([]io.Reader, len(ca.sources))
			for i, s := range ca.sources {
				readers[i] = strings.NewReader(s)
			}

			byts, err := io.ReadAll(New(readers...))
			require.NoError(t, err)
			require.Equal(t, ca.out, string(byts))
		})
	}
}

func TestReaderBehavior(t *testing.T) {
	err := iotest.TestReader(New(
		strings.NewReader("abc"),
		iotest.OneByteReader(strings.NewReader("defgh")),
		strings.NewReader(""),
		iotest.DataErrReader(strings.NewReader("ijkl")),
	), []byte("abcdefghijkl"))
	require.NoError(t, err)
}

func TestSingleSource(t *testing.T) {
	content := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7}, 100)

	direct := bytes.NewReader(content)
	wrapped := New(bytes.NewReader(content))

	a := make([]byte, 64)
	b := make([]byte, 64)

	for {
		n1, err1 := direct.Read(a)
		n2, err2 := wrapped.Read(b)
		require.Equal(t, n1, n2)
		require.Equal(t, err1, err2)
		require.Equal(t, a[:n1], b[:n2])

		if err1 != nil {
			break
		}
	}
}

type flakyReader struct {
	inner io.Reader
	fail  bool
}

var errFlaky = errors.New("flaky")

func (r *flakyReader) Read(p []byte) (int, error) {
	if r.fail {
		r.fail = false
		return 0, errFlaky
	}
	return r.inner.Read(p)
}

func TestErrorKeepsPosition(t *testing.T) {
	flaky := &flakyReader{inner: strings.NewReader("CD")}
	r := New(strings.NewReader("AB"), flaky, strings.NewReader("EF"))

	buf := make([]byte, 2)

	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "AB", string(buf[:n]))

	flaky.fail = true

	n, err = r.Read(buf)
	require.Equal(t, errFlaky, err)
	require.Equal(t, 0, n)

	byts, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "CDEF", string(byts))
}

func TestEmptyBuffer(t *testing.T) {
	r := New(strings.NewReader(""), strings.NewReader("A"))

	n, err := r.Read(nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	byts, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "A", string(byts))
}

func TestCallerSliceNotRetained(t *testing.T) {
	readers := []io.Reader{strings.NewReader("A"), strings.NewReader("B")}
	r := New(readers...)
	readers[1] = strings.NewReader("X")

	byts, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "AB", string(byts))
}
