package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/pngmeta/internal/png"
	"github.com/bluenviron/pngmeta/internal/png/chunk"
	"github.com/bluenviron/pngmeta/internal/test"
)

var testPNG = append(append([]byte(nil), png.Signature...),
	// IHDR
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89,
	// IEND
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44,
	0xae, 0x42, 0x60, 0x82,
)

func setupLogFile(t *testing.T) string {
	logPath := filepath.Join(t.TempDir(), "pngmeta.log")
	t.Setenv("PNGMETA_LOGDESTINATIONS", "file")
	t.Setenv("PNGMETA_LOGFILE", logPath)
	return logPath
}

func readLog(t *testing.T, logPath string) string {
	byts, err := os.ReadFile(logPath)
	require.NoError(t, err)
	return string(byts)
}

func TestList(t *testing.T) {
	logPath := setupLogFile(t)

	fpath, err := test.CreateTempFile(testPNG)
	require.NoError(t, err)
	defer os.Remove(fpath)

	p, ok := New([]string{"list", fpath})
	require.True(t, ok)
	err = p.Wait()
	require.NoError(t, err)

	log := readLog(t, logPath)
	require.Contains(t, log, "INF Chunk type: IHDR, Data len: 13, CRC: 0x1F15C489\n")
	require.Contains(t, log, "INF Chunk type: IEND, Data len: 0, CRC: 0xAE426082\n")
	require.Contains(t, log, "INF "+fpath+": 2 chunks, 45B\n")
}

func TestListInvalidFile(t *testing.T) {
	logPath := setupLogFile(t)

	fpath, err := test.CreateTempFile([]byte("GIF89a"))
	require.NoError(t, err)
	defer os.Remove(fpath)

	p, ok := New([]string{"list", fpath})
	require.True(t, ok)
	err = p.Wait()
	require.ErrorIs(t, err, png.ErrInvalidSignature)

	require.Contains(t, readLog(t, logPath), "ERR unable to decode "+fpath+": invalid PNG signature\n")
}

func TestListFile(t *testing.T) {
	f := &png.File{
		Chunks: []*chunk.Chunk{
			chunk.NewText("hi"),
			{
				Length: 1,
				Type:   chunk.TypeText,
				Data:   []byte{0xff},
				CRC:    0x01,
			},
		},
	}

	var buf bytes.Buffer
	err := f.Encode(&buf)
	require.NoError(t, err)

	fpath, err := test.CreateTempFile(buf.Bytes())
	require.NoError(t, err)
	defer os.Remove(fpath)

	l := &test.RecordingLogger{}
	err = listFile(l, fpath, 0, true)
	require.NoError(t, err)

	require.Equal(t, []string{
		fmt.Sprintf(`INF Chunk type: tEXt, Data len: 2, CRC: 0x%X - "hi"`, f.Chunks[0].CRC),
		fmt.Sprintf("WAR chunk 0 (tEXt): CRC 0x%X differs from standard CRC 0x%X",
			f.Chunks[0].CRC, f.Chunks[0].StandardCRC()),
		"WAR Chunk type: tEXt, Data len: 1, CRC: 0x1 - (text chunk payload is not valid UTF-8)",
		fmt.Sprintf("WAR chunk 1 (tEXt): CRC 0x1 differs from standard CRC 0x%X",
			f.Chunks[1].StandardCRC()),
		"INF " + fpath + ": 2 chunks, 35B",
	}, l.Entries())
}

func TestAddText(t *testing.T) {
	logPath := setupLogFile(t)

	fpath, err := test.CreateTempFile(testPNG)
	require.NoError(t, err)
	defer os.Remove(fpath)

	outPath := filepath.Join(t.TempDir(), "out.png")

	p, ok := New([]string{"add-text", fpath, "hello", "-o", outPath})
	require.True(t, ok)
	err = p.Wait()
	require.NoError(t, err)

	// input is untouched
	byts, err := os.ReadFile(fpath)
	require.NoError(t, err)
	require.Equal(t, testPNG, byts)

	f, err := decodeFile(outPath, 0)
	require.NoError(t, err)
	require.Len(t, f.Chunks, 3)
	require.Equal(t, chunk.NewText("hello"), f.Chunks[1])
	require.Equal(t, chunk.TypeEnd, f.Chunks[2].Type)

	require.Contains(t, readLog(t, logPath), "INF "+outPath+" written (3 chunks, 62B)\n")

	entries, err := os.ReadDir(filepath.Dir(outPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAddTextInPlace(t *testing.T) {
	setupLogFile(t)

	fpath, err := test.CreateTempFile(testPNG)
	require.NoError(t, err)
	defer os.Remove(fpath)

	for _, text := range []string{"first", "second"} {
		p, ok := New([]string{"add-text", fpath, text})
		require.True(t, ok)
		err = p.Wait()
		require.NoError(t, err)
	}

	f, err := decodeFile(fpath, 0)
	require.NoError(t, err)

	texts := f.Texts()
	require.Len(t, texts, 2)
	require.Equal(t, []byte("first"), texts[0].Data)
	require.Equal(t, []byte("second"), texts[1].Data)
}

func TestAddTextRunOnWrite(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unsupported")
	}

	setupLogFile(t)
	t.Setenv("PNGMETA_RUNONWRITE", "touch $PNG_PATH.done")

	fpath, err := test.CreateTempFile(testPNG)
	require.NoError(t, err)
	defer os.Remove(fpath)
	defer os.Remove(fpath + ".done")

	p, ok := New([]string{"add-text", fpath, "hello"})
	require.True(t, ok)
	err = p.Wait()
	require.NoError(t, err)

	_, err = os.Stat(fpath + ".done")
	require.NoError(t, err)
}

func TestAddTextChunkTooLarge(t *testing.T) {
	setupLogFile(t)
	t.Setenv("PNGMETA_MAXCHUNKSIZE", "8B")

	fpath, err := test.CreateTempFile(testPNG)
	require.NoError(t, err)
	defer os.Remove(fpath)

	p, ok := New([]string{"add-text", fpath, "hello"})
	require.True(t, ok)
	err = p.Wait()
	require.ErrorIs(t, err, chunk.ErrDataTooLarge)
}

func TestWatch(t *testing.T) {
	logPath := setupLogFile(t)

	dir := t.TempDir()
	fpath := filepath.Join(dir, "image.png")
	err := os.WriteFile(fpath, testPNG, 0o644)
	require.NoError(t, err)

	p, ok := New([]string{"watch", fpath})
	require.True(t, ok)
	defer p.Close()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(readLog(t, logPath)), []byte("2 chunks"))
	}, 2*time.Second, 50*time.Millisecond)

	f, err := decodeFile(fpath, 0)
	require.NoError(t, err)
	f.InsertText("watched")
	err = writeFile(fpath, f)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(readLog(t, logPath)), []byte(`- "watched"`))
	}, 2*time.Second, 50*time.Millisecond)

	p.Close()
	err = p.Wait()
	require.NoError(t, err)
}
