package core

import (
	"fmt"
	"os"

	"code.cloudfoundry.org/bytefmt"

	"github.com/bluenviron/pngmeta/internal/logger"
	"github.com/bluenviron/pngmeta/internal/png"
)

func decodeFile(fpath string, maxDataLen uint32) (*png.File, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := png.Decode(f, maxDataLen)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", fpath, err)
	}

	return pf, nil
}

func listFile(l logger.Writer, fpath string, maxDataLen uint32, check bool) error {
	f, err := decodeFile(fpath, maxDataLen)
	if err != nil {
		return err
	}

	for i, c := range f.Chunks {
		if _, err := c.Render(); err != nil {
			l.Log(logger.Warn, "%s", c)
		} else {
			l.Log(logger.Info, "%s", c)
		}

		if check && !c.CRCMatches() {
			l.Log(logger.Warn, "chunk %d (%s): CRC 0x%X differs from standard CRC 0x%X",
				i, c.Type, c.CRC, c.StandardCRC())
		}
	}

	l.Log(logger.Info, "%s: %d chunks, %s", fpath, len(f.Chunks), bytefmt.ByteSize(f.Size()))

	return nil
}

func (p *Core) runList(cmd listCmd) error {
	return listFile(p, cmd.File, uint32(p.conf.MaxChunkSize), cmd.Check)
}
