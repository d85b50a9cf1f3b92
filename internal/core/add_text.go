package core

import (
	"os"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"github.com/google/uuid"

	"github.com/bluenviron/pngmeta/internal/externalcmd"
	"github.com/bluenviron/pngmeta/internal/logger"
	"github.com/bluenviron/pngmeta/internal/png"
)

// writeFile writes the file into a temporary path,
// then moves it into its final destination.
func writeFile(fpath string, f *png.File) error {
	tmpPath := filepath.Join(filepath.Dir(fpath),
		"."+filepath.Base(fpath)+"."+uuid.New().String()+".tmp")

	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	err = f.Encode(out)
	if err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}

	err = out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	err = os.Rename(tmpPath, fpath)
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}

func (p *Core) runAddText(cmd addTextCmd) error {
	f, err := decodeFile(cmd.File, uint32(p.conf.MaxChunkSize))
	if err != nil {
		return err
	}

	c := f.InsertText(cmd.Text)
	p.Log(logger.Debug, "inserted %s", c)

	outPath := cmd.Output
	if outPath == "" {
		outPath = cmd.File
	}

	err = writeFile(outPath, f)
	if err != nil {
		return err
	}

	p.Log(logger.Info, "%s written (%d chunks, %s)", outPath, len(f.Chunks), bytefmt.ByteSize(f.Size()))

	if p.conf.RunOnWrite != "" {
		p.Log(logger.Info, "runOnWrite command started")

		ec := &externalcmd.Cmd{
			Cmdline: p.conf.RunOnWrite,
			Env: externalcmd.Environment{
				"PNG_PATH": outPath,
			},
		}
		err = ec.Run(p.ctx)
		if err != nil {
			p.Log(logger.Warn, "runOnWrite command failed: %v", err)
		}
	}

	return nil
}
