package core

import (
	"github.com/bluenviron/pngmeta/internal/filewatcher"
	"github.com/bluenviron/pngmeta/internal/logger"
)

func (p *Core) runWatch(cmd watchCmd) error {
	fw := &filewatcher.FileWatcher{FilePath: cmd.File}
	err := fw.Initialize()
	if err != nil {
		return err
	}
	defer fw.Close()

	maxDataLen := uint32(p.conf.MaxChunkSize)

	err = listFile(p, cmd.File, maxDataLen, false)
	if err != nil {
		p.Log(logger.Error, "%s", err)
	}

	for {
		select {
		case _, ok := <-fw.Watch():
			if !ok {
				return nil
			}

			p.Log(logger.Info, "file changed, listing chunks again")

			err = listFile(p, cmd.File, maxDataLen, false)
			if err != nil {
				// the file may be incomplete; wait for the next change.
				p.Log(logger.Error, "%s", err)
			}

		case <-p.ctx.Done():
			return nil
		}
	}
}
