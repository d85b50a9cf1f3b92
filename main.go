// main executable.
package main

import (
	"os"

	"github.com/bluenviron/pngmeta/internal/core"
)

func main() {
	s, ok := core.New(os.Args[1:])
	if !ok {
		os.Exit(1)
	}

	err := s.Wait()
	if err != nil {
		os.Exit(1)
	}
}
