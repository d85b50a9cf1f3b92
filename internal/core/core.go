// Package core contains the main struct of the software.
package core

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/bluenviron/pngmeta/internal/conf"
	"github.com/bluenviron/pngmeta/internal/logger"
)

var version = "v0.0.0"

var defaultConfPaths = []string{
	"pngmeta.yml",
	"/usr/local/etc/pngmeta.yml",
	"/usr/etc/pngmeta.yml",
	"/etc/pngmeta/pngmeta.yml",
}

type listCmd struct {
	File  string `arg:"" help:"path to a PNG file."`
	Check bool   `help:"warn about chunks whose CRC does not cover both type and data."`
}

type addTextCmd struct {
	File   string `arg:"" help:"path to a PNG file."`
	Text   string `arg:"" help:"text to insert."`
	Output string `short:"o" help:"path of the output file. The input file is replaced when empty."`
}

type watchCmd struct {
	File string `arg:"" help:"path to a PNG file."`
}

type cliArgs struct {
	Version kong.VersionFlag `help:"print version."`
	Conf    string           `help:"path to a config file. The default is pngmeta.yml."`

	List    listCmd    `cmd:"" help:"list the chunks of a PNG file."`
	AddText addTextCmd `cmd:"" name:"add-text" help:"insert a text chunk into a PNG file."`
	Watch   watchCmd   `cmd:"" help:"list the chunks of a PNG file every time it changes."`
}

// Core is an instance of pngmeta.
type Core struct {
	ctx       context.Context
	ctxCancel func()
	args      cliArgs
	command   string
	confPath  string
	conf      *conf.Conf
	logger    *logger.Logger
	err       error

	// out
	done chan struct{}
}

// New allocates a Core and starts the requested command.
func New(args []string) (*Core, bool) {
	p := &Core{
		done: make(chan struct{}),
	}

	parser, err := kong.New(&p.args,
		kong.Name("pngmeta"),
		kong.Description("pngmeta "+version),
		kong.UsageOnError(),
		kong.Vars{"version": version})
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)
	p.command = kctx.Command()

	p.conf, p.confPath, err = conf.Load(p.args.Conf, defaultConfPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		return nil, false
	}

	err = p.createResources()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		return nil, false
	}

	if p.confPath != "" {
		p.Log(logger.Debug, "configuration loaded from %s", p.confPath)
	}

	p.ctx, p.ctxCancel = context.WithCancel(context.Background())

	go p.run()

	return p, true
}

// Close stops the running command and waits for it to return.
func (p *Core) Close() {
	p.ctxCancel()
	<-p.done
}

// Wait waits for the running command to return.
func (p *Core) Wait() error {
	<-p.done
	return p.err
}

// Log implements logger.Writer.
func (p *Core) Log(level logger.Level, format string, args ...interface{}) {
	p.logger.Log(level, format, args...)
}

func (p *Core) createResources() error {
	p.logger = &logger.Logger{
		Level:        logger.Level(p.conf.LogLevel),
		Destinations: p.conf.LogDestinations,
		Structured:   p.conf.LogStructured,
		File:         p.conf.LogFile,
	}
	return p.logger.Initialize()
}

func (p *Core) run() {
	defer close(p.done)
	defer p.logger.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	go func() {
		select {
		case <-interrupt:
			p.Log(logger.Info, "shutting down gracefully")
			p.ctxCancel()
		case <-p.ctx.Done():
		}
	}()

	switch p.command {
	case "list <file>":
		p.err = p.runList(p.args.List)

	case "add-text <file> <text>":
		p.err = p.runAddText(p.args.AddText)

	case "watch <file>":
		p.err = p.runWatch(p.args.Watch)

	default:
		p.err = fmt.Errorf("unsupported command: %s", p.command)
	}

	if p.err != nil {
		p.Log(logger.Error, "%s", p.err)
	}

	p.ctxCancel()
}
