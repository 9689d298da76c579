// Package cli wires the command line interface: formatting a document
// in place or serving the HTTP API.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/pipeline"
	"github.com/aver1ch/formatingDocx/internal/server"
)

// CLI is the top-level command tree.
type CLI struct {
	Verbose bool `help:"Enable debug logging" short:"v"`

	Format FormatCmd `cmd:"" help:"Format a .docx document according to a configuration"`
	Serve  ServeCmd  `cmd:"" help:"Run the formatting HTTP API"`
}

// FormatCmd formats one document from the command line.
type FormatCmd struct {
	Config      string `help:"Path to the YAML configuration" short:"c" required:"" type:"existingfile"`
	Input       string `help:"Path to the source document" short:"i" required:"" type:"existingfile"`
	Output      string `help:"Path for the formatted document" short:"o" required:""`
	NoTitlePage bool   `name:"no-title-page" help:"Skip the title page stage"`
}

func (f *FormatCmd) Run(logger *slog.Logger) error {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return err
	}

	result, err := docx.Validate(f.Input)
	if err != nil {
		return err
	}

	if !result.Valid {
		return fmt.Errorf("%s is not a valid document: %v", f.Input, result.Errors)
	}

	session, err := docx.Open(f.Input)
	if err != nil {
		return err
	}

	p := pipeline.New(session, cfg, logger)
	if err := p.Execute(!f.NoTitlePage); err != nil {
		return err
	}

	if err := p.Session().Save(f.Output); err != nil {
		return err
	}

	logger.Info("document formatted", "input", f.Input, "output", f.Output)

	return nil
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `help:"Listen address" default:":5000"`
}

func (s *ServeCmd) Run(logger *slog.Logger) error {
	return server.New(logger).ListenAndServe(s.Addr)
}

// Execute parses the arguments and runs the selected command.
func Execute(args []string) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("formatdocx"),
		kong.Description("GOST document formatter: styles, margins, title pages, headers, numbering, TOC and appendices for .docx files."),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ctx.Run(newLogger(cli.Verbose))
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
