package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	LogLevel string `help:"Log level (debug|info|warn|error); defaults to the config file's"`
	NoColor  bool   `help:"Disable colored output"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Simulate   SimulateCmd      `cmd:"" help:"Run bot-only tables from an HCL file and report results"`
	Watch      WatchCmd         `cmd:"" help:"Follow one configured table hand by hand"`
	Eval       EvalCmd          `cmd:"" help:"Evaluate five to seven cards"`
	Strategies StrategiesCmd    `cmd:"" help:"List the built-in bot strategies"`
}

func main() {
	cli := CLI{Globals: Globals{Stdout: os.Stdout, Stderr: os.Stderr}}
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Texas Hold'em hand engine, bots and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// logger builds the command logger. The flag wins over fallback.
func (g *Globals) logger(fallback string) (*log.Logger, error) {
	name := g.LogLevel
	if name == "" {
		name = fallback
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(g.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	}), nil
}
