// Command flagtable prints C #define flag values as an aligned binary table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/roguetools/internal/config"
	"github.com/mcncl/roguetools/internal/errors"
	"github.com/mcncl/roguetools/internal/models"
	"github.com/mcncl/roguetools/internal/parser"
	"github.com/mcncl/roguetools/internal/render"
)

// CLI defines the command-line interface
var CLI struct {
	Input   string           `help:"Path to a C header. If not specified, reads from stdin." short:"i" type:"path"`
	Width   int              `help:"Minimum number of binary digits per value (default 20)." short:"w"`
	Strict  bool             `help:"Fail on #define values that are not entirely a number instead of reading them leniently."`
	Config  string           `help:"Path to a config file. Defaults to .roguetools.yml searched upwards from the current directory." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Input  string
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("flagtable"),
		kong.Description("Print C #define bit flags with their values in binary"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("flagtable version %s", Version)},
	)

	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := config.LoadConfigWithCLI(CLI.Config, config.Overrides{
		Width:  CLI.Width,
		Strict: CLI.Strict,
		Debug:  CLI.Debug,
	})
	if err != nil {
		fail(err)
	}

	err = run(&Context{
		Debug:  cfg.Dev.Debug,
		Input:  CLI.Input,
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: flagtable --help\n")
	os.Exit(1)
}

// run reads the definitions and prints the table
func run(ctx *Context) error {
	opts := parser.Options{Strict: ctx.Config.FlagTable.Strict}
	if ctx.Debug {
		opts.Debugf = debugLogger(ctx.Stderr)
	}

	defs, err := readDefinitions(ctx, opts)
	if err != nil {
		return err
	}
	if ctx.Debug {
		opts.Debugf("parsed %d definitions", len(defs))
	}

	return render.Table(ctx.Stdout, defs, ctx.Config.FlagTable.Width)
}

// readDefinitions parses the input file, or stdin when none was given
func readDefinitions(ctx *Context, opts parser.Options) ([]models.FlagDefinition, error) {
	if ctx.Input != "" {
		return parser.ParseFile(ctx.Input, opts)
	}
	if ctx.Stdin == nil {
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return parser.Parse(ctx.Stdin, opts)
}

func debugLogger(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, "debug: "+format+"\n", args...)
	}
}
