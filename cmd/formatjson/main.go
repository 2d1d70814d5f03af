// Command formatjson rewrites .json files with canonical 4-space indentation.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mcncl/roguetools/internal/config"
	"github.com/mcncl/roguetools/internal/errors"
	"github.com/mcncl/roguetools/internal/formatter"
	"github.com/mcncl/roguetools/internal/models"
	"github.com/mcncl/roguetools/internal/walker"
)

// CLI defines the command-line interface
var CLI struct {
	Path     string           `arg:"" help:"JSON file, or directory to search for JSON files."`
	Indent   int              `help:"Spaces per indentation level (default 4)."`
	Diff     bool             `help:"Print what would change instead of rewriting files."`
	NoFollow bool             `help:"Do not descend into symlinked directories."`
	Config   string           `help:"Path to a config file. Defaults to .roguetools.yml searched upwards from the current directory." short:"c" type:"path"`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Path   string
	Diff   bool
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("formatjson"),
		kong.Description("Rewrite JSON files in place with canonical indentation"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("formatjson version %s", Version)},
	)

	// A missing <path> prints usage and exits non-zero
	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := config.LoadConfigWithCLI(CLI.Config, config.Overrides{
		Indent:   CLI.Indent,
		NoFollow: CLI.NoFollow,
		Debug:    CLI.Debug,
	})
	if err != nil {
		fail(err)
	}

	_, err = run(&Context{
		Debug:  cfg.Dev.Debug,
		Path:   CLI.Path,
		Diff:   CLI.Diff,
		Config: cfg,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: formatjson --help\n")
	os.Exit(1)
}

// run formats ctx.Path, a single file or a whole tree, and prints a summary
func run(ctx *Context) (models.Report, error) {
	f := formatter.NewFormatter(ctx.Config)
	debugf := func(string, ...any) {}
	if ctx.Debug {
		debugf = debugLogger(ctx.Stderr)
	}

	kind, err := walker.Classify(ctx.Path)
	if err != nil {
		debugf("cannot inspect %s: %v", ctx.Path, err)
	}
	debugf("%s is a %s", ctx.Path, kind)

	if kind == models.EntryDirectory {
		return formatTree(ctx, f, debugf)
	}
	return formatSingle(ctx, f)
}

// formatTree visits every file below ctx.Path. The first invalid JSON file
// aborts the run; files formatted before it stay formatted.
func formatTree(ctx *Context, f *formatter.Formatter, debugf func(string, ...any)) (models.Report, error) {
	var report models.Report

	w := walker.New(func(path string) error {
		return formatOne(ctx, f, path, &report, debugf)
	})
	w.FollowSymlinks = ctx.Config.FormatJSON.FollowSymlinks
	w.Debugf = debugf

	if err := w.Walk(ctx.Path); err != nil {
		return report, err
	}

	if ctx.Diff {
		fmt.Fprintf(ctx.Stdout, "would format %d files\n", report.Count())
	} else {
		fmt.Fprintf(ctx.Stdout, "formatted %d files\n", report.Count())
	}
	return report, nil
}

func formatOne(ctx *Context, f *formatter.Formatter, path string, report *models.Report, debugf func(string, ...any)) error {
	if !f.Matches(path) {
		debugf("skipping %s", path)
		report.Skipped = append(report.Skipped, path)
		return nil
	}

	if ctx.Diff {
		changed, diff, err := f.CheckFile(path)
		if err != nil {
			return err
		}
		if !changed {
			report.Unchanged = append(report.Unchanged, path)
			return nil
		}
		fmt.Fprint(ctx.Stdout, diff)
		report.Formatted = append(report.Formatted, path)
		return nil
	}

	if _, err := f.FormatFile(path); err != nil {
		return err
	}
	debugf("formatted %s", path)
	report.Formatted = append(report.Formatted, path)
	return nil
}

// formatSingle handles a path that is not a directory. A name without the
// JSON extension is reported on stdout and is not an error.
func formatSingle(ctx *Context, f *formatter.Formatter) (models.Report, error) {
	var report models.Report

	if !f.Matches(ctx.Path) {
		report.Skipped = append(report.Skipped, ctx.Path)
		fmt.Fprintf(ctx.Stdout, "Error: %sis not a json file\n", ctx.Path)
		return report, nil
	}

	if ctx.Diff {
		changed, diff, err := f.CheckFile(ctx.Path)
		if err != nil {
			return report, err
		}
		if changed {
			report.Formatted = append(report.Formatted, ctx.Path)
			fmt.Fprint(ctx.Stdout, diff)
		} else {
			report.Unchanged = append(report.Unchanged, ctx.Path)
		}
		fmt.Fprintf(ctx.Stdout, "would format %d files\n", report.Count())
		return report, nil
	}

	if _, err := f.FormatFile(ctx.Path); err != nil {
		return report, err
	}
	report.Formatted = append(report.Formatted, ctx.Path)
	fmt.Fprintf(ctx.Stdout, "formatted %s\n", ctx.Path)
	return report, nil
}

func debugLogger(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, "debug: "+format+"\n", args...)
	}
}
