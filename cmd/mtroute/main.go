// Command mtroute loads a scene file, routes its connections and prints the
// result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"mtroute/ctxlog"
	"mtroute/diagram"
	"mtroute/export"
	"mtroute/markdown"
	"mtroute/scene"
	"mtroute/terminal"
	"mtroute/validation"
)

// errInvalid is returned when -validate finds problems.
var errInvalid = errors.New("validation failed")

type options struct {
	scenePath   string
	format      string
	outputFile  string
	validate    bool
	strict      bool
	interactive bool
	markdown    bool
	logLevel    string
	logFormat   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("mtroute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scenePath, "scene", "", "Scene file (HCL); may also be given as the first argument")
	fs.StringVar(&opts.format, "format", "text", "Output format: text, ascii, json, obstacles")
	fs.StringVar(&opts.outputFile, "o", "", "Output file (default: stdout)")
	fs.BoolVar(&opts.validate, "validate", false, "Check routes and line drawing of the output")
	fs.BoolVar(&opts.strict, "strict", false, "Treat lines touching side-on as errors when validating")
	fs.BoolVar(&opts.interactive, "i", false, "Interactive viewer: move nodes and watch links reroute")
	fs.BoolVar(&opts.markdown, "markdown", false, "Render every mtroute block of a markdown file into the text block below it")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log format: text, json")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mtroute [options] [scene.hcl]\n\n")
		fmt.Fprintf(stderr, "Routes the connections of a scene around its nodes.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mtroute scene.hcl                  # Render to stdout\n")
		fmt.Fprintf(stderr, "  mtroute -format json scene.hcl     # Routes as JSON\n")
		fmt.Fprintf(stderr, "  mtroute -validate scene.hcl        # Render and check the result\n")
		fmt.Fprintf(stderr, "  mtroute -i scene.hcl               # Interactive viewer\n")
		fmt.Fprintf(stderr, "  mtroute -markdown README.md        # Update rendered blocks in place\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.scenePath == "" && fs.NArg() > 0 {
		opts.scenePath = fs.Arg(0)
	}
	if opts.scenePath == "" {
		fs.Usage()
		return nil, errors.New("no scene file given")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(opts.logLevel, opts.logFormat, stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	if opts.markdown {
		return runMarkdown(ctx, opts)
	}

	sc, err := scene.Load(ctx, opts.scenePath)
	if err != nil {
		return err
	}

	if opts.interactive {
		screen, err := terminal.Open()
		if err != nil {
			return err
		}
		defer screen.Fini()
		return terminal.NewViewer(screen, sc).Run(ctx)
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	routed := sc.Route()
	logger.Info("Scene routed", "requests", routed, "failed", sc.Router.Stats().Failed)

	output, err := exporter.Export(sc)
	if err != nil {
		return fmt.Errorf("export %s: %w", exporter.GetFormatName(), err)
	}

	if opts.outputFile != "" {
		if err := os.WriteFile(opts.outputFile, []byte(output+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("Output written", "file", opts.outputFile)
	} else {
		fmt.Fprintln(stdout, output)
	}

	if opts.validate {
		return validate(sc, format, output, opts.strict, stderr)
	}
	return nil
}

// runMarkdown renders the scene blocks of a markdown file and writes the
// document back, or to the output file when one is given.
func runMarkdown(ctx context.Context, opts *options) error {
	logger := ctxlog.FromContext(ctx)
	data, err := os.ReadFile(opts.scenePath)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	s := markdown.NewScanner(string(data))
	n, err := s.RenderScenes(func(b markdown.Block) (string, error) {
		name := fmt.Sprintf("%s:%d", opts.scenePath, b.StartLine+1)
		sc, err := scene.Parse(ctx, name, []byte(b.Content))
		if err != nil {
			return "", err
		}
		sc.Route()
		return exporter.Export(sc)
	})
	if err != nil {
		return err
	}

	out := opts.outputFile
	if out == "" {
		out = opts.scenePath
	}
	if err := os.WriteFile(out, []byte(s.Content()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	logger.Info("Markdown updated", "file", out, "blocks", n)
	return nil
}

// validate checks the routes of sc and, for drawn formats, the characters
// of output. Problems are listed on w.
func validate(sc *scene.Scene, format export.Format, output string, strict bool, w io.Writer) error {
	checker := &validation.RouteChecker{
		Spacing:    sc.Router.Spacing(),
		Constraint: func(l *diagram.Link) []diagram.Bendpoint { return sc.Router.Constraint(l) },
	}
	var problems []string
	for _, issue := range checker.Check(sc.Surface) {
		problems = append(problems, issue.String())
	}

	if format == export.FormatText || format == export.FormatASCII {
		v := validation.NewLineValidator()
		v.SetStrictMode(strict)
		for _, e := range v.Validate(output) {
			problems = append(problems, e.String())
		}
	}

	if len(problems) == 0 {
		fmt.Fprintln(w, "✓ Validation passed")
		return nil
	}
	fmt.Fprintf(w, "✗ Validation found %d problem(s):\n", len(problems))
	fmt.Fprintln(w, "  "+strings.Join(problems, "\n  "))
	return errInvalid
}

// newLogger creates a logger writing to w. Unknown levels fall back to info.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
