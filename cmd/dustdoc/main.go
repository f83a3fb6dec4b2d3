package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dustdoc"
	"github.com/fwojciec/dustdoc/difflib"
	"github.com/fwojciec/dustdoc/fs"
	"github.com/fwojciec/dustdoc/generate"
	"github.com/fwojciec/dustdoc/goldmark"
	"github.com/fwojciec/dustdoc/goquery"
	dustslog "github.com/fwojciec/dustdoc/slog"
	"github.com/google/uuid"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	// Run reports its own errors on stderr.
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dustdoc"),
		kong.Description("Generate Markdown or HTML documentation from Dust source files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := dustdoc.Errorf(dustdoc.EINVALID, "no source provided")
		fmt.Fprintf(stderr, "error: %s\n", dustdoc.ErrorMessage(err))
		return err
	}

	// Handle help flags
	if wantsHelp(args) {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	if cli.Check && cli.Output == "" {
		err := dustdoc.Errorf(dustdoc.EINVALID, "--check requires an output path to compare against")
		fmt.Fprintf(stderr, "error: %s\n", dustdoc.ErrorMessage(err))
		return err
	}

	// Wire dependencies
	handler := slog.DiscardHandler
	if cli.Verbose {
		handler = slog.NewTextHandler(stderr, nil)
	}
	logger := slog.New(handler).With("run", uuid.NewString())

	var outputs dustdoc.OutputWriter = fs.NewWriter()
	if cli.Check {
		outputs = difflib.NewChecker(stdout)
	}

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		Sources: dustslog.NewLoggingSourceReader(fs.NewReader(), logger),
		Generator: dustslog.NewLoggingGenerator(&generate.Generator{
			Converter: goldmark.NewConverter(),
			Pages:     goquery.NewPageBuilder(),
		}, logger),
		Outputs: dustslog.NewLoggingOutputWriter(outputs, logger),
	}

	format := dustdoc.FormatMarkdown
	if cli.HTML {
		format = dustdoc.FormatHTML
	}

	cmd := &GenerateCmd{
		Source:      cli.Source,
		Output:      cli.Output,
		Format:      format,
		Check:       cli.Check,
		Concurrency: cli.Concurrency,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	HTML        bool   `help:"Render a standalone HTML page instead of Markdown"`
	Check       bool   `help:"Do not write; print a diff for every out-of-date output and fail if any"`
	Verbose     bool   `short:"v" help:"Log every step to stderr"`
	Concurrency int    `short:"c" default:"4" help:"Files documented at once when the source is a directory"`
	Source      string `arg:"" help:"Dust source file, or a directory of sources"`
	Output      string `arg:"" optional:"" help:"Output file, or output directory for a source directory (default: stdout)"`
}

// wantsHelp reports whether the arguments ask for help: "help" as the
// first argument, or a help flag anywhere before "--".
func wantsHelp(args []string) bool {
	if args[0] == "help" {
		return true
	}
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "--help", "-h":
			return true
		}
	}
	return false
}
