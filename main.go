package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/mcncl/jsonkit/internal/analyzer"
	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/redact"
	"github.com/mcncl/jsonkit/internal/value"
)

// CLI defines the command-line interface
var CLI struct {
	Files           []string `arg:"" optional:"" help:"JSON files to read. If none are given, reads from stdin." type:"path"`
	Config          string   `help:"Path to a config file. Defaults to the nearest .jsonkit.yml." short:"c" type:"path"`
	Output          string   `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Indent          bool     `help:"Pretty-print with one member or element per line." short:"i"`
	SoftTabs        bool     `help:"Indent with spaces instead of tabs."`
	TabWidth        int      `help:"Spaces per indent level when soft tabs are on."`
	CRLF            bool     `help:"Use CRLF line breaks." name:"crlf"`
	Strict          bool     `help:"Reject anything after the top-level value."`
	MaxDepth        int      `help:"Maximum nesting depth of arrays and objects."`
	Encoding        string   `help:"Charset of the input, for example shift_jis or windows-1252." short:"e"`
	StandardEscapes bool     `help:"Decode \\n, \\t and \\uXXXX style escapes in strings."`
	Mask            []string `help:"Name of a member whose value is masked. Repeatable." short:"m"`
	Placeholder     string   `help:"Replacement text for masked values."`
	Check           bool     `help:"Only validate the input; write nothing."`
	Stats           bool     `help:"Log a summary of every document."`
	Jobs            int      `help:"Number of files processed in parallel." short:"j" default:"4"`
	Debug           bool     `help:"Enable debug logging." short:"d"`
	Version         bool     `help:"Show version information." short:"v"`
	Interactive     bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger log.Logger
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	cli := kong.Must(&CLI,
		kong.Name("jsonkit"),
		kong.Description("A lenient JSON reader, formatter and masker"),
		kong.UsageOnError(),
	)

	if _, err := cli.Parse(os.Args[1:]); err != nil {
		cli.FatalIfErrorf(err)
	}

	// No arguments at all means interactive mode; Parse resets flags, so
	// this comes after it
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if CLI.Version {
		fmt.Printf("jsonkit version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	ctx := &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: newLogger(os.Stderr, cfg.Dev.Debug),
		Stdout: os.Stdout,
	}

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonkit --help\n")
		os.Exit(1)
	}
}

// newLogger writes logfmt lines to w, hiding debug lines unless debug is set
func newLogger(w io.Writer, debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	allow := level.AllowInfo()
	if debug {
		allow = level.AllowDebug()
	}
	return level.NewFilter(logger, allow)
}

// loadConfig merges the config file, if any, with the CLI flags
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, cliOverrides())
	if err != nil {
		return nil, errors.NewInputError("failed to load configuration", err)
	}
	return cfg, nil
}

// cliOverrides converts the flags into a partial config
func cliOverrides() *config.Config {
	override := &config.Config{
		Format: config.FormatConfig{
			Indent:   CLI.Indent,
			SoftTabs: CLI.SoftTabs,
			TabWidth: CLI.TabWidth,
		},
		Parse: config.ParseConfig{
			Strict:          CLI.Strict,
			MaxDepth:        CLI.MaxDepth,
			Encoding:        CLI.Encoding,
			StandardEscapes: CLI.StandardEscapes,
		},
		Mask: config.MaskConfig{
			Fields:      CLI.Mask,
			Placeholder: CLI.Placeholder,
		},
		Dev: config.DevConfig{
			Debug: CLI.Debug,
		},
	}
	if CLI.CRLF {
		override.Format.NewLine = "\r\n"
	}
	return override
}

// run executes the main program logic
func run(ctx *Context) error {
	p, err := parser.NewParser(ctx.Config.ParserOptions()...)
	if err != nil {
		return err
	}
	f, err := formatter.NewFormatter(ctx.Config.FormatterOptions())
	if err != nil {
		return err
	}

	var docs []string
	if len(CLI.Files) == 0 {
		v, err := parseInput(p)
		if err != nil {
			return err
		}
		docs = []string{render(ctx, f, "<stdin>", v)}
	} else {
		docs, err = processFiles(ctx, p, f, CLI.Files)
		if err != nil {
			return err
		}
	}

	if CLI.Check {
		level.Info(ctx.Logger).Log("msg", "input is valid", "documents", len(docs))
		return nil
	}

	newLine := ctx.Config.Format.NewLine
	return writeOutput(ctx, strings.Join(docs, newLine)+newLine)
}

// processFiles parses and renders files in parallel; the result keeps the
// order of files
func processFiles(ctx *Context, p *parser.Parser, f *formatter.Formatter, files []string) ([]string, error) {
	docs := make([]string, len(files))

	jobs := CLI.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			level.Debug(ctx.Logger).Log("msg", "parsing file", "file", file)
			v, err := p.ParseFile(file)
			if err != nil {
				level.Error(ctx.Logger).Log("msg", "failed to parse file", "file", file, "err", err)
				return err
			}
			docs[i] = render(ctx, f, file, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// render masks configured members, logs statistics and formats v
func render(ctx *Context, f *formatter.Formatter, source string, v value.Value) string {
	mask := &ctx.Config.Mask
	if mask.Enabled() {
		v = redact.Mask(v, mask, mask.Placeholder)
	}

	if CLI.Stats || ctx.Debug {
		logStats(ctx, source, v)
	}

	return f.Format(v)
}

// logStats logs the shape of v, at info level with --stats and at debug
// level otherwise
func logStats(ctx *Context, source string, v value.Value) {
	logger := level.Debug(ctx.Logger)
	if CLI.Stats {
		logger = level.Info(ctx.Logger)
	}
	stats := analyzer.Analyze(v)
	logger.Log(
		"msg", "parsed document",
		"source", source,
		"kind", v.Kind(),
		"nodes", stats.Nodes(),
		"counts", analyzer.Summary(stats.Counts),
		"max_depth", stats.MaxDepth,
		"members", stats.Members,
		"elements", stats.Elements,
		"names", len(stats.Names),
		"formats", analyzer.Summary(stats.Formats),
		"name_styles", analyzer.Summary(stats.NameStyles),
	)
}

// parseInput reads one document from stdin
func parseInput(p *parser.Parser) (value.Value, error) {
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			jsonData, err := readInteractiveInput()
			if err != nil {
				return nil, err
			}
			return p.ParseString(jsonData)
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return p.ParseBytes(jsonData)
}

// writeOutput writes text to the output file or stdout
func writeOutput(ctx *Context, text string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		level.Info(ctx.Logger).Log("msg", "output written", "file", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "jsonkit Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return jsonData, nil
}
