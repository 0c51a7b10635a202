// Package cli implements the csvjson command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shapestone/shape-csvjson/internal/config"
	"github.com/shapestone/shape-csvjson/pkg/csvjson"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const defaultWorkers = 4

// We can't use `default` because config file values sit between defaults and flags.
type options struct {
	Header    *bool   `long:"header" short:"H" description:"Treat the first row as field names and output objects"`
	Delimiter *string `long:"delimiter" short:"d" description:"Column delimiter, exactly one character" default-mask:","`
	Output    *string `long:"output" short:"o" description:"Output file, or directory when converting several files"`
	Config    string  `long:"config" short:"c" description:"YAML config file" default-mask:".csvjson.yaml"`
	Workers   *int    `long:"workers" short:"w" description:"Number of files converted concurrently" default-mask:"4"`
	Verbose   bool    `long:"verbose" short:"v" description:"Log debug output"`

	Args struct {
		Files []string `positional-arg-name:"FILES"`
	} `positional-args:"yes"`
}

// settings is the resolved configuration of one run.
type settings struct {
	opts    csvjson.Options
	output  string
	workers int
	files   []string
}

// App runs the command against a filesystem and standard streams.
type App struct {
	Fs     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates an App.
func New(fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{Fs: fs, Stdin: stdin, Stdout: stdout, Stderr: stderr}
}

// usageError marks errors caused by the command line rather than the input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

// Run executes the command with args (without the program name) and returns
// the process exit code.
func (a *App) Run(args []string) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "csvjson"
	parser.Usage = "[OPTIONS] [FILES...]"

	if _, err := parser.ParseArgs(args); flags.WroteHelp(err) {
		fmt.Fprintln(a.Stdout, err)
		return ExitOK
	} else if err != nil {
		a.printError(err)
		parser.WriteHelp(a.Stderr)
		return ExitUsage
	}

	logger := newLogger(a.Stderr, opts.Verbose)
	defer func() { _ = logger.Sync() }()

	s, err := a.resolve(opts, logger)
	if err == nil {
		err = a.convert(s, logger)
	}
	if err != nil {
		a.printError(err)
		var uerr *usageError
		return lo.Ternary(errors.As(err, &uerr), ExitUsage, ExitError)
	}
	return ExitOK
}

// resolve merges defaults, the config file and flags, in increasing precedence.
func (a *App) resolve(opts options, logger *zap.Logger) (settings, error) {
	cfg, err := config.Load(a.Fs, opts.Config)
	if err != nil {
		return settings{}, &usageError{err: err}
	}
	if cfg.Path != "" {
		logger.Debug("config loaded", zap.String("path", cfg.Path))
	}

	delim := lo.FromPtrOr(opts.Delimiter, lo.FromPtrOr(cfg.Delimiter, string(csvjson.DefaultDelimiter)))
	r, err := config.ParseDelimiter(delim)
	if err != nil {
		return settings{}, &usageError{err: err}
	}

	s := settings{
		opts: csvjson.Options{
			Delimiter: r,
			Header:    lo.FromPtrOr(opts.Header, lo.FromPtrOr(cfg.Header, false)),
		},
		output:  lo.FromPtrOr(opts.Output, lo.FromPtrOr(cfg.Output, "")),
		workers: lo.FromPtrOr(opts.Workers, lo.FromPtrOr(cfg.Workers, defaultWorkers)),
		files:   opts.Args.Files,
	}
	if err := s.opts.Validate(); err != nil {
		return settings{}, &usageError{err: err}
	}
	if s.workers < 1 {
		return settings{}, usagef("--workers must be at least 1, got %d", s.workers)
	}
	cleaned := lo.Map(s.files, func(f string, _ int) string { return filepath.Clean(f) })
	if dup := lo.FindDuplicates(cleaned); len(dup) > 0 {
		return settings{}, usagef("input given more than once: %s", strings.Join(dup, ", "))
	}
	return s, nil
}

func (a *App) convert(s settings, logger *zap.Logger) error {
	switch len(s.files) {
	case 0:
		return a.convertStdin(s, logger)
	case 1:
		isDir, err := a.isDir(s.output)
		if err != nil {
			return err
		}
		if !isDir {
			if s.output != "" && filepath.Clean(s.output) == filepath.Clean(s.files[0]) {
				return usagef("output %s would overwrite its input", s.output)
			}
			return a.convertFile(s, s.files[0], s.output, logger)
		}
	}
	return a.convertFiles(s, logger)
}

func (a *App) convertStdin(s settings, logger *zap.Logger) error {
	out, err := csvjson.ConvertReaderWithOptions(a.Stdin, s.opts)
	if err != nil {
		return fmt.Errorf("stdin: %w", err)
	}
	logger.Debug("converted", zap.String("input", "-"), zap.Int("bytes_out", len(out)))
	return a.write(s.output, out)
}

// convertFile converts one input. An empty output writes to stdout.
func (a *App) convertFile(s settings, input, output string, logger *zap.Logger) error {
	data, err := afero.ReadFile(a.Fs, input)
	if err != nil {
		return err
	}

	out, err := csvjson.ConvertWithOptions(string(data), s.opts)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if err := a.write(output, out); err != nil {
		return err
	}
	logger.Debug("converted",
		zap.String("input", input),
		zap.String("output", lo.Ternary(output == "", "-", output)),
		zap.Int("bytes_in", len(data)),
		zap.Int("bytes_out", len(out)))
	return nil
}

// convertFiles converts every input to a .json file, concurrently.
func (a *App) convertFiles(s settings, logger *zap.Logger) error {
	if s.output != "" {
		isDir, err := a.isDir(s.output)
		if err != nil {
			return err
		}
		if !isDir {
			if exists, _ := afero.Exists(a.Fs, s.output); exists {
				return usagef("--output %s must be a directory when converting several files", s.output)
			}
			if err := a.Fs.MkdirAll(s.output, 0o755); err != nil {
				return err
			}
		}
	}

	outputs, err := outputPaths(s.files, s.output)
	if err != nil {
		return err
	}

	p := pool.New().WithErrors().WithMaxGoroutines(s.workers)
	for i, input := range s.files {
		output := outputs[i]
		p.Go(func() error {
			if err := a.convertFile(s, input, output, logger); err != nil {
				logger.Debug("conversion failed", zap.String("input", input), zap.Error(err))
				return err
			}
			return nil
		})
	}
	return p.Wait()
}

// outputPaths returns the output of every input. Two inputs writing the same
// file, or an output replacing any input, is a usage error.
func outputPaths(inputs []string, dir string) ([]string, error) {
	sources := make(map[string]string, len(inputs))
	for _, input := range inputs {
		sources[filepath.Clean(input)] = input
	}

	outputs := make([]string, len(inputs))
	written := make(map[string]string, len(inputs))
	for i, input := range inputs {
		output := outputPath(input, dir)
		if src, ok := sources[output]; ok {
			return nil, usagef("output %s for %s would overwrite input %s", output, input, src)
		}
		if prev, ok := written[output]; ok {
			return nil, usagef("inputs %s and %s both write %s", prev, input, output)
		}
		written[output] = input
		outputs[i] = output
	}
	return outputs, nil
}

// outputPath returns where the JSON for input goes: next to it, or in dir.
func outputPath(input, dir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

func (a *App) write(output, out string) error {
	if output == "" {
		_, err := fmt.Fprintln(a.Stdout, out)
		return err
	}
	return afero.WriteFile(a.Fs, output, []byte(out+"\n"), 0o644)
}

func (a *App) isDir(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	ok, err := afero.IsDir(a.Fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return ok, err
}

func (a *App) printError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(a.Stderr, "error: ")
	fmt.Fprintln(a.Stderr, err)
}

// newLogger builds a development logger writing to w. Debug output is only
// enabled with verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = ""

	level := lo.Ternary(verbose, zapcore.DebugLevel, zapcore.WarnLevel)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}
