// Command vkbind generates Rust FFI bindings from the Vulkan registry.
//
// Usage:
//
//	vkbind [options] <vk.xml>
//
// Examples:
//
//	vkbind vk.xml                          # Bindings to stdout
//	vkbind -o src/vk.rs vk.xml             # Bindings to a file
//	vkbind -c vkbind.yaml -o vk.rs vk.xml  # Custom link names and tables
//	vkbind --strict -v vk.xml              # Fail on dangling requirements
//
// The input and output may be local paths or any URL supported by
// github.com/viant/afs (file://, mem://, s3://, gs://).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/gogpu/vkbind"
	"github.com/gogpu/vkbind/config"
)

const vkbindVersion = "0.1.0-dev"

// Options are the command-line options.
type Options struct {
	Output  string `short:"o" long:"output" description:"output file or URL (default: stdout)"`
	Config  string `short:"c" long:"config" description:"YAML configuration file or URL"`
	Verbose bool   `short:"v" long:"verbose" description:"log debug messages"`
	Strict  bool   `long:"strict" description:"fail on requirements naming undefined items"`
	Version bool   `long:"version" description:"print version"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "vkbind"
	parser.Usage = "[options] <vk.xml>"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(stdout)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		parser.WriteHelp(stderr)
		return 2
	}

	if opts.Version {
		fmt.Fprintf(stdout, "vkbind version %s\n", vkbindVersion)
		return 0
	}

	if len(rest) != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one input, got %d\n\n", len(rest))
		parser.WriteHelp(stderr)
		return 2
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := generate(context.Background(), afs.New(), opts, rest[0], stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func generate(ctx context.Context, fs afs.Service, opts *Options, input string, stdout io.Writer, logger *slog.Logger) error {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(ctx, fs, location(opts.Config)); err != nil {
			return err
		}
	}

	inputURL := location(input)
	source, err := fs.DownloadWithURL(ctx, inputURL)
	if err != nil {
		return errors.Wrapf(err, "failed to read %v", inputURL)
	}
	logger.Debug("registry loaded", "url", inputURL, "bytes", len(source))

	code, err := vkbind.Generate(source, vkbind.Options{
		Rust:   cfg.RustOptions(logger),
		Strict: opts.Strict || cfg.Strict,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if opts.Output == "" {
		_, err = io.WriteString(stdout, code)
		return err
	}
	outputURL := location(opts.Output)
	if err := fs.Upload(ctx, outputURL, file.DefaultFileOsMode, strings.NewReader(code)); err != nil {
		return errors.Wrapf(err, "failed to write %v", outputURL)
	}
	logger.Info("bindings written", "url", outputURL, "bytes", len(code))
	return nil
}

// location turns a local path into a file URL and leaves URLs untouched.
func location(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return file.Scheme + "://" + filepath.ToSlash(path)
}
