// Package vkbind generates Rust FFI bindings from the Vulkan API registry.
//
// The registry document (vk.xml) is compiled in three stages:
//   - Parse: the XML document is read into a registry model (package vkxml)
//   - Resolve: enumerant values are computed and the API surface is split
//     into core and extension parts (package registry)
//   - Emit: the resolved model is written as one Rust module (package rust)
//
// Example usage:
//
//	source, _ := os.ReadFile("vk.xml")
//	code, err := vkbind.Generate(source, vkbind.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The generated module expects the bitflags crate and the
// std::os::raw C types in scope. Extension items are gated behind cargo
// features named after their extensions.
package vkbind

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/gogpu/vkbind/registry"
	"github.com/gogpu/vkbind/rust"
	"github.com/gogpu/vkbind/vkxml"
)

// Options configures binding generation.
type Options struct {
	// Rust configures the emitter.
	Rust rust.Options

	// Strict fails generation when a feature or extension requires a
	// type, enum or command the registry does not define.
	Strict bool

	// Logger receives progress and warning messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns options producing bindings for the system loader.
func DefaultOptions() Options {
	return Options{
		Rust: rust.DefaultOptions(),
	}
}

// Generate compiles a registry document to Rust source.
//
// The pipeline is:
//  1. Parse the document into a registry model
//  2. Resolve enumerant values and partition core and extension surfaces
//  3. Emit the Rust module
func Generate(source []byte, opts Options) (string, error) {
	logger := opts.logger()

	reg, err := Parse(source, logger)
	if err != nil {
		return "", errors.Wrap(err, "parse error")
	}

	res, err := Resolve(reg, opts)
	if err != nil {
		return "", errors.Wrap(err, "resolve error")
	}

	code, err := Emit(res, opts)
	if err != nil {
		return "", errors.Wrap(err, "emit error")
	}
	return code, nil
}

// Parse reads a registry document into a registry model.
func Parse(source []byte, logger *slog.Logger) (*registry.Registry, error) {
	return vkxml.Parse(source, logger)
}

// Resolve computes every enumerant value of reg and partitions its surface.
//
// Requirements naming undefined items are logged as warnings and dropped,
// or returned as an error when opts.Strict is set.
func Resolve(reg *registry.Registry, opts Options) (*registry.Resolved, error) {
	res, err := registry.Resolve(reg)
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	for _, ref := range res.Unresolved {
		logger.Warn("unresolved requirement", "kind", ref.Kind.String(), "name", ref.Name, "source", ref.Source)
	}
	if opts.Strict && len(res.Unresolved) > 0 {
		return nil, errors.Errorf("%d unresolved requirements, first: %v", len(res.Unresolved), res.Unresolved[0])
	}
	return res, nil
}

// Emit writes the Rust module for a resolved registry.
func Emit(res *registry.Resolved, opts Options) (string, error) {
	rustOpts := opts.Rust
	if rustOpts.Logger == nil {
		rustOpts.Logger = opts.Logger
	}
	return rust.Compile(res, rustOpts)
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
