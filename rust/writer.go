// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/vkbind/registry"
)

// Writer generates Rust source code from a resolved registry.
type Writer struct {
	res     *registry.Resolved
	reg     *registry.Registry
	options *Options
	logger  *slog.Logger

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	namer *namer

	// flagsFor maps a FlagBits group to the flag-set type carrying it.
	flagsFor map[string]*registry.TypeEntry

	// constTypes records the Rust type of every emitted constant.
	constTypes map[string]string

	// debuggable memoizes whether a struct can derive Debug.
	debuggable map[string]bool

	tableName string
}

// newWriter creates a new Rust writer.
func newWriter(res *registry.Resolved, options *Options) *Writer {
	return &Writer{
		res:        res,
		reg:        res.Registry,
		options:    options,
		logger:     options.Logger,
		namer:      newNamer(),
		flagsFor:   make(map[string]*registry.TypeEntry),
		constTypes: make(map[string]string),
		debuggable: make(map[string]bool),
	}
}

// String returns the generated Rust source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeModule generates the bindings in their fixed phase order.
func (w *Writer) writeModule() error {
	w.registerNames()

	// 1. Prologue
	w.writePrologue()

	// 2. Hand-mapped defines
	if err := w.writeDefines(); err != nil {
		return err
	}

	// 3. API constants, then extension constants
	if err := w.writeConstants(); err != nil {
		return err
	}

	// 4. Plain typedefs
	w.writeBaseTypes()

	// 5. Bitmask typedefs
	w.writeBitmaskTypes()

	// 6. Handles
	w.writeHandles()

	// 7. Enumerations
	w.writeEnums()

	// 8. Flag sets
	w.writeBitflags()

	// 9. Structures and unions
	if err := w.writeStructs(); err != nil {
		return err
	}

	// 10. Core commands
	if err := w.writeCoreCommands(); err != nil {
		return err
	}

	// 11. Extension function table
	return w.writeExtensionTable()
}

// registerNames reserves every registry name so synthesized items cannot
// collide with them.
func (w *Writer) registerNames() {
	for i := range w.reg.Types {
		w.namer.reserve(w.reg.Types[i].Name)
	}
	for _, s := range w.reg.Structs {
		w.namer.reserve(s.Name)
	}
	for _, g := range w.res.Groups {
		w.namer.reserve(g.Name)
		for _, e := range g.Entries {
			w.namer.reserve(e.Name)
		}
	}
	for _, c := range w.res.Constants {
		w.namer.reserve(c.Name)
	}
	for _, c := range w.res.ExtConstants {
		w.namer.reserve(c.Name)
	}
	for _, cmd := range w.reg.Commands() {
		w.namer.reserve(cmd.Name)
	}
	w.tableName = w.namer.call(w.options.TableName)
}

// writePrologue writes the banner, crate attributes and imports.
func (w *Writer) writePrologue() {
	w.writeLine("// Code generated by vkbind from the Vulkan registry. DO NOT EDIT.")
	w.writeLine("")
	w.writeLine("#![allow(non_camel_case_types, non_snake_case, non_upper_case_globals, dead_code, unused_imports)]")
	w.writeLine("")
	w.writeLine("use std::os::raw::{c_char, c_int, c_ulong, c_void};")
	w.writeLine("")
	w.writeLine("use bitflags::bitflags;")
	w.writeLine("")
}

// identifier applies the reserved-name substitutions to a field or
// parameter name.
func (w *Writer) identifier(name, owner string) (string, error) {
	if sub, ok := w.options.Reserved[name]; ok {
		return sub, nil
	}
	if IsReserved(name) {
		return "", newErrorf(ErrReservedName, "%s in %s is a Rust keyword", name, owner)
	}
	return name, nil
}

// writeCfg writes the feature gate of an item when it has one.
func (w *Writer) writeCfg(gates []string) {
	if len(gates) > 0 {
		w.writeLine("%s", cfgAttribute(gates))
	}
}

// writeLine writes a line with optional format args and a newline.
//
//nolint:goprintffuncname
func (w *Writer) writeLine(format string, args ...any) {
	if format != "" {
		w.writeIndent()
	}
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
