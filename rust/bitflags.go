// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"github.com/gogpu/vkbind/registry"
)

// writeBitflags writes every bitmask group as a bitflags! flag set named
// after its flag-set type.
func (w *Writer) writeBitflags() {
	for _, g := range w.res.Groups {
		if g.Kind != registry.GroupBitmask {
			continue
		}
		w.writeFlagSet(g)
	}
}

func (w *Writer) writeFlagSet(g *registry.ResolvedGroup) {
	name := g.Name
	flags := w.flagsFor[g.Name]
	if flags != nil {
		name = flags.Name
	}

	w.writeLine("bitflags! {")
	w.pushIndent()
	w.writeLine("#[repr(transparent)]")
	w.writeLine("#[derive(Debug, Copy, Clone, PartialEq, Eq, Hash)]")
	w.writeLine("pub struct %s: %s {", name, w.flagsBase(flags, g.Bitwidth))
	w.pushIndent()
	w.writeLine("const EMPTY = 0;")

	section := ""
	for i := range g.Entries {
		e := &g.Entries[i]
		if e.Alias != "" {
			w.writeFlagAlias(g, e)
			continue
		}
		if e.Gated() && e.Gates[0] != section {
			section = e.Gates[0]
			w.writeLine("// %s", section)
		}
		w.writeCfg(e.Gates)
		w.writeLine("const %s = %s;", e.Name, hexValue(e.Value, g.Bitwidth))
	}

	w.popIndent()
	w.writeLine("}")
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

// writeFlagAlias names the target flag where the target is compiled in and
// spells out the value where it is not.
func (w *Writer) writeFlagAlias(g *registry.ResolvedGroup, e *registry.ResolvedEntry) {
	alias := condition{}.require(e.Gates)
	target, ok := g.Entry(e.Target)
	if !ok {
		w.writeCondition(alias)
		w.writeLine("const %s = %s;", e.Name, hexValue(e.Value, g.Bitwidth))
		return
	}
	if cond, ok := alias.require(target.Gates).reduce(); ok {
		w.writeCondition(cond)
		w.writeLine("const %s = Self::%s.bits();", e.Name, target.Name)
	}
	if !target.Gated() {
		return
	}
	if cond, ok := alias.exclude(target.Gates).reduce(); ok {
		w.writeCondition(cond)
		w.writeLine("const %s = %s;", e.Name, hexValue(e.Value, g.Bitwidth))
	}
}
