// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"strconv"

	"github.com/gogpu/vkbind/registry"
)

// SentinelValue is the value of the synthesized maximum member that pins
// every enumeration to 32 bits.
const SentinelValue = 0x7FFFFFFF

// writeEnums writes every plain enumeration group, then the type aliases
// of enum types declared as aliases.
func (w *Writer) writeEnums() {
	for _, g := range w.res.Groups {
		if g.Kind != registry.GroupEnum {
			continue
		}
		w.writeEnum(g)
	}

	for i := range w.reg.Types {
		t := &w.reg.Types[i]
		if t.Category == registry.CategoryEnum && t.Alias != "" {
			w.writeLine("pub type %s = %s;", t.Name, t.Alias)
		}
	}
	w.writeLine("")
}

// associated is an entry rendered as an associated constant of the
// variant named target.
type associated struct {
	entry  *registry.ResolvedEntry
	target string
	cond   condition
}

// holder is an entry rendered as the variant of its value under cond.
type holder struct {
	entry *registry.ResolvedEntry
	cond  condition
}

// valueHolders tracks the variants carrying one value. Their conditions are
// mutually exclusive, so no feature set sees a repeated discriminant.
type valueHolders struct {
	holders []holder
	covered []string
	always  bool
}

// add makes e a variant wherever its gates hold and no earlier holder is
// present. It reports false when that never happens.
func (v *valueHolders) add(e *registry.ResolvedEntry) (holder, bool) {
	if v.always {
		return holder{}, false
	}
	cond, ok := condition{}.require(e.Gates).exclude(v.covered).reduce()
	if !ok {
		return holder{}, false
	}
	h := holder{entry: e, cond: cond}
	v.holders = append(v.holders, h)
	v.covered = append(v.covered, e.Gates...)
	v.always = !e.Gated()
	return h, true
}

func (w *Writer) writeEnum(g *registry.ResolvedGroup) {
	values := make(map[int64]*valueHolders)
	var variants []holder
	var consts []associated

	// An entry whose value is already carried becomes a constant naming
	// each present holder, and a variant where none is.
	place := func(e *registry.ResolvedEntry) {
		v := values[e.Value]
		if v == nil {
			v = &valueHolders{}
			values[e.Value] = v
		}
		for _, h := range v.holders {
			if cond, ok := (condition{}).require(e.Gates).and(h.cond).reduce(); ok {
				consts = append(consts, associated{entry: e, target: h.entry.Name, cond: cond})
			}
		}
		if h, ok := v.add(e); ok {
			variants = append(variants, h)
		}
	}
	for i := range g.Entries {
		if g.Entries[i].Alias == "" {
			place(&g.Entries[i])
		}
	}
	for i := range g.Entries {
		if g.Entries[i].Alias != "" {
			place(&g.Entries[i])
		}
	}

	w.writeLine("#[repr(C)]")
	w.writeLine("#[derive(Debug, Copy, Clone, PartialEq, Eq, Hash)]")
	w.writeLine("pub enum %s {", g.Name)
	w.pushIndent()

	section := ""
	for _, h := range variants {
		e := h.entry
		if e.Gated() && e.Gates[0] != section {
			section = e.Gates[0]
			w.writeLine("// %s", section)
		}
		w.writeCondition(h.cond)
		w.writeLine("%s = %s,", e.Name, strconv.FormatInt(e.Value, 10))
	}

	if _, taken := values[SentinelValue]; taken {
		w.logger.Debug("sentinel value taken", "enum", g.Name)
	} else {
		w.writeLine("%s = 0x%X,", w.namer.call(upperSnake(g.Name)+"_MAX_ENUM"), SentinelValue)
	}

	w.popIndent()
	w.writeLine("}")
	w.writeLine("")

	if len(consts) == 0 {
		return
	}
	w.writeLine("impl %s {", g.Name)
	w.pushIndent()
	for _, c := range consts {
		w.writeCondition(c.cond)
		w.writeLine("pub const %s: Self = Self::%s;", c.entry.Name, c.target)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}
