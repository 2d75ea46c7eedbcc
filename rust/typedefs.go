// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"github.com/gogpu/vkbind/registry"
)

// platformHeader is the requires value of C scalar types.
const platformHeader = "vk_platform"

// writeBaseTypes writes basetypes, platform types and function pointers.
func (w *Writer) writeBaseTypes() {
	for i := range w.reg.Types {
		t := &w.reg.Types[i]
		switch t.Category {
		case registry.CategoryBasic:
			if t.Underlying == "" {
				w.writeLine("pub type %s = %s;", t.Name, w.platformType(t.Name))
				continue
			}
			w.writeLine("pub type %s = %s;", t.Name, baseType(t.Underlying))
		case registry.CategoryForward:
			if t.Requires == platformHeader || t.Requires == "" {
				continue
			}
			if _, ok := cTypes[t.Name]; ok {
				continue
			}
			w.writeLine("pub type %s = %s;", t.Name, w.platformType(t.Name))
		case registry.CategoryFuncPointer:
			w.writeLine("pub type %s = Option<unsafe extern \"system\" fn()>;", t.Name)
		}
	}
	w.writeLine("")
}

// platformType returns the Rust spelling of a type the registry only names.
func (w *Writer) platformType(name string) string {
	if t, ok := w.options.PlatformTypes[name]; ok {
		return t
	}
	w.logger.Debug("opaque platform type", "type", name)
	return "c_void"
}

// writeBitmaskTypes writes the flag type of every bitmask without a
// FlagBits group, and aliases every FlagBits group to its flag-set type.
func (w *Writer) writeBitmaskTypes() {
	for i := range w.reg.Types {
		t := &w.reg.Types[i]
		if t.Category != registry.CategoryBitmask {
			continue
		}
		if t.Alias != "" {
			w.writeLine("pub type %s = %s;", t.Name, t.Alias)
			continue
		}
		if g, ok := w.res.Group(t.Requires); ok && g.Kind == registry.GroupBitmask {
			if _, seen := w.flagsFor[g.Name]; !seen {
				w.flagsFor[g.Name] = t
				continue
			}
		}
		w.writeLine("pub type %s = %s;", t.Name, w.flagsBase(t, registry.DefaultBitwidth))
	}

	for _, g := range w.res.Groups {
		if t, ok := w.flagsFor[g.Name]; ok && t.Name != g.Name {
			w.writeLine("pub type %s = %s;", g.Name, t.Name)
		}
	}
	w.writeLine("")
}

// flagsBase returns the integer type a flag set is stored in.
func (w *Writer) flagsBase(t *registry.TypeEntry, bitwidth int) string {
	if t != nil && t.Underlying != "" {
		return baseType(t.Underlying)
	}
	if bitwidth == 64 {
		return "VkFlags64"
	}
	return "VkFlags"
}

// writeHandles writes opaque handle types.
func (w *Writer) writeHandles() {
	for i := range w.reg.Types {
		t := &w.reg.Types[i]
		if t.Category != registry.CategoryHandle {
			continue
		}
		switch {
		case t.Alias != "":
			w.writeLine("pub type %s = %s;", t.Name, t.Alias)
		case t.Dispatchable():
			w.writeLine("pub type %s = *mut c_void;", t.Name)
		default:
			w.writeLine("pub type %s = u64;", t.Name)
		}
	}
	w.writeLine("")
}
