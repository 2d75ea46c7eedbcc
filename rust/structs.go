// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"fmt"
	"strings"

	"github.com/gogpu/vkbind/registry"
)

// cTypeBits holds the width of C scalar types that can back a bit-field.
var cTypeBits = map[string]int{
	"char":     8,
	"uint8_t":  8,
	"int8_t":   8,
	"uint16_t": 16,
	"int16_t":  16,
	"uint32_t": 32,
	"int32_t":  32,
	"int":      32,
	"uint64_t": 64,
	"int64_t":  64,
}

// storageUnits maps a bit-field storage width to its Rust integer.
var storageUnits = map[int]string{8: "u8", 16: "u16", 32: "u32", 64: "u64"}

// writeStructs writes every structure and union in declaration order,
// followed by structure aliases.
func (w *Writer) writeStructs() error {
	for _, s := range w.reg.Structs {
		if err := w.writeStruct(s); err != nil {
			return err
		}
	}

	for i := range w.reg.Types {
		t := &w.reg.Types[i]
		if t.Alias == "" || (t.Category != registry.CategoryStruct && t.Category != registry.CategoryUnion) {
			continue
		}
		w.writeCfg(w.res.StructGates[t.Alias])
		w.writeLine("pub type %s = %s;", t.Name, t.Alias)
	}
	w.writeLine("")
	return nil
}

func (w *Writer) writeStruct(s *registry.Struct) error {
	w.writeCfg(w.res.StructGates[s.Name])
	w.writeLine("#[repr(C)]")
	switch {
	case s.Union:
		w.writeLine("#[derive(Copy, Clone)]")
	case w.canDebug(s):
		w.writeLine("#[derive(Debug, Copy, Clone)]")
	default:
		w.writeLine("#[derive(Copy, Clone)]")
	}

	keyword := "struct"
	if s.Union {
		keyword = "union"
	}
	w.writeLine("pub %s %s {", keyword, s.Name)
	w.pushIndent()
	for i := 0; i < len(s.Fields); i++ {
		f := &s.Fields[i]
		if f.Bits > 0 {
			n, err := w.writeBitFields(s.Name, s.Fields[i:])
			if err != nil {
				return err
			}
			i += n - 1
			continue
		}
		name, err := w.identifier(f.Name, s.Name)
		if err != nil {
			return err
		}
		typ, err := fieldType(f)
		if err != nil {
			return err
		}
		w.writeLine("pub %s: %s,", name, typ)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// writeBitFields packs the leading run of bit-fields that share one storage
// unit into a single integer field named after its members joined by
// "_and_". It returns the number of members consumed.
func (w *Writer) writeBitFields(owner string, fields []registry.Field) (int, error) {
	unit, ok := w.bitWidth(fields[0].BaseType)
	if !ok {
		return 0, newErrorf(ErrUnsupportedType, "bit-field %s.%s has base type %s of unknown width", owner, fields[0].Name, fields[0].BaseType)
	}

	var names, layout []string
	used := 0
	n := 0
	for ; n < len(fields) && fields[n].Bits > 0; n++ {
		f := &fields[n]
		if used+f.Bits > unit {
			break
		}
		if width, ok := w.bitWidth(f.BaseType); !ok || width != unit {
			break
		}
		used += f.Bits
		names = append(names, f.Name)
		layout = append(layout, fmt.Sprintf("%s:%d", f.Name, f.Bits))
	}
	if n == 0 {
		return 0, newErrorf(ErrUnsupportedType, "bit-field %s.%s is wider than %s", owner, fields[0].Name, fields[0].BaseType)
	}

	name, err := w.identifier(strings.Join(names, "_and_"), owner)
	if err != nil {
		return 0, err
	}
	w.writeLine("// %s", strings.Join(layout, " "))
	w.writeLine("pub %s: %s,", name, storageUnits[unit])
	return n, nil
}

// bitWidth returns the width of an integer type, following typedefs.
func (w *Writer) bitWidth(name string) (int, bool) {
	for depth := 0; depth < 8; depth++ {
		if bits, ok := cTypeBits[name]; ok {
			return bits, true
		}
		t, ok := w.reg.Type(name)
		if !ok {
			return 0, false
		}
		switch {
		case t.Alias != "":
			name = t.Alias
		case t.Underlying != "":
			name = t.Underlying
		default:
			return 0, false
		}
	}
	return 0, false
}

// canDebug reports whether a structure can derive Debug. Fixed arrays and
// unions cannot, and neither can anything embedding them by value.
func (w *Writer) canDebug(s *registry.Struct) bool {
	if ok, seen := w.debuggable[s.Name]; seen {
		return ok
	}
	w.debuggable[s.Name] = false
	if s.Union || s.ContainsFixedArray {
		return false
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.PointerDepth > 0 {
			continue
		}
		inner, ok := w.embedded(f.BaseType)
		if ok && !w.canDebug(inner) {
			return false
		}
	}
	w.debuggable[s.Name] = true
	return true
}

// embedded returns the structure a by-value field type names, following
// type aliases.
func (w *Writer) embedded(name string) (*registry.Struct, bool) {
	for depth := 0; depth < 8; depth++ {
		if s, ok := w.reg.Struct(name); ok {
			return s, true
		}
		t, ok := w.reg.Type(name)
		if !ok || t.Alias == "" {
			return nil, false
		}
		name = t.Alias
	}
	return nil, false
}
