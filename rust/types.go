// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"fmt"
	"strings"

	"github.com/gogpu/vkbind/registry"
)

// cTypes maps C scalar types to their Rust spelling.
var cTypes = map[string]string{
	"void":     "c_void",
	"char":     "c_char",
	"float":    "f32",
	"double":   "f64",
	"uint8_t":  "u8",
	"uint16_t": "u16",
	"uint32_t": "u32",
	"uint64_t": "u64",
	"int8_t":   "i8",
	"int16_t":  "i16",
	"int32_t":  "i32",
	"int64_t":  "i64",
	"size_t":   "usize",
	"int":      "c_int",
}

// pointerPrefixes holds the rendering of every (depth, const mask) pair.
// Depth 1 is const when level 0 is. At depth 2 the outer pointer is const
// when level 1 is and the inner one when level 0 is.
var pointerPrefixes = [registry.MaxPointerDepth + 1][4]string{
	{"", "", "", ""},
	{"*mut ", "*const ", "*mut ", "*const "},
	{"*mut *mut ", "*mut *const ", "*const *mut ", "*const *const "},
}

// pointerPrefix returns the pointer spelling for a field shape.
func pointerPrefix(depth int, konst registry.ConstMask) (string, bool) {
	if depth < 0 || depth > registry.MaxPointerDepth {
		return "", false
	}
	return pointerPrefixes[depth][konst&3], true
}

// baseType returns the Rust spelling of a registry type name.
func baseType(name string) string {
	if t, ok := cTypes[name]; ok {
		return t
	}
	return name
}

// fieldType renders the Rust type of a member or parameter.
func fieldType(f *registry.Field) (string, error) {
	prefix, ok := pointerPrefix(f.PointerDepth, f.Const)
	if !ok {
		return "", newErrorf(ErrUnsupportedType, "field %s has pointer depth %d", f.Name, f.PointerDepth)
	}
	t := prefix + baseType(f.BaseType)
	for i := len(f.Dims) - 1; i >= 0; i-- {
		t = fmt.Sprintf("[%s; %s]", t, f.Dims[i])
	}
	return t, nil
}

// returnType renders a command return type. Trailing stars denote mutable
// pointers. It returns "" for void.
func returnType(name string) string {
	depth := 0
	for strings.HasSuffix(name, "*") {
		name = strings.TrimSuffix(name, "*")
		depth++
	}
	if depth == 0 && name == "void" {
		return ""
	}
	return strings.Repeat("*mut ", depth) + baseType(name)
}

// cfgAttribute renders the feature gate of an extension surface item.
func cfgAttribute(gates []string) string {
	return fmt.Sprintf("#[cfg(%s)]", anyFeature(gates))
}

// hexValue formats a flag value. Values of 64-bit groups are bit patterns,
// so bit 63 prints unsigned.
func hexValue(v int64, bitwidth int) string {
	if bitwidth == 64 {
		return fmt.Sprintf("0x%X", uint64(v))
	}
	if v < 0 {
		return fmt.Sprintf("-0x%X", -v)
	}
	return fmt.Sprintf("0x%X", v)
}
