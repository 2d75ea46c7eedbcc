// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"strconv"
	"strings"

	"github.com/gogpu/vkbind/registry"
)

// DefaultConstantType is the type of API constants not listed in the
// constant type table. It matches the array length type, since most
// constants size fixed arrays.
const DefaultConstantType = "usize"

// constantTypes maps API constant names to their Rust type.
var constantTypes = map[string]string{
	"VK_LOD_CLAMP_NONE":           "f32",
	"VK_WHOLE_SIZE":               "u64",
	"VK_TRUE":                     "u32",
	"VK_FALSE":                    "u32",
	"VK_ATTACHMENT_UNUSED":        "u32",
	"VK_SUBPASS_EXTERNAL":         "u32",
	"VK_QUEUE_FAMILY_EXTERNAL":    "u32",
	"VK_QUEUE_FAMILY_FOREIGN_EXT": "u32",
	"VK_SHADER_UNUSED_KHR":        "u32",
}

// constantTypeAffixes covers families of names.
var constantTypeAffixes = []struct {
	prefix string
	suffix string
	typ    string
}{
	{prefix: "VK_REMAINING_", typ: "u32"},
	{suffix: "_IGNORED", typ: "u32"},
}

// ConstantType returns the Rust type of an API constant, guessed from its
// name.
func ConstantType(name string) string {
	if t, ok := constantTypes[name]; ok {
		return t
	}
	for _, a := range constantTypeAffixes {
		if a.prefix != "" && strings.HasPrefix(name, a.prefix) {
			return a.typ
		}
		if a.suffix != "" && strings.HasSuffix(name, a.suffix) {
			return a.typ
		}
	}
	return DefaultConstantType
}

// TranslateLiteral rewrites a C constant expression from the registry into
// Rust. Supported forms are integers with optional U/ULL suffixes, hex
// integers, floats with an f suffix, and complements such as (~0U) and
// (~0U-1).
func TranslateLiteral(text string) (string, error) {
	s := strings.TrimSpace(text)
	for len(s) > 1 && s[0] == '(' && s[len(s)-1] == ')' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	if rest, ok := strings.CutPrefix(s, "~"); ok {
		operand, offset, hasOffset := strings.Cut(rest, "-")
		n, err := integerLiteral(operand)
		if err != nil {
			return "", err
		}
		if !hasOffset {
			return "!" + n, nil
		}
		m, err := integerLiteral(offset)
		if err != nil {
			return "", err
		}
		return "!" + n + " - " + m, nil
	}

	if strings.ContainsAny(s, ".") {
		f := strings.TrimRight(s, "fF")
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return "", newErrorf(ErrInvalidConstant, "invalid float literal %q", text)
		}
		return f, nil
	}

	return integerLiteral(s)
}

func integerLiteral(text string) (string, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimRight(s, "uUlL")
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if _, err := strconv.ParseUint(digits, 0, 64); err != nil {
		return "", newErrorf(ErrInvalidConstant, "invalid integer literal %q", text)
	}
	if neg {
		return "-" + digits, nil
	}
	return digits, nil
}

// isString reports whether a registry value is a quoted string.
func isString(value string) bool {
	return len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"'
}

// writeConstants writes the API constants group followed by the
// extension constants.
func (w *Writer) writeConstants() error {
	for _, list := range [][]registry.Constant{w.res.Constants, w.res.ExtConstants} {
		for i := range list {
			c := &list[i]
			if constantAlias(c) != "" {
				continue
			}
			if isString(c.Value) {
				w.constTypes[c.Name] = "&str"
			} else {
				w.constTypes[c.Name] = ConstantType(c.Name)
			}
		}
	}

	for i := range w.res.Constants {
		if err := w.writeConstant(&w.res.Constants[i]); err != nil {
			return err
		}
	}
	w.writeLine("")

	for i := range w.res.ExtConstants {
		if err := w.writeConstant(&w.res.ExtConstants[i]); err != nil {
			return err
		}
	}
	w.writeLine("")
	return nil
}

// constantAlias returns the constant c stands for, given either as an
// alias attribute or as a value naming another constant.
func constantAlias(c *registry.Constant) string {
	if c.Alias != "" {
		return c.Alias
	}
	if v := strings.TrimSpace(c.Value); isIdentifier(v) {
		return v
	}
	return ""
}

func (w *Writer) writeConstant(c *registry.Constant) error {
	var typ, value string
	if alias := constantAlias(c); alias != "" {
		typ = w.constTypes[alias]
		if typ == "" {
			typ = ConstantType(alias)
		}
		value = alias
		w.constTypes[c.Name] = typ
	} else if isString(c.Value) {
		typ = "&str"
		value = c.Value
	} else {
		v, err := TranslateLiteral(c.Value)
		if err != nil {
			return newErrorf(ErrInvalidConstant, "%s has untranslatable value %q", c.Name, c.Value)
		}
		typ = w.constTypes[c.Name]
		value = v
	}

	w.writeCfg(c.Gates)
	w.writeLine("pub const %s: %s = %s;", c.Name, typ, value)
	return nil
}
