// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"strconv"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"

	"github.com/gogpu/vkbind/registry"
)

const (
	whitespaceToken int = iota
	argsBlockToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var argsBlockMatcher = parsly.NewToken(argsBlockToken, "( .... )", matcher.NewBlock('(', ')', '\\'))

// Version macros, rendered as const fns.
const (
	makeVersion    = "VK_MAKE_VERSION"
	makeAPIVersion = "VK_MAKE_API_VERSION"
	headerVersion  = "VK_HEADER_VERSION"
	nullHandle     = "VK_NULL_HANDLE"
)

// versionFunctions holds the hand-written body of each version macro.
var versionFunctions = map[string][]string{
	makeVersion: {
		"pub const fn VK_MAKE_VERSION(major: u32, minor: u32, patch: u32) -> u32 {",
		"    (major << 22) | (minor << 12) | patch",
		"}",
	},
	makeAPIVersion: {
		"pub const fn VK_MAKE_API_VERSION(variant: u32, major: u32, minor: u32, patch: u32) -> u32 {",
		"    (variant << 29) | (major << 22) | (minor << 12) | patch",
		"}",
	},
	"VK_VERSION_MAJOR": {
		"pub const fn VK_VERSION_MAJOR(version: u32) -> u32 {",
		"    version >> 22",
		"}",
	},
	"VK_VERSION_MINOR": {
		"pub const fn VK_VERSION_MINOR(version: u32) -> u32 {",
		"    (version >> 12) & 0x3FF",
		"}",
	},
	"VK_VERSION_PATCH": {
		"pub const fn VK_VERSION_PATCH(version: u32) -> u32 {",
		"    version & 0xFFF",
		"}",
	},
	"VK_API_VERSION_VARIANT": {
		"pub const fn VK_API_VERSION_VARIANT(version: u32) -> u32 {",
		"    version >> 29",
		"}",
	},
	"VK_API_VERSION_MAJOR": {
		"pub const fn VK_API_VERSION_MAJOR(version: u32) -> u32 {",
		"    (version >> 22) & 0x7F",
		"}",
	},
	"VK_API_VERSION_MINOR": {
		"pub const fn VK_API_VERSION_MINOR(version: u32) -> u32 {",
		"    (version >> 12) & 0x3FF",
		"}",
	},
	"VK_API_VERSION_PATCH": {
		"pub const fn VK_API_VERSION_PATCH(version: u32) -> u32 {",
		"    version & 0xFFF",
		"}",
	},
}

// writeDefines writes the define-category types that have a Rust mapping.
func (w *Writer) writeDefines() error {
	for i := range w.reg.Types {
		t := &w.reg.Types[i]
		if t.Category != registry.CategoryDefine {
			continue
		}
		if err := w.writeDefine(t); err != nil {
			return err
		}
	}
	w.writeLine("")
	return nil
}

func (w *Writer) writeDefine(t *registry.TypeEntry) error {
	if strings.Contains(t.Payload, "//#define") {
		w.logger.Debug("define commented out", "define", t.Name)
		return nil
	}
	if lines, ok := versionFunctions[t.Name]; ok {
		for _, line := range lines {
			w.writeLine("%s", line)
		}
		return nil
	}

	switch {
	case t.Name == nullHandle:
		w.writeLine("pub const VK_NULL_HANDLE: u64 = 0;")
	case t.Name == headerVersion:
		n, err := trailingNumber(t.Payload)
		if err != nil {
			return newErrorf(ErrInvalidDefine, "%s: %v", t.Name, err)
		}
		w.writeLine("pub const %s: u32 = %s;", t.Name, n)
	case t.Underlying == makeAPIVersion || t.Underlying == makeVersion:
		args, err := macroArguments(t.Payload, t.Underlying)
		if err != nil {
			return newErrorf(ErrInvalidDefine, "%s: %v", t.Name, err)
		}
		w.writeLine("pub const %s: u32 = %s(%s);", t.Name, t.Underlying, strings.Join(args, ", "))
	default:
		w.logger.Debug("define skipped", "define", t.Name)
	}
	return nil
}

// trailingNumber returns the last decimal literal of a define payload.
func trailingNumber(payload string) (string, error) {
	fields := strings.Fields(payload)
	for i := len(fields) - 1; i >= 0; i-- {
		if _, err := strconv.ParseUint(fields[i], 10, 32); err == nil {
			return fields[i], nil
		}
	}
	return "", newErrorf(ErrInvalidDefine, "no version number in %q", payload)
}

// macroArguments extracts the argument list of the first invocation of
// macro in payload.
func macroArguments(payload, macro string) ([]string, error) {
	idx := strings.Index(payload, macro)
	if idx < 0 {
		return nil, newErrorf(ErrInvalidDefine, "no %s invocation", macro)
	}
	cursor := parsly.NewCursor("", []byte(payload[idx+len(macro):]), 0)
	matched := cursor.MatchAfterOptional(whitespaceMatcher, argsBlockMatcher)
	if matched.Code != argsBlockToken {
		return nil, newErrorf(ErrInvalidDefine, "%s without arguments", macro)
	}
	block := matched.Text(cursor)
	var args []string
	for _, arg := range strings.Split(block[1:len(block)-1], ",") {
		arg = strings.TrimSpace(arg)
		if !isNumber(arg) && !isIdentifier(arg) {
			return nil, newErrorf(ErrInvalidDefine, "unsupported argument %q", arg)
		}
		args = append(args, arg)
	}
	return args, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseUint(s, 0, 32)
	return err == nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
