// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

// reservedKeywords contains the Rust keywords that cannot name a field or
// parameter, across the 2015, 2018 and 2021 editions.
var reservedKeywords = map[string]struct{}{
	// Strict keywords
	"as":       {},
	"async":    {},
	"await":    {},
	"break":    {},
	"const":    {},
	"continue": {},
	"crate":    {},
	"dyn":      {},
	"else":     {},
	"enum":     {},
	"extern":   {},
	"false":    {},
	"fn":       {},
	"for":      {},
	"if":       {},
	"impl":     {},
	"in":       {},
	"let":      {},
	"loop":     {},
	"match":    {},
	"mod":      {},
	"move":     {},
	"mut":      {},
	"pub":      {},
	"ref":      {},
	"return":   {},
	"self":     {},
	"Self":     {},
	"static":   {},
	"struct":   {},
	"super":    {},
	"trait":    {},
	"true":     {},
	"type":     {},
	"unsafe":   {},
	"use":      {},
	"where":    {},
	"while":    {},

	// Reserved for future use
	"abstract": {},
	"become":   {},
	"box":      {},
	"do":       {},
	"final":    {},
	"gen":      {},
	"macro":    {},
	"override": {},
	"priv":     {},
	"try":      {},
	"typeof":   {},
	"unsized":  {},
	"virtual":  {},
	"yield":    {},
}

// IsReserved reports whether name is a Rust keyword.
func IsReserved(name string) bool {
	_, ok := reservedKeywords[name]
	return ok
}

// DefaultReserved returns the default substitutions for registry names that
// collide with Rust keywords.
func DefaultReserved() map[string]string {
	return map[string]string{
		"type": "type_",
	}
}
