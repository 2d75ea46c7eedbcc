// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import "testing"

func TestIsReserved(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"strict_type", "type", true},
		{"strict_fn", "fn", true},
		{"strict_self_type", "Self", true},
		{"strict_async", "async", true},
		{"future_yield", "yield", true},
		{"future_gen", "gen", true},
		{"field_sType", "sType", false},
		{"field_flags", "flags", false},
		{"field_type_suffixed", "type_", false},
		{"field_float32", "float32", false},
		{"case_sensitive", "Type", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReserved(tt.input); got != tt.expected {
				t.Errorf("IsReserved(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultReserved(t *testing.T) {
	reserved := DefaultReserved()
	if got := reserved["type"]; got != "type_" {
		t.Errorf(`DefaultReserved()["type"] = %q, want "type_"`, got)
	}
	for name, sub := range reserved {
		if !IsReserved(name) {
			t.Errorf("%q is substituted but is not a keyword", name)
		}
		if IsReserved(sub) {
			t.Errorf("substitution %q for %q is itself a keyword", sub, name)
		}
	}
}
