// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"testing"

	"github.com/gogpu/vkbind/registry"
)

func TestConstantType(t *testing.T) {
	for name, want := range constantTypes {
		if got := ConstantType(name); got != want {
			t.Errorf("ConstantType(%q) = %q, want %q", name, got, want)
		}
	}

	tests := []struct {
		name string
		want string
	}{
		{"VK_LOD_CLAMP_NONE", "f32"},
		{"VK_WHOLE_SIZE", "u64"},
		{"VK_TRUE", "u32"},
		{"VK_FALSE", "u32"},
		{"VK_ATTACHMENT_UNUSED", "u32"},
		{"VK_SUBPASS_EXTERNAL", "u32"},
		{"VK_QUEUE_FAMILY_EXTERNAL", "u32"},
		{"VK_QUEUE_FAMILY_FOREIGN_EXT", "u32"},
		{"VK_SHADER_UNUSED_KHR", "u32"},
		{"VK_REMAINING_MIP_LEVELS", "u32"},
		{"VK_REMAINING_ARRAY_LAYERS", "u32"},
		{"VK_REMAINING_3D_SLICES_EXT", "u32"},
		{"VK_QUEUE_FAMILY_IGNORED", "u32"},
		{"VK_MAX_PHYSICAL_DEVICE_NAME_SIZE", DefaultConstantType},
		{"VK_UUID_SIZE", DefaultConstantType},
		{"VK_IGNORED_PREFIX_ONLY", DefaultConstantType},
	}

	for _, tt := range tests {
		if got := ConstantType(tt.name); got != tt.want {
			t.Errorf("ConstantType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	for _, a := range constantTypeAffixes {
		name := a.prefix + "ANY" + a.suffix
		if got := ConstantType(name); got != a.typ {
			t.Errorf("ConstantType(%q) = %q, want %q", name, got, a.typ)
		}
	}
}

func TestTranslateLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"256", "256"},
		{"0x10", "0x10"},
		{"-1", "-1"},
		{"16U", "16"},
		{"(~0U)", "!0"},
		{"(~0ULL)", "!0"},
		{"(~1U)", "!1"},
		{"(~0U-1)", "!0 - 1"},
		{"(~0U-2)", "!0 - 2"},
		{"1000.0F", "1000.0"},
		{"1000.0f", "1000.0"},
		{"0.5", "0.5"},
	}

	for _, tt := range tests {
		got, err := TranslateLiteral(tt.input)
		if err != nil {
			t.Errorf("TranslateLiteral(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TranslateLiteral(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTranslateLiteral_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3", "(~x)", "(~0U-y)", "sizeof(int)"} {
		if _, err := TranslateLiteral(input); err == nil {
			t.Errorf("TranslateLiteral(%q) should fail", input)
		}
	}
}

func TestConstantAlias(t *testing.T) {
	tests := []struct {
		constant registry.Constant
		want     string
	}{
		{registry.Constant{Name: "VK_LUID_SIZE_KHR", Alias: "VK_LUID_SIZE"}, "VK_LUID_SIZE"},
		{registry.Constant{Name: "VK_MAX_DRIVER_NAME_SIZE_KHR", Value: "VK_MAX_DRIVER_NAME_SIZE"}, "VK_MAX_DRIVER_NAME_SIZE"},
		{registry.Constant{Name: "VK_UUID_SIZE", Value: "16"}, ""},
		{registry.Constant{Name: "VK_KHR_SURFACE_EXTENSION_NAME", Value: `"VK_KHR_surface"`}, ""},
	}

	for _, tt := range tests {
		if got := constantAlias(&tt.constant); got != tt.want {
			t.Errorf("constantAlias(%s) = %q, want %q", tt.constant.Name, got, tt.want)
		}
	}
}
