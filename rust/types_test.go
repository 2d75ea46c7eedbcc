// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"testing"

	"github.com/gogpu/vkbind/registry"
)

func TestPointerPrefix(t *testing.T) {
	tests := []struct {
		depth int
		konst registry.ConstMask
		want  string
	}{
		{0, 0, ""},
		{0, 1, ""},
		{1, 0, "*mut "},
		{1, 1, "*const "},
		{1, 2, "*mut "},
		{2, 0, "*mut *mut "},
		{2, 1, "*mut *const "},
		{2, 2, "*const *mut "},
		{2, 3, "*const *const "},
	}

	for _, tt := range tests {
		got, ok := pointerPrefix(tt.depth, tt.konst)
		if !ok {
			t.Errorf("pointerPrefix(%d, %d) not ok", tt.depth, tt.konst)
			continue
		}
		if got != tt.want {
			t.Errorf("pointerPrefix(%d, %d) = %q, want %q", tt.depth, tt.konst, got, tt.want)
		}
	}

	if _, ok := pointerPrefix(3, 0); ok {
		t.Error("pointerPrefix(3, 0) should not be ok")
	}
}

func TestFieldType(t *testing.T) {
	tests := []struct {
		name  string
		field registry.Field
		want  string
	}{
		{
			name:  "scalar",
			field: registry.Field{Name: "width", BaseType: "uint32_t"},
			want:  "u32",
		},
		{
			name:  "registry type",
			field: registry.Field{Name: "sType", BaseType: "VkStructureType"},
			want:  "VkStructureType",
		},
		{
			name:  "const void pointer",
			field: registry.Field{Name: "pNext", BaseType: "void", PointerDepth: 1, Const: 1},
			want:  "*const c_void",
		},
		{
			name:  "const string array",
			field: registry.Field{Name: "ppEnabledLayerNames", BaseType: "char", PointerDepth: 2, Const: 3},
			want:  "*const *const c_char",
		},
		{
			name: "symbolic array",
			field: registry.Field{
				Name:     "deviceName",
				BaseType: "char",
				Dims:     []registry.ArrayLength{{Symbol: "VK_MAX_PHYSICAL_DEVICE_NAME_SIZE"}},
			},
			want: "[c_char; VK_MAX_PHYSICAL_DEVICE_NAME_SIZE]",
		},
		{
			name: "two dimensional array",
			field: registry.Field{
				Name:     "matrix",
				BaseType: "float",
				Dims:     []registry.ArrayLength{{Literal: 3}, {Literal: 4}},
			},
			want: "[[f32; 4]; 3]",
		},
		{
			name: "array of const strings",
			field: registry.Field{
				Name:         "ppNames",
				BaseType:     "char",
				PointerDepth: 2,
				Const:        3,
				Dims:         []registry.ArrayLength{{Symbol: "VK_MAX_FOO"}},
			},
			want: "[*const *const c_char; VK_MAX_FOO]",
		},
		{
			name: "array of mutable pointers",
			field: registry.Field{
				Name:         "pData",
				BaseType:     "void",
				PointerDepth: 1,
				Dims:         []registry.ArrayLength{{Literal: 2}},
			},
			want: "[*mut c_void; 2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fieldType(&tt.field)
			if err != nil {
				t.Fatalf("fieldType: %v", err)
			}
			if got != tt.want {
				t.Errorf("fieldType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldType_TooDeep(t *testing.T) {
	_, err := fieldType(&registry.Field{Name: "pppData", BaseType: "void", PointerDepth: 3})
	if err == nil {
		t.Fatal("expected error for pointer depth 3")
	}
	rerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if rerr.Kind != ErrUnsupportedType {
		t.Errorf("Kind = %v, want %v", rerr.Kind, ErrUnsupportedType)
	}
}

func TestReturnType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"void", ""},
		{"VkResult", "VkResult"},
		{"uint32_t", "u32"},
		{"void*", "*mut c_void"},
		{"PFN_vkVoidFunction", "PFN_vkVoidFunction"},
	}

	for _, tt := range tests {
		if got := returnType(tt.input); got != tt.want {
			t.Errorf("returnType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCfgAttribute(t *testing.T) {
	got := cfgAttribute([]string{"VK_KHR_surface"})
	want := `#[cfg(feature = "VK_KHR_surface")]`
	if got != want {
		t.Errorf("single gate = %q, want %q", got, want)
	}

	got = cfgAttribute([]string{"VK_KHR_surface", "VK_KHR_xlib_surface"})
	want = `#[cfg(any(feature = "VK_KHR_surface", feature = "VK_KHR_xlib_surface"))]`
	if got != want {
		t.Errorf("two gates = %q, want %q", got, want)
	}
}

func TestHexValue(t *testing.T) {
	tests := []struct {
		input    int64
		bitwidth int
		want     string
	}{
		{0, 32, "0x0"},
		{1, 32, "0x1"},
		{0x80, 32, "0x80"},
		{-1, 32, "-0x1"},
		{1 << 32, 64, "0x100000000"},
		{1 << 40, 64, "0x10000000000"},
		{-1 << 63, 64, "0x8000000000000000"},
		{-1, 64, "0xFFFFFFFFFFFFFFFF"},
	}

	for _, tt := range tests {
		if got := hexValue(tt.input, tt.bitwidth); got != tt.want {
			t.Errorf("hexValue(%d, %d) = %q, want %q", tt.input, tt.bitwidth, got, tt.want)
		}
	}
}
