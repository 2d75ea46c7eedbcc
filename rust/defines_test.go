// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gogpu/vkbind/registry"
)

func TestMacroArguments(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		macro   string
		want    []string
	}{
		{
			name:    "api version",
			payload: "// Vulkan 1.0 version number\n#define VK_API_VERSION_1_0 VK_MAKE_API_VERSION(0, 1, 0, 0)// Patch version should always be set to 0",
			macro:   makeAPIVersion,
			want:    []string{"0", "1", "0", "0"},
		},
		{
			name:    "symbolic argument",
			payload: "#define VK_HEADER_VERSION_COMPLETE VK_MAKE_API_VERSION(0, 1, 3, VK_HEADER_VERSION)",
			macro:   makeAPIVersion,
			want:    []string{"0", "1", "3", "VK_HEADER_VERSION"},
		},
		{
			name:    "space before arguments",
			payload: "#define VK_API_VERSION VK_MAKE_VERSION (1, 0, 0)",
			macro:   makeVersion,
			want:    []string{"1", "0", "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := macroArguments(tt.payload, tt.macro)
			if err != nil {
				t.Fatalf("macroArguments: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("macroArguments = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMacroArguments_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"no invocation", "#define VK_API_VERSION_1_0 1"},
		{"no arguments", "#define VK_API_VERSION_1_0 VK_MAKE_API_VERSION"},
		{"expression argument", "#define VK_API_VERSION_1_0 VK_MAKE_API_VERSION(0, 1+1, 0, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := macroArguments(tt.payload, makeAPIVersion); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTrailingNumber(t *testing.T) {
	got, err := trailingNumber("// Version of this file\n#define VK_HEADER_VERSION 204")
	if err != nil {
		t.Fatalf("trailingNumber: %v", err)
	}
	if got != "204" {
		t.Errorf("trailingNumber = %q, want \"204\"", got)
	}

	if _, err := trailingNumber("#define VK_HEADER_VERSION"); err == nil {
		t.Error("expected error for a payload without a number")
	}
}

func TestWriteDefines(t *testing.T) {
	reg := registry.New()
	reg.AddType(registry.TypeEntry{
		Name:     makeVersion,
		Category: registry.CategoryDefine,
		Payload:  "#define VK_MAKE_VERSION(major, minor, patch) \\\n    ((((uint32_t)(major)) << 22U) | (((uint32_t)(minor)) << 12U) | ((uint32_t)(patch)))",
	})
	reg.AddType(registry.TypeEntry{
		Name:       "VK_API_VERSION_1_0",
		Category:   registry.CategoryDefine,
		Requires:   makeAPIVersion,
		Underlying: makeAPIVersion,
		Payload:    "// Vulkan 1.0 version number\n#define VK_API_VERSION_1_0 VK_MAKE_API_VERSION(0, 1, 0, 0)",
	})
	reg.AddType(registry.TypeEntry{
		Name:       "VK_API_VERSION",
		Category:   registry.CategoryDefine,
		Underlying: makeAPIVersion,
		Payload:    "//#define VK_API_VERSION VK_MAKE_API_VERSION(0, 1, 0, 0)",
	})
	reg.AddType(registry.TypeEntry{
		Name:     headerVersion,
		Category: registry.CategoryDefine,
		Payload:  "// Version of this file\n#define VK_HEADER_VERSION 204",
	})
	reg.AddType(registry.TypeEntry{
		Name:     nullHandle,
		Category: registry.CategoryDefine,
		Payload:  "#define VK_NULL_HANDLE 0",
	})
	reg.AddType(registry.TypeEntry{
		Name:     "VK_DEFINE_HANDLE",
		Category: registry.CategoryDefine,
		Payload:  "#define VK_DEFINE_HANDLE(object) typedef struct object##_T* object;",
	})

	w := testWriter(t, reg)
	if err := w.writeDefines(); err != nil {
		t.Fatalf("writeDefines: %v", err)
	}
	out := w.String()

	for _, want := range []string{
		"pub const fn VK_MAKE_VERSION(major: u32, minor: u32, patch: u32) -> u32 {\n    (major << 22) | (minor << 12) | patch\n}\n",
		"pub const VK_API_VERSION_1_0: u32 = VK_MAKE_API_VERSION(0, 1, 0, 0);\n",
		"pub const VK_HEADER_VERSION: u32 = 204;\n",
		"pub const VK_NULL_HANDLE: u64 = 0;\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"VK_API_VERSION:", "VK_DEFINE_HANDLE"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output should not contain %q\n%s", unwanted, out)
		}
	}
}
