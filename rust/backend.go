// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vkbind/registry"
)

// Options configures Rust binding generation.
type Options struct {
	// Library is the link name of the loader on non-Windows targets.
	Library string

	// WindowsLibrary is the link name of the loader on Windows.
	WindowsLibrary string

	// ProcAddrCommand is the core command the extension table constructor
	// resolves entry points with.
	ProcAddrCommand string

	// CommandPrefix is stripped from command names to name table fields.
	CommandPrefix string

	// TableName names the extension function-pointer table.
	TableName string

	// Reserved maps registry identifiers that are Rust keywords to the
	// spelling used in every declaration and reference.
	Reserved map[string]string

	// PlatformTypes maps window-system and OS types, known to the registry
	// only by name, to Rust types. Unlisted ones become c_void.
	PlatformTypes map[string]string

	// Logger receives debug and warning messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns options producing bindings for the system loader.
func DefaultOptions() Options {
	return Options{
		Library:         "vulkan",
		WindowsLibrary:  "vulkan-1",
		ProcAddrCommand: "vkGetInstanceProcAddr",
		CommandPrefix:   "vk",
		TableName:       "VkExtensionTable",
		Reserved:        DefaultReserved(),
		PlatformTypes:   DefaultPlatformTypes(),
	}
}

// DefaultPlatformTypes returns the default Rust spelling of platform types.
func DefaultPlatformTypes() map[string]string {
	return map[string]string{
		"Display":             "c_void",
		"VisualID":            "c_ulong",
		"Window":              "c_ulong",
		"RROutput":            "c_ulong",
		"xcb_connection_t":    "c_void",
		"xcb_visualid_t":      "u32",
		"xcb_window_t":        "u32",
		"wl_display":          "c_void",
		"wl_surface":          "c_void",
		"HINSTANCE":           "*mut c_void",
		"HWND":                "*mut c_void",
		"HMONITOR":            "*mut c_void",
		"HANDLE":              "*mut c_void",
		"DWORD":               "u32",
		"LPCWSTR":             "*const u16",
		"SECURITY_ATTRIBUTES": "c_void",
		"ANativeWindow":       "c_void",
		"AHardwareBuffer":     "c_void",
		"CAMetalLayer":        "c_void",
		"zx_handle_t":         "u32",
		"GgpStreamDescriptor": "u32",
		"GgpFrameToken":       "u64",
		"IDirectFB":           "c_void",
		"IDirectFBSurface":    "c_void",
		"_screen_context":     "c_void",
		"_screen_window":      "c_void",
		"_screen_buffer":      "c_void",
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Library == "" {
		o.Library = def.Library
	}
	if o.WindowsLibrary == "" {
		o.WindowsLibrary = def.WindowsLibrary
	}
	if o.ProcAddrCommand == "" {
		o.ProcAddrCommand = def.ProcAddrCommand
	}
	if o.CommandPrefix == "" {
		o.CommandPrefix = def.CommandPrefix
	}
	if o.TableName == "" {
		o.TableName = def.TableName
	}
	if o.Reserved == nil {
		o.Reserved = def.Reserved
	}
	if o.PlatformTypes == nil {
		o.PlatformTypes = def.PlatformTypes
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Compile generates the Rust bindings for a resolved registry.
// Returns the Rust source as a string, or an error.
func Compile(res *registry.Resolved, options Options) (string, error) {
	options = options.withDefaults()

	w := newWriter(res, &options)
	if err := w.writeModule(); err != nil {
		return "", fmt.Errorf("rust: %w", err)
	}
	return w.String(), nil
}
