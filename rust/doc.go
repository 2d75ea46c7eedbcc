// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package rust generates Rust FFI bindings from a resolved Vulkan registry.
//
// The output is a single source unit meant to be included in a crate that
// depends on bitflags 2.x. Items are written in a fixed order:
//
//  1. banner, crate attributes and imports
//  2. version macros and other hand-mapped defines
//  3. API constants, then extension constants
//  4. basetypes, platform types and function pointers
//  5. flag-set typedefs
//  6. handles
//  7. enumerations
//  8. flag sets
//  9. structures and unions
//  10. the extern block of core commands
//  11. the extension function table
//
// # Extension Gating
//
// Every item an extension contributes is gated by a Cargo feature named
// after the extension:
//
//	#[cfg(feature = "VK_KHR_surface")]
//	VK_ERROR_SURFACE_LOST_KHR = -1000000000,
//
// Items shared by several extensions are enabled by any of them.
//
// # Usage
//
//	res, err := registry.Resolve(reg)
//	if err != nil {
//		return err
//	}
//	source, err := rust.Compile(res, rust.DefaultOptions())
package rust
