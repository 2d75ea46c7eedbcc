// Package vkxml builds a registry.Registry from a Vulkan registry document.
//
// # Components
//
// The vkxml package consists of several components:
//
//   - EventSource: pulls Open, Empty, Text, Close and End events from the
//     document, each carrying its line and column
//   - Stack: the names of the currently open elements, innermost first
//   - FieldBuilder: reconstructs the type shape of one member or param
//     from its mixed text and child elements
//   - Builder: a dispatch table keyed by (tag, parent tag) that fills the
//     registry model in a single pass
//
// # Usage
//
//	reg, err := vkxml.Parse(source, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := registry.Resolve(reg)
//
// # Grammar
//
// The accepted grammar is closed. An element whose (tag, parent) pair has no
// handler, or non-whitespace text where none is expected, is a SourceError.
// A few subtrees that carry nothing the bindings need (comments, platform and
// vendor tables, formats, SPIR-V and synchronization tables, video codecs)
// are skipped whole, as are elements whose api attribute excludes "vulkan".
package vkxml
