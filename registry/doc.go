// Package registry defines the in-memory model of a Vulkan API registry.
//
// The model is a language-agnostic view of vk.xml:
//   - Types: every declared type name and its category
//   - Structs: structure and union layouts in declaration order
//   - Commands: function prototypes keyed by name
//   - Groups: enumerations, bitmask groups and the API Constants group
//   - Features: per-version require blocks forming the core surface
//   - Extensions: numbered, optionally enabled additive blocks
//
// # Pipeline
//
// The model is filled by a single pass of the vkxml builder, then handed to
// Resolve, which computes every enumerant value and partitions the surface
// into an unconditional core and extension-gated parts:
//
//	vk.xml → vkxml.Parse → *Registry → Resolve → *Resolved → backend
//
// # Extension numbering
//
// Enumerants introduced by extensions are not written literally in the
// registry. Their value is derived from the extension registration number:
//
//	value = ExtBase + (number-1)*ExtBlock + offset
//
// and negated when the enumerant carries dir="-".
package registry
