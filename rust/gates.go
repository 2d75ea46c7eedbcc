// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"fmt"
	"slices"
	"strings"
)

// condition is a conjunction of feature predicates: at least one feature of
// every required set is enabled and no excluded feature is. The zero value
// always holds.
type condition struct {
	required [][]string
	excluded []string
}

// require adds a set of which one feature must be enabled. An empty set
// adds nothing, so ungated items stay unconstrained.
func (c condition) require(gates []string) condition {
	if len(gates) == 0 {
		return c
	}
	c.required = append(slices.Clone(c.required), gates)
	return c
}

// exclude adds features that must all be disabled.
func (c condition) exclude(gates []string) condition {
	excluded := slices.Clone(c.excluded)
	for _, g := range gates {
		if !slices.Contains(excluded, g) {
			excluded = append(excluded, g)
		}
	}
	c.excluded = excluded
	return c
}

// and returns the conjunction of c and o.
func (c condition) and(o condition) condition {
	for _, set := range o.required {
		c = c.require(set)
	}
	return c.exclude(o.excluded)
}

// reduce drops excluded features from the required sets and removes sets
// implied by smaller ones. It reports false when the condition can never
// hold.
func (c condition) reduce() (condition, bool) {
	var sets [][]string
	for _, set := range c.required {
		var kept []string
		for _, g := range set {
			if !slices.Contains(c.excluded, g) {
				kept = append(kept, g)
			}
		}
		if len(kept) == 0 {
			return condition{}, false
		}
		sets = append(sets, kept)
	}

	var required [][]string
	for i, set := range sets {
		implied := false
		for j, other := range sets {
			if i != j && subset(other, set) && (len(other) < len(set) || j < i) {
				implied = true
				break
			}
		}
		if !implied {
			required = append(required, set)
		}
	}
	return condition{required: required, excluded: c.excluded}, true
}

// String renders the predicate, or "" when the condition always holds.
func (c condition) String() string {
	var parts []string
	for _, set := range c.required {
		parts = append(parts, anyFeature(set))
	}
	if len(c.excluded) > 0 {
		parts = append(parts, fmt.Sprintf("not(%s)", anyFeature(c.excluded)))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return fmt.Sprintf("all(%s)", strings.Join(parts, ", "))
	}
}

// writeCondition writes the cfg attribute of a condition that can hold.
func (w *Writer) writeCondition(c condition) {
	if s := c.String(); s != "" {
		w.writeLine("#[cfg(%s)]", s)
	}
}

func anyFeature(gates []string) string {
	if len(gates) == 1 {
		return fmt.Sprintf("feature = %q", gates[0])
	}
	parts := make([]string, len(gates))
	for i, g := range gates {
		parts[i] = fmt.Sprintf("feature = %q", g)
	}
	return fmt.Sprintf("any(%s)", strings.Join(parts, ", "))
}

// subset reports whether every element of a is in b.
func subset(a, b []string) bool {
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	return true
}
