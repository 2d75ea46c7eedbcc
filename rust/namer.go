// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"fmt"
	"strings"
	"unicode"
)

// namer generates unique identifiers for synthesized items. Registry names
// are registered first and are never renamed.
type namer struct {
	usedNames map[string]struct{}
	counter   uint32
}

func newNamer() *namer {
	return &namer{
		usedNames: make(map[string]struct{}),
	}
}

// reserve marks a registry name as taken.
func (n *namer) reserve(name string) {
	n.usedNames[name] = struct{}{}
}

// call generates a unique name based on the given base.
func (n *namer) call(base string) string {
	if _, used := n.usedNames[base]; !used {
		n.usedNames[base] = struct{}{}
		return base
	}

	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", base, n.counter)
		if _, used := n.usedNames[candidate]; !used {
			n.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
}

// upperSnake converts a type name such as VkColorSpaceKHR into the
// enumerant prefix spelling VK_COLOR_SPACE_KHR.
func upperSnake(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
