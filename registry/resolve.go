package registry

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Extension numbering constants of the registry format.
const (
	// ExtBase is the first value reserved for extension enumerants.
	ExtBase = 1_000_000_000

	// ExtBlock is the size of the value block reserved per extension.
	ExtBlock = 1_000
)

// DefaultBitwidth is the width of bitmask groups that do not declare one.
const DefaultBitwidth = 32

// ExtensionValue computes the value of an extension enumerant.
func ExtensionValue(number, offset uint32, negative bool) int64 {
	v := int64(ExtBase) + (int64(number)-1)*ExtBlock + int64(offset)
	if negative {
		return -v
	}
	return v
}

// ResolvedEntry is an enumerant with its final value.
type ResolvedEntry struct {
	Name string

	// Value holds the bit pattern of the entry; bit 63 of a 64-bit flag
	// reads as negative.
	Value int64

	// Alias names the entry of the same group this one equals. Target is
	// the non-alias entry the alias chain ends at; Value is copied from it.
	Alias  string
	Target string

	// Gates lists the extensions enabling the entry. Empty means core.
	Gates   []string
	Comment string
}

// Gated reports whether the entry belongs to an extension surface.
func (e *ResolvedEntry) Gated() bool {
	return len(e.Gates) > 0
}

// ResolvedGroup is an enumeration or bitmask group with final values.
type ResolvedGroup struct {
	Name     string
	Kind     GroupKind
	Bitwidth int
	Entries  []ResolvedEntry

	index map[string]int
}

// Entry looks up a resolved entry by name.
func (g *ResolvedGroup) Entry(name string) (*ResolvedEntry, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return &g.Entries[i], true
}

// Constant is a free-standing named constant. Value keeps the registry
// literal; the backend translates it.
type Constant struct {
	Name    string
	Value   string
	Alias   string
	Gates   []string
	Comment string
}

// GatedCommand is a command reachable only through extensions.
type GatedCommand struct {
	Command *Command
	Gates   []string
}

// Reference is a requirement that did not resolve against the model.
type Reference struct {
	Requirement
	Source string
}

func (r Reference) String() string {
	return fmt.Sprintf("%s %s required by %s", r.Kind, r.Name, r.Source)
}

// Resolved is the registry with every value computed and the surface
// partitioned into core and extension parts.
type Resolved struct {
	Registry *Registry

	Groups       []*ResolvedGroup
	Constants    []Constant
	ExtConstants []Constant

	// Extensions lists the enabled extensions in declaration order.
	Extensions []*Extension

	CoreCommands []*Command
	ExtCommands  []GatedCommand

	// CoreTypes holds every type a feature block requires.
	CoreTypes map[string]bool

	// StructGates maps extension-only structs to their enabling extensions.
	StructGates map[string][]string

	Unresolved []Reference

	groupIndex map[string]int
}

// Group looks up a resolved group by name.
func (r *Resolved) Group(name string) (*ResolvedGroup, bool) {
	i, ok := r.groupIndex[name]
	if !ok {
		return nil, false
	}
	return r.Groups[i], true
}

// ResolveError reports a value that cannot be computed.
type ResolveError struct {
	Group   string
	Name    string
	Message string
}

func (e *ResolveError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("resolve %s: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("resolve %s.%s: %s", e.Group, e.Name, e.Message)
}

// Resolve computes every enumerant value and partitions the surface.
// It does not modify reg.
func Resolve(reg *Registry) (*Resolved, error) {
	res := &Resolved{
		Registry:    reg,
		CoreTypes:   make(map[string]bool),
		StructGates: make(map[string][]string),
		groupIndex:  make(map[string]int),
	}

	for _, g := range reg.Groups {
		if err := res.resolveGroup(g); err != nil {
			return nil, err
		}
	}

	for i := range reg.Features {
		block := &reg.Features[i]
		for _, req := range block.Enums {
			if err := res.extendGroup(req, 0, nil); err != nil {
				return nil, err
			}
		}
	}

	for i := range reg.Extensions {
		ext := &reg.Extensions[i]
		if ext.Disabled() {
			continue
		}
		res.Extensions = append(res.Extensions, ext)
		for _, req := range ext.Requirements {
			if err := res.extendGroup(req, ext.Number, []string{ext.Name}); err != nil {
				return nil, err
			}
		}
	}

	for _, g := range res.Groups {
		res.resolveAliases(g)
	}

	res.partition()
	return res, nil
}

func (r *Resolved) resolveGroup(g *EnumGroup) error {
	if g.Kind == GroupConstants {
		for _, e := range g.Entries {
			if e.Kind == ValueBitPos {
				return &ResolveError{Group: g.Name, Name: e.Name, Message: "bit position outside a bitmask group"}
			}
			r.Constants = appendConstant(r.Constants, Constant{
				Name:    e.Name,
				Value:   e.Value,
				Alias:   e.Alias,
				Comment: e.Comment,
			})
		}
		return nil
	}

	rg := &ResolvedGroup{
		Name:     g.Name,
		Kind:     g.Kind,
		Bitwidth: g.Bitwidth,
		index:    make(map[string]int, len(g.Entries)),
	}
	if rg.Bitwidth == 0 {
		rg.Bitwidth = DefaultBitwidth
	}
	r.groupIndex[g.Name] = len(r.Groups)
	r.Groups = append(r.Groups, rg)

	for _, e := range g.Entries {
		entry := ResolvedEntry{Name: e.Name, Comment: e.Comment}
		switch e.Kind {
		case ValueBitPos:
			if g.Kind != GroupBitmask {
				return &ResolveError{Group: g.Name, Name: e.Name, Message: "bit position outside a bitmask group"}
			}
			v, err := bitValue(rg, e.BitPos)
			if err != nil {
				return &ResolveError{Group: g.Name, Name: e.Name, Message: err.Error()}
			}
			entry.Value = v
		case ValueAlias:
			entry.Alias = e.Alias
		default:
			if err := rg.explicitValue(&entry, e.Value); err != nil {
				return err
			}
		}
		rg.add(entry)
	}
	return nil
}

// extendGroup applies one feature or extension requirement that adds a
// value to a group or a constant. Other requirement kinds are ignored here.
func (r *Resolved) extendGroup(req ExtRequirement, owner uint32, gates []string) error {
	if req.Kind == ExtConstant {
		r.ExtConstants = appendConstant(r.ExtConstants, Constant{
			Name:    req.Name,
			Value:   req.Value,
			Alias:   req.Alias,
			Gates:   slices.Clone(gates),
			Comment: req.Comment,
		})
		return nil
	}
	if req.Kind != ExtEnum && req.Kind != ExtBitflag && req.Kind != ExtValue {
		return nil
	}

	g, ok := r.Group(req.Extends)
	if !ok {
		return &ResolveError{Group: req.Extends, Name: req.Name, Message: "extends an undeclared group"}
	}

	entry := ResolvedEntry{Name: req.Name, Gates: slices.Clone(gates), Comment: req.Comment}
	switch req.Kind {
	case ExtEnum:
		number := owner
		if req.ExtNumber != 0 {
			number = req.ExtNumber
		}
		if number == 0 {
			return &ResolveError{Group: g.Name, Name: req.Name, Message: "offset without an extension number"}
		}
		entry.Value = ExtensionValue(number, req.Offset, req.Negative)
	case ExtBitflag:
		if g.Kind != GroupBitmask {
			return &ResolveError{Group: g.Name, Name: req.Name, Message: "bit position outside a bitmask group"}
		}
		v, err := bitValue(g, req.BitPos)
		if err != nil {
			return &ResolveError{Group: g.Name, Name: req.Name, Message: err.Error()}
		}
		entry.Value = v
	case ExtValue:
		if req.Alias != "" {
			entry.Alias = req.Alias
		} else if err := g.explicitValue(&entry, req.Value); err != nil {
			return err
		}
	}
	g.add(entry)
	return nil
}

// resolveAliases gives every alias the value of the entry its chain ends
// at. Aliases whose chain is broken are dropped and reported as unresolved.
func (r *Resolved) resolveAliases(g *ResolvedGroup) {
	broken := false
	for i := range g.Entries {
		e := &g.Entries[i]
		if e.Alias == "" {
			continue
		}
		target, ok := g.Entry(e.Alias)
		for depth := 0; ok && target.Alias != "" && depth < 8; depth++ {
			target, ok = g.Entry(target.Alias)
		}
		if !ok || target.Alias != "" {
			r.unresolved(Requirement{Kind: RequireEnum, Name: e.Alias}, g.Name)
			broken = true
			continue
		}
		e.Value = target.Value
		e.Target = target.Name
	}
	if !broken {
		return
	}

	entries := make([]ResolvedEntry, 0, len(g.Entries))
	g.index = make(map[string]int, len(g.Entries))
	for _, e := range g.Entries {
		if e.Alias != "" && e.Target == "" {
			continue
		}
		g.index[e.Name] = len(entries)
		entries = append(entries, e)
	}
	g.Entries = entries
}

func bitValue(g *ResolvedGroup, pos uint32) (int64, error) {
	if int(pos) >= g.Bitwidth || pos >= 64 {
		return 0, fmt.Errorf("bit position %d is outside the %d-bit group", pos, g.Bitwidth)
	}
	return int64(uint64(1) << pos), nil
}

// explicitValue parses a literal value, falling back to an alias when the
// text names an entry already in the group.
func (g *ResolvedGroup) explicitValue(entry *ResolvedEntry, text string) error {
	if v, err := parseInt(text); err == nil {
		entry.Value = v
		return nil
	}
	if _, ok := g.index[text]; ok {
		entry.Alias = text
		return nil
	}
	return &ResolveError{Group: g.Name, Name: entry.Name, Message: fmt.Sprintf("invalid value %q", text)}
}

// add appends an entry. A name already present keeps its position: a core
// entry stays core, a gated entry collects the additional gates.
func (g *ResolvedGroup) add(entry ResolvedEntry) {
	i, ok := g.index[entry.Name]
	if !ok {
		g.index[entry.Name] = len(g.Entries)
		g.Entries = append(g.Entries, entry)
		return
	}
	existing := &g.Entries[i]
	if !existing.Gated() {
		return
	}
	if !entry.Gated() {
		existing.Gates = nil
		return
	}
	existing.Gates = mergeGates(existing.Gates, entry.Gates)
}

func appendConstant(list []Constant, c Constant) []Constant {
	for i := range list {
		if list[i].Name == c.Name {
			list[i].Gates = mergeGates(list[i].Gates, c.Gates)
			return list
		}
	}
	return append(list, c)
}

func mergeGates(dst, src []string) []string {
	for _, gate := range src {
		if !slices.Contains(dst, gate) {
			dst = append(dst, gate)
		}
	}
	return dst
}

func parseInt(text string) (int64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "ULL"), "U")
	return strconv.ParseInt(s, 0, 64)
}

// partition splits commands and structs into the core surface and the
// extension surfaces.
func (r *Resolved) partition() {
	reg := r.Registry
	core := make(map[string]bool)

	for i := range reg.Features {
		block := &reg.Features[i]
		for _, req := range block.Requirements {
			switch req.Kind {
			case RequireCommand:
				cmd, ok := r.command(req.Name)
				if !ok {
					r.unresolved(req, block.Feature)
					continue
				}
				if !core[req.Name] {
					core[req.Name] = true
					r.CoreCommands = append(r.CoreCommands, cmd)
				}
			case RequireType:
				if !r.hasType(req.Name) {
					r.unresolved(req, block.Feature)
					continue
				}
				r.CoreTypes[req.Name] = true
			case RequireEnum:
				if !r.hasEnum(req.Name) {
					r.unresolved(req, block.Feature)
				}
			}
		}
	}

	extIndex := make(map[string]int)
	for _, ext := range r.Extensions {
		for _, req := range ext.Requirements {
			switch req.Kind {
			case ExtCommand:
				cmd, ok := r.command(req.Name)
				if !ok {
					r.unresolved(Requirement{Kind: RequireCommand, Name: req.Name}, ext.Name)
					continue
				}
				if core[req.Name] {
					continue
				}
				if i, ok := extIndex[req.Name]; ok {
					r.ExtCommands[i].Gates = mergeGates(r.ExtCommands[i].Gates, []string{ext.Name})
					continue
				}
				extIndex[req.Name] = len(r.ExtCommands)
				r.ExtCommands = append(r.ExtCommands, GatedCommand{Command: cmd, Gates: []string{ext.Name}})
			case ExtType:
				if !r.hasType(req.Name) {
					r.unresolved(Requirement{Kind: RequireType, Name: req.Name}, ext.Name)
					continue
				}
				if _, ok := reg.Struct(req.Name); ok && !r.CoreTypes[req.Name] {
					r.StructGates[req.Name] = mergeGates(r.StructGates[req.Name], []string{ext.Name})
				}
			}
		}
	}
}

// command returns the command with aliases expanded into a copy.
func (r *Resolved) command(name string) (*Command, bool) {
	cmd, ok := r.Registry.Command(name)
	if !ok {
		return nil, false
	}
	target := cmd
	for depth := 0; target.Alias != "" && depth < 8; depth++ {
		next, ok := r.Registry.Command(target.Alias)
		if !ok {
			return nil, false
		}
		target = next
	}
	if target == cmd {
		return cmd, true
	}
	return &Command{
		Name:       cmd.Name,
		ReturnType: target.ReturnType,
		Params:     target.Params,
		Alias:      cmd.Alias,
	}, true
}

func (r *Resolved) hasType(name string) bool {
	if _, ok := r.Registry.Type(name); ok {
		return true
	}
	_, ok := r.Registry.Struct(name)
	return ok
}

func (r *Resolved) hasEnum(name string) bool {
	for _, c := range r.Constants {
		if c.Name == name {
			return true
		}
	}
	for _, c := range r.ExtConstants {
		if c.Name == name {
			return true
		}
	}
	for _, g := range r.Groups {
		if _, ok := g.index[name]; ok {
			return true
		}
	}
	return false
}

func (r *Resolved) unresolved(req Requirement, source string) {
	r.Unresolved = append(r.Unresolved, Reference{Requirement: req, Source: source})
}
