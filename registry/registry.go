package registry

import (
	"fmt"
	"strconv"
)

// Category classifies a declared type.
type Category uint8

const (
	CategoryBasic Category = iota
	CategoryBitmask
	CategoryHandle
	CategoryStruct
	CategoryUnion
	CategoryDefine
	CategoryForward // platform types known only by name
	CategoryEnum
	CategoryFuncPointer
	CategoryInclude
)

var categoryNames = [...]string{
	CategoryBasic:       "basetype",
	CategoryBitmask:     "bitmask",
	CategoryHandle:      "handle",
	CategoryStruct:      "struct",
	CategoryUnion:       "union",
	CategoryDefine:      "define",
	CategoryForward:     "",
	CategoryEnum:        "enum",
	CategoryFuncPointer: "funcpointer",
	CategoryInclude:     "include",
}

// String returns the registry spelling of the category.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		if c == CategoryForward {
			return "forward"
		}
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

// ParseCategory maps a registry category attribute to a Category.
// An empty attribute denotes a forward-only type.
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Handle macros as written in the registry.
const (
	DispatchableHandle    = "VK_DEFINE_HANDLE"
	NonDispatchableHandle = "VK_DEFINE_NON_DISPATCHABLE_HANDLE"
)

// TypeEntry is one declared type name.
type TypeEntry struct {
	Name     string
	Category Category

	// Requires names the type this one depends on. For bitmask types it
	// names the FlagBits enumeration that supplies the members.
	Requires string

	// Alias names another type this entry stands for.
	Alias string

	// Underlying is the typedef target of basetypes and bitmasks, or the
	// defining macro of handles.
	Underlying string

	// Payload is the full text of a define, markup removed.
	Payload string
}

// Dispatchable reports whether a handle type is pointer-sized.
func (t *TypeEntry) Dispatchable() bool {
	return t.Underlying != NonDispatchableHandle
}

// ArrayLength is the length of one fixed array dimension. It is either a
// literal or the name of a constant.
type ArrayLength struct {
	Literal uint64
	Symbol  string
}

// Symbolic reports whether the length is given by a named constant.
func (a ArrayLength) Symbolic() bool {
	return a.Symbol != ""
}

func (a ArrayLength) String() string {
	if a.Symbolic() {
		return a.Symbol
	}
	return strconv.FormatUint(a.Literal, 10)
}

// ConstMask holds one const bit per pointer level. Level 0 is the pointee
// of the innermost pointer (or the value itself when there is no pointer).
type ConstMask uint8

// At reports whether the given level is const.
func (m ConstMask) At(level int) bool {
	return m&(1<<uint(level)) != 0
}

// With returns the mask with the given level marked const.
func (m ConstMask) With(level int) ConstMask {
	return m | 1<<uint(level)
}

// MaxPointerDepth is the deepest pointer nesting the registry uses.
const MaxPointerDepth = 2

// Field describes one structure member or command parameter.
type Field struct {
	Name         string
	BaseType     string
	PointerDepth int
	Const        ConstMask
	Dims         []ArrayLength // outermost first

	// Bits is the width of a C bit-field, or 0.
	Bits int
}

// Array reports whether the field is a fixed-size array.
func (f *Field) Array() bool {
	return len(f.Dims) > 0
}

// Struct is a structure or union layout.
type Struct struct {
	Name               string
	Union              bool
	Fields             []Field
	ContainsFixedArray bool
}

// Command is one function prototype.
type Command struct {
	Name       string
	ReturnType string
	Params     []Field

	// Alias names the command whose signature this one shares.
	Alias string
}

// GroupKind classifies an enums block.
type GroupKind uint8

const (
	GroupEnum GroupKind = iota
	GroupBitmask
	GroupConstants
)

// APIConstants is the name of the free-standing constants group.
const APIConstants = "API Constants"

// EnumGroup is one enums block.
type EnumGroup struct {
	Name     string
	Kind     GroupKind
	Bitwidth int
	Entries  []EnumEntry
}

// ValueKind tells how an enumerant value is written.
type ValueKind uint8

const (
	ValueExplicit ValueKind = iota
	ValueBitPos
	ValueAlias
)

// EnumEntry is one enumerant as declared.
type EnumEntry struct {
	Name    string
	Kind    ValueKind
	Value   string
	BitPos  uint32
	Alias   string
	Comment string
}

// RequirementKind classifies a feature requirement.
type RequirementKind uint8

const (
	RequireCommand RequirementKind = iota
	RequireType
	RequireEnum
)

func (k RequirementKind) String() string {
	switch k {
	case RequireCommand:
		return "command"
	case RequireType:
		return "type"
	case RequireEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Requirement names one symbol a feature block pulls into the core surface.
type Requirement struct {
	Kind RequirementKind
	Name string
}

// FeatureBlock is one require block of a core version.
type FeatureBlock struct {
	Feature      string
	Number       string
	Comment      string
	Requirements []Requirement

	// Enums extends existing groups unconditionally.
	Enums []ExtRequirement
}

// ExtKind classifies an extension requirement.
type ExtKind uint8

const (
	ExtEnum     ExtKind = iota // offset formula
	ExtBitflag                 // 1 << bitpos
	ExtValue                   // explicit value or alias extending a group
	ExtConstant                // free-standing extension constant
	ExtCommand
	ExtType
)

// ExtRequirement is one symbol an extension contributes.
type ExtRequirement struct {
	Kind     ExtKind
	Name     string
	Extends  string
	Offset   uint32
	BitPos   uint32
	Negative bool
	Value    string
	Alias    string
	Comment  string

	// ExtNumber overrides the owner's registration number when non-zero.
	ExtNumber uint32
}

// Disabled is the support status of extensions excluded from emission.
const Disabled = "disabled"

// Extension is one numbered extension block.
type Extension struct {
	Name         string
	Number       uint32
	Type         string
	Author       string
	Contact      string
	Supported    string
	Requirements []ExtRequirement
}

// Disabled reports whether the extension is excluded from emission.
func (e *Extension) Disabled() bool {
	return e.Supported == Disabled
}

// Registry is the complete model built from one registry document.
type Registry struct {
	Types      []TypeEntry
	Structs    []*Struct
	Groups     []*EnumGroup
	Features   []FeatureBlock
	Extensions []Extension

	commands     map[string]*Command
	commandOrder []string
	typeIndex    map[string]int
	structIndex  map[string]int
	groupIndex   map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		commands:    make(map[string]*Command),
		typeIndex:   make(map[string]int),
		structIndex: make(map[string]int),
		groupIndex:  make(map[string]int),
	}
}

// AddType records a type entry. Redeclarations replace the earlier entry.
func (r *Registry) AddType(t TypeEntry) {
	if i, ok := r.typeIndex[t.Name]; ok {
		r.Types[i] = t
		return
	}
	r.typeIndex[t.Name] = len(r.Types)
	r.Types = append(r.Types, t)
}

// Type looks up a type entry by name.
func (r *Registry) Type(name string) (*TypeEntry, bool) {
	i, ok := r.typeIndex[name]
	if !ok {
		return nil, false
	}
	return &r.Types[i], true
}

// AddStruct records a structure layout and derives ContainsFixedArray.
func (r *Registry) AddStruct(s *Struct) {
	s.ContainsFixedArray = false
	for i := range s.Fields {
		if s.Fields[i].Array() {
			s.ContainsFixedArray = true
			break
		}
	}
	if i, ok := r.structIndex[s.Name]; ok {
		r.Structs[i] = s
		return
	}
	r.structIndex[s.Name] = len(r.Structs)
	r.Structs = append(r.Structs, s)
}

// Struct looks up a structure by name.
func (r *Registry) Struct(name string) (*Struct, bool) {
	i, ok := r.structIndex[name]
	if !ok {
		return nil, false
	}
	return r.Structs[i], true
}

// AddGroup records an enums block.
func (r *Registry) AddGroup(g *EnumGroup) {
	if i, ok := r.groupIndex[g.Name]; ok {
		r.Groups[i] = g
		return
	}
	r.groupIndex[g.Name] = len(r.Groups)
	r.Groups = append(r.Groups, g)
}

// Group looks up an enums block by name.
func (r *Registry) Group(name string) (*EnumGroup, bool) {
	i, ok := r.groupIndex[name]
	if !ok {
		return nil, false
	}
	return r.Groups[i], true
}

// AddCommand records a command, keyed by name.
func (r *Registry) AddCommand(c *Command) {
	if _, ok := r.commands[c.Name]; !ok {
		r.commandOrder = append(r.commandOrder, c.Name)
	}
	r.commands[c.Name] = c
}

// Command looks up a command by name.
func (r *Registry) Command(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Commands returns all commands in declaration order.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commandOrder))
	for _, name := range r.commandOrder {
		result = append(result, r.commands[name])
	}
	return result
}
