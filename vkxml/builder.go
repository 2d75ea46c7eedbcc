package vkxml

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/vkbind/registry"
)

// handler reacts to one (tag, parent) pair. Nil members accept the event
// without doing anything, except text, where nil rejects non-whitespace.
type handler struct {
	open  func(b *Builder, attrs Attrs) error
	close func(b *Builder) error
	text  func(b *Builder, text string) error
}

type dispatchKey struct {
	tag    string
	parent string
}

// skipped names subtrees ignored wherever they appear.
var skipped = map[string]bool{
	"comment":                  true,
	"platforms":                true,
	"tags":                     true,
	"vendorids":                true,
	"formats":                  true,
	"spirvextensions":          true,
	"spirvcapabilities":        true,
	"sync":                     true,
	"videocodecs":              true,
	"unused":                   true,
	"usage":                    true,
	"validity":                 true,
	"implicitexternsyncparams": true,
	"remove":                   true,
	"deprecate":                true,
}

var dispatch = map[dispatchKey]handler{
	{"registry", ""}:      {},
	{"types", "registry"}: {},
	{"type", "types"}:     {open: (*Builder).openType, close: (*Builder).closeType, text: (*Builder).typeText},
	{"name", "type"}:      {text: (*Builder).typeNameText},
	{"type", "type"}:      {text: (*Builder).typeUnderlyingText},
	{"member", "type"}:    {open: (*Builder).openField, close: (*Builder).closeMember, text: (*Builder).fieldText},
	{"type", "member"}:    {text: (*Builder).fieldTypeText},
	{"name", "member"}:    {text: (*Builder).fieldNameText},
	{"enum", "member"}:    {text: (*Builder).fieldLengthText},

	{"enums", "registry"}: {open: (*Builder).openEnums, close: (*Builder).closeEnums},
	{"enum", "enums"}:     {open: (*Builder).openEnumEntry},

	{"commands", "registry"}: {},
	{"command", "commands"}:  {open: (*Builder).openCommand, close: (*Builder).closeCommand},
	{"proto", "command"}:     {open: (*Builder).openField, close: (*Builder).closeProto, text: (*Builder).fieldText},
	{"type", "proto"}:        {text: (*Builder).fieldTypeText},
	{"name", "proto"}:        {text: (*Builder).fieldNameText},
	{"param", "command"}:     {open: (*Builder).openField, close: (*Builder).closeParam, text: (*Builder).fieldText},
	{"type", "param"}:        {text: (*Builder).fieldTypeText},
	{"name", "param"}:        {text: (*Builder).fieldNameText},
	{"enum", "param"}:        {text: (*Builder).fieldLengthText},

	{"feature", "registry"}: {open: (*Builder).openFeature, close: (*Builder).closeFeature},
	{"require", "feature"}:  {open: (*Builder).openRequire, close: (*Builder).closeRequire},
	{"command", "require"}:  {open: (*Builder).openRequiredCommand},
	{"type", "require"}:     {open: (*Builder).openRequiredType},
	{"enum", "require"}:     {open: (*Builder).openRequiredEnum},
	{"feature", "require"}:  {},

	{"extensions", "registry"}: {},
	{"extension", "extensions"}: {open: (*Builder).openExtension, close: (*Builder).closeExtension},
	{"require", "extension"}:    {open: (*Builder).openRequire, close: (*Builder).closeRequire},
}

// typeState is the type element under construction.
type typeState struct {
	entry   registry.TypeEntry
	str     *registry.Struct
	payload strings.Builder
}

// requireState is the require block under construction.
type requireState struct {
	// guarded is set when the block carries a feature attribute. Nothing
	// inside a guarded block is collected.
	guarded bool
	block   registry.FeatureBlock
}

// Builder is the single mutator of the registry model during a parse.
type Builder struct {
	reg    *registry.Registry
	stack  Stack
	logger *slog.Logger

	// skipDepth is the stack depth of the skipped subtree root, 0 if none.
	skipDepth int

	typ     *typeState
	field   *FieldBuilder
	group   *registry.EnumGroup
	command *registry.Command
	feature *registry.FeatureBlock
	ext     *registry.Extension
	require *requireState

	root   bool
	line   int
	column int
}

// NewBuilder creates a builder filling a fresh registry.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{reg: registry.New(), logger: logger}
}

// Event applies one document event.
func (b *Builder) Event(ev Event) error {
	b.line, b.column = ev.Line, ev.Column
	switch ev.Kind {
	case EventOpen:
		return b.open(ev.Name, ev.Attrs)
	case EventEmpty:
		if err := b.open(ev.Name, ev.Attrs); err != nil {
			return err
		}
		return b.close(ev.Name)
	case EventClose:
		return b.close(ev.Name)
	case EventText:
		return b.text(ev.Text)
	}
	return nil
}

// Finish returns the completed registry.
func (b *Builder) Finish() (*registry.Registry, error) {
	if b.stack.Depth() != 0 {
		return nil, b.errorf("unexpected end of document inside <%s>", b.stack.Top())
	}
	if !b.root {
		return nil, b.errorf("document has no <registry> element")
	}
	return b.reg, nil
}

func (b *Builder) open(name string, attrs Attrs) error {
	parent := b.stack.Top()
	b.stack.Push(name)
	if b.skipDepth > 0 {
		return nil
	}
	if skipped[name] || !forVulkan(attrs) {
		b.skipDepth = b.stack.Depth()
		return nil
	}
	h, ok := dispatch[dispatchKey{name, parent}]
	if !ok {
		if parent == "" {
			return b.errorf("unexpected root element <%s>", name)
		}
		return b.errorf("unexpected element <%s> in <%s>", name, parent)
	}
	if parent == "" {
		b.root = true
	}
	if h.open == nil {
		return nil
	}
	return b.wrap(h.open(b, attrs))
}

func (b *Builder) close(name string) error {
	top, err := b.stack.Pop()
	if err != nil {
		return b.errorf("%v", err)
	}
	if top != name {
		return b.errorf("element <%s> closed by </%s>", top, name)
	}
	if b.skipDepth > 0 {
		if b.stack.Depth() < b.skipDepth {
			b.skipDepth = 0
		}
		return nil
	}
	h := dispatch[dispatchKey{name, b.stack.Top()}]
	if h.close == nil {
		return nil
	}
	return b.wrap(h.close(b))
}

func (b *Builder) text(text string) error {
	if b.skipDepth > 0 {
		return nil
	}
	h := dispatch[dispatchKey{b.stack.Top(), b.stack.At(1)}]
	if h.text != nil {
		return b.wrap(h.text(b, text))
	}
	if strings.TrimSpace(text) != "" {
		if b.stack.Depth() == 0 {
			return b.errorf("unexpected text %q outside the root element", strings.TrimSpace(text))
		}
		return b.errorf("unexpected text %q in <%s>", strings.TrimSpace(text), b.stack.Top())
	}
	return nil
}

func (b *Builder) errorf(format string, args ...interface{}) error {
	return NewSourceErrorf(b.line, b.column, format, args...)
}

// wrap attaches the current position to a handler error.
func (b *Builder) wrap(err error) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Line: b.line, Column: b.column, Message: err.Error()}
}

// forVulkan reports whether an element applies to the vulkan API. Elements
// without an api attribute apply to every API.
func forVulkan(attrs Attrs) bool {
	api, ok := attrs.Lookup("api")
	if !ok {
		return true
	}
	for _, name := range strings.Split(api, ",") {
		if strings.TrimSpace(name) == "vulkan" {
			return true
		}
	}
	return false
}

func parseNumber(attrs Attrs, name string) (uint32, error) {
	text := attrs.Get(name)
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, errors.Errorf("attribute %s=%q is not a number", name, text)
	}
	return uint32(n), nil
}

func requireAttr(attrs Attrs, element, name string) (string, error) {
	v, ok := attrs.Lookup(name)
	if !ok || v == "" {
		return "", errors.Errorf("<%s> without %s attribute", element, name)
	}
	return v, nil
}

// Types

func (b *Builder) openType(attrs Attrs) error {
	category, ok := registry.ParseCategory(attrs.Get("category"))
	if !ok {
		return errors.Errorf("unknown type category %q", attrs.Get("category"))
	}
	st := &typeState{entry: registry.TypeEntry{
		Name:     attrs.Get("name"),
		Category: category,
		Requires: attrs.Get("requires"),
		Alias:    attrs.Get("alias"),
	}}
	if st.entry.Requires == "" {
		st.entry.Requires = attrs.Get("bitvalues")
	}
	if (category == registry.CategoryStruct || category == registry.CategoryUnion) && st.entry.Alias == "" {
		st.str = &registry.Struct{
			Name:  st.entry.Name,
			Union: category == registry.CategoryUnion,
		}
	}
	b.typ = st
	return nil
}

func (b *Builder) closeType() error {
	st := b.typ
	b.typ = nil
	st.entry.Payload = strings.TrimSpace(st.payload.String())
	if st.entry.Name == "" {
		return errors.Errorf("%s type without a name", st.entry.Category)
	}
	b.reg.AddType(st.entry)
	if st.str != nil {
		b.reg.AddStruct(st.str)
	}
	return nil
}

func (b *Builder) typeText(text string) error {
	b.typ.payload.WriteString(text)
	return nil
}

func (b *Builder) typeNameText(text string) error {
	b.typ.payload.WriteString(text)
	b.typ.entry.Name = strings.TrimSpace(text)
	return nil
}

func (b *Builder) typeUnderlyingText(text string) error {
	b.typ.payload.WriteString(text)
	b.typ.entry.Underlying = strings.TrimSpace(text)
	return nil
}

// Fields of members, params and protos

func (b *Builder) openField(Attrs) error {
	b.field = NewFieldBuilder()
	return nil
}

func (b *Builder) fieldText(text string) error {
	return b.field.Text(text)
}

func (b *Builder) fieldTypeText(text string) error {
	return b.field.SetType(text)
}

func (b *Builder) fieldNameText(text string) error {
	return b.field.SetName(text)
}

func (b *Builder) fieldLengthText(text string) error {
	return b.field.SetLength(text)
}

func (b *Builder) buildField() (registry.Field, error) {
	f, err := b.field.Build()
	b.field = nil
	return f, err
}

func (b *Builder) closeMember() error {
	f, err := b.buildField()
	if err != nil {
		return err
	}
	if b.typ.str == nil {
		return errors.Errorf("member %q outside a struct or union", f.Name)
	}
	if f.Bits > 0 && b.typ.str.Union {
		return errors.Errorf("union member %q is a bit-field", f.Name)
	}
	b.typ.str.Fields = append(b.typ.str.Fields, f)
	return nil
}

// Enums

func (b *Builder) openEnums(attrs Attrs) error {
	name, err := requireAttr(attrs, "enums", "name")
	if err != nil {
		return err
	}
	g := &registry.EnumGroup{Name: name}
	switch kind := attrs.Get("type"); {
	case name == registry.APIConstants || kind == "constants":
		g.Kind = registry.GroupConstants
	case kind == "bitmask":
		g.Kind = registry.GroupBitmask
		if attrs.Has("bitwidth") {
			w, err := parseNumber(attrs, "bitwidth")
			if err != nil {
				return err
			}
			g.Bitwidth = int(w)
		}
	case kind == "enum":
		g.Kind = registry.GroupEnum
	default:
		return errors.Errorf("enums %q has unknown type %q", name, kind)
	}
	b.group = g
	return nil
}

func (b *Builder) closeEnums() error {
	b.reg.AddGroup(b.group)
	b.group = nil
	return nil
}

func (b *Builder) openEnumEntry(attrs Attrs) error {
	name, err := requireAttr(attrs, "enum", "name")
	if err != nil {
		return err
	}
	e := registry.EnumEntry{Name: name, Comment: attrs.Get("comment")}
	switch {
	case attrs.Has("bitpos"):
		if b.group.Kind != registry.GroupBitmask {
			return errors.Errorf("enum %q has a bitpos outside a bitmask group", name)
		}
		e.Kind = registry.ValueBitPos
		if e.BitPos, err = parseNumber(attrs, "bitpos"); err != nil {
			return err
		}
	case attrs.Has("alias"):
		e.Kind = registry.ValueAlias
		e.Alias = attrs.Get("alias")
	case attrs.Has("value"):
		e.Value = attrs.Get("value")
	default:
		return errors.Errorf("enum %q has no value", name)
	}
	b.group.Entries = append(b.group.Entries, e)
	return nil
}

// Commands

func (b *Builder) openCommand(attrs Attrs) error {
	b.command = &registry.Command{
		Name:  attrs.Get("name"),
		Alias: attrs.Get("alias"),
	}
	return nil
}

func (b *Builder) closeCommand() error {
	cmd := b.command
	b.command = nil
	if cmd.Name == "" {
		return errors.New("command without a name")
	}
	if cmd.Alias == "" && cmd.ReturnType == "" {
		return errors.Errorf("command %q has no prototype", cmd.Name)
	}
	b.reg.AddCommand(cmd)
	return nil
}

func (b *Builder) closeProto() error {
	f, err := b.buildField()
	if err != nil {
		return err
	}
	if f.Bits > 0 {
		return errors.Errorf("prototype %q is a bit-field", f.Name)
	}
	b.command.Name = f.Name
	b.command.ReturnType = f.BaseType
	if f.PointerDepth > 0 {
		b.command.ReturnType += strings.Repeat("*", f.PointerDepth)
	}
	return nil
}

func (b *Builder) closeParam() error {
	f, err := b.buildField()
	if err != nil {
		return err
	}
	if f.Bits > 0 {
		return errors.Errorf("parameter %q is a bit-field", f.Name)
	}
	b.command.Params = append(b.command.Params, f)
	return nil
}

// Features and extensions

func (b *Builder) openFeature(attrs Attrs) error {
	name, err := requireAttr(attrs, "feature", "name")
	if err != nil {
		return err
	}
	b.feature = &registry.FeatureBlock{
		Feature: name,
		Number:  attrs.Get("number"),
	}
	return nil
}

func (b *Builder) closeFeature() error {
	b.feature = nil
	return nil
}

func (b *Builder) openExtension(attrs Attrs) error {
	name, err := requireAttr(attrs, "extension", "name")
	if err != nil {
		return err
	}
	number, err := parseNumber(attrs, "number")
	if err != nil {
		return err
	}
	b.ext = &registry.Extension{
		Name:      name,
		Number:    number,
		Type:      attrs.Get("type"),
		Author:    attrs.Get("author"),
		Contact:   attrs.Get("contact"),
		Supported: attrs.Get("supported"),
	}
	return nil
}

func (b *Builder) closeExtension() error {
	b.reg.Extensions = append(b.reg.Extensions, *b.ext)
	if b.ext.Disabled() {
		b.logger.Debug("extension disabled", "extension", b.ext.Name)
	}
	b.ext = nil
	return nil
}

func (b *Builder) openRequire(attrs Attrs) error {
	b.require = &requireState{guarded: attrs.Has("feature")}
	if b.feature != nil {
		b.require.block = registry.FeatureBlock{
			Feature: b.feature.Feature,
			Number:  b.feature.Number,
			Comment: attrs.Get("comment"),
		}
	}
	if b.require.guarded {
		owner := ""
		if b.ext != nil {
			owner = b.ext.Name
		} else if b.feature != nil {
			owner = b.feature.Feature
		}
		b.logger.Debug("skipping feature-guarded require block", "owner", owner, "feature", attrs.Get("feature"))
	}
	return nil
}

func (b *Builder) closeRequire() error {
	req := b.require
	b.require = nil
	if req.guarded || b.feature == nil {
		return nil
	}
	b.reg.Features = append(b.reg.Features, req.block)
	return nil
}

func (b *Builder) openRequiredCommand(attrs Attrs) error {
	if b.require.guarded {
		return nil
	}
	name, err := requireAttr(attrs, "command", "name")
	if err != nil {
		return err
	}
	if b.ext != nil {
		b.ext.Requirements = append(b.ext.Requirements, registry.ExtRequirement{Kind: registry.ExtCommand, Name: name})
		return nil
	}
	b.require.block.Requirements = append(b.require.block.Requirements, registry.Requirement{Kind: registry.RequireCommand, Name: name})
	return nil
}

func (b *Builder) openRequiredType(attrs Attrs) error {
	if b.require.guarded {
		return nil
	}
	name, err := requireAttr(attrs, "type", "name")
	if err != nil {
		return err
	}
	if b.ext != nil {
		b.ext.Requirements = append(b.ext.Requirements, registry.ExtRequirement{Kind: registry.ExtType, Name: name})
		return nil
	}
	b.require.block.Requirements = append(b.require.block.Requirements, registry.Requirement{Kind: registry.RequireType, Name: name})
	return nil
}

func (b *Builder) openRequiredEnum(attrs Attrs) error {
	if b.require.guarded {
		return nil
	}
	name, err := requireAttr(attrs, "enum", "name")
	if err != nil {
		return err
	}
	req, ok, err := enumRequirement(name, attrs)
	if err != nil {
		return err
	}

	if b.ext != nil {
		if ok {
			b.ext.Requirements = append(b.ext.Requirements, req)
		}
		return nil
	}

	block := &b.require.block
	if ok {
		block.Enums = append(block.Enums, req)
	}
	block.Requirements = append(block.Requirements, registry.Requirement{Kind: registry.RequireEnum, Name: name})
	return nil
}

// enumRequirement classifies an enum child of a require block. It returns
// false for a bare reference to an enumerant declared elsewhere.
func enumRequirement(name string, attrs Attrs) (registry.ExtRequirement, bool, error) {
	req := registry.ExtRequirement{
		Name:    name,
		Extends: attrs.Get("extends"),
		Comment: attrs.Get("comment"),
		Value:   attrs.Get("value"),
		Alias:   attrs.Get("alias"),
	}
	var err error
	switch {
	case attrs.Has("bitpos"):
		req.Kind = registry.ExtBitflag
		if req.BitPos, err = parseNumber(attrs, "bitpos"); err != nil {
			return req, false, err
		}
	case attrs.Has("offset"):
		req.Kind = registry.ExtEnum
		if req.Offset, err = parseNumber(attrs, "offset"); err != nil {
			return req, false, err
		}
		if attrs.Has("extnumber") {
			if req.ExtNumber, err = parseNumber(attrs, "extnumber"); err != nil {
				return req, false, err
			}
		}
		switch dir := attrs.Get("dir"); dir {
		case "":
		case "-":
			req.Negative = true
		default:
			return req, false, errors.Errorf("enum %q has unknown dir %q", name, dir)
		}
	case attrs.Has("value") || attrs.Has("alias"):
		if req.Extends == "" {
			req.Kind = registry.ExtConstant
			return req, true, nil
		}
		req.Kind = registry.ExtValue
		return req, true, nil
	default:
		return req, false, nil
	}
	if req.Extends == "" {
		return req, false, errors.Errorf("enum %q has no extends attribute", name)
	}
	return req, true, nil
}
