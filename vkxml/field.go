package vkxml

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"

	"github.com/gogpu/vkbind/registry"
)

const (
	whitespaceToken int = iota
	constToken
	structToken
	pointerToken
	lengthBlockToken
	openBracketToken
	closeBracketToken
	bitFieldToken
	numberToken
	anyToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var constMatcher = parsly.NewToken(constToken, "const", matcher.NewFragment("const"))
var structMatcher = parsly.NewToken(structToken, "struct", matcher.NewFragment("struct"))
var pointerMatcher = parsly.NewToken(pointerToken, "*", matcher.NewByte('*'))
var lengthBlockMatcher = parsly.NewToken(lengthBlockToken, "[N]", matcher.NewBlock('[', ']', '\\'))
var openBracketMatcher = parsly.NewToken(openBracketToken, "[", matcher.NewByte('['))
var closeBracketMatcher = parsly.NewToken(closeBracketToken, "]", matcher.NewByte(']'))
var bitFieldMatcher = parsly.NewToken(bitFieldToken, ":", matcher.NewByte(':'))
var numberMatcher = parsly.NewToken(numberToken, "Number", matcher.NewNumber())
var anyMatcher = parsly.NewToken(anyToken, "Any", &anyByte{})

var fieldTokens = []*parsly.Token{
	constMatcher,
	structMatcher,
	pointerMatcher,
	lengthBlockMatcher,
	openBracketMatcher,
	closeBracketMatcher,
	bitFieldMatcher,
	anyMatcher,
}

// anyByte matches a single byte of unexpected input.
type anyByte struct{}

func (a *anyByte) Match(cursor *parsly.Cursor) int {
	if cursor.Pos < cursor.InputSize {
		return 1
	}
	return 0
}

// FieldBuilder accumulates the content of one member, param or proto
// element into a registry.Field.
type FieldBuilder struct {
	name     string
	baseType string
	depth    int
	konst    registry.ConstMask
	dims     []registry.ArrayLength
	bits     int

	// open is set between a lone '[' and its ']'.
	open     bool
	symbolic string
}

// NewFieldBuilder creates an empty field builder.
func NewFieldBuilder() *FieldBuilder {
	return &FieldBuilder{}
}

// SetType records the text of a nested type element.
func (f *FieldBuilder) SetType(text string) error {
	if f.baseType != "" {
		return errors.Errorf("field type %q given twice", text)
	}
	f.baseType = strings.TrimSpace(text)
	return nil
}

// SetName records the text of a nested name element.
func (f *FieldBuilder) SetName(text string) error {
	if f.name != "" {
		return errors.Errorf("field name %q given twice", text)
	}
	f.name = strings.TrimSpace(text)
	return nil
}

// SetLength records the text of a nested enum element, which names the
// length of the array dimension being read.
func (f *FieldBuilder) SetLength(text string) error {
	if !f.open {
		return errors.Errorf("array length %q outside brackets", text)
	}
	f.symbolic = strings.TrimSpace(text)
	return nil
}

// Text scans a free text fragment for const, pointer and array markers.
func (f *FieldBuilder) Text(text string) error {
	cursor := parsly.NewCursor("", []byte(text), 0)
	for {
		matched := cursor.MatchAfterOptional(whitespaceMatcher, fieldTokens...)
		switch matched.Code {
		case parsly.EOF:
			return nil
		case constToken:
			f.konst = f.konst.With(f.depth)
		case structToken:
		case pointerToken:
			if f.depth == registry.MaxPointerDepth {
				return errors.Errorf("pointer depth exceeds %d", registry.MaxPointerDepth)
			}
			f.depth++
		case lengthBlockToken:
			if f.open {
				return errors.New("nested array brackets")
			}
			body := matched.Text(cursor)
			length, err := parseLength(body[1 : len(body)-1])
			if err != nil {
				return err
			}
			f.dims = append(f.dims, length)
		case openBracketToken:
			if f.open {
				return errors.New("nested array brackets")
			}
			f.open = true
			f.symbolic = ""
		case closeBracketToken:
			if !f.open || f.symbolic == "" {
				return errors.New("unexpected ']'")
			}
			f.dims = append(f.dims, registry.ArrayLength{Symbol: f.symbolic})
			f.open = false
			f.symbolic = ""
		case bitFieldToken:
			if err := f.bitField(cursor); err != nil {
				return errors.Wrapf(err, "bit-field %q", strings.TrimSpace(text))
			}
		default:
			return errors.Errorf("unexpected text %q", strings.TrimSpace(text))
		}
	}
}

// Build returns the accumulated field.
func (f *FieldBuilder) Build() (registry.Field, error) {
	if f.open {
		return registry.Field{}, errors.New("unterminated array length")
	}
	if f.baseType == "" {
		return registry.Field{}, errors.Errorf("field %q has no type", f.name)
	}
	if f.name == "" {
		return registry.Field{}, errors.Errorf("field of type %q has no name", f.baseType)
	}
	return registry.Field{
		Name:         f.name,
		BaseType:     f.baseType,
		PointerDepth: f.depth,
		Const:        f.konst,
		Dims:         f.dims,
		Bits:         f.bits,
	}, nil
}

// bitField reads the width following a ':' after the field name.
func (f *FieldBuilder) bitField(cursor *parsly.Cursor) error {
	if f.name == "" || f.bits > 0 {
		return errors.New("width without a field name")
	}
	if f.depth > 0 || len(f.dims) > 0 || f.open {
		return errors.New("pointer or array bit-fields are not supported")
	}
	matched := cursor.MatchAfterOptional(whitespaceMatcher, numberMatcher)
	if matched.Code != numberToken {
		return errors.New("missing width")
	}
	text := matched.Text(cursor)
	bits, err := strconv.Atoi(text)
	if err != nil || bits <= 0 || bits > 64 {
		return errors.Errorf("invalid width %q", text)
	}
	f.bits = bits
	return nil
}

func parseLength(text string) (registry.ArrayLength, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseUint(text, 10, 64); err == nil {
		if n == 0 {
			return registry.ArrayLength{}, errors.New("zero array length")
		}
		return registry.ArrayLength{Literal: n}, nil
	}
	if isIdentifier(text) {
		return registry.ArrayLength{Symbol: text}, nil
	}
	return registry.ArrayLength{}, errors.Errorf("invalid array length %q", text)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
