package vkxml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// EventKind classifies a document event.
type EventKind uint8

const (
	EventOpen EventKind = iota
	EventEmpty
	EventText
	EventClose
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventEmpty:
		return "empty"
	case EventText:
		return "text"
	case EventClose:
		return "close"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Attrs is the attribute list of an element.
type Attrs []xml.Attr

// Lookup returns the value of the named attribute.
func (a Attrs) Lookup(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Get returns the value of the named attribute, or "".
func (a Attrs) Get(name string) string {
	v, _ := a.Lookup(name)
	return v
}

// Has reports whether the named attribute is present.
func (a Attrs) Has(name string) bool {
	_, ok := a.Lookup(name)
	return ok
}

// Event is one step of the document walk.
type Event struct {
	Kind  EventKind
	Name  string // element name for Open, Empty and Close
	Attrs Attrs  // Open and Empty only
	Text  string // Text only

	Line   int
	Column int
}

// EventSource pulls events from an in-memory document.
type EventSource struct {
	src        []byte
	dec        *xml.Decoder
	swallowEnd bool
	done       bool
}

// NewEventSource creates an event source over src.
func NewEventSource(src []byte) *EventSource {
	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.Strict = true
	return &EventSource{src: src, dec: dec}
}

// Next returns the next event. After EventEnd every call returns EventEnd.
func (s *EventSource) Next() (Event, error) {
	for {
		if s.done {
			return Event{Kind: EventEnd}, nil
		}
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.done = true
			return s.event(EventEnd), nil
		}
		if err != nil {
			return Event{}, s.syntaxError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			ev := s.event(EventOpen)
			ev.Name = t.Name.Local
			ev.Attrs = Attrs(t.Copy().Attr)
			if s.selfClosing() {
				ev.Kind = EventEmpty
				s.swallowEnd = true
			}
			return ev, nil
		case xml.EndElement:
			if s.swallowEnd {
				s.swallowEnd = false
				continue
			}
			ev := s.event(EventClose)
			ev.Name = t.Name.Local
			return ev, nil
		case xml.CharData:
			ev := s.event(EventText)
			ev.Text = string(t)
			return ev, nil
		}
		// Comments, processing instructions and directives carry nothing.
	}
}

func (s *EventSource) event(kind EventKind) Event {
	line, col := s.dec.InputPos()
	return Event{Kind: kind, Line: line, Column: col}
}

// selfClosing reports whether the start element just read ended in "/>".
func (s *EventSource) selfClosing() bool {
	off := int(s.dec.InputOffset())
	if off < 2 || off > len(s.src) {
		return false
	}
	return s.src[off-2] == '/' && s.src[off-1] == '>'
}

func (s *EventSource) syntaxError(err error) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &SourceError{Line: syntax.Line, Message: strings.TrimSpace(syntax.Msg)}
	}
	return errors.Wrap(err, "read registry")
}
