package vkxml

import (
	"log/slog"

	"github.com/gogpu/vkbind/registry"
)

// Parse builds a registry model from a complete registry document.
// A nil logger discards log output.
func Parse(source []byte, logger *slog.Logger) (*registry.Registry, error) {
	src := NewEventSource(source)
	b := NewBuilder(logger)
	for {
		ev, err := src.Next()
		if err != nil {
			return nil, err
		}
		if ev.Kind == EventEnd {
			break
		}
		if err := b.Event(ev); err != nil {
			return nil, err
		}
	}

	reg, err := b.Finish()
	if err != nil {
		return nil, err
	}
	b.logger.Debug("registry parsed",
		"types", len(reg.Types),
		"structs", len(reg.Structs),
		"groups", len(reg.Groups),
		"commands", len(reg.Commands()),
		"features", len(reg.Features),
		"extensions", len(reg.Extensions))
	return reg, nil
}
