package vkxml

import "github.com/pkg/errors"

// ErrStackEmpty is returned when an element closes with nothing open.
var ErrStackEmpty = errors.New("close without a matching open element")

// Stack holds the names of the open elements. Depth equals the document
// nesting depth at the current event.
type Stack struct {
	names []string
}

// Push records an opened element.
func (s *Stack) Push(name string) {
	s.names = append(s.names, name)
}

// Pop removes and returns the innermost element.
func (s *Stack) Pop() (string, error) {
	if len(s.names) == 0 {
		return "", ErrStackEmpty
	}
	last := len(s.names) - 1
	name := s.names[last]
	s.names = s.names[:last]
	return name, nil
}

// Top returns the innermost element, or "" when nothing is open.
func (s *Stack) Top() string {
	return s.At(0)
}

// At returns the element n levels above the innermost one, or "" when the
// stack is not that deep. At(0) is the innermost element.
func (s *Stack) At(n int) string {
	i := len(s.names) - 1 - n
	if n < 0 || i < 0 {
		return ""
	}
	return s.names[i]
}

// Depth returns the number of open elements.
func (s *Stack) Depth() int {
	return len(s.names)
}
