// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

const (
	HISTORY_LIMIT = 4096 // Maximum instructions Reverse can undo.
)

// Stack is a LIFO with an optional depth limit. When full, a push drops
// the oldest entry.
type Stack[T any] struct {
	Limit int // Maximum depth; zero is unlimited.
	Data  []T
}

func (s *Stack[T]) Push(value T) {
	if s.Full() {
		s.Data = append(s.Data[:0], s.Data[1:]...)
	}
	s.Data = append(s.Data, value)
}

func (s *Stack[T]) Pop() (value T, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack[T]) Full() bool {
	return s.Limit > 0 && len(s.Data) >= s.Limit
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack[T]) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
