package core

// stack is a minimal LIFO over a backing slice. The zero value is ready to
// use. It is not safe for concurrent use; callers own synchronization.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

// pop removes and returns the top element. ok is false on an empty stack.
func (s *stack[T]) pop() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	last := len(s.items) - 1
	v = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return v, true
}

// top returns the top element without removing it.
func (s *stack[T]) top() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

func (s *stack[T]) depth() int {
	return len(s.items)
}

func (s *stack[T]) isEmpty() bool {
	return len(s.items) == 0
}

func (s *stack[T]) clear() {
	for i := range s.items {
		var zero T
		s.items[i] = zero
	}
	s.items = s.items[:0]
}

// findCurrentFirst applies fn to each element from the top of the stack
// downward and returns the first non-nil result, or nil when no element
// produces a match.
func findCurrentFirst[T, R any](s *stack[T], fn func(T) *R) *R {
	for i := len(s.items) - 1; i >= 0; i-- {
		if match := fn(s.items[i]); match != nil {
			return match
		}
	}
	return nil
}
