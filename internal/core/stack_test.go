package core

import "testing"

func TestStackPushPopOrdering(t *testing.T) {
	var s stack[int]
	if !s.isEmpty() {
		t.Fatalf("zero-value stack should be empty")
	}
	s.push(1)
	s.push(2)
	s.push(3)
	if got := s.depth(); got != 3 {
		t.Fatalf("depth = %d, want 3", got)
	}
	for _, want := range []int{3, 2, 1} {
		top, ok := s.top()
		if !ok || top != want {
			t.Fatalf("top = %d (%v), want %d", top, ok, want)
		}
		v, ok := s.pop()
		if !ok || v != want {
			t.Fatalf("pop = %d (%v), want %d", v, ok, want)
		}
	}
	if _, ok := s.pop(); ok {
		t.Fatalf("pop on empty stack should report !ok")
	}
	if _, ok := s.top(); ok {
		t.Fatalf("top on empty stack should report !ok")
	}
}

func TestStackClear(t *testing.T) {
	var s stack[string]
	s.push("a")
	s.push("b")
	s.clear()
	if !s.isEmpty() {
		t.Fatalf("clear should empty the stack")
	}
	// reusable after clear
	s.push("c")
	if v, ok := s.top(); !ok || v != "c" {
		t.Fatalf("top after clear+push = %q (%v), want c", v, ok)
	}
}

func TestFindCurrentFirstScansTopDown(t *testing.T) {
	var s stack[int]
	s.push(1)
	s.push(2)
	s.push(3)
	var visited []int
	match := findCurrentFirst(&s, func(v int) *int {
		visited = append(visited, v)
		if v%2 == 0 {
			return &v
		}
		return nil
	})
	if match == nil || *match != 2 {
		t.Fatalf("match = %v, want 2", match)
	}
	if len(visited) != 2 || visited[0] != 3 || visited[1] != 2 {
		t.Fatalf("visited = %v, want [3 2]", visited)
	}
}

func TestFindCurrentFirstNoMatch(t *testing.T) {
	var s stack[int]
	if m := findCurrentFirst(&s, func(int) *int { t.Fatal("must not be called"); return nil }); m != nil {
		t.Fatalf("empty stack should produce nil, got %v", m)
	}
	s.push(7)
	if m := findCurrentFirst(&s, func(int) *int { return nil }); m != nil {
		t.Fatalf("no-match scan should produce nil, got %v", m)
	}
}
