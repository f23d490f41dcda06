package loop

import "errors"

var ErrEmptyStack = errors.New("error: empty stack")

// Stack is a stack of loops used to walk the loop nesting tree.
type Stack struct {
	s []*Info
}

// NewStack creates a new Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds loops to the top of stack, the last one ends on top.
func (s *Stack) Push(loops ...*Info) {
	s.s = append(s.s, loops...)
}

// Pop removes a loop from top of stack.
func (s *Stack) Pop() (*Info, error) {
	size := len(s.s)
	if size == 0 {
		return nil, ErrEmptyStack
	}
	l := s.s[size-1]
	s.s = s.s[:size-1]
	return l, nil
}

// Len returns the number of loops in the stack.
func (s *Stack) Len() int { return len(s.s) }

// IsEmpty returns true if stack is empty.
func (s *Stack) IsEmpty() bool {
	return len(s.s) == 0
}
