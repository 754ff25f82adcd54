package scope

import "fmt"

// Stack is the ordered set of open scopes. It is an explicit handle — own
// it in your application root and pass it to whatever needs ambient
// lookup — rather than process-wide state.
//
// Discipline is strictly last-in-first-out: Push appends at the top, Pop
// removes the top, and nothing is ever removed from the middle. All
// mutation (Push, Pop, Build, Register) must happen on one logical thread;
// callers exposing a stack to concurrent goroutines for mutation must add
// their own synchronization. Lookups against a built stack are read-only.
type Stack struct {
	scopes []*Scope
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push creates a new unbuilt scope holding the given descriptors and
// places it on top of the stack. The caller must Build the scope before
// lookups inside it succeed.
func (st *Stack) Push(descs ...Descriptor) *Scope {
	sc := newScope(st, descs)
	st.scopes = append(st.scopes, sc)
	return sc
}

// Pop removes the top scope from the stack and then disposes every
// instance it owns (newest first). It returns ErrEmptyStack if no scope
// has been pushed.
func (st *Stack) Pop() error {
	if len(st.scopes) == 0 {
		return ErrEmptyStack
	}
	top := st.scopes[len(st.scopes)-1]
	st.scopes = st.scopes[:len(st.scopes)-1]
	top.dispose()
	return nil
}

// Current returns the top scope, or ErrEmptyStack.
func (st *Stack) Current() (*Scope, error) {
	if len(st.scopes) == 0 {
		return nil, ErrEmptyStack
	}
	return st.scopes[len(st.scopes)-1], nil
}

// Depth returns the number of open scopes.
func (st *Stack) Depth() int { return len(st.scopes) }

// Get searches the stack top-down for an instance registered under key.
// A nearer scope's registration shadows a farther one's. It returns
// ErrUnregistered, naming the key, when the stack is exhausted.
func (st *Stack) Get(key Key) (any, error) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if v, ok := st.scopes[i].Lookup(key); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnregistered, key)
}

// Resolve looks up key on the stack and returns it as T. It fails with
// ErrUnregistered if no scope holds the key and with ErrWrongType if the
// stored instance is not a T.
//
//	db, err := scope.Resolve[*Database](st, "db")
func Resolve[T any](st *Stack, key Key) (T, error) {
	var zero T
	v, err := st.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T, want %T", ErrWrongType, key, v, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Factories resolving
// their declared dependencies use it: the graph has already guaranteed
// the dependency exists by the time the factory runs.
func MustResolve[T any](st *Stack, key Key) T {
	v, err := Resolve[T](st, key)
	if err != nil {
		panic(err)
	}
	return v
}
