package scope

import "errors"

var (
	// ErrUnresolvedDependency is returned by Build when a descriptor
	// declares a dependency key that no descriptor in the same scope
	// provides. The error message names both the missing key and the
	// dependent that declared it.
	ErrUnresolvedDependency = errors.New("scope: unresolved dependency")

	// ErrCyclicDependency is returned by Build when the dependency graph
	// contains a cycle. The message lists the keys involved. No factory
	// has run when this is returned.
	ErrCyclicDependency = errors.New("scope: cyclic dependency")

	// ErrInitialization is returned by Build when an Initializable
	// instance fails. It wraps the initializer's error; if several
	// initializers in the same wave fail, the first observed error wins.
	ErrInitialization = errors.New("scope: initialization failed")

	// ErrUnregistered is returned by Get when no scope on the stack has
	// an instance for the requested key.
	ErrUnregistered = errors.New("scope: no registration")

	// ErrEmptyStack is returned by Pop and Current when no scope has
	// been pushed.
	ErrEmptyStack = errors.New("scope: stack is empty")

	// ErrAlreadyBuilt is returned when Register or Build is called on a
	// scope that has already been built.
	ErrAlreadyBuilt = errors.New("scope: already built")

	// ErrWrongType is returned by Resolve when an instance exists for
	// the key but is not of the requested type.
	ErrWrongType = errors.New("scope: wrong instance type")

	// ErrNilFactory is returned when a descriptor is registered without
	// a factory.
	ErrNilFactory = errors.New("scope: nil factory")
)
