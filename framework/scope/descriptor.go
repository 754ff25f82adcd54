package scope

import "context"

// Key identifies a produced service within a scope. One key per produced
// type; keys are typically defined as package-level constants.
type Key string

// Factory builds a service instance. It receives the stack so it can
// resolve dependencies that were instantiated earlier in the same build
// pass, or values registered in enclosing scopes.
type Factory func(*Stack) any

// Descriptor is the registration record for one service: its key, the
// factory that produces it, and the keys it declares as dependencies.
// Descriptors are immutable once registered.
type Descriptor struct {
	Key       Key
	Factory   Factory
	DependsOn []Key
}

// Provide builds a Descriptor.
//
//	scope.Provide("db", newDB, "config")
func Provide(key Key, factory Factory, dependsOn ...Key) Descriptor {
	return Descriptor{Key: key, Factory: factory, DependsOn: dependsOn}
}

// Initializable is the optional asynchronous-setup capability. Instances
// implementing it are scheduled into one of two concurrent waves during
// Build; Initialize runs once, after the instance's factory has returned.
type Initializable interface {
	Initialize(ctx context.Context) error
}

// Disposable is the optional synchronous-teardown capability. Dispose runs
// when the owning scope is popped, in reverse creation order.
type Disposable interface {
	Dispose()
}
