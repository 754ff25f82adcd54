package scope

import (
	"context"
	"fmt"
)

// Scope is one resolution unit: the descriptors registered into it and the
// instances it produced. A scope owns exactly the instances its own
// factories returned; ownership never transfers. Scopes are created by
// [Stack.Push], populated once by Build, and destroyed by [Stack.Pop].
type Scope struct {
	stack *Stack

	// Registration order is preserved — it seeds the topological sort and
	// therefore breaks ties deterministically.
	descriptors []Descriptor
	index       map[Key]int

	instances map[Key]any
	order     []Key // creation order, walked backwards on dispose
	built     bool
}

func newScope(stack *Stack, descs []Descriptor) *Scope {
	sc := &Scope{
		stack:     stack,
		index:     make(map[Key]int),
		instances: make(map[Key]any),
	}
	for _, d := range descs {
		// Pre-build registration cannot fail except on a nil factory,
		// which Build reports; keep Push infallible like the original.
		sc.add(d)
	}
	return sc
}

// Register adds a descriptor to the scope. Registering a key that is
// already present replaces the earlier descriptor in place, keeping its
// position in the registration order. Registration is only valid before
// Build; afterwards it returns ErrAlreadyBuilt.
func (sc *Scope) Register(d Descriptor) error {
	if sc.built {
		return ErrAlreadyBuilt
	}
	if d.Factory == nil {
		return fmt.Errorf("%w: %q", ErrNilFactory, d.Key)
	}
	sc.add(d)
	return nil
}

func (sc *Scope) add(d Descriptor) {
	if i, ok := sc.index[d.Key]; ok {
		sc.descriptors[i] = d
		return
	}
	sc.index[d.Key] = len(sc.descriptors)
	sc.descriptors = append(sc.descriptors, d)
}

// Build resolves the scope: it sorts the descriptors into dependency
// order, runs every factory in that order (storing each instance
// immediately, so later factories can resolve earlier ones through the
// stack), then runs asynchronous initializers in two concurrent waves
// with a settlement barrier between them.
//
// Build is single-shot; a second call returns ErrAlreadyBuilt. Structural
// errors (ErrUnresolvedDependency, ErrCyclicDependency, ErrNilFactory)
// are reported before any factory runs.
func (sc *Scope) Build(ctx context.Context) error {
	if sc.built {
		return ErrAlreadyBuilt
	}

	for _, d := range sc.descriptors {
		if d.Factory == nil {
			return fmt.Errorf("%w: %q", ErrNilFactory, d.Key)
		}
	}

	sorted, err := sortDescriptors(sc.descriptors)
	if err != nil {
		return err
	}
	sc.built = true

	for _, d := range sorted {
		instance := d.Factory(sc.stack)
		sc.instances[d.Key] = instance
		sc.order = append(sc.order, d.Key)
	}

	pre, pos := classifyWaves(sorted, sc.instances)
	if err := runWave(ctx, pre); err != nil {
		return err
	}
	return runWave(ctx, pos)
}

// Built reports whether Build has completed its registration phase.
func (sc *Scope) Built() bool { return sc.built }

// Lookup returns the instance this scope produced for key, without
// consulting enclosing scopes.
func (sc *Scope) Lookup(key Key) (any, bool) {
	v, ok := sc.instances[key]
	return v, ok
}

// Keys returns the keys of the instances this scope owns, in creation
// order.
func (sc *Scope) Keys() []Key {
	out := make([]Key, len(sc.order))
	copy(out, sc.order)
	return out
}

// dispose releases every instance this scope owns that implements
// Disposable, newest first. Instances owned by other scopes are never
// touched.
func (sc *Scope) dispose() {
	for i := len(sc.order) - 1; i >= 0; i-- {
		if d, ok := sc.instances[sc.order[i]].(Disposable); ok {
			d.Dispose()
		}
	}
}
