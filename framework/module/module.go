// Package module layers a provider-style registration system over the
// scope runtime: modules contribute descriptors to a shared scope during
// the Register phase, the registry builds the scope, and modules then get
// a Boot phase in which resolving is safe.
package module

import (
	"context"
	"fmt"

	"github.com/ferrost/laminar/framework/scope"
)

// Module groups related service registrations.
//
// Register runs before the scope is built: contribute descriptors only,
// do not resolve. Boot runs after the scope has been built; resolving any
// registered service is safe there.
//
//	type StorageModule struct{ module.BaseModule }
//
//	func (m *StorageModule) Register(sc *scope.Scope) {
//	    _ = sc.Register(scope.Provide("db", newDB, "config"))
//	}
//
//	func (m *StorageModule) Boot(st *scope.Stack) error {
//	    db := scope.MustResolve[*DB](st, "db")
//	    return db.Ping()
//	}
type Module interface {
	Register(sc *scope.Scope)
	Boot(st *scope.Stack) error
}

// BaseModule is an embeddable no-op Boot implementation. Embed it and
// override only what you need.
type BaseModule struct{}

func (BaseModule) Boot(*scope.Stack) error { return nil }

// Registry collects modules and turns them into one built scope on the
// stack it is bound to.
type Registry struct {
	stack   *scope.Stack
	modules []Module
	seen    map[Module]bool
	booted  bool
}

// NewRegistry creates a registry bound to st.
func NewRegistry(st *scope.Stack) *Registry {
	return &Registry{stack: st, seen: make(map[Module]bool)}
}

// Register adds a module. Registering the same module value twice is a
// no-op. Registration after Boot is rejected: every descriptor must be
// present before the scope builds.
func (r *Registry) Register(m Module) error {
	if r.booted {
		return scope.ErrAlreadyBuilt
	}
	if r.seen[m] {
		return nil
	}
	r.seen[m] = true
	r.modules = append(r.modules, m)
	return nil
}

// Boot pushes one scope, lets every module contribute its descriptors,
// builds the scope, then runs each module's Boot in registration order.
// The first boot error aborts the remaining modules and is returned. The
// built scope stays on the stack either way; tear it down with Pop.
func (r *Registry) Boot(ctx context.Context) (*scope.Scope, error) {
	if r.booted {
		return nil, scope.ErrAlreadyBuilt
	}
	r.booted = true

	sc := r.stack.Push()
	for _, m := range r.modules {
		m.Register(sc)
	}
	if err := sc.Build(ctx); err != nil {
		return nil, err
	}

	for _, m := range r.modules {
		if err := m.Boot(r.stack); err != nil {
			return nil, fmt.Errorf("module boot: %w", err)
		}
	}
	return sc, nil
}

// Booted reports whether Boot has run.
func (r *Registry) Booted() bool { return r.booted }

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []Module { return r.modules }
