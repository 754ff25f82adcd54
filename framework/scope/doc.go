// Package scope provides a scoped dependency-injection runtime.
//
// A Scope holds a set of service descriptors — a key, a factory, and the
// keys the service depends on. Building a scope sorts the descriptors into
// dependency order, runs every factory, and then runs asynchronous
// initializers in two concurrent waves. Scopes nest on an explicit Stack:
// lookups walk the stack top-down, so a key registered in a nearer scope
// shadows the same key further down.
//
// # Quick Start
//
//	st := scope.NewStack()
//	sc := st.Push(
//	    scope.Provide("config", func(*scope.Stack) any { return loadConfig() }),
//	    scope.Provide("db", func(st *scope.Stack) any {
//	        return newDB(scope.MustResolve[*Config](st, "config"))
//	    }, "config"),
//	)
//	if err := sc.Build(ctx); err != nil { ... }
//
//	db, err := scope.Resolve[*DB](st, "db")
//
//	st.Pop() // disposes the scope's instances, newest first
//
// # Capabilities
//
// A factory may return any value. Two optional capabilities are recognized
// after construction:
//
//   - [Initializable] — asynchronous setup, run during Build in two
//     concurrent waves with a settlement barrier between them.
//   - [Disposable] — synchronous teardown, run when the owning scope is
//     popped.
//
// # Waves
//
// Initializers whose services declare no dependencies (or depend only on
// such roots) run first, all at once. Everything else runs in a second
// wave after the first has fully settled. Within a wave no ordering is
// guaranteed; a failing initializer does not stop its siblings, and its
// error fails the whole Build once the wave settles.
package scope
