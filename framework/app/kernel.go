package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/ferrost/laminar/framework/config"
	"github.com/ferrost/laminar/framework/manifest"
	"github.com/ferrost/laminar/framework/module"
	"github.com/ferrost/laminar/framework/scope"
	"github.com/ferrost/laminar/routing"
)

// Application is the top-level runtime context. It owns the scope stack —
// the explicit handle everything else resolves through — plus the module
// registry that populates the root scope, the configuration, and the HTTP
// router.
type Application struct {
	Stack   *scope.Stack
	Modules *module.Registry
	Config  *config.Config
	Router  *routing.Router

	// factories backs manifest-declared services: wiring comes from
	// YAML, construction stays in code.
	factories map[scope.Key]scope.Factory
}

// New creates and bootstraps the application: configuration is loaded,
// the stack and registry are created, and the core modules are
// registered so "config" and "router" resolve from the root scope once
// Boot has run.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	st := scope.NewStack()

	a := &Application{
		Stack:     st,
		Modules:   module.NewRegistry(st),
		Config:    cfg,
		Router:    routing.New(),
		factories: make(map[scope.Key]scope.Factory),
	}

	// chi requires middleware before any route is registered, so the
	// stack goes in here; it only becomes resolvable once Boot has
	// built the root scope.
	a.Router.Middleware(routing.StackMiddleware(st))

	_ = a.Modules.Register(&ConfigModule{Config: cfg})
	_ = a.Modules.Register(&RouterModule{Router: a.Router})

	return a
}

// Register adds a module to the application.
func (a *Application) Register(m module.Module) error {
	return a.Modules.Register(m)
}

// Bind supplies the factory for a manifest-declared service. The key
// must match the manifest's `key` field; the manifest supplies the
// depends_on edges.
func (a *Application) Bind(key scope.Key, f scope.Factory) {
	a.factories[key] = f
}

// Boot loads wiring manifests (if a manifest directory is configured),
// binds them against the factories supplied via Bind, then pushes and
// builds the root scope through the module registry. The configured
// initialization timeout bounds the whole build.
func (a *Application) Boot(ctx context.Context) error {
	files, err := manifest.LoadDir(a.Config.Scope.ManifestDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := a.RegisterManifest(f.Manifest); err != nil {
			return err
		}
	}

	if timeout := a.Config.Scope.InitTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	_, err = a.Modules.Boot(ctx)
	return err
}

// RegisterManifest binds one wiring manifest against the factory table
// and registers the result as a module.
func (a *Application) RegisterManifest(m manifest.Manifest) error {
	descs, err := m.Descriptors(a.factories)
	if err != nil {
		return err
	}
	return a.Modules.Register(&ManifestModule{Name: m.Name, Descriptors: descs})
}

// Run boots the application (if needed) and starts the HTTP server. The
// scope stack is injected into every request, read-only, for handlers to
// resolve from.
func (a *Application) Run() error {
	if !a.Modules.Booted() {
		if err := a.Boot(context.Background()); err != nil {
			return err
		}
	}

	addr := ":" + a.Config.App.Port
	fmt.Printf("%s listening on http://localhost%s  [%s]\n",
		a.Config.App.Name, addr, a.Config.App.Env)
	return http.ListenAndServe(addr, a.Router)
}

// Shutdown pops every open scope, newest first, disposing their
// instances.
func (a *Application) Shutdown() {
	for a.Stack.Depth() > 0 {
		if err := a.Stack.Pop(); err != nil {
			log.Printf("shutdown: %v", err)
			return
		}
	}
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
