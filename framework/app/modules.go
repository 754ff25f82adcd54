package app

import (
	"github.com/ferrost/laminar/framework/config"
	"github.com/ferrost/laminar/framework/module"
	"github.com/ferrost/laminar/framework/scope"
	"github.com/ferrost/laminar/routing"
)

// Keys of the services the framework itself binds into the root scope.
const (
	KeyConfig scope.Key = "config"
	KeyRouter scope.Key = "router"
)

// ── ConfigModule ──────────────────────────────────────────────────────────────

// ConfigModule binds the loaded configuration into the root scope.
//
// Bound keys:
//   - "config" → *config.Config
type ConfigModule struct {
	module.BaseModule
	Config *config.Config
}

func (m *ConfigModule) Register(sc *scope.Scope) {
	cfg := m.Config
	_ = sc.Register(scope.Provide(KeyConfig, func(*scope.Stack) any {
		return cfg
	}))
}

// ── RouterModule ──────────────────────────────────────────────────────────────

// RouterModule binds the HTTP router, so services that attach routes can
// declare a dependency on it instead of reaching for the kernel.
//
// Bound keys:
//   - "router" → *routing.Router
type RouterModule struct {
	module.BaseModule
	Router *routing.Router
}

func (m *RouterModule) Register(sc *scope.Scope) {
	router := m.Router
	_ = sc.Register(scope.Provide(KeyRouter, func(*scope.Stack) any {
		return router
	}))
}

// ── ManifestModule ────────────────────────────────────────────────────────────

// ManifestModule contributes descriptors bound from a wiring manifest.
// The kernel creates these in Boot/RegisterManifest; the descriptors are
// already bound to their factories by then.
type ManifestModule struct {
	module.BaseModule
	Name        string
	Descriptors []scope.Descriptor
}

func (m *ManifestModule) Register(sc *scope.Scope) {
	for _, d := range m.Descriptors {
		_ = sc.Register(d)
	}
}
