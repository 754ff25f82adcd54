// Package app assembles the demo application: a couple of services with
// real initialization and teardown, wired into the root scope partly in
// code and partly through a YAML wiring manifest.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	fw "github.com/ferrost/laminar/framework/app"
	"github.com/ferrost/laminar/framework/config"
	"github.com/ferrost/laminar/framework/manifest"
	"github.com/ferrost/laminar/framework/module"
	"github.com/ferrost/laminar/framework/scope"
	"github.com/ferrost/laminar/routing"
)

const (
	KeyStore  scope.Key = "store"
	KeyMailer scope.Key = "mailer"
)

// wiring declares the demo services and their edges; the factories are
// bound in New. In a deployment this would live under the configured
// manifest directory instead.
const wiring = `
name: demo
services:
  - key: store
  - key: mailer
    depends_on: [config, store]
`

// New bootstraps the demo application.
func New(envFiles ...string) (*fw.Application, error) {
	a := fw.New(envFiles...)

	a.Bind(KeyStore, func(*scope.Stack) any {
		return NewStore()
	})
	a.Bind(KeyMailer, func(st *scope.Stack) any {
		cfg := scope.MustResolve[*config.Config](st, fw.KeyConfig)
		return NewMailer(cfg.App.Name)
	})

	m, err := manifest.Parse([]byte(wiring))
	if err != nil {
		return nil, err
	}
	if err := a.RegisterManifest(m); err != nil {
		return nil, err
	}
	if err := a.Register(&RoutesModule{}); err != nil {
		return nil, err
	}
	return a, nil
}

// ── Store ─────────────────────────────────────────────────────────────────────

// Store is an in-memory note store. It seeds itself asynchronously
// during the pre-wave and empties on scope teardown.
type Store struct {
	mu    sync.RWMutex
	notes map[string]string
}

func NewStore() *Store {
	return &Store{notes: make(map[string]string)}
}

func (s *Store) Initialize(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes["welcome"] = "scope is up"
	return nil
}

func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = nil
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.notes[key]
	return v, ok
}

func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[key] = value
}

// ── Mailer ────────────────────────────────────────────────────────────────────

// Mailer pretends to talk to an outbox. It depends on the config and
// the store; both are roots, so its initializer still joins the first
// wave.
type Mailer struct {
	sender string
	ready  bool
}

func NewMailer(sender string) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) Initialize(context.Context) error {
	m.ready = true
	return nil
}

func (m *Mailer) Send(to, body string) error {
	if !m.ready {
		return fmt.Errorf("mailer not initialized")
	}
	fmt.Printf("mail from %s to %s: %s\n", m.sender, to, body)
	return nil
}

// ── Routes ────────────────────────────────────────────────────────────────────

// RoutesModule attaches the demo endpoints once the root scope is built.
type RoutesModule struct {
	module.BaseModule
}

func (*RoutesModule) Register(*scope.Scope) {}

func (*RoutesModule) Boot(st *scope.Stack) error {
	router := scope.MustResolve[*routing.Router](st, fw.KeyRouter)

	router.Get("/notes/{key}", func(w http.ResponseWriter, r *http.Request) {
		res := routing.NewResponse(w)
		store := scope.MustResolve[*Store](routing.FromContext(r), KeyStore)

		if v, ok := store.Get(routing.Param(r, "key")); ok {
			res.Success(v)
			return
		}
		res.NotFound("no such note")
	})

	router.Get("/scope", func(w http.ResponseWriter, r *http.Request) {
		res := routing.NewResponse(w)
		cur, err := routing.FromContext(r).Current()
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		res.Success(cur.Keys())
	})

	return nil
}
