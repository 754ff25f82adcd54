// Package manifest loads declarative wiring manifests: YAML documents
// naming the services of a scope and the dependency edges between them.
// Factories stay in code; a manifest binds declared keys to registered
// factories and yields ready-to-push descriptors.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ferrost/laminar/framework/scope"
)

// ServiceDecl declares one service and its dependency edges.
type ServiceDecl struct {
	Key       string   `yaml:"key"`
	DependsOn []string `yaml:"depends_on,omitempty"`
}

// Manifest is the decoded form of one wiring document.
//
//	name: app
//	services:
//	  - key: config
//	  - key: database
//	    depends_on: [config]
type Manifest struct {
	Name     string        `yaml:"name"`
	Services []ServiceDecl `yaml:"services"`
}

// File pairs a parsed manifest with its on-disk source.
type File struct {
	Manifest Manifest
	Path     string
}

// Parse decodes and validates a single manifest payload.
func Parse(data []byte) (Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Manifest{}, fmt.Errorf("manifest: payload is empty")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: decode: %w", err)
	}
	m = m.normalized()
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Load reads a YAML file from disk and returns the parsed manifest.
func Load(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("manifest: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("manifest: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return File{Manifest: m, Path: filepath.Clean(path)}, nil
}

// LoadDir scans a directory for *.yaml manifests and returns them sorted
// by path. A missing directory is treated as "no manifests".
func LoadDir(dir string) ([]File, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("manifest: read %s: %w", trimmed, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		f, err := Load(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Validate checks structural soundness: non-empty unique keys, no
// self-dependency, and every depends_on reference declared in the same
// manifest. Graph-level problems (cycles) are left to the scope build,
// which owns that diagnosis.
func (m Manifest) Validate() error {
	if len(m.Services) == 0 {
		return fmt.Errorf("manifest %q: declares no services", m.Name)
	}
	declared := make(map[string]bool, len(m.Services))
	for _, s := range m.Services {
		if s.Key == "" {
			return fmt.Errorf("manifest %q: service with empty key", m.Name)
		}
		if declared[s.Key] {
			return fmt.Errorf("manifest %q: duplicate service key %q", m.Name, s.Key)
		}
		declared[s.Key] = true
	}
	for _, s := range m.Services {
		for _, dep := range s.DependsOn {
			if dep == s.Key {
				return fmt.Errorf("manifest %q: service %q depends on itself", m.Name, s.Key)
			}
			if !declared[dep] {
				return fmt.Errorf("manifest %q: service %q depends on undeclared %q", m.Name, s.Key, dep)
			}
		}
	}
	return nil
}

// Descriptors binds the declared services to their factories and returns
// descriptors in declaration order, ready for Stack.Push. Every declared
// key must have a factory.
func (m Manifest) Descriptors(factories map[scope.Key]scope.Factory) ([]scope.Descriptor, error) {
	out := make([]scope.Descriptor, 0, len(m.Services))
	for _, s := range m.Services {
		key := scope.Key(s.Key)
		factory, ok := factories[key]
		if !ok {
			return nil, fmt.Errorf("manifest %q: no factory for declared service %q", m.Name, s.Key)
		}
		deps := make([]scope.Key, len(s.DependsOn))
		for i, d := range s.DependsOn {
			deps[i] = scope.Key(d)
		}
		out = append(out, scope.Provide(key, factory, deps...))
	}
	return out, nil
}

// normalized trims whitespace from names, keys and edges.
func (m Manifest) normalized() Manifest {
	clone := Manifest{Name: strings.TrimSpace(m.Name)}
	if len(m.Services) == 0 {
		return clone
	}
	clone.Services = make([]ServiceDecl, len(m.Services))
	for i, s := range m.Services {
		decl := ServiceDecl{Key: strings.TrimSpace(s.Key)}
		if len(s.DependsOn) > 0 {
			decl.DependsOn = make([]string, len(s.DependsOn))
			for j, d := range s.DependsOn {
				decl.DependsOn[j] = strings.TrimSpace(d)
			}
		}
		clone.Services[i] = decl
	}
	return clone
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
