package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrost/laminar/framework/manifest"
	"github.com/ferrost/laminar/framework/scope"
)

const wiring = `
name: app
services:
  - key: config
  - key: database
    depends_on: [config]
  - key: cache
    depends_on: [config]
`

// TestParse_Valid verifies a well-formed document decodes with its edges
// intact.
func TestParse_Valid(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(wiring))
	require.NoError(t, err)
	assert.Equal(t, "app", m.Name)
	require.Len(t, m.Services, 3)
	assert.Equal(t, []string{"config"}, m.Services[1].DependsOn)
}

// TestParse_EmptyPayload verifies blank input is rejected.
func TestParse_EmptyPayload(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte("   \n\t"))
	require.Error(t, err)
}

// TestParse_NoServices verifies a manifest must declare at least one
// service.
func TestParse_NoServices(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte("name: empty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no services")
}

// TestParse_DuplicateKey verifies duplicate declarations are rejected.
func TestParse_DuplicateKey(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte(`
name: app
services:
  - key: config
  - key: config
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

// TestParse_UndeclaredDependency verifies depends_on must reference a
// declared key.
func TestParse_UndeclaredDependency(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte(`
name: app
services:
  - key: database
    depends_on: [config]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared")
}

// TestParse_SelfDependency verifies a self edge is rejected.
func TestParse_SelfDependency(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte(`
name: app
services:
  - key: config
    depends_on: [config]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

// TestParse_TrimsWhitespace verifies keys and edges are normalized.
func TestParse_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(`
name: "  app  "
services:
  - key: " config "
  - key: database
    depends_on: [" config "]
`))
	require.NoError(t, err)
	assert.Equal(t, "app", m.Name)
	assert.Equal(t, "config", m.Services[0].Key)
	assert.Equal(t, []string{"config"}, m.Services[1].DependsOn)
}

// TestDescriptors_BindsFactories verifies declared services bind to code
// factories and build into a working scope.
func TestDescriptors_BindsFactories(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(wiring))
	require.NoError(t, err)

	descs, err := m.Descriptors(map[scope.Key]scope.Factory{
		"config":   func(*scope.Stack) any { return "cfg" },
		"database": func(st *scope.Stack) any { return "db+" + scope.MustResolve[string](st, "config") },
		"cache":    func(st *scope.Stack) any { return "cache+" + scope.MustResolve[string](st, "config") },
	})
	require.NoError(t, err)
	require.Len(t, descs, 3)

	st := scope.NewStack()
	sc := st.Push(descs...)
	require.NoError(t, sc.Build(context.Background()))

	got, err := scope.Resolve[string](st, "database")
	require.NoError(t, err)
	assert.Equal(t, "db+cfg", got)
}

// TestDescriptors_MissingFactory verifies a declared service without a
// factory is an error.
func TestDescriptors_MissingFactory(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(wiring))
	require.NoError(t, err)

	_, err = m.Descriptors(map[scope.Key]scope.Factory{
		"config": func(*scope.Stack) any { return "cfg" },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"database"`)
}

// TestLoad_FromDisk verifies the file loader round-trip.
func TestLoad_FromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(wiring), 0o644))

	f, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "app", f.Manifest.Name)
	assert.Equal(t, filepath.Clean(path), f.Path)
}

// TestLoad_MissingFile verifies a missing path fails with context.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load(filepath.Join(t.TempDir(), "ghost.yaml"))
	require.Error(t, err)
}

// TestLoadDir_SortedAndFiltered verifies directory scans skip non-YAML
// entries and return deterministic order.
func TestLoadDir_SortedAndFiltered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(wiring), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(wiring), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	files, err := manifest.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.yml"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.yaml"), files[1].Path)
}

// TestLoadDir_MissingDir verifies a missing directory means no
// manifests, not an error.
func TestLoadDir_MissingDir(t *testing.T) {
	t.Parallel()

	files, err := manifest.LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}
