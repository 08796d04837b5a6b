package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
name: demo
vars:
  dataDir: /var/lib/ensemble
components:
  db:
    type: kvstore
    args:
      path: "{{ .Vars.dataDir }}/db"
  metrics:
    type: metrics
  admin:
    type: httpserver
    dependsOn: [metrics, db]
    args:
      addr: ":8080"
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, []string{"admin", "db", "metrics"}, m.Keys())
	assert.Equal(t, "/var/lib/ensemble/db", m.Components["db"].Args["path"])
	assert.Equal(t, []string{"metrics", "db"}, m.Components["admin"].DependsOn)
	assert.Equal(t, ":8080", m.Components["admin"].Args["addr"])
}

func TestLoadRendersEnvironment(t *testing.T) {
	t.Setenv("ENSEMBLE_TEST_ADDR", ":9090")
	path := writeManifest(t, `
name: demo
components:
  admin:
    type: httpserver
    args:
      addr: "{{ .Env.ENSEMBLE_TEST_ADDR }}"
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", m.Components["admin"].Args["addr"])
}

func TestLoadSprigFunctions(t *testing.T) {
	path := writeManifest(t, `
name: demo
vars:
  dir: base
components:
  db:
    type: kvstore
    args:
      path: "{{ .Vars.dir | upper }}"
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "BASE", m.Components["db"].Args["path"])
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: demo
components:
  db:
    type: kvstore
    dependencies: [other]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependencies")
}

func TestLoadRejectsUnknownVariable(t *testing.T) {
	path := writeManifest(t, `
name: demo
components:
  db:
    type: kvstore
    args:
      path: "{{ .Vars.missing }}"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		wantErr  string
	}{
		{
			name:     "missing name",
			manifest: Manifest{Components: map[string]ComponentSpec{"db": {Type: "kvstore"}}},
			wantErr:  "name is required",
		},
		{
			name:     "no components",
			manifest: Manifest{Name: "demo"},
			wantErr:  "at least one component",
		},
		{
			name: "missing type",
			manifest: Manifest{
				Name:       "demo",
				Components: map[string]ComponentSpec{"db": {}},
			},
			wantErr: "type is required",
		},
		{
			name: "self dependency",
			manifest: Manifest{
				Name: "demo",
				Components: map[string]ComponentSpec{
					"db": {Type: "kvstore", DependsOn: []string{"db"}},
				},
			},
			wantErr: "cannot depend on itself",
		},
		{
			name: "valid",
			manifest: Manifest{
				Name: "demo",
				Components: map[string]ComponentSpec{
					"db":  {Type: "kvstore"},
					"api": {Type: "httpserver", DependsOn: []string{"db"}},
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.manifest.Validate()
			if test.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}
