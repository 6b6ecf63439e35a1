package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/stackpr/internal/stack"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"remote": "upstream", "trunk": "develop", "backend": "api"}`), 0o644))

	t.Run("file only", func(t *testing.T) {
		config, err := LoadConfig(dir, Flags{}, envFrom(nil))
		require.NoError(t, err)
		assert.Equal(t, "upstream", config.Remote)
		assert.Equal(t, "develop", config.Trunk)
		assert.Equal(t, stack.BackendAPI, config.Backend)
		assert.False(t, config.Debug)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		config, err := LoadConfig(dir, Flags{}, envFrom(map[string]string{
			stack.EnvTrunk: "release",
			stack.EnvDebug: "true",
		}))
		require.NoError(t, err)
		assert.Equal(t, "release", config.Trunk)
		assert.True(t, config.Debug)
	})

	t.Run("flags override environment", func(t *testing.T) {
		config, err := LoadConfig(dir, Flags{Trunk: "main", Backend: "gh"}, envFrom(map[string]string{
			stack.EnvTrunk: "release",
		}))
		require.NoError(t, err)
		assert.Equal(t, "main", config.Trunk)
		assert.Equal(t, stack.BackendGH, config.Backend)
		assert.Equal(t, "upstream", config.Remote)
	})

	t.Run("unknown backend flag", func(t *testing.T) {
		_, err := LoadConfig(dir, Flags{Backend: "gitlab"}, envFrom(nil))
		assert.Error(t, err)
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	config, err := LoadConfig(t.TempDir(), Flags{Debug: true}, envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, stack.BackendGH, config.Backend)
	assert.Equal(t, stack.DefaultReopenComment, config.ReopenComment)
	assert.True(t, config.Debug)
}

func TestClientsEnviron(t *testing.T) {
	c := &Clients{
		Config: &stack.Config{Backend: stack.BackendGH, Trunk: "main"},
		RunID:  "run-1",
	}
	env := c.Environ()
	assert.Contains(t, env, EnvRunID+"=run-1")
	assert.Contains(t, env, stack.EnvTrunk+"=main")
	assert.Contains(t, env, stack.EnvBackend+"=gh")
	assert.NoError(t, c.Close())
}
