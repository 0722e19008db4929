package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "REGISTRY_HOST", "REGISTRY_URL", "DOCKER_BIN",
	"STAGE_TIMEOUT", "PUSH_RATE_LIMIT", "UI_DIR", "LOG_LEVEL",
}

// isolate runs the test from an empty directory with a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "localhost:5000", cfg.Registry.Host)
	assert.Equal(t, "http://localhost:5000", cfg.Registry.URL)
	assert.Equal(t, "docker", cfg.Docker.Binary)
	assert.Equal(t, 10*time.Minute, cfg.Push.StageTimeout)
	assert.Equal(t, 2.0, cfg.Push.RateLimit)
	assert.Empty(t, cfg.UI.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":3000", cfg.Address())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(filepath.Join(dir, "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.HTTP.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "regdash.yml", `
http:
  port: 8080
registry:
  host: registry.example.com/
  url: https://registry.example.com/
docker:
  binary: /usr/local/bin/docker
push:
  stage_timeout: 90s
  rate_limit: 0.5
ui:
  dir: /srv/ui
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "registry.example.com", cfg.Registry.Host)
	assert.Equal(t, "https://registry.example.com", cfg.Registry.URL)
	assert.Equal(t, "/usr/local/bin/docker", cfg.Docker.Binary)
	assert.Equal(t, 90*time.Second, cfg.Push.StageTimeout)
	assert.Equal(t, 0.5, cfg.Push.RateLimit)
	assert.Equal(t, "/srv/ui", cfg.UI.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "regdash.yml", "http:\n  port: 8080\nregistry:\n  host: from-file:5000\n")

	t.Setenv("PORT", "9090")
	t.Setenv("REGISTRY_HOST", "from-env:5000")
	t.Setenv("STAGE_TIMEOUT", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "from-env:5000", cfg.Registry.Host)
	assert.Equal(t, "http://from-env:5000", cfg.Registry.URL)
	assert.Equal(t, 2*time.Minute, cfg.Push.StageTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "DOCKER_BIN=podman\nPUSH_RATE_LIMIT=5\n")
	t.Cleanup(func() {
		os.Unsetenv("DOCKER_BIN")
		os.Unsetenv("PUSH_RATE_LIMIT")
	})
	// godotenv does not override variables that are already set.
	os.Unsetenv("DOCKER_BIN")
	os.Unsetenv("PUSH_RATE_LIMIT")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "podman", cfg.Docker.Binary)
	assert.Equal(t, 5.0, cfg.Push.RateLimit)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad port", "PORT", "abc", "invalid PORT"},
		{"port out of range", "PORT", "70000", "http.port"},
		{"bad timeout", "STAGE_TIMEOUT", "soon", "invalid STAGE_TIMEOUT"},
		{"zero timeout", "STAGE_TIMEOUT", "0s", "push.stage_timeout"},
		{"bad rate", "PUSH_RATE_LIMIT", "fast", "invalid PUSH_RATE_LIMIT"},
		{"host with scheme", "REGISTRY_HOST", "http://localhost:5000", "registry.host"},
		{"bad url", "REGISTRY_URL", "ftp://registry", "registry.url"},
		{"bad level", "LOG_LEVEL", "verbose", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "regdash.yml", "http: [not a map")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshalling")
}
