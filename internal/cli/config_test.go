package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
font_dirs = ["/usr/share/fonts/custom"]

[cache]
dir = "/var/cache/canvasrender"
ttl = "72h"
redis_addr = "localhost:6379"

[server]
addr = ":9090"

[render]
format = "jpg"
quality = 85
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/usr/share/fonts/custom"}, cfg.FontDirs)
	assert.Equal(t, "/var/cache/canvasrender", cfg.Cache.Dir)
	assert.Equal(t, 72*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "jpg", cfg.Render.Format)
	assert.Equal(t, 85, cfg.Render.Quality)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errs.Code
	}{
		{"unknown key", func(t *testing.T) string { return writeConfig(t, "colour = \"red\"\n") }, errs.ErrCodeInvalidInput},
		{"bad syntax", func(t *testing.T) string { return writeConfig(t, "[cache\n") }, errs.ErrCodeInvalidInput},
		{"missing explicit", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, errs.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path(t))
			require.Error(t, err)
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadConfigDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestRenderOptionsFlagsOverrideConfig(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config = &Config{
		FontDirs: []string{"/cfg"},
		Cache:    CacheConfig{TTL: time.Hour},
		Render:   RenderConfig{Format: "jpg", Quality: 70},
	}

	opts := c.renderOptions("", 0, nil, false)
	assert.Equal(t, "jpg", opts.Format)
	assert.Equal(t, 70, opts.Quality)
	assert.Equal(t, time.Hour, opts.TTL)

	opts = c.renderOptions("png", 95, []string{"/flag"}, true)
	assert.Equal(t, "png", opts.Format)
	assert.Equal(t, 95, opts.Quality)
	assert.Equal(t, []string{"/cfg", "/flag"}, opts.FontDirs)
	assert.True(t, opts.NoCache)
}
