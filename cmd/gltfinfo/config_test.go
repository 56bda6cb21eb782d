package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	p := writeFile(t, "gltfinfo.toml", `
workers = 8
http_timeout = "2s"
log_level = "debug"
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.False(t, cfg.GPU)

	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `threads = 2`,
		"zero workers": `workers = 0`,
		"bad timeout":  `http_timeout = "soon"`,
		"bad level":    `log_level = "loud"`,
		"not toml":     `workers = [`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "c.toml", body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	l, _ := cfg.Level()
	assert.Equal(t, slog.LevelInfo, l)

	cfg.HTTPTimeout = ""
	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}
