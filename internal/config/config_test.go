package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultRetryTimeout, cfg.GetRetryTimeout())
	assert.Equal(t, DefaultRetryInterval, cfg.GetRetryInterval())
	assert.Empty(t, cfg.DefaultScreen)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enabled: true
default_screen: loginPage
retry_timeout: 10s
retry_interval: 250ms
pattern_paths:
  - ./patterns
screen_urls:
  "/login": loginPage
  "/checkout": checkoutPage
vars:
  baseUrl: https://example.com
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "loginPage", cfg.DefaultScreen)
	assert.Equal(t, 10*time.Second, cfg.GetRetryTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.GetRetryInterval())
	assert.Equal(t, []string{"./patterns"}, cfg.PatternPaths)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enabled: true
default_screen: loginPage
retry_timeout: 10s
`), 0o644))

	t.Setenv("FIELDMARK_ENABLED", "false")
	t.Setenv("FIELDMARK_DEFAULT_SCREEN", "checkoutPage")
	t.Setenv("FIELDMARK_RETRY_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Enabled, "environment must override file defaults")
	assert.Equal(t, "checkoutPage", cfg.DefaultScreen)
	assert.Equal(t, 5*time.Second, cfg.GetRetryTimeout())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry_timeout: soon\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestScreenForURL(t *testing.T) {
	cfg := Default()
	cfg.ScreenURLs = map[string]string{
		"/login":       "loginPage",
		"/login/reset": "resetPage",
		"/checkout":    "checkoutPage",
	}

	assert.Equal(t, "loginPage", cfg.ScreenForURL("https://example.com/login"))
	assert.Equal(t, "resetPage", cfg.ScreenForURL("https://example.com/login/reset?step=2"),
		"longest matching fragment must win")
	assert.Equal(t, "checkoutPage", cfg.ScreenForURL("https://example.com/checkout/cart"))
	assert.Equal(t, "", cfg.ScreenForURL("https://example.com/about"))
}

func TestBind(t *testing.T) {
	cfg := Default()
	cfg.Vars = map[string]string{"baseUrl": "https://example.com"}

	store := vars.NewStore()
	cfg.Bind(store)

	assert.Equal(t, "https://example.com", store.Get("config.baseUrl", false))
}
