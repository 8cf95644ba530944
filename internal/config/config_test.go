package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  base_url: http://chat.example.com:5000/
ui:
  typing_speed: 5ms
  sidebar_width: 40
store:
  path: /tmp/prefs.db
log:
  level: debug
`

// TestLoad_File verifies that Load correctly unmarshals a config file.
func TestLoad_File(t *testing.T) {
	// Write config to temp file
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://chat.example.com:5000", cfg.Server.BaseURL)
	require.Equal(t, 5*time.Millisecond, cfg.UI.TypingSpeed)
	require.Equal(t, 40, cfg.UI.SidebarWidth)
	require.Equal(t, "/tmp/prefs.db", cfg.Store.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	// not in the file, falls back to the default
	require.Equal(t, "jarvis-chat.log", cfg.Log.File)
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:5000", cfg.Server.BaseURL)
	require.Equal(t, 20*time.Millisecond, cfg.UI.TypingSpeed)
	require.Equal(t, 32, cfg.UI.SidebarWidth)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JARVIS_SERVER_BASE_URL", "http://override:8080")
	t.Setenv("JARVIS_UI_TYPING_SPEED", "1ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://override:8080", cfg.Server.BaseURL)
	require.Equal(t, time.Millisecond, cfg.UI.TypingSpeed)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir on older toolchains).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
