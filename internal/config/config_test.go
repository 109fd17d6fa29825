package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/custom-menu/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, host.DefaultAppDirs, cfg.App.LookupPaths)
	assert.Equal(t, 128, cfg.App.Width)
	assert.Equal(t, 128, cfg.App.Height)
	assert.Equal(t, 16*time.Millisecond, cfg.App.FrameInterval)
	assert.Equal(t, 5*time.Second, cfg.App.ScriptTimeout)
	assert.False(t, cfg.App.WatchApps)
	assert.Empty(t, cfg.Logging.Level)
	assert.Empty(t, cfg.Args)
	require.NoError(t, Validate(cfg))
}

func TestEnvironmentPrependsAppPaths(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{
		"CUSTOM_MENU_APP_PATH=/opt/apps: /srv/apps ",
		"CUSTOM_MENU_SMALL_SCREEN=true",
		"CUSTOM_MENU_SCRIPT_TIMEOUT=2s",
		"CUSTOM_MENU_IGNORE=*.bak, 00-*",
		"CUSTOM_MENU_LOG_LEVEL=debug",
		"CUSTOM_MENU_TRACE=1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/apps", "/srv/apps", "./apps/", "/online/scripts/"}, cfg.App.LookupPaths)
	assert.True(t, cfg.App.SmallScreen)
	assert.Equal(t, 2*time.Second, cfg.App.ScriptTimeout)
	assert.Equal(t, []string{"*.bak", "00-*"}, cfg.App.Ignore)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Trace)
}

func TestInvalidEnvironmentValueFails(t *testing.T) {
	_, err := LoadArgs(nil, []string{"CUSTOM_MENU_WIDTH=wide"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUSTOM_MENU_WIDTH")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	args := []string{"--width", "96", "--app-path", "/flag/apps", "--watch", "--app", "led"}
	cfg, err := LoadArgs(args, []string{
		"CUSTOM_MENU_WIDTH=64",
		"CUSTOM_MENU_HEIGHT=64",
		"CUSTOM_MENU_APP_PATH=/env/apps",
	})
	require.NoError(t, err)
	assert.Equal(t, 96, cfg.App.Width)
	assert.Equal(t, 64, cfg.App.Height, "unset flag must not clobber the environment")
	assert.Equal(t, []string{"/flag/apps", "./apps/", "/online/scripts/"}, cfg.App.LookupPaths)
	assert.True(t, cfg.App.WatchApps)
	assert.Equal(t, "led", cfg.App.StartApp)
	assert.Equal(t, args, cfg.Args)
	assert.Equal(t, "96", cfg.Flags["width"])
	assert.Equal(t, "true", cfg.Flags["watch"])
}

func TestConfigFileSitsBelowEnvironment(t *testing.T) {
	path := writeConfig(t, `
app:
  lookup_paths: [/etc/custom-menu/apps]
  height: 64
  frame_interval: 40ms
  ignore: ["*.disabled"]
logging:
  level: warn
  file: /tmp/menu.log
`)
	cfg, err := LoadArgs([]string{"--config", path}, []string{"CUSTOM_MENU_LOG_LEVEL=error"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/custom-menu/apps"}, cfg.App.LookupPaths)
	assert.Equal(t, 64, cfg.App.Height)
	assert.Equal(t, 128, cfg.App.Width)
	assert.Equal(t, 40*time.Millisecond, cfg.App.FrameInterval)
	assert.Equal(t, []string{"*.disabled"}, cfg.App.Ignore)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/tmp/menu.log", cfg.Logging.FilePath)
	assert.Equal(t, path, cfg.Flags["config"])
}

func TestConfigFileFromEnvironment(t *testing.T) {
	path := writeConfig(t, "app:\n  watch_apps: true\n")
	cfg, err := LoadArgs(nil, []string{"CUSTOM_MENU_CONFIG=" + path})
	require.NoError(t, err)
	assert.True(t, cfg.App.WatchApps)
}

func TestConfigFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "app:\n  colour: blue\n")
	_, err := LoadArgs([]string{"--config", path}, nil)
	require.Error(t, err)
}

func TestEmptyConfigFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadArgs([]string{"--config", path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.App.Width)
}

func TestUnknownFlagFails(t *testing.T) {
	_, err := LoadArgs([]string{"--socket", "x"}, nil)
	require.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.App.Width = 0
	cfg.App.FrameInterval = 0
	cfg.App.Ignore = []string{"[unclosed"}
	cfg.Logging.Level = "loud"
	err := Validate(cfg)
	require.Error(t, err)
	for _, want := range []string{"width", "frame interval", "ignore pattern", "log level"} {
		assert.Contains(t, err.Error(), want)
	}
}
