package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/custom-menu/internal/app"
	"github.com/atomicstack/custom-menu/internal/emulator"
	"github.com/atomicstack/custom-menu/internal/host"
	"github.com/atomicstack/custom-menu/internal/loader/shell"
	"github.com/gobwas/glob"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config        `yaml:"app"`
	Logging Logging           `yaml:"logging"`
	Flags   map[string]string `yaml:"-"`
	Args    []string          `yaml:"-"`
}

type Logging struct {
	FilePath string `yaml:"file"`
	Level    string `yaml:"level"`
	Trace    bool   `yaml:"trace"`
}

const (
	envConfigFile    = "CUSTOM_MENU_CONFIG"
	envAppPath       = host.PathEnv
	envIgnore        = "CUSTOM_MENU_IGNORE"
	envWidth         = "CUSTOM_MENU_WIDTH"
	envHeight        = "CUSTOM_MENU_HEIGHT"
	envSmallScreen   = "CUSTOM_MENU_SMALL_SCREEN"
	envFrameInterval = "CUSTOM_MENU_FRAME_INTERVAL"
	envScriptTimeout = "CUSTOM_MENU_SCRIPT_TIMEOUT"
	envWatch         = "CUSTOM_MENU_WATCH"
	envStartApp      = "CUSTOM_MENU_START_APP"
	envTrace         = "CUSTOM_MENU_TRACE"
	envLogFile       = "CUSTOM_MENU_LOG_FILE"
	envLogLevel      = "CUSTOM_MENU_LOG_LEVEL"
)

const (
	flagConfig        = "config"
	flagAppPath       = "app-path"
	flagIgnore        = "ignore"
	flagWidth         = "width"
	flagHeight        = "height"
	flagSmallScreen   = "small-screen"
	flagFrameInterval = "frame-interval"
	flagScriptTimeout = "script-timeout"
	flagWatch         = "watch"
	flagStartApp      = "app"
	flagTrace         = "trace"
	flagLogFile       = "log-file"
	flagLogLevel      = "log-level"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		App: app.Config{
			LookupPaths:   append([]string(nil), host.DefaultAppDirs...),
			Width:         host.DefaultWidth,
			Height:        host.DefaultHeight,
			FrameInterval: emulator.DefaultFrameInterval,
			ScriptTimeout: shell.DefaultTimeout,
		},
	}
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(flagConfig, "", "path to a YAML config file")
	fs.StringSlice(flagAppPath, nil, "extra app directories, searched before the defaults")
	fs.StringSlice(flagIgnore, nil, "glob patterns for app file names to skip")
	fs.Int(flagWidth, def.App.Width, "screen width in device pixels")
	fs.Int(flagHeight, def.App.Height, "screen height in device pixels")
	fs.Bool(flagSmallScreen, false, "start in small-screen mode (half height)")
	fs.Duration(flagFrameInterval, def.App.FrameInterval, "heartbeat interval")
	fs.Duration(flagScriptTimeout, def.App.ScriptTimeout, "how long a shell app may run")
	fs.Bool(flagWatch, false, "rescan app directories when files change")
	fs.String(flagStartApp, "", "open the app best matching this name instead of the main menu")
	fs.Bool(flagTrace, false, "enable verbose JSON trace logging")
	fs.String(flagLogFile, "", "path to the log file")
	fs.String(flagLogLevel, "", "log level (debug, info, warn, error); empty disables logging")
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("custom-menu", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := FromFlags(fs, environ)
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// FromFlags resolves configuration from a parsed flag set. Precedence, lowest
// first: defaults, the YAML file, the environment, flags given explicitly.
func FromFlags(fs *pflag.FlagSet, environ []string) (Config, error) {
	env := parseEnv(environ)
	cfg := Default()

	path, _ := fs.GetString(flagConfig)
	if path == "" {
		path = envOrDefault(env, envConfigFile, "")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	base := cfg.App.LookupPaths

	if err := applyEnv(env, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyFlags(fs, base, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Flags = flagValues(cfg, path)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(env map[string]string, cfg *Config) error {
	var err error
	if v := envOrDefault(env, envAppPath, ""); v != "" {
		cfg.App.LookupPaths = host.LookupPaths(v, cfg.App.LookupPaths)
	}
	if v := envOrDefault(env, envIgnore, ""); v != "" {
		cfg.App.Ignore = splitList(v)
	}
	if cfg.App.Width, err = envOrInt(env, envWidth, cfg.App.Width); err != nil {
		return err
	}
	if cfg.App.Height, err = envOrInt(env, envHeight, cfg.App.Height); err != nil {
		return err
	}
	if cfg.App.SmallScreen, err = envOrBool(env, envSmallScreen, cfg.App.SmallScreen); err != nil {
		return err
	}
	if cfg.App.FrameInterval, err = envOrDuration(env, envFrameInterval, cfg.App.FrameInterval); err != nil {
		return err
	}
	if cfg.App.ScriptTimeout, err = envOrDuration(env, envScriptTimeout, cfg.App.ScriptTimeout); err != nil {
		return err
	}
	if cfg.App.WatchApps, err = envOrBool(env, envWatch, cfg.App.WatchApps); err != nil {
		return err
	}
	if cfg.Logging.Trace, err = envOrBool(env, envTrace, cfg.Logging.Trace); err != nil {
		return err
	}
	cfg.App.StartApp = envOrDefault(env, envStartApp, cfg.App.StartApp)
	cfg.Logging.FilePath = envOrDefault(env, envLogFile, cfg.Logging.FilePath)
	cfg.Logging.Level = envOrDefault(env, envLogLevel, cfg.Logging.Level)
	return nil
}

// applyFlags copies the flags the user actually set. App paths given on the
// command line replace any from the environment and go before base.
func applyFlags(fs *pflag.FlagSet, base []string, cfg *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagAppPath:
			var paths []string
			paths, err = fs.GetStringSlice(f.Name)
			cfg.App.LookupPaths = append(paths, base...)
		case flagIgnore:
			cfg.App.Ignore, err = fs.GetStringSlice(f.Name)
		case flagWidth:
			cfg.App.Width, err = fs.GetInt(f.Name)
		case flagHeight:
			cfg.App.Height, err = fs.GetInt(f.Name)
		case flagSmallScreen:
			cfg.App.SmallScreen, err = fs.GetBool(f.Name)
		case flagFrameInterval:
			cfg.App.FrameInterval, err = fs.GetDuration(f.Name)
		case flagScriptTimeout:
			cfg.App.ScriptTimeout, err = fs.GetDuration(f.Name)
		case flagWatch:
			cfg.App.WatchApps, err = fs.GetBool(f.Name)
		case flagStartApp:
			cfg.App.StartApp, err = fs.GetString(f.Name)
		case flagTrace:
			cfg.Logging.Trace, err = fs.GetBool(f.Name)
		case flagLogFile:
			cfg.Logging.FilePath, err = fs.GetString(f.Name)
		case flagLogLevel:
			cfg.Logging.Level, err = fs.GetString(f.Name)
		}
	})
	return err
}

func flagValues(cfg Config, path string) map[string]string {
	return map[string]string{
		flagConfig:        path,
		flagAppPath:       strings.Join(cfg.App.LookupPaths, ":"),
		flagIgnore:        strings.Join(cfg.App.Ignore, ","),
		flagWidth:         strconv.Itoa(cfg.App.Width),
		flagHeight:        strconv.Itoa(cfg.App.Height),
		flagSmallScreen:   strconv.FormatBool(cfg.App.SmallScreen),
		flagFrameInterval: cfg.App.FrameInterval.String(),
		flagScriptTimeout: cfg.App.ScriptTimeout.String(),
		flagWatch:         strconv.FormatBool(cfg.App.WatchApps),
		flagStartApp:      cfg.App.StartApp,
		flagLogLevel:      cfg.Logging.Level,
	}
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) (int, error) {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func envOrBool(env map[string]string, key string, fallback bool) (bool, error) {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects settings the host cannot run with.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be > 0 (got %d)", cfg.App.Width))
	}
	if cfg.App.Height <= 0 {
		errs = append(errs, fmt.Errorf("height must be > 0 (got %d)", cfg.App.Height))
	}
	if cfg.App.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame interval must be > 0 (got %s)", cfg.App.FrameInterval))
	}
	if cfg.App.ScriptTimeout <= 0 {
		errs = append(errs, fmt.Errorf("script timeout must be > 0 (got %s)", cfg.App.ScriptTimeout))
	}
	for _, pattern := range cfg.App.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("ignore pattern %q: %w", pattern, err))
		}
	}
	if cfg.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("log level: %w", err))
		}
	}
	return errors.Join(errs...)
}
