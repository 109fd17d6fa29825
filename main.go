package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/atomicstack/custom-menu/internal/app"
	"github.com/atomicstack/custom-menu/internal/config"
	"github.com/atomicstack/custom-menu/internal/format/table"
	"github.com/atomicstack/custom-menu/internal/host"
	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errConfig = errors.New("configuration error")

func main() {
	err := newRootCmd(os.Environ()).Execute()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, errConfig) {
		os.Exit(2)
	}
	os.Exit(1)
}

func newRootCmd(environ []string) *cobra.Command {
	root := &cobra.Command{
		Use:           "custom-menu",
		Short:         "Run the custom menu host in a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmulator(cmd, environ)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Show the device screen and drive it from the keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmulator(cmd, environ)
		},
	})

	var match string
	apps := &cobra.Command{
		Use:   "apps",
		Short: "List the apps found in the lookup paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, environ)
			if err != nil {
				return err
			}
			return listApps(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, match)
		},
	}
	apps.Flags().StringVar(&match, "match", "", "only list apps whose name fuzzy-matches this")
	root.AddCommand(apps)
	return root
}

// loadConfig resolves and validates configuration, then sets up logging.
func loadConfig(cmd *cobra.Command, environ []string) (config.Config, error) {
	cfg, err := config.FromFlags(cmd.Flags(), environ)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %v", errConfig, err)
	}
	cfg.Args = append([]string(nil), os.Args[1:]...)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	if err := logging.Configure(cfg.Logging.FilePath, cfg.Logging.Level); err != nil {
		return config.Config{}, fmt.Errorf("%w: %v", errConfig, err)
	}
	return cfg, nil
}

func runEmulator(cmd *cobra.Command, environ []string) error {
	cfg, err := loadConfig(cmd, environ)
	if err != nil {
		return err
	}
	defer logging.Sync()
	traceStartup(cfg)
	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		return err
	}
	return nil
}

func listApps(out, errOut io.Writer, cfg config.Config, match string) error {
	apps, loadErr := app.ListApps(cfg.App)
	if apps == nil && loadErr != nil {
		return loadErr
	}
	if loadErr != nil {
		fmt.Fprintf(errOut, "Warning: %v\n", loadErr)
	}
	if match != "" {
		apps = app.MatchApps(apps, match)
	}
	_, err := io.WriteString(out, appTable(apps).String())
	return err
}

func appTable(apps []host.AppInfo) *table.Table {
	t := table.New("IDX", "NAME", "INTERACTIVE", "LOADER", "PATH").
		Align(table.AlignRight)
	for _, info := range apps {
		interactive := "no"
		if info.Interactive {
			interactive = "yes"
		}
		t.Add(strconv.Itoa(info.Index), info.Name, interactive, info.Loader, info.Path)
	}
	return t
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
