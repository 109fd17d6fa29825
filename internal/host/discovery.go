package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/logging/events"
	"go.uber.org/zap"
)

const (
	// PathEnv holds a colon separated list of extra app directories, searched
	// before the defaults.
	PathEnv = "CUSTOM_MENU_APP_PATH"

	maxSymlinkHops = 10
	sharedObject   = ".so"
)

// ErrSymlinkLoop is returned when a symlink chain is longer than
// maxSymlinkHops.
var ErrSymlinkLoop = errors.New("too many levels of symbolic links")

// DefaultAppDirs are searched after any directories named in PathEnv.
var DefaultAppDirs = []string{"./apps/", "/online/scripts/"}

// LookupPaths returns the entries of the colon separated pathList followed by
// base.
func LookupPaths(pathList string, base []string) []string {
	var paths []string
	for _, p := range strings.Split(pathList, ":") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return append(paths, base...)
}

// LoadApps discovers files in the lookup paths and loads every one that has
// not been loaded yet. It returns how many apps were registered; files that
// could not be loaded are joined into the error.
func (h *Host) LoadApps() (int, error) {
	if h.closed {
		return 0, errors.New("host: closed")
	}
	files := h.discover()
	// Shared objects go first so they can register loaders for the rest.
	sort.SliceStable(files, func(i, j int) bool {
		return filepath.Ext(files[i]) == sharedObject && filepath.Ext(files[j]) != sharedObject
	})

	var errs []error
	loaded := 0
	for _, path := range files {
		if _, ok := h.loaded[path]; ok {
			continue
		}
		if err := h.loadFile(path); err != nil {
			events.Host.Skip(path, err.Error())
			logging.Warn("skipping app", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// Rescan loads apps that appeared since the last scan and refreshes the main
// menu when it is showing.
func (h *Host) Rescan() (int, error) {
	n, err := h.LoadApps()
	if n > 0 && h.active == 0 {
		h.Redraw()
	}
	return n, err
}

func (h *Host) loadFile(path string) (err error) {
	ext := filepath.Ext(path)
	loader, ok := h.loaders[ext]
	if !ok {
		return fmt.Errorf("%s: %w for %q", path, ErrNoLoader, ext)
	}
	events.Host.Load(path, ext)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: loader panicked: %v", path, r)
		}
	}()
	desc, err := loader(h, path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if desc == nil {
		return fmt.Errorf("%s: %w", path, ErrNilDescriptor)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	h.loaded[path] = struct{}{}
	h.register(desc, ext, path)
	return nil
}

// discover lists regular files in the lookup paths after resolving
// symlinks. Duplicates keep their first occurrence and the result is ordered
// by file name.
func (h *Host) discover() []string {
	seen := make(map[string]struct{})
	var files []string
	for _, dir := range h.cfg.LookupPaths {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			logging.Warn("app path is not a directory", zap.String("path", dir))
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			logging.Warn("cannot read app path", zap.String("path", dir), zap.Error(err))
			continue
		}
		for _, e := range entries {
			if h.ignored(e.Name()) {
				continue
			}
			resolved, err := derefSymlink(filepath.Join(dir, e.Name()))
			if err != nil {
				logging.Warn("cannot resolve app", zap.String("path", e.Name()), zap.Error(err))
				continue
			}
			fi, err := os.Stat(resolved)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			if _, dup := seen[resolved]; dup {
				continue
			}
			seen[resolved] = struct{}{}
			files = append(files, resolved)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files
}

func (h *Host) ignored(name string) bool {
	for _, g := range h.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// derefSymlink follows a symlink chain. Relative targets resolve against the
// link's directory.
func derefSymlink(path string) (string, error) {
	for i := 0; i <= maxSymlinkHops; i++ {
		fi, err := os.Lstat(path)
		if err != nil {
			return "", err
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			return filepath.Clean(path), nil
		}
		target, err := os.Readlink(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
	return "", fmt.Errorf("%s: %w", path, ErrSymlinkLoop)
}
