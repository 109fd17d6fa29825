// Package sharedobject loads apps built with -buildmode=plugin. A plugin
// exports RegisterApp, either as a function or as a variable holding one.
package sharedobject

import (
	"errors"
	"fmt"
	"plugin"

	"github.com/atomicstack/custom-menu/internal/api"
)

// Extension is the file extension handled by Load.
const Extension = ".so"

// ErrRegisterSymbol means the plugin does not export a usable RegisterApp.
var ErrRegisterSymbol = errors.New("missing or mistyped " + api.RegisterSymbol + " symbol")

// Load opens the plugin at path and calls its registration function.
func Load(s api.Surface, path string) (*api.Descriptor, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}
	sym, err := p.Lookup(api.RegisterSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegisterSymbol, err)
	}
	register, err := registerFunc(sym)
	if err != nil {
		return nil, err
	}
	return register(s)
}

func registerFunc(sym plugin.Symbol) (api.RegisterFunc, error) {
	switch fn := sym.(type) {
	case func(api.Surface) (*api.Descriptor, error):
		return fn, nil
	case *api.RegisterFunc:
		if fn != nil && *fn != nil {
			return *fn, nil
		}
	}
	return nil, fmt.Errorf("%w: got %T", ErrRegisterSymbol, sym)
}
