package events

import "github.com/atomicstack/custom-menu/internal/logging"

type ScriptTracer struct{}

var Script = ScriptTracer{}

func (ScriptTracer) Start(path string, args []string) {
	logging.Trace("script.start", map[string]interface{}{"path": path, "args": args})
}

func (ScriptTracer) Exit(path string, code int, lines int) {
	logging.Trace("script.exit", map[string]interface{}{"path": path, "code": code, "lines": lines})
}

func (ScriptTracer) Timeout(path string) {
	logging.Trace("script.timeout", map[string]interface{}{"path": path})
}

func (ScriptTracer) Kill(path string) {
	logging.Trace("script.kill", map[string]interface{}{"path": path})
}
