package events

import "github.com/atomicstack/custom-menu/internal/logging"

type HostTracer struct{}

var Host = HostTracer{}

func (HostTracer) Load(path, loader string) {
	logging.Trace("host.load", map[string]interface{}{"path": path, "loader": loader})
}

func (HostTracer) Skip(path, reason string) {
	logging.Trace("host.skip", map[string]interface{}{"path": path, "reason": reason})
}

func (HostTracer) Register(index int, name string, interactive bool) {
	logging.Trace("host.register", map[string]interface{}{"index": index, "name": name, "interactive": interactive})
}

func (HostTracer) Activate(from, to int) {
	logging.Trace("host.activate", map[string]interface{}{"from": from, "to": to})
}

func (HostTracer) Enabled(enabled bool) {
	logging.Trace("host.enabled", map[string]interface{}{"enabled": enabled})
}

func (HostTracer) FatalError(message string, unload bool, app string) {
	logging.Trace("host.fatal", map[string]interface{}{"message": message, "unload": unload, "app": app})
}

func (HostTracer) Evict(index int, name string) {
	logging.Trace("host.evict", map[string]interface{}{"index": index, "name": name})
}

func (HostTracer) Button(button string, consumed bool) {
	logging.Trace("host.button", map[string]interface{}{"button": button, "consumed": consumed})
}

func (HostTracer) ScreenMode(width, height int) {
	logging.Trace("host.screen", map[string]interface{}{"width": width, "height": height})
}
