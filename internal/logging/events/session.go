package events

import "github.com/atomicstack/custom-menu/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Push(depth int) {
	logging.Trace("session.push", map[string]interface{}{"depth": depth})
}

func (SessionTracer) Replace(depth int) {
	logging.Trace("session.replace", map[string]interface{}{"depth": depth})
}

func (SessionTracer) Pop(depth int) {
	logging.Trace("session.pop", map[string]interface{}{"depth": depth})
}

func (SessionTracer) Empty() {
	logging.Trace("session.empty", nil)
}

func (SessionTracer) TickRate(previous, next int) {
	logging.Trace("session.tickrate", map[string]interface{}{"previous": previous, "next": next})
}
