package events

import "github.com/atomicstack/custom-menu/internal/logging"

type TimerTracer struct{}

var Timer = TimerTracer{}

func (TimerTracer) Panic(id uint32, recovered interface{}) {
	logging.Trace("timer.panic", map[string]interface{}{"id": id, "recovered": recovered})
}

// Cancel records a cancellation; self is set when a callback cancels its own
// timer.
func (TimerTracer) Cancel(id uint32, self bool) {
	logging.Trace("timer.cancel", map[string]interface{}{"id": id, "self": self})
}
