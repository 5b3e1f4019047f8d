// Package metrics provides observability for the narrative engine.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers engine counters.
type Collector struct {
	// State machine
	CommandsTotal     int64
	TransitionsTotal  int64
	FallbacksTotal    int64
	AutoFiredTotal    int64
	AutoCanceledTotal int64
	PulsesTotal       int64

	// Persistence
	SavesTotal      int64
	SaveErrorsTotal int64

	// WebSocket
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance.
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordCommand records a dispatched command.
func (c *Collector) RecordCommand() {
	atomic.AddInt64(&c.CommandsTotal, 1)
}

// RecordTransition records a committed scene transition.
func (c *Collector) RecordTransition() {
	atomic.AddInt64(&c.TransitionsTotal, 1)
}

// RecordFallback records a transition that fell back to the start scene
// because its target was missing from the graph.
func (c *Collector) RecordFallback() {
	atomic.AddInt64(&c.FallbacksTotal, 1)
}

// RecordAutoFired records an auto-transition timer that fired.
func (c *Collector) RecordAutoFired() {
	atomic.AddInt64(&c.AutoFiredTotal, 1)
}

// RecordAutoCanceled records an auto-transition timer canceled by a newer
// scene entry.
func (c *Collector) RecordAutoCanceled() {
	atomic.AddInt64(&c.AutoCanceledTotal, 1)
}

// RecordPulse records a signal pulse emission.
func (c *Collector) RecordPulse() {
	atomic.AddInt64(&c.PulsesTotal, 1)
}

// RecordSave records a successful persistence write.
func (c *Collector) RecordSave() {
	atomic.AddInt64(&c.SavesTotal, 1)
}

// RecordSaveError records a failed persistence write.
func (c *Collector) RecordSaveError() {
	atomic.AddInt64(&c.SaveErrorsTotal, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"engine": map[string]interface{}{
			"commands":      atomic.LoadInt64(&c.CommandsTotal),
			"transitions":   atomic.LoadInt64(&c.TransitionsTotal),
			"fallbacks":     atomic.LoadInt64(&c.FallbacksTotal),
			"auto_fired":    atomic.LoadInt64(&c.AutoFiredTotal),
			"auto_canceled": atomic.LoadInt64(&c.AutoCanceledTotal),
			"pulses":        atomic.LoadInt64(&c.PulsesTotal),
		},

		"persistence": map[string]interface{}{
			"saves":  atomic.LoadInt64(&c.SavesTotal),
			"errors": atomic.LoadInt64(&c.SaveErrorsTotal),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP fractured_commands_total Total commands dispatched\n")
		fmt.Fprintf(w, "# TYPE fractured_commands_total counter\n")
		fmt.Fprintf(w, "fractured_commands_total %d\n\n", atomic.LoadInt64(&c.CommandsTotal))

		fmt.Fprintf(w, "# HELP fractured_transitions_total Total scene transitions\n")
		fmt.Fprintf(w, "# TYPE fractured_transitions_total counter\n")
		fmt.Fprintf(w, "fractured_transitions_total %d\n\n", atomic.LoadInt64(&c.TransitionsTotal))

		fmt.Fprintf(w, "# HELP fractured_fallbacks_total Transitions degraded to the start scene\n")
		fmt.Fprintf(w, "# TYPE fractured_fallbacks_total counter\n")
		fmt.Fprintf(w, "fractured_fallbacks_total %d\n\n", atomic.LoadInt64(&c.FallbacksTotal))

		fmt.Fprintf(w, "# HELP fractured_auto_transitions_total Auto-transition timers fired\n")
		fmt.Fprintf(w, "# TYPE fractured_auto_transitions_total counter\n")
		fmt.Fprintf(w, "fractured_auto_transitions_total{result=\"fired\"} %d\n", atomic.LoadInt64(&c.AutoFiredTotal))
		fmt.Fprintf(w, "fractured_auto_transitions_total{result=\"canceled\"} %d\n\n", atomic.LoadInt64(&c.AutoCanceledTotal))

		fmt.Fprintf(w, "# HELP fractured_saves_total Persistence writes\n")
		fmt.Fprintf(w, "# TYPE fractured_saves_total counter\n")
		fmt.Fprintf(w, "fractured_saves_total %d\n", atomic.LoadInt64(&c.SavesTotal))
		fmt.Fprintf(w, "fractured_save_errors_total %d\n\n", atomic.LoadInt64(&c.SaveErrorsTotal))

		fmt.Fprintf(w, "# HELP fractured_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE fractured_ws_connections gauge\n")
		fmt.Fprintf(w, "fractured_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP fractured_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE fractured_ws_messages_total counter\n")
		fmt.Fprintf(w, "fractured_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "fractured_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
