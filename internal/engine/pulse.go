package engine

import (
	"context"
	"time"

	"github.com/fractured-if/engine/internal/events"
	"github.com/fractured-if/engine/internal/platform/logger"
	"github.com/fractured-if/engine/internal/platform/metrics"
)

// DefaultPulseInterval is how often the derived signal is recomputed for
// presentation when no interval is configured.
const DefaultPulseInterval = 2 * time.Second

// PulsePayload is the data attached to each SIGNAL_PULSE event.
type PulsePayload struct {
	SceneID     string  `json:"scene_id"`
	Intensity   float64 `json:"intensity"`
	GlitchMode  bool    `json:"glitch_mode"`
	PulseNumber int64   `json:"pulse_number"`
}

// Pulse periodically recomputes the glitch intensity and publishes it to the
// journal. It is a read-only consumer of the session: it never mutates state.
type Pulse struct {
	session  *Session
	journal  *events.Journal
	logger   *logger.Logger
	interval time.Duration
	count    int64
}

// NewPulse creates a pulse emitter. A zero interval selects the default.
func NewPulse(sess *Session, j *events.Journal, log *logger.Logger, interval time.Duration) *Pulse {
	if interval <= 0 {
		interval = DefaultPulseInterval
	}
	return &Pulse{session: sess, journal: j, logger: log, interval: interval}
}

// Start begins the pulse loop. Call in a goroutine; cancel the context to
// stop.
func (p *Pulse) Start(ctx context.Context) {
	p.logger.Info("Signal pulse started.")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Signal pulse stopped.")
			return
		case <-ticker.C:
			p.pulse()
		}
	}
}

func (p *Pulse) pulse() {
	p.count++

	state := p.session.State()
	payload := PulsePayload{
		SceneID:     state.CurrentSceneID,
		Intensity:   p.session.Intensity(),
		GlitchMode:  state.GlitchMode,
		PulseNumber: p.count,
	}

	p.journal.Append(events.Event{
		ID:        events.NewEventID(),
		Timestamp: time.Now(),
		Type:      events.EventSignalPulse,
		SessionID: p.session.ID(),
		Payload:   payload,
	})
	metrics.Get().RecordPulse()
}
