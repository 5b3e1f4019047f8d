package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fractured-if/engine/internal/domain/rules"
	"github.com/fractured-if/engine/internal/domain/story"
	"github.com/fractured-if/engine/internal/events"
	"github.com/fractured-if/engine/internal/platform/logger"
	"github.com/fractured-if/engine/internal/platform/metrics"
)

// RestartChoiceID is the reserved choice id that resets the session instead
// of transitioning: no effects, no meta update, no transition.
const RestartChoiceID = "restart"

// ErrChoiceUnavailable is returned when the requested choice is not among
// the current scene's eligible choices.
var ErrChoiceUnavailable = errors.New("choice unavailable in current scene")

// Persister stores the session and meta blobs. Session saves are
// best-effort and asynchronous; meta saves are synchronous at UpdateMeta
// time. Implementations treat malformed stored blobs as absent.
type Persister interface {
	SaveSession(s State) error
	SaveMeta(meta map[string]any) error
}

// metaEffect maps an out-of-band choice tag to a concrete mutation: reveal a
// hidden branch by setting its gating flag, and remember the reveal across
// sessions in meta-memory. The vocabulary is open; unknown tags are no-ops.
type metaEffect struct {
	FlagKey string
	MetaKey string
}

var metaEffects = map[string]metaEffect{
	"SEE_DOOR":             {FlagKey: "seen_door", MetaKey: "hasSeenDoor"},
	"REVEAL_TRANSCENDENCE": {FlagKey: "o5", MetaKey: "transcendenceRevealed"},
}

// RevealableFlags returns every flag key some meta-effect tag can set.
// Content linting uses it to find hidden choices nothing can ever reveal.
func RevealableFlags() map[string]bool {
	out := make(map[string]bool, len(metaEffects))
	for _, eff := range metaEffects {
		out[eff.FlagKey] = true
	}
	return out
}

// Session is the exclusive owner of one player's game state. All mutation
// goes through Dispatch or ResolveChoice; readers get snapshots. Commands
// are synchronous and never block on persistence.
type Session struct {
	mu      sync.Mutex
	id      string
	graph   *story.Graph
	state   State
	journal *events.Journal
	store   Persister
	logger  *logger.Logger

	// Auto-transition scheduling. The epoch increments on every scene
	// entry; a timer that fires with a stale epoch is inert, so the last
	// scene entered always wins.
	epoch     uint64
	timer     *time.Timer
	delayUnit time.Duration

	subs []chan State
}

// Option configures a Session at construction.
type Option func(*Session)

// WithDelayUnit overrides the real-time duration of one authored delay
// unit. Defaults to a millisecond; tests shrink it.
func WithDelayUnit(u time.Duration) Option {
	return func(s *Session) { s.delayUnit = u }
}

// WithMetaMemory seeds the session with previously persisted meta-memory.
func WithMetaMemory(meta map[string]any) Option {
	return func(s *Session) {
		for k, v := range meta {
			s.state.MetaMemory[k] = v
		}
	}
}

// NewSession creates a session and enters the graph's start scene. The
// store may be nil (persistence disabled, e.g. in tests).
func NewSession(id string, g *story.Graph, j *events.Journal, store Persister, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		id:        id,
		graph:     g,
		state:     initialState(),
		journal:   j,
		store:     store,
		logger:    log,
		delayUnit: time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.transitionLocked(g.StartID())
	s.mu.Unlock()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentScene returns the scene the session is in. Falls back to the start
// scene if the state somehow points at a missing id.
func (s *Session) CurrentScene() story.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSceneLocked()
}

// AvailableChoices returns the current scene's eligible choices in authored
// order.
func (s *Session) AvailableChoices() []story.Choice {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.currentSceneLocked()
	return rules.EligibleChoices(sc, s.state.Stats, s.state.Flags)
}

// Intensity returns the derived glitch signal for the current state.
func (s *Session) Intensity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.currentSceneLocked()
	return rules.GlitchIntensity(s.state.Stats, sc.GlitchIntensity)
}

// Subscribe returns a channel that receives a state snapshot after every
// committed change. A slow receiver drops snapshots rather than blocking
// the state machine.
func (s *Session) Subscribe() <-chan State {
	ch := make(chan State, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Dispatch applies a single command to the session.
func (s *Session) Dispatch(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(cmd)
}

// ResolveChoice runs the choice resolution sequence for a choice id in the
// current scene. Steps are committed under one lock hold: no reader can
// observe stats updated but the scene not yet transitioned.
func (s *Session) ResolveChoice(choiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.currentSceneLocked()
	var chosen *story.Choice
	for _, c := range rules.EligibleChoices(sc, s.state.Stats, s.state.Flags) {
		if c.ID == choiceID {
			chosen = &c
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("%w: %q in scene %q", ErrChoiceUnavailable, choiceID, sc.ID)
	}

	// The restart choice resets and stops: no effects, no transition.
	if chosen.ID == RestartChoiceID {
		s.applyLocked(Reset{})
		return nil
	}

	if chosen.Effects != nil {
		s.applyLocked(UpdateStats{Delta: *chosen.Effects})
	}
	if chosen.MetaEffect != "" {
		if eff, known := metaEffects[chosen.MetaEffect]; known {
			s.applyLocked(SetFlag{Key: eff.FlagKey, Value: true})
			s.applyLocked(UpdateMeta{Key: eff.MetaKey, Value: true})
		}
	}
	s.transitionLocked(chosen.NextSceneID)
	return nil
}

// Close cancels any pending auto-transition timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// --- internals (mu held) ---

func (s *Session) currentSceneLocked() story.Scene {
	sc, ok := s.graph.Lookup(s.state.CurrentSceneID)
	if !ok {
		return s.graph.Start()
	}
	return sc
}

func (s *Session) applyLocked(cmd Command) {
	metrics.Get().RecordCommand()

	switch c := cmd.(type) {
	case Transition:
		s.transitionLocked(c.SceneID)

	case UpdateStats:
		s.state, _ = Apply(s.graph, s.state, c)
		s.emitLocked(events.EventStatsChanged, s.state.Stats)
		s.saveSessionLocked()
		s.notifyLocked()

	case SetFlag:
		s.state, _ = Apply(s.graph, s.state, c)
		s.emitLocked(events.EventFlagSet, map[string]any{"key": c.Key, "value": c.Value})
		s.saveSessionLocked()
		s.notifyLocked()

	case UpdateMeta:
		s.state, _ = Apply(s.graph, s.state, c)
		// Meta-memory must survive resets; its save is synchronous,
		// last writer wins.
		if s.store != nil {
			if err := s.store.SaveMeta(s.state.MetaMemory); err != nil {
				s.logger.Error("meta save failed: " + err.Error())
				metrics.Get().RecordSaveError()
			}
		}
		s.emitLocked(events.EventMetaUpdated, map[string]any{"key": c.Key, "value": c.Value})
		s.saveSessionLocked()
		s.notifyLocked()

	case Reset:
		s.state, _ = Apply(s.graph, s.state, c)
		s.emitLocked(events.EventSessionReset, nil)
		// Re-enter the start scene; this also cancels any pending
		// auto-transition and schedules the start scene's own.
		s.transitionLocked(s.graph.StartID())

	case Load:
		s.state, _ = Apply(s.graph, s.state, c)
		s.emitLocked(events.EventSessionLoaded, map[string]any{"sceneId": s.state.CurrentSceneID})
		s.scheduleAutoLocked(s.currentSceneLocked())
		s.saveSessionLocked()
		s.notifyLocked()
	}
}

func (s *Session) transitionLocked(targetID string) {
	next, fellBack := Apply(s.graph, s.state, Transition{SceneID: targetID})
	if fellBack {
		// Broken content link, distinct from an intentional restart:
		// surface it instead of silently unifying the two.
		s.logger.Warn("content integrity: unknown scene id " + targetID + ", falling back to " + s.graph.StartID())
		s.emitLocked(events.EventContentWarning, map[string]any{"missingSceneId": targetID})
		metrics.Get().RecordFallback()
	}
	s.state = next
	metrics.Get().RecordTransition()

	sc := s.currentSceneLocked()
	s.emitLocked(events.EventSceneEntered, map[string]any{
		"sceneId":    sc.ID,
		"glitchMode": s.state.GlitchMode,
		"intensity":  rules.GlitchIntensity(s.state.Stats, sc.GlitchIntensity),
	})
	s.logger.Event(string(events.EventSceneEntered), s.id, "scene="+sc.ID)

	s.scheduleAutoLocked(sc)
	s.saveSessionLocked()
	s.notifyLocked()
}

func (s *Session) scheduleAutoLocked(sc story.Scene) {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		metrics.Get().RecordAutoCanceled()
	}
	at := sc.AutoTransition
	if at == nil {
		return
	}

	epoch := s.epoch
	target := at.NextSceneID
	s.timer = time.AfterFunc(time.Duration(at.DelayMS)*s.delayUnit, func() {
		s.autoFire(epoch, target)
	})
}

func (s *Session) autoFire(epoch uint64, targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		// A later scene entry won; this timer is stale.
		return
	}
	s.timer = nil
	metrics.Get().RecordAutoFired()
	s.transitionLocked(targetID)
}

func (s *Session) emitLocked(t events.EventType, payload any) {
	if s.journal == nil {
		return
	}
	s.journal.Append(events.Event{
		ID:        events.NewEventID(),
		Timestamp: time.Now(),
		Type:      t,
		SessionID: s.id,
		Payload:   payload,
	})
}

// saveSessionLocked snapshots the state and hands it to the persister on a
// separate goroutine. The state machine never awaits durability.
func (s *Session) saveSessionLocked() {
	if s.store == nil {
		return
	}
	snap := s.state.Clone()
	go func() {
		if err := s.store.SaveSession(snap); err != nil {
			s.logger.Error("session save failed: " + err.Error())
			metrics.Get().RecordSaveError()
			return
		}
		metrics.Get().RecordSave()
	}()
}

func (s *Session) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.state.Clone()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
