// Package lifecycle is the pea's simulation engine. It owns the only copy of
// the pea's state, serializes every mutation behind one lock, and mirrors the
// result to a Gateway through a write-behind queue.
package lifecycle

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/minigame"
	"github.com/peagarden/peaengine/internal/stats"
)

// Config tunes the engine's timers. Zero values take the defaults.
type Config struct {
	DecayInterval     time.Duration
	CountdownInterval time.Duration
	SaveTimeout       time.Duration
	Clock             Clock
	Journal           Journal
}

const (
	DefaultDecayInterval     = 5 * time.Second
	DefaultCountdownInterval = time.Second
	DefaultSaveTimeout       = 3 * time.Second
)

func (c *Config) applyDefaults() {
	if c.DecayInterval <= 0 {
		c.DecayInterval = DefaultDecayInterval
	}
	if c.CountdownInterval <= 0 {
		c.CountdownInterval = DefaultCountdownInterval
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = DefaultSaveTimeout
	}
	if c.Clock == nil {
		c.Clock = RealClock{}
	}
}

// savedState is what was last handed to the writer.
type savedState struct {
	stats domain.Stats
	coins int
}

// Engine is the façade the presentation layer talks to.
type Engine struct {
	gw      Gateway
	journal Journal
	clock   Clock
	cfg     Config
	writer  *writer

	mu          sync.Mutex
	stats       domain.Stats
	mood        domain.MoodState
	sleep       domain.SleepState
	economy     domain.Economy
	message     string
	gameOpen    bool
	activeGame  minigame.Kind
	gameGen     uint64
	wasLongAway bool

	loaded  bool
	started bool
	closed  bool
	saved   savedState

	visitID string
	seq     int64

	decay     *Task
	countdown *Task

	subs    map[int]chan domain.Snapshot
	nextSub int

	hsMu sync.Mutex
}

// New builds an engine seeded with the initial stats. Call Resume to load the
// persisted pea and Start to arm the timers, or use Open for both.
func New(gw Gateway, cfg Config) *Engine {
	cfg.applyDefaults()
	s := stats.Initial()
	return &Engine{
		gw:      gw,
		journal: cfg.Journal,
		clock:   cfg.Clock,
		cfg:     cfg,
		writer:  newWriter(gw, cfg.SaveTimeout),
		stats:   s,
		mood:    domain.Derived(stats.MoodOf(s)),
		sleep:   domain.SleepState{Reason: domain.SleepNone},
		subs:    make(map[int]chan domain.Snapshot),
	}
}

// Open builds, resumes and starts an engine.
func Open(ctx context.Context, gw Gateway, cfg Config) (*Engine, error) {
	if gw == nil {
		return nil, domain.NewEngineError(domain.ErrStoreInit.Code, "gateway is required")
	}
	e := New(gw, cfg)
	e.Resume(ctx)
	e.Start()
	return e, nil
}

// Start arms the decay timer and, while sleeping, the countdown timer.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.closed {
		return
	}
	e.started = true
	e.decay = Every(e.cfg.DecayInterval, e.DecayTick)
	e.syncTimers()
}

// Close stops the timers, ends the visit and drains pending writes.
// Callbacks that fire after Close are no-ops.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.decay.Stop()
	e.countdown.Stop()
	e.decay, e.countdown = nil, nil
	if e.journal != nil && e.visitID != "" {
		visitID, endedAt := e.visitID, e.clock.Now().UnixMilli()
		e.writer.enqueueJob("end visit", func(ctx context.Context) error {
			return e.journal.EndVisit(ctx, visitID, endedAt)
		})
	}
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
	e.mu.Unlock()
	return e.writer.close(ctx)
}

// Flush waits until every write queued so far has been attempted.
func (e *Engine) Flush(ctx context.Context) error {
	return e.writer.flush(ctx)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe returns a channel that always holds the newest snapshot. Slow
// readers skip intermediate states. The cancel func is idempotent.
func (e *Engine) Subscribe() (<-chan domain.Snapshot, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan domain.Snapshot, 1)
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	ch <- e.snapshotLocked()
	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

// RecomputeMood re-derives mood from the stats and clears the message.
func (e *Engine) RecomputeMood() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.recompute()
	e.commit()
}

func (e *Engine) recompute() {
	e.mood = domain.Derived(stats.MoodOf(e.stats))
	e.message = ""
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	now := e.clock.Now()
	snap := domain.Snapshot{
		Stats:       e.stats,
		Mood:        e.mood,
		Sleep:       e.sleep,
		Economy:     e.economy,
		Message:     e.message,
		GameOpen:    e.gameOpen,
		ActiveGame:  string(e.activeGame),
		WasLongAway: e.wasLongAway,
		Loaded:      e.loaded,
	}
	if e.sleep.StartTime != nil {
		t := *e.sleep.StartTime
		snap.Sleep.StartTime = &t
	}
	snap.SleepRemaining = Remaining(e.sleep, now)
	snap.CountdownSeconds = int(math.Ceil(snap.SleepRemaining.Seconds()))
	switch {
	case e.message != "":
		snap.Status = e.message
	case e.sleep.Sleeping && e.sleep.Reason == domain.SleepLongAway:
		snap.Status = msgLongAwayIdle
	default:
		snap.Status = stats.Hint(e.mood.Value)
	}
	return snap
}

// commit runs after every mutation: persist what changed, re-arm timers whose
// condition flipped, and publish the new snapshot.
func (e *Engine) commit() {
	e.persist()
	e.syncTimers()
	e.publish()
}

func (e *Engine) persist() {
	if !e.loaded {
		return
	}
	if e.stats != e.saved.stats {
		e.writer.enqueue(statPairs(e.stats, e.clock.Now()))
		e.saved.stats = e.stats
	}
	if e.economy.Coins != e.saved.coins {
		e.writer.enqueue(map[string]string{domain.KeyCoins: strconv.Itoa(e.economy.Coins)})
		e.saved.coins = e.economy.Coins
	}
}

func (e *Engine) syncTimers() {
	if !e.started || e.closed {
		return
	}
	switch {
	case e.sleep.Sleeping && e.countdown == nil:
		e.countdown = Every(e.cfg.CountdownInterval, e.SleepTick)
	case !e.sleep.Sleeping && e.countdown != nil:
		e.countdown.Stop()
		e.countdown = nil
	}
}

func (e *Engine) publish() {
	if len(e.subs) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, ch := range e.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// record queues a journal entry for the current visit.
func (e *Engine) record(typ domain.EventType, payload map[string]any) {
	if e.journal == nil || e.visitID == "" {
		return
	}
	e.seq++
	body := "{}"
	if len(payload) > 0 {
		if b, err := json.Marshal(payload); err == nil {
			body = string(b)
		}
	}
	ev := domain.LifecycleEvent{
		VisitID:     e.visitID,
		SeqNo:       e.seq,
		EventType:   typ,
		Mood:        e.mood.Value,
		PayloadJSON: body,
		CreatedAt:   e.clock.Now().UnixMilli(),
	}
	e.writer.enqueueJob("record event", func(ctx context.Context) error {
		return e.journal.Record(ctx, ev)
	})
}

func (e *Engine) beginVisit(now time.Time, absence float64, penalty bool) {
	if e.journal == nil {
		return
	}
	v := domain.Visit{
		VisitID:        uuid.NewString(),
		StartedAt:      now.UnixMilli(),
		AbsenceMinutes: absence,
		PenaltyApplied: penalty,
	}
	e.visitID = v.VisitID
	e.writer.enqueueJob("start visit", func(ctx context.Context) error {
		return e.journal.StartVisit(ctx, v)
	})
}

func statPairs(s domain.Stats, now time.Time) map[string]string {
	return map[string]string{
		domain.KeyWater:     formatStat(s.Water),
		domain.KeySun:       formatStat(s.Sun),
		domain.KeySoil:      formatStat(s.Soil),
		domain.KeyFun:       formatStat(s.Fun),
		domain.KeyEnergy:    formatStat(s.Energy),
		domain.KeyLastVisit: strconv.FormatInt(now.UnixMilli(), 10),
	}
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
