package lifecycle

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/peagarden/peaengine/internal/domain"
)

var errBoom = errors.New("boom")

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type memGateway struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failSet bool
	sets    int
}

func newMemGateway(pairs map[string]string) *memGateway {
	data := make(map[string]string, len(pairs))
	for k, v := range pairs {
		data[k] = v
	}
	return &memGateway{data: data}
}

func (g *memGateway) MultiGet(_ context.Context, keys []string) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failGet {
		return nil, errBoom
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := g.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (g *memGateway) MultiSet(_ context.Context, pairs map[string]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSet {
		return errBoom
	}
	g.sets++
	for k, v := range pairs {
		g.data[k] = v
	}
	return nil
}

func (g *memGateway) GetItem(_ context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failGet {
		return "", false, errBoom
	}
	v, ok := g.data[key]
	return v, ok, nil
}

func (g *memGateway) SetItem(_ context.Context, key, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSet {
		return errBoom
	}
	g.sets++
	g.data[key] = value
	return nil
}

func (g *memGateway) get(key string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.data[key]
	return v, ok
}

func (g *memGateway) setCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sets
}

func (g *memGateway) setFailures(get, set bool) {
	g.mu.Lock()
	g.failGet, g.failSet = get, set
	g.mu.Unlock()
}

type memJournal struct {
	mu     sync.Mutex
	visits []domain.Visit
	ended  map[string]int64
	events []domain.LifecycleEvent
}

func (j *memJournal) StartVisit(_ context.Context, v domain.Visit) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.visits = append(j.visits, v)
	return nil
}

func (j *memJournal) EndVisit(_ context.Context, visitID string, endedAt int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ended == nil {
		j.ended = make(map[string]int64)
	}
	j.ended[visitID] = endedAt
	return nil
}

func (j *memJournal) Record(_ context.Context, ev domain.LifecycleEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
	return nil
}

func (j *memJournal) eventTypes() []domain.EventType {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.EventType, 0, len(j.events))
	for _, ev := range j.events {
		out = append(out, ev.EventType)
	}
	return out
}

// storedPea returns gateway contents for a pea last seen at lastVisit.
func storedPea(water, sun, soil, fun, energy float64, lastVisit time.Time) map[string]string {
	return map[string]string{
		domain.KeyWater:     formatStat(water),
		domain.KeySun:       formatStat(sun),
		domain.KeySoil:      formatStat(soil),
		domain.KeyFun:       formatStat(fun),
		domain.KeyEnergy:    formatStat(energy),
		domain.KeyLastVisit: strconv.FormatInt(lastVisit.UnixMilli(), 10),
	}
}

func newTestEngine(t *testing.T, gw Gateway, clock Clock, opts ...func(*Config)) *Engine {
	t.Helper()
	cfg := Config{Clock: clock}
	for _, opt := range opts {
		opt(&cfg)
	}
	e := New(gw, cfg)
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return e
}

// resumed builds an engine over stored state and resumes it.
func resumed(t *testing.T, pairs map[string]string) (*Engine, *memGateway, *FakeClock) {
	t.Helper()
	gw := newMemGateway(pairs)
	clock := NewFakeClock(epoch)
	e := newTestEngine(t, gw, clock)
	e.Resume(context.Background())
	return e, gw, clock
}

func statValue(t *testing.T, gw *memGateway, key string) float64 {
	t.Helper()
	raw, ok := gw.get(key)
	if !ok {
		t.Fatalf("key %s not stored", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("key %s: %v", key, err)
	}
	return v
}
