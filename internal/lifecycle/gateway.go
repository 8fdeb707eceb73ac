package lifecycle

import (
	"context"

	"github.com/peagarden/peaengine/internal/domain"
)

// Gateway is the key/value mirror the engine loads from once and writes to.
// It has no authority of its own: in-memory state always wins.
type Gateway interface {
	MultiGet(ctx context.Context, keys []string) (map[string]string, error)
	MultiSet(ctx context.Context, pairs map[string]string) error
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

// Journal receives the visit history and lifecycle events. Optional.
type Journal interface {
	StartVisit(ctx context.Context, v domain.Visit) error
	EndVisit(ctx context.Context, visitID string, endedAt int64) error
	Record(ctx context.Context, ev domain.LifecycleEvent) error
}
