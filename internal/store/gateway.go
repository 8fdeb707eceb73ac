package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/peagarden/peaengine/internal/domain"
)

// Gateway is the SQLite-backed key/value mirror of engine state.
type Gateway struct {
	DB     *sql.DB
	KVRepo *KVRepo
}

// NewGateway creates a Gateway over an open database.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{DB: db, KVRepo: &KVRepo{}}
}

// MultiGet loads several keys at once.
func (g *Gateway) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	vals, err := g.KVRepo.MultiGet(ctx, g.DB, keys)
	if err != nil {
		return nil, domain.WrapEngineError(domain.ErrStoreQuery.Code, domain.ErrStoreQuery.Message, err)
	}
	return vals, nil
}

// MultiSet writes all pairs in one transaction.
func (g *Gateway) MultiSet(ctx context.Context, pairs map[string]string) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := g.KVRepo.MultiSetTx(ctx, tx, pairs, time.Now().UnixMilli()); err != nil {
		return domain.WrapEngineError(domain.ErrStoreWrite.Code, domain.ErrStoreWrite.Message, err)
	}
	return tx.Commit()
}

// GetItem loads one key.
func (g *Gateway) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := g.KVRepo.Get(ctx, g.DB, key)
	if err != nil {
		return "", false, domain.WrapEngineError(domain.ErrStoreQuery.Code, domain.ErrStoreQuery.Message, err)
	}
	return v, ok, nil
}

// SetItem writes one key.
func (g *Gateway) SetItem(ctx context.Context, key, value string) error {
	return g.MultiSet(ctx, map[string]string{key: value})
}
