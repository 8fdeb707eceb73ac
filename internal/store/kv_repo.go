package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// KVRepo handles persistence for the flat key/value mirror of engine state.
type KVRepo struct{}

// MultiGet returns the stored values for keys. Keys with no row are absent
// from the result.
func (r *KVRepo) MultiGet(ctx context.Context, db *sql.DB, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	q := `SELECT key, value FROM pea_kv WHERE key IN (?` + strings.Repeat(", ?", len(keys)-1) + `)`
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("multi get: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan kv: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// MultiSetTx upserts every pair within an existing transaction.
// Keys are written in sorted order so concurrent batches never deadlock.
func (r *KVRepo) MultiSetTx(ctx context.Context, tx *sql.Tx, pairs map[string]string, updatedAt int64) error {
	const q = `INSERT INTO pea_kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, q, k, pairs[k], updatedAt); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// Get retrieves a single value. The bool is false when the key has no row.
func (r *KVRepo) Get(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	const q = `SELECT value FROM pea_kv WHERE key = ?`

	var v string
	err := db.QueryRowContext(ctx, q, key).Scan(&v)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}
