package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
	"github.com/ericfisherdev/imagelabels/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LabelCache = (*LabelCacheRepo)(nil)

// LabelCacheRepo is the SQLite implementation of the LabelCache port interface.
// Labels are stored as a JSON array; created_at is Unix milliseconds.
type LabelCacheRepo struct {
	db  *DB
	now func() time.Time
}

// NewLabelCacheRepo creates a new LabelCacheRepo.
func NewLabelCacheRepo(db *DB) *LabelCacheRepo {
	return &LabelCacheRepo{db: db, now: time.Now}
}

// storedLabel is the JSON form of a cached label.
type storedLabel struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Get returns the labels stored for digest at or after notBefore.
// Returns (nil, false, nil) on a miss.
func (r *LabelCacheRepo) Get(ctx context.Context, digest string, notBefore time.Time) ([]model.Label, bool, error) {
	const query = `SELECT labels FROM label_cache WHERE digest = ? AND created_at >= ?`

	var encoded string
	err := r.db.Reader.QueryRowContext(ctx, query, digest, notBefore.UnixMilli()).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached labels %q: %w", digest, err)
	}

	var stored []storedLabel
	if err := json.Unmarshal([]byte(encoded), &stored); err != nil {
		return nil, false, fmt.Errorf("decode cached labels %q: %w", digest, err)
	}

	labels := make([]model.Label, 0, len(stored))
	for _, s := range stored {
		labels = append(labels, model.Label{Name: s.Name, Score: s.Score})
	}
	return labels, true, nil
}

// Put stores or replaces the labels for digest, stamping them with the current time.
func (r *LabelCacheRepo) Put(ctx context.Context, digest string, labels []model.Label) error {
	stored := make([]storedLabel, 0, len(labels))
	for _, l := range labels {
		stored = append(stored, storedLabel{Name: l.Name, Score: l.Score})
	}

	encoded, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode labels %q: %w", digest, err)
	}

	const query = `INSERT OR REPLACE INTO label_cache (digest, labels, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, digest, string(encoded), r.now().UnixMilli()); err != nil {
		return fmt.Errorf("put cached labels %q: %w", digest, err)
	}
	return nil
}

// DeleteOlderThan removes entries stored before cutoff.
func (r *LabelCacheRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM label_cache WHERE created_at < ?`

	res, err := r.db.Writer.ExecContext(ctx, query, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete expired labels: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired labels: %w", err)
	}
	return n, nil
}
