package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// LabelCache defines the driven port for caching labeling results by image digest.
type LabelCache interface {
	// Get returns the labels stored for digest if they were stored after
	// notBefore. The boolean is false on a miss.
	Get(ctx context.Context, digest string, notBefore time.Time) ([]model.Label, bool, error)

	// Put stores or replaces the labels for digest.
	Put(ctx context.Context, digest string, labels []model.Label) error

	// DeleteOlderThan removes entries stored before cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
