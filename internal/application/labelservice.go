package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
	"github.com/ericfisherdev/imagelabels/internal/domain/port/driven"
)

// LabelService labels uploaded images through the external labeling service
// and shapes the result for the API.
type LabelService struct {
	provider *LabelerProvider
	cache    driven.LabelCache
	cacheTTL time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// LabelServiceOption configures optional LabelService behavior.
type LabelServiceOption func(*LabelService)

// WithLabelCache enables result caching. Entries older than ttl are ignored.
func WithLabelCache(cache driven.LabelCache, ttl time.Duration) LabelServiceOption {
	return func(s *LabelService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithCallTimeout bounds each call to the labeling service. Zero means no
// bound beyond the request context.
func WithCallTimeout(timeout time.Duration) LabelServiceOption {
	return func(s *LabelService) {
		s.timeout = timeout
	}
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) LabelServiceOption {
	return func(s *LabelService) {
		s.now = now
	}
}

// NewLabelService creates a LabelService backed by the given provider.
func NewLabelService(provider *LabelerProvider, logger *slog.Logger, opts ...LabelServiceOption) *LabelService {
	s := &LabelService{
		provider: provider,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready obtains the labeler without sending anything, so handlers can fail
// with a configuration error before reading the upload.
func (s *LabelService) Ready(ctx context.Context) error {
	_, err := s.provider.Get(ctx)
	return err
}

// Label returns the top labels for image: scores of at least MinLabelScore,
// highest first, at most MaxLabels.
//
// The labeler is obtained before anything else, so a configuration error is
// returned even when the image is cached. Errors wrap model.ErrMissingImage,
// model.ErrConfiguration, or model.ErrUpstream.
func (s *LabelService) Label(ctx context.Context, image []byte) ([]model.Label, error) {
	labeler, err := s.provider.Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(image) == 0 {
		return nil, model.ErrMissingImage
	}

	digest := imageDigest(image)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, digest, s.now().Add(-s.cacheTTL))
		if err != nil {
			s.logger.Warn("label cache lookup failed", "digest", digest, "error", err)
		} else if ok {
			s.logger.Debug("label cache hit", "digest", digest)
			return RankLabels(cached, MinLabelScore, MaxLabels), nil
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	labels, err := labeler.DetectLabels(callCtx, image)
	if err != nil {
		return nil, fmt.Errorf("detect labels (%d bytes): %w", len(image), err)
	}
	s.logger.Info("labels detected",
		"digest", digest,
		"bytes", len(image),
		"annotations", len(labels),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if s.cache != nil {
		if err := s.cache.Put(ctx, digest, labels); err != nil {
			s.logger.Warn("label cache store failed", "digest", digest, "error", err)
		}
	}

	return RankLabels(labels, MinLabelScore, MaxLabels), nil
}

// imageDigest returns the hex SHA-256 of the image bytes.
func imageDigest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
