package application_test

import (
	"context"
	"sync"
	"time"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// mockLabeler implements driven.ImageLabeler with canned results.
type mockLabeler struct {
	mu     sync.Mutex
	labels []model.Label
	err    error
	calls  int
	images [][]byte
	closed bool
}

func (m *mockLabeler) DetectLabels(_ context.Context, image []byte) ([]model.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.images = append(m.images, image)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Label, len(m.labels))
	copy(out, m.labels)
	return out, nil
}

func (m *mockLabeler) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockLabeler) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// cacheEntry is a stored mockLabelCache value.
type cacheEntry struct {
	labels   []model.Label
	storedAt time.Time
}

// mockLabelCache implements driven.LabelCache in memory.
type mockLabelCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	getErr  error
	putErr  error
	puts    int
}

func newMockLabelCache(now func() time.Time) *mockLabelCache {
	return &mockLabelCache{entries: map[string]cacheEntry{}, now: now}
}

func (m *mockLabelCache) Get(_ context.Context, digest string, notBefore time.Time) ([]model.Label, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	e, ok := m.entries[digest]
	if !ok || e.storedAt.Before(notBefore) {
		return nil, false, nil
	}
	return e.labels, true, nil
}

func (m *mockLabelCache) Put(_ context.Context, digest string, labels []model.Label) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[digest] = cacheEntry{labels: labels, storedAt: m.now()}
	return nil
}

func (m *mockLabelCache) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for k, e := range m.entries {
		if e.storedAt.Before(cutoff) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}
