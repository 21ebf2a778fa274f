package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
	"github.com/ericfisherdev/imagelabels/internal/domain/port/driven"
)

// LabelerFactory builds an ImageLabeler. It must not contact the labeling
// service; a returned error means no labeler exists and nothing was sent.
type LabelerFactory func(ctx context.Context) (driven.ImageLabeler, error)

// LabelerProvider holds the process-wide ImageLabeler. The labeler is built
// on first use by the factory and reused for every later request. A failed
// build is not remembered, so the next request retries it; the factory reads
// configuration captured at startup, so configuration changes still require
// a restart.
type LabelerProvider struct {
	mu      sync.RWMutex
	labeler driven.ImageLabeler
	factory LabelerFactory
}

// NewLabelerProvider creates a provider with an optional prebuilt labeler and
// the factory used to build one when it is nil.
func NewLabelerProvider(labeler driven.ImageLabeler, factory LabelerFactory) *LabelerProvider {
	return &LabelerProvider{
		labeler: labeler,
		factory: factory,
	}
}

// Get returns the current labeler, building it on first use. Errors from the
// factory are returned unchanged and wrap model.ErrConfiguration.
func (p *LabelerProvider) Get(ctx context.Context) (driven.ImageLabeler, error) {
	p.mu.RLock()
	labeler := p.labeler
	p.mu.RUnlock()
	if labeler != nil {
		return labeler, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.labeler != nil {
		return p.labeler, nil
	}
	if p.factory == nil {
		return nil, fmt.Errorf("%w: no labeler factory", model.ErrConfiguration)
	}

	labeler, err := p.factory(ctx)
	if err != nil {
		return nil, err
	}
	p.labeler = labeler
	return labeler, nil
}

// Replace swaps the current labeler. The previous labeler is returned so the
// caller can close it.
func (p *LabelerProvider) Replace(labeler driven.ImageLabeler) driven.ImageLabeler {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.labeler
	p.labeler = labeler
	return prev
}

// HasLabeler returns true if a labeler has been built or supplied.
func (p *LabelerProvider) HasLabeler() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.labeler != nil
}

// Close closes the current labeler, if any. Later calls to Get build a new one.
func (p *LabelerProvider) Close() error {
	prev := p.Replace(nil)
	if prev == nil {
		return nil
	}
	return prev.Close()
}
