package driven

import (
	"context"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// ImageLabeler defines the driven port for the external image labeling service.
type ImageLabeler interface {
	// DetectLabels submits the raw image bytes and returns every label the
	// service produced, unfiltered and in service order. Failures of the
	// service are wrapped with model.ErrUpstream.
	DetectLabels(ctx context.Context, image []byte) ([]model.Label, error)

	// Close releases the underlying connection.
	Close() error
}
