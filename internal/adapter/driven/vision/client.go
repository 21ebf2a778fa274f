// Package vision implements the ImageLabeler port using the Google Cloud Vision API.
package vision

import (
	"context"
	"fmt"
	"strconv"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
	"github.com/ericfisherdev/imagelabels/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ImageLabeler = (*Client)(nil)

// Annotator is the subset of the Vision ImageAnnotatorClient used by Client.
// *visionapi.ImageAnnotatorClient satisfies it; tests substitute a fake.
type Annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// Client implements the driven.ImageLabeler port on top of the Vision API.
type Client struct {
	annotator  Annotator
	parent     string // "projects/<project_id>", scopes every request to the credential's project.
	maxResults int32  // 0 lets the service apply its default.
}

// NewClient loads the service-account key, repairs its private key, and
// creates a gRPC Vision client authenticated with it. Any failure wraps
// model.ErrConfiguration; no request has been sent to the service when
// NewClient returns an error.
func NewClient(ctx context.Context, serviceAccountJSON string, maxResults int32) (*Client, error) {
	account, creds, err := LoadServiceAccount(serviceAccountJSON)
	if err != nil {
		return nil, err
	}

	annotator, err := visionapi.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("%w: create image annotator client: %w", model.ErrConfiguration, err)
	}

	return NewClientWithAnnotator(annotator, account.ProjectID, maxResults), nil
}

// NewClientWithAnnotator creates a Client around an existing Annotator.
// This constructor is intended for testing, allowing injection of a fake service.
func NewClientWithAnnotator(annotator Annotator, projectID string, maxResults int32) *Client {
	parent := ""
	if projectID != "" {
		parent = "projects/" + projectID
	}

	return &Client{
		annotator:  annotator,
		parent:     parent,
		maxResults: max(maxResults, 0),
	}
}

// DetectLabels runs LABEL_DETECTION on the image bytes and maps each
// annotation to a model.Label, keeping service order. Transport errors and
// per-image error statuses wrap model.ErrUpstream.
func (c *Client) DetectLabels(ctx context.Context, image []byte) ([]model.Label, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Parent: c.parent,
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: c.maxResults},
				},
			},
		},
	}

	resp, err := c.annotator.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: batch annotate images: %w", model.ErrUpstream, err)
	}

	responses := resp.GetResponses()
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: batch annotate images returned no responses", model.ErrUpstream)
	}

	result := responses[0]
	if status := result.GetError(); status != nil && status.GetCode() != 0 {
		return nil, fmt.Errorf("%w: annotate image: code %d: %s", model.ErrUpstream, status.GetCode(), status.GetMessage())
	}

	annotations := result.GetLabelAnnotations()
	labels := make([]model.Label, 0, len(annotations))
	for _, a := range annotations {
		labels = append(labels, model.Label{
			Name:  a.GetDescription(),
			Score: widenScore(a.GetScore()),
		})
	}

	return labels, nil
}

// Close closes the underlying gRPC connection.
func (c *Client) Close() error {
	return c.annotator.Close()
}

// widenScore converts the wire float32 to the float64 with the same shortest
// decimal form, so 0.95 on the wire is reported as 0.95 rather than
// 0.949999988079071.
func widenScore(score float32) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(score), 'g', -1, 32), 64)
	if err != nil {
		return float64(score)
	}
	return f
}
