package vision_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"

	visionadapter "github.com/ericfisherdev/imagelabels/internal/adapter/driven/vision"
	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// fakeAnnotator records requests and returns a canned response.
type fakeAnnotator struct {
	resp     *visionpb.BatchAnnotateImagesResponse
	err      error
	requests []*visionpb.BatchAnnotateImagesRequest
	closed   bool
}

func (f *fakeAnnotator) BatchAnnotateImages(_ context.Context, req *visionpb.BatchAnnotateImagesRequest, _ ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func (f *fakeAnnotator) Close() error {
	f.closed = true
	return nil
}

func labelResponse(annotations ...*visionpb.EntityAnnotation) *visionpb.BatchAnnotateImagesResponse {
	return &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{
			{LabelAnnotations: annotations},
		},
	}
}

func TestDetectLabels_BuildsLabelDetectionRequest(t *testing.T) {
	fake := &fakeAnnotator{resp: labelResponse()}
	client := visionadapter.NewClientWithAnnotator(fake, "demo-project", 25)

	_, err := client.DetectLabels(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "projects/demo-project", req.GetParent())
	require.Len(t, req.GetRequests(), 1)
	assert.Equal(t, []byte("png-bytes"), req.GetRequests()[0].GetImage().GetContent())
	require.Len(t, req.GetRequests()[0].GetFeatures(), 1)
	feature := req.GetRequests()[0].GetFeatures()[0]
	assert.Equal(t, visionpb.Feature_LABEL_DETECTION, feature.GetType())
	assert.Equal(t, int32(25), feature.GetMaxResults())
}

func TestDetectLabels_MaxResultsBounds(t *testing.T) {
	tests := []struct {
		name       string
		maxResults int32
		want       int32
	}{
		{name: "largest", maxResults: math.MaxInt32, want: math.MaxInt32},
		{name: "negative uses service default", maxResults: -5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAnnotator{resp: labelResponse()}
			client := visionadapter.NewClientWithAnnotator(fake, "demo-project", tt.maxResults)

			_, err := client.DetectLabels(context.Background(), []byte("png-bytes"))
			require.NoError(t, err)

			require.Len(t, fake.requests, 1)
			assert.Equal(t, tt.want, fake.requests[0].GetRequests()[0].GetFeatures()[0].GetMaxResults())
		})
	}
}

func TestDetectLabels_MapsAnnotationsInServiceOrder(t *testing.T) {
	fake := &fakeAnnotator{resp: labelResponse(
		&visionpb.EntityAnnotation{Description: "cat", Score: 0.95},
		&visionpb.EntityAnnotation{Description: "dog", Score: 0.4},
		&visionpb.EntityAnnotation{Score: 0.7},
		&visionpb.EntityAnnotation{Description: "pet"},
	)}
	client := visionadapter.NewClientWithAnnotator(fake, "demo-project", 0)

	labels, err := client.DetectLabels(context.Background(), []byte("img"))
	require.NoError(t, err)

	assert.Equal(t, []model.Label{
		{Name: "cat", Score: 0.95},
		{Name: "dog", Score: 0.4},
		{Name: "", Score: 0.7},
		{Name: "pet", Score: 0},
	}, labels)
}

func TestDetectLabels_NoAnnotationsReturnsEmptySlice(t *testing.T) {
	fake := &fakeAnnotator{resp: labelResponse()}
	client := visionadapter.NewClientWithAnnotator(fake, "demo-project", 0)

	labels, err := client.DetectLabels(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestDetectLabels_Errors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeAnnotator
	}{
		{
			name: "transport error",
			fake: &fakeAnnotator{err: errors.New("connection refused")},
		},
		{
			name: "no responses",
			fake: &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{}},
		},
		{
			name: "per-image error status",
			fake: &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{
					{Error: &statuspb.Status{Code: 3, Message: "Bad image data."}},
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := visionadapter.NewClientWithAnnotator(tt.fake, "demo-project", 0)

			labels, err := client.DetectLabels(context.Background(), []byte("img"))

			assert.Nil(t, labels)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrUpstream)
		})
	}
}

func TestClose_ClosesAnnotator(t *testing.T) {
	fake := &fakeAnnotator{}
	client := visionadapter.NewClientWithAnnotator(fake, "demo-project", 0)

	require.NoError(t, client.Close())
	assert.True(t, fake.closed)
}

func TestNewClient_ConfigurationErrorBeforeDial(t *testing.T) {
	client, err := visionadapter.NewClient(context.Background(), "", 0)

	assert.Nil(t, client)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
