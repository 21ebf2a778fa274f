// Package upload reads image uploads from multipart requests and maps
// labeling errors to HTTP statuses for the driving adapters.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// FieldName is the multipart form field carrying the image file.
const FieldName = "image"

// maxFormMemory caps the part of a multipart body held in memory; larger
// parts spill to temporary files.
const maxFormMemory = 32 << 20

// ErrTooLarge is returned when the request body exceeds the upload limit.
var ErrTooLarge = errors.New("image too large")

// ReadImage parses the multipart body of r and returns the full content of
// the "image" file field. The body is limited to maxBytes. A body that is not
// multipart, a missing field, or a field that is not a file all wrap
// model.ErrMissingImage.
func ReadImage(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	if r.ContentLength > maxBytes {
		return nil, ErrTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(min(maxBytes, maxFormMemory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("%w: parse multipart form: %w", model.ErrMissingImage, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(FieldName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMissingImage, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// ErrorStatus maps an error from ReadImage or the label service to the HTTP
// status and the client-safe message to send. Messages never contain the
// underlying cause.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "image too large"
	case errors.Is(err, model.ErrMissingImage):
		return http.StatusBadRequest, "Missing image file"
	case errors.Is(err, model.ErrConfiguration):
		return http.StatusInternalServerError, "labeling service is not configured"
	case errors.Is(err, model.ErrUpstream), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, "labeling service request failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
