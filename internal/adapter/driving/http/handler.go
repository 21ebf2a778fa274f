package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/imagelabels/internal/adapter/driving/upload"
	"github.com/ericfisherdev/imagelabels/internal/application"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	labelSvc       *application.LabelService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(labelSvc *application.LabelService, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		labelSvc:       labelSvc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/labels", h.PostLabels)
	mux.HandleFunc("GET /api/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the full middleware chain, including the Basic-Auth gate.
func NewServeMux(h *Handler, creds BasicAuthCredentials, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, creds, logger)
}

// PostLabels labels the uploaded "image" file and returns the top labels.
// The labeling service is resolved before the body is read, so a
// configuration error is reported even for a request without an image.
func (h *Handler) PostLabels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.labelSvc.Ready(ctx); err != nil {
		h.writeLabelError(w, r, err)
		return
	}

	image, err := upload.ReadImage(w, r, h.maxUploadBytes)
	if err != nil {
		h.writeLabelError(w, r, err)
		return
	}

	labels, err := h.labelSvc.Label(ctx, image)
	if err != nil {
		h.writeLabelError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLabelsResponse(labels))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeLabelError maps err to a status and a client-safe message. Server-side
// failures are logged with their cause; client errors are not.
func (h *Handler) writeLabelError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := upload.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("label request failed",
			"status", status,
			"error", err,
			"request_id", RequestID(r.Context()),
		)
	}
	writeError(w, status, message)
}
