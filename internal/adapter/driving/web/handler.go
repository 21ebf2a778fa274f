// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/imagelabels/internal/adapter/driving/upload"
	"github.com/ericfisherdev/imagelabels/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/imagelabels/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/imagelabels/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/imagelabels/internal/application"
)

const pageTitle = "Image labels"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	labelSvc       *application.LabelService
	maxUploadBytes int64
	helpHTML       string
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(labelSvc *application.LabelService, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		labelSvc:       labelSvc,
		maxUploadBytes: maxUploadBytes,
		helpHTML:       RenderMarkdown(helpMarkdown),
		logger:         logger,
	}
}

// Upload renders the upload form page.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	data := vm.UploadViewModel{
		CSRFToken:   csrfToken(w, r),
		HelpHTML:    h.helpHTML,
		MaxUploadMB: max(1, h.maxUploadBytes>>20),
	}
	h.render(w, r, http.StatusOK, pages.Upload(data))
}

// Labels handles the upload form submission and renders the ranked labels.
// A request without the CSRF cookie is refused before the body is read; the
// form token is compared once the size-capped upload has been parsed, before
// the labeling service is consulted.
func (h *Handler) Labels(w http.ResponseWriter, r *http.Request) {
	if !hasCSRFCookie(r) {
		h.renderForbidden(w, r)
		return
	}

	image, err := upload.ReadImage(w, r, h.maxUploadBytes)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if !validateCSRF(r) {
		h.renderForbidden(w, r)
		return
	}

	labels, err := h.labelSvc.Label(r.Context(), image)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, pages.Results(toResultsViewModel(labels)))
}

func (h *Handler) renderForbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, pages.Error(vm.ErrorViewModel{
		Status:  http.StatusForbidden,
		Message: "The form expired. Reload the page and try again.",
	}))
}

// renderError renders the error page with the same status mapping as the JSON API.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := upload.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("web label request failed", "status", status, "error", err)
	}
	h.render(w, r, status, pages.Error(vm.ErrorViewModel{Status: status, Message: message}))
}

// render writes component inside the page layout with the given status.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.Layout(pageTitle, component).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}
