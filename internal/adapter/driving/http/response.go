package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// LabelResponse is the JSON representation of a single label.
type LabelResponse struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// LabelsResponse is the JSON body of the labels endpoint.
type LabelsResponse struct {
	Items []LabelResponse `json:"items"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toLabelsResponse converts ranked domain labels to the response body.
// Items is always a JSON array, never null.
func toLabelsResponse(labels []model.Label) LabelsResponse {
	items := make([]LabelResponse, 0, len(labels))
	for _, l := range labels {
		items = append(items, LabelResponse{Name: l.Name, Score: l.Score})
	}
	return LabelsResponse{Items: items}
}
