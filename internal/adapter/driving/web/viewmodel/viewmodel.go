// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// UploadViewModel holds the data for the upload form page.
type UploadViewModel struct {
	CSRFToken   string
	HelpHTML    string // Sanitized HTML rendered from the embedded help text.
	MaxUploadMB int64
}

// LabelRowViewModel is a single row of the results table.
type LabelRowViewModel struct {
	Name  string
	Score string // Two decimals, e.g. "0.95".
}

// ResultsViewModel holds the data for the labeling results page.
type ResultsViewModel struct {
	Rows     []LabelRowViewModel
	MinScore string
}

// ErrorViewModel holds the data for an error page.
type ErrorViewModel struct {
	Status  int
	Message string
}
