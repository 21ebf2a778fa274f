package model

// Label is a single label annotation returned by the image labeling service.
// Name is empty when the service omits a description. Score is the
// confidence in [0, 1], zero when the service omits it.
type Label struct {
	Name  string
	Score float64
}
