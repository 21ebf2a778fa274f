package application

import (
	"cmp"
	"slices"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

const (
	// MinLabelScore is the lowest score a label may have to be reported.
	MinLabelScore = 0.6
	// MaxLabels is the maximum number of labels reported per image.
	MaxLabels = 10
)

// RankLabels keeps labels scoring at least minScore, orders them by score
// descending (ties keep service order), and truncates to limit. The input is
// not modified and the result is never nil.
func RankLabels(labels []model.Label, minScore float64, limit int) []model.Label {
	ranked := make([]model.Label, 0, len(labels))
	for _, l := range labels {
		if l.Score >= minScore {
			ranked = append(ranked, l)
		}
	}

	slices.SortStableFunc(ranked, func(a, b model.Label) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
