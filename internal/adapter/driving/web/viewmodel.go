package web

import (
	"strconv"

	vm "github.com/ericfisherdev/imagelabels/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/imagelabels/internal/application"
	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// toResultsViewModel converts ranked labels to the results page view model.
// A label without a description is shown as "(unnamed)".
func toResultsViewModel(labels []model.Label) vm.ResultsViewModel {
	rows := make([]vm.LabelRowViewModel, 0, len(labels))
	for _, l := range labels {
		name := l.Name
		if name == "" {
			name = "(unnamed)"
		}
		rows = append(rows, vm.LabelRowViewModel{
			Name:  name,
			Score: strconv.FormatFloat(l.Score, 'f', 2, 64),
		})
	}

	return vm.ResultsViewModel{
		Rows:     rows,
		MinScore: strconv.FormatFloat(application.MinLabelScore, 'f', 2, 64),
	}
}
