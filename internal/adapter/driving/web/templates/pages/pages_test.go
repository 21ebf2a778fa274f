package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/imagelabels/internal/adapter/driving/web/viewmodel"
)

func TestUpload_EscapesTokenAndKeepsHelpHTML(t *testing.T) {
	var buf bytes.Buffer
	err := Upload(vm.UploadViewModel{
		CSRFToken:   `tok"><script>`,
		HelpHTML:    "<p>Pick a <strong>photo</strong></p>",
		MaxUploadMB: 20,
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `value="tok&#34;&gt;&lt;script&gt;"`)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<p>Pick a <strong>photo</strong></p>")
	assert.Contains(t, html, "Image (up to 20 MB)")
}

func TestResults_EscapesLabelNames(t *testing.T) {
	var buf bytes.Buffer
	err := Results(vm.ResultsViewModel{
		Rows:     []vm.LabelRowViewModel{{Name: `<img src=x onerror="alert(1)">`, Score: "0.91"}},
		MinScore: "0.60",
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, `<meter min="0" max="1" value="0.91"></meter>`)
	assert.Contains(t, html, `<span class="score">0.91</span>`)
}

func TestResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Results(vm.ResultsViewModel{MinScore: "0.60"}).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "No labels scored 0.60 or higher.")
	assert.NotContains(t, buf.String(), "<table")
}

func TestError_RendersStatusAndMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Error(vm.ErrorViewModel{Status: 502, Message: "a < b"}).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "<strong>502</strong> a &lt; b")
}
