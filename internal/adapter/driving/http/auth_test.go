package httphandler

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBasicAuth(t *testing.T) {
	creds := BasicAuthCredentials{User: "samsung", Password: "gemini"}
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name       string
		header     string
		wantReason string
	}{
		{name: "valid", header: "Basic " + enc("samsung:gemini"), wantReason: ""},
		{name: "valid without padding", header: "Basic " + base64.RawStdEncoding.EncodeToString([]byte("samsung:gemini")), wantReason: ""},
		{name: "missing", header: "", wantReason: "missing authorization header"},
		{name: "other scheme", header: "Digest abc", wantReason: "unsupported authorization scheme"},
		{name: "no space after scheme", header: "Basic" + enc("samsung:gemini"), wantReason: "unsupported authorization scheme"},
		{name: "bad base64", header: "Basic %%%", wantReason: "malformed credentials"},
		{name: "no colon", header: "Basic " + enc("samsung"), wantReason: "malformed credentials"},
		{name: "password keeps later colons", header: "Basic " + enc("samsung:gemini:x"), wantReason: "invalid credentials"},
		{name: "case sensitive user", header: "Basic " + enc("Samsung:gemini"), wantReason: "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantReason, checkBasicAuth(tt.header, creds))
		})
	}
}

func TestCheckBasicAuth_PasswordWithColon(t *testing.T) {
	creds := BasicAuthCredentials{User: "ops", Password: "a:b"}
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte("ops:a:b"))

	assert.Empty(t, checkBasicAuth(header, creds))
}

func TestRecoveryMiddleware_PanicBecomes500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := recoveryMiddleware(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
