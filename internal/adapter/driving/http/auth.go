package httphandler

import (
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
)

// basicChallenge is sent with every 401 so browsers prompt for credentials.
const basicChallenge = `Basic realm="Restricted"`

// BasicAuthCredentials is the username and password every request must present.
type BasicAuthCredentials struct {
	User     string
	Password string
}

// basicAuthMiddleware rejects any request whose Authorization header does not
// carry the expected Basic credentials. Rejected requests get 401 with a
// WWW-Authenticate challenge and never reach next.
func basicAuthMiddleware(creds BasicAuthCredentials, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := checkBasicAuth(r.Header.Get("Authorization"), creds); reason != "" {
			logger.Warn("request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"reason", reason,
				"request_id", RequestID(r.Context()),
			)
			w.Header().Set("WWW-Authenticate", basicChallenge)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkBasicAuth validates an Authorization header value against creds.
// It returns an empty string on success, otherwise a short reason for logs.
// The scheme prefix is matched exactly, as "Basic " with a single space.
func checkBasicAuth(header string, creds BasicAuthCredentials) string {
	if header == "" {
		return "missing authorization header"
	}

	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return "unsupported authorization scheme"
	}

	decoded, err := decodeBase64(encoded)
	if err != nil {
		return "malformed credentials"
	}

	user, pass, ok := strings.Cut(decoded, ":")
	if !ok {
		return "malformed credentials"
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(creds.User))
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(creds.Password))
	if userOK&passOK != 1 {
		return "invalid credentials"
	}

	return ""
}

// decodeBase64 accepts standard base64 with or without padding.
func decodeBase64(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
	}
	return string(b), nil
}
