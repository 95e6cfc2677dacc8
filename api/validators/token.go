package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// BearerToken extracts the access token from the Authorization header.
// The bare token and the "Bearer " prefix are both accepted.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
