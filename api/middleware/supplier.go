package middleware

import (
	"net/http"

	"github.com/partysnap/partysnap-backend/api/responses"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

// SupplierContext rejects requests whose token carries no supplier identity.
func SupplierContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SupplierIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "supplier context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
