package controllers

import (
	"net/http"

	"github.com/partysnap/partysnap-backend/api/responses"
	"github.com/partysnap/partysnap-backend/internal/dashboard"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

// PartyDashboard returns the readiness board, journey, budget and countdown
// for one party.
func PartyDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partyID, err := pathUUID(r, "partyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		board, err := svc.Get(r.Context(), userID, partyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}
