package controllers

import (
	"net/http"
	"strings"

	"github.com/partysnap/partysnap-backend/api/responses"
	"github.com/partysnap/partysnap-backend/api/validators"
	"github.com/partysnap/partysnap-backend/internal/enquiries"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

// ListPartyEnquiries returns the live enquiries for one party.
func ListPartyEnquiries(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiries service unavailable"))
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

		list, err := svc.ListForParty(r.Context(), userID, partyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SupplierEnquiryInbox returns the signed-in supplier's enquiries, optionally
// filtered by status.
func SupplierEnquiryInbox(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiries service unavailable"))
			return
		}

		supplierID, err := currentSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := enquiries.SupplierInboxParams{
			SupplierID: supplierID,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseEnquiryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			params.Status = &status
		}

		items, cursor, err := svc.SupplierInbox(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"items":  items,
			"cursor": cursor,
		})
	}
}

// RespondToEnquiry records the supplier's accept or decline.
func RespondToEnquiry(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiries service unavailable"))
			return
		}

		supplierID, err := currentSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiryID, err := pathUUID(r, "enquiryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body enquiries.RespondDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiry, err := svc.Respond(r.Context(), supplierID, enquiryID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, enquiry)
	}
}

// AddEnquiryAddon attaches a paid extra to an enquiry.
func AddEnquiryAddon(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiries service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiryID, err := pathUUID(r, "enquiryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body enquiries.CreateAddonDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiry, err := svc.AddAddon(r.Context(), userID, enquiryID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, enquiry)
	}
}

// RemoveEnquiryAddon deletes a paid extra from an enquiry.
func RemoveEnquiryAddon(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiries service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiryID, err := pathUUID(r, "enquiryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addonID, err := pathUUID(r, "addonID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveAddon(r.Context(), userID, enquiryID, addonID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
