package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/api/responses"
	"github.com/partysnap/partysnap-backend/internal/enquiries"
	"github.com/partysnap/partysnap-backend/internal/invoices"
	"github.com/partysnap/partysnap-backend/pkg/enums"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

const paymentSignatureHeader = "X-Payment-Signature"

type paymentWebhookEvent struct {
	EnquiryID  uuid.UUID        `json:"enquiry_id"`
	Status     string           `json:"status"`
	FinalPrice *decimal.Decimal `json:"final_price"`
}

// PaymentWebhook ingests payment provider callbacks: it moves the enquiry's
// payment state and, once settled, issues the invoice. Requests are
// authenticated by an HMAC signature over the raw body.
func PaymentWebhook(enquirySvc enquiries.Service, invoiceSvc invoices.Service, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if enquirySvc == nil || invoiceSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments pipeline unavailable"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read webhook body"))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if err := verifyPaymentSignature(secret, r.Header.Get(paymentSignatureHeader), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var event paymentWebhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}
		if event.EnquiryID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "enquiry_id required"))
			return
		}

		status, err := enums.ParseEnquiryPaymentStatus(strings.TrimSpace(event.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		enquiry, err := enquirySvc.UpdatePayment(r.Context(), event.EnquiryID, status, event.FinalPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"enquiry": enquiry}
		if status.IsSettled() {
			invoice, err := invoiceSvc.GenerateForEnquiry(r.Context(), event.EnquiryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			payload["invoice"] = invoice
		}
		responses.WriteSuccess(w, payload)
	}
}

func verifyPaymentSignature(secret, provided string, body []byte) error {
	if secret == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "payments webhook secret not configured")
	}
	provided = strings.TrimSpace(provided)
	if provided == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing signature")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(provided))) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid signature")
	}
	return nil
}
