package controllers

import (
	"context"
	"net/http"

	"github.com/partysnap/partysnap-backend/api/responses"
	"github.com/partysnap/partysnap-backend/api/validators"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
	"github.com/partysnap/partysnap-backend/pkg/geocode"
	"github.com/partysnap/partysnap-backend/pkg/logger"
)

type postcodeResolver interface {
	Lookup(ctx context.Context, postcode string) (*geocode.Place, error)
}

type postcodeLookupBody struct {
	Postcode string `json:"postcode" validate:"required"`
}

type postcodeLookupResponse struct {
	Postcode  string  `json:"postcode"`
	Location  string  `json:"location"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PublicPostcodeLookup checks a postcode before a party is created and
// returns the locality the plan would display.
func PublicPostcodeLookup(geo postcodeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if geo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "geocode client unavailable"))
			return
		}

		var body postcodeLookupBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		place, err := geo.Lookup(r.Context(), body.Postcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, postcodeLookupResponse{
			Postcode:  place.Postcode,
			Location:  place.DisplayName(),
			Region:    place.Region,
			Country:   place.Country,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
		})
	}
}
