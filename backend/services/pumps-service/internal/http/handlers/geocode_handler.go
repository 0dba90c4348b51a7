package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fueltracker/backend/services/pumps-service/internal/geocode"
)

// NewReverseGeocodeHandler handles GET /api/geocode/reverse.
func NewReverseGeocodeHandler(client *geocode.Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, lng, ok, err := coordsFromQuery(r)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		if !ok {
			writeFieldError(w, "lat", "lat and lng are required")
			return
		}

		place, err := client.Reverse(r.Context(), lat, lng)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResult) {
				writeError(w, http.StatusNotFound, "no address found for location")
				return
			}
			logger.Warn("reverse geocoding failed", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
			writeError(w, http.StatusBadGateway, "geocoding service unavailable")
			return
		}
		respond(w, logger, http.StatusOK, place)
	}
}
