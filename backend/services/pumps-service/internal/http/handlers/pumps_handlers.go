package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fueltracker/backend/services/pumps-service/internal/models"
	"fueltracker/backend/services/pumps-service/internal/store"
)

const maxNearestLimit = 50

// NewListPumpsHandler handles GET /api/pumps.
func NewListPumpsHandler(pumps *store.PumpStore, logger *zap.Logger) http.HandlerFunc {
	type response struct {
		Pumps    []models.PumpRecord   `json:"pumps"`
		Count    int                   `json:"count"`
		Summary  string                `json:"summary"`
		Criteria models.FilterCriteria `json:"criteria"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		result := pumps.Filter(criteria)
		respond(w, logger, http.StatusOK, response{
			Pumps:    result,
			Count:    len(result),
			Summary:  criteria.Summary(len(result)),
			Criteria: criteria,
		})
	}
}

// NewDistrictsHandler handles GET /api/pumps/districts.
func NewDistrictsHandler(pumps *store.PumpStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string][]string{"districts": pumps.Districts()})
	}
}

// NewNearestHandler handles GET /api/pumps/nearest.
func NewNearestHandler(pumps *store.PumpStore, logger *zap.Logger) http.HandlerFunc {
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

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 1 || limit > maxNearestLimit {
				writeFieldError(w, "limit", "limit must be between 1 and 50")
				return
			}
		}

		respond(w, logger, http.StatusOK, map[string][]store.PumpDistance{"pumps": pumps.Nearest(lat, lng, limit)})
	}
}

// NewGetPumpHandler handles GET /api/pumps/{id}.
func NewGetPumpHandler(pumps *store.PumpStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := pumps.Get(mux.Vars(r)["id"])
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		respond(w, logger, http.StatusOK, map[string]models.PumpRecord{"pump": p})
	}
}
