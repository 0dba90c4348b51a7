package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/services/pumps-service/internal/models"
	"fueltracker/backend/services/pumps-service/internal/store"
)

// writeJSON commits status only once payload has encoded; an encoding failure becomes a 500.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if payload == nil {
		w.WriteHeader(status)
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return fmt.Errorf("encode response: %w", err)
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
	return nil
}

func respond(w http.ResponseWriter, logger *zap.Logger, status int, payload interface{}) {
	if err := writeJSON(w, status, payload); err != nil {
		logger.Error("response encoding failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

func writeFieldError(w http.ResponseWriter, field, message string) {
	_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": message, "field": field})
}

// writeStoreError maps store and validation errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var vErr models.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeFieldError(w, vErr.Field, vErr.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "pump not found")
	case errors.Is(err, store.ErrNotOwner):
		writeError(w, http.StatusForbidden, "you can only modify your own fuel pumps")
	case errors.Is(err, store.ErrAdminOnly):
		writeError(w, http.StatusForbidden, "only administrators can modify fuel pumps")
	default:
		logger.Error("pump operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func actorFromRequest(r *http.Request) (models.Actor, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, true
}

// criteriaFromQuery reads district and fuelType query parameters.
func criteriaFromQuery(r *http.Request) (models.FilterCriteria, error) {
	q := r.URL.Query()
	fuel, err := models.ParseFuelType(q.Get("fuelType"))
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return models.FilterCriteria{District: q.Get("district"), FuelType: fuel}.Normalize(), nil
}

// coordsFromQuery returns ok=false when neither lat nor lng is given.
func coordsFromQuery(r *http.Request) (lat, lng float64, ok bool, err error) {
	q := r.URL.Query()
	rawLat, rawLng := strings.TrimSpace(q.Get("lat")), strings.TrimSpace(q.Get("lng"))
	if rawLat == "" && rawLng == "" {
		return 0, 0, false, nil
	}
	lat, err = strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, false, models.ValidationError{Field: "lat", Msg: "must be a number between -90 and 90"}
	}
	lng, err = strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return 0, 0, false, models.ValidationError{Field: "lng", Msg: "must be a number between -180 and 180"}
	}
	if err := models.ValidateCoordinates(lat, lng); err != nil {
		return 0, 0, false, err
	}
	return lat, lng, true, nil
}
