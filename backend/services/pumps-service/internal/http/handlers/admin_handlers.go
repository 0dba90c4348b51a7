package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fueltracker/backend/services/pumps-service/internal/export"
	"fueltracker/backend/services/pumps-service/internal/models"
	"fueltracker/backend/services/pumps-service/internal/store"
)

const maxPumpBody = 64 << 10

func decodePump(w http.ResponseWriter, r *http.Request) (models.PumpRecord, error) {
	var in models.PumpInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPumpBody)).Decode(&in); err != nil {
		return models.PumpRecord{}, models.ValidationError{Field: "body", Msg: "invalid JSON body"}
	}
	return in.ToRecord()
}

// NewCreatePumpHandler handles POST /api/pumps.
func NewCreatePumpHandler(pumps *store.PumpStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFromRequest(r)
		rec, err := decodePump(w, r)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		rec.ID = ""

		saved, err := pumps.Upsert(r.Context(), actor, rec)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		respond(w, logger, http.StatusCreated, map[string]models.PumpRecord{"pump": saved})
	}
}

// NewUpdatePumpHandler handles PUT /api/pumps/{id}.
func NewUpdatePumpHandler(pumps *store.PumpStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFromRequest(r)
		rec, err := decodePump(w, r)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		rec.ID = mux.Vars(r)["id"]

		saved, err := pumps.Update(r.Context(), actor, rec)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		respond(w, logger, http.StatusOK, map[string]models.PumpRecord{"pump": saved})
	}
}

// NewDeletePumpHandler handles DELETE /api/pumps/{id}.
func NewDeletePumpHandler(pumps *store.PumpStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFromRequest(r)
		if err := pumps.Remove(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
			writeStoreError(w, logger, err)
			return
		}
		respond(w, logger, http.StatusOK, map[string]string{"message": "Fuel pump deleted"})
	}
}

// NewMyPumpsHandler handles GET /api/pumps/mine.
func NewMyPumpsHandler(pumps *store.PumpStore) http.HandlerFunc {
	type response struct {
		Pumps []models.PumpRecord `json:"pumps"`
		Count int                 `json:"count"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFromRequest(r)
		owned := pumps.OwnedBy(actor.UserID)
		_ = writeJSON(w, http.StatusOK, response{Pumps: owned, Count: len(owned)})
	}
}

// NewExportHandler handles GET /api/pumps/mine/export.{pdf,xlsx}.
func NewExportHandler(pumps *store.PumpStore, format string, logger *zap.Logger) http.HandlerFunc {
	render, contentType := export.PumpsPDF, "application/pdf"
	if format == "xlsx" {
		render, contentType = export.PumpsXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := actorFromRequest(r)
		now := time.Now()
		data, err := render(pumps.OwnedBy(actor.UserID), now)
		if err != nil {
			logger.Error("export failed", zap.String("format", format), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to export pumps")
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="my-pumps-%s.%s"`, now.UTC().Format("20060102"), format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
