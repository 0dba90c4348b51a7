package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"fueltracker/backend/services/pumps-service/internal/controller"
	"fueltracker/backend/services/pumps-service/internal/mapview"
	"fueltracker/backend/services/pumps-service/internal/store"
	"fueltracker/backend/services/pumps-service/internal/ws"
)

// NewMarkersHandler handles GET /api/map/markers: one-shot render of the filtered layer for
// clients that do not hold a live feed.
func NewMarkersHandler(pumps *store.PumpStore, center mapview.LatLng, zoom int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}
		lat, lng, located, err := coordsFromQuery(r)
		if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		layer := mapview.NewLayer(center, zoom)
		layer.Init()
		ctrl := controller.New(pumps, mapview.NewView(layer, logger), nil)
		if located {
			ctrl.Locate(lat, lng)
		}
		res := ctrl.Apply(criteria)

		respond(w, logger, http.StatusOK, ws.NewSession(ctrl, layer).Frame(res))
	}
}
