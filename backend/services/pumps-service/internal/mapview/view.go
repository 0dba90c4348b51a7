package mapview

import (
	"go.uber.org/zap"

	"fueltracker/backend/services/pumps-service/internal/models"
)

// LocateZoom is the zoom level used after centring on the user.
const LocateZoom = 12

// LatLng is a map position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Surface is the map the view draws on.
type Surface interface {
	Ready() bool
	AddMarker(m Marker)
	RemoveMarker(id string)
	SetView(center LatLng, zoom int)
}

// View keeps the surface's pump markers equal to the last rendered set.
type View struct {
	surface   Surface
	logger    *zap.Logger
	displayed []string
}

// NewView binds a view to its surface. surface may be nil until the map exists.
func NewView(surface Surface, logger *zap.Logger) *View {
	return &View{surface: surface, logger: logger}
}

func (v *View) ready() bool {
	return v.surface != nil && v.surface.Ready()
}

// Render removes every displayed pump marker and adds one per record, in order. It reports
// false without touching anything when the surface is not initialised yet.
func (v *View) Render(records []models.PumpRecord) bool {
	if !v.ready() {
		v.logger.Warn("map surface not ready, render skipped", zap.Int("records", len(records)))
		return false
	}

	for _, id := range v.displayed {
		v.surface.RemoveMarker(id)
	}
	v.displayed = v.displayed[:0]

	for _, p := range records {
		m := pumpMarker(p)
		v.surface.AddMarker(m)
		v.displayed = append(v.displayed, m.ID)
	}
	return true
}

// Displayed returns the number of pump markers currently drawn.
func (v *View) Displayed() int {
	return len(v.displayed)
}

// LocateUser places the "Your Location" marker and recentres on it. A previous user marker is
// replaced.
func (v *View) LocateUser(lat, lng float64) bool {
	if !v.ready() {
		v.logger.Warn("map surface not ready, locate skipped")
		return false
	}

	v.surface.RemoveMarker(userMarkerID)
	v.surface.AddMarker(Marker{
		ID:    userMarkerID,
		Kind:  KindUser,
		Lat:   lat,
		Lng:   lng,
		Title: "Your Location",
		Popup: "Your Location",
	})
	v.surface.SetView(LatLng{Lat: lat, Lng: lng}, LocateZoom)
	return true
}
