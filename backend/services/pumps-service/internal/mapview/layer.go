package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultCenter is the centre of Kerala.
var DefaultCenter = LatLng{Lat: 10.8505, Lng: 76.2711}

// DefaultZoom shows the whole state.
const DefaultZoom = 8

// Layer is an in-memory Surface that serialises to GeoJSON for browser clients.
type Layer struct {
	ready   bool
	markers []Marker
	center  LatLng
	zoom    int
}

// NewLayer returns an uninitialised layer.
func NewLayer(center LatLng, zoom int) *Layer {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &Layer{center: center, zoom: zoom}
}

// Init marks the layer ready to accept markers.
func (l *Layer) Init() {
	l.ready = true
}

func (l *Layer) Ready() bool {
	return l.ready
}

// AddMarker appends m. Ids need not be unique: records without an id all map to "pump:".
func (l *Layer) AddMarker(m Marker) {
	l.markers = append(l.markers, m)
}

// RemoveMarker removes the first marker with the given id.
func (l *Layer) RemoveMarker(id string) {
	for i, m := range l.markers {
		if m.ID == id {
			l.markers = append(l.markers[:i], l.markers[i+1:]...)
			return
		}
	}
}

func (l *Layer) SetView(center LatLng, zoom int) {
	l.center = center
	l.zoom = zoom
}

// View returns the current centre and zoom.
func (l *Layer) View() (LatLng, int) {
	return l.center, l.zoom
}

// Markers returns a copy of the drawn markers in insertion order.
func (l *Layer) Markers() []Marker {
	return append([]Marker(nil), l.markers...)
}

// FeatureCollection renders every marker as a GeoJSON point feature.
func (l *Layer) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range l.markers {
		feature := geojson.NewFeature(orb.Point{m.Lng, m.Lat})
		feature.ID = m.ID
		feature.Properties["id"] = m.ID
		feature.Properties["kind"] = string(m.Kind)
		feature.Properties["name"] = m.Title
		feature.Properties["popup"] = m.Popup
		if m.Kind == KindPump {
			feature.Properties["category"] = string(m.Category)
			feature.Properties["color"] = m.Color
			feature.Properties["tooltip"] = m.Tooltip
		}
		fc.Append(feature)
	}
	return fc
}
