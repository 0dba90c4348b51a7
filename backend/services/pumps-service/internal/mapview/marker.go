package mapview

import (
	"strings"

	"fueltracker/backend/services/pumps-service/internal/models"
)

// Category is the four-way marker classification by petrol/diesel availability.
type Category string

const (
	CategoryBoth   Category = "both"
	CategoryPetrol Category = "petrol"
	CategoryDiesel Category = "diesel"
	CategoryNone   Category = "none"
)

// Classify evaluates petrol+diesel, petrol only, diesel only, neither, in that order.
func Classify(p models.PumpRecord) Category {
	switch {
	case p.PetrolAvailable && p.DieselAvailable:
		return CategoryBoth
	case p.PetrolAvailable:
		return CategoryPetrol
	case p.DieselAvailable:
		return CategoryDiesel
	default:
		return CategoryNone
	}
}

// Color returns the marker fill used by the map clients.
func (c Category) Color() string {
	switch c {
	case CategoryBoth:
		return "#28a745"
	case CategoryPetrol:
		return "#ffc107"
	case CategoryDiesel:
		return "#17a2b8"
	default:
		return "#dc3545"
	}
}

// MarkerKind separates pump markers from the user's own position.
type MarkerKind string

const (
	KindPump MarkerKind = "pump"
	KindUser MarkerKind = "user"
)

const userMarkerID = "user-location"

// Marker is one annotation on the rendering surface.
type Marker struct {
	ID       string
	Kind     MarkerKind
	Lat      float64
	Lng      float64
	Title    string
	Category Category
	Color    string
	Popup    string
	Tooltip  string
}

func pumpMarker(p models.PumpRecord) Marker {
	category := Classify(p)
	return Marker{
		ID:       "pump:" + p.ID,
		Kind:     KindPump,
		Lat:      p.Lat,
		Lng:      p.Lng,
		Title:    p.Name,
		Category: category,
		Color:    category.Color(),
		Popup:    AttachDetail(p),
		Tooltip:  Tooltip(p),
	}
}

// Tooltip is the short hover text: name and a tick per fuel the pump stocks.
func Tooltip(p models.PumpRecord) string {
	lines := []string{
		p.Name,
		"Petrol: " + tick(p.PetrolAvailable),
		"Diesel: " + tick(p.DieselAvailable),
	}
	if offer, ok := p.PremiumPetrol.Get(); ok {
		lines = append(lines, "Premium: "+tick(offer.Available))
	}
	if offer, ok := p.CNG.Get(); ok {
		lines = append(lines, "CNG: "+tick(offer.Available))
	}
	return strings.Join(lines, "\n")
}

func tick(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
