package ws

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"fueltracker/backend/services/pumps-service/internal/controller"
	"fueltracker/backend/services/pumps-service/internal/mapview"
	"fueltracker/backend/services/pumps-service/internal/models"
)

// Command is a client request on the live map feed.
type Command struct {
	Type     string   `json:"type"`
	District string   `json:"district"`
	FuelType string   `json:"fuelType"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

// LayerFrame carries the rendered map state to the client.
type LayerFrame struct {
	Type     string                     `json:"type"`
	Summary  string                     `json:"summary"`
	Count    int                        `json:"count"`
	Criteria models.FilterCriteria      `json:"criteria"`
	Center   [2]float64                 `json:"center"`
	Zoom     int                        `json:"zoom"`
	Layer    *geojson.FeatureCollection `json:"layer"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Session binds one client's controller to the layer it draws on.
type Session struct {
	ctrl  *controller.Controller
	layer *mapview.Layer
}

// NewSession pairs a controller with the layer its view draws on.
func NewSession(ctrl *controller.Controller, layer *mapview.Layer) *Session {
	return &Session{ctrl: ctrl, layer: layer}
}

// Handle applies a raw command and returns the frame to send back.
func (s *Session) Handle(raw []byte) ([]byte, error) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return encodeError("malformed command"), fmt.Errorf("decode command: %w", err)
	}

	var res controller.Result
	switch cmd.Type {
	case "filter":
		fuel, err := models.ParseFuelType(cmd.FuelType)
		if err != nil {
			return encodeError(err.Error()), err
		}
		res = s.ctrl.Apply(models.FilterCriteria{District: cmd.District, FuelType: fuel})
	case "fuel":
		fuel, err := models.ParseFuelType(cmd.FuelType)
		if err != nil {
			return encodeError(err.Error()), err
		}
		res = s.ctrl.SelectFuel(fuel)
	case "district":
		res = s.ctrl.SelectDistrict(cmd.District)
	case "locate":
		if cmd.Lat == nil || cmd.Lng == nil {
			return encodeError("lat and lng are required"), fmt.Errorf("locate without coordinates")
		}
		if err := models.ValidateCoordinates(*cmd.Lat, *cmd.Lng); err != nil {
			return encodeError(err.Error()), err
		}
		s.ctrl.Locate(*cmd.Lat, *cmd.Lng)
		res = s.ctrl.Refresh()
	case "refresh":
		res = s.ctrl.Refresh()
	default:
		return encodeError("unknown command"), fmt.Errorf("unknown command %q", cmd.Type)
	}
	return json.Marshal(s.Frame(res))
}

// Refresh redraws the current criteria.
func (s *Session) Refresh() ([]byte, error) {
	return json.Marshal(s.Frame(s.ctrl.Refresh()))
}

// Frame combines a command result with the layer it produced.
func (s *Session) Frame(res controller.Result) LayerFrame {
	frame := LayerFrame{
		Type:     "layer",
		Summary:  res.Summary,
		Count:    res.Count,
		Criteria: res.Criteria,
	}
	s.ctrl.Do(func() {
		center, zoom := s.layer.View()
		frame.Center = [2]float64{center.Lat, center.Lng}
		frame.Zoom = zoom
		frame.Layer = s.layer.FeatureCollection()
	})
	return frame
}

func encodeError(msg string) []byte {
	data, _ := json.Marshal(errorFrame{Type: "error", Error: msg})
	return data
}
