package controller

import (
	"testing"

	"go.uber.org/zap"

	"fueltracker/backend/services/pumps-service/internal/mapview"
	"fueltracker/backend/services/pumps-service/internal/models"
)

type fakeSource struct {
	pumps []models.PumpRecord
	calls []models.FilterCriteria
}

func (f *fakeSource) Filter(criteria models.FilterCriteria) []models.PumpRecord {
	f.calls = append(f.calls, criteria)
	var out []models.PumpRecord
	for _, p := range f.pumps {
		if criteria.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func newController(t *testing.T, pumps ...models.PumpRecord) (*Controller, *fakeSource, *mapview.Layer) {
	t.Helper()
	src := &fakeSource{pumps: pumps}
	layer := mapview.NewLayer(mapview.DefaultCenter, mapview.DefaultZoom)
	layer.Init()
	return New(src, mapview.NewView(layer, zap.NewNop()), nil), src, layer
}

func testPumps() []models.PumpRecord {
	return []models.PumpRecord{
		{ID: "A", Name: "A", District: "X", PetrolAvailable: true},
		{ID: "B", Name: "B", District: "Y", PetrolAvailable: true, DieselAvailable: true},
		{ID: "C", Name: "C", District: "X", DieselAvailable: true},
	}
}

func TestSelectFuelKeepsDistrict(t *testing.T) {
	c, _, layer := newController(t, testPumps()...)

	c.Apply(models.FilterCriteria{District: "X"})
	res := c.SelectFuel(models.FuelDiesel)

	if res.Count != 1 || res.Summary != "1 pumps in X with diesel available" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(layer.Markers()) != 1 || layer.Markers()[0].ID != "pump:C" {
		t.Fatalf("expected only C drawn, got %+v", layer.Markers())
	}
}

func TestSelectDistrictResetsFuel(t *testing.T) {
	c, _, _ := newController(t, testPumps()...)

	c.SelectFuel(models.FuelDiesel)
	res := c.SelectDistrict("X")

	if res.Criteria.FuelType != models.FuelAll || res.Criteria.District != "X" {
		t.Fatalf("expected fuel reset on district change, got %+v", res.Criteria)
	}
	if res.Count != 2 || res.Summary != "2 pumps in X" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRefreshUsesCurrentCriteria(t *testing.T) {
	c, src, layer := newController(t, testPumps()...)

	c.SelectFuel(models.FuelPetrol)
	src.pumps = append(src.pumps, models.PumpRecord{ID: "D", Name: "D", District: "Z", PetrolAvailable: true})
	res := c.Refresh()

	if res.Count != 3 || res.Summary != "3 pumps with petrol available" {
		t.Fatalf("unexpected refresh result %+v", res)
	}
	if len(layer.Markers()) != 3 {
		t.Fatalf("expected 3 markers after refresh, got %d", len(layer.Markers()))
	}
	last := src.calls[len(src.calls)-1]
	if last.District != models.DistrictAll || last.FuelType != models.FuelPetrol {
		t.Fatalf("expected normalised criteria passed to store, got %+v", last)
	}
}

func TestRenderCountMatchesFilterAcrossCommands(t *testing.T) {
	c, _, layer := newController(t, testPumps()...)

	for _, res := range []Result{
		c.Apply(models.AllPumps()),
		c.SelectDistrict("Y"),
		c.SelectFuel(models.FuelCNG),
		c.SelectDistrict("all"),
	} {
		if !res.Rendered || res.Count != len(layer.Markers()) {
			t.Fatalf("marker count %d does not match result %+v", len(layer.Markers()), res)
		}
	}
}

func TestLocateAddsUserMarker(t *testing.T) {
	c, _, layer := newController(t, testPumps()...)
	c.Refresh()

	if !c.Locate(10.1, 76.2) {
		t.Fatalf("expected locate to succeed")
	}
	markers := layer.Markers()
	if len(markers) != 4 || markers[3].Kind != mapview.KindUser {
		t.Fatalf("expected user marker appended, got %+v", markers)
	}
	if _, zoom := layer.View(); zoom != mapview.LocateZoom {
		t.Fatalf("expected zoom %d, got %d", mapview.LocateZoom, zoom)
	}
}
