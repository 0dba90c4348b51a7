package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestUnmarshalCoercesStoredFlags(t *testing.T) {
	raw := `{
		"id": 1717171717,
		"name": "Indian Oil",
		"address": "MG Road",
		"district": "Ernakulam",
		"lat": "9.98",
		"lng": 76.28,
		"petrolPrice": "105.4",
		"dieselPrice": 94.2,
		"petrolAvailable": 1,
		"dieselAvailable": "",
		"premiumPetrolPrice": 112,
		"cngPrice": null,
		"cngAvailable": true,
		"cardPayment": "yes",
		"upiPayment": null,
		"lastUpdated": "2024-05-01T10:00:00.000Z",
		"ownerId": "admin-1"
	}`

	var p PumpRecord
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.ID != "1717171717" {
		t.Fatalf("expected numeric id to become text, got %q", p.ID)
	}
	if p.Lat != 9.98 || p.Lng != 76.28 {
		t.Fatalf("unexpected coordinates %v,%v", p.Lat, p.Lng)
	}
	if !p.PetrolAvailable || p.DieselAvailable {
		t.Fatalf("unexpected coercion petrol=%v diesel=%v", p.PetrolAvailable, p.DieselAvailable)
	}
	premium, ok := p.PremiumPetrol.Get()
	if !ok || premium.Available || !premium.Price.Equal(decimal.NewFromInt(112)) {
		t.Fatalf("expected premium offered at 112 and unavailable, got %+v ok=%v", premium, ok)
	}
	if p.CNG.IsSet() {
		t.Fatalf("expected cng flag without price to be dropped")
	}
	if v, ok := p.CardPayment.Get(); !ok || !v {
		t.Fatalf("expected card payment true")
	}
	if p.UPIPayment.IsSet() {
		t.Fatalf("expected null upi to be absent")
	}
	if p.LastUpdated.IsZero() || p.OwnerID != "admin-1" {
		t.Fatalf("unexpected metadata %v %q", p.LastUpdated, p.OwnerID)
	}
}

func TestMarshalOmitsAbsentOptionals(t *testing.T) {
	p := PumpRecord{
		ID:              "p1",
		Name:            "BPCL",
		Address:         "Beach Road",
		District:        "Kozhikode",
		PetrolPrice:     decimal.RequireFromString("104.50"),
		DieselPrice:     decimal.RequireFromString("93"),
		PetrolAvailable: true,
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	for _, key := range []string{"premiumPetrolPrice", "cngAvailable", "cardPayment", "lastUpdated", "undefined", "null"} {
		if strings.Contains(body, key) {
			t.Fatalf("expected %q to be omitted: %s", key, body)
		}
	}
	if !strings.Contains(body, `"petrolPrice":104.5`) {
		t.Fatalf("expected numeric price, got %s", body)
	}
}

func TestRecordSurvivesStoreEncoding(t *testing.T) {
	p := PumpRecord{
		ID:              "p2",
		Name:            "HP",
		Address:         "NH 66",
		District:        "Kollam",
		Lat:             8.8932,
		Lng:             76.6141,
		PetrolPrice:     decimal.RequireFromString("105.1"),
		DieselPrice:     decimal.RequireFromString("94.05"),
		DieselAvailable: true,
		CNG:             Some(FuelOffer{Price: decimal.RequireFromString("89.9"), Available: true}),
		UPIPayment:      Some(false),
		LastUpdated:     time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
		OwnerID:         "admin-2",
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back PumpRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(p) {
		t.Fatalf("record changed through encoding:\n got %+v\nwant %+v", back, p)
	}
}

func TestOffers(t *testing.T) {
	p := PumpRecord{
		PetrolAvailable: true,
		PremiumPetrol:   Some(FuelOffer{Price: decimal.NewFromInt(110), Available: false}),
	}

	cases := map[FuelType]bool{
		FuelAll:     true,
		FuelPetrol:  true,
		FuelDiesel:  false,
		FuelPremium: false,
		FuelCNG:     false,
	}
	for fuel, want := range cases {
		if got := p.Offers(fuel); got != want {
			t.Fatalf("Offers(%s) = %v, want %v", fuel, got, want)
		}
	}
}

func TestPumpInputToRecord(t *testing.T) {
	yes := true
	price := decimal.NewFromInt(80)

	base := PumpInput{Name: "A", Address: "B", District: "C", Lat: 10, Lng: 76}

	rec, err := base.ToRecord()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PremiumPetrol.IsSet() || rec.CNG.IsSet() || rec.CardPayment.IsSet() {
		t.Fatalf("expected optionals absent: %+v", rec)
	}

	withCNG := base
	withCNG.CNGPrice = &price
	rec, err = withCNG.ToRecord()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer, ok := rec.CNG.Get(); !ok || offer.Available {
		t.Fatalf("expected cng offered but unavailable, got %+v", offer)
	}

	flagOnly := base
	flagOnly.CNGAvailable = &yes
	_, err = flagOnly.ToRecord()
	var vErr ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "cngPrice" {
		t.Fatalf("expected cngPrice validation error, got %v", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*PumpRecord)
	}{
		{"name", func(p *PumpRecord) { p.Name = " " }},
		{"address", func(p *PumpRecord) { p.Address = "" }},
		{"district", func(p *PumpRecord) { p.District = "" }},
		{"lat", func(p *PumpRecord) { p.Lat = 91 }},
		{"lng", func(p *PumpRecord) { p.Lng = -181 }},
		{"lat", func(p *PumpRecord) { p.Lat = math.NaN() }},
		{"lng", func(p *PumpRecord) { p.Lng = math.Inf(1) }},
		{"petrolPrice", func(p *PumpRecord) { p.PetrolPrice = decimal.NewFromInt(-1) }},
		{"premiumPetrolPrice", func(p *PumpRecord) {
			p.PremiumPetrol = Some(FuelOffer{Price: decimal.NewFromInt(-5)})
		}},
	}

	for _, tc := range cases {
		p := PumpRecord{Name: "n", Address: "a", District: "d"}
		tc.mutate(&p)
		var vErr ValidationError
		if err := p.Validate(); !errors.As(err, &vErr) || vErr.Field != tc.field {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
}

func TestFilterCriteriaSummary(t *testing.T) {
	cases := []struct {
		criteria FilterCriteria
		want     string
	}{
		{FilterCriteria{}, "3 total pumps"},
		{FilterCriteria{District: "all", FuelType: FuelDiesel}, "3 pumps with diesel available"},
		{FilterCriteria{District: "Thrissur"}, "3 pumps in Thrissur"},
		{FilterCriteria{District: "Thrissur", FuelType: FuelCNG}, "3 pumps in Thrissur with cng available"},
	}
	for _, tc := range cases {
		if got := tc.criteria.Summary(3); got != tc.want {
			t.Fatalf("Summary(%+v) = %q, want %q", tc.criteria, got, tc.want)
		}
	}
}

func TestParseFuelType(t *testing.T) {
	if ft, err := ParseFuelType(""); err != nil || ft != FuelAll {
		t.Fatalf("expected blank to mean all, got %q %v", ft, err)
	}
	if ft, err := ParseFuelType(" CNG "); err != nil || ft != FuelCNG {
		t.Fatalf("expected cng, got %q %v", ft, err)
	}
	if _, err := ParseFuelType("kerosene"); err == nil {
		t.Fatalf("expected error for unknown fuel type")
	}
}

func TestValidateCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng float64
		field    string
	}{
		{10.5, 76.2, ""},
		{-90, 180, ""},
		{math.NaN(), 76, "lat"},
		{math.Inf(-1), 76, "lat"},
		{10, math.NaN(), "lng"},
		{90.01, 0, "lat"},
		{0, 180.5, "lng"},
	}
	for _, tc := range cases {
		err := ValidateCoordinates(tc.lat, tc.lng)
		var vErr ValidationError
		switch {
		case tc.field == "" && err != nil:
			t.Fatalf("ValidateCoordinates(%v, %v) = %v, want nil", tc.lat, tc.lng, err)
		case tc.field != "" && (!errors.As(err, &vErr) || vErr.Field != tc.field):
			t.Fatalf("ValidateCoordinates(%v, %v) = %v, want error on %s", tc.lat, tc.lng, err, tc.field)
		}
	}
}

func TestUnmarshalDropsNonFiniteCoordinates(t *testing.T) {
	var p PumpRecord
	if err := json.Unmarshal([]byte(`{"id":"a","name":"n","lat":"NaN","lng":"+Inf"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Lat != 0 || p.Lng != 0 {
		t.Fatalf("expected non-finite coordinates to decode as 0, got %v %v", p.Lat, p.Lng)
	}
}
