package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FuelOffer pairs the price of an optional fuel with its availability, so neither can exist
// without the other.
type FuelOffer struct {
	Price     decimal.Decimal
	Available bool
}

// PumpRecord is one fuel station. Records are replaced wholesale on edit.
type PumpRecord struct {
	ID              string
	Name            string
	Address         string
	District        string
	Lat             float64
	Lng             float64
	PetrolPrice     decimal.Decimal
	DieselPrice     decimal.Decimal
	PetrolAvailable bool
	DieselAvailable bool
	PremiumPetrol   Optional[FuelOffer]
	CNG             Optional[FuelOffer]
	CardPayment     Optional[bool]
	UPIPayment      Optional[bool]
	LastUpdated     time.Time
	OwnerID         string
}

// Offers reports whether the fuel is strictly available. A fuel the pump does not stock
// never matches.
func (p PumpRecord) Offers(fuel FuelType) bool {
	switch fuel {
	case FuelAll:
		return true
	case FuelPetrol:
		return p.PetrolAvailable
	case FuelDiesel:
		return p.DieselAvailable
	case FuelPremium:
		offer, ok := p.PremiumPetrol.Get()
		return ok && offer.Available
	case FuelCNG:
		offer, ok := p.CNG.Get()
		return ok && offer.Available
	default:
		return false
	}
}

// ValidateCoordinates rejects positions outside the globe, NaN and infinities included.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return invalid("lat", "must be a number between -90 and 90")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return invalid("lng", "must be a number between -180 and 180")
	}
	return nil
}

// Validate checks required fields and value ranges.
func (p PumpRecord) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return invalid("name", "is required")
	case strings.TrimSpace(p.Address) == "":
		return invalid("address", "is required")
	case strings.TrimSpace(p.District) == "":
		return invalid("district", "is required")
	}
	if err := ValidateCoordinates(p.Lat, p.Lng); err != nil {
		return err
	}
	switch {
	case p.PetrolPrice.IsNegative():
		return invalid("petrolPrice", "must not be negative")
	case p.DieselPrice.IsNegative():
		return invalid("dieselPrice", "must not be negative")
	}
	if offer, ok := p.PremiumPetrol.Get(); ok && offer.Price.IsNegative() {
		return invalid("premiumPetrolPrice", "must not be negative")
	}
	if offer, ok := p.CNG.Get(); ok && offer.Price.IsNegative() {
		return invalid("cngPrice", "must not be negative")
	}
	return nil
}

// Equal compares records field by field; decimals compare by value.
func (p PumpRecord) Equal(o PumpRecord) bool {
	return p.ID == o.ID && p.Name == o.Name && p.Address == o.Address && p.District == o.District &&
		p.Lat == o.Lat && p.Lng == o.Lng &&
		p.PetrolPrice.Equal(o.PetrolPrice) && p.DieselPrice.Equal(o.DieselPrice) &&
		p.PetrolAvailable == o.PetrolAvailable && p.DieselAvailable == o.DieselAvailable &&
		offerEqual(p.PremiumPetrol, o.PremiumPetrol) && offerEqual(p.CNG, o.CNG) &&
		p.CardPayment == o.CardPayment && p.UPIPayment == o.UPIPayment &&
		p.LastUpdated.Equal(o.LastUpdated) && p.OwnerID == o.OwnerID
}

func offerEqual(a, b Optional[FuelOffer]) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	if aok != bok {
		return false
	}
	return !aok || (av.Available == bv.Available && av.Price.Equal(bv.Price))
}

// pumpJSON is the flat wire shape shared with browser clients and the blob store.
type pumpJSON struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Address                string       `json:"address"`
	District               string       `json:"district"`
	Lat                    float64      `json:"lat"`
	Lng                    float64      `json:"lng"`
	PetrolPrice            json.Number  `json:"petrolPrice"`
	DieselPrice            json.Number  `json:"dieselPrice"`
	PetrolAvailable        bool         `json:"petrolAvailable"`
	DieselAvailable        bool         `json:"dieselAvailable"`
	PremiumPetrolPrice     *json.Number `json:"premiumPetrolPrice,omitempty"`
	PremiumPetrolAvailable *bool        `json:"premiumPetrolAvailable,omitempty"`
	CNGPrice               *json.Number `json:"cngPrice,omitempty"`
	CNGAvailable           *bool        `json:"cngAvailable,omitempty"`
	CardPayment            *bool        `json:"cardPayment,omitempty"`
	UPIPayment             *bool        `json:"upiPayment,omitempty"`
	LastUpdated            *time.Time   `json:"lastUpdated,omitempty"`
	OwnerID                string       `json:"ownerId,omitempty"`
}

// MarshalJSON writes the flat shape; absent optionals are omitted.
func (p PumpRecord) MarshalJSON() ([]byte, error) {
	out := pumpJSON{
		ID:              p.ID,
		Name:            p.Name,
		Address:         p.Address,
		District:        p.District,
		Lat:             p.Lat,
		Lng:             p.Lng,
		PetrolPrice:     json.Number(p.PetrolPrice.String()),
		DieselPrice:     json.Number(p.DieselPrice.String()),
		PetrolAvailable: p.PetrolAvailable,
		DieselAvailable: p.DieselAvailable,
		OwnerID:         p.OwnerID,
	}
	if offer, ok := p.PremiumPetrol.Get(); ok {
		price := json.Number(offer.Price.String())
		out.PremiumPetrolPrice = &price
		out.PremiumPetrolAvailable = &offer.Available
	}
	if offer, ok := p.CNG.Get(); ok {
		price := json.Number(offer.Price.String())
		out.CNGPrice = &price
		out.CNGAvailable = &offer.Available
	}
	if v, ok := p.CardPayment.Get(); ok {
		out.CardPayment = &v
	}
	if v, ok := p.UPIPayment.Get(); ok {
		out.UPIPayment = &v
	}
	if !p.LastUpdated.IsZero() {
		ts := p.LastUpdated.UTC()
		out.LastUpdated = &ts
	}
	return json.Marshal(out)
}

// storedPump accepts whatever older clients wrote: numbers or strings for prices and
// coordinates, and loosely typed availability flags.
type storedPump struct {
	ID                     json.RawMessage `json:"id"`
	Name                   string          `json:"name"`
	Address                string          `json:"address"`
	District               string          `json:"district"`
	Lat                    json.RawMessage `json:"lat"`
	Lng                    json.RawMessage `json:"lng"`
	PetrolPrice            json.RawMessage `json:"petrolPrice"`
	DieselPrice            json.RawMessage `json:"dieselPrice"`
	PetrolAvailable        json.RawMessage `json:"petrolAvailable"`
	DieselAvailable        json.RawMessage `json:"dieselAvailable"`
	PremiumPetrolPrice     json.RawMessage `json:"premiumPetrolPrice"`
	PremiumPetrolAvailable json.RawMessage `json:"premiumPetrolAvailable"`
	CNGPrice               json.RawMessage `json:"cngPrice"`
	CNGAvailable           json.RawMessage `json:"cngAvailable"`
	CardPayment            json.RawMessage `json:"cardPayment"`
	UPIPayment             json.RawMessage `json:"upiPayment"`
	LastUpdated            json.RawMessage `json:"lastUpdated"`
	OwnerID                json.RawMessage `json:"ownerId"`
}

// UnmarshalJSON decodes a stored record, coercing availability values to strict booleans.
// An optional fuel exists only when its price does; a flag without a price is dropped.
func (p *PumpRecord) UnmarshalJSON(data []byte) error {
	var in storedPump
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	rec := PumpRecord{
		ID:              rawText(in.ID),
		Name:            in.Name,
		Address:         in.Address,
		District:        in.District,
		Lat:             rawFloat(in.Lat),
		Lng:             rawFloat(in.Lng),
		PetrolPrice:     rawDecimal(in.PetrolPrice).OrElse(decimal.Zero),
		DieselPrice:     rawDecimal(in.DieselPrice).OrElse(decimal.Zero),
		PetrolAvailable: coerceBool(in.PetrolAvailable),
		DieselAvailable: coerceBool(in.DieselAvailable),
		PremiumPetrol:   rawOffer(in.PremiumPetrolPrice, in.PremiumPetrolAvailable),
		CNG:             rawOffer(in.CNGPrice, in.CNGAvailable),
		CardPayment:     rawOptionalBool(in.CardPayment),
		UPIPayment:      rawOptionalBool(in.UPIPayment),
		OwnerID:         rawText(in.OwnerID),
	}
	if ts := rawText(in.LastUpdated); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.LastUpdated = parsed
		}
	}

	*p = rec
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// rawText accepts strings and numbers (ids written as Date.now() timestamps).
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func rawFloat(raw json.RawMessage) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(rawText(raw)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func rawDecimal(raw json.RawMessage) Optional[decimal.Decimal] {
	text := strings.TrimSpace(rawText(raw))
	if text == "" {
		return None[decimal.Decimal]()
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return None[decimal.Decimal]()
	}
	return Some(d)
}

func rawOffer(price, available json.RawMessage) Optional[FuelOffer] {
	d, ok := rawDecimal(price).Get()
	if !ok {
		return None[FuelOffer]()
	}
	return Some(FuelOffer{Price: d, Available: coerceBool(available)})
}

func rawOptionalBool(raw json.RawMessage) Optional[bool] {
	if isNull(raw) {
		return None[bool]()
	}
	return Some(coerceBool(raw))
}

// coerceBool follows JavaScript truthiness for JSON values.
func coerceBool(raw json.RawMessage) bool {
	if isNull(raw) {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
