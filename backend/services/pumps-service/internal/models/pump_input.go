package models

import "github.com/shopspring/decimal"

// PumpInput is the admin form payload for creating or replacing a pump.
type PumpInput struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Address                string           `json:"address"`
	District               string           `json:"district"`
	Lat                    float64          `json:"lat"`
	Lng                    float64          `json:"lng"`
	PetrolPrice            decimal.Decimal  `json:"petrolPrice"`
	DieselPrice            decimal.Decimal  `json:"dieselPrice"`
	PetrolAvailable        bool             `json:"petrolAvailable"`
	DieselAvailable        bool             `json:"dieselAvailable"`
	PremiumPetrolPrice     *decimal.Decimal `json:"premiumPetrolPrice"`
	PremiumPetrolAvailable *bool            `json:"premiumPetrolAvailable"`
	CNGPrice               *decimal.Decimal `json:"cngPrice"`
	CNGAvailable           *bool            `json:"cngAvailable"`
	CardPayment            *bool            `json:"cardPayment"`
	UPIPayment             *bool            `json:"upiPayment"`
}

// ToRecord converts the payload and validates it. Server-owned fields (owner, timestamp)
// are left for the store to fill.
func (in PumpInput) ToRecord() (PumpRecord, error) {
	premium, err := inputOffer("premiumPetrol", in.PremiumPetrolPrice, in.PremiumPetrolAvailable)
	if err != nil {
		return PumpRecord{}, err
	}
	cng, err := inputOffer("cng", in.CNGPrice, in.CNGAvailable)
	if err != nil {
		return PumpRecord{}, err
	}

	rec := PumpRecord{
		ID:              in.ID,
		Name:            in.Name,
		Address:         in.Address,
		District:        in.District,
		Lat:             in.Lat,
		Lng:             in.Lng,
		PetrolPrice:     in.PetrolPrice,
		DieselPrice:     in.DieselPrice,
		PetrolAvailable: in.PetrolAvailable,
		DieselAvailable: in.DieselAvailable,
		PremiumPetrol:   premium,
		CNG:             cng,
		CardPayment:     optionalFromPtr(in.CardPayment),
		UPIPayment:      optionalFromPtr(in.UPIPayment),
	}
	if err := rec.Validate(); err != nil {
		return PumpRecord{}, err
	}
	return rec, nil
}

func inputOffer(prefix string, price *decimal.Decimal, available *bool) (Optional[FuelOffer], error) {
	if price == nil {
		if available != nil && *available {
			return None[FuelOffer](), invalid(prefix+"Price", "is required when "+prefix+" is marked available")
		}
		return None[FuelOffer](), nil
	}
	offer := FuelOffer{Price: *price}
	if available != nil {
		offer.Available = *available
	}
	return Some(offer), nil
}

func optionalFromPtr[T any](v *T) Optional[T] {
	if v == nil {
		return None[T]()
	}
	return Some(*v)
}
