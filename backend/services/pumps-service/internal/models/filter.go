package models

import (
	"fmt"
	"strings"
)

// FuelType selects which availability flag a filter checks.
type FuelType string

const (
	FuelAll     FuelType = "all"
	FuelPetrol  FuelType = "petrol"
	FuelDiesel  FuelType = "diesel"
	FuelPremium FuelType = "premium"
	FuelCNG     FuelType = "cng"
)

// DistrictAll disables the district filter.
const DistrictAll = "all"

// ParseFuelType normalises user input; blank means all.
func ParseFuelType(raw string) (FuelType, error) {
	switch ft := FuelType(strings.ToLower(strings.TrimSpace(raw))); ft {
	case "":
		return FuelAll, nil
	case FuelAll, FuelPetrol, FuelDiesel, FuelPremium, FuelCNG:
		return ft, nil
	default:
		return "", invalid("fuelType", fmt.Sprintf("unknown fuel type %q", raw))
	}
}

// FilterCriteria narrows the canonical collection: district first, then fuel type.
type FilterCriteria struct {
	District string   `json:"district"`
	FuelType FuelType `json:"fuelType"`
}

// AllPumps matches every record.
func AllPumps() FilterCriteria {
	return FilterCriteria{District: DistrictAll, FuelType: FuelAll}
}

// Normalize maps blank values to "all".
func (c FilterCriteria) Normalize() FilterCriteria {
	c.District = strings.TrimSpace(c.District)
	if c.District == "" || strings.EqualFold(c.District, DistrictAll) {
		c.District = DistrictAll
	}
	if c.FuelType == "" {
		c.FuelType = FuelAll
	}
	return c
}

// Matches evaluates the combined district and fuel predicate.
func (c FilterCriteria) Matches(p PumpRecord) bool {
	c = c.Normalize()
	if c.District != DistrictAll && p.District != c.District {
		return false
	}
	return c.FuelType == FuelAll || p.Offers(c.FuelType)
}

// Summary renders the result-count line shown under the filters.
func (c FilterCriteria) Summary(count int) string {
	c = c.Normalize()
	switch {
	case c.District == DistrictAll && c.FuelType == FuelAll:
		return fmt.Sprintf("%d total pumps", count)
	case c.District == DistrictAll:
		return fmt.Sprintf("%d pumps with %s available", count, c.FuelType)
	case c.FuelType == FuelAll:
		return fmt.Sprintf("%d pumps in %s", count, c.District)
	default:
		return fmt.Sprintf("%d pumps in %s with %s available", count, c.District, c.FuelType)
	}
}
