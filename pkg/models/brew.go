package models

import "time"

// Brew is one logged brew: when it happened, which gear was used and the
// two mass measurements. Gear references are optional; a quick log may
// record only the masses.
type Brew struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	BrewDate    time.Time `json:"brew_date"`
	CoffeeID    *int64    `json:"coffee_id,omitempty"`
	WaterID     *int64    `json:"water_id,omitempty"`
	BrewerID    *int64    `json:"brewer_id,omitempty"`
	FilterID    *int64    `json:"filter_id,omitempty"`
	VesselID    *int64    `json:"vessel_id,omitempty"`
	CoffeeMassG *float64  `json:"coffee_mass_g,omitempty"`
	WaterMassG  *float64  `json:"water_mass_g,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrewUpdate is a partial update over brew attributes.
type BrewUpdate struct {
	BrewDate    *time.Time
	CoffeeID    *int64
	WaterID     *int64
	BrewerID    *int64
	FilterID    *int64
	VesselID    *int64
	CoffeeMassG *float64
	WaterMassG  *float64
}

// Empty reports whether no attribute is being updated.
func (u *BrewUpdate) Empty() bool {
	return u.BrewDate == nil && u.CoffeeID == nil && u.WaterID == nil &&
		u.BrewerID == nil && u.FilterID == nil && u.VesselID == nil &&
		u.CoffeeMassG == nil && u.WaterMassG == nil
}

// BrewFilter narrows brew reads.
type BrewFilter struct {
	CoffeeID *int64
	From     *time.Time
	To       *time.Time
}
