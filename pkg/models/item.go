package models

import "time"

// Item is a simple owned, named resource. Coffee, water, brewer, filter
// and vessel all share this shape and differ only in their table.
type Item struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemKind names a simple resource and binds it to its table.
type ItemKind struct {
	// Singular is used in messages and error codes ("coffee").
	Singular string
	// Plural is the URL segment ("coffees").
	Plural string
	// Table is the backing table name. Only ever one of the fixed kinds
	// below; never derived from request input.
	Table string
}

// The five gear resources of the brew log.
var (
	KindCoffee = ItemKind{Singular: "coffee", Plural: "coffees", Table: "coffees"}
	KindWater  = ItemKind{Singular: "water", Plural: "waters", Table: "waters"}
	KindBrewer = ItemKind{Singular: "brewer", Plural: "brewers", Table: "brewers"}
	KindFilter = ItemKind{Singular: "filter", Plural: "filters", Table: "filters"}
	KindVessel = ItemKind{Singular: "vessel", Plural: "vessels", Table: "vessels"}
)

// ItemKinds lists every simple resource, in registration order.
var ItemKinds = []ItemKind{KindCoffee, KindWater, KindBrewer, KindFilter, KindVessel}
