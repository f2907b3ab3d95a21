package models

import "time"

// Food categories referenced by weather rules.
const (
	CategorySoup       = "soup"
	CategoryHotDrinks  = "hot_drinks"
	CategoryColdDrinks = "cold_drinks"
	CategoryIceCream   = "ice_cream"
	CategorySalad      = "salad"
	CategoryDessert    = "dessert"
)

type Food struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PricedFood is a catalogue entry with the caller's resolved price attached.
type PricedFood struct {
	Food
	Pricing *PriceQuote `json:"pricing,omitempty"`
}
