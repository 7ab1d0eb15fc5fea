package domain

import "time"

type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lon         *float64  `json:"lon,omitempty"`
	Description string    `json:"description,omitempty"`
	Amenities   []string  `json:"amenities,omitempty"`
	Brand       string    `json:"brand,omitempty"` // chain code or brand name; empty when independent
	Rating      *float64  `json:"rating,omitempty"`
	Price       *Price    `json:"price,omitempty"`
	Photos      []Photo   `json:"photos,omitempty"`
	HeroPhoto   string    `json:"hero_photo,omitempty"` // Ref of an element of Photos
	Tags        []string  `json:"tags,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Score       float64   `json:"score"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Photo is the accepted, persisted form of a candidate.
type Photo struct {
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
	Ref         string `json:"ref"`
}

type Category string

const (
	CategoryBeachIsland     Category = "beach_island"
	CategoryInfinityRooftop Category = "infinity_rooftop"
	CategoryDesignHeritage  Category = "design_heritage"
	CategoryWellness        Category = "wellness"
	CategoryScenicNature    Category = "scenic_nature"
	CategoryCityView        Category = "city_view"
	CategoryVillasSuites    Category = "villas_suites"
)

// Categories lists every display category in assignment priority order.
var Categories = []Category{
	CategoryBeachIsland,
	CategoryInfinityRooftop,
	CategoryDesignHeritage,
	CategoryWellness,
	CategoryScenicNature,
	CategoryCityView,
	CategoryVillasSuites,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// HotelCuration is everything one pipeline run writes for a hotel.
// Stores must apply it as a single atomic update.
type HotelCuration struct {
	HotelID   string
	Photos    []Photo
	HeroPhoto string
	Tags      []string
	Score     float64
	Category  *Category
	UpdatedAt time.Time
}
