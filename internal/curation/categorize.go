package curation

import "hotel_curator/internal/domain"

var categorySignals = map[domain.Category]signalGroup{
	domain.CategoryBeachIsland: {
		keywords:  []string{"beach", "beachfront", "island", "seafront", "lagoon", "overwater"},
		amenities: []string{"beach", "private_beach", "overwater"},
	},
	domain.CategoryInfinityRooftop: {
		keywords:  []string{"infinity pool", "rooftop"},
		amenities: []string{"infinity_pool", "rooftop"},
	},
	domain.CategoryDesignHeritage: groupDesign,
	domain.CategoryWellness: {
		keywords:  []string{"spa", "wellness", "thermal", "hammam", "retreat"},
		amenities: []string{"spa", "sauna", "hammam", "hot_tub", "wellness", "thermal_bath"},
	},
	domain.CategoryScenicNature: groupNature,
	domain.CategoryCityView: {
		keywords:  []string{"skyline", "city view", "downtown", "city centre", "city center"},
		amenities: []string{"city_view"},
	},
	domain.CategoryVillasSuites: {
		keywords:  []string{"villa", "suite", "bungalow", "private pool", "chalet"},
		amenities: []string{"private_pool", "villa", "kitchenette"},
	},
}

// Categorizer assigns exactly one display category, honoring the priority
// order of domain.Categories when several match.
type Categorizer struct {
	fallback domain.Category
}

func NewCategorizer(cfg PipelineConfig) *Categorizer {
	fb := cfg.DefaultCategory
	if !fb.Valid() {
		fb = domain.CategoryCityView
	}
	return &Categorizer{fallback: fb}
}

func (c *Categorizer) Categorize(h domain.Hotel) domain.Category {
	f := newFeatures(h)
	for _, cat := range domain.Categories {
		if f.matches(categorySignals[cat]) {
			return cat
		}
	}
	return c.fallback
}
