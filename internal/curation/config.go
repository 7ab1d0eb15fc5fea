package curation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"hotel_curator/internal/domain"
)

// PipelineConfig carries every tunable of the curation pipeline. It is passed
// explicitly to the Acquirer, Scorer and Gate.
type PipelineConfig struct {
	Resolution        ResolutionPolicy
	ProviderContracts map[string]Dimensions // fixed sizes a provider guarantees when metadata is absent

	TargetPhotos           int
	DefaultSupplierTimeout time.Duration
	SupplierTimeouts       map[string]time.Duration

	Weights           Weights
	AmenitySaturation float64
	MinQualityRating  float64
	PriceCeilings     map[string]float64 // currency -> nightly ceiling before penalty applies
	PricePenaltyRate  float64
	MaxPricePenalty   float64
	Brands            BrandTiers
	TopDestinations   []string

	MinScore        float64
	MinPhotos       int
	MinRating       float64
	MaxPrices       map[string]float64
	DefaultCategory domain.Category
}

type Dimensions struct{ Width, Height int }

type Weights struct {
	Visual   float64
	Amenity  float64
	Brand    float64
	Location float64
	Rating   float64
}

func (w Weights) Sum() float64 {
	return w.Visual + w.Amenity + w.Brand + w.Location + w.Rating
}

// BrandTiers is the single brand table. When a brand matches several tiers
// the blacklist wins, then premium, then boutique.
type BrandTiers struct {
	BlacklistCodes    []string
	BlacklistKeywords []string
	PremiumCodes      []string
	PremiumKeywords   []string
	BoutiqueCodes     []string
	BoutiqueKeywords  []string

	PremiumScore  float64
	BoutiqueScore float64
	NeutralScore  float64
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Resolution: ResolutionPolicy{Mode: PolicyBoth, MinWidth: 1600, MinHeight: 1067},
		ProviderContracts: map[string]Dimensions{
			"google_places": {Width: 1600, Height: 1067},
		},

		TargetPhotos:           6,
		DefaultSupplierTimeout: 15 * time.Second,
		SupplierTimeouts: map[string]time.Duration{
			"google_places": 10 * time.Second,
			"serpapi":       20 * time.Second,
			"unsplash":      5 * time.Second,
		},

		Weights:           Weights{Visual: 0.35, Amenity: 0.25, Brand: 0.15, Location: 0.15, Rating: 0.10},
		AmenitySaturation: 8,
		MinQualityRating:  2.0,
		PriceCeilings:     map[string]float64{"EUR": 800, "USD": 900, "GBP": 700},
		PricePenaltyRate:  0.1,
		MaxPricePenalty:   0.3,
		Brands:            DefaultBrandTiers(),
		TopDestinations: []string{
			"mykonos", "santorini", "amalfi", "positano", "capri", "lake como", "bellagio",
			"bali", "ubud", "uluwatu", "maldives", "bora bora", "seychelles", "mauritius",
			"tulum", "cabo san lucas", "kyoto", "marrakech", "cape town", "queenstown",
			"dubrovnik", "hvar", "lisbon", "comporta", "paris", "barcelona", "ibiza",
			"mallorca", "dubai", "reykjavik", "zermatt", "st. moritz", "courchevel",
			"phuket", "koh samui", "tokyo", "new york", "big sur", "sedona",
		},

		MinScore:        0.55,
		MinPhotos:       3,
		MinRating:       4.0,
		MaxPrices:       map[string]float64{"EUR": 2500, "USD": 2700, "GBP": 2200},
		DefaultCategory: domain.CategoryCityView,
	}
}

func DefaultBrandTiers() BrandTiers {
	return BrandTiers{
		BlacklistCodes: []string{"IBIS", "IBISBUDGET", "MOTEL6", "SUPER8", "DAYSINN", "TRAVELODGE", "PREMIERINN", "REDROOF", "EASYHOTEL", "BBHOTELS"},
		BlacklistKeywords: []string{
			"ibis", "motel 6", "super 8", "days inn", "travelodge", "premier inn",
			"red roof", "easyhotel", "b&b hotel", "holiday inn express", "comfort inn",
			"econo lodge", "hotel f1", "formule 1",
		},
		PremiumCodes: []string{"AMAN", "FOURSEASONS", "ROSEWOOD", "BELMOND", "MANDARINORIENTAL", "SIXSENSES", "ONEANDONLY", "RITZCARLTON", "STREGIS", "BULGARI"},
		PremiumKeywords: []string{
			"aman", "four seasons", "rosewood", "belmond", "mandarin oriental",
			"six senses", "one&only", "ritz-carlton", "st. regis", "bulgari",
			"cheval blanc", "oetker",
		},
		BoutiqueCodes: []string{"DESIGNHOTELS", "RELAIS", "SLH", "EDITION", "AUTOGRAPH", "TRIBUTE", "LHW"},
		BoutiqueKeywords: []string{
			"design hotels", "relais & chateaux", "relais & châteaux", "small luxury hotels",
			"edition", "autograph collection", "tribute portfolio", "leading hotels",
			"nobu", "soho house", "1 hotel",
		},
		PremiumScore:  1.0,
		BoutiqueScore: 0.7,
		NeutralScore:  0.5,
	}
}

// SupplierTimeout returns the call timeout configured for a provider.
func (c PipelineConfig) SupplierTimeout(provider string) time.Duration {
	if d, ok := c.SupplierTimeouts[provider]; ok && d > 0 {
		return d
	}
	if c.DefaultSupplierTimeout > 0 {
		return c.DefaultSupplierTimeout
	}
	return 15 * time.Second
}

// ValidateConfig checks that a PipelineConfig is internally consistent.
func ValidateConfig(c PipelineConfig) error {
	var errs []string

	weights := map[string]float64{
		"visual":   c.Weights.Visual,
		"amenity":  c.Weights.Amenity,
		"brand":    c.Weights.Brand,
		"location": c.Weights.Location,
		"rating":   c.Weights.Rating,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
	}
	if math.Abs(c.Weights.Sum()-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.3f", c.Weights.Sum()))
	}

	switch c.Resolution.Mode {
	case PolicyBoth:
		if c.Resolution.MinWidth <= 0 || c.Resolution.MinHeight <= 0 {
			errs = append(errs, "resolution min width and height must be > 0")
		}
	case PolicyArea:
		if c.Resolution.MinPixels <= 0 {
			errs = append(errs, "resolution min pixels must be > 0")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown resolution mode %q", c.Resolution.Mode))
	}

	if c.TargetPhotos <= 0 {
		errs = append(errs, "target photos must be > 0")
	}
	if c.AmenitySaturation <= 0 {
		errs = append(errs, "amenity saturation must be > 0")
	}
	if c.MinQualityRating < 0 || c.MinQualityRating >= 5 {
		errs = append(errs, "min quality rating must be in [0,5)")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		errs = append(errs, "min score must be between 0 and 1")
	}
	if c.MinPhotos < 0 {
		errs = append(errs, "min photos must be >= 0")
	}
	if c.PricePenaltyRate < 0 || c.MaxPricePenalty < 0 {
		errs = append(errs, "price penalty settings must be >= 0")
	}
	if !c.DefaultCategory.Valid() {
		errs = append(errs, fmt.Sprintf("unknown default category %q", c.DefaultCategory))
	}

	if len(errs) > 0 {
		return fmt.Errorf("curation: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
