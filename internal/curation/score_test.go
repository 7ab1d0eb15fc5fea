package curation_test

import (
	"math"
	"reflect"
	"testing"

	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func seasideVilla() domain.Hotel {
	return domain.Hotel{
		ID:        "h1",
		Name:      "Seaside Villa",
		City:      "Mykonos",
		Country:   "GR",
		Amenities: []string{"beach", "infinity_pool", "spa"},
		Rating:    ptr(4.6),
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestScore_SeasideVilla(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	b := s.Score(seasideVilla())

	want := curation.ScoreBreakdown{
		Visual: 1, Amenity: 1, Brand: 0.5, Location: 1, Rating: 0.8667,
		Total: 0.9117, BrandTier: curation.TierNeutral,
	}
	if !reflect.DeepEqual(b, want) {
		t.Fatalf("got %+v\nwant %+v", b, want)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	h := seasideVilla()
	h.Description = "Whitewashed suites with panoramic sunset views over the caldera."
	if a, b := s.Score(h), s.Score(h); !reflect.DeepEqual(a, b) {
		t.Fatalf("scores differ: %+v vs %+v", a, b)
	}
}

func TestScore_PriceOnlyAffectsPenalty(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	base := s.Score(seasideVilla())

	h := seasideVilla()
	h.Price = &domain.Price{Amount: 1200, Currency: "eur"}
	pricey := s.Score(h)

	if !near(pricey.PricePenalty, 0.05) {
		t.Fatalf("expected penalty 0.05, got %v", pricey.PricePenalty)
	}
	if !near(base.Total-pricey.Total, 0.05) {
		t.Fatalf("total should drop by the penalty: %v -> %v", base.Total, pricey.Total)
	}
	if pricey.Visual != base.Visual || pricey.Amenity != base.Amenity || pricey.Rating != base.Rating {
		t.Fatalf("price must not touch other sub-scores")
	}

	h.Price = &domain.Price{Amount: 100000, Currency: "EUR"}
	if got := s.Score(h).PricePenalty; got != 0.3 {
		t.Fatalf("penalty should cap at 0.3, got %v", got)
	}

	h.Price = &domain.Price{Amount: 100000, Currency: "JPY"}
	if got := s.Score(h).PricePenalty; got != 0 {
		t.Fatalf("unknown currency should not be penalized, got %v", got)
	}
}

func TestScore_Rating(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())

	h := seasideVilla()
	h.Rating = nil
	if b := s.Score(h); b.Rating != 0.5 || b.BelowQualityFloor {
		t.Fatalf("missing rating should be neutral: %+v", b)
	}

	h.Rating = ptr(1.5)
	if b := s.Score(h); b.Rating != 0 || !b.BelowQualityFloor {
		t.Fatalf("rating under floor should flag: %+v", b)
	}

	h.Rating = ptr(5.0)
	if b := s.Score(h); b.Rating != 1 {
		t.Fatalf("top rating should map to 1: %+v", b)
	}
}

func TestScore_BrandTiers(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())

	cases := []struct {
		brand, name string
		tier        curation.BrandTier
		score       float64
	}{
		{"IBIS", "Seaside Villa", curation.TierBlacklist, 0},
		{"", "ibis Styles Mykonos", curation.TierBlacklist, 0},
		{"Four Seasons", "Astir Palace", curation.TierPremium, 1},
		{"", "Mandarin Oriental, Bodrum", curation.TierPremium, 1},
		{"SLH", "Villa Honegg", curation.TierBoutique, 0.7},
		{"", "Seaside Villa", curation.TierNeutral, 0.5},
		// "aman" must match as a word, not inside "Lamanai"
		{"", "Lamanai Lodge", curation.TierNeutral, 0.5},
	}
	for _, tc := range cases {
		h := seasideVilla()
		h.Brand, h.Name = tc.brand, tc.name
		b := s.Score(h)
		if b.BrandTier != tc.tier || b.Brand != tc.score {
			t.Errorf("%q/%q: got %s %.2f want %s %.2f", tc.brand, tc.name, b.BrandTier, b.Brand, tc.tier, tc.score)
		}
	}
}

func TestScore_BrandPrecedence(t *testing.T) {
	cfg := curation.DefaultPipelineConfig()
	cfg.Brands.PremiumCodes = append(cfg.Brands.PremiumCodes, "IBIS")
	cfg.Brands.BoutiqueCodes = append(cfg.Brands.BoutiqueCodes, "AMAN")
	s := curation.NewScorer(cfg)

	h := seasideVilla()
	h.Brand = "ibis"
	if b := s.Score(h); b.BrandTier != curation.TierBlacklist {
		t.Fatalf("blacklist must win over premium, got %s", b.BrandTier)
	}
	h.Brand = "Aman"
	if b := s.Score(h); b.BrandTier != curation.TierPremium {
		t.Fatalf("premium must win over boutique, got %s", b.BrandTier)
	}
}

func TestScore_KeywordsMatchWholeWords(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	h := domain.Hotel{
		Name:        "Plain Inn",
		City:        "Nowhere",
		Description: "Spacious rooms near the station.",
	}
	b := s.Score(h)
	if b.Visual != 0 || b.Amenity != 0 || b.Location != 0 {
		t.Fatalf("expected no signals, got %+v", b)
	}
}

func TestScore_LocationAccentFolded(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	h := domain.Hotel{Name: "Casa", City: "Mýkonos"}
	if b := s.Score(h); b.Location != 0.6 {
		t.Fatalf("expected top destination score, got %v", b.Location)
	}
}

func TestScore_AmenityCodesMatchExactly(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	paris := func(amenities ...string) domain.Hotel {
		return domain.Hotel{Name: "Hotel Lumiere", City: "Paris", Amenities: amenities}
	}

	cases := []struct {
		name            string
		amenities       []string
		visual, amenity float64
	}{
		{"beach", []string{"beach"}, 0.3, 0.375},
		{"private beach scores the beach family once", []string{"private_beach"}, 0.3, 0.375},
		{"both beach codes still once", []string{"beach", "Private Beach"}, 0.3, 0.375},
		{"infinity pool is not a plain pool", []string{"infinity_pool"}, 0.3, 0.375},
		{"infinity and plain pool", []string{"infinity_pool", "pool"}, 0.45, 0.375},
		{"shuttle and bar are not beach or pool", []string{"beach_shuttle", "pool_bar"}, 0, 0},
		{"alias", []string{"Rooftop Pool", "Jacuzzi"}, 0.35, 0.625},
	}
	for _, tc := range cases {
		b := s.Score(paris(tc.amenities...))
		if !near(b.Visual, tc.visual) || !near(b.Amenity, tc.amenity) {
			t.Errorf("%s: visual=%v amenity=%v, want %v %v", tc.name, b.Visual, b.Amenity, tc.visual, tc.amenity)
		}
	}
}

func TestScore_LocationFromBeachAmenity(t *testing.T) {
	s := curation.NewScorer(curation.DefaultPipelineConfig())
	h := domain.Hotel{Name: "Casa", City: "Nowhere", Amenities: []string{"beach"}}
	if b := s.Score(h); b.Location != 0.4 {
		t.Fatalf("beach amenity should count as a beach location, got %v", b.Location)
	}
	h.Amenities = []string{"beach_shuttle"}
	if b := s.Score(h); b.Location != 0 {
		t.Fatalf("beach shuttle is not a beach location, got %v", b.Location)
	}
}
