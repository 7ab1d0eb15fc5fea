package curation_test

import (
	"reflect"
	"testing"

	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

func evaluate(h domain.Hotel, photos int) curation.Verdict {
	cfg := curation.DefaultPipelineConfig()
	return curation.NewGate(cfg).Evaluate(h, photos, curation.NewScorer(cfg).Score(h))
}

func TestGate_AcceptsAndCategorizes(t *testing.T) {
	v := evaluate(seasideVilla(), 5)
	if !v.Accepted || v.Reason != "" {
		t.Fatalf("expected accept, got %+v", v)
	}
	if v.Category == nil || *v.Category != domain.CategoryBeachIsland {
		t.Fatalf("expected beach_island, got %v", v.Category)
	}
}

func TestGate_Rejections(t *testing.T) {
	blacklisted := seasideVilla()
	blacklisted.Brand = "IBIS"

	lowRating := seasideVilla()
	lowRating.Rating = ptr(3.8)

	pricey := seasideVilla()
	pricey.Price = &domain.Price{Amount: 3000, Currency: "EUR"}

	bland := domain.Hotel{Name: "Plain Inn", City: "Nowhere", Rating: ptr(4.2)}

	cases := []struct {
		name    string
		h       domain.Hotel
		photos  int
		reasons []string
	}{
		{"blacklisted", blacklisted, 5, []string{curation.ReasonBlacklistedBrand}},
		{"blacklisted no photos", blacklisted, 0, []string{curation.ReasonBlacklistedBrand, curation.ReasonInsufficientPics}},
		{"low rating", lowRating, 5, []string{curation.ReasonRatingTooLow}},
		{"price", pricey, 5, []string{curation.ReasonPriceTooHigh}},
		{"bland", bland, 6, []string{curation.ReasonBelowScore}},
		{"no photos", seasideVilla(), 0, []string{curation.ReasonInsufficientPics}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := evaluate(tc.h, tc.photos)
			if v.Accepted || v.Category != nil {
				t.Fatalf("expected reject, got %+v", v)
			}
			if v.Reason != tc.reasons[0] || !reflect.DeepEqual(v.Reasons, tc.reasons) {
				t.Fatalf("got reason %q reasons %v, want %v", v.Reason, v.Reasons, tc.reasons)
			}
		})
	}
}

func TestGate_UnknownCurrencyAndMissingRatingPass(t *testing.T) {
	h := seasideVilla()
	h.Rating = nil
	h.Price = &domain.Price{Amount: 999999, Currency: "JPY"}
	if v := evaluate(h, 3); !v.Accepted {
		t.Fatalf("expected accept, got %+v", v)
	}
}
