package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"hotel_curator/internal/app"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestMapHotelRecord_Aliases(t *testing.T) {
	h, err := app.MapHotelRecord(decode(t, `{
		"hotel_id": 1201,
		"hotel_name": "Canaves Oia",
		"address": {"city": "Oia", "country": "GR"},
		"location": {"lat": 36.46, "lng": 25.37},
		"review_score": "9,2",
		"chain": {"name": "SLH"},
		"facilities": [{"name": "Infinity pool"}, "Spa"],
		"rate_per_night": {"extracted_lowest": 640},
		"currency": "eur"
	}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if h.ID != "1201" || h.Name != "Canaves Oia" || h.City != "Oia" || h.Country != "GR" || h.Brand != "SLH" {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if h.Lat == nil || *h.Lat != 36.46 || h.Lon == nil || *h.Lon != 25.37 {
		t.Fatalf("coords: %+v %+v", h.Lat, h.Lon)
	}
	if h.Rating == nil || math.Abs(*h.Rating-4.6) > 1e-9 {
		t.Fatalf("10-point rating should scale to 5: %v", h.Rating)
	}
	if h.Price == nil || h.Price.Amount != 640 || h.Price.Currency != "EUR" {
		t.Fatalf("price: %+v", h.Price)
	}
	if len(h.Amenities) != 2 || h.Amenities[0] != "Infinity pool" {
		t.Fatalf("amenities: %v", h.Amenities)
	}
}

func TestMapHotelRecord_DerivedIDAndMissingName(t *testing.T) {
	rec := decode(t, `{"name": "Tower 9", "city": "Dubai", "rating": 4.4}`)
	h1, err := app.MapHotelRecord(rec)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	h2, _ := app.MapHotelRecord(rec)
	if h1.ID == "" || h1.ID != h2.ID || len(h1.ID) != 16 {
		t.Fatalf("derived id should be stable: %q %q", h1.ID, h2.ID)
	}
	if *h1.Rating != 4.4 {
		t.Fatalf("5-point rating should be kept: %v", *h1.Rating)
	}

	if _, err := app.MapHotelRecord(decode(t, `{"city": "Nowhere"}`)); !errors.Is(err, app.ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
}

func TestImport(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := app.NewImportService(repo, cache)

	rep, err := svc.Import(context.Background(), []map[string]any{
		decode(t, `{"id": "h1", "name": "Seaside Villa", "city": "Mykonos"}`),
		decode(t, `{"city": "no name"}`),
		decode(t, `{"id": "h2", "name": "Tower 9"}`),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.Imported != 2 || rep.Skipped != 1 || len(repo.hotels) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(cache.dels) != 2 || cache.dels[0] != "hotel:h1" {
		t.Fatalf("expected cache invalidation, got %v", cache.dels)
	}
}
