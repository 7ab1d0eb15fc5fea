package curation_test

import (
	"errors"
	"testing"

	"hotel_curator/internal/curation"
)

func TestNormalize_StringAndObjectShapes(t *testing.T) {
	n := curation.NewNormalizer(curation.DefaultPipelineConfig())

	c, err := n.Normalize("https://cdn.example.com/img/2048x1365/a.jpg", "serpapi")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Width != 2048 || c.Height != 1365 || c.Provider != "serpapi" {
		t.Fatalf("unexpected candidate: %+v", c)
	}

	rec := map[string]any{
		"id":              "abc",
		"width":           4000.0,
		"height":          "2667",
		"urls":            map[string]any{"full": "https://images.unsplash.com/photo-1?ixid=x"},
		"alt_description": "pool at dusk",
		"tags":            []any{map[string]any{"title": "pool"}, "sunset"},
	}
	c, err = n.Normalize(rec, "unsplash")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.URL != "https://images.unsplash.com/photo-1?ixid=x" || c.Width != 4000 || c.Height != 2667 {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if c.ProviderPhotoID != "abc" || c.Caption != "pool at dusk" || len(c.Tags) != 2 {
		t.Fatalf("metadata not carried: %+v", c)
	}
}

func TestNormalize_Errors(t *testing.T) {
	n := curation.NewNormalizer(curation.DefaultPipelineConfig())

	if _, err := n.Normalize(map[string]any{"width": 100.0}, "x"); !errors.Is(err, curation.ErrMissingURL) {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}
	if _, err := n.Normalize("not a url", "x"); !errors.Is(err, curation.ErrMissingURL) {
		t.Fatalf("expected ErrMissingURL for relative url, got %v", err)
	}
	if _, err := n.Normalize(42, "x"); !errors.Is(err, curation.ErrUnknownRecord) {
		t.Fatalf("expected ErrUnknownRecord, got %v", err)
	}
}

func TestNormalize_ProviderContractFillsUnknownDims(t *testing.T) {
	n := curation.NewNormalizer(curation.DefaultPipelineConfig())

	c, err := n.Normalize(map[string]any{"photo_reference": "ref1", "url": "https://maps.example.com/photo?photo_reference=ref1"}, "google_places")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Width != 1600 || c.Height != 1067 {
		t.Fatalf("expected contract dims, got %dx%d", c.Width, c.Height)
	}

	// no contract: stays unknown
	c, err = n.Normalize("https://cdn.example.com/a.jpg", "serpapi")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Width != 0 || c.Height != 0 {
		t.Fatalf("expected unknown dims, got %dx%d", c.Width, c.Height)
	}
}

func TestNormalizeAll_SkipsMalformedKeepsOrder(t *testing.T) {
	n := curation.NewNormalizer(curation.DefaultPipelineConfig())
	got := n.NormalizeAll([]any{
		"https://a.example.com/1.jpg",
		nil,
		map[string]any{"caption": "no url"},
		"https://a.example.com/2.jpg",
	}, "serpapi")
	if len(got) != 2 || got[0].URL != "https://a.example.com/1.jpg" || got[1].URL != "https://a.example.com/2.jpg" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDimensionsFromURL(t *testing.T) {
	cases := []struct {
		url  string
		w, h int
	}{
		{"https://lh3.googleusercontent.com/p/AF1Q=w1920-h1080-k-no", 1920, 1080},
		{"https://maps.example.com/photo?maxwidth=1600&maxheight=900", 1600, 900},
		{"https://cdn.example.com/photos/1024x768/room.jpg", 1024, 768},
		{"https://cdn.example.com/photo.jpg?w=2000", 2000, 0},
		{"https://cdn.example.com/photo.jpg", 0, 0},
	}
	for _, tc := range cases {
		w, h := curation.DimensionsFromURL(tc.url)
		if w != tc.w || h != tc.h {
			t.Errorf("%s: got %dx%d want %dx%d", tc.url, w, h, tc.w, tc.h)
		}
	}
}

func TestLookupPath(t *testing.T) {
	m := map[string]any{
		"urls": map[string]any{"full": "https://x.example.com/a.jpg"},
		"w":    1920.0,
	}
	if got := curation.LookupPath(m, "urls.full"); got != "https://x.example.com/a.jpg" {
		t.Fatalf("nested: %v", got)
	}
	if got := curation.LookupPath(m, "w"); got != 1920.0 {
		t.Fatalf("top level: %v", got)
	}
	for _, p := range []string{"urls.raw", "w.x", "missing"} {
		if got := curation.LookupPath(m, p); got != nil {
			t.Fatalf("%s: want nil, got %v", p, got)
		}
	}
}
