package curation_test

import (
	"testing"

	"hotel_curator/internal/curation"
)

func TestLevenshteinMatcher(t *testing.T) {
	m := curation.NewLevenshteinMatcher(0)

	i, s, ok := m.Best("Hotel Grande Bretagne", []string{"Hotel Amalia", "Grande Bretagne, a Luxury Collection Hotel"})
	if !ok || i != 1 || s < 0.9 {
		t.Fatalf("expected containment match at 1, got %d %.2f %v", i, s, ok)
	}

	i, s, ok = m.Best("Mýkonos Blu", []string{"Mykonos Blu"})
	if !ok || i != 0 || s != 1 {
		t.Fatalf("accents should fold to an exact match, got %d %.2f %v", i, s, ok)
	}

	i, _, ok = m.Best("Seaside Villa", []string{"Mountain Lodge"})
	if ok || i != -1 {
		t.Fatalf("expected no match, got %d %v", i, ok)
	}

	if _, _, ok := m.Best("Seaside Villa", nil); ok {
		t.Fatalf("empty candidates must not match")
	}
}

func TestFold(t *testing.T) {
	if got := curation.Fold("  Ürgüp Çavuşin "); got != "urgup cavusin" {
		t.Fatalf("got %q", got)
	}
}
