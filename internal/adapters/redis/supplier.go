package redisad

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

// CachedSupplier remembers a supplier's raw records for a window so a re-run
// inside it costs no provider call. Failed searches are not cached, and any
// cache error falls through to the supplier.
type CachedSupplier struct {
	next   curation.Supplier
	cache  domain.Cache
	ttlSec int
}

func NewCachedSupplier(next curation.Supplier, cache domain.Cache, ttlSec int) *CachedSupplier {
	return &CachedSupplier{next: next, cache: cache, ttlSec: ttlSec}
}

func (s *CachedSupplier) Name() string { return s.next.Name() }

// Lookup answers from the cache only. The Acquirer calls it before spending
// a budget unit, so a hit never reaches the limiter or the provider.
func (s *CachedSupplier) Lookup(ctx context.Context, q curation.Query) ([]any, bool) {
	var recs []any
	hit, err := s.cache.Get(ctx, SupplierKey(s.next.Name(), q), &recs)
	if err != nil {
		log.Debug().Err(err).Str("provider", s.Name()).Msg("supplier cache read failed")
		return nil, false
	}
	return recs, hit
}

func (s *CachedSupplier) Search(ctx context.Context, q curation.Query) ([]any, error) {
	if recs, ok := s.Lookup(ctx, q); ok {
		return recs, nil
	}

	recs, err := s.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, SupplierKey(s.next.Name(), q), recs, s.ttlSec); err != nil {
		log.Debug().Err(err).Str("provider", s.Name()).Msg("supplier cache write failed")
	}
	return recs, nil
}

// SupplierKey is "supplier:<provider>:<sha1 of the folded query>".
func SupplierKey(provider string, q curation.Query) string {
	raw := strings.Join([]string{q.HotelID, curation.Fold(q.Name), curation.Fold(q.City), curation.Fold(q.Country)}, "\x00")
	sum := sha1.Sum([]byte(raw))
	return "supplier:" + provider + ":" + hex.EncodeToString(sum[:])
}

// WithCache wraps every supplier in a CachedSupplier. A ttl <= 0 returns
// the suppliers unchanged.
func WithCache(sup []curation.Supplier, cache domain.Cache, ttlSec int) []curation.Supplier {
	if cache == nil || ttlSec <= 0 {
		return sup
	}
	out := make([]curation.Supplier, len(sup))
	for i, s := range sup {
		out[i] = NewCachedSupplier(s, cache, ttlSec)
	}
	return out
}
