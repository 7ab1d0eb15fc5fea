package app

import (
	"context"
	"fmt"
	"time"

	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

const listCacheTTL = time.Minute

func hotelKey(id string) string { return "hotel:" + id }

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
	scorer   *curation.Scorer
	gate     *curation.Gate
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration, cfg curation.PipelineConfig) *QueryService {
	return &QueryService{
		repo:     r,
		cache:    c,
		cacheTTL: ttl,
		scorer:   curation.NewScorer(cfg),
		gate:     curation.NewGate(cfg),
	}
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListHotels caches pages briefly; writes only invalidate per-hotel keys.
func (s *QueryService) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	key := fmt.Sprintf("hotels:%s|%s|%s|%s|%s|%d", f.City, f.Country, f.Tag, f.Category, f.AfterID, f.Limit)
	var out []domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	hs, err := s.repo.ListHotels(ctx, f)
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the repo's backing array
	out = make([]domain.Hotel, len(hs))
	copy(out, hs)

	ttl := s.cacheTTL
	if ttl > listCacheTTL {
		ttl = listCacheTTL
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(ttl.Seconds()))
	}
	return out, nil
}

// Explanation is a fresh score and gate verdict for a stored hotel.
type Explanation struct {
	HotelID string                  `json:"hotel_id"`
	Score   curation.ScoreBreakdown `json:"score"`
	Verdict curation.Verdict        `json:"verdict"`
	Photos  int                     `json:"photos"`
}

// Explain rescores a hotel from stored data without calling any supplier.
func (s *QueryService) Explain(ctx context.Context, id string) (Explanation, error) {
	h, err := s.GetHotel(ctx, id)
	if err != nil {
		return Explanation{}, err
	}
	sb := s.scorer.Score(h)
	return Explanation{
		HotelID: h.ID,
		Score:   sb,
		Verdict: s.gate.Evaluate(h, len(h.Photos), sb),
		Photos:  len(h.Photos),
	}, nil
}
