package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/domain"
)

// ImportService loads hotel metadata into the store ahead of curation.
type ImportService struct {
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewImportService(r domain.HotelRepository, c domain.Cache) *ImportService {
	return &ImportService{repo: r, cache: c}
}

type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	IDs      []string `json:"ids"`
}

// Import maps and upserts each record. Unmappable records are skipped; a
// store error stops the import.
func (s *ImportService) Import(ctx context.Context, records []map[string]any) (ImportReport, error) {
	var rep ImportReport
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		h, err := MapHotelRecord(rec)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skip hotel record")
			rep.Skipped++
			continue
		}
		if err := s.repo.UpsertHotel(ctx, h); err != nil {
			return rep, fmt.Errorf("upsert hotel %s: %w", h.ID, err)
		}
		if s.cache != nil {
			if err := s.cache.Del(ctx, hotelKey(h.ID)); err != nil && !errors.Is(err, context.Canceled) {
				log.Debug().Err(err).Str("hotel_id", h.ID).Msg("cache invalidation failed")
			}
		}
		rep.Imported++
		rep.IDs = append(rep.IDs, h.ID)
	}
	return rep, nil
}
