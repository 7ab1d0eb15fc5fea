package curation

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/adapters/observability"
	"hotel_curator/internal/domain"
)

// Query identifies the hotel a supplier should search photos for.
type Query struct {
	HotelID string
	Name    string
	City    string
	Country string
}

func QueryFor(h domain.Hotel) Query {
	return Query{HotelID: h.ID, Name: h.Name, City: h.City, Country: h.Country}
}

// Supplier yields raw provider records (URL strings or decoded JSON objects)
// for a hotel. Implementations live in the providers adapter package.
type Supplier interface {
	Name() string
	Search(ctx context.Context, q Query) ([]any, error)
}

// CacheLookup is implemented by suppliers that can answer from a local
// cache. A hit costs no budget unit and no limiter wait.
type CacheLookup interface {
	Lookup(ctx context.Context, q Query) ([]any, bool)
}

// Attempt records what one supplier call contributed.
type Attempt struct {
	Provider string
	Returned int
	Accepted int
	Cached   bool
	Err      error
}

type AcquireResult struct {
	Photos []domain.Photo
	// Exhausted is true when fewer than the target were collected, either
	// because suppliers ran out or the call budget did.
	Exhausted       bool
	BudgetExhausted bool
	Canceled        bool
	Attempts        []Attempt
	Providers       []string // contributing providers, in first-contribution order
}

// Acquirer runs the supplier fallback cascade for one hotel at a time. It
// holds no per-hotel state and may be shared across workers.
type Acquirer struct {
	cfg     PipelineConfig
	norm    *Normalizer
	budget  Budget
	limiter Limiter
}

func NewAcquirer(cfg PipelineConfig, budget Budget, limiter Limiter) *Acquirer {
	if budget == nil {
		budget = NewCallBudget(-1)
	}
	if limiter == nil {
		limiter = NoLimit
	}
	return &Acquirer{cfg: cfg, norm: NewNormalizer(cfg), budget: budget, limiter: limiter}
}

// Acquire tries suppliers strictly in order, keeping each supplier's own
// ordering, until target photos pass the resolution policy and dedupe.
// Supplier failures count as zero candidates; they never abort the run.
func (a *Acquirer) Acquire(ctx context.Context, q Query, suppliers []Supplier, target int) AcquireResult {
	if target <= 0 {
		target = a.cfg.TargetPhotos
	}
	var res AcquireResult
	seen := NewSeen()
	contributed := map[string]bool{}

	for _, s := range suppliers {
		if len(res.Photos) >= target {
			break
		}
		if ctx.Err() != nil {
			res.Canceled = true
			break
		}
		var (
			records []any
			err     error
			hit     bool
		)
		if cl, ok := s.(CacheLookup); ok {
			records, hit = cl.Lookup(ctx, q)
		}
		if !hit {
			if !a.budget.Consume(1) {
				res.BudgetExhausted = true
				log.Warn().Str("hotel_id", q.HotelID).Str("provider", s.Name()).Msg("call budget exhausted")
				break
			}
			observability.SetBudgetRemaining(a.budget.Remaining())
			records, err = a.call(ctx, s, q)
		}
		att := Attempt{Provider: s.Name(), Returned: len(records), Cached: hit, Err: err}
		if err != nil {
			if ctx.Err() != nil {
				res.Canceled = true
				res.Attempts = append(res.Attempts, att)
				break
			}
			log.Warn().Err(err).Str("hotel_id", q.HotelID).Str("provider", s.Name()).Msg("supplier failed; continuing with next")
			res.Attempts = append(res.Attempts, att)
			continue
		}

		for _, c := range a.norm.NormalizeAll(records, s.Name()) {
			if len(res.Photos) >= target {
				break
			}
			if !a.cfg.Resolution.Passes(c) {
				observability.ObserveCandidate(c.Provider, "low_resolution")
				continue
			}
			if !seen.Add(c) {
				observability.ObserveCandidate(c.Provider, "duplicate")
				continue
			}
			observability.ObserveCandidate(c.Provider, "accepted")
			res.Photos = append(res.Photos, ToPhoto(c))
			att.Accepted++
		}
		if att.Accepted > 0 && !contributed[s.Name()] {
			contributed[s.Name()] = true
			res.Providers = append(res.Providers, s.Name())
		}
		res.Attempts = append(res.Attempts, att)

		log.Debug().
			Str("hotel_id", q.HotelID).
			Str("provider", s.Name()).
			Int("returned", att.Returned).
			Int("accepted", att.Accepted).
			Int("total", len(res.Photos)).
			Bool("cached", hit).
			Msg("supplier done")
	}

	res.Exhausted = len(res.Photos) < target
	return res
}

func (a *Acquirer) call(ctx context.Context, s Supplier, q Query) ([]any, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	cctx, cancel := context.WithTimeout(ctx, a.cfg.SupplierTimeout(s.Name()))
	defer cancel()

	start := time.Now()
	records, err := s.Search(cctx, q)
	outcome := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	observability.ObserveSupplier(s.Name(), outcome, time.Since(start))
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ToPhoto converts an accepted candidate into its persisted form.
func ToPhoto(c PhotoCandidate) domain.Photo {
	return domain.Photo{
		URL:         c.URL,
		Width:       c.Width,
		Height:      c.Height,
		Source:      c.Provider,
		Description: c.Caption,
		Ref:         PhotoRef(c),
	}
}

// PhotoRef is the stable reference of a candidate: the provider name plus a
// hash of the provider's own photo id when present, otherwise a hash of the
// normalized URL. Refs are fixed length; Google photo references run to
// several hundred characters.
func PhotoRef(c PhotoCandidate) string {
	if c.ProviderPhotoID != "" {
		return c.Provider + ":" + sha1Hex(c.ProviderPhotoID)
	}
	return "url:" + sha1Hex(NormalizeURL(c.URL))
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
