package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_curator/internal/adapters/observability"
	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

// ErrStoreUnavailable halts a run: a write failed and the store no longer
// answers pings.
var ErrStoreUnavailable = errors.New("curation: store unavailable")

type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeRejected     Outcome = "rejected"
	OutcomeIncomplete   Outcome = "incomplete"
	OutcomeFailed       Outcome = "failed"
	OutcomeNotProcessed Outcome = "not_processed"
)

const (
	reasonBudget   = "budget_exhausted"
	reasonCanceled = "canceled"
	reasonPersist  = "persistence_error"
	reasonHalted   = "run_halted"
)

type HotelResult struct {
	HotelID   string                  `json:"hotel_id"`
	Outcome   Outcome                 `json:"outcome"`
	Reason    string                  `json:"reason,omitempty"`
	Score     curation.ScoreBreakdown `json:"score"`
	Verdict   curation.Verdict        `json:"verdict"`
	Photos    int                     `json:"photos"`
	Providers []string                `json:"providers,omitempty"`
	Exhausted bool                    `json:"exhausted"`
	Err       error                   `json:"-"`
}

type RunReport struct {
	Results []HotelResult   `json:"results"`
	Counts  map[Outcome]int `json:"counts"`
}

func (r *RunReport) count() {
	r.Counts = map[Outcome]int{}
	for _, res := range r.Results {
		r.Counts[res.Outcome]++
	}
}

type Options struct {
	BatchSize    int
	BatchPause   time.Duration
	Workers      int
	TargetPhotos int
	DryRun       bool
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.BatchPause < 0 {
		o.BatchPause = 0
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// CurationService runs the acquire, score, gate and persist pipeline over
// hotels. Budget and limiter are shared by every worker.
type CurationService struct {
	repo      domain.HotelRepository
	cache     domain.Cache
	suppliers []curation.Supplier
	acq       *curation.Acquirer
	scorer    *curation.Scorer
	gate      *curation.Gate
	budget    curation.Budget
	opts      Options

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewCurationService(
	repo domain.HotelRepository,
	cache domain.Cache,
	suppliers []curation.Supplier,
	cfg curation.PipelineConfig,
	budget curation.Budget,
	limiter curation.Limiter,
	opts Options,
) *CurationService {
	if budget == nil {
		budget = curation.NewCallBudget(-1)
	}
	return &CurationService{
		repo:      repo,
		cache:     cache,
		suppliers: suppliers,
		acq:       curation.NewAcquirer(cfg, budget, limiter),
		scorer:    curation.NewScorer(cfg),
		gate:      curation.NewGate(cfg),
		budget:    budget,
		opts:      opts.withDefaults(),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// SetSleep replaces the pause between batches; tests use it to avoid
// wall-clock waits.
func (s *CurationService) SetSleep(f func(ctx context.Context, d time.Duration) error) { s.sleep = f }

// SetClock replaces the timestamp source for written curations.
func (s *CurationService) SetClock(now func() time.Time) { s.now = now }

// CurateHotel runs the pipeline for one hotel. The error is non-nil only
// for ErrStoreUnavailable; every other failure is reported in the result.
func (s *CurationService) CurateHotel(ctx context.Context, h domain.Hotel) (HotelResult, error) {
	res := HotelResult{HotelID: h.ID}
	l := log.With().Str("hotel_id", h.ID).Logger()

	acq := s.acq.Acquire(ctx, curation.QueryFor(h), s.suppliers, s.opts.TargetPhotos)
	res.Photos, res.Providers, res.Exhausted = len(acq.Photos), acq.Providers, acq.Exhausted

	switch {
	case acq.Canceled:
		res.Outcome, res.Reason = OutcomeIncomplete, reasonCanceled
		return s.report(l, res), nil
	case acq.BudgetExhausted:
		res.Outcome, res.Reason = OutcomeIncomplete, reasonBudget
		return s.report(l, res), nil
	}

	res.Score = s.scorer.Score(h)
	res.Verdict = s.gate.Evaluate(h, len(acq.Photos), res.Score)
	if res.Verdict.Accepted {
		res.Outcome = OutcomeAccepted
	} else {
		res.Outcome, res.Reason = OutcomeRejected, res.Verdict.Reason
	}

	if s.opts.DryRun {
		return s.report(l, res), nil
	}

	cur := domain.HotelCuration{
		HotelID:   h.ID,
		Photos:    acq.Photos,
		Tags:      curation.RetagHotel(h.Tags, acq.Providers, res.Verdict),
		Score:     res.Score.Total,
		Category:  res.Verdict.Category,
		UpdatedAt: s.now().UTC(),
	}
	if len(acq.Photos) > 0 {
		cur.HeroPhoto = acq.Photos[0].Ref
	}

	if err := s.repo.SaveCuration(ctx, cur); err != nil {
		res.Outcome, res.Reason, res.Err = OutcomeFailed, reasonPersist, err
		if perr := s.repo.Ping(ctx); perr != nil && ctx.Err() == nil {
			s.report(l, res)
			return res, fmt.Errorf("%w: save %s: %v; ping: %v", ErrStoreUnavailable, h.ID, err, perr)
		}
		return s.report(l, res), nil
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, hotelKey(h.ID)); err != nil {
			l.Debug().Err(err).Msg("cache invalidation failed")
		}
	}
	return s.report(l, res), nil
}

func (s *CurationService) report(l zerolog.Logger, res HotelResult) HotelResult {
	observability.ObserveHotel(string(res.Outcome), res.Reason)
	ev := l.Info()
	if res.Outcome == OutcomeFailed {
		ev = l.Warn().Err(res.Err)
	}
	ev.Str("outcome", string(res.Outcome)).
		Str("reason", res.Reason).
		Float64("score", res.Score.Total).
		Int("photos", res.Photos).
		Strs("providers", res.Providers).
		Msg("hotel curated")
	return res
}

// RunBatch curates hotels in fixed-size batches with a pause between them.
// Hotels not started because of cancellation, budget exhaustion or a halt
// are reported as not_processed. Results keep the input order.
func (s *CurationService) RunBatch(ctx context.Context, hotels []domain.Hotel) (RunReport, error) {
	results := make([]HotelResult, len(hotels))
	for i, h := range hotels {
		results[i] = HotelResult{HotelID: h.ID, Outcome: OutcomeNotProcessed}
	}

	var (
		halted  atomic.Bool
		haltErr error
		mu      sync.Mutex
	)
	sem := semaphore.NewWeighted(int64(s.opts.Workers))

	for start := 0; start < len(hotels); start += s.opts.BatchSize {
		if start > 0 && s.opts.BatchPause > 0 {
			log.Info().Dur("pause", s.opts.BatchPause).Int("next", start).Msg("pausing between batches")
			if err := s.sleep(ctx, s.opts.BatchPause); err != nil {
				break
			}
		}
		end := min(start+s.opts.BatchSize, len(hotels))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if reason := s.stopReason(ctx, &halted); reason != "" {
				results[i].Reason = reason
				continue
			}
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Reason = reasonCanceled
				continue
			}
			// a worker may have halted the run while we waited
			if halted.Load() {
				sem.Release(1)
				results[i].Reason = reasonHalted
				continue
			}

			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer sem.Release(1)

				res, err := s.CurateHotel(ctx, hotels[i])
				results[i] = res
				if err != nil {
					mu.Lock()
					if haltErr == nil {
						haltErr = err
					}
					mu.Unlock()
					halted.Store(true)
				}
			}(i)
		}
		wg.Wait()

		if halted.Load() || ctx.Err() != nil {
			break
		}
	}

	for i := range results {
		if results[i].Outcome != OutcomeNotProcessed {
			continue
		}
		if results[i].Reason == "" {
			results[i].Reason = s.stopReason(ctx, &halted)
		}
		observability.ObserveHotel(string(OutcomeNotProcessed), results[i].Reason)
	}
	rep := RunReport{Results: results}
	rep.count()
	log.Info().Interface("counts", rep.Counts).Int("hotels", len(hotels)).Msg("curation run finished")
	return rep, haltErr
}

func (s *CurationService) stopReason(ctx context.Context, halted *atomic.Bool) string {
	switch {
	case halted.Load():
		return reasonHalted
	case ctx.Err() != nil:
		return reasonCanceled
	case s.budget.Remaining() <= 0:
		return reasonBudget
	}
	return ""
}

// RunAll pages through the store and curates every hotel matching f.
func (s *CurationService) RunAll(ctx context.Context, f domain.HotelFilter) (RunReport, error) {
	hotels, err := s.loadHotels(ctx, f)
	if err != nil {
		return RunReport{}, err
	}
	return s.RunBatch(ctx, hotels)
}

func (s *CurationService) loadHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	page := f
	if page.Limit <= 0 {
		page.Limit = s.opts.BatchSize
	}
	var out []domain.Hotel
	for {
		hs, err := s.repo.ListHotels(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("load hotels: %w", err)
		}
		out = append(out, hs...)
		if len(hs) < page.Limit {
			return out, nil
		}
		page.AfterID = hs[len(hs)-1].ID
	}
}

// CurateIDs curates the given hotels in order, skipping unknown ids.
func (s *CurationService) CurateIDs(ctx context.Context, ids []string) (RunReport, error) {
	hotels := make([]domain.Hotel, 0, len(ids))
	for _, id := range ids {
		h, err := s.repo.GetHotel(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("hotel_id", id).Msg("unknown hotel id")
			continue
		}
		if err != nil {
			return RunReport{}, err
		}
		hotels = append(hotels, h)
	}
	return s.RunBatch(ctx, hotels)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
