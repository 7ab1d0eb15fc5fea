package curation

import (
	"strings"

	"hotel_curator/internal/domain"
)

// Rejection reason codes. Rejections are normal outcomes, not errors.
const (
	ReasonBlacklistedBrand = "blacklisted_brand"
	ReasonRatingTooLow     = "rating_too_low"
	ReasonPriceTooHigh     = "price_too_high"
	ReasonBelowScore       = "below_score_threshold"
	ReasonInsufficientPics = "insufficient_photos"
)

type Verdict struct {
	Accepted bool             `json:"accepted"`
	Category *domain.Category `json:"category,omitempty"`
	// Reason is the first failing check; Reasons lists every failing check.
	Reason  string   `json:"reason,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
}

type Gate struct {
	cfg PipelineConfig
	cat *Categorizer
}

func NewGate(cfg PipelineConfig) *Gate {
	return &Gate{cfg: cfg, cat: NewCategorizer(cfg)}
}

// Evaluate accepts or rejects a hotel given its accepted photo count and
// score, and categorizes accepted hotels.
func (g *Gate) Evaluate(h domain.Hotel, photos int, s ScoreBreakdown) Verdict {
	var reasons []string

	if s.Blacklisted() {
		reasons = append(reasons, ReasonBlacklistedBrand)
	}
	if h.Rating != nil && (*h.Rating < g.cfg.MinRating || s.BelowQualityFloor) {
		reasons = append(reasons, ReasonRatingTooLow)
	}
	if h.Price != nil && h.Price.Amount > 0 {
		if max, ok := g.cfg.MaxPrices[strings.ToUpper(h.Price.Currency)]; ok && max > 0 && h.Price.Amount > max {
			reasons = append(reasons, ReasonPriceTooHigh)
		}
	}
	if s.Total < g.cfg.MinScore {
		reasons = append(reasons, ReasonBelowScore)
	}
	if photos < g.cfg.MinPhotos {
		reasons = append(reasons, ReasonInsufficientPics)
	}

	if len(reasons) > 0 {
		return Verdict{Reason: reasons[0], Reasons: reasons}
	}
	c := g.cat.Categorize(h)
	return Verdict{Accepted: true, Category: &c}
}
