package providers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/curation"
)

// Config holds provider endpoints and credentials.
type Config struct {
	GooglePlacesBase string
	GooglePlacesKey  string
	SerpAPIBase      string
	SerpAPIKey       string
	UnsplashBase     string
	UnsplashKey      string
	RPS              int
	// Order lists provider names in fallback order.
	Order []string
}

// Build returns the configured suppliers in c.Order. Providers without
// credentials are skipped with a warning.
func Build(c Config, m curation.NameMatcher) ([]curation.Supplier, error) {
	var out []curation.Supplier
	for _, name := range c.Order {
		var (
			s   curation.Supplier
			err error
		)
		switch strings.TrimSpace(name) {
		case NameGooglePlaces:
			s, err = NewGooglePlaces(c.GooglePlacesBase, c.GooglePlacesKey, c.RPS, m)
		case NameSerpAPI:
			s, err = NewSerpAPI(c.SerpAPIBase, c.SerpAPIKey, c.RPS, m)
		case NameUnsplash:
			s, err = NewUnsplash(c.UnsplashBase, c.UnsplashKey, c.RPS)
		default:
			return nil, fmt.Errorf("providers: unknown provider %q", name)
		}
		if errors.Is(err, ErrMissingKey) {
			log.Warn().Str("provider", name).Msg("no credentials; provider disabled")
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
