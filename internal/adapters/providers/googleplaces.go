package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"hotel_curator/internal/curation"
)

const (
	NameGooglePlaces     = "google_places"
	googlePlacesMaxWidth = 1600
)

// GooglePlaces finds the hotel with a legacy text search, then lists the
// photos of the best-matching place from its details.
type GooglePlaces struct {
	cl      *Client
	key     string
	base    string
	matcher curation.NameMatcher
}

func NewGooglePlaces(base, key string, rps int, m curation.NameMatcher, opts ...ClientOption) (*GooglePlaces, error) {
	if key == "" {
		return nil, fmt.Errorf("%s: %w", NameGooglePlaces, ErrMissingKey)
	}
	if m == nil {
		m = curation.NewLevenshteinMatcher(0)
	}
	return &GooglePlaces{
		cl:      NewClient(NameGooglePlaces, base, rps, opts...),
		key:     key,
		base:    strings.TrimRight(base, "/"),
		matcher: m,
	}, nil
}

func (g *GooglePlaces) Name() string { return NameGooglePlaces }

type placesPhoto struct {
	Reference string `json:"photo_reference"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type placesSearch struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID string        `json:"place_id"`
		Name    string        `json:"name"`
		Photos  []placesPhoto `json:"photos"`
	} `json:"results"`
}

type placesDetails struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name   string        `json:"name"`
		Photos []placesPhoto `json:"photos"`
	} `json:"result"`
}

func (g *GooglePlaces) Search(ctx context.Context, q curation.Query) ([]any, error) {
	var s placesSearch
	err := g.cl.GetJSON(ctx, "/textsearch/json", url.Values{
		"query": {joinQuery(q.Name, q.City, q.Country)},
		"type":  {"lodging"},
		"key":   {g.key},
	}, &s)
	if err != nil {
		return nil, err
	}
	if err := placesStatus(s.Status, s.ErrorMessage); err != nil {
		return nil, err
	}
	if len(s.Results) == 0 {
		return nil, nil
	}

	names := make([]string, len(s.Results))
	for i, r := range s.Results {
		names[i] = r.Name
	}
	i, _, ok := g.matcher.Best(q.Name, names)
	if !ok {
		return nil, nil
	}
	best := s.Results[i]

	photos := best.Photos
	var d placesDetails
	err = g.cl.GetJSON(ctx, "/details/json", url.Values{
		"place_id": {best.PlaceID},
		"fields":   {"name,photos"},
		"key":      {g.key},
	}, &d)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return nil, err
		}
		// the search result still carries one photo; use it
	case placesStatus(d.Status, d.ErrorMessage) == nil && len(d.Result.Photos) > 0:
		photos = d.Result.Photos
	}

	out := make([]any, 0, len(photos))
	for _, p := range photos {
		if p.Reference == "" {
			continue
		}
		w, h := scaleToWidth(p.Width, p.Height, googlePlacesMaxWidth)
		out = append(out, map[string]any{
			"photo_reference": p.Reference,
			"width":           float64(w),
			"height":          float64(h),
			// the key is added when the photo is served, never persisted
			"url": fmt.Sprintf("%s/photo?maxwidth=%d&photo_reference=%s",
				g.base, googlePlacesMaxWidth, url.QueryEscape(p.Reference)),
		})
	}
	return out, nil
}

func placesStatus(status, msg string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	case "REQUEST_DENIED":
		return fmt.Errorf("%s: %w: %s", NameGooglePlaces, ErrUnauthorized, msg)
	case "NOT_FOUND", "INVALID_REQUEST":
		return fmt.Errorf("%s: %w: %s", NameGooglePlaces, ErrNotFound, status)
	default:
		return fmt.Errorf("%s: status %s: %s", NameGooglePlaces, status, msg)
	}
}

// scaleToWidth returns the size served when the image is capped at maxW,
// rounding the height to the nearest pixel.
func scaleToWidth(w, h, maxW int) (int, int) {
	if w <= maxW || w <= 0 {
		return w, h
	}
	return maxW, (h*maxW + w/2) / w
}

func joinQuery(parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, " ")
}
