package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"hotel_curator/internal/curation"
)

const NameSerpAPI = "serpapi"

// SerpAPI reads Google Hotels property images through serpapi.com.
type SerpAPI struct {
	cl      *Client
	key     string
	matcher curation.NameMatcher
	now     func() time.Time
}

func NewSerpAPI(base, key string, rps int, m curation.NameMatcher, opts ...ClientOption) (*SerpAPI, error) {
	if key == "" {
		return nil, fmt.Errorf("%s: %w", NameSerpAPI, ErrMissingKey)
	}
	if m == nil {
		m = curation.NewLevenshteinMatcher(0)
	}
	return &SerpAPI{
		cl:      NewClient(NameSerpAPI, base, rps, opts...),
		key:     key,
		matcher: m,
		now:     time.Now,
	}, nil
}

func (s *SerpAPI) Name() string { return NameSerpAPI }

type serpImage struct {
	Thumbnail     string `json:"thumbnail"`
	OriginalImage string `json:"original_image"`
}

type serpResponse struct {
	Error string `json:"error"`
	// set when the query resolved to a single property
	Name   string      `json:"name"`
	Images []serpImage `json:"images"`

	Properties []struct {
		Name   string      `json:"name"`
		Images []serpImage `json:"images"`
	} `json:"properties"`
}

func (s *SerpAPI) Search(ctx context.Context, q curation.Query) ([]any, error) {
	// google_hotels requires a stay window; prices are not used
	in := s.now().UTC().AddDate(0, 0, 30)
	var r serpResponse
	err := s.cl.GetJSON(ctx, "/search.json", url.Values{
		"engine":         {"google_hotels"},
		"q":              {joinQuery(q.Name, q.City, q.Country)},
		"check_in_date":  {in.Format("2006-01-02")},
		"check_out_date": {in.AddDate(0, 0, 1).Format("2006-01-02")},
		"api_key":        {s.key},
	}, &r)
	if err != nil {
		return nil, err
	}
	if r.Error != "" {
		if r.Error == "Google Hotels hasn't returned any results for this query." {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %s", NameSerpAPI, r.Error)
	}

	images := r.Images
	if len(images) == 0 && len(r.Properties) > 0 {
		names := make([]string, len(r.Properties))
		for i, p := range r.Properties {
			names[i] = p.Name
		}
		i, _, ok := s.matcher.Best(q.Name, names)
		if !ok {
			return nil, nil
		}
		images = r.Properties[i].Images
	}

	out := make([]any, 0, len(images))
	for _, img := range images {
		if img.OriginalImage == "" {
			continue
		}
		out = append(out, map[string]any{"original_image": img.OriginalImage})
	}
	return out, nil
}
