package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"hotel_curator/internal/curation"
)

const NameUnsplash = "unsplash"

// Unsplash is the stock-photo fallback: it searches by hotel and city and
// returns whatever landscape photos match.
type Unsplash struct {
	cl      *Client
	perPage int
}

func NewUnsplash(base, accessKey string, rps int, opts ...ClientOption) (*Unsplash, error) {
	if accessKey == "" {
		return nil, fmt.Errorf("%s: %w", NameUnsplash, ErrMissingKey)
	}
	opts = append(opts, WithAuth(func(r *http.Request) {
		r.Header.Set("Authorization", "Client-ID "+accessKey)
		r.Header.Set("Accept-Version", "v1")
	}))
	return &Unsplash{cl: NewClient(NameUnsplash, base, rps, opts...), perPage: 30}, nil
}

func (u *Unsplash) Name() string { return NameUnsplash }

func (u *Unsplash) Search(ctx context.Context, q curation.Query) ([]any, error) {
	var r struct {
		Results []any `json:"results"`
	}
	err := u.cl.GetJSON(ctx, "/search/photos", url.Values{
		"query":       {joinQuery(q.Name, q.City)},
		"per_page":    {strconv.Itoa(u.perPage)},
		"orientation": {"landscape"},
	}, &r)
	if err != nil {
		return nil, err
	}
	return r.Results, nil
}
