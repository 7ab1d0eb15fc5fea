package curation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/adapters/observability"
)

// PhotoCandidate is an unvalidated photo from a single provider.
// Width and Height are 0 when unknown.
type PhotoCandidate struct {
	URL             string
	Width           int
	Height          int
	Provider        string
	Caption         string
	Tags            []string
	ProviderPhotoID string
}

var (
	ErrMissingURL    = errors.New("curation: record has no photo url")
	ErrUnknownRecord = errors.New("curation: unsupported record shape")
)

/********** alias registry (single source of truth) **********/

var photoAliases = map[string][]string{
	"url": {
		"url", "src", "original_image", "original", "image", "image_url", "hd_url",
		"link", "urls.full", "urls.raw", "urls.regular", "photo_url",
	},
	"width":   {"width", "widthPx", "original_width", "w", "dimensions.width", "size.width"},
	"height":  {"height", "heightPx", "original_height", "h", "dimensions.height", "size.height"},
	"id":      {"photo_id", "id", "photo_reference", "reference", "name"},
	"caption": {"caption", "description", "alt_description", "image_description", "title", "alt"},
	"tags":    {"tags", "labels", "categories"},
}

var (
	reDimsPair   = regexp.MustCompile(`(?i)(?:^|[^0-9])(\d{3,5})x(\d{3,5})(?:[^0-9]|$)`)
	reGoogleSize = regexp.MustCompile(`=w(\d{2,5})-h(\d{2,5})`)
)

var widthParams = []string{"maxwidth", "maxWidthPx", "width", "w"}
var heightParams = []string{"maxheight", "maxHeightPx", "height", "h"}

// Normalizer turns raw provider records into PhotoCandidates.
type Normalizer struct {
	contracts map[string]Dimensions
}

func NewNormalizer(cfg PipelineConfig) *Normalizer {
	return &Normalizer{contracts: cfg.ProviderContracts}
}

// Normalize converts one raw record, either a bare URL string or a decoded
// JSON object, into a PhotoCandidate. It is the only place that inspects raw
// record shapes.
func (n *Normalizer) Normalize(record any, provider string) (PhotoCandidate, error) {
	c := PhotoCandidate{Provider: provider}

	switch r := record.(type) {
	case string:
		c.URL = strings.TrimSpace(r)
	case map[string]any:
		c.URL = strings.TrimSpace(firstStr(r, photoAliases["url"]...))
		c.Width = firstInt(r, photoAliases["width"]...)
		c.Height = firstInt(r, photoAliases["height"]...)
		c.Caption = strings.TrimSpace(firstStr(r, photoAliases["caption"]...))
		c.Tags = firstStrings(r, photoAliases["tags"]...)
		c.ProviderPhotoID = firstStr(r, photoAliases["id"]...)
	case nil:
		return PhotoCandidate{}, ErrMissingURL
	default:
		return PhotoCandidate{}, fmt.Errorf("%w: %T", ErrUnknownRecord, record)
	}

	if c.URL == "" {
		return PhotoCandidate{}, ErrMissingURL
	}
	if u, err := url.Parse(c.URL); err != nil || u.Host == "" {
		return PhotoCandidate{}, fmt.Errorf("%w: unparsable %q", ErrMissingURL, c.URL)
	}

	// explicit metadata first, then hints embedded in the URL
	if c.Width <= 0 || c.Height <= 0 {
		w, h := DimensionsFromURL(c.URL)
		if c.Width <= 0 {
			c.Width = w
		}
		if c.Height <= 0 {
			c.Height = h
		}
	}
	if d, ok := n.contracts[provider]; ok {
		if c.Width <= 0 {
			c.Width = d.Width
		}
		if c.Height <= 0 {
			c.Height = d.Height
		}
	}
	if c.Width < 0 {
		c.Width = 0
	}
	if c.Height < 0 {
		c.Height = 0
	}
	return c, nil
}

// NormalizeAll normalizes a supplier's result set, skipping and logging
// records that cannot be converted. Order is preserved.
func (n *Normalizer) NormalizeAll(records []any, provider string) []PhotoCandidate {
	out := make([]PhotoCandidate, 0, len(records))
	for i, r := range records {
		c, err := n.Normalize(r, provider)
		if err != nil {
			log.Debug().Err(err).Str("provider", provider).Int("index", i).Msg("skip malformed photo record")
			observability.ObserveCandidate(provider, "malformed")
			continue
		}
		out = append(out, c)
	}
	return out
}

// DimensionsFromURL extracts width/height hints embedded in a photo URL.
// Either value is 0 when it cannot be determined.
func DimensionsFromURL(raw string) (int, int) {
	if m := reGoogleSize.FindStringSubmatch(raw); m != nil {
		return atoi(m[1]), atoi(m[2])
	}

	var w, h int
	if u, err := url.Parse(raw); err == nil {
		q := u.Query()
		w = firstQueryInt(q, widthParams)
		h = firstQueryInt(q, heightParams)
		if w > 0 && h > 0 {
			return w, h
		}
		if m := reDimsPair.FindStringSubmatch(u.Path); m != nil {
			return atoi(m[1]), atoi(m[2])
		}
	}
	return w, h
}

/********** tiny helpers **********/

func firstQueryInt(q url.Values, keys []string) int {
	for _, k := range keys {
		if n := atoi(q.Get(k)); n > 0 {
			return n
		}
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// LookupPath is a safe nested lookup with dot paths on decoded JSON maps.
func LookupPath(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		switch v := LookupPath(m, p).(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstInt reads an int from several paths (float64/int/string like "1920").
func firstInt(m map[string]any, paths ...string) int {
	for _, p := range paths {
		switch v := LookupPath(m, p).(type) {
		case float64:
			if v > 0 {
				return int(v)
			}
		case int:
			if v > 0 {
				return v
			}
		case int64:
			if v > 0 {
				return int(v)
			}
		case string:
			if n := atoi(strings.TrimSuffix(v, "px")); n > 0 {
				return n
			}
		}
	}
	return 0
}

// firstStrings accepts []any holding strings or {name|title} objects.
func firstStrings(m map[string]any, paths ...string) []string {
	for _, p := range paths {
		raw, ok := LookupPath(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				if s := firstStr(t, "name", "title", "label"); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
