package curation

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Query parameters CDNs use to request a size or encoding of the same image.
var sizeParams = map[string]struct{}{
	"w": {}, "h": {}, "width": {}, "height": {}, "maxwidth": {}, "maxheight": {},
	"maxwidthpx": {}, "maxheightpx": {}, "s": {}, "sz": {}, "size": {}, "resize": {},
	"fit": {}, "crop": {}, "q": {}, "quality": {}, "auto": {}, "fm": {}, "dpr": {},
	"ixlib": {}, "ixid": {}, "cs": {}, "k": {}, "key": {},
}

var (
	reSizeSegment  = regexp.MustCompile(`(?i)/(max|square|fit|crop)?\d{2,5}x\d{2,5}/`)
	reGoogleSuffix = regexp.MustCompile(`=(?:[swh]\d+|-?[a-z]+)(?:-[a-z0-9]+)*$`)
)

// NormalizeURL reduces a photo URL to a key shared by every requested size
// of the same underlying image.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	path := reSizeSegment.ReplaceAllString(u.Path, "/")
	path = reGoogleSuffix.ReplaceAllString(path, "")
	path = strings.TrimSuffix(path, "/")

	q := u.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		if _, drop := sizeParams[strings.ToLower(k)]; drop {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(host)
	b.WriteString(path)
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		vals := q[k]
		sort.Strings(vals)
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(strings.Join(vals, ",")))
	}
	return b.String()
}

// Seen tracks accepted photo keys across incremental deduplication.
type Seen struct {
	urls map[string]struct{}
	ids  map[string]struct{}
}

func NewSeen() *Seen {
	return &Seen{urls: map[string]struct{}{}, ids: map[string]struct{}{}}
}

func idKey(c PhotoCandidate) string {
	if c.ProviderPhotoID == "" {
		return ""
	}
	return c.Provider + "\x00" + c.ProviderPhotoID
}

// Has reports whether c duplicates an already added candidate.
func (s *Seen) Has(c PhotoCandidate) bool {
	if _, ok := s.urls[NormalizeURL(c.URL)]; ok {
		return true
	}
	if k := idKey(c); k != "" {
		if _, ok := s.ids[k]; ok {
			return true
		}
	}
	return false
}

// Add records c; it returns false when c was a duplicate.
func (s *Seen) Add(c PhotoCandidate) bool {
	if s.Has(c) {
		return false
	}
	s.urls[NormalizeURL(c.URL)] = struct{}{}
	if k := idKey(c); k != "" {
		s.ids[k] = struct{}{}
	}
	return true
}

// Dedupe drops candidates sharing a normalized URL or a (provider, photo id)
// pair with an earlier one. Order is preserved and the result is stable
// under repeated application.
func Dedupe(cands []PhotoCandidate) []PhotoCandidate {
	seen := NewSeen()
	out := make([]PhotoCandidate, 0, len(cands))
	for _, c := range cands {
		if seen.Add(c) {
			out = append(out, c)
		}
	}
	return out
}
