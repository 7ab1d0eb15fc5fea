package app

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

var ErrMissingName = errors.New("import: hotel record has no name")

/********** alias registry (single source of truth) **********/

var hotelAliases = map[string][]string{
	"id":          {"id", "hotel_id", "property_id", "code"},
	"name":        {"name", "hotel_name", "property_name", "title"},
	"city":        {"city", "address.city", "location.city", "locality", "town"},
	"country":     {"country", "country_code", "countryCode", "address.country", "location.country"},
	"description": {"description", "hotel_description", "markdown_description", "summary", "about"},
	"brand":       {"brand", "chain", "chain_code", "brand_code", "chain.name", "brand.name"},
	"lat":         {"lat", "latitude", "location.lat", "geo.lat", "coordinates.latitude"},
	"lon":         {"lon", "lng", "longitude", "location.lon", "location.lng", "geo.lng", "coordinates.longitude"},
	"rating":      {"rating", "review_score", "guest_rating", "overall_rating", "rating.value"},
	"rating_max":  {"rating_scale", "review_score_scale", "rating.scale"},
	"price":       {"price", "nightly_price", "rate_per_night.extracted_lowest", "price.amount", "min_price"},
	"currency":    {"currency", "price.currency", "currency_code"},
	"amenities":   {"amenities", "facilities", "features"},
	"tags":        {"tags", "labels"},
}

/********** tiny helpers **********/

// firstAlias returns the first non-empty string for a named alias set.
// Numbers are formatted so numeric ids survive.
func firstAlias(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		switch v := curation.LookupPath(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// floatAlias: number from several paths (float64/int/string like "8,0").
func floatAlias(m map[string]any, key string) *float64 {
	for _, k := range hotelAliases[key] {
		switch v := curation.LookupPath(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			s = strings.TrimLeft(s, "$€£ ")
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// sliceAlias accepts []any with either strings or {name/title/label} objects.
func sliceAlias(m map[string]any, key string) []string {
	for _, k := range hotelAliases[key] {
		raw, ok := curation.LookupPath(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t = strings.TrimSpace(t); t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, f := range []string{"name", "title", "label"} {
					if s, ok := t[f].(string); ok && s != "" {
						out = append(out, s)
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** hotel mapper **********/

// MapHotelRecord converts a loosely shaped hotel feed record into a Hotel.
// Ratings on a 10-point scale are brought to 5. Records without an id get a
// stable one derived from name, city and country.
func MapHotelRecord(p map[string]any) (domain.Hotel, error) {
	h := domain.Hotel{
		ID:          firstAlias(p, "id"),
		Name:        firstAlias(p, "name"),
		City:        firstAlias(p, "city"),
		Country:     firstAlias(p, "country"),
		Description: firstAlias(p, "description"),
		Brand:       firstAlias(p, "brand"),
		Lat:         floatAlias(p, "lat"),
		Lon:         floatAlias(p, "lon"),
		Rating:      floatAlias(p, "rating"),
		Amenities:   sliceAlias(p, "amenities"),
		Tags:        sliceAlias(p, "tags"),
	}
	if h.Name == "" {
		return domain.Hotel{}, ErrMissingName
	}
	if h.Lat == nil || h.Lon == nil {
		h.Lat, h.Lon = nil, nil
	}

	if h.Rating != nil {
		scale := 5.0
		if s := floatAlias(p, "rating_max"); s != nil && *s > 0 {
			scale = *s
		} else if *h.Rating > 5 {
			scale = 10
		}
		r := *h.Rating
		if scale != 5 {
			r = r * 5 / scale
		}
		if r < 0 || r > 5 {
			h.Rating = nil
		} else {
			h.Rating = &r
		}
	}

	if amt := floatAlias(p, "price"); amt != nil && *amt > 0 {
		h.Price = &domain.Price{Amount: *amt, Currency: strings.ToUpper(firstAlias(p, "currency"))}
	}

	if h.ID == "" {
		sum := sha1.Sum([]byte(strings.ToLower(strings.Join([]string{h.Name, h.City, h.Country}, "|"))))
		h.ID = hex.EncodeToString(sum[:8])
	}
	return h, nil
}
