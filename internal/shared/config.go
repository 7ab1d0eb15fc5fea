package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/adapters/providers"
	"hotel_curator/internal/curation"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	GooglePlacesBase string
	GooglePlacesKey  string
	SerpAPIBase      string
	SerpAPIKey       string
	UnsplashBase     string
	UnsplashKey      string
	ProviderOrder    []string
	ProviderRPS      int
	SupplierCacheTTL time.Duration

	CallBudget   int // <0 means unlimited
	PipelineRPS  float64
	BatchSize    int
	BatchPause   time.Duration
	Workers      int
	TargetPhotos int
	MatchScore   float64
	MinScore     float64
	MinPhotos    int
	MinRating    float64

	// photo resolution gate; mode is "both" or "area"
	ResolutionMode string
	MinWidth       int
	MinHeight      int
	MinPixels      int
}

func Load() Config {
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/curator?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		GooglePlacesBase: env("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		GooglePlacesKey:  env("GOOGLE_PLACES_API_KEY", ""),
		SerpAPIBase:      env("SERPAPI_BASE_URL", "https://serpapi.com"),
		SerpAPIKey:       env("SERPAPI_API_KEY", ""),
		UnsplashBase:     env("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
		UnsplashKey:      env("UNSPLASH_ACCESS_KEY", ""),
		ProviderOrder:    list("PROVIDER_ORDER", []string{providers.NameGooglePlaces, providers.NameSerpAPI, providers.NameUnsplash}),
		ProviderRPS:      atoi("PROVIDER_RPS", 5),
		SupplierCacheTTL: dur("SUPPLIER_CACHE_TTL", 24*time.Hour),

		CallBudget:   atoi("CURATION_CALL_BUDGET", -1),
		PipelineRPS:  atof("CURATION_RPS", 2),
		BatchSize:    atoi("CURATION_BATCH_SIZE", 50),
		BatchPause:   dur("CURATION_BATCH_PAUSE", 30*time.Second),
		Workers:      atoi("CURATION_WORKERS", 1),
		TargetPhotos: atoi("CURATION_TARGET_PHOTOS", 6),
		MatchScore:   atof("CURATION_MATCH_THRESHOLD", 0.6),
		MinScore:     atof("CURATION_MIN_SCORE", 0.55),
		MinPhotos:    atoi("CURATION_MIN_PHOTOS", 3),
		MinRating:    atof("CURATION_MIN_RATING", 4.0),

		ResolutionMode: strings.ToLower(strings.TrimSpace(env("CURATION_RESOLUTION_MODE", string(curation.PolicyBoth)))),
		MinWidth:       atoi("CURATION_MIN_WIDTH", 1600),
		MinHeight:      atoi("CURATION_MIN_HEIGHT", 1067),
		MinPixels:      atoi("CURATION_MIN_PIXELS", 1280*900),
	}
	if c.GooglePlacesKey == "" && c.SerpAPIKey == "" && c.UnsplashKey == "" {
		log.Warn().Msg("no photo provider credentials set")
	}
	return c
}

// Pipeline applies the env overrides to the default pipeline tunables.
func (c Config) Pipeline() curation.PipelineConfig {
	p := curation.DefaultPipelineConfig()
	if c.TargetPhotos > 0 {
		p.TargetPhotos = c.TargetPhotos
	}
	p.MinScore = c.MinScore
	p.MinPhotos = c.MinPhotos
	p.MinRating = c.MinRating
	if c.ResolutionMode != "" {
		p.Resolution = curation.ResolutionPolicy{
			Mode:      curation.PolicyMode(c.ResolutionMode),
			MinWidth:  c.MinWidth,
			MinHeight: c.MinHeight,
			MinPixels: c.MinPixels,
		}
	}
	return p
}

func (c Config) Providers() providers.Config {
	return providers.Config{
		GooglePlacesBase: c.GooglePlacesBase,
		GooglePlacesKey:  c.GooglePlacesKey,
		SerpAPIBase:      c.SerpAPIBase,
		SerpAPIKey:       c.SerpAPIKey,
		UnsplashBase:     c.UnsplashBase,
		UnsplashKey:      c.UnsplashKey,
		RPS:              c.ProviderRPS,
		Order:            c.ProviderOrder,
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("invalid integer; using default")
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("invalid float; using default")
	}
	return def
}

// dur accepts Go durations ("30s") or bare seconds ("30").
func dur(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Warn().Str("key", k).Str("value", v).Msg("invalid duration; using default")
	return def
}

// list splits a comma-separated value, dropping blanks.
func list(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
