package curation

import (
	"math"
	"strings"

	"hotel_curator/internal/domain"
)

type BrandTier string

const (
	TierBlacklist BrandTier = "blacklist"
	TierPremium   BrandTier = "premium"
	TierBoutique  BrandTier = "boutique"
	TierNeutral   BrandTier = "neutral"
)

// ScoreBreakdown holds the normalized sub-scores of one scoring run.
type ScoreBreakdown struct {
	Visual       float64   `json:"visual"`
	Amenity      float64   `json:"amenity"`
	Brand        float64   `json:"brand"`
	Location     float64   `json:"location"`
	Rating       float64   `json:"rating"`
	PricePenalty float64   `json:"price_penalty"`
	Total        float64   `json:"total"`
	BrandTier    BrandTier `json:"brand_tier"`
	// BelowQualityFloor is set when the rating is under MinQualityRating.
	BelowQualityFloor bool `json:"below_quality_floor,omitempty"`
}

func (s ScoreBreakdown) Blacklisted() bool { return s.BrandTier == TierBlacklist }

// signalGroup is a keyword/amenity family shared by scoring and categorizing.
type signalGroup struct {
	keywords  []string
	amenities []string
}

var (
	groupDesign = signalGroup{
		keywords:  []string{"design", "designed", "architect", "architecture", "heritage", "historic", "palace", "castle", "monastery", "art deco", "boutique", "converted", "listed building"},
		amenities: []string{"heritage_building", "design_hotel"},
	}
	groupViews = signalGroup{
		keywords:  []string{"view", "panoramic", "overlook", "skyline", "sunset", "seaside", "oceanfront", "caldera"},
		amenities: []string{"ocean_view", "sea_view", "mountain_view", "city_view"},
	}
	groupRomance = signalGroup{
		keywords:  []string{"romantic", "adults only", "adults-only", "honeymoon", "couples", "secluded"},
		amenities: []string{"adults_only"},
	}
	groupNature = signalGroup{
		keywords:  []string{"forest", "jungle", "mountain", "lake", "vineyard", "garden", "nature", "waterfall", "safari", "countryside", "rainforest"},
		amenities: []string{"garden", "vineyard", "hiking"},
	}
	groupLuxury = signalGroup{
		keywords:  []string{"butler", "private chef", "michelin", "villa", "private pool", "overwater", "concierge"},
		amenities: []string{"butler", "valet", "private_pool"},
	}
	visualGroups = []signalGroup{groupDesign, groupViews, groupRomance, groupNature, groupLuxury}
)

const visualGroupBonus = 0.2

// amenityFamily is a set of canonical amenity codes that scores once no
// matter how many of its codes a hotel lists.
type amenityFamily struct {
	codes  []string
	weight float64
}

var wowAmenities = []amenityFamily{
	{codes: []string{"beach", "private_beach"}, weight: 0.3},
	{codes: []string{"infinity_pool"}, weight: 0.3},
	{codes: []string{"rooftop"}, weight: 0.25},
	{codes: []string{"private_pool"}, weight: 0.25},
	{codes: []string{"spa"}, weight: 0.2},
	{codes: []string{"pool"}, weight: 0.15},
	{codes: []string{"valet"}, weight: 0.1},
	{codes: []string{"hot_tub"}, weight: 0.1},
	{codes: []string{"sauna"}, weight: 0.1},
}

// Water/view amenities weigh most, wellness next, design/romance/nature least.
var highValueAmenities = []amenityFamily{
	{codes: []string{"beach", "private_beach"}, weight: 3},
	{codes: []string{"infinity_pool"}, weight: 3},
	{codes: []string{"rooftop"}, weight: 3},
	{codes: []string{"overwater"}, weight: 3},
	{codes: []string{"ocean_view", "sea_view"}, weight: 3},
	{codes: []string{"spa"}, weight: 2},
	{codes: []string{"sauna"}, weight: 2},
	{codes: []string{"hot_tub"}, weight: 2},
	{codes: []string{"hammam"}, weight: 2},
	{codes: []string{"wellness"}, weight: 2},
	{codes: []string{"thermal_bath"}, weight: 2},
	{codes: []string{"heritage_building"}, weight: 1},
	{codes: []string{"garden"}, weight: 1},
	{codes: []string{"adults_only"}, weight: 1},
	{codes: []string{"vineyard"}, weight: 1},
	{codes: []string{"fireplace"}, weight: 1},
}

// amenityAliases maps common feed spellings onto canonical codes. Codes not
// listed here are matched as they are.
var amenityAliases = map[string]string{
	"beachfront":             "beach",
	"beach_front":            "beach",
	"beach_access":           "beach",
	"direct_beach_access":    "beach",
	"infinity_swimming_pool": "infinity_pool",
	"rooftop_pool":           "rooftop",
	"rooftop_bar":            "rooftop",
	"rooftop_terrace":        "rooftop",
	"roof_terrace":           "rooftop",
	"swimming_pool":          "pool",
	"outdoor_pool":           "pool",
	"indoor_pool":            "pool",
	"outdoor_swimming_pool":  "pool",
	"indoor_swimming_pool":   "pool",
	"private_swimming_pool":  "private_pool",
	"jacuzzi":                "hot_tub",
	"whirlpool":              "hot_tub",
	"steam_room":             "sauna",
	"turkish_bath":           "hammam",
	"spa_centre":             "spa",
	"spa_center":             "spa",
	"wellness_centre":        "wellness",
	"wellness_center":        "wellness",
	"valet_parking":          "valet",
	"butler_service":         "butler",
	"gardens":                "garden",
	"sea_views":              "sea_view",
	"ocean_views":            "ocean_view",
	"mountain_views":         "mountain_view",
	"city_views":             "city_view",
}

type locationType struct {
	keywords  []string
	amenities []string
	weight    float64
}

var locationTypes = []locationType{
	{keywords: []string{"beach", "beachfront", "seafront", "island", "bay", "coast", "lagoon", "oceanfront"}, amenities: []string{"beach", "private_beach", "overwater"}, weight: 0.4},
	{keywords: []string{"mountain", "alpine", "ski", "chalet", "alps"}, amenities: []string{"ski_in_ski_out", "mountain_view"}, weight: 0.4},
	{keywords: []string{"lake", "lakeside", "lakefront"}, amenities: []string{"lake_access"}, weight: 0.4},
	{keywords: []string{"cliff", "clifftop", "cliffside", "caldera"}, weight: 0.4},
	{keywords: []string{"vineyard", "winery", "wine estate"}, amenities: []string{"vineyard"}, weight: 0.4},
	{keywords: []string{"city centre", "city center", "downtown", "skyline", "old town"}, weight: 0.2},
}

const topDestinationScore = 0.6

// Scorer computes deterministic desirability scores. It makes no external
// calls and keeps no state between hotels.
type Scorer struct {
	cfg  PipelineConfig
	top  map[string]bool
	tier brandTable
}

func NewScorer(cfg PipelineConfig) *Scorer {
	top := make(map[string]bool, len(cfg.TopDestinations))
	for _, c := range cfg.TopDestinations {
		top[Fold(c)] = true
	}
	return &Scorer{cfg: cfg, top: top, tier: newBrandTable(cfg.Brands)}
}

func (s *Scorer) Score(h domain.Hotel) ScoreBreakdown {
	f := newFeatures(h)
	var b ScoreBreakdown

	b.Visual = s.visual(f)
	b.Amenity = s.amenity(f)
	b.BrandTier, b.Brand = s.brand(h)
	b.Location = s.location(h, f)
	b.Rating, b.BelowQualityFloor = s.rating(h)
	b.PricePenalty = s.pricePenalty(h)

	w := s.cfg.Weights
	total := w.Visual*b.Visual + w.Amenity*b.Amenity + w.Brand*b.Brand +
		w.Location*b.Location + w.Rating*b.Rating - b.PricePenalty
	b.Total = round4(math.Max(0, total))

	b.Visual, b.Amenity, b.Brand = round4(b.Visual), round4(b.Amenity), round4(b.Brand)
	b.Location, b.Rating, b.PricePenalty = round4(b.Location), round4(b.Rating), round4(b.PricePenalty)
	return b
}

func (s *Scorer) visual(f features) float64 {
	v := 0.0
	for _, g := range visualGroups {
		if f.matches(g) {
			v += visualGroupBonus
		}
	}
	for _, fam := range wowAmenities {
		if f.hasAny(fam.codes) {
			v += fam.weight
		}
	}
	return math.Min(1, v)
}

func (s *Scorer) amenity(f features) float64 {
	sum := 0.0
	for _, fam := range highValueAmenities {
		if f.hasAny(fam.codes) {
			sum += fam.weight
		}
	}
	sat := s.cfg.AmenitySaturation
	if sat <= 0 {
		sat = 8
	}
	return math.Min(1, sum/sat)
}

func (s *Scorer) brand(h domain.Hotel) (BrandTier, float64) {
	t := s.tier.classify(h.Brand, h.Name)
	switch t {
	case TierBlacklist:
		return t, 0
	case TierPremium:
		return t, s.cfg.Brands.PremiumScore
	case TierBoutique:
		return t, s.cfg.Brands.BoutiqueScore
	default:
		return TierNeutral, s.cfg.Brands.NeutralScore
	}
}

func (s *Scorer) location(h domain.Hotel, f features) float64 {
	v := 0.0
	if s.top[Fold(h.City)] {
		v += topDestinationScore
	}
	best := 0.0
	for _, lt := range locationTypes {
		if lt.weight > best && (f.hasAny(lt.amenities) || f.text.hasAny(lt.keywords, false)) {
			best = lt.weight
		}
	}
	return math.Min(1, v+best)
}

func (s *Scorer) rating(h domain.Hotel) (float64, bool) {
	if h.Rating == nil {
		return 0.5, false
	}
	lo := s.cfg.MinQualityRating
	r := *h.Rating
	if r < lo {
		return 0, true
	}
	return clamp01((r - lo) / (5 - lo)), false
}

func (s *Scorer) pricePenalty(h domain.Hotel) float64 {
	if h.Price == nil || h.Price.Amount <= 0 {
		return 0
	}
	ceiling, ok := s.cfg.PriceCeilings[strings.ToUpper(h.Price.Currency)]
	if !ok || ceiling <= 0 || h.Price.Amount <= ceiling {
		return 0
	}
	p := s.cfg.PricePenaltyRate * (h.Price.Amount - ceiling) / ceiling
	if s.cfg.MaxPricePenalty > 0 {
		p = math.Min(p, s.cfg.MaxPricePenalty)
	}
	return p
}

/********** hotel features **********/

type features struct {
	text      phraseText      // name + description, folded
	amenities map[string]bool // canonical amenity codes
}

func newFeatures(h domain.Hotel) features {
	ams := make(map[string]bool, len(h.Amenities))
	for _, a := range h.Amenities {
		if n := canonicalAmenity(a); n != "" {
			ams[n] = true
		}
	}
	return features{text: newPhraseText(h.Name + " " + h.Description), amenities: ams}
}

func (f features) hasAny(codes []string) bool {
	for _, c := range codes {
		if f.amenities[c] {
			return true
		}
	}
	return false
}

func (f features) matches(g signalGroup) bool {
	return f.hasAny(g.amenities) || f.text.hasAny(g.keywords, false)
}

func canonicalAmenity(s string) string {
	n := normAmenity(s)
	if c, ok := amenityAliases[n]; ok {
		return c
	}
	return n
}

func normAmenity(s string) string {
	s = Fold(s)
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '/' {
			return '_'
		}
		return r
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// phraseText is folded text reduced to space-separated words so phrases can
// be matched on word boundaries.
type phraseText string

func newPhraseText(s string) phraseText {
	return phraseText(" " + words(Fold(s)) + " ")
}

func words(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '&', r > 127:
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// hasAny matches whole phrases; unless exact is set a trailing plural "s"
// is tolerated ("view" matches "views").
func (t phraseText) hasAny(phrases []string, exact bool) bool {
	for _, p := range phrases {
		w := words(Fold(p))
		if w == "" {
			continue
		}
		if strings.Contains(string(t), " "+w+" ") {
			return true
		}
		if !exact && strings.Contains(string(t), " "+w+"s ") {
			return true
		}
	}
	return false
}

/********** brand tiers **********/

type brandTable struct {
	blacklist, premium, boutique   map[string]bool
	blacklistKW, premiumKW, boutKW []string
}

func newBrandTable(b BrandTiers) brandTable {
	set := func(codes []string) map[string]bool {
		m := make(map[string]bool, len(codes))
		for _, c := range codes {
			m[brandCode(c)] = true
		}
		return m
	}
	return brandTable{
		blacklist: set(b.BlacklistCodes), premium: set(b.PremiumCodes), boutique: set(b.BoutiqueCodes),
		blacklistKW: b.BlacklistKeywords, premiumKW: b.PremiumKeywords, boutKW: b.BoutiqueKeywords,
	}
}

// classify applies the tiers in precedence order: blacklist, premium, boutique.
func (t brandTable) classify(brand, name string) BrandTier {
	code := brandCode(brand)
	text := newPhraseText(brand + " " + name)
	switch {
	case code != "" && t.blacklist[code], text.hasAny(t.blacklistKW, true):
		return TierBlacklist
	case code != "" && t.premium[code], text.hasAny(t.premiumKW, true):
		return TierPremium
	case code != "" && t.boutique[code], text.hasAny(t.boutKW, true):
		return TierBoutique
	}
	return TierNeutral
}

func brandCode(s string) string {
	s = strings.ToUpper(Fold(s))
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}

/********** helpers **********/

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

func round4(x float64) float64 { return math.Round(x*1e4) / 1e4 }
