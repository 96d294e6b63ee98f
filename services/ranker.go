package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// Criterion weights. They sum to 1.0; the composite is scaled to 0-100.
const (
	weightPriceUser = 0.34
	weightArea      = 0.22
	weightBeds      = 0.14
	weightBaths     = 0.08
	weightType      = 0.06
	weightPriceArea = 0.08
	weightParking   = 0.05
	weightKeyFeats  = 0.02
	weightFreshness = 0.01
)

const defaultResultLimit = 10

// keyFeatures are the amenities that lift the features sub-score.
var keyFeatures = []string{
	"air conditioning", "balcony", "furnished", "dishwasher", "gym", "pool",
}

// apartmentFamily groups the labels treated as near-equivalent when the
// requested type does not match exactly.
var apartmentFamily = map[string]struct{}{
	"apartment": {}, "unit": {}, "flat": {},
}

// Ranker filters candidates against the query's hard requirements and
// orders the survivors by a weighted multi-criteria score.
type Ranker struct {
	standardizer *Standardizer
	logger       *utils.Logger
}

func NewRanker(logger *utils.Logger) *Ranker {
	return &Ranker{
		standardizer: NewStandardizer(),
		logger:       logger,
	}
}

// Rank returns the top candidates for the query, best first. Ties on score
// break toward the price closest to the query's midpoint, then the lower
// price; properties without a numeric price sort after priced ones.
func (r *Ranker) Rank(query models.SearchQuery, properties []*models.Property) []*models.RankedProperty {
	localMin, localMax := priceRange(properties)

	candidates := r.filter(query, properties)
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]*models.RankedProperty, 0, len(candidates))
	for _, p := range candidates {
		breakdown := r.score(query, p, localMin, localMax)
		ranked = append(ranked, &models.RankedProperty{
			Property:  p,
			Score:     breakdownTotal(breakdown),
			Breakdown: breakdown,
		})
	}

	midpoint, hasMidpoint := query.PriceMidpoint()
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedLess(ranked[i], ranked[j], midpoint, hasMidpoint)
	})

	limit := query.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	r.logger.Info("[ranker] %d candidate(s) after filters, returning top %d", len(candidates), len(ranked))
	return ranked
}

// filter applies the query's hard requirements.
func (r *Ranker) filter(query models.SearchQuery, properties []*models.Property) []*models.Property {
	wantSuburb := strings.ToLower(r.standardizer.CanonicalSuburb(query.Suburb))

	var out []*models.Property
	for _, p := range properties {
		if query.Suburb != "" && !strings.Contains(strings.ToLower(p.Suburb), wantSuburb) {
			continue
		}
		if query.BedroomsMin != nil && p.Bedrooms < *query.BedroomsMin {
			continue
		}
		if query.BathroomsMin != nil && p.Bathrooms < *query.BathroomsMin {
			continue
		}
		if query.ParkingRequired && p.Parking < 1 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *Ranker) score(query models.SearchQuery, p *models.Property, localMin, localMax float64) models.ScoreBreakdown {
	return models.ScoreBreakdown{
		PriceUser: weightPriceUser * priceFit(query, p) * 100,
		Area:      weightArea * 1.0 * 100,
		Beds:      weightBeds * bedsFit(query.BedroomsMin, p.Bedrooms) * 100,
		Baths:     weightBaths * bathsFit(query.BathroomsMin, p.Bathrooms) * 100,
		Type:      weightType * typeFit(r.standardizer, query.PropertyType, p.PropertyType) * 100,
		PriceArea: weightPriceArea * priceAreaFit(p, localMin, localMax) * 100,
		Parking:   weightParking * parkingFit(query.ParkingRequired, p.Parking) * 100,
		Features:  weightKeyFeats * featureFit(p) * 100,
		Freshness: weightFreshness * freshnessFit(p.ScrapedAt) * 100,
	}
}

// rankedLess orders by score descending, then by distance from the query's
// price midpoint, then by raw price. Properties without a numeric price sort
// after priced ones on both tie-breaks.
func rankedLess(a, b *models.RankedProperty, midpoint float64, hasMidpoint bool) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if hasMidpoint {
		da := midpointDistance(a.Property, midpoint)
		db := midpointDistance(b.Property, midpoint)
		if da != db {
			return da < db
		}
	}
	return priceOrInf(a.Property) < priceOrInf(b.Property)
}

func breakdownTotal(b models.ScoreBreakdown) float64 {
	return b.PriceUser + b.Area + b.Beds + b.Baths + b.Type +
		b.PriceArea + b.Parking + b.Features + b.Freshness
}

// priceFit scores against the user's price band, centered on the midpoint
// with a scale wide enough that narrow bands do not cliff-edge.
func priceFit(query models.SearchQuery, p *models.Property) float64 {
	midpoint, ok := query.PriceMidpoint()
	if !ok || !p.HasNumericPrice() {
		return 0.3
	}

	scale := math.Max(30, (*query.PriceMax-*query.PriceMin)/2)
	return clamp01(1.0 - math.Abs(*p.PriceNumeric-midpoint)/scale)
}

func bedsFit(minimum *int, beds int) float64 {
	if minimum == nil {
		return 0.7 + 0.15*float64(minInt(beds, 2))/2
	}
	return surplusScore(beds - *minimum)
}

func bathsFit(minimum *int, baths int) float64 {
	if minimum == nil {
		return math.Min(1.0, 0.7+0.3*float64(minInt(baths, 2))/2)
	}
	return surplusScore(baths - *minimum)
}

// surplusScore rewards meeting the minimum exactly; large surpluses signal
// a bigger (and pricier) property than asked for.
func surplusScore(surplus int) float64 {
	switch surplus {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.6
	default:
		return 0.5
	}
}

func typeFit(std *Standardizer, wanted, actual string) float64 {
	if strings.TrimSpace(wanted) == "" {
		return 0.7
	}
	if std.StandardizeType(wanted) == std.StandardizeType(actual) {
		return 1.0
	}
	_, wantedApt := apartmentFamily[strings.ToLower(strings.TrimSpace(wanted))]
	_, actualApt := apartmentFamily[strings.ToLower(strings.TrimSpace(actual))]
	if wantedApt && actualApt {
		return 0.7
	}
	return 0.2
}

// priceAreaFit scores a price against the candidate set's own range,
// favoring prices a bit below the middle of the local market.
func priceAreaFit(p *models.Property, localMin, localMax float64) float64 {
	if !p.HasNumericPrice() || localMax <= 0 {
		return 0.5
	}
	price := *p.PriceNumeric

	if price >= localMin && price <= localMax {
		rel := (price - localMin) / (localMax - localMin + 1e-9)
		return clamp01(1.0 - 0.6*math.Abs(rel-0.4))
	}

	over := localMin - price
	if price > localMax {
		over = price - localMax
	}
	return clamp01(1.0 - over/math.Max(50, (localMax-localMin)/3))
}

func parkingFit(required bool, parking int) float64 {
	switch {
	case parking > 0:
		return 1.0
	case required:
		return 0.0
	default:
		return 0.7
	}
}

func featureFit(p *models.Property) float64 {
	score := 0.0
	for _, key := range keyFeatures {
		if hasFeature(p, key) {
			score += 0.2
		}
	}
	return math.Min(score, 1.0)
}

func freshnessFit(scrapedAt time.Time) float64 {
	if scrapedAt.IsZero() {
		return 0.7
	}
	age := time.Since(scrapedAt)
	switch {
	case age <= 7*24*time.Hour:
		return 1.0
	case age <= 30*24*time.Hour:
		return 0.85
	case age <= 90*24*time.Hour:
		return 0.6
	default:
		return 0.4
	}
}

func hasFeature(p *models.Property, key string) bool {
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), key) {
			return true
		}
	}
	return false
}

func priceRange(properties []*models.Property) (float64, float64) {
	localMin, localMax := math.Inf(1), 0.0
	for _, p := range properties {
		if !p.HasNumericPrice() {
			continue
		}
		localMin = math.Min(localMin, *p.PriceNumeric)
		localMax = math.Max(localMax, *p.PriceNumeric)
	}
	if math.IsInf(localMin, 1) {
		return 0, 0
	}
	return localMin, localMax
}

func midpointDistance(p *models.Property, midpoint float64) float64 {
	if !p.HasNumericPrice() {
		return math.Inf(1)
	}
	return math.Abs(*p.PriceNumeric - midpoint)
}

func priceOrInf(p *models.Property) float64 {
	if !p.HasNumericPrice() {
		return math.Inf(1)
	}
	return *p.PriceNumeric
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
