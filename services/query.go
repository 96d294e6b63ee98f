package services

import (
	"math"
	"strings"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
)

// priceBandFraction and priceBandFloor control how degenerate price inputs
// are widened into a usable band: 8% of the stated bound, never less than
// $100 per week.
const (
	priceBandFraction = 0.08
	priceBandFloor    = 100.0
)

// NormalizeQuery returns a copy of the query with a well-formed price band
// and a lowercased suburb. A single bound becomes a band around it, and an
// empty band (min == max) is widened symmetrically.
func NormalizeQuery(q models.SearchQuery) models.SearchQuery {
	q.Suburb = strings.ToLower(strings.TrimSpace(q.Suburb))

	switch {
	case q.PriceMin != nil && q.PriceMax == nil:
		span := bandSpan(*q.PriceMin)
		q.PriceMax = models.Float64(*q.PriceMin + span)

	case q.PriceMax != nil && q.PriceMin == nil:
		span := bandSpan(*q.PriceMax)
		q.PriceMin = models.Float64(math.Max(0, *q.PriceMax-span))

	case q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin == *q.PriceMax:
		center := *q.PriceMin
		span := bandSpan(center)
		q.PriceMin = models.Float64(math.Max(0, center-span))
		q.PriceMax = models.Float64(center + span)
	}

	if q.Limit <= 0 {
		q.Limit = defaultResultLimit
	}
	return q
}

func bandSpan(bound float64) float64 {
	return math.Max(priceBandFraction*bound, priceBandFloor)
}
