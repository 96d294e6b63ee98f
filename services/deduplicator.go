package services

import (
	"sort"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// Matching thresholds. A pair is a duplicate only when at least minCriteria
// individual criteria clear their thresholds and the weighted composite
// reaches the low-confidence tier.
const (
	addressMatchThreshold = 0.85
	priceMatchThreshold   = 0.7
	featureMatchThreshold = 0.8
	minCriteria           = 2

	weightAddress  = 0.4
	weightPrice    = 0.2
	weightFeatures = 0.3
	weightSuburb   = 0.1

	tierHigh   = 0.8
	tierMedium = 0.6
	tierLow    = 0.4
)

// sourcePriority orders sources by listing quality when picking the
// canonical link for a merged record.
var sourcePriority = map[string]int{
	"domain.com.au":     3,
	"realestate.com.au": 2,
	"rent.com.au":       1,
}

// typeSpecificity ranks property-type labels so merging keeps the most
// specific one.
var typeSpecificity = map[string]int{
	"Penthouse":               4,
	"Studio":                  3,
	"Villa":                   3,
	"Apartment / Unit / Flat": 2,
	"House":                   2,
	"Townhouse":               2,
	"Duplex":                  2,
	"Unknown":                 0,
}

// Deduplicator standardizes records and collapses cross-source duplicates
// of the same physical property into single canonical records.
type Deduplicator struct {
	standardizer *Standardizer
	logger       *utils.Logger
}

func NewDeduplicator(logger *utils.Logger) *Deduplicator {
	return &Deduplicator{
		standardizer: NewStandardizer(),
		logger:       logger,
	}
}

// Deduplicate standardizes all records, finds duplicate pairs, groups them
// transitively and merges each group into one canonical record. Unique
// records keep their first-occurrence input order.
func (d *Deduplicator) Deduplicate(properties []*models.Property) *models.DedupResult {
	start := time.Now()

	cleaned, changes := d.standardizer.StandardizeAll(properties)

	var matches []models.PropertyMatch
	parent := make([]int, len(cleaned))
	for i := range parent {
		parent[i] = i
	}

	for i := 0; i < len(cleaned); i++ {
		for j := i + 1; j < len(cleaned); j++ {
			if match, ok := d.compare(cleaned[i], cleaned[j]); ok {
				matches = append(matches, match)
				union(parent, i, j)
			}
		}
	}

	// Group members in input order; the groups themselves are emitted in
	// order of their earliest member.
	groups := make(map[int][]int)
	var roots []int
	for i := range cleaned {
		root := find(parent, i)
		if _, seen := groups[root]; !seen {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], i)
	}
	sort.Slice(roots, func(a, b int) bool { return groups[roots[a]][0] < groups[roots[b]][0] })

	unique := make([]*models.Property, 0, len(roots))
	for _, root := range roots {
		members := make([]*models.Property, 0, len(groups[root]))
		for _, idx := range groups[root] {
			members = append(members, cleaned[idx])
		}
		unique = append(unique, d.merge(members))
	}

	result := &models.DedupResult{
		Unique:          unique,
		DuplicatesFound: len(cleaned) - len(unique),
		Matches:         matches,
		Changes:         changes,
		Elapsed:         time.Since(start),
	}

	d.logger.Info("[dedup] %d record(s) in, %d unique out (%d duplicate(s), %d match pair(s))",
		len(properties), len(unique), result.DuplicatesFound, len(matches))
	return result
}

// compare scores one pair across the four criteria and accepts it as a
// duplicate when enough criteria clear their thresholds. A criterion
// contributes its weight to the composite only when it clears.
func (d *Deduplicator) compare(a, b *models.Property) (models.PropertyMatch, bool) {
	addrScore := AddressSimilarity(a.Address, b.Address)
	suburbScore := SuburbSimilarity(a.Suburb, b.Suburb)
	featScore := FeatureSimilarity(a, b)

	// Two "Contact Agent" listings agree on price as far as anyone can tell.
	priceScore := 0.0
	switch {
	case a.HasNumericPrice() && b.HasNumericPrice():
		priceScore = PriceSimilarity(*a.PriceNumeric, *b.PriceNumeric)
	case !a.HasNumericPrice() && !b.HasNumericPrice():
		priceScore = 1.0
	}

	var criteria []string
	score := 0.0
	if addrScore >= addressMatchThreshold {
		criteria = append(criteria, "address")
		score += addrScore * weightAddress
	}
	if priceScore > priceMatchThreshold {
		criteria = append(criteria, "price")
		score += priceScore * weightPrice
	}
	if featScore > featureMatchThreshold {
		criteria = append(criteria, "features")
		score += featScore * weightFeatures
	}
	if suburbScore == 1.0 {
		criteria = append(criteria, "suburb")
		score += suburbScore * weightSuburb
	}

	if score < tierLow || len(criteria) < minCriteria {
		return models.PropertyMatch{}, false
	}

	return models.PropertyMatch{
		A:          a,
		B:          b,
		Score:      score,
		Criteria:   criteria,
		Confidence: confidenceTier(score),
	}, true
}

// merge collapses one duplicate group into a canonical record. The first
// member seeds the result; later members contribute field by field.
func (d *Deduplicator) merge(members []*models.Property) *models.Property {
	canonical := members[0].Clone()
	links := map[string]string{canonical.Source: canonical.Link}

	for _, other := range members[1:] {
		if other.Link != "" {
			links[other.Source] = other.Link
		}

		if !canonical.HasNumericPrice() && other.HasNumericPrice() {
			canonical.Price = other.Price
			canonical.PriceNumeric = models.Float64(*other.PriceNumeric)
		}
		if len(other.Address) > len(canonical.Address) {
			canonical.Address = other.Address
		}
		if typeRank(other.PropertyType) > typeRank(canonical.PropertyType) {
			canonical.PropertyType = other.PropertyType
		}
		if other.Bedrooms > canonical.Bedrooms {
			canonical.Bedrooms = other.Bedrooms
		}
		if other.Bathrooms > canonical.Bathrooms {
			canonical.Bathrooms = other.Bathrooms
		}
		if other.Parking > canonical.Parking {
			canonical.Parking = other.Parking
		}
		if canonical.Suburb == "" {
			canonical.Suburb = other.Suburb
		}
		canonical.Features = mergeFeatures(canonical.Features, other.Features)
	}

	if len(members) > 1 {
		canonical.Source, canonical.Link = bestLink(links)
		canonical.AltLinks = altLinks(links, canonical.Link)
	}
	return canonical
}

// bestLink picks the link from the highest-priority source.
func bestLink(links map[string]string) (string, string) {
	bestSource, bestURL, bestRank := "", "", -1
	for source, link := range links {
		if link == "" {
			continue
		}
		rank := sourcePriority[source]
		if rank > bestRank || (rank == bestRank && source < bestSource) {
			bestSource, bestURL, bestRank = source, link, rank
		}
	}
	return bestSource, bestURL
}

func altLinks(links map[string]string, primary string) []string {
	var alts []string
	for _, link := range links {
		if link != "" && link != primary {
			alts = append(alts, link)
		}
	}
	sort.Strings(alts)
	return alts
}

func mergeFeatures(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[normalizeForComparison(f)] = struct{}{}
	}
	for _, f := range incoming {
		key := normalizeForComparison(f)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		existing = append(existing, f)
	}
	return existing
}

func typeRank(t string) int {
	if rank, ok := typeSpecificity[t]; ok {
		return rank
	}
	if t == "" {
		return 0
	}
	return 1
}

func confidenceTier(score float64) string {
	switch {
	case score >= tierHigh:
		return "high"
	case score >= tierMedium:
		return "medium"
	default:
		return "low"
	}
}

// find locates the group root with path compression.
func find(parent []int, i int) int {
	for parent[i] != i {
		parent[i] = parent[parent[i]]
		i = parent[i]
	}
	return i
}

// union joins two groups, keeping the smaller index as root so group order
// follows input order.
func union(parent []int, a, b int) {
	ra, rb := find(parent, a), find(parent, b)
	if ra == rb {
		return
	}
	if ra < rb {
		parent[rb] = ra
	} else {
		parent[ra] = rb
	}
}
