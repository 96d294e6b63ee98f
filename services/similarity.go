package services

import (
	"math"
	"regexp"
	"strings"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
)

// Pairwise similarity functions used by the deduplicator. All are pure and
// symmetric in their arguments.

const (
	// addressNumberBoost is added when both addresses share the same
	// leading street number, since "5 Smith Street" and "50 Smith Street"
	// otherwise score deceptively close.
	addressNumberBoost = 0.1

	// priceTolerance is the relative difference below which two prices are
	// considered the same listing priced slightly apart.
	priceTolerance = 0.05
)

var (
	punctuationPattern  = regexp.MustCompile(`[^\w\s]`)
	streetNumberPattern = regexp.MustCompile(`^[\d/\-]+`)
)

// AddressSimilarity scores two addresses in [0,1] using the ratio of their
// longest common subsequence over normalized strings, boosted when the
// leading street numbers agree.
func AddressSimilarity(a, b string) float64 {
	na := normalizeForComparison(a)
	nb := normalizeForComparison(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	score := sequenceRatio(na, nb)

	numA := streetNumber(na)
	numB := streetNumber(nb)
	if numA != "" && numA == numB {
		score += addressNumberBoost
	}
	return math.Min(score, 1.0)
}

// PriceSimilarity scores two weekly prices in [0,1]. Inside the tolerance
// band the score stays high; outside it decays toward zero over a 50%
// relative difference.
func PriceSimilarity(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a == b {
		return 1.0
	}

	diff := math.Abs(a-b) / math.Max(a, b)
	if diff <= priceTolerance {
		return 1.0 - (diff/priceTolerance)*0.3
	}
	return math.Max(0, 1.0-diff/0.5)
}

// FeatureSimilarity compares bedroom, bathroom and parking counts. Each
// field contributes fully on an exact match and half on an off-by-one.
func FeatureSimilarity(a, b *models.Property) float64 {
	pairs := [][2]int{
		{a.Bedrooms, b.Bedrooms},
		{a.Bathrooms, b.Bathrooms},
		{a.Parking, b.Parking},
	}

	total := 0.0
	for _, pair := range pairs {
		switch diff := abs(pair[0] - pair[1]); diff {
		case 0:
			total += 1.0
		case 1:
			total += 0.5
		}
	}
	return total / float64(len(pairs))
}

// SuburbSimilarity is a binary comparison on canonical suburb names.
func SuburbSimilarity(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) && strings.TrimSpace(a) != "" {
		return 1.0
	}
	return 0
}

func normalizeForComparison(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuationPattern.ReplaceAllString(s, " ")
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

func streetNumber(normalized string) string {
	first, _, _ := strings.Cut(normalized, " ")
	return streetNumberPattern.FindString(first)
}

// sequenceRatio returns 2*LCS(a,b) / (len(a)+len(b)) over runes.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
