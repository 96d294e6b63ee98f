package services

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

func rankQuery() models.SearchQuery {
	return models.SearchQuery{
		Suburb:      "bondi",
		BedroomsMin: models.Int(2),
		PriceMin:    models.Float64(600),
		PriceMax:    models.Float64(700),
		Limit:       10,
	}
}

func rankCandidate(address string, price *float64, beds, baths, cars int) *models.Property {
	display := "Contact Agent"
	if price != nil {
		display = "$" + address
	}
	return &models.Property{
		Address:      address,
		Suburb:       "Bondi",
		Price:        display,
		PriceNumeric: price,
		Bedrooms:     beds,
		Bathrooms:    baths,
		Parking:      cars,
		PropertyType: "Apartment / Unit / Flat",
		Source:       "domain.com.au",
		ScrapedAt:    time.Now(),
	}
}

func TestRankFiltersHardRequirements(t *testing.T) {
	r := NewRanker(utils.NewLogger())
	query := rankQuery()

	inBand := rankCandidate("5 Smith Street", models.Float64(650), 2, 1, 1)
	tooFewBeds := rankCandidate("7 Hall Street", models.Float64(640), 1, 1, 1)
	wrongSuburb := rankCandidate("1 George Street", models.Float64(650), 2, 1, 1)
	wrongSuburb.Suburb = "Sydney"

	ranked := r.Rank(query, []*models.Property{inBand, tooFewBeds, wrongSuburb})

	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(ranked))
	}
	if ranked[0].Property.Address != "5 Smith Street" {
		t.Errorf("survivor = %q", ranked[0].Property.Address)
	}
}

func TestRankParkingFilter(t *testing.T) {
	r := NewRanker(utils.NewLogger())

	query := rankQuery()
	query.ParkingRequired = true

	noParking := rankCandidate("5 Smith Street", models.Float64(650), 2, 1, 0)
	withParking := rankCandidate("9 Hall Street", models.Float64(650), 2, 1, 1)

	ranked := r.Rank(query, []*models.Property{noParking, withParking})

	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(ranked))
	}
	if ranked[0].Property.Address != "9 Hall Street" {
		t.Errorf("survivor = %q", ranked[0].Property.Address)
	}
}

func TestRankPetsPreferenceDoesNotFilter(t *testing.T) {
	r := NewRanker(utils.NewLogger())

	query := rankQuery()
	query.PetsRequired = true

	untagged := rankCandidate("5 Smith Street", models.Float64(650), 2, 1, 1)

	ranked := r.Rank(query, []*models.Property{untagged})
	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1; listings without pet tags must stay in", len(ranked))
	}
}

func TestParkingFit(t *testing.T) {
	cases := []struct {
		name     string
		required bool
		parking  int
		want     float64
	}{
		{"available and required", true, 1, 1.0},
		{"available not required", false, 2, 1.0},
		{"missing not required", false, 0, 0.7},
		{"missing but required", true, 0, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parkingFit(tc.required, tc.parking); got != tc.want {
				t.Errorf("parkingFit(%v, %d) = %.2f, want %.2f", tc.required, tc.parking, got, tc.want)
			}
		})
	}
}

func TestPriceFitDefaults(t *testing.T) {
	priced := rankCandidate("5 Smith Street", models.Float64(650), 2, 1, 1)
	unpriced := rankCandidate("7 Hall Street", nil, 2, 1, 1)

	if got := priceFit(models.SearchQuery{}, priced); got != 0.3 {
		t.Errorf("priceFit without query range = %.2f, want 0.3", got)
	}
	if got := priceFit(rankQuery(), unpriced); got != 0.3 {
		t.Errorf("priceFit without property price = %.2f, want 0.3", got)
	}
	if got := priceFit(rankQuery(), priced); got != 1.0 {
		t.Errorf("priceFit at midpoint = %.2f, want 1.0", got)
	}
}

func TestRankOrdersByScore(t *testing.T) {
	r := NewRanker(utils.NewLogger())
	query := rankQuery()

	onTarget := rankCandidate("5 Smith Street", models.Float64(650), 2, 1, 1)
	onTarget.Features = []string{"Balcony", "Air Conditioning"}
	overpriced := rankCandidate("7 Hall Street", models.Float64(980), 2, 1, 1)
	noPrice := rankCandidate("9 Hall Street", nil, 2, 1, 1)

	ranked := r.Rank(query, []*models.Property{overpriced, noPrice, onTarget})

	if len(ranked) != 3 {
		t.Fatalf("ranked = %d, want 3", len(ranked))
	}
	if ranked[0].Property.Address != "5 Smith Street" {
		t.Errorf("top result = %q, want the on-budget property", ranked[0].Property.Address)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("result %d (%.2f) outranks result %d (%.2f)",
				i, ranked[i].Score, i-1, ranked[i-1].Score)
		}
	}
}

func TestRankTieBreaks(t *testing.T) {
	entry := func(address string, price *float64, score float64) *models.RankedProperty {
		return &models.RankedProperty{
			Property: rankCandidate(address, price, 2, 1, 1),
			Score:    score,
		}
	}

	noPrice := entry("1 Hall Street", nil, 80)
	far := entry("3 Hall Street", models.Float64(700), 80)
	nearHigh := entry("5 Hall Street", models.Float64(660), 80)
	nearLow := entry("7 Hall Street", models.Float64(640), 80)
	winner := entry("9 Hall Street", nil, 90)

	ranked := []*models.RankedProperty{noPrice, far, nearHigh, nearLow, winner}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedLess(ranked[i], ranked[j], 650, true)
	})

	want := []string{"9 Hall Street", "7 Hall Street", "5 Hall Street", "3 Hall Street", "1 Hall Street"}
	for i, addr := range want {
		if ranked[i].Property.Address != addr {
			t.Fatalf("position %d = %q, want %q", i, ranked[i].Property.Address, addr)
		}
	}

	// Without a price midpoint, equal scores fall back to price ascending.
	pair := []*models.RankedProperty{far, nearLow}
	sort.SliceStable(pair, func(i, j int) bool {
		return rankedLess(pair[i], pair[j], 0, false)
	})
	if pair[0].Property.Address != "7 Hall Street" {
		t.Errorf("cheapest first without midpoint, got %q", pair[0].Property.Address)
	}
}

func TestRankPriceAreaRangeSpansAllInput(t *testing.T) {
	r := NewRanker(utils.NewLogger())

	kept := rankCandidate("5 Smith Street", models.Float64(760), 2, 1, 1)
	low := rankCandidate("1 George Street", models.Float64(360), 2, 1, 1)
	low.Suburb = "Sydney"
	high := rankCandidate("3 George Street", models.Float64(1160), 2, 1, 1)
	high.Suburb = "Sydney"

	ranked := r.Rank(rankQuery(), []*models.Property{kept, low, high})
	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(ranked))
	}

	// 760 sits at rel 0.5 of the 360..1160 range the whole input defines,
	// giving 0.94 of the 8-point weight. A range over survivors only would
	// collapse to the single price and yield 6.08.
	if got := ranked[0].Breakdown.PriceArea; math.Abs(got-7.52) > 1e-6 {
		t.Errorf("price-area points = %.4f, want 7.52", got)
	}
}

func TestRankBreakdownSumsToScore(t *testing.T) {
	r := NewRanker(utils.NewLogger())

	p := rankCandidate("5 Smith Street", models.Float64(650), 2, 1, 1)
	ranked := r.Rank(rankQuery(), []*models.Property{p})

	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(ranked))
	}
	b := ranked[0].Breakdown
	sum := b.PriceUser + b.Area + b.Beds + b.Baths + b.Type +
		b.PriceArea + b.Parking + b.Features + b.Freshness
	if math.Abs(sum-ranked[0].Score) > 1e-9 {
		t.Errorf("breakdown sum %.6f != score %.6f", sum, ranked[0].Score)
	}
	if ranked[0].Score <= 0 || ranked[0].Score > 100 {
		t.Errorf("score %.2f outside (0, 100]", ranked[0].Score)
	}
}

func TestRankAppliesLimit(t *testing.T) {
	r := NewRanker(utils.NewLogger())

	query := rankQuery()
	query.Limit = 2

	var candidates []*models.Property
	for i := 0; i < 5; i++ {
		price := models.Float64(620 + float64(i)*10)
		candidates = append(candidates, rankCandidate(string(rune('A'+i))+" Smith Street", price, 2, 1, 1))
	}

	ranked := r.Rank(query, candidates)
	if len(ranked) != 2 {
		t.Errorf("ranked = %d, want 2", len(ranked))
	}
}

func TestRankEmptyInput(t *testing.T) {
	r := NewRanker(utils.NewLogger())

	if ranked := r.Rank(rankQuery(), nil); ranked != nil {
		t.Errorf("ranked = %v, want nil", ranked)
	}
}
