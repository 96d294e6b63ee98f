package models

import "time"

// SearchQuery is the normalized user query consumed by the pipeline.
// Intent extraction happens upstream; by the time a query reaches this
// system every field is already structured.
type SearchQuery struct {
	Suburb          string   `json:"suburb,omitempty"`
	BedroomsMin     *int     `json:"bedrooms_min,omitempty"`
	BathroomsMin    *int     `json:"bathrooms_min,omitempty"`
	PriceMin        *float64 `json:"price_min,omitempty"`
	PriceMax        *float64 `json:"price_max,omitempty"`
	PropertyType    string   `json:"property_type,omitempty"`
	ParkingRequired bool     `json:"parking_required,omitempty"`
	// PetsRequired is carried through from the request but does not act as
	// a hard filter; listings rarely tag pet policy reliably.
	PetsRequired bool `json:"pets_required,omitempty"`
	Limit        int  `json:"limit,omitempty"`
}

// PriceMidpoint returns the center of the stated price range, or false when
// either bound is missing.
func (q SearchQuery) PriceMidpoint() (float64, bool) {
	if q.PriceMin == nil || q.PriceMax == nil {
		return 0, false
	}
	return (*q.PriceMin + *q.PriceMax) / 2, true
}

// PropertyMatch records one accepted pairwise duplicate candidate: the two
// records, the composite score, which criteria cleared their thresholds,
// and a coarse confidence tier. Ephemeral within one deduplication run.
type PropertyMatch struct {
	A          *Property `json:"-"`
	B          *Property `json:"-"`
	Score      float64   `json:"score"`
	Criteria   []string  `json:"criteria"`
	Confidence string    `json:"confidence"` // "high", "medium" or "low"
}

// StandardizationChanges counts normalizations applied during one run.
type StandardizationChanges struct {
	AddressesCleaned  int `json:"addresses_cleaned"`
	TypesStandardized int `json:"types_standardized"`
	PricesNormalized  int `json:"prices_normalized"`
	SuburbsCanonical  int `json:"suburbs_canonical"`
}

// DedupResult is the outcome of one deduplication run.
type DedupResult struct {
	Unique          []*Property            `json:"unique"`
	DuplicatesFound int                    `json:"duplicates_found"`
	Matches         []PropertyMatch        `json:"matches"`
	Changes         StandardizationChanges `json:"changes"`
	Elapsed         time.Duration          `json:"elapsed"`
}

// ScoreBreakdown holds the weighted per-criterion sub-scores, each already
// scaled to its share of the 0–100 total.
type ScoreBreakdown struct {
	PriceUser float64 `json:"price_user"`
	Area      float64 `json:"area"`
	Beds      float64 `json:"beds"`
	Baths     float64 `json:"baths"`
	Type      float64 `json:"type"`
	PriceArea float64 `json:"price_area"`
	Parking   float64 `json:"parking"`
	Features  float64 `json:"features"`
	Freshness float64 `json:"freshness"`
}

// RankedProperty is one canonical property with its aggregate score.
type RankedProperty struct {
	Property  *Property      `json:"property"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// SourceStats summarizes fetch outcomes for one source within one query.
type SourceStats struct {
	Tasks           int `json:"tasks"`
	Succeeded       int `json:"succeeded"`
	Failed          int `json:"failed"`
	RateLimited     int `json:"rate_limited"`
	PropertiesFound int `json:"properties_found"`
}

// SearchReport carries observability metadata for one pipeline run. It is
// returned alongside results and never consumed by the pipeline itself.
type SearchReport struct {
	QueryID           string                 `json:"query_id"`
	Sources           map[string]SourceStats `json:"sources"`
	TasksSubmitted    int                    `json:"tasks_submitted"`
	RawFound          int                    `json:"raw_found"`
	UniqueFound       int                    `json:"unique_found"`
	DuplicatesRemoved int                    `json:"duplicates_removed"`
	Ranked            int                    `json:"ranked"`
	FetchElapsed      time.Duration          `json:"fetch_elapsed"`
	DedupElapsed      time.Duration          `json:"dedup_elapsed"`
	TotalElapsed      time.Duration          `json:"total_elapsed"`
	StartedAt         time.Time              `json:"started_at"`
}

// SearchResult is the terminal output of the pipeline for one query.
type SearchResult struct {
	Ranked []*RankedProperty `json:"ranked"`
	Report SearchReport      `json:"report"`
}
