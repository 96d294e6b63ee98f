package models

import "time"

// Property is one listing observation from a single source. Records arrive
// raw from the per-source parsers and are standardized by the deduplicator
// before any cross-source comparison.
type Property struct {
	Address      string    `json:"address"`
	Suburb       string    `json:"suburb"`
	Price        string    `json:"price"`
	PriceNumeric *float64  `json:"price_numeric,omitempty"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Parking      int       `json:"parking"`
	PropertyType string    `json:"property_type"`
	Source       string    `json:"source"`
	Link         string    `json:"link"`
	AltLinks     []string  `json:"alt_links,omitempty"`
	Features     []string  `json:"features,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// HasNumericPrice reports whether a usable numeric price is present.
// "Contact Agent" style listings carry a display string but no number.
func (p *Property) HasNumericPrice() bool {
	return p.PriceNumeric != nil && *p.PriceNumeric >= 0
}

// DisplayPrice returns the price string, falling back to "Contact Agent".
func (p *Property) DisplayPrice() string {
	if p.Price == "" {
		return "Contact Agent"
	}
	return p.Price
}

// Clone returns a shallow copy with its own feature/link slices, so
// standardization never mutates the caller's record.
func (p *Property) Clone() *Property {
	cp := *p
	if p.PriceNumeric != nil {
		v := *p.PriceNumeric
		cp.PriceNumeric = &v
	}
	if p.Latitude != nil {
		v := *p.Latitude
		cp.Latitude = &v
	}
	if p.Longitude != nil {
		v := *p.Longitude
		cp.Longitude = &v
	}
	cp.AltLinks = append([]string(nil), p.AltLinks...)
	cp.Features = append([]string(nil), p.Features...)
	return &cp
}

// Float64 is a convenience for building optional price values.
func Float64(v float64) *float64 { return &v }

// Int is a convenience for building optional query minimums.
func Int(v int) *int { return &v }
