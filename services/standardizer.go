package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
)

// Standardizer normalizes raw listing fields so records from different
// sources become comparable. It never mutates its input; callers receive
// cleaned clones.
type Standardizer struct{}

func NewStandardizer() *Standardizer {
	return &Standardizer{}
}

// streetAbbreviations expands the short street-type forms the listing
// sites use. Matching is word-bounded and case-insensitive.
var streetAbbreviations = []struct {
	pattern *regexp.Regexp
	full    string
}{
	{regexp.MustCompile(`(?i)\bSt\.?\b`), "Street"},
	{regexp.MustCompile(`(?i)\bRd\.?\b`), "Road"},
	{regexp.MustCompile(`(?i)\bAve?\.?\b`), "Avenue"},
	{regexp.MustCompile(`(?i)\bDr\.?\b`), "Drive"},
	{regexp.MustCompile(`(?i)\bCres\.?\b`), "Crescent"},
	{regexp.MustCompile(`(?i)\bPl\.?\b`), "Place"},
	{regexp.MustCompile(`(?i)\bLn\.?\b`), "Lane"},
	{regexp.MustCompile(`(?i)\bCt\.?\b`), "Court"},
	{regexp.MustCompile(`(?i)\bPde\.?\b`), "Parade"},
	{regexp.MustCompile(`(?i)\bTce\.?\b`), "Terrace"},
	{regexp.MustCompile(`\bNsw\b`), "NSW"},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// propertyTypeMap folds the many labels sources use into canonical types.
var propertyTypeMap = map[string]string{
	"apartment": "Apartment / Unit / Flat",
	"unit":      "Apartment / Unit / Flat",
	"flat":      "Apartment / Unit / Flat",
	"apt":       "Apartment / Unit / Flat",
	"condo":     "Apartment / Unit / Flat",
	"house":     "House",
	"home":      "House",
	"cottage":   "House",
	"bungalow":  "House",
	"townhouse": "Townhouse",
	"terrace":   "Townhouse",
	"villa":     "Villa",
	"studio":    "Studio",
	"penthouse": "Penthouse",
	"duplex":    "Duplex",
}

// contactVariations mark price strings that carry no numeric value.
// Matched by substring since sources decorate them freely.
var contactVariations = []string{
	"contact agent", "contact", "price on application", "poa", "enquire", "auction",
}

var priceNumberPattern = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// suburbAliases maps variant suburb spellings to their canonical name.
var suburbAliases = map[string]string{
	"bondi beach":    "Bondi",
	"north bondi":    "Bondi",
	"sydney cbd":     "Sydney",
	"sydney city":    "Sydney",
	"city":           "Sydney",
	"chatswood west": "Chatswood",
}

// StandardizeAll cleans every record and tallies the changes made.
func (s *Standardizer) StandardizeAll(properties []*models.Property) ([]*models.Property, models.StandardizationChanges) {
	var changes models.StandardizationChanges
	cleaned := make([]*models.Property, 0, len(properties))

	for _, p := range properties {
		cp := p.Clone()

		if addr := s.CleanAddress(cp.Address); addr != cp.Address {
			cp.Address = addr
			changes.AddressesCleaned++
		}
		if typ := s.StandardizeType(cp.PropertyType); typ != cp.PropertyType {
			cp.PropertyType = typ
			changes.TypesStandardized++
		}
		display, numeric := s.NormalizePrice(cp.Price)
		if display != cp.Price || (cp.PriceNumeric == nil && numeric != nil) {
			changes.PricesNormalized++
		}
		cp.Price = display
		if cp.PriceNumeric == nil {
			cp.PriceNumeric = numeric
		}

		if suburb := s.CanonicalSuburb(cp.Suburb); suburb != cp.Suburb {
			cp.Suburb = suburb
			changes.SuburbsCanonical++
		}

		cleaned = append(cleaned, cp)
	}

	return cleaned, changes
}

// CleanAddress title-cases an address, expands street abbreviations and
// collapses runs of whitespace.
func (s *Standardizer) CleanAddress(address string) string {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return ""
	}

	addr = titleCase(addr)
	for _, abbr := range streetAbbreviations {
		addr = abbr.pattern.ReplaceAllString(addr, abbr.full)
	}
	return whitespacePattern.ReplaceAllString(addr, " ")
}

// StandardizeType maps a raw property-type label to its canonical form.
// Unknown labels pass through title-cased; empty input becomes "Unknown".
func (s *Standardizer) StandardizeType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "Unknown"
	}

	if canonical, ok := propertyTypeMap[key]; ok {
		return canonical
	}
	for variant, canonical := range propertyTypeMap {
		if strings.Contains(key, variant) {
			return canonical
		}
	}
	return titleCase(key)
}

// NormalizePrice returns the display price and the extracted numeric value.
// "Contact Agent" style strings keep a display form but yield no number.
func (s *Standardizer) NormalizePrice(raw string) (string, *float64) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Contact Agent", nil
	}

	lower := strings.ToLower(trimmed)
	for _, variation := range contactVariations {
		if strings.Contains(lower, variation) {
			return "Contact Agent", nil
		}
	}

	match := priceNumberPattern.FindString(trimmed)
	if match == "" {
		return "Contact Agent", nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || value < 0 {
		return "Contact Agent", nil
	}

	return formatPrice(value), models.Float64(value)
}

// CanonicalSuburb resolves alias spellings to the canonical suburb name.
func (s *Standardizer) CanonicalSuburb(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return raw
	}
	if canonical, ok := suburbAliases[key]; ok {
		return canonical
	}
	return titleCase(key)
}

func formatPrice(value float64) string {
	n := int64(value)
	str := strconv.FormatInt(n, 10)

	var parts []string
	for len(str) > 3 {
		parts = append([]string{str[len(str)-3:]}, parts...)
		str = str[:len(str)-3]
	}
	parts = append([]string{str}, parts...)
	return fmt.Sprintf("$%s", strings.Join(parts, ","))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
