package sources

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Shared extraction helpers for the per-site parsers. Listing sites ship
// several card layouts at once depending on A/B buckets, so every lookup
// takes a fallback chain of selectors.

var countPattern = regexp.MustCompile(`\d+`)

// firstText returns the trimmed text of the first selector that matches a
// non-empty element under sel.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the named attribute from the first selector that
// matches an element carrying it.
func firstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, s := range selectors {
		if val, ok := sel.Find(s).First().Attr(attr); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// firstCount extracts the first integer found in the text of any matching
// selector. Returns 0 when no digit is present.
func firstCount(sel *goquery.Selection, selectors ...string) int {
	for _, s := range selectors {
		text := sel.Find(s).First().Text()
		if m := countPattern.FindString(text); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// absLink resolves a card link against the site base URL.
func absLink(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}

// collectFeatures gathers distinct non-empty feature labels from the
// matching elements.
func collectFeatures(sel *goquery.Selection, selectors ...string) []string {
	var features []string
	seen := make(map[string]struct{})
	for _, s := range selectors {
		sel.Find(s).Each(func(_ int, item *goquery.Selection) {
			label := strings.TrimSpace(item.Text())
			if label == "" {
				return
			}
			key := strings.ToLower(label)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			features = append(features, label)
		})
		if len(features) > 0 {
			break
		}
	}
	return features
}
