package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// RealestateParser extracts listing cards from realestate.com.au rental
// search result pages.
type RealestateParser struct {
	baseURL string
	logger  *utils.Logger
}

func NewRealestateParser(baseURL string, logger *utils.Logger) *RealestateParser {
	return &RealestateParser{baseURL: baseURL, logger: logger}
}

func (p *RealestateParser) Parse(content string, task models.FetchTask) ([]*models.Property, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("sources: realestate: parse html: %w", err)
	}

	var props []*models.Property
	skipped := 0

	doc.Find("article.residential-card, div[data-testid='residential-card'], div.listing-card").Each(func(_ int, card *goquery.Selection) {
		address := firstText(card,
			"h2.residential-card__address-heading",
			"[data-testid='address-label']",
			"a.residential-card__details-link",
			"h2")
		if address == "" {
			skipped++
			return
		}

		link := firstAttr(card, "href",
			"a.residential-card__details-link",
			"a[data-testid='details-link']",
			"a")

		props = append(props, &models.Property{
			Address: address,
			Suburb:  task.Filters["suburb"],
			Price: firstText(card,
				".property-price",
				"[data-testid='listing-card-price']",
				".residential-card__price"),
			Bedrooms: firstCount(card,
				"[aria-label*='bedroom']",
				"li[data-testid='property-features-feature-beds']",
				".general-features__beds"),
			Bathrooms: firstCount(card,
				"[aria-label*='bathroom']",
				"li[data-testid='property-features-feature-baths']",
				".general-features__baths"),
			Parking: firstCount(card,
				"[aria-label*='parking']",
				"li[data-testid='property-features-feature-cars']",
				".general-features__cars"),
			PropertyType: firstText(card,
				".residential-card__property-type",
				"[data-testid='property-type']",
				"span.property-type"),
			Features: collectFeatures(card,
				"ul.property-highlights li",
				"[data-testid='property-highlight']"),
			Source:    task.Source,
			Link:      absLink(p.baseURL, link),
			ScrapedAt: time.Now(),
		})
	})

	if skipped > 0 {
		p.logger.Debug("[realestate] Skipped %d card(s) without an address on %s", skipped, task.URL)
	}
	return props, nil
}
