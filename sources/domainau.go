package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// DomainParser extracts listing cards from domain.com.au rental search
// result pages. Domain splits the address across two lines inside the
// card heading, so both are joined.
type DomainParser struct {
	baseURL string
	logger  *utils.Logger
}

func NewDomainParser(baseURL string, logger *utils.Logger) *DomainParser {
	return &DomainParser{baseURL: baseURL, logger: logger}
}

func (p *DomainParser) Parse(content string, task models.FetchTask) ([]*models.Property, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("sources: domain: parse html: %w", err)
	}

	var props []*models.Property
	skipped := 0

	doc.Find("div[data-testid='listing-card-wrapper'], li[data-testid^='listing'], div.listing-result").Each(func(_ int, card *goquery.Selection) {
		address := p.address(card)
		if address == "" {
			skipped++
			return
		}

		link := firstAttr(card, "href",
			"a[data-testid='listing-card-link']",
			"a")

		props = append(props, &models.Property{
			Address: address,
			Suburb:  task.Filters["suburb"],
			Price: firstText(card,
				"[data-testid='listing-card-price']",
				"p.listing-result__price",
				".price"),
			Bedrooms: firstCount(card,
				"[data-testid='property-features-feature']:contains('Bed')",
				"span.beds",
				"[aria-label*='Bed']"),
			Bathrooms: firstCount(card,
				"[data-testid='property-features-feature']:contains('Bath')",
				"span.baths",
				"[aria-label*='Bath']"),
			Parking: firstCount(card,
				"[data-testid='property-features-feature']:contains('Parking')",
				"span.parking",
				"[aria-label*='Parking']"),
			PropertyType: firstText(card,
				"[data-testid='listing-card-property-type']",
				"span.property-type"),
			Features: collectFeatures(card,
				"[data-testid='listing-card-features'] li",
				"ul.features li"),
			Source:    task.Source,
			Link:      absLink(p.baseURL, link),
			ScrapedAt: time.Now(),
		})
	})

	if skipped > 0 {
		p.logger.Debug("[domain] Skipped %d card(s) without an address on %s", skipped, task.URL)
	}
	return props, nil
}

func (p *DomainParser) address(card *goquery.Selection) string {
	line1 := firstText(card,
		"[data-testid='address-line1']",
		"span.address-line1")
	line2 := firstText(card,
		"[data-testid='address-line2']",
		"span.address-line2")

	switch {
	case line1 != "" && line2 != "":
		return strings.TrimSuffix(strings.TrimSpace(line1), ",") + ", " + line2
	case line1 != "":
		return line1
	default:
		return firstText(card, "h2[data-testid='address-wrapper']", "h2.address", "h2")
	}
}
