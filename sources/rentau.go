package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// RentParser extracts listing cards from rent.com.au search result pages.
type RentParser struct {
	baseURL string
	logger  *utils.Logger
}

func NewRentParser(baseURL string, logger *utils.Logger) *RentParser {
	return &RentParser{baseURL: baseURL, logger: logger}
}

func (p *RentParser) Parse(content string, task models.FetchTask) ([]*models.Property, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("sources: rent: parse html: %w", err)
	}

	var props []*models.Property
	skipped := 0

	doc.Find("div.property-card, article.listing, div[data-testid='property-card']").Each(func(_ int, card *goquery.Selection) {
		address := firstText(card,
			"h2.property-card__address",
			".listing__address",
			"[data-testid='property-address']",
			"h2")
		if address == "" {
			skipped++
			return
		}

		link := firstAttr(card, "href",
			"a.property-card__link",
			"a[data-testid='property-link']",
			"a")

		props = append(props, &models.Property{
			Address: address,
			Suburb:  task.Filters["suburb"],
			Price: firstText(card,
				".property-card__price",
				".listing__price",
				"[data-testid='property-price']"),
			Bedrooms: firstCount(card,
				".property-card__beds",
				"[data-testid='beds']",
				"span.beds"),
			Bathrooms: firstCount(card,
				".property-card__baths",
				"[data-testid='baths']",
				"span.baths"),
			Parking: firstCount(card,
				".property-card__cars",
				"[data-testid='cars']",
				"span.cars"),
			PropertyType: firstText(card,
				".property-card__type",
				"[data-testid='property-type']"),
			Features: collectFeatures(card,
				"ul.property-card__features li",
				".listing__features li"),
			Source:    task.Source,
			Link:      absLink(p.baseURL, link),
			ScrapedAt: time.Now(),
		})
	})

	if skipped > 0 {
		p.logger.Debug("[rent] Skipped %d card(s) without an address on %s", skipped, task.URL)
	}
	return props, nil
}
