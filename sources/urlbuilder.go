package sources

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// URLBuilder expands one search query into per-source, per-page fetch
// tasks. Each listing site encodes suburb, postcode and filters into its
// search URLs differently, so the formats live here in one place.
type URLBuilder struct {
	pages  int
	logger *utils.Logger
}

// NewURLBuilder creates a URLBuilder that generates the given number of
// result pages per source.
func NewURLBuilder(pages int, logger *utils.Logger) *URLBuilder {
	if pages < 1 {
		pages = 1
	}
	return &URLBuilder{pages: pages, logger: logger}
}

// BuildTasks generates fetch tasks for the query across all sources.
// Duplicate URLs are dropped. An unknown suburb is an error since no
// source URL can be formed for it.
func (b *URLBuilder) BuildTasks(query models.SearchQuery, srcs []config.SourceConfig) ([]models.FetchTask, error) {
	suburb := strings.ToLower(strings.TrimSpace(query.Suburb))
	if suburb == "" {
		return nil, fmt.Errorf("sources: query has no suburb")
	}
	postcode, ok := PostcodeFor(suburb)
	if !ok {
		return nil, fmt.Errorf("sources: unsupported suburb %q", query.Suburb)
	}

	seen := utils.NewURLSet()
	var tasks []models.FetchTask

	for _, src := range srcs {
		for page := 1; page <= b.pages; page++ {
			u, err := b.pageURL(src, suburb, postcode, page, query)
			if err != nil {
				b.logger.Warn("[urls] %s: %v", src.Name, err)
				continue
			}
			if !seen.Add(u) {
				continue
			}
			tasks = append(tasks, models.FetchTask{
				Source: src.Name,
				URL:    u,
				Page:   page,
				Filters: map[string]string{
					"suburb":   suburb,
					"postcode": postcode,
				},
			})
		}
	}

	b.logger.Info("[urls] Generated %d task(s) for %q across %d source(s)",
		len(tasks), suburb, len(srcs))
	return tasks, nil
}

func (b *URLBuilder) pageURL(src config.SourceConfig, suburb, postcode string, page int, query models.SearchQuery) (string, error) {
	switch src.Name {
	case "realestate.com.au":
		return realestateURL(src.BaseURL, suburb, postcode, page, query), nil
	case "domain.com.au":
		return domainURL(src.BaseURL, suburb, postcode, page, query), nil
	case "rent.com.au":
		return rentURL(src.BaseURL, suburb, postcode, page), nil
	default:
		return "", fmt.Errorf("no URL format for source %q", src.Name)
	}
}

// realestateURL: /rent/in-{suburb},+nsw+{postcode}/list-{page}
func realestateURL(base, suburb, postcode string, page int, query models.SearchQuery) string {
	locality := strings.ReplaceAll(suburb, " ", "+")
	u := fmt.Sprintf("%s/rent/in-%s,+nsw+%s/list-%d", base, locality, postcode, page)

	params := url.Values{}
	if query.BedroomsMin != nil {
		params.Set("bedrooms", strconv.Itoa(*query.BedroomsMin))
	}
	if query.PriceMin != nil && query.PriceMax != nil {
		params.Set("price", fmt.Sprintf("%d-%d", int(*query.PriceMin), int(*query.PriceMax)))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// domainURL: /rent/{suburb}-nsw-{postcode}/?page={page}
func domainURL(base, suburb, postcode string, page int, query models.SearchQuery) string {
	u := fmt.Sprintf("%s/rent/%s-nsw-%s/", base, Slug(suburb), postcode)

	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if query.BedroomsMin != nil {
		params.Set("bedrooms", strconv.Itoa(*query.BedroomsMin))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// rentURL: /properties/{suburb}-nsw-{postcode}?page={page}
func rentURL(base, suburb, postcode string, page int) string {
	u := fmt.Sprintf("%s/properties/%s-nsw-%s", base, Slug(suburb), postcode)
	if page > 1 {
		u += "?page=" + strconv.Itoa(page)
	}
	return u
}
