package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/services"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

type stubBuilder struct{}

func (stubBuilder) BuildTasks(models.SearchQuery, []config.SourceConfig) ([]models.FetchTask, error) {
	return []models.FetchTask{{Source: "domain.com.au", URL: "https://domain.com.au/rent/bondi-nsw-2026/"}}, nil
}

type stubFetcher struct{}

func (stubFetcher) FetchAll(_ context.Context, tasks []models.FetchTask) []*models.FetchResult {
	return []*models.FetchResult{{
		Task:       tasks[0],
		Success:    true,
		StatusCode: 200,
		Properties: []*models.Property{{
			Address:      "5 Smith Street, Bondi",
			Suburb:       "bondi",
			Price:        "$650 per week",
			Bedrooms:     2,
			Bathrooms:    1,
			PropertyType: "apartment",
			Source:       "domain.com.au",
			Link:         "https://domain.com.au/p/1",
		}},
	}}
}

func testHandlers() *Handlers {
	logger := utils.NewLogger()
	pipeline := services.NewPipeline(stubBuilder{}, stubFetcher{}, config.DefaultSources(), logger)
	return NewHandlers(pipeline, nil, logger)
}

func TestSearchHandler(t *testing.T) {
	h := testHandlers()

	body, _ := json.Marshal(models.SearchQuery{Suburb: "bondi", Limit: 5})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Ranked) != 1 {
		t.Errorf("ranked = %d, want 1", len(result.Ranked))
	}
	if result.Report.QueryID == "" {
		t.Error("response missing query id")
	}
}

func TestSearchHandlerRejectsBadBody(t *testing.T) {
	h := testHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSuburbsHandler(t *testing.T) {
	h := testHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/suburbs", nil)
	rec := httptest.NewRecorder()

	h.Suburbs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Suburbs []string `json:"suburbs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Suburbs) == 0 {
		t.Error("no suburbs returned")
	}
	for i := 1; i < len(payload.Suburbs); i++ {
		if payload.Suburbs[i] < payload.Suburbs[i-1] {
			t.Errorf("suburbs not sorted at %d: %q < %q", i, payload.Suburbs[i], payload.Suburbs[i-1])
		}
	}
}
