package sources

import (
	"strings"
	"testing"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

func TestBuildTasksGeneratesAllSourcesAndPages(t *testing.T) {
	b := NewURLBuilder(2, utils.NewLogger())
	srcs := config.DefaultSources()

	tasks, err := b.BuildTasks(models.SearchQuery{Suburb: "bondi"}, srcs)
	if err != nil {
		t.Fatalf("BuildTasks: %v", err)
	}

	if len(tasks) != len(srcs)*2 {
		t.Fatalf("tasks = %d, want %d", len(tasks), len(srcs)*2)
	}

	perSource := make(map[string]int)
	for _, task := range tasks {
		perSource[task.Source]++
		if task.Filters["suburb"] != "bondi" || task.Filters["postcode"] != "2026" {
			t.Errorf("task filters = %v", task.Filters)
		}
	}
	for _, src := range srcs {
		if perSource[src.Name] != 2 {
			t.Errorf("%s has %d task(s), want 2", src.Name, perSource[src.Name])
		}
	}
}

func TestBuildTasksURLFormats(t *testing.T) {
	b := NewURLBuilder(1, utils.NewLogger())

	query := models.SearchQuery{
		Suburb:      "surry hills",
		BedroomsMin: models.Int(2),
		PriceMin:    models.Float64(600),
		PriceMax:    models.Float64(800),
	}

	tasks, err := b.BuildTasks(query, config.DefaultSources())
	if err != nil {
		t.Fatalf("BuildTasks: %v", err)
	}

	bySource := make(map[string]string)
	for _, task := range tasks {
		bySource[task.Source] = task.URL
	}

	re := bySource["realestate.com.au"]
	if !strings.Contains(re, "/rent/in-surry+hills,+nsw+2010/list-1") {
		t.Errorf("realestate URL = %q", re)
	}
	if !strings.Contains(re, "bedrooms=2") || !strings.Contains(re, "price=600-800") {
		t.Errorf("realestate URL missing filters: %q", re)
	}

	if dom := bySource["domain.com.au"]; !strings.Contains(dom, "/rent/surry-hills-nsw-2010/") {
		t.Errorf("domain URL = %q", dom)
	}
	if rent := bySource["rent.com.au"]; !strings.Contains(rent, "/properties/surry-hills-nsw-2010") {
		t.Errorf("rent URL = %q", rent)
	}
}

func TestBuildTasksDeduplicatesURLs(t *testing.T) {
	b := NewURLBuilder(1, utils.NewLogger())

	// Two configs for the same source generate identical URLs; only one
	// task should survive.
	src := config.DefaultSources()[0]
	tasks, err := b.BuildTasks(models.SearchQuery{Suburb: "bondi"}, []config.SourceConfig{src, src})
	if err != nil {
		t.Fatalf("BuildTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("tasks = %d, want 1 after URL dedup", len(tasks))
	}
}

func TestBuildTasksUnknownSuburb(t *testing.T) {
	b := NewURLBuilder(1, utils.NewLogger())

	if _, err := b.BuildTasks(models.SearchQuery{Suburb: "atlantis"}, config.DefaultSources()); err == nil {
		t.Fatal("expected error for unsupported suburb")
	}
	if _, err := b.BuildTasks(models.SearchQuery{}, config.DefaultSources()); err == nil {
		t.Fatal("expected error for missing suburb")
	}
}

func TestPostcodeFor(t *testing.T) {
	tests := []struct {
		suburb   string
		postcode string
		ok       bool
	}{
		{"bondi", "2026", true},
		{"Bondi", "2026", true},
		{"  surry hills ", "2010", true},
		{"atlantis", "", false},
	}

	for _, tt := range tests {
		pc, ok := PostcodeFor(tt.suburb)
		if ok != tt.ok || pc != tt.postcode {
			t.Errorf("PostcodeFor(%q) = (%q, %v), want (%q, %v)", tt.suburb, pc, ok, tt.postcode, tt.ok)
		}
	}
}
