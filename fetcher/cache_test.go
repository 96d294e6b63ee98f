package fetcher

import (
	"testing"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
)

func TestCacheGetSet(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache(30*time.Minute, clock)

	result := &models.FetchResult{Success: true, StatusCode: 200}
	cache.Set("https://test.source/list-1", result)

	got, ok := cache.Get("https://test.source/list-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != result {
		t.Error("cache returned a different result")
	}
	if _, ok := cache.Get("https://test.source/list-2"); ok {
		t.Error("unexpected hit for unstored URL")
	}
}

func TestCacheExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache(30*time.Minute, clock)

	cache.Set("https://test.source/list-1", &models.FetchResult{Success: true})

	clock.Advance(29 * time.Minute)
	if _, ok := cache.Get("https://test.source/list-1"); !ok {
		t.Error("entry expired before its TTL")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := cache.Get("https://test.source/list-1"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestCacheClearExpired(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache(30*time.Minute, clock)

	cache.Set("https://test.source/old", &models.FetchResult{})
	clock.Advance(31 * time.Minute)
	cache.Set("https://test.source/new", &models.FetchResult{})

	cache.ClearExpired()
	if cache.Len() != 1 {
		t.Errorf("entries = %d, want 1 after clearing expired", cache.Len())
	}
	if _, ok := cache.Get("https://test.source/new"); !ok {
		t.Error("fresh entry was evicted")
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache(30*time.Minute, clock)

	cache.Set("HTTPS://Test.Source/list-1/", &models.FetchResult{Success: true})

	variants := []string{
		"https://test.source/list-1",
		"https://test.source/list-1/",
		"https://test.source/list-1#results",
	}
	for _, v := range variants {
		if _, ok := cache.Get(v); !ok {
			t.Errorf("no hit for equivalent URL %q", v)
		}
	}

	if _, ok := cache.Get("https://test.source/list-2"); ok {
		t.Error("distinct URL should miss")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com/path#frag", "https://example.com/path"},
		{"https://example.com/path?b=2&a=1", "https://example.com/path?b=2&a=1"},
		{" https://example.com ", "https://example.com"},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.input); got != tt.expected {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
