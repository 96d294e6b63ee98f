package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// maxBodyBytes caps how much of a listing page is read into memory.
const maxBodyBytes = 5 << 20

// PageFetcher downloads one page and returns its HTTP status and body.
// The plain HTTP client below is the default; a browser-backed
// implementation handles sources whose pages are rendered client-side.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string, timeout time.Duration, userAgent string) (status int, body string, err error)
}

// HTTPFetcher is the default PageFetcher backed by net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a shared transport. Timeouts
// are applied per request via context, not on the client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{}}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, url string, timeout time.Duration, userAgent string) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("fetcher: build request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("fetcher: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("fetcher: read body: %w", err)
	}
	return resp.StatusCode, string(body), nil
}

// Options configures an Orchestrator. Zero values fall back to production
// defaults; tests inject fakes for Pages and Clock.
type Options struct {
	MaxConcurrentTotal int
	CacheTTL           time.Duration
	Retry              utils.RetryPolicy
	Pages              PageFetcher
	Browser            PageFetcher
	Clock              utils.Clock
}

// Orchestrator runs fetch tasks concurrently under a global cap and
// per-source caps, consulting the rate limiter and result cache, retrying
// transient failures, and dispatching successful pages to the registered
// parser for the task's source.
type Orchestrator struct {
	sources   map[string]config.SourceConfig
	cache     *ResultCache
	limiter   *RateLimiter
	registry  *Registry
	pages     PageFetcher
	browser   PageFetcher
	retry     utils.RetryPolicy
	clock     utils.Clock
	logger    *utils.Logger
	globalSem chan struct{}
}

// New creates an Orchestrator for the given sources.
func New(sources []config.SourceConfig, registry *Registry, opts Options, logger *utils.Logger) *Orchestrator {
	if opts.MaxConcurrentTotal < 1 {
		opts.MaxConcurrentTotal = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = utils.RealClock()
	}
	if opts.Pages == nil {
		opts.Pages = NewHTTPFetcher()
	}
	if opts.Retry.RateLimitDelay <= 0 {
		opts.Retry = utils.RetryPolicy{
			JitterMin:      1 * time.Second,
			JitterMax:      3 * time.Second,
			RateLimitDelay: 5 * time.Second,
		}
	}

	byName := make(map[string]config.SourceConfig, len(sources))
	for _, s := range sources {
		byName[s.Name] = s
	}

	return &Orchestrator{
		sources:   byName,
		cache:     NewResultCache(opts.CacheTTL, opts.Clock),
		limiter:   NewRateLimiter(opts.Clock),
		registry:  registry,
		pages:     opts.Pages,
		browser:   opts.Browser,
		retry:     opts.Retry,
		clock:     opts.Clock,
		logger:    logger,
		globalSem: make(chan struct{}, opts.MaxConcurrentTotal),
	}
}

// Cache exposes the shared result cache.
func (o *Orchestrator) Cache() *ResultCache { return o.cache }

// Sources returns the configured sources keyed by name.
func (o *Orchestrator) Sources() map[string]config.SourceConfig { return o.sources }

// FetchAll runs every task and returns exactly one FetchResult per task, in
// submission order. Failures are isolated per task; a failed source never
// aborts fetches for other sources.
func (o *Orchestrator) FetchAll(ctx context.Context, tasks []models.FetchTask) []*models.FetchResult {
	o.cache.ClearExpired()

	results := make([]*models.FetchResult, len(tasks))

	bySource := make(map[string][]int)
	for i, task := range tasks {
		bySource[task.Source] = append(bySource[task.Source], i)
	}

	var wg sync.WaitGroup
	for source, indices := range bySource {
		cfg, ok := o.sources[source]
		if !ok {
			for _, i := range indices {
				results[i] = &models.FetchResult{
					Task:      tasks[i],
					Success:   false,
					Error:     fmt.Sprintf("no source configured for %q", source),
					FetchedAt: o.clock.Now(),
				}
			}
			o.logger.Warn("[fetcher] Skipping %d task(s) for unconfigured source %q", len(indices), source)
			continue
		}

		sourceSem := make(chan struct{}, cfg.MaxConcurrent)
		for _, i := range indices {
			wg.Add(1)
			go func(i int, cfg config.SourceConfig) {
				defer wg.Done()

				sourceSem <- struct{}{}
				defer func() { <-sourceSem }()
				o.globalSem <- struct{}{}
				defer func() { <-o.globalSem }()

				results[i] = o.fetchOne(ctx, tasks[i], cfg)
			}(i, cfg)
		}
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	o.logger.Info("[fetcher] Batch complete: %d/%d tasks succeeded", succeeded, len(tasks))

	return results
}

// fetchOne resolves one task: cache, then the attempt loop. Error classes
// follow the transient / rate-limited / client-terminal taxonomy.
func (o *Orchestrator) fetchOne(ctx context.Context, task models.FetchTask, cfg config.SourceConfig) *models.FetchResult {
	if cached, ok := o.cache.Get(task.URL); ok {
		o.logger.Debug("[fetcher] Cache hit for %s", task.URL)
		return cached
	}

	o.limiter.Wait(task.Source, cfg.RateLimitDelay())

	pf := o.pages
	if cfg.RequiresBrowser && o.browser != nil {
		pf = o.browser
	}

	start := o.clock.Now()
	result := &models.FetchResult{Task: task, FetchedAt: start}

	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt

		select {
		case <-ctx.Done():
			result.Success = false
			result.Error = fmt.Sprintf("cancelled: %v", ctx.Err())
			result.Elapsed = o.clock.Now().Sub(start)
			return result
		default:
		}

		status, body, err := pf.FetchPage(ctx, task.URL, cfg.Timeout(), cfg.UserAgent)
		if err != nil {
			lastErr = err.Error()
			o.logger.Warn("[fetcher] %s attempt %d/%d transport error: %v", task.URL, attempt, maxAttempts, err)
			if attempt < maxAttempts {
				o.clock.Sleep(o.retry.Jitter())
			}
			continue
		}
		result.StatusCode = status

		switch {
		case status >= 200 && status < 300:
			result.Success = true
			result.Error = ""
			result.Properties = o.parse(body, task)
			result.Elapsed = o.clock.Now().Sub(start)
			o.cache.Set(task.URL, result)
			return result

		case status == http.StatusTooManyRequests:
			result.RateLimitHits++
			lastErr = fmt.Sprintf("rate limited (429) on attempt %d", attempt)
			o.logger.Warn("[fetcher] %s rate limited, backing off %v", task.Source, o.retry.RateLimitDelay)
			if attempt < maxAttempts {
				o.clock.Sleep(o.retry.RateLimitDelay)
			}

		case status >= 400 && status < 500:
			// Terminal: client errors other than 429 are never retried.
			result.Success = false
			result.Error = fmt.Sprintf("client error %d", status)
			result.Elapsed = o.clock.Now().Sub(start)
			return result

		default:
			lastErr = fmt.Sprintf("server error %d on attempt %d", status, attempt)
			if attempt < maxAttempts {
				o.clock.Sleep(o.retry.Jitter())
			}
		}
	}

	result.Success = false
	result.Error = fmt.Sprintf("failed after %d attempts: %s", maxAttempts, lastErr)
	result.Elapsed = o.clock.Now().Sub(start)
	return result
}

// parse dispatches page content to the parser registered for the task's
// source. Parse failures yield zero properties, not a failed fetch.
func (o *Orchestrator) parse(body string, task models.FetchTask) []*models.Property {
	parser, ok := o.registry.Lookup(task.Source)
	if !ok {
		o.logger.Warn("[fetcher] No parser registered for source %q", task.Source)
		return nil
	}

	props, err := parser.Parse(body, task)
	if err != nil {
		o.logger.Warn("[fetcher] Parser for %q failed on %s: %v", task.Source, task.URL, err)
		return nil
	}
	return props
}
