package models

import "time"

// FetchTask identifies one page to download from one source. Tasks are
// immutable once submitted to the orchestrator.
type FetchTask struct {
	Source  string            `json:"source"`
	URL     string            `json:"url"`
	Page    int               `json:"page,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// FetchResult is the finalized outcome of one FetchTask. Exactly one result
// is produced per submitted task: either a success (possibly with zero
// parsed properties) or an exhausted-retries / terminal failure.
//
// Invariant: Success == false implies Error != "", and Success == true
// implies Error == "".
type FetchResult struct {
	Task          FetchTask     `json:"task"`
	Success       bool          `json:"success"`
	StatusCode    int           `json:"status_code,omitempty"`
	Properties    []*Property   `json:"properties,omitempty"`
	Error         string        `json:"error,omitempty"`
	Attempts      int           `json:"attempts"`
	RateLimitHits int           `json:"rate_limit_hits,omitempty"`
	Elapsed       time.Duration `json:"elapsed"`
	FetchedAt     time.Time     `json:"fetched_at"`
}

// HealthStatus reports reachability of one configured source, independent
// of any particular query.
type HealthStatus struct {
	Source     string        `json:"source"`
	Healthy    bool          `json:"healthy"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
	CheckedAt  time.Time     `json:"checked_at"`
}
