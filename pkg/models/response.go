package models

import "time"

// ProviderError is a single provider failure surfaced in a search response.
// Provider failures never fail the request; they are reported here so callers
// can tell "nothing matched" apart from "a source was down".
type ProviderError struct {
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SearchResponse is the assembled result of one aggregation call.
type SearchResponse struct {
	Candidates  []Candidate     `json:"candidates"`
	Total       int             `json:"total"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
	SourcesUsed []string        `json:"sources_used"`
	Errors      []ProviderError `json:"errors,omitempty"`
	Cached      bool            `json:"cached"`
}

// InvalidateResponse reports how many cache entries an invalidation removed.
type InvalidateResponse struct {
	DeletedCount int `json:"deleted_count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
