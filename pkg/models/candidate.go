package models

import "time"

// Domain identifies which logical catalog a query or candidate belongs to.
type Domain string

const (
	DomainJobs    Domain = "jobs"
	DomainCourses Domain = "courses"
)

// Candidate represents one normalized result record, regardless of which
// provider produced it. Job and course fields share the struct; fields that
// do not apply to a domain are simply zero.
type Candidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source"`

	// Job fields
	Company        string       `json:"company,omitempty"`
	Location       string       `json:"location,omitempty"`
	Remote         bool         `json:"remote,omitempty"`
	EmploymentType string       `json:"employment_type,omitempty"`
	Industry       string       `json:"industry,omitempty"`
	Salary         *SalaryRange `json:"salary,omitempty"`
	Requirements   []string     `json:"requirements,omitempty"`

	// Course fields
	Category string  `json:"category,omitempty"`
	Level    string  `json:"level,omitempty"`
	IsFree   bool    `json:"is_free,omitempty"`
	Price    float64 `json:"price,omitempty"`

	// Ranking signals
	Rating      float64   `json:"rating,omitempty"`
	ReviewCount int       `json:"review_count,omitempty"`
	PostedAt    time.Time `json:"posted_at,omitempty"`

	// MatchScore is the composite ranking value assigned during aggregation.
	MatchScore float64 `json:"match_score"`
}

// SalaryRange represents the advertised salary for a job candidate.
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency,omitempty"`
	Period   string `json:"period,omitempty"` // hourly, monthly, yearly
}
