package models

// Query is the immutable description of one logical search. It is only ever
// read: adapters translate it into provider calls and the cache layer derives
// a key from it.
type Query struct {
	Domain   Domain `json:"domain"`
	Term     string `json:"term,omitempty"`
	Location string `json:"location,omitempty"`

	// Job filters
	EmploymentType string   `json:"employment_type,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	SalaryMin      int      `json:"salary_min,omitempty"`
	SalaryMax      int      `json:"salary_max,omitempty"`
	Skills         []string `json:"skills,omitempty"`

	// Course filters
	Category string `json:"category,omitempty"`
	Level    string `json:"level,omitempty"`
	FreeOnly bool   `json:"free_only,omitempty"`

	// Featured marks a curated browse query rather than a user search.
	Featured bool `json:"featured,omitempty"`

	// Sources restricts the fan-out to an explicit subset of provider
	// names. Empty means every registered provider for the domain.
	Sources []string `json:"sources,omitempty"`

	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// HasFilter reports whether at least one structured filter is set. A query
// needs a term or a filter to be worth fanning out.
func (q Query) HasFilter() bool {
	return q.Location != "" || q.EmploymentType != "" || q.Industry != "" ||
		q.Category != "" || q.Level != "" || q.FreeOnly || q.Featured ||
		q.SalaryMin > 0 || q.SalaryMax > 0 || len(q.Skills) > 0
}
