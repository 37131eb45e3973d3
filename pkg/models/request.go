package models

import "strings"

// SearchRequest is the HTTP-facing shape of a search. It binds from query
// parameters and converts into an immutable Query for the aggregation core.
type SearchRequest struct {
	Term           string `query:"q" json:"q"`
	Location       string `query:"location" json:"location"`
	EmploymentType string `query:"employment_type" json:"employment_type"`
	Industry       string `query:"industry" json:"industry"`
	SalaryMin      int    `query:"salary_min" json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax      int    `query:"salary_max" json:"salary_max" validate:"omitempty,gte=0"`
	Skills         string `query:"skills" json:"skills"` // comma separated
	Category       string `query:"category" json:"category"`
	Level          string `query:"level" json:"level"`
	FreeOnly       bool   `query:"free_only" json:"free_only"`
	Sources        string `query:"sources" json:"sources"` // comma separated
	Page           int    `query:"page" json:"page" validate:"omitempty,gte=1"`
	PageSize       int    `query:"page_size" json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ToQuery converts the request into a Query for the given domain, applying
// the default page window.
func (r SearchRequest) ToQuery(domain Domain) Query {
	q := Query{
		Domain:         domain,
		Term:           strings.TrimSpace(r.Term),
		Location:       strings.TrimSpace(r.Location),
		EmploymentType: r.EmploymentType,
		Industry:       r.Industry,
		SalaryMin:      r.SalaryMin,
		SalaryMax:      r.SalaryMax,
		Skills:         splitList(r.Skills),
		Category:       r.Category,
		Level:          r.Level,
		FreeOnly:       r.FreeOnly,
		Sources:        splitList(r.Sources),
		Page:           r.Page,
		PageSize:       r.PageSize,
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 20
	}
	return q
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
