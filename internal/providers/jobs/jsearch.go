package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careerlens/internal/config"
	"careerlens/internal/providers"
	"careerlens/pkg/models"
)

// JSearchAdapter fetches job listings from the JSearch API (RapidAPI).
type JSearchAdapter struct {
	cfg    *config.Config
	client *http.Client
}

// NewJSearchAdapter constructs the adapter with a shared HTTP client.
func NewJSearchAdapter(cfg *config.Config) *JSearchAdapter {
	return &JSearchAdapter{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (a *JSearchAdapter) Name() string          { return "jsearch" }
func (a *JSearchAdapter) Domain() models.Domain { return models.DomainJobs }

// jsearchResponse mirrors the top-level JSearch JSON response.
type jsearchResponse struct {
	Status string       `json:"status"`
	Data   []jsearchJob `json:"data"`
}

type jsearchJob struct {
	JobID          string   `json:"job_id"`
	Title          string   `json:"job_title"`
	EmployerName   string   `json:"employer_name"`
	City           string   `json:"job_city"`
	Country        string   `json:"job_country"`
	IsRemote       bool     `json:"job_is_remote"`
	Description    string   `json:"job_description"`
	ApplyLink      string   `json:"job_apply_link"`
	EmploymentType string   `json:"job_employment_type"`
	MinSalary      float64  `json:"job_min_salary"`
	MaxSalary      float64  `json:"job_max_salary"`
	SalaryCurrency string   `json:"job_salary_currency"`
	PostedAt       string   `json:"job_posted_at_datetime_utc"`
	RequiredSkills []string `json:"job_required_skills"`
}

// Fetch performs one JSearch call for the query.
func (a *JSearchAdapter) Fetch(ctx context.Context, q models.Query) providers.Outcome {
	start := time.Now()
	out := a.fetch(ctx, q)
	out.Duration = time.Since(start)
	return out
}

func (a *JSearchAdapter) fetch(ctx context.Context, q models.Query) providers.Outcome {
	term := q.Term
	if q.Location != "" {
		term = strings.TrimSpace(term + " in " + q.Location)
	}

	params := url.Values{}
	params.Set("query", term)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	if q.EmploymentType != "" {
		params.Set("employment_types", strings.ToUpper(q.EmploymentType))
	}

	endpoint := fmt.Sprintf("%s/search?%s", a.cfg.Providers.JSearch.BaseURL, params.Encode())
	headers := map[string]string{
		"X-RapidAPI-Key":  a.cfg.Providers.JSearch.APIKey,
		"X-RapidAPI-Host": "jsearch.p.rapidapi.com",
	}

	var resp jsearchResponse
	if err := providers.GetJSON(ctx, a.client, endpoint, headers, &resp); err != nil {
		return providers.FailedWith(a.Name(), err)
	}

	candidates := make([]models.Candidate, 0, len(resp.Data))
	for _, job := range resp.Data {
		c := models.Candidate{
			ID:             fmt.Sprintf("%s:%s", a.Name(), job.JobID),
			Title:          job.Title,
			Company:        job.EmployerName,
			Location:       joinLocation(job.City, job.Country),
			Remote:         job.IsRemote,
			Description:    job.Description,
			URL:            job.ApplyLink,
			EmploymentType: job.EmploymentType,
			Requirements:   job.RequiredSkills,
			Source:         a.Name(),
		}
		if job.MinSalary > 0 || job.MaxSalary > 0 {
			c.Salary = &models.SalaryRange{
				Min:      int(job.MinSalary),
				Max:      int(job.MaxSalary),
				Currency: job.SalaryCurrency,
				Period:   "yearly",
			}
		}
		if ts, err := time.Parse(time.RFC3339, job.PostedAt); err == nil {
			c.PostedAt = ts
		}
		candidates = append(candidates, c)
	}

	return providers.Success(a.Name(), candidates)
}

func joinLocation(city, country string) string {
	switch {
	case city == "":
		return country
	case country == "":
		return city
	default:
		return city + ", " + country
	}
}
