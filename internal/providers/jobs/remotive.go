package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"careerlens/internal/config"
	"careerlens/internal/providers"
	"careerlens/pkg/models"
)

// RemotiveAdapter fetches remote job listings from the public Remotive API.
// No credentials are required.
type RemotiveAdapter struct {
	cfg    *config.Config
	client *http.Client
}

// NewRemotiveAdapter constructs the adapter with a shared HTTP client.
func NewRemotiveAdapter(cfg *config.Config) *RemotiveAdapter {
	return &RemotiveAdapter{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (a *RemotiveAdapter) Name() string          { return "remotive" }
func (a *RemotiveAdapter) Domain() models.Domain { return models.DomainJobs }

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Category    string   `json:"category"`
	JobType     string   `json:"job_type"`
	Location    string   `json:"candidate_required_location"`
	Salary      string   `json:"salary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Publication string   `json:"publication_date"`
}

// Fetch performs one Remotive call for the query.
func (a *RemotiveAdapter) Fetch(ctx context.Context, q models.Query) providers.Outcome {
	start := time.Now()
	out := a.fetch(ctx, q)
	out.Duration = time.Since(start)
	return out
}

func (a *RemotiveAdapter) fetch(ctx context.Context, q models.Query) providers.Outcome {
	params := url.Values{}
	if q.Term != "" {
		params.Set("search", q.Term)
	}
	limit := q.PageSize * 2
	if limit <= 0 {
		limit = 40
	}
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/remote-jobs?%s", a.cfg.Providers.Remotive.BaseURL, params.Encode())

	var resp remotiveResponse
	if err := providers.GetJSON(ctx, a.client, endpoint, nil, &resp); err != nil {
		return providers.FailedWith(a.Name(), err)
	}

	candidates := make([]models.Candidate, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		c := models.Candidate{
			ID:             fmt.Sprintf("%s:%d", a.Name(), job.ID),
			Title:          job.Title,
			Company:        job.CompanyName,
			Location:       job.Location,
			Remote:         true,
			Description:    job.Description,
			URL:            job.URL,
			EmploymentType: job.JobType,
			Industry:       job.Category,
			Requirements:   job.Tags,
			Source:         a.Name(),
		}
		if ts, err := time.Parse("2006-01-02T15:04:05", job.Publication); err == nil {
			c.PostedAt = ts
		}
		candidates = append(candidates, c)
	}

	return providers.Success(a.Name(), candidates)
}
