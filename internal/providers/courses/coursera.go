package courses

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

// CourseraAdapter fetches courses from the public Coursera catalog API.
type CourseraAdapter struct {
	cfg    *config.Config
	client *http.Client
}

// NewCourseraAdapter constructs the adapter with a shared HTTP client.
func NewCourseraAdapter(cfg *config.Config) *CourseraAdapter {
	return &CourseraAdapter{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (a *CourseraAdapter) Name() string          { return "coursera" }
func (a *CourseraAdapter) Domain() models.Domain { return models.DomainCourses }

type courseraResponse struct {
	Elements []courseraCourse `json:"elements"`
}

type courseraCourse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	WorkLoad    string  `json:"workload"`
	AvgRating   float64 `json:"averageFiveStarRating"`
	RatingCount int     `json:"ratingCount"`
}

// Fetch performs one Coursera catalog call for the query.
func (a *CourseraAdapter) Fetch(ctx context.Context, q models.Query) providers.Outcome {
	start := time.Now()
	out := a.fetch(ctx, q)
	out.Duration = time.Since(start)
	return out
}

func (a *CourseraAdapter) fetch(ctx context.Context, q models.Query) providers.Outcome {
	params := url.Values{}
	params.Set("q", "search")
	term := q.Term
	if term == "" {
		term = q.Category
	}
	params.Set("query", term)
	limit := q.PageSize * 2
	if limit <= 0 {
		limit = 40
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", "description,workload,averageFiveStarRating,ratingCount")

	endpoint := fmt.Sprintf("%s/courses.v1?%s", a.cfg.Providers.Coursera.BaseURL, params.Encode())

	var resp courseraResponse
	if err := providers.GetJSON(ctx, a.client, endpoint, nil, &resp); err != nil {
		return providers.FailedWith(a.Name(), err)
	}

	candidates := make([]models.Candidate, 0, len(resp.Elements))
	for _, course := range resp.Elements {
		candidates = append(candidates, models.Candidate{
			ID:          fmt.Sprintf("%s:%s", a.Name(), course.ID),
			Title:       course.Name,
			Description: course.Description,
			URL:         "https://www.coursera.org/learn/" + course.Slug,
			Category:    q.Category,
			Rating:      course.AvgRating,
			ReviewCount: course.RatingCount,
			Source:      a.Name(),
		})
	}

	return providers.Success(a.Name(), candidates)
}
