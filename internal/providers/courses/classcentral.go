package courses

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"careerlens/internal/config"
	"careerlens/internal/providers"
	"careerlens/pkg/models"
)

// ClassCentralAdapter scrapes course listings from the Class Central search
// page. It is the one HTML-backed source; everything else speaks JSON.
type ClassCentralAdapter struct {
	cfg    *config.Config
	client *http.Client
}

// NewClassCentralAdapter constructs the adapter with a shared HTTP client.
func NewClassCentralAdapter(cfg *config.Config) *ClassCentralAdapter {
	return &ClassCentralAdapter{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (a *ClassCentralAdapter) Name() string          { return "classcentral" }
func (a *ClassCentralAdapter) Domain() models.Domain { return models.DomainCourses }

// Fetch scrapes one search result page for the query.
func (a *ClassCentralAdapter) Fetch(ctx context.Context, q models.Query) providers.Outcome {
	start := time.Now()
	out := a.fetch(ctx, q)
	out.Duration = time.Since(start)
	return out
}

func (a *ClassCentralAdapter) fetch(ctx context.Context, q models.Query) providers.Outcome {
	params := url.Values{}
	term := q.Term
	if term == "" {
		term = q.Category
	}
	params.Set("q", term)
	if q.FreeOnly {
		params.Set("free", "true")
	}

	endpoint := fmt.Sprintf("%s/search?%s", a.cfg.Providers.ClassCentral.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return providers.FailedWith(a.Name(), err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; careerlens/1.0)")

	resp, err := a.client.Do(req)
	if err != nil {
		return providers.FailedWith(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providers.FailedWith(a.Name(), &providers.StatusError{Status: resp.StatusCode})
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return providers.Failed(a.Name(), providers.FailureMalformed, err)
	}

	var candidates []models.Candidate
	doc.Find("li.course-list-course").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find("h2.course-name").Text())
		if title == "" {
			return
		}

		href, _ := sel.Find("a.course-link").Attr("href")

		c := models.Candidate{
			Title:    title,
			URL:      a.cfg.Providers.ClassCentral.BaseURL + href,
			Category: q.Category,
			IsFree:   q.FreeOnly,
			Source:   a.Name(),
		}
		// An item without a course id keeps an empty ID so dedup falls back
		// to the title instead of collapsing all id-less items together.
		if id, ok := sel.Attr("data-course-id"); ok && id != "" {
			c.ID = fmt.Sprintf("%s:%s", a.Name(), id)
		}
		if raw, ok := sel.Attr("data-rating"); ok {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				c.Rating = rating
			}
		}
		if raw, ok := sel.Attr("data-reviews"); ok {
			if reviews, err := strconv.Atoi(raw); err == nil {
				c.ReviewCount = reviews
			}
		}
		candidates = append(candidates, c)
	})

	// Even an empty search result renders the list container. A page
	// without it means the layout changed underneath us, not an empty
	// catalog.
	if len(candidates) == 0 && doc.Find("ul.course-list").Length() == 0 {
		return providers.Failed(a.Name(), providers.FailureMalformed, fmt.Errorf("no course list markup in response"))
	}

	return providers.Success(a.Name(), candidates)
}
