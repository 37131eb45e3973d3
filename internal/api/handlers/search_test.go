package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/aggregate"
	"careerlens/internal/cache"
	"careerlens/internal/config"
	"careerlens/internal/providers"
	"careerlens/pkg/models"
)

type cannedAdapter struct {
	name       string
	domain     models.Domain
	candidates []models.Candidate
}

func (a cannedAdapter) Name() string          { return a.name }
func (a cannedAdapter) Domain() models.Domain { return a.domain }
func (a cannedAdapter) Fetch(context.Context, models.Query) providers.Outcome {
	return providers.Success(a.name, a.candidates)
}

func testOrchestrator(t *testing.T, adapters ...providers.Adapter) (*aggregate.Orchestrator, cache.Store) {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Cache.SweepInterval = time.Hour
	cfg.Aggregation.RateLimit = 60000
	cfg.Aggregation.RateBurst = 1000

	registry := providers.NewRegistry()
	for _, a := range adapters {
		require.NoError(t, registry.Register(a))
	}

	store := cache.NewMemoryStore(cfg)
	t.Cleanup(func() { _ = store.Close() })

	return aggregate.NewOrchestrator(cfg, store, registry, aggregate.NewProviderGuard(cfg)), store
}

func performRequest(t *testing.T, h echo.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "test-request")
	require.NoError(t, h(c))
	return rec
}

func TestSearchHandler_OK(t *testing.T) {
	orch, _ := testOrchestrator(t, cannedAdapter{
		name: "alpha", domain: models.DomainJobs,
		candidates: []models.Candidate{
			{ID: "1", Title: "Engineer", Company: "ACME", Location: "Berlin", Source: "alpha"},
		},
	})

	rec := performRequest(t, SearchHandler(models.DomainJobs, orch),
		http.MethodGet, "/api/v1/jobs/search?q=engineer")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, []string{"alpha"}, resp.SourcesUsed)
	assert.False(t, resp.Cached)
}

func TestSearchHandler_EmptyQueryRejected(t *testing.T) {
	orch, _ := testOrchestrator(t, cannedAdapter{name: "alpha", domain: models.DomainJobs})

	rec := performRequest(t, SearchHandler(models.DomainJobs, orch),
		http.MethodGet, "/api/v1/jobs/search")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Equal(t, "test-request", resp.RequestID)
}

func TestSearchHandler_PageSizeBeyondLimitRejected(t *testing.T) {
	orch, _ := testOrchestrator(t, cannedAdapter{name: "alpha", domain: models.DomainJobs})

	rec := performRequest(t, SearchHandler(models.DomainJobs, orch),
		http.MethodGet, "/api/v1/jobs/search?q=go&page_size=1000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeaturedHandler_OK(t *testing.T) {
	orch, _ := testOrchestrator(t, cannedAdapter{
		name: "alpha", domain: models.DomainCourses,
		candidates: []models.Candidate{
			{ID: "c1", Title: "Go Basics", Rating: 4.5, ReviewCount: 900, Source: "alpha"},
		},
	})

	rec := performRequest(t, FeaturedHandler(models.DomainCourses, orch),
		http.MethodGet, "/api/v1/courses/featured?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 5, resp.PageSize)
}

func TestFeaturedHandler_BadLimit(t *testing.T) {
	orch, _ := testOrchestrator(t, cannedAdapter{name: "alpha", domain: models.DomainCourses})

	rec := performRequest(t, FeaturedHandler(models.DomainCourses, orch),
		http.MethodGet, "/api/v1/courses/featured?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
