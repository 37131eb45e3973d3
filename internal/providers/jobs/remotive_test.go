package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/config"
	"careerlens/pkg/models"
)

const remotiveFixture = `{
  "jobs": [
    {
      "id": 981234,
      "url": "https://remotive.com/remote-jobs/software-dev/go-developer-981234",
      "title": "Go Developer",
      "company_name": "Initech",
      "category": "Software Development",
      "job_type": "full_time",
      "candidate_required_location": "Europe",
      "description": "Build services in Go.",
      "tags": ["go", "postgresql"],
      "publication_date": "2026-07-15T12:00:00"
    }
  ]
}`

func TestRemotiveAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/remote-jobs", r.URL.Path)
		assert.Equal(t, "go developer", r.URL.Query().Get("search"))
		assert.Equal(t, "40", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(remotiveFixture))
	}))
	defer srv.Close()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Providers.Remotive.BaseURL = srv.URL

	adapter := NewRemotiveAdapter(cfg)
	out := adapter.Fetch(context.Background(), models.Query{
		Domain: models.DomainJobs, Term: "go developer", Page: 1, PageSize: 20,
	})

	require.Nil(t, out.Failure)
	require.Len(t, out.Candidates, 1)

	c := out.Candidates[0]
	assert.Equal(t, "remotive:981234", c.ID)
	assert.Equal(t, "Go Developer", c.Title)
	assert.Equal(t, "Initech", c.Company)
	assert.Equal(t, "Europe", c.Location)
	assert.True(t, c.Remote)
	assert.Equal(t, "Software Development", c.Industry)
	assert.Equal(t, "full_time", c.EmploymentType)
	assert.Equal(t, []string{"go", "postgresql"}, c.Requirements)
	assert.Equal(t, "remotive", c.Source)
	assert.Equal(t, 2026, c.PostedAt.Year())
}

func TestRemotiveAdapter_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs": []}`))
	}))
	defer srv.Close()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Providers.Remotive.BaseURL = srv.URL

	adapter := NewRemotiveAdapter(cfg)
	out := adapter.Fetch(context.Background(), models.Query{Term: "cobol", PageSize: 20})

	require.Nil(t, out.Failure)
	assert.Empty(t, out.Candidates)
}
