package providers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/providers"
	"careerlens/pkg/models"
)

type stubAdapter struct {
	name   string
	domain models.Domain
}

func (s stubAdapter) Name() string          { return s.name }
func (s stubAdapter) Domain() models.Domain { return s.domain }
func (s stubAdapter) Fetch(context.Context, models.Query) providers.Outcome {
	return providers.Success(s.name, nil)
}

func TestRegistry_RegistrationOrderPreserved(t *testing.T) {
	r := providers.NewRegistry()
	require.NoError(t, r.Register(stubAdapter{"jsearch", models.DomainJobs}))
	require.NoError(t, r.Register(stubAdapter{"coursera", models.DomainCourses}))
	require.NoError(t, r.Register(stubAdapter{"remotive", models.DomainJobs}))

	assert.Equal(t, []string{"jsearch", "remotive"}, r.Names(models.DomainJobs))
	assert.Equal(t, []string{"coursera"}, r.Names(models.DomainCourses))
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := providers.NewRegistry()
	require.NoError(t, r.Register(stubAdapter{"jsearch", models.DomainJobs}))

	err := r.Register(stubAdapter{"jsearch", models.DomainJobs})
	assert.Error(t, err)
}

func TestRegistry_SourcesSubset(t *testing.T) {
	r := providers.NewRegistry()
	require.NoError(t, r.Register(stubAdapter{"jsearch", models.DomainJobs}))
	require.NoError(t, r.Register(stubAdapter{"remotive", models.DomainJobs}))

	subset := r.ForDomain(models.DomainJobs, []string{"remotive", "unknown"})
	require.Len(t, subset, 1)
	assert.Equal(t, "remotive", subset[0].Name())
}

func TestRegistry_EmptyDomain(t *testing.T) {
	r := providers.NewRegistry()
	assert.Empty(t, r.ForDomain(models.DomainJobs, nil))
	assert.Empty(t, r.Names(models.DomainCourses))
}
