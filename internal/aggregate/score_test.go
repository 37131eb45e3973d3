package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/aggregate"
	"careerlens/pkg/models"
)

func TestJobScore_FullMatch(t *testing.T) {
	q := models.Query{
		Domain:         models.DomainJobs,
		EmploymentType: "full-time",
		Industry:       "software",
		SalaryMin:      50000,
		SalaryMax:      90000,
		Location:       "Berlin",
		Skills:         []string{"go", "postgres"},
	}
	c := models.Candidate{
		EmploymentType: "Full-Time",
		Industry:       "Software",
		Salary:         &models.SalaryRange{Min: 50000, Max: 90000},
		Location:       "berlin",
		Requirements:   []string{"Go", "Postgres"},
	}

	assert.InDelta(t, 1.0, aggregate.JobScore(q, c), 0.001)
}

func TestJobScore_NoPreferencesScoresZero(t *testing.T) {
	q := models.Query{Domain: models.DomainJobs, Term: "engineer"}
	c := models.Candidate{
		EmploymentType: "full-time",
		Industry:       "software",
		Location:       "Berlin",
	}

	assert.Zero(t, aggregate.JobScore(q, c))
}

func TestJobScore_RemoteDiscountedAgainstExactLocation(t *testing.T) {
	q := models.Query{Domain: models.DomainJobs, Location: "Berlin"}
	exact := models.Candidate{Location: "Berlin"}
	remote := models.Candidate{Location: "Anywhere", Remote: true}

	exactScore := aggregate.JobScore(q, exact)
	remoteScore := aggregate.JobScore(q, remote)

	assert.InDelta(t, 0.15, exactScore, 0.001)
	assert.InDelta(t, 0.12, remoteScore, 0.001)
	assert.Greater(t, exactScore, remoteScore)
}

func TestJobScore_SalaryOverlap(t *testing.T) {
	q := models.Query{Domain: models.DomainJobs, SalaryMin: 50000, SalaryMax: 100000}

	full := models.Candidate{Salary: &models.SalaryRange{Min: 40000, Max: 120000}}
	half := models.Candidate{Salary: &models.SalaryRange{Min: 75000, Max: 150000}}
	disjoint := models.Candidate{Salary: &models.SalaryRange{Min: 10000, Max: 30000}}
	unlisted := models.Candidate{}

	assert.InDelta(t, 0.30, aggregate.JobScore(q, full), 0.001)
	assert.InDelta(t, 0.15, aggregate.JobScore(q, half), 0.001)
	assert.Zero(t, aggregate.JobScore(q, disjoint))
	assert.Zero(t, aggregate.JobScore(q, unlisted))
}

func TestJobScore_OpenEndedDesiredRange(t *testing.T) {
	q := models.Query{Domain: models.DomainJobs, SalaryMin: 50000}
	c := models.Candidate{Salary: &models.SalaryRange{Min: 60000, Max: 80000}}

	assert.InDelta(t, 0.30, aggregate.JobScore(q, c), 0.001)
}

func TestJobScore_SkillOverlapIsFractionOfRequirements(t *testing.T) {
	q := models.Query{Domain: models.DomainJobs, Skills: []string{"Go", "Kafka"}}
	c := models.Candidate{Requirements: []string{"go", "kafka", "terraform", "aws"}}

	assert.InDelta(t, 0.10*0.5, aggregate.JobScore(q, c), 0.001)
}

func TestCourseScore_PerfectCourse(t *testing.T) {
	c := models.Candidate{Rating: 5.0, ReviewCount: 10000}
	assert.InDelta(t, 1.0, aggregate.CourseScore(c), 0.001)
}

func TestCourseScore_ReviewCountIsDamped(t *testing.T) {
	few := models.Candidate{Rating: 5.0, ReviewCount: 3}
	many := models.Candidate{Rating: 4.5, ReviewCount: 8000}

	assert.Greater(t, aggregate.CourseScore(many), aggregate.CourseScore(few))
}

func TestCourseScore_CapSaturates(t *testing.T) {
	atCap := models.Candidate{Rating: 4.0, ReviewCount: 10000}
	aboveCap := models.Candidate{Rating: 4.0, ReviewCount: 500000}

	assert.InDelta(t, aggregate.CourseScore(atCap), aggregate.CourseScore(aboveCap), 0.0001)
}

func TestCourseScore_NoSignals(t *testing.T) {
	assert.Zero(t, aggregate.CourseScore(models.Candidate{}))
}

func TestRank_SortsDescendingStable(t *testing.T) {
	q := models.Query{Domain: models.DomainCourses, Term: "go"}
	in := []models.Candidate{
		{ID: "low", Rating: 2.0, ReviewCount: 10},
		{ID: "tie-a", Rating: 4.0, ReviewCount: 100},
		{ID: "high", Rating: 5.0, ReviewCount: 9000},
		{ID: "tie-b", Rating: 4.0, ReviewCount: 100},
	}

	out := aggregate.Rank(q, in)
	require.Len(t, out, 4)
	assert.Equal(t, "high", out[0].ID)
	assert.Equal(t, "tie-a", out[1].ID)
	assert.Equal(t, "tie-b", out[2].ID)
	assert.Equal(t, "low", out[3].ID)

	for _, c := range out {
		assert.GreaterOrEqual(t, c.MatchScore, 0.0)
		assert.LessOrEqual(t, c.MatchScore, 1.0)
	}
}
