package aggregate

import (
	"math"
	"sort"
	"strings"

	"careerlens/pkg/models"
)

// Job composite weights. They sum to 1.0; a sub-score whose inputs are
// absent on either side contributes 0.
const (
	weightEmployment = 0.25
	weightIndustry   = 0.20
	weightSalary     = 0.30
	weightLocation   = 0.15
	weightSkills     = 0.10

	// remoteLocationFactor discounts a remote listing against an exact
	// location match.
	remoteLocationFactor = 0.8

	// reviewDampCap bounds the popularity term so a huge review count
	// saturates instead of dominating.
	reviewDampCap = 10000
)

// Rank assigns the composite score to every candidate and sorts descending.
// The sort is stable: ties keep the deduplicator's input order, so identical
// inputs always produce identical output.
func Rank(q models.Query, candidates []models.Candidate) []models.Candidate {
	for i := range candidates {
		switch q.Domain {
		case models.DomainCourses:
			candidates[i].MatchScore = CourseScore(candidates[i])
		default:
			candidates[i].MatchScore = JobScore(q, candidates[i])
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	return candidates
}

// JobScore computes the weighted composite match between the caller's
// preferences and a job candidate. Every sub-score is normalized to [0,1].
func JobScore(q models.Query, c models.Candidate) float64 {
	score := 0.0

	if q.EmploymentType != "" && strings.EqualFold(q.EmploymentType, c.EmploymentType) {
		score += weightEmployment
	}

	if q.Industry != "" && strings.EqualFold(q.Industry, c.Industry) {
		score += weightIndustry
	}

	score += weightSalary * salaryOverlap(q, c)
	score += weightLocation * locationMatch(q, c)
	score += weightSkills * skillOverlap(q.Skills, c.Requirements)

	return math.Min(score, 1.0)
}

// CourseScore blends normalized rating with a log-damped review-count term,
// 50/50, so a handful of five-star reviews cannot outrank a widely-reviewed
// strong course.
func CourseScore(c models.Candidate) float64 {
	rating := c.Rating / 5.0
	if rating > 1 {
		rating = 1
	}
	if rating < 0 {
		rating = 0
	}

	reviews := float64(c.ReviewCount)
	if reviews > reviewDampCap {
		reviews = reviewDampCap
	}
	popularity := 0.0
	if reviews > 0 {
		popularity = math.Log1p(reviews) / math.Log1p(reviewDampCap)
	}

	return 0.5*rating + 0.5*popularity
}

// salaryOverlap returns the fractional overlap between the candidate's
// advertised range and the caller's desired range, 0 when either side is
// absent or the ranges are disjoint.
func salaryOverlap(q models.Query, c models.Candidate) float64 {
	if c.Salary == nil || (q.SalaryMin == 0 && q.SalaryMax == 0) {
		return 0
	}

	wantMin, wantMax := float64(q.SalaryMin), float64(q.SalaryMax)
	haveMin, haveMax := float64(c.Salary.Min), float64(c.Salary.Max)
	if wantMax == 0 {
		wantMax = math.Inf(1)
	}
	if haveMax < wantMin || haveMin > wantMax {
		return 0
	}

	if wantMax <= wantMin || math.IsInf(wantMax, 1) {
		// No meaningful desired width; any overlap counts fully.
		return 1
	}

	overlap := math.Min(wantMax, haveMax) - math.Max(wantMin, haveMin)
	if overlap <= 0 {
		return 0
	}
	return math.Min(overlap/(wantMax-wantMin), 1)
}

func locationMatch(q models.Query, c models.Candidate) float64 {
	if q.Location == "" || (c.Location == "" && !c.Remote) {
		return 0
	}
	if strings.EqualFold(strings.TrimSpace(q.Location), strings.TrimSpace(c.Location)) {
		return 1
	}
	if c.Remote {
		return remoteLocationFactor
	}
	return 0
}

// skillOverlap is the fraction of the candidate's requirements covered by
// the caller's skills.
func skillOverlap(skills, requirements []string) float64 {
	if len(skills) == 0 || len(requirements) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[normalize(s)] = struct{}{}
	}

	matched := 0
	for _, r := range requirements {
		if _, ok := have[normalize(r)]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(requirements))
}
