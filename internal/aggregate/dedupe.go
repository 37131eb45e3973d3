package aggregate

import (
	"strings"

	"careerlens/pkg/models"
)

// NaturalKey computes the normalized identity key a candidate is deduplicated
// on. Jobs collapse on title+company+location; courses on the provider-native
// id when present, else the title. The second return is false when the
// candidate is missing the identity-bearing fields — such candidates are
// dropped rather than risking a false merge.
func NaturalKey(domain models.Domain, c models.Candidate) (string, bool) {
	switch domain {
	case models.DomainJobs:
		title := normalize(c.Title)
		company := normalize(c.Company)
		if title == "" || company == "" {
			return "", false
		}
		return title + "::" + company + "::" + normalize(c.Location), true
	case models.DomainCourses:
		if c.ID != "" {
			return strings.ToLower(c.ID), true
		}
		title := normalize(c.Title)
		if title == "" {
			return "", false
		}
		return title, true
	default:
		return "", false
	}
}

// Dedupe collapses candidates sharing a natural key, keeping the first seen.
// Input order is provider-registration order then provider-returned order,
// which makes the survivor deterministic for identical inputs.
func Dedupe(domain models.Domain, candidates []models.Candidate) []models.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))

	for _, c := range candidates {
		key, ok := NaturalKey(domain, c)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
