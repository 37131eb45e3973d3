package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"careerlens/internal/cache"
	"careerlens/internal/config"
	"careerlens/internal/logging"
	"careerlens/internal/providers"
	"careerlens/pkg/models"
	"careerlens/pkg/utils"
)

// Orchestrator fans a logical query out to every active provider adapter,
// merges the results through dedup and scoring, and serves repeat queries
// from the cache store. All collaborators are injected; the orchestrator
// holds no global state.
type Orchestrator struct {
	cfg      *config.Config
	store    cache.Store
	registry *providers.Registry
	guard    *ProviderGuard
	logger   logging.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(cfg *config.Config, store cache.Store, registry *providers.Registry, guard *ProviderGuard) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		registry: registry,
		guard:    guard,
		logger:   logging.GetGlobalLogger().WithField("component", "orchestrator"),
	}
}

// Search runs one aggregation call. Provider failures never fail the
// request; they surface in the response's errors list. Cache failures
// degrade to a miss. The only error returned is a validation error.
func (o *Orchestrator) Search(ctx context.Context, q models.Query) (*models.SearchResponse, error) {
	if err := o.validate(q); err != nil {
		return nil, err
	}

	cacheType := CacheTypeOf(q)
	params := cacheParams(q)

	adapters := o.registry.ForDomain(q.Domain, q.Sources)
	sourcesUsed := make([]string, 0, len(adapters))
	for _, a := range adapters {
		sourcesUsed = append(sourcesUsed, a.Name())
	}

	entry, hit, err := o.store.Get(ctx, cacheType, params)
	if err != nil {
		// Cache trouble must never block a response; fall through to a
		// live fetch.
		o.logger.Warn("Cache unavailable, serving live", map[string]interface{}{
			"cache_type": cacheType,
			"error":      err.Error(),
		})
	}
	if hit {
		o.logger.Debug("Cache hit", map[string]interface{}{
			"cache_type": cacheType,
			"cache_key":  entry.CacheKey,
			"hits":       entry.HitCount,
		})
		return o.assemble(q, entry.Candidates, sourcesUsed, entry.Errors, true), nil
	}

	outcomes := o.fanOut(ctx, adapters, q)

	var merged []models.Candidate
	var provErrs []models.ProviderError
	for _, out := range outcomes {
		// Partial data rides along even when the provider also failed.
		merged = append(merged, out.Candidates...)
		if pe := out.ProviderError(); pe != nil {
			provErrs = append(provErrs, *pe)
		}
	}

	ranked := Rank(q, Dedupe(q.Domain, merged))

	if err := o.store.Set(ctx, cacheType, params, ranked, len(ranked), provErrs); err != nil {
		// The freshly computed result is still returned, just not cached.
		o.logger.Warn("Cache write failed", map[string]interface{}{
			"cache_type": cacheType,
			"error":      err.Error(),
		})
	}

	o.logger.Info("Aggregation completed", map[string]interface{}{
		"domain":     string(q.Domain),
		"cache_type": cacheType,
		"providers":  len(adapters),
		"candidates": len(ranked),
		"errors":     len(provErrs),
	})

	return o.assemble(q, ranked, sourcesUsed, provErrs, false), nil
}

// Featured serves the curated browse listing for a domain under the
// "featured" TTL class.
func (o *Orchestrator) Featured(ctx context.Context, domain models.Domain, limit int) (*models.SearchResponse, error) {
	if limit <= 0 {
		limit = o.cfg.Aggregation.DefaultPageSize
	}
	return o.Search(ctx, models.Query{
		Domain:   domain,
		Featured: true,
		Page:     1,
		PageSize: limit,
	})
}

// fanOut invokes every adapter concurrently and joins all of them. It is a
// barrier, not a race: one slow provider does not cancel its siblings and
// one failure never aborts the batch. Cancelling ctx propagates to every
// in-flight call at once. Outcomes land at fixed indexes so the order is
// registration order, not completion order.
func (o *Orchestrator) fanOut(ctx context.Context, adapters []providers.Adapter, q models.Query) []providers.Outcome {
	outcomes := make([]providers.Outcome, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter providers.Adapter) {
			defer wg.Done()
			name := adapter.Name()

			if !o.guard.Allow(name) {
				outcomes[i] = providers.Failed(name, providers.FailureRateLimited,
					fmt.Errorf("provider %s temporarily disabled by rate guard", name))
				return
			}

			callCtx, cancel := context.WithTimeout(ctx, o.cfg.Aggregation.ProviderTimeout)
			defer cancel()

			out := adapter.Fetch(callCtx, q)
			if out.Failure != nil {
				o.guard.RecordFailure(name)
				o.logger.Warn("Provider call failed", map[string]interface{}{
					"provider": name,
					"kind":     string(out.Failure.Kind),
					"error":    out.Failure.Error(),
					"duration": out.Duration.String(),
				})
			} else {
				o.guard.RecordSuccess(name)
				o.logger.Debug("Provider call succeeded", map[string]interface{}{
					"provider":   name,
					"candidates": len(out.Candidates),
					"duration":   out.Duration.String(),
				})
			}
			outcomes[i] = out
		}(i, adapter)
	}
	wg.Wait()

	return outcomes
}

// assemble slices the full ranked list to the requested page window.
func (o *Orchestrator) assemble(q models.Query, ranked []models.Candidate, sourcesUsed []string, provErrs []models.ProviderError, cached bool) *models.SearchResponse {
	total := len(ranked)

	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	totalPages := 0
	if q.PageSize > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}

	return &models.SearchResponse{
		Candidates:  ranked[start:end],
		Total:       total,
		Page:        q.Page,
		PageSize:    q.PageSize,
		TotalPages:  totalPages,
		SourcesUsed: sourcesUsed,
		Errors:      provErrs,
		Cached:      cached,
	}
}

func (o *Orchestrator) validate(q models.Query) error {
	if q.Domain != models.DomainJobs && q.Domain != models.DomainCourses {
		return utils.NewValidationError(fmt.Sprintf("unknown domain %q", q.Domain))
	}
	if strings.TrimSpace(q.Term) == "" && !q.HasFilter() {
		return utils.NewValidationError("query needs a search term or at least one filter")
	}
	if q.Page < 1 {
		return utils.NewValidationError("page must be >= 1")
	}
	if q.PageSize < 1 || q.PageSize > o.cfg.Aggregation.MaxPageSize {
		return utils.NewValidationError(fmt.Sprintf("page_size must be between 1 and %d", o.cfg.Aggregation.MaxPageSize))
	}
	return nil
}

// CacheTypeOf derives the TTL class from which filters are set. Browse-style
// queries (category, featured) cache longest; free listings shortest.
func CacheTypeOf(q models.Query) string {
	switch {
	case q.Featured:
		return "featured"
	case q.FreeOnly:
		return "free"
	case q.Category != "" && strings.TrimSpace(q.Term) == "":
		return "category"
	default:
		return "search"
	}
}

// cacheParams flattens the query into the canonical parameter map the cache
// key is derived from. Page and page size are deliberately absent: one entry
// holds the full ranked list for the query signature and every page request
// slices from it.
func cacheParams(q models.Query) map[string]string {
	params := map[string]string{
		"domain":   string(q.Domain),
		"term":     strings.TrimSpace(q.Term),
		"location": strings.TrimSpace(q.Location),
		"category": q.Category,
		"level":    q.Level,
		"industry": q.Industry,
	}
	if q.EmploymentType != "" {
		params["employment_type"] = q.EmploymentType
	}
	if q.SalaryMin > 0 {
		params["salary_min"] = strconv.Itoa(q.SalaryMin)
	}
	if q.SalaryMax > 0 {
		params["salary_max"] = strconv.Itoa(q.SalaryMax)
	}
	if len(q.Skills) > 0 {
		params["skills"] = sortedJoin(q.Skills)
	}
	if q.FreeOnly {
		params["free_only"] = "true"
	}
	if q.Featured {
		params["featured"] = "true"
	}
	if len(q.Sources) > 0 {
		params["sources"] = sortedJoin(q.Sources)
	}
	return params
}

// sortedJoin canonicalizes a list-valued parameter so reordered but
// semantically identical lists key identically.
func sortedJoin(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
