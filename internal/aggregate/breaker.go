package aggregate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"careerlens/internal/config"
	"careerlens/internal/logging"
)

// CircuitState represents the state of a provider's circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

type breakerState struct {
	state        CircuitState
	failureCount int
	lastFailTime time.Time
}

// ProviderGuard combines a per-provider rate limiter with a circuit breaker.
// It sits outside the request path's fan-out: a guarded-off provider is
// reported as rate_limited without an outbound call, so repeated upstream
// 429s degrade that one provider instead of slowing live requests.
type ProviderGuard struct {
	cfg      *config.Config
	limiters map[string]*rate.Limiter
	breakers map[string]*breakerState
	mu       sync.Mutex
	logger   logging.Logger
}

// NewProviderGuard creates a guard using the aggregation rate/breaker config.
func NewProviderGuard(cfg *config.Config) *ProviderGuard {
	return &ProviderGuard{
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*breakerState),
		logger:   logging.GetGlobalLogger().WithField("component", "provider_guard"),
	}
}

// Allow reports whether a call to the provider may go out right now.
func (g *ProviderGuard) Allow(provider string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	cb := g.breaker(provider)
	switch cb.state {
	case CircuitOpen:
		if time.Since(cb.lastFailTime) < g.cfg.Aggregation.BreakerReset {
			g.logger.Debug("Request rejected by circuit breaker", map[string]interface{}{
				"provider": provider,
			})
			return false
		}
		cb.state = CircuitHalfOpen
	case CircuitHalfOpen, CircuitClosed:
	}

	if !g.limiter(provider).Allow() {
		g.logger.Debug("Request rejected by rate limiter", map[string]interface{}{
			"provider": provider,
		})
		return false
	}
	return true
}

// RecordSuccess closes the provider's breaker and resets its failure count.
func (g *ProviderGuard) RecordSuccess(provider string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cb := g.breaker(provider)
	cb.state = CircuitClosed
	cb.failureCount = 0
}

// RecordFailure counts a failure and opens the breaker once the threshold
// is reached.
func (g *ProviderGuard) RecordFailure(provider string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cb := g.breaker(provider)
	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.state == CircuitHalfOpen || cb.failureCount >= g.cfg.Aggregation.BreakerFailures {
		if cb.state != CircuitOpen {
			g.logger.Warn("Circuit breaker opened", map[string]interface{}{
				"provider": provider,
				"failures": cb.failureCount,
			})
		}
		cb.state = CircuitOpen
	}
}

func (g *ProviderGuard) breaker(provider string) *breakerState {
	cb, ok := g.breakers[provider]
	if !ok {
		cb = &breakerState{state: CircuitClosed}
		g.breakers[provider] = cb
	}
	return cb
}

func (g *ProviderGuard) limiter(provider string) *rate.Limiter {
	l, ok := g.limiters[provider]
	if !ok {
		perSecond := rate.Limit(float64(g.cfg.Aggregation.RateLimit) / 60.0)
		l = rate.NewLimiter(perSecond, g.cfg.Aggregation.RateBurst)
		g.limiters[provider] = l
	}
	return l
}
