package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/aggregate"
	"careerlens/internal/config"
)

func newGuardConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	cfg.Aggregation.RateLimit = 6000
	cfg.Aggregation.RateBurst = 100
	cfg.Aggregation.BreakerFailures = 3
	cfg.Aggregation.BreakerReset = 50 * time.Millisecond
	return cfg
}

func TestProviderGuard_AllowsByDefault(t *testing.T) {
	guard := aggregate.NewProviderGuard(newGuardConfig(t))
	assert.True(t, guard.Allow("jsearch"))
}

func TestProviderGuard_OpensAfterThreshold(t *testing.T) {
	guard := aggregate.NewProviderGuard(newGuardConfig(t))

	guard.RecordFailure("jsearch")
	guard.RecordFailure("jsearch")
	assert.True(t, guard.Allow("jsearch"))

	guard.RecordFailure("jsearch")
	assert.False(t, guard.Allow("jsearch"))
}

func TestProviderGuard_BreakerIsPerProvider(t *testing.T) {
	guard := aggregate.NewProviderGuard(newGuardConfig(t))

	for i := 0; i < 3; i++ {
		guard.RecordFailure("jsearch")
	}

	assert.False(t, guard.Allow("jsearch"))
	assert.True(t, guard.Allow("remotive"))
}

func TestProviderGuard_HalfOpenAfterReset(t *testing.T) {
	guard := aggregate.NewProviderGuard(newGuardConfig(t))

	for i := 0; i < 3; i++ {
		guard.RecordFailure("jsearch")
	}
	assert.False(t, guard.Allow("jsearch"))

	time.Sleep(60 * time.Millisecond)

	// One probe is let through after the reset window.
	assert.True(t, guard.Allow("jsearch"))
}

func TestProviderGuard_HalfOpenFailureReopens(t *testing.T) {
	guard := aggregate.NewProviderGuard(newGuardConfig(t))

	for i := 0; i < 3; i++ {
		guard.RecordFailure("jsearch")
	}
	time.Sleep(60 * time.Millisecond)
	require.True(t, guard.Allow("jsearch"))

	guard.RecordFailure("jsearch")
	assert.False(t, guard.Allow("jsearch"))
}

func TestProviderGuard_SuccessCloses(t *testing.T) {
	guard := aggregate.NewProviderGuard(newGuardConfig(t))

	for i := 0; i < 3; i++ {
		guard.RecordFailure("jsearch")
	}
	time.Sleep(60 * time.Millisecond)
	require.True(t, guard.Allow("jsearch"))

	guard.RecordSuccess("jsearch")
	assert.True(t, guard.Allow("jsearch"))
	assert.True(t, guard.Allow("jsearch"))
}

func TestProviderGuard_RateLimiterThrottles(t *testing.T) {
	cfg := newGuardConfig(t)
	cfg.Aggregation.RateLimit = 60 // one call per second
	cfg.Aggregation.RateBurst = 2

	guard := aggregate.NewProviderGuard(cfg)

	assert.True(t, guard.Allow("jsearch"))
	assert.True(t, guard.Allow("jsearch"))
	assert.False(t, guard.Allow("jsearch"))
}
