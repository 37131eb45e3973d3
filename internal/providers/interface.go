package providers

import (
	"context"
	"time"

	"careerlens/pkg/models"
)

// Adapter is the contract every external data source implements. The
// orchestrator treats adapters polymorphically over this interface; it never
// knows which concrete provider it is talking to.
//
// Fetch must honor ctx cancellation and its deadline, must classify every
// failure instead of propagating raw errors, and may return partial
// candidates alongside a failure when the source delivered some valid
// records before breaking. Adapters are stateless; a call is safely retried.
type Adapter interface {
	// Name returns the provider identifier used in sources_used and errors.
	Name() string

	// Domain returns the logical catalog this provider serves.
	Domain() models.Domain

	// Fetch translates the query into one external call and returns the
	// outcome. It never panics and never returns an unclassified error.
	Fetch(ctx context.Context, query models.Query) Outcome
}

// FailureKind is the closed taxonomy of provider failures.
type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureRateLimited FailureKind = "rate_limited"
	FailureMalformed   FailureKind = "malformed_response"
	FailureUnknown     FailureKind = "unknown"
)

// Failure is one classified provider failure.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	return string(f.Kind)
}

// Outcome is the result of one adapter invocation. Candidates and Failure
// may both be set when the source returned partial data before failing.
type Outcome struct {
	Source     string
	Candidates []models.Candidate
	Failure    *Failure
	Duration   time.Duration
}

// ProviderError converts the outcome's failure into the response shape, or
// nil when the call succeeded.
func (o Outcome) ProviderError() *models.ProviderError {
	if o.Failure == nil {
		return nil
	}
	return &models.ProviderError{
		Source:  o.Source,
		Kind:    string(o.Failure.Kind),
		Message: o.Failure.Error(),
	}
}

// Success builds a successful outcome.
func Success(source string, candidates []models.Candidate) Outcome {
	return Outcome{Source: source, Candidates: candidates}
}

// Failed builds a failed outcome with an already-classified kind.
func Failed(source string, kind FailureKind, err error) Outcome {
	return Outcome{Source: source, Failure: &Failure{Kind: kind, Err: err}}
}

// FailedWith builds a failed outcome, classifying err itself.
func FailedWith(source string, err error) Outcome {
	return Failed(source, Classify(err), err)
}
