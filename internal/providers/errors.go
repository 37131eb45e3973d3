package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// StatusError is an unexpected HTTP status from an external source.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// Classify maps an arbitrary adapter error onto the closed failure taxonomy.
// Context deadlines and network timeouts are timeouts, HTTP 429 is
// rate-limited, decode errors are malformed responses, the rest is unknown.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == http.StatusTooManyRequests {
			return FailureRateLimited
		}
		return FailureUnknown
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return FailureMalformed
	}

	return FailureUnknown
}
