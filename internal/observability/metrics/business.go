package metrics

import (
	"context"
	"errors"
	"time"
)

// Upstream call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// RecordUpstream records one upstream call. The outcome is derived from err:
// nil is a success, a deadline is a timeout, anything else an error.
//
// Example:
//
//	start := time.Now()
//	resp, err := client.Do(req)
//	metrics.RecordUpstream("brave", "web_search", time.Since(start), err)
func RecordUpstream(provider, operation string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		outcome = OutcomeTimeout
	default:
		outcome = OutcomeError
	}
	UpstreamRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
	UpstreamDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordSubscription records the result of a newsletter sign-up.
func RecordSubscription(result string) {
	SubscriptionsTotal.WithLabelValues(result).Inc()
}

// RecordNewsWrite records an admin create or update on a news post.
func RecordNewsWrite(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NewsWritesTotal.WithLabelValues(operation, result).Inc()
}
