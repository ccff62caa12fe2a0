// Package observability groups the service's logging, metrics and tracing.
//
// Subpackages:
//   - logging: slog construction from LOG_LEVEL/LOG_FORMAT and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP traffic, upstream calls and business events
//   - tracing: OpenTelemetry tracer provider and HTTP span middleware
//
// Example usage:
//
//	import (
//	    "privatelives/internal/observability/logging"
//	    "privatelives/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordSubscription("new")
//	}
package observability
