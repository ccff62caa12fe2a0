// Package metrics provides the Prometheus metrics registry and recording helpers.
//
// All metrics are registered with the default registry and exposed on /metrics:
//   - HTTP request metrics (count, duration, in-flight, response size, 429s)
//   - Upstream call metrics per provider and operation
//   - Business metrics (newsletter subscriptions, news writes)
package metrics
