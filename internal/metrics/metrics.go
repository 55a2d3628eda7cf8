// Package metrics provides Prometheus metrics collection for the sale service.
//
// It includes HTTP request metrics (count, latency, errors), sale flow
// counters (purchase transactions built, payouts submitted/failed), and a
// standalone metrics HTTP server on its own port.
package metrics
