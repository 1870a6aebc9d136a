// Package metric registers and exposes Prometheus metrics.
//
// Metrics cover the two hot paths of the service: validation (outcome
// counters plus cache hit/miss counters) and the command pipeline
// (queue depth gauge, per-kind duration histogram). They are exposed
// at /metrics in Prometheus exposition format.
package metric
