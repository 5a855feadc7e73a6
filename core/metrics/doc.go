// Package metrics exposes sync counters to Prometheus.
package metrics
