// Package metrics records gate runs as Prometheus metrics.
//
// canonguard is a short-lived process, so metrics are not scraped over
// HTTP. Instead each run registers its metrics on a private registry and
// optionally writes them to a file in the Prometheus text format, ready
// for the node exporter textfile collector:
//
//	registry := prometheus.NewRegistry()
//	gm := metrics.NewGateMetrics(&cfg.Metrics, registry)
//	engine := guard.New(rules, source, fsys, guard.WithRecorder(gm))
//	...
//	metrics.WriteTextfile(cfg.Metrics.TextfilePath, registry)
//
// Metrics (with the default "canonguard" namespace):
//   - canonguard_runs_total{phase,result}: runs by outcome ("pass", "fail", "error")
//   - canonguard_violations_total{phase,stage}: failed runs by failing stage
//   - canonguard_changed_files{phase}: size of the last change list
//   - canonguard_run_duration_seconds{phase}: evaluation latency
//   - canonguard_last_run_timestamp_seconds{phase}: completion time of the last run
package metrics
