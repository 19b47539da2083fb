package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"viholabs/canonguard/pkg/config"
	"viholabs/canonguard/pkg/guard"
)

// Run results used as the "result" label.
const (
	ResultPass  = "pass"
	ResultFail  = "fail"
	ResultError = "error"
)

// GateMetrics tracks gate evaluations. It implements guard.Recorder.
type GateMetrics struct {
	runsTotal       *prometheus.CounterVec
	violationsTotal *prometheus.CounterVec
	changedFiles    *prometheus.GaugeVec
	runDuration     *prometheus.HistogramVec
	lastRun         *prometheus.GaugeVec
	prohibitions    *prometheus.CounterVec

	now func() time.Time
}

var _ guard.Recorder = (*GateMetrics)(nil)

// NewGateMetrics creates and registers gate metrics with the provided registry.
func NewGateMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *GateMetrics {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	gm := &GateMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of gate runs by result",
			},
			[]string{"phase", "result"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "violations_total",
				Help:      "Total number of failed runs by failing stage",
			},
			[]string{"phase", "stage"},
		),

		prohibitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prohibition_violations_total",
				Help:      "Total number of runs failed by each prohibition rule",
			},
			[]string{"phase", "rule"},
		),

		changedFiles: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "changed_files",
				Help:      "Number of changed files seen by the last run",
			},
			[]string{"phase"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of gate evaluation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to 8s
			},
			[]string{"phase"},
		),

		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run completed",
			},
			[]string{"phase"},
		),

		now: time.Now,
	}

	registry.MustRegister(
		gm.runsTotal,
		gm.violationsTotal,
		gm.prohibitions,
		gm.changedFiles,
		gm.runDuration,
		gm.lastRun,
	)

	return gm
}

// RecordVerdict records a completed evaluation.
func (gm *GateMetrics) RecordVerdict(v *guard.Verdict) {
	result := ResultPass
	if !v.Passed() {
		result = ResultFail
		stage := v.Violation.Stage
		// one stage label for all prohibitions, the rule goes on its own series
		if guard.IsProhibitionStage(stage) {
			gm.prohibitions.WithLabelValues(v.Phase, guard.ProhibitionKey(stage)).Inc()
			stage = guard.StageProhibition
		}
		gm.violationsTotal.WithLabelValues(v.Phase, stage).Inc()
	}

	gm.runsTotal.WithLabelValues(v.Phase, result).Inc()
	gm.changedFiles.WithLabelValues(v.Phase).Set(float64(len(v.Changed)))
	gm.runDuration.WithLabelValues(v.Phase).Observe(v.Duration.Seconds())
	gm.lastRun.WithLabelValues(v.Phase).Set(float64(gm.now().Unix()))
}

// RecordConfigError records a run that could not be evaluated because the
// ruleset or phase was invalid.
func (gm *GateMetrics) RecordConfigError(phase string) {
	gm.runsTotal.WithLabelValues(phase, ResultError).Inc()
	gm.violationsTotal.WithLabelValues(phase, guard.StageConfig).Inc()
	gm.lastRun.WithLabelValues(phase).Set(float64(gm.now().Unix()))
}
