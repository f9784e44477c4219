package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by every background job.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	datasets    *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	now         func() time.Time
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job collectors. A nil registerer selects the
// process-wide default registerer, registered once.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Run instruments a single job execution.
type Run struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts instrumenting one run of job. A nil Metrics yields a Run
// that records nothing.
func (m *Metrics) Track(job string) *Run {
	if m == nil {
		return &Run{job: job}
	}
	return &Run{metrics: m, job: job, start: m.clock()}
}

// Datasets records how many datasets the run loaded and how many failed.
func (r *Run) Datasets(loaded, failed int) {
	if r == nil || r.metrics == nil {
		return
	}
	if loaded > 0 {
		r.metrics.datasets.WithLabelValues(r.job, "loaded").Add(float64(loaded))
	}
	if failed > 0 {
		r.metrics.datasets.WithLabelValues(r.job, "failed").Add(float64(failed))
	}
}

// End records the run's status and duration and returns err unchanged.
func (r *Run) End(err error) error {
	if r == nil || r.metrics == nil || r.job == "" {
		return err
	}
	m := r.metrics
	now := m.clock()
	m.duration.WithLabelValues(r.job).Observe(now.Sub(r.start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(r.job).Inc()
		m.runs.WithLabelValues(r.job, "failure").Inc()
		return err
	}
	m.runs.WithLabelValues(r.job, "success").Inc()
	m.lastSuccess.WithLabelValues(r.job).Set(float64(now.Unix()))
	return nil
}

func (m *Metrics) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrdash_jobs_total",
			Help: "Job executions by job and status.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrdash_jobs_failures_total",
			Help: "Failed job executions by job.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrdash_job_duration_seconds",
			Help:    "Job execution time in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"job"}),
		datasets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrdash_job_datasets_total",
			Help: "Datasets handled by jobs, split into loaded and failed.",
		}, []string{"job", "result"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hrdash_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
	}
	registerer.MustRegister(m.runs, m.failures, m.duration, m.datasets, m.lastSuccess)
	return m
}
