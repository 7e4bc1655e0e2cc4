package jobs

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomePanic = "panic"
)

var (
	// jobRuns counts ticks per job and how they ended.
	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vocab", Subsystem: "job", Name: "runs_total",
		Help: "Background job runs by outcome",
	}, []string{"job", "outcome"})

	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vocab", Subsystem: "job", Name: "duration_seconds",
		Help:    "Background job duration",
		Buckets: []float64{.01, .05, .1, .5, 1, 5, 30},
	}, []string{"job"})

	jobLastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "vocab", Subsystem: "job", Name: "last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	}, []string{"job"})

	// exportedRows is the number of students written to each sort file on the last export.
	exportedRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "vocab", Subsystem: "export", Name: "rows",
		Help: "Students in the last regenerated export file",
	}, []string{"file"})
)

func init() {
	prometheus.MustRegister(jobRuns, jobDuration, jobLastSuccess, exportedRows)
}
