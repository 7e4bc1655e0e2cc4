package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vocab", Name: "bot_updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vocab", Name: "handler_errors_total", Help: "Front-end handler errors",
	})
	Answers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vocab", Name: "answers_total", Help: "Graded quiz answers",
	}, []string{"result"})
	Quizzes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vocab", Name: "quizzes_total", Help: "Finished quiz attempts",
	}, []string{"outcome"})
	LedgerWriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vocab", Name: "ledger_write_errors_total", Help: "Answer records that failed to persist",
	})
	GradeQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vocab", Name: "grade_queries_total", Help: "Grade aggregator queries",
	}, []string{"query"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vocab", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, Answers, Quizzes, LedgerWriteErrors, GradeQueries, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveAnswer(correct bool) {
	if correct {
		Answers.WithLabelValues("correct").Inc()
		return
	}
	Answers.WithLabelValues("wrong").Inc()
}
