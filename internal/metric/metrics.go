package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuitesRunning = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "runlog_suites_running",
		Help: "The number of suites currently running",
	}, []string{"suite_name"})

	SuiteRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "runlog_suite_runs_total",
		Help: "The number of suite runs since the service was started",
	}, []string{"suite_name", "result"})

	TestRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "runlog_tests_run_total",
		Help: "The number of tests run since the service was started",
	}, []string{"suite_name", "result"})

	KeywordFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "runlog_keyword_failures_total",
		Help: "The number of failed keywords since the service was started",
	}, []string{"suite_name"})
)
