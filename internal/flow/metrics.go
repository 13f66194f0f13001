package flow

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	flowItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_tools_flow_items_total",
		Help: "Flow items processed, by kind and success.",
	}, []string{"kind", "success"})

	flowRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_tools_flow_runs_total",
		Help: "Flow runs finished, by kind and outcome.",
	}, []string{"kind", "outcome"})
)

func observeItem(kind string, ok bool) {
	flowItems.WithLabelValues(kind, strconv.FormatBool(ok)).Inc()
}

func observeRun(kind, outcome string) {
	flowRuns.WithLabelValues(kind, outcome).Inc()
}
