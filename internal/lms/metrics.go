package lms

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_tools_requests_total",
		Help: "Outbound LMS requests by path and outcome",
	}, []string{
		"method",
		"path",
		"outcome", // ok|http_error|network_error
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lms_tools_request_duration_seconds",
		Help:    "Latency of outbound LMS requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_tools_logins_total",
		Help: "LMS login attempts by result",
	}, []string{"success"})

	cacheLookupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_tools_client_cache_lookups_total",
		Help: "Client cache lookups by result",
	}, []string{"result"}) // hit|miss|expired
)

func observeRequest(method, path string, status int, seconds float64) {
	outcome := "ok"
	switch {
	case status == 0:
		outcome = "network_error"
	case status < 200 || status >= 300:
		outcome = "http_error"
	}
	requestTotal.WithLabelValues(method, path, outcome).Inc()
	requestDuration.WithLabelValues(method).Observe(seconds)
}

func observeLogin(ok bool) {
	loginTotal.WithLabelValues(strconv.FormatBool(ok)).Inc()
}
