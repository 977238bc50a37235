package recovery

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ringsync/go-ringsync/metrics"
)

const namespace = "recovery"

var (
	requests = metrics.NewCounter(
		"requests",
		namespace,
		"recovery requests sent to peers",
		[]string{"result"},
	)
	sentRequests      = requests.WithLabelValues("sent")
	timedOutRequests  = requests.WithLabelValues("timeout")
	refusedRequests   = requests.WithLabelValues("unavailable")
	malformedRequests = requests.WithLabelValues("malformed")

	served = metrics.NewCounter(
		"served",
		namespace,
		"recovery requests received from peers",
		[]string{"result"},
	)
	servedData        = served.WithLabelValues("data")
	servedUnavailable = served.WithLabelValues("unavailable")

	ranges = metrics.NewCounter(
		"ranges",
		namespace,
		"loss ranges by outcome",
		[]string{"outcome"},
	)
	trackedRanges   = ranges.WithLabelValues("tracked")
	recoveredRanges = ranges.WithLabelValues("recovered")
	lostRanges      = ranges.WithLabelValues("lost")

	outstanding = metrics.NewGauge(
		"outstanding",
		namespace,
		"loss ranges waiting for recovery",
		[]string{},
	).WithLabelValues()

	latency = metrics.NewHistogramWithBuckets(
		"latency_seconds",
		namespace,
		"time from detecting a loss to recovering it",
		[]string{},
		prometheus.ExponentialBuckets(0.01, 2, 12),
	).WithLabelValues()
)
