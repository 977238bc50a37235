package node

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ringsync/go-ringsync/metrics"
)

const namespace = "node"

var (
	received = metrics.NewCounter(
		"received",
		namespace,
		"messages received from peers",
		[]string{"kind"},
	)

	dropped = metrics.NewCounter(
		"dropped",
		namespace,
		"messages from peers that were not handled",
		[]string{"reason"},
	)
	droppedMalformed = dropped.WithLabelValues("malformed")
	droppedUnknown   = dropped.WithLabelValues("unknown_instance")
	droppedRejected  = dropped.WithLabelValues("rejected")

	outbound = metrics.NewCounter(
		"outbound",
		namespace,
		"messages queued for peers",
		[]string{"result"},
	)
	outboundSent    = outbound.WithLabelValues("sent")
	outboundFailed  = outbound.WithLabelValues("failed")
	outboundFull    = outbound.WithLabelValues("queue_full")
	outboundDropped = outbound.WithLabelValues("peer_gone")

	connected = metrics.NewGauge(
		"peers",
		namespace,
		"connected peers",
		[]string{},
	).WithLabelValues()

	tickDuration = metrics.NewHistogramWithBuckets(
		"tick_seconds",
		namespace,
		"time spent ticking every instance",
		[]string{},
		prometheus.ExponentialBuckets(0.0001, 2, 14),
	).WithLabelValues()
)
