package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ringsync/go-ringsync/metrics"
)

const (
	subsystem  = "server"
	protoLabel = "protocol"
)

var (
	streamQueue = metrics.NewGauge(
		"stream_queue",
		subsystem,
		"streams waiting for the handler, by capacity and occupancy",
		[]string{protoLabel, "kind"},
	)
	rateLimit = metrics.NewGauge(
		"rate_limit",
		subsystem,
		"accepted streams per second",
		[]string{protoLabel},
	)
	inbound = metrics.NewCounter(
		"inbound_messages",
		subsystem,
		"inbound messages by outcome",
		[]string{protoLabel, "state"},
	)
	outbound = metrics.NewCounter(
		"outbound_messages",
		subsystem,
		"outbound messages by acknowledgement",
		[]string{protoLabel, "result"},
	)
	ackLatency = metrics.NewHistogramWithBuckets(
		"ack_latency_seconds",
		subsystem,
		"time from opening a stream to the acknowledgement",
		[]string{protoLabel, "result"},
		prometheus.ExponentialBuckets(0.005, 2, 12),
	)
	handleLatency = metrics.NewHistogramWithBuckets(
		"handle_latency_seconds",
		subsystem,
		"time from accepting a stream to writing the acknowledgement",
		[]string{protoLabel},
		prometheus.ExponentialBuckets(0.005, 2, 12),
	)
)

type tracker struct {
	queueCapacity, queueLen prometheus.Gauge
	rate                    prometheus.Gauge

	accepted, dropped, handled, rejected prometheus.Counter
	handleLatency                        prometheus.Observer

	acked, refused, failed   prometheus.Counter
	ackLatency, failLatency prometheus.Observer
}

func newTracker(protocol string) *tracker {
	return &tracker{
		queueCapacity: streamQueue.WithLabelValues(protocol, "capacity"),
		queueLen:      streamQueue.WithLabelValues(protocol, "len"),
		rate:          rateLimit.WithLabelValues(protocol),
		accepted:      inbound.WithLabelValues(protocol, "accepted"),
		dropped:       inbound.WithLabelValues(protocol, "dropped"),
		handled:       inbound.WithLabelValues(protocol, "handled"),
		rejected:      inbound.WithLabelValues(protocol, "rejected"),
		handleLatency: handleLatency.WithLabelValues(protocol),
		acked:         outbound.WithLabelValues(protocol, "acked"),
		refused:       outbound.WithLabelValues(protocol, "refused"),
		failed:        outbound.WithLabelValues(protocol, "failed"),
		ackLatency:    ackLatency.WithLabelValues(protocol, "acked"),
		failLatency:   ackLatency.WithLabelValues(protocol, "failed"),
	}
}
