package snapshot

import (
	"github.com/ringsync/go-ringsync/metrics"
)

const namespace = "snapshot"

var (
	observedBytes = metrics.NewCounter(
		"observed_bytes",
		namespace,
		"bytes delivered to the application",
		[]string{"role"},
	)
	writtenBytes  = observedBytes.WithLabelValues("authority")
	receivedBytes = observedBytes.WithLabelValues("observer")

	lossesDetected = metrics.NewCounter(
		"losses",
		namespace,
		"ranges overwritten before they were observed",
		[]string{},
	).WithLabelValues()

	broadcasts = metrics.NewCounter(
		"broadcasts",
		namespace,
		"snapshots broadcast by the authority",
		[]string{},
	).WithLabelValues()

	dropped = metrics.NewCounter(
		"dropped",
		namespace,
		"received snapshots that were dropped",
		[]string{"reason"},
	)
	droppedAuthority = dropped.WithLabelValues("authority")
	droppedInvalid   = dropped.WithLabelValues("invalid")
	droppedStale     = dropped.WithLabelValues("stale")
)
