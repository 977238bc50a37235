package stream

import (
	"github.com/ringsync/go-ringsync/metrics"
)

const namespace = "stream"

var (
	chunks = metrics.NewCounter(
		"chunks",
		namespace,
		"stream chunks by origin",
		[]string{"origin"},
	)
	emittedChunks  = chunks.WithLabelValues("local")
	receivedChunks = chunks.WithLabelValues("remote")
	replayedChunks = chunks.WithLabelValues("catchup")

	catchups = metrics.NewCounter(
		"catchups",
		namespace,
		"catch-up requests by result",
		[]string{"result"},
	)
	catchupRequests = catchups.WithLabelValues("sent")
	catchupTimeouts = catchups.WithLabelValues("timeout")
	catchupRefused  = catchups.WithLabelValues("unavailable")
	catchupFailed   = catchups.WithLabelValues("malformed")
	catchupDone     = catchups.WithLabelValues("done")
	catchupMissing  = catchups.WithLabelValues("missing")
	catchupServed   = catchups.WithLabelValues("served")
)
