package snapshot

import (
	"context"

	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/ring"
	"github.com/ringsync/go-ringsync/wire"
)

//go:generate mockgen -typed -package=snapshot -destination=./mocks_test.go -source=./interface.go

// Broadcaster publishes snapshots to every peer. Delivery is last-value-wins.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *wire.Message) error
}

// Handler receives the bytes of a window in logical order, and the outcome of recovering
// the ranges that were overwritten before they could be observed.
type Handler interface {
	OnNewBytes(offset int64, data []byte)
	OnDataLoss(loss ring.LossRange)
	OnLossRestored(req recovery.Request, data []byte)
	OnPermanentLoss(req recovery.Request)
	// OnAllLossesResolved is called with the complete history once the last outstanding
	// loss was restored.
	OnAllLossesResolved(history []byte)
}
