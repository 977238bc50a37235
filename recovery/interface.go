package recovery

import (
	"context"

	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/wire"
)

//go:generate mockgen -typed -package=recovery -destination=./mocks_test.go -source=./interface.go

// Sender delivers point-to-point messages reliably. Send must not block on the network.
type Sender interface {
	Send(ctx context.Context, peer p2p.Peer, msg *wire.Message) error
}

// Roster answers who is connected and who holds write authority.
type Roster interface {
	Self() p2p.Peer
	// Peers returns connected peers, self excluded.
	Peers() []p2p.Peer
	Authority(instance uint32) p2p.Peer
}

// History is the complete cache of the instance.
type History interface {
	Slice(start, end int64) ([]byte, bool)
	Splice(offset int64, data []byte) error
}

// Handler is notified about the outcome of recovery requests.
type Handler interface {
	OnLossRestored(req Request, data []byte)
	OnPermanentLoss(req Request)
	OnAllLossesResolved()
}
