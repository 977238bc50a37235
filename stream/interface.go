package stream

import (
	"context"

	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/wire"
)

//go:generate mockgen -typed -package=stream -destination=./mocks_test.go -source=./interface.go

// Sender delivers point-to-point messages reliably and in order. Send must not block on
// the network.
type Sender interface {
	Send(ctx context.Context, peer p2p.Peer, msg *wire.Message) error
}

// Broadcaster publishes the stream state to every peer.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *wire.Message) error
}

type Roster interface {
	Self() p2p.Peer
	// Peers returns connected peers, self excluded.
	Peers() []p2p.Peer
	Authority(instance uint32) p2p.Peer
}

// Handler receives the chunks of a stream in offset order.
type Handler interface {
	OnChunk(chunk wire.Chunk)
	// OnCaughtUp is called when the history of a late joiner was received.
	OnCaughtUp(total uint64)
	// OnMissingData is called when no peer could serve the history.
	OnMissingData()
}
