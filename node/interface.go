package node

import (
	"context"

	"github.com/ringsync/go-ringsync/p2p"
)

//go:generate mockgen -typed -package=node -destination=./mocks_test.go -source=./interface.go

// Transport connects the node to its peers. It is implemented by p2p.Host and by the
// in-memory network of p2p/memnet.
type Transport interface {
	Self() p2p.Peer
	// Peers returns connected peers, self excluded.
	Peers() []p2p.Peer
	// Send delivers the message and waits for the peer to accept it.
	Send(ctx context.Context, peer p2p.Peer, msg []byte) error
	Broadcast(ctx context.Context, msg []byte) error
	// Serve passes messages from peers to the handler until ctx is canceled.
	Serve(ctx context.Context, handler p2p.Handler) error
}
