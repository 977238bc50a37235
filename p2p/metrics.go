package p2p

import (
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/multiformats/go-multiaddr"

	"github.com/ringsync/go-ringsync/metrics"
)

const subsystem = "p2p"

var connections = metrics.NewGauge(
	"connections",
	subsystem,
	"number of open connections",
	[]string{"direction"},
)

// connectionsMeter counts open connections per direction.
type connectionsMeter struct{}

func (connectionsMeter) Listen(network.Network, multiaddr.Multiaddr)      {}
func (connectionsMeter) ListenClose(network.Network, multiaddr.Multiaddr) {}

func (connectionsMeter) Connected(_ network.Network, c network.Conn) {
	connections.WithLabelValues(c.Stat().Direction.String()).Inc()
}

func (connectionsMeter) Disconnected(_ network.Network, c network.Conn) {
	connections.WithLabelValues(c.Stat().Direction.String()).Dec()
}
