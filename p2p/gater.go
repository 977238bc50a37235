package p2p

import (
	"github.com/libp2p/go-libp2p/core/control"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// gater limits the number of connected peers. Bootnodes are always allowed so that a full
// node can still reach the write authorities.
type gater struct {
	h         host.Host
	max       int
	protected map[peer.ID]struct{}
}

func newGater(max int, bootnodes []peer.AddrInfo) *gater {
	g := &gater{max: max, protected: map[peer.ID]struct{}{}}
	for _, info := range bootnodes {
		g.protected[info.ID] = struct{}{}
	}
	return g
}

func (g *gater) allow(pid peer.ID) bool {
	if _, ok := g.protected[pid]; ok {
		return true
	}
	// host is set after construction
	if g.h == nil || g.max == 0 {
		return true
	}
	return len(g.h.Network().Peers()) < g.max
}

func (*gater) InterceptPeerDial(_ peer.ID) bool {
	return true
}

func (g *gater) InterceptAddrDial(pid peer.ID, _ multiaddr.Multiaddr) bool {
	return g.allow(pid)
}

func (g *gater) InterceptAccept(_ network.ConnMultiaddrs) bool {
	if g.h == nil || g.max == 0 {
		return true
	}
	// bootnodes are not known before the handshake, they are admitted in InterceptSecured
	return len(g.h.Network().Peers()) < g.max+len(g.protected)
}

func (g *gater) InterceptSecured(_ network.Direction, pid peer.ID, _ network.ConnMultiaddrs) bool {
	return g.allow(pid)
}

func (*gater) InterceptUpgraded(_ network.Conn) (allow bool, reason control.DisconnectReason) {
	return true, 0
}
