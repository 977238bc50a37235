package node

import (
	"sync"

	"github.com/ringsync/go-ringsync/p2p"
)

// roster answers peer queries of the engines from the transport and the authorities of
// registered instances.
type roster struct {
	transport Transport

	mu          sync.RWMutex
	authorities map[uint32]p2p.Peer
}

func newRoster(transport Transport) *roster {
	return &roster{
		transport:   transport,
		authorities: map[uint32]p2p.Peer{},
	}
}

func (r *roster) Self() p2p.Peer {
	return r.transport.Self()
}

func (r *roster) Peers() []p2p.Peer {
	return r.transport.Peers()
}

// Authority returns the writer of the instance. NoPeer is returned for unknown instances.
func (r *roster) Authority(instance uint32) p2p.Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	authority, exist := r.authorities[instance]
	if !exist {
		return p2p.NoPeer
	}
	if authority == p2p.NoPeer {
		return r.transport.Self()
	}
	return authority
}

func (r *roster) set(instance uint32, authority p2p.Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorities[instance] = authority
}

func (r *roster) remove(instance uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.authorities, instance)
}
