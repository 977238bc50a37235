// Package memnet is an in-memory network of peers for tests and simulations. Messages are
// delivered synchronously to the handler of the receiving peer.
package memnet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ringsync/go-ringsync/p2p"
)

var (
	// ErrNotConnected is returned when the peer is offline or the link to it is cut.
	ErrNotConnected = errors.New("peer is not connected")
	// ErrDuplicate is returned when a node with the same id already exists.
	ErrDuplicate = errors.New("duplicate node")
)

type link struct {
	a, b p2p.Peer
}

func newLink(a, b p2p.Peer) link {
	if a > b {
		a, b = b, a
	}
	return link{a: a, b: b}
}

// Network is a p2p node factory and message bridge.
type Network struct {
	mu    sync.RWMutex
	nodes map[p2p.Peer]*Node
	cut   map[link]struct{}
}

func New() *Network {
	return &Network{
		nodes: map[p2p.Peer]*Node{},
		cut:   map[link]struct{}{},
	}
}

// NewNode creates a node connected to every other node of the network.
func (n *Network) NewNode(id p2p.Peer) (*Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exist := n.nodes[id]; exist {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	node := &Node{net: n, id: id}
	n.nodes[id] = node
	return node, nil
}

// Disconnect cuts the link between two nodes.
func (n *Network) Disconnect(a, b p2p.Peer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cut[newLink(a, b)] = struct{}{}
}

// Connect restores the link between two nodes.
func (n *Network) Connect(a, b p2p.Peer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.cut, newLink(a, b))
}

func (n *Network) reachable(from p2p.Peer, to *Node) (p2p.Handler, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, cut := n.cut[newLink(from, to.id)]; cut {
		return nil, false
	}
	to.mu.Lock()
	defer to.mu.Unlock()
	return to.handler, to.handler != nil
}

// Node is a simulated peer. It implements the transport used by node.Node.
type Node struct {
	net *Network
	id  p2p.Peer

	mu      sync.Mutex
	handler p2p.Handler
}

func (sn *Node) Self() p2p.Peer {
	return sn.id
}

// Peers returns serving nodes that are reachable from this node.
func (sn *Node) Peers() []p2p.Peer {
	sn.net.mu.RLock()
	nodes := make([]*Node, 0, len(sn.net.nodes))
	for id, node := range sn.net.nodes {
		if id != sn.id {
			nodes = append(nodes, node)
		}
	}
	sn.net.mu.RUnlock()
	var rst []p2p.Peer
	for _, node := range nodes {
		if _, ok := sn.net.reachable(sn.id, node); ok {
			rst = append(rst, node.id)
		}
	}
	slices.Sort(rst)
	return rst
}

// Send delivers the message and returns the error of the remote handler.
func (sn *Node) Send(ctx context.Context, pid p2p.Peer, msg []byte) error {
	sn.net.mu.RLock()
	node, exist := sn.net.nodes[pid]
	sn.net.mu.RUnlock()
	if !exist {
		return fmt.Errorf("%w: %s", ErrNotConnected, pid)
	}
	handler, ok := sn.net.reachable(sn.id, node)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConnected, pid)
	}
	return handler(ctx, sn.id, slices.Clone(msg))
}

// Broadcast delivers the message to every reachable node. Handler errors are ignored.
func (sn *Node) Broadcast(ctx context.Context, msg []byte) error {
	for _, pid := range sn.Peers() {
		_ = sn.Send(ctx, pid, msg)
	}
	return nil
}

// Serve passes messages to the handler until the context is canceled. The node is
// offline once Serve returns.
func (sn *Node) Serve(ctx context.Context, handler p2p.Handler) error {
	sn.mu.Lock()
	if sn.handler != nil {
		sn.mu.Unlock()
		return fmt.Errorf("node %s is already serving", sn.id)
	}
	sn.handler = handler
	sn.mu.Unlock()
	<-ctx.Done()
	sn.mu.Lock()
	sn.handler = nil
	sn.mu.Unlock()
	return nil
}
