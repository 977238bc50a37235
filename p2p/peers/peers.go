// Package peers tracks responsiveness of peers that serve recovery and catch-up requests.
package peers

import (
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/ringsync/go-ringsync/p2p"
)

type data struct {
	id                p2p.Peer
	success, failures int
	failRate          float64
	averageLatency    float64
}

func (d *data) latency(global float64) float64 {
	if d.success+d.failures == 0 {
		return 0.9 * global // to prioritize trying out new peer
	} else if d.success == 0 {
		return 1.1 * global
	}
	return d.averageLatency + d.failRate*global
}

func (d *data) less(other *data, global float64) bool {
	peerLatency := d.latency(global)
	otherLatency := other.latency(global)
	if peerLatency < otherLatency {
		return true
	} else if peerLatency > otherLatency {
		return false
	}
	return strings.Compare(string(d.id), string(other.id)) == -1
}

func New() *Peers {
	return &Peers{
		peers: map[p2p.Peer]*data{},
	}
}

type Peers struct {
	mu    sync.Mutex
	peers map[p2p.Peer]*data

	// globalLatency is the average latency of all successful responses from peers.
	// It is used as a reference value for new peers.
	globalLatency float64
}

func (p *Peers) Add(id p2p.Peer) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exist := p.peers[id]; exist {
		return false
	}
	p.peers[id] = &data{id: id}
	return true
}

func (p *Peers) Delete(id p2p.Peer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.peers, id)
}

// Contains reports whether the peer is currently known (connected).
func (p *Peers) Contains(id p2p.Peer) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, exist := p.peers[id]
	return exist
}

// List returns all known peers sorted by id.
func (p *Peers) List() []p2p.Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	rst := make([]p2p.Peer, 0, len(p.peers))
	for id := range p.peers {
		rst = append(rst, id)
	}
	slices.Sort(rst)
	return rst
}

func (p *Peers) OnFailure(id p2p.Peer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	peer, exist := p.peers[id]
	if !exist {
		return
	}
	peer.failures++
	peer.failRate = float64(peer.failures) / float64(peer.success+peer.failures)
}

// OnLatency updates average peer and global latency.
func (p *Peers) OnLatency(id p2p.Peer, size int, latency time.Duration) {
	if size == 0 {
		return
	}
	// latency is normalized to the duration of transmitting 1kiB,
	// smaller messages are treated as if they were 1kiB.
	latency = latency / time.Duration(max(size/1024, 1))
	p.mu.Lock()
	defer p.mu.Unlock()
	peer, exist := p.peers[id]
	if !exist {
		return
	}
	peer.success++
	peer.failRate = float64(peer.failures) / float64(peer.success+peer.failures)
	if peer.averageLatency != 0 {
		delta := (float64(latency) - peer.averageLatency) / 10 // 86% of the value is the last 19
		peer.averageLatency += delta
	} else {
		peer.averageLatency = float64(latency)
	}
	if p.globalLatency != 0 {
		delta := (float64(latency) - p.globalLatency) / 25 // 86% of the value is the last 49
		p.globalLatency += delta
	} else {
		p.globalLatency = float64(latency)
	}
}

// Order sorts candidates from the most to the least responsive peer. Unknown peers go
// last, ordered by id.
func (p *Peers) Order(candidates []p2p.Peer) []p2p.Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	rst := slices.Clone(candidates)
	slices.SortStableFunc(rst, func(a, b p2p.Peer) int {
		da, okA := p.peers[a]
		db, okB := p.peers[b]
		switch {
		case okA && okB:
			if da.less(db, p.globalLatency) {
				return -1
			} else if db.less(da, p.globalLatency) {
				return 1
			}
			return 0
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(string(a), string(b))
	})
	return rst
}

func (p *Peers) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.peers)
}

func (p *Peers) Stats() Stats {
	best := p.Order(p.List())
	if len(best) > 5 {
		best = best[:5]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	stats := Stats{
		Total:                len(p.peers),
		GlobalAverageLatency: p.globalLatency,
	}
	for _, peer := range best {
		peerData, exist := p.peers[peer]
		if !exist {
			continue
		}
		stats.BestPeers = append(stats.BestPeers, PeerStats{
			ID:       peerData.id,
			Success:  peerData.success,
			Failures: peerData.failures,
			Latency:  peerData.averageLatency,
		})
	}
	return stats
}

type Stats struct {
	Total                int
	GlobalAverageLatency float64
	BestPeers            []PeerStats
}

func (s *Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("total", s.Total)
	enc.AddFloat64("global average latency", s.GlobalAverageLatency)
	enc.AddArray("best peers", zapcore.ArrayMarshalerFunc(func(arrEnc zapcore.ArrayEncoder) error {
		for _, peer := range s.BestPeers {
			arrEnc.AppendObject(&peer)
		}
		return nil
	}))
	return nil
}

type PeerStats struct {
	ID       p2p.Peer
	Success  int
	Failures int
	Latency  float64
}

func (p *PeerStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", p.ID.String())
	enc.AddInt("success", p.Success)
	enc.AddInt("failures", p.Failures)
	enc.AddFloat64("latency per 1024 bytes", p.Latency)
	return nil
}
