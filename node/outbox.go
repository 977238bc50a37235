package node

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ringsync/go-ringsync/codec"
	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/wire"
)

// ErrQueueFull is returned when the outbound queue of a peer has no room for a message.
var ErrQueueFull = errors.New("outbound queue is full")

// outbox queues messages for delivery in the background, so that engines never wait for
// the network. Every peer has its own queue and worker, broadcasts share one more. Messages
// to a peer are delivered in the order they were queued.
type outbox struct {
	logger    *zap.Logger
	transport Transport
	size      int

	mu     sync.Mutex
	queues map[p2p.Peer]*queue
	eg     *errgroup.Group
	ctx    context.Context
	closed bool
}

type queue struct {
	msgs chan []byte
	// closed when the peer disconnects
	done chan struct{}
}

func newOutbox(logger *zap.Logger, transport Transport, size int) *outbox {
	return &outbox{
		logger:    logger,
		transport: transport,
		size:      size,
		queues:    map[p2p.Peer]*queue{},
	}
}

// Send queues a point-to-point message.
func (o *outbox) Send(_ context.Context, peer p2p.Peer, msg *wire.Message) error {
	if peer == p2p.NoPeer {
		return fmt.Errorf("send %s: no peer", msg.Kind)
	}
	return o.enqueue(peer, msg)
}

// Broadcast queues a message for every peer.
func (o *outbox) Broadcast(_ context.Context, msg *wire.Message) error {
	return o.enqueue(p2p.NoPeer, msg)
}

func (o *outbox) enqueue(to p2p.Peer, msg *wire.Message) error {
	buf, err := codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Kind, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return context.Canceled
	}
	q, exist := o.queues[to]
	if !exist {
		q = &queue{msgs: make(chan []byte, o.size), done: make(chan struct{})}
		o.queues[to] = q
		if o.eg != nil {
			o.start(to, q)
		}
	}
	select {
	case q.msgs <- buf:
		return nil
	default:
		outboundFull.Inc()
		return fmt.Errorf("%w: %s", ErrQueueFull, to)
	}
}

// run delivers queued messages until ctx is canceled.
func (o *outbox) run(ctx context.Context) error {
	o.mu.Lock()
	o.eg, o.ctx = errgroup.WithContext(ctx)
	for to, q := range o.queues {
		o.start(to, q)
	}
	o.mu.Unlock()

	<-ctx.Done()
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	return o.eg.Wait()
}

// drop stops the worker of a disconnected peer and discards its queued messages.
func (o *outbox) drop(peer p2p.Peer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	q, exist := o.queues[peer]
	if !exist || peer == p2p.NoPeer {
		return
	}
	delete(o.queues, peer)
	close(q.done)
	if pending := len(q.msgs); pending > 0 {
		outboundDropped.Add(float64(pending))
		o.logger.Debug("discarded messages for disconnected peer",
			zap.Stringer("peer", peer),
			zap.Int("pending", pending),
		)
	}
}

// start must be called with the lock held and before closed is set.
func (o *outbox) start(to p2p.Peer, q *queue) {
	o.eg.Go(func() error {
		for {
			select {
			case <-o.ctx.Done():
				return nil
			case <-q.done:
				return nil
			case msg := <-q.msgs:
				o.deliver(o.ctx, to, msg)
			}
		}
	})
}

func (o *outbox) deliver(ctx context.Context, to p2p.Peer, msg []byte) {
	var err error
	if to == p2p.NoPeer {
		err = o.transport.Broadcast(ctx, msg)
	} else {
		err = o.transport.Send(ctx, to, msg)
	}
	switch {
	case err == nil:
		outboundSent.Inc()
	case ctx.Err() != nil:
	default:
		outboundFailed.Inc()
		o.logger.Debug("failed to deliver message",
			zap.Stringer("peer", to),
			zap.Int("size", len(msg)),
			zap.Error(err),
		)
	}
}
