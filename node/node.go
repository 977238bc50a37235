// Package node runs windows and streams over a transport. It keeps a registry of
// instances, routes messages from peers to the engine of their instance, and ticks every
// engine periodically. Engines are only accessed with the node lock held.
package node

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ringsync/go-ringsync/archive"
	"github.com/ringsync/go-ringsync/codec"
	"github.com/ringsync/go-ringsync/entry"
	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/p2p/peers"
	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/snapshot"
	"github.com/ringsync/go-ringsync/stream"
	"github.com/ringsync/go-ringsync/wire"
)

const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultQueueSize    = 1024
)

var (
	// ErrUnknownInstance is returned for messages and calls addressed to an instance that
	// is not registered.
	ErrUnknownInstance = errors.New("unknown instance")
	// ErrDuplicateInstance is returned when registering an id twice.
	ErrDuplicateInstance = errors.New("instance is already registered")
)

type Opt func(*Node)

func WithLogger(logger *zap.Logger) Opt {
	return func(n *Node) {
		n.logger = logger
	}
}

// WithClock sets the clock of the tick loop and of every engine.
func WithClock(clock clockwork.Clock) Opt {
	return func(n *Node) {
		n.clock = clock
	}
}

func WithTickInterval(d time.Duration) Opt {
	return func(n *Node) {
		n.interval = d
	}
}

// WithQueueSize sets the number of messages that can wait for delivery to a single peer.
func WithQueueSize(size int) Opt {
	return func(n *Node) {
		n.queueSize = size
	}
}

// WithArchive keeps the complete history of windows in the archive and restores it when
// a window is registered again.
func WithArchive(a *archive.Archive) Opt {
	return func(n *Node) {
		n.archive = a
	}
}

// WithSnapshotOpts are applied to every window engine after the node defaults.
func WithSnapshotOpts(opts ...snapshot.Opt) Opt {
	return func(n *Node) {
		n.snapshotOpts = append(n.snapshotOpts, opts...)
	}
}

// WithStreamOpts are applied to every stream engine after the node defaults.
func WithStreamOpts(opts ...stream.Opt) Opt {
	return func(n *Node) {
		n.streamOpts = append(n.streamOpts, opts...)
	}
}

// Window describes a window instance.
type Window struct {
	ID       uint32
	Capacity int
	// EntrySize is recorded in the archive.
	EntrySize int
	// Authority is the writer of the window. NoPeer means the local node.
	Authority p2p.Peer
}

// Node hosts window and stream instances on a transport.
type Node struct {
	logger       *zap.Logger
	clock        clockwork.Clock
	interval     time.Duration
	queueSize    int
	archive      *archive.Archive
	snapshotOpts []snapshot.Opt
	streamOpts   []stream.Opt

	transport Transport
	roster    *roster
	out       *outbox
	peers     *peers.Peers

	mu      sync.Mutex
	windows map[uint32]*snapshot.Engine
	streams map[uint32]*stream.Engine
}

func New(transport Transport, opts ...Opt) *Node {
	n := &Node{
		logger:    zap.NewNop(),
		clock:     clockwork.NewRealClock(),
		interval:  DefaultTickInterval,
		queueSize: DefaultQueueSize,
		transport: transport,
		roster:    newRoster(transport),
		peers:     peers.New(),
		windows:   map[uint32]*snapshot.Engine{},
		streams:   map[uint32]*stream.Engine{},
	}
	for _, opt := range opts {
		opt(n)
	}
	n.out = newOutbox(n.logger.Named("outbox"), transport, n.queueSize)
	return n
}

// Self is the id of the local peer.
func (n *Node) Self() p2p.Peer {
	return n.transport.Self()
}

// Peers orders peers by responsiveness for recovery and catch-up requests.
func (n *Node) Peers() *peers.Peers {
	return n.peers
}

func (n *Node) registered(id uint32) bool {
	_, isWindow := n.windows[id]
	_, isStream := n.streams[id]
	return isWindow || isStream
}

// AddWindow registers and starts a window. With an archive, the history of the window is
// restored and every byte added to it later is archived. Handlers are called with the node
// locked and must not call back into it.
func (n *Node) AddWindow(ctx context.Context, w Window, handler snapshot.Handler) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.registered(w.ID) {
		return fmt.Errorf("%w: %d", ErrDuplicateInstance, w.ID)
	}
	opts := []snapshot.Opt{
		snapshot.WithLogger(n.logger.Named("snapshot")),
		snapshot.WithClock(n.clock),
		snapshot.WithRecovery(recovery.WithPeers(n.peers)),
	}
	if n.archive != nil {
		meta := archive.Meta{Capacity: uint32(w.Capacity), EntrySize: uint32(w.EntrySize)}
		if err := n.archive.SetMeta(w.ID, meta); err != nil {
			return err
		}
		history, err := n.archive.Load(w.ID)
		if err != nil {
			return err
		}
		opts = append(opts, snapshot.WithCache(history))
	}
	opts = append(opts, n.snapshotOpts...)
	n.roster.set(w.ID, w.Authority)
	engine, err := snapshot.New(w.ID, w.Capacity, n.out, n.roster, n.out, handler, opts...)
	if err != nil {
		n.roster.remove(w.ID)
		return fmt.Errorf("window %d: %w", w.ID, err)
	}
	n.windows[w.ID] = engine
	engine.Start(ctx)
	n.logger.Info("window registered",
		zap.Uint32("instance", w.ID),
		zap.Int("capacity", w.Capacity),
		zap.Stringer("authority", n.roster.Authority(w.ID)),
	)
	return nil
}

// AddStream registers a stream. Authority NoPeer means the local node.
func (n *Node) AddStream(id uint32, authority p2p.Peer, handler stream.Handler) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.registered(id) {
		return fmt.Errorf("%w: %d", ErrDuplicateInstance, id)
	}
	opts := append([]stream.Opt{
		stream.WithLogger(n.logger.Named("stream")),
		stream.WithClock(n.clock),
		stream.WithPeers(n.peers),
	}, n.streamOpts...)
	n.roster.set(id, authority)
	n.streams[id] = stream.New(id, n.out, n.roster, n.out, handler, opts...)
	n.logger.Info("stream registered",
		zap.Uint32("instance", id),
		zap.Stringer("authority", n.roster.Authority(id)),
	)
	return nil
}

// Unregister stops an instance. It issues no further requests and messages addressed to
// it are dropped.
func (n *Node) Unregister(id uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if engine, exist := n.windows[id]; exist {
		engine.Close()
		delete(n.windows, id)
	} else if engine, exist := n.streams[id]; exist {
		engine.Close()
		delete(n.streams, id)
	} else {
		return fmt.Errorf("%w: %d", ErrUnknownInstance, id)
	}
	n.roster.remove(id)
	n.logger.Info("instance unregistered", zap.Uint32("instance", id))
	return nil
}

// Close stops every instance.
func (n *Node) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, engine := range n.windows {
		engine.Close()
		delete(n.windows, id)
	}
	for id, engine := range n.streams {
		engine.Close()
		delete(n.streams, id)
	}
}

// AddData appends data to a window the local node is the authority of.
func (n *Node) AddData(id uint32, data []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	engine, exist := n.windows[id]
	if !exist {
		return fmt.Errorf("%w: window %d", ErrUnknownInstance, id)
	}
	return engine.AddData(data)
}

// AddEntries encodes entries and appends them to a window.
func AddEntries[T any, P entry.Ptr[T]](n *Node, id uint32, entries ...T) error {
	data, err := entry.Join[T, P](nil, entries)
	if err != nil {
		return err
	}
	return n.AddData(id, data)
}

// Append emits data on a stream.
func (n *Node) Append(ctx context.Context, id uint32, data []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	engine, exist := n.streams[id]
	if !exist {
		return fmt.Errorf("%w: stream %d", ErrUnknownInstance, id)
	}
	return engine.Append(ctx, data)
}

// WindowState is a summary of a window.
type WindowState struct {
	State        snapshot.State
	TotalWritten int32
	Outstanding  int
	Lost         int
}

// Window returns a summary of a registered window.
func (n *Node) Window(id uint32) (WindowState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	engine, exist := n.windows[id]
	if !exist {
		return WindowState{}, fmt.Errorf("%w: window %d", ErrUnknownInstance, id)
	}
	return WindowState{
		State:        engine.State(),
		TotalWritten: engine.Header().TotalWritten,
		Outstanding:  len(engine.Outstanding()),
		Lost:         len(engine.Lost()),
	}, nil
}

// StreamState is a summary of a stream.
type StreamState struct {
	Status stream.Status
	Total  uint64
}

// Stream returns a summary of a registered stream.
func (n *Node) Stream(id uint32) (StreamState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	engine, exist := n.streams[id]
	if !exist {
		return StreamState{}, fmt.Errorf("%w: stream %d", ErrUnknownInstance, id)
	}
	return StreamState{Status: engine.Status(), Total: engine.Total()}, nil
}

// Run serves messages from peers, delivers queued messages and ticks every instance
// until ctx is canceled.
func (n *Node) Run(ctx context.Context) error {
	n.logger.Info("node started",
		zap.Stringer("self", n.Self()),
		zap.Duration("tick", n.interval),
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := n.transport.Serve(ctx, n.handle); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		return n.out.run(ctx)
	})
	eg.Go(func() error {
		ticker := n.clock.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.Chan():
				n.Tick(ctx)
			}
		}
	})
	return eg.Wait()
}

// Tick refreshes the connected peers and ticks every instance in id order.
func (n *Node) Tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		tickDuration.Observe(time.Since(start).Seconds())
	}()
	n.refreshPeers()

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range slices.Sorted(maps.Keys(n.windows)) {
		n.windows[id].Tick(ctx)
	}
	for _, id := range slices.Sorted(maps.Keys(n.streams)) {
		n.streams[id].Tick(ctx)
	}
}

func (n *Node) refreshPeers() {
	current := n.transport.Peers()
	for _, p := range current {
		if n.peers.Add(p) {
			n.logger.Debug("peer connected", zap.Stringer("peer", p))
		}
	}
	for _, p := range n.peers.List() {
		if !slices.Contains(current, p) {
			n.peers.Delete(p)
			n.out.drop(p)
			n.logger.Debug("peer disconnected", zap.Stringer("peer", p))
		}
	}
	connected.Set(float64(len(current)))
}

// handle decodes a message from a peer and passes it to the engine of its instance.
func (n *Node) handle(ctx context.Context, from p2p.Peer, buf []byte) error {
	var msg wire.Message
	if err := codec.Decode(buf, &msg); err != nil {
		droppedMalformed.Inc()
		return fmt.Errorf("decode message from %s: %w", from, err)
	}
	received.WithLabelValues(msg.Kind.String()).Inc()
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.dispatch(ctx, from, &msg)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownInstance):
		droppedUnknown.Inc()
		n.logger.Debug("message for unknown instance",
			zap.Stringer("peer", from),
			zap.Object("msg", &msg),
		)
	case errors.Is(err, snapshot.ErrStale):
		droppedRejected.Inc()
		n.logger.Debug("stale snapshot", zap.Stringer("peer", from), zap.Error(err))
	case errors.Is(err, recovery.ErrLengthMismatch):
		droppedRejected.Inc()
		n.logger.Error("protocol violation",
			zap.Stringer("peer", from),
			zap.Object("msg", &msg),
			zap.Error(err),
		)
	default:
		droppedRejected.Inc()
		n.logger.Warn("message rejected",
			zap.Stringer("peer", from),
			zap.Object("msg", &msg),
			zap.Error(err),
		)
	}
	return err
}

func (n *Node) dispatch(ctx context.Context, from p2p.Peer, msg *wire.Message) error {
	id := msg.Key.Instance
	w, isWindow := n.windows[id]
	s, isStream := n.streams[id]
	if !isWindow && !isStream {
		return fmt.Errorf("%w: %d", ErrUnknownInstance, id)
	}
	switch msg.Kind {
	case wire.KindSnapshot:
		if isWindow {
			return w.HandleSnapshot(from, msg.Payload)
		}
		return s.Handle(ctx, from, msg)
	case wire.KindRecoveryRequest, wire.KindRecoveryData, wire.KindRecoveryUnavailable, wire.KindRecoveryProgress:
		if !isWindow {
			return fmt.Errorf("%s for stream %d", msg.Kind, id)
		}
		return w.HandleRecovery(ctx, from, msg)
	case wire.KindCatchUpRequest, wire.KindCatchUpConfirm, wire.KindCatchUpData,
		wire.KindCatchUpUnavailable, wire.KindStreamChunk, wire.KindStreamAppend:
		if !isStream {
			return fmt.Errorf("%s for window %d", msg.Kind, id)
		}
		return s.Handle(ctx, from, msg)
	}
	return fmt.Errorf("unknown message kind %s", msg.Kind)
}
