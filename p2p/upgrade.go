package p2p

import (
	"context"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ringsync/go-ringsync/p2p/discovery"
	"github.com/ringsync/go-ringsync/p2p/pubsub"
	"github.com/ringsync/go-ringsync/p2p/server"
)

// Handler receives point-to-point and broadcast messages from remote peers.
type Handler func(ctx context.Context, from Peer, msg []byte) error

// Opt is for configuring Host.
type Opt func(fh *Host)

// WithLogger configures logger for Host.
func WithLogger(logger *zap.Logger) Opt {
	return func(fh *Host) {
		fh.logger = logger
	}
}

// WithConfig sets Config for Host.
func WithConfig(cfg Config) Opt {
	return func(fh *Host) {
		fh.cfg = cfg
	}
}

// WithBootnodes sets peers that are dialed on start and redialed when disconnected.
func WithBootnodes(bootnodes []peer.AddrInfo) Opt {
	return func(fh *Host) {
		fh.bootnodes = bootnodes
	}
}

// WithDiscovery keeps the host connected through the dht instead of redialing bootnodes.
func WithDiscovery(disc *discovery.Discovery) Opt {
	return func(fh *Host) {
		fh.discovery = disc
	}
}

// Host is a conveniency wrapper for all p2p related functionality required to run
// a ringsync node.
type Host struct {
	cfg       Config
	logger    *zap.Logger
	bootnodes []peer.AddrInfo
	discovery *discovery.Discovery

	host.Host
	pubsub  *pubsub.PubSub
	server  *server.Server
	handler Handler
}

// Upgrade creates Host instance from host.Host.
func Upgrade(ctx context.Context, h host.Host, opts ...Opt) (*Host, error) {
	fh := &Host{
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
		Host:   h,
	}
	for _, opt := range opts {
		opt(fh)
	}
	var err error
	fh.pubsub, err = pubsub.New(ctx, fh.logger.Named("pubsub"), h, pubsub.Config{
		Flood:          fh.cfg.Flood,
		MaxMessageSize: fh.cfg.MaxMessageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pubsub: %w", err)
	}
	fh.server = server.New(fh, ProtocolID, fh.handle,
		server.WithLogger(fh.logger.Named("server")),
		server.WithTimeout(fh.cfg.RequestTimeout),
		server.WithRequestSizeLimit(fh.cfg.RequestSizeLimit),
		server.WithRequestsPerInterval(fh.cfg.RequestsPerSecond, time.Second),
		server.WithMetrics(),
	)
	return fh, nil
}

// Self is the id of the local peer.
func (fh *Host) Self() Peer {
	return fh.ID()
}

// Peers returns connected peers.
func (fh *Host) Peers() []Peer {
	var rst []Peer
	for _, pid := range fh.Network().Peers() {
		if pid != fh.ID() && fh.Network().Connectedness(pid) == network.Connected {
			rst = append(rst, pid)
		}
	}
	return rst
}

// Send delivers a message to the peer and waits for the acknowledgement.
func (fh *Host) Send(ctx context.Context, pid Peer, msg []byte) error {
	return fh.server.Request(ctx, pid, msg)
}

// Broadcast publishes a message to every peer.
func (fh *Host) Broadcast(ctx context.Context, msg []byte) error {
	return fh.pubsub.Publish(ctx, Topic, msg)
}

// Serve passes messages from remote peers to the handler until the context is canceled.
// Broadcast messages published by this host are not passed.
func (fh *Host) Serve(ctx context.Context, handler Handler) error {
	fh.handler = handler
	err := fh.pubsub.Register(Topic, func(ctx context.Context, from peer.ID, msg []byte) error {
		if from == fh.ID() {
			return nil
		}
		return handler(ctx, from, msg)
	})
	if err != nil {
		return err
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return fh.server.Run(ctx)
	})
	switch {
	case fh.discovery != nil:
		fh.discovery.Start()
		eg.Go(func() error {
			<-ctx.Done()
			fh.discovery.Stop()
			return nil
		})
	case len(fh.bootnodes) > 0:
		eg.Go(func() error {
			fh.bootstrap(ctx)
			return nil
		})
	}
	return eg.Wait()
}

func (fh *Host) handle(ctx context.Context, from peer.ID, msg []byte) error {
	return fh.handler(ctx, from, msg)
}

// bootstrap dials disconnected bootnodes until the context is canceled.
func (fh *Host) bootstrap(ctx context.Context) {
	interval := fh.cfg.BootstrapInterval
	if interval == 0 {
		interval = DefaultConfig().BootstrapInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		for _, info := range fh.bootnodes {
			if info.ID == fh.ID() || fh.Network().Connectedness(info.ID) == network.Connected {
				continue
			}
			dctx, cancel := context.WithTimeout(ctx, interval)
			err := fh.Connect(dctx, info)
			cancel()
			if err != nil {
				fh.logger.Debug("failed to connect to bootnode", zap.Stringer("peer", info.ID), zap.Error(err))
			} else {
				fh.logger.Info("connected to bootnode", zap.Stringer("peer", info.ID))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop closes the libp2p host.
func (fh *Host) Stop() error {
	if err := fh.Host.Close(); err != nil {
		return fmt.Errorf("failed to close libp2p host: %w", err)
	}
	return nil
}
