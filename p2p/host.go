package p2p

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	lp2plog "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/transport"
	"github.com/libp2p/go-libp2p/p2p/host/peerstore/pstoremem"
	lp2pyamux "github.com/libp2p/go-libp2p/p2p/muxer/yamux"
	"github.com/libp2p/go-libp2p/p2p/net/connmgr"
	"github.com/libp2p/go-libp2p/p2p/security/noise"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"
	"github.com/libp2p/go-yamux/v4"
	"github.com/multiformats/go-multiaddr"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/ringsync/go-ringsync/p2p/discovery"
)

const (
	// ProtocolID of point-to-point messages.
	ProtocolID = "/ringsync/msg/1"
	// Topic of broadcast messages.
	Topic = "ringsync/1"

	keyFilename = "p2p.key"
	dhtDirname  = "p2p-dht"
)

// DefaultConfig config.
func DefaultConfig() Config {
	return Config{
		Listen:             []string{"/ip4/0.0.0.0/tcp/7613"},
		LowPeers:           20,
		HighPeers:          50,
		MaxPeers:           60,
		GracePeersShutdown: 30 * time.Second,
		Flood:              true,
		MaxMessageSize:     2 << 20,
		RequestTimeout:     10 * time.Second,
		RequestSizeLimit:   64 << 20,
		RequestsPerSecond:  1000,
		BootstrapInterval:  10 * time.Second,
		MaxIncomingStreams: 1000,
	}
}

// Config for all things related to p2p layer.
type Config struct {
	DataDir            string        `mapstructure:"-"`
	LogLevel           string        `mapstructure:"log-level"`
	Listen             []string      `mapstructure:"listen"`
	Bootnodes          []string      `mapstructure:"bootnodes"`
	LowPeers           int           `mapstructure:"low-peers"`
	HighPeers          int           `mapstructure:"high-peers"`
	MaxPeers           int           `mapstructure:"max-peers"`
	GracePeersShutdown time.Duration `mapstructure:"grace-peers-shutdown"`
	DisableReusePort   bool          `mapstructure:"disable-reuseport"`
	Flood              bool          `mapstructure:"flood"`
	MaxMessageSize     int           `mapstructure:"max-message-size"`
	RequestTimeout     time.Duration `mapstructure:"request-timeout"`
	RequestSizeLimit   int           `mapstructure:"request-size-limit"`
	RequestsPerSecond  int           `mapstructure:"requests-per-second"`
	BootstrapInterval  time.Duration `mapstructure:"bootstrap-interval"`
	MaxIncomingStreams int           `mapstructure:"max-incoming-streams"`
	// DisableDHT keeps the host connected to bootnodes only.
	DisableDHT bool `mapstructure:"disable-dht"`
	// PrivateNetwork admits dht peers with private addresses.
	PrivateNetwork bool `mapstructure:"private-network"`
}

// New initializes libp2p host configured for ringsync.
func New(ctx context.Context, logger *zap.Logger, cfg Config, opts ...Opt) (*Host, error) {
	logger.Info("starting libp2p host", zap.Strings("listen", cfg.Listen), zap.Strings("bootnodes", cfg.Bootnodes))
	key, err := EnsureIdentity(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	lp2plog.SetPrimaryCore(logger.Core())
	if cfg.LogLevel != "" {
		if err := lp2plog.SetLogLevelRegex(".*", cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("p2p log level %q: %w", cfg.LogLevel, err)
		}
	}
	bootnodes, err := ParseBootnodes(cfg.Bootnodes)
	if err != nil {
		return nil, err
	}
	cm, err := connmgr.NewConnManager(cfg.LowPeers, cfg.HighPeers, connmgr.WithGracePeriod(cfg.GracePeersShutdown))
	if err != nil {
		return nil, fmt.Errorf("p2p create conn mgr: %w", err)
	}
	for _, info := range bootnodes {
		cm.Protect(info.ID, "bootnode")
	}
	ps, err := pstoremem.NewPeerstore()
	if err != nil {
		return nil, fmt.Errorf("can't create peer store: %w", err)
	}
	g := newGater(cfg.MaxPeers, bootnodes)
	streamer := yamux.DefaultConfig()
	streamer.LogOutput = io.Discard
	if cfg.MaxIncomingStreams > 0 {
		streamer.MaxIncomingStreams = uint32(cfg.MaxIncomingStreams)
	}
	h, err := libp2p.New(
		libp2p.Identity(key),
		libp2p.ListenAddrStrings(cfg.Listen...),
		libp2p.UserAgent("go-ringsync"),
		libp2p.Transport(func(upgrader transport.Upgrader, rcmgr network.ResourceManager) (transport.Transport, error) {
			opts := []tcp.Option{}
			if cfg.DisableReusePort {
				opts = append(opts, tcp.DisableReuseport())
			}
			return tcp.NewTCPTransport(upgrader, rcmgr, opts...)
		}),
		libp2p.Security(noise.ID, noise.New),
		libp2p.Muxer(lp2pyamux.ID, (*lp2pyamux.Transport)(streamer)),
		libp2p.ConnectionManager(cm),
		libp2p.ConnectionGater(g),
		libp2p.Peerstore(ps),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize libp2p host: %w", err)
	}
	g.h = h
	h.Network().Notify(connectionsMeter{})
	logger.Info("local node identity", zap.Stringer("identity", h.ID()))
	opts = append([]Opt{WithConfig(cfg), WithLogger(logger), WithBootnodes(bootnodes)}, opts...)
	if !cfg.DisableDHT {
		disc, err := newDiscovery(h, logger.Named("discovery"), cfg, bootnodes)
		if err != nil {
			h.Close()
			return nil, err
		}
		opts = append(opts, WithDiscovery(disc))
	}
	return Upgrade(ctx, h, opts...)
}

func newDiscovery(h host.Host, logger *zap.Logger, cfg Config, bootnodes []peer.AddrInfo) (*discovery.Discovery, error) {
	dopts := []discovery.Opt{
		discovery.WithLogger(logger),
		discovery.WithBootnodes(bootnodes),
		discovery.WithMinPeers(cfg.LowPeers),
		discovery.WithHighPeers(cfg.HighPeers),
		discovery.EnableRoutingDiscovery(),
	}
	if cfg.BootstrapInterval > 0 {
		dopts = append(dopts, discovery.WithPeriod(cfg.BootstrapInterval))
	}
	if cfg.DataDir != "" {
		dopts = append(dopts, discovery.WithDir(filepath.Join(cfg.DataDir, dhtDirname)))
	}
	if cfg.PrivateNetwork {
		dopts = append(dopts, discovery.Private())
	}
	disc, err := discovery.New(h, dopts...)
	if err != nil {
		return nil, fmt.Errorf("p2p discovery: %w", err)
	}
	return disc, nil
}

// ParseBootnodes parses multiaddrs with a /p2p component.
func ParseBootnodes(addrs []string) ([]peer.AddrInfo, error) {
	infos := make([]peer.AddrInfo, 0, len(addrs))
	for _, addr := range addrs {
		ma, err := multiaddr.NewMultiaddr(addr)
		if err != nil {
			return nil, fmt.Errorf("parse bootnode %s: %w", addr, err)
		}
		info, err := peer.AddrInfoFromP2pAddr(ma)
		if err != nil {
			return nil, fmt.Errorf("parse into peer.AddrInfo %s: %w", addr, err)
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// EnsureIdentity loads the identity key from dir, or generates and persists a new one.
// With an empty dir the identity is ephemeral.
func EnsureIdentity(dir string) (crypto.PrivKey, error) {
	if dir == "" {
		key, _, err := crypto.GenerateEd25519Key(nil)
		if err != nil {
			return nil, fmt.Errorf("generate identity: %w", err)
		}
		return key, nil
	}
	path := filepath.Join(dir, keyFilename)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		key, err := crypto.UnmarshalPrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal identity %s: %w", path, err)
		}
		return key, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read identity %s: %w", path, err)
	}
	key, _, err := crypto.GenerateEd25519Key(nil)
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}
	data, err = crypto.MarshalPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal identity: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("write identity %s: %w", path, err)
	}
	return key, nil
}
