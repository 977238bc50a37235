// Package discovery keeps a ringsync host connected to enough peers. Bootnodes are dialed
// while the host is below the low watermark, and a kademlia dht advertises the ringsync
// namespace so that peers find each other without listing every member as a bootnode.
package discovery

import (
	"context"
	"fmt"
	"time"

	levelds "github.com/ipfs/go-ds-leveldb"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	record "github.com/libp2p/go-libp2p-record"
	p2pdisc "github.com/libp2p/go-libp2p/core/discovery"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	p2pdiscr "github.com/libp2p/go-libp2p/p2p/discovery/routing"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	discoveryNS       = "ringsync-disc"
	discoveryTag      = "ringsync-disc"
	discoveryTagValue = 1
	protocolPrefix    = "/ringkad"
	// ProtocolID of the dht.
	ProtocolID = protocolPrefix + "/kad/1.0.0"
)

type Opt func(*Discovery)

// WithPeriod sets how often the number of connected peers is checked.
func WithPeriod(period time.Duration) Opt {
	return func(d *Discovery) {
		d.period = period
	}
}

// WithTimeout bounds a round of dials.
func WithTimeout(timeout time.Duration) Opt {
	return func(d *Discovery) {
		d.timeout = timeout
	}
}

func WithBootstrapDuration(bootstrapDuration time.Duration) Opt {
	return func(d *Discovery) {
		d.bootstrapDuration = bootstrapDuration
	}
}

// WithMinPeers sets the number of peers below which bootnodes are dialed.
func WithMinPeers(minPeers int) Opt {
	return func(d *Discovery) {
		d.minPeers = minPeers
	}
}

// WithHighPeers sets the number of peers above which routing discovery is suspended.
func WithHighPeers(peers int) Opt {
	return func(d *Discovery) {
		d.highPeers = peers
	}
}

func WithBootnodes(bootnodes []peer.AddrInfo) Opt {
	return func(d *Discovery) {
		d.bootnodes = bootnodes
	}
}

func WithLogger(logger *zap.Logger) Opt {
	return func(d *Discovery) {
		d.logger = logger
	}
}

func WithMode(mode dht.ModeOpt) Opt {
	return func(d *Discovery) {
		d.mode = mode
	}
}

// Private allows dht peers with private addresses.
func Private() Opt {
	return func(d *Discovery) {
		d.public = false
	}
}

// WithDir stores dht records in the directory. The datastore is in memory if dir is empty.
func WithDir(path string) Opt {
	return func(d *Discovery) {
		d.dir = path
	}
}

// WithAdvertiseInterval sets how often the namespace is advertised again.
func WithAdvertiseInterval(interval time.Duration) Opt {
	return func(d *Discovery) {
		d.advertiseInterval = interval
	}
}

// EnableRoutingDiscovery advertises the namespace and dials peers found in it.
func EnableRoutingDiscovery() Opt {
	return func(d *Discovery) {
		d.enableRoutingDiscovery = true
	}
}

// New creates the dht. It does nothing until Start.
func New(h host.Host, opts ...Opt) (*Discovery, error) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Discovery{
		public:            true,
		mode:              dht.ModeAutoServer,
		logger:            zap.NewNop(),
		ctx:               ctx,
		cancel:            cancel,
		h:                 h,
		period:            10 * time.Second,
		timeout:           30 * time.Second,
		bootstrapDuration: 30 * time.Second,
		advertiseInterval: 10 * time.Second,
		retryDelay:        time.Second,
		minPeers:          20,
		highPeers:         40,
	}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.bootnodes) == 0 {
		d.logger.Warn("no bootnodes in the config")
	}
	if err := d.newDht(ctx); err != nil {
		cancel()
		return nil, err
	}
	return d, nil
}

type Discovery struct {
	public                 bool
	mode                   dht.ModeOpt
	dir                    string
	enableRoutingDiscovery bool

	logger *zap.Logger
	eg     errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	h         host.Host
	dht       *dht.IpfsDHT
	datastore *levelds.Datastore

	// how often to check if we have enough peers
	period            time.Duration
	timeout           time.Duration
	bootstrapDuration time.Duration
	advertiseInterval time.Duration
	retryDelay        time.Duration
	minPeers          int
	highPeers         int
	bootnodes         []peer.AddrInfo
}

// DHT returns the underlying dht.
func (d *Discovery) DHT() *dht.IpfsDHT { return d.dht }

func (d *Discovery) Start() {
	d.eg.Go(d.ensureAtLeastMinPeers)
	if d.enableRoutingDiscovery {
		d.eg.Go(d.discoverPeers)
	}
}

// Stop waits for background work to finish and closes the dht.
func (d *Discovery) Stop() {
	d.cancel()
	if err := d.eg.Wait(); err != nil {
		d.logger.Warn("discovery stopped", zap.Error(err))
	}
	if err := d.dht.Close(); err != nil {
		d.logger.Error("error closing dht", zap.Error(err))
	}
	if err := d.datastore.Close(); err != nil {
		d.logger.Error("error closing level datastore", zap.Error(err))
	}
}

func (d *Discovery) newDht(ctx context.Context) error {
	ds, err := levelds.NewDatastore(d.dir, &levelds.Options{
		Compression: ldbopts.NoCompression,
		Strict:      ldbopts.StrictAll,
	})
	if err != nil {
		return fmt.Errorf("open leveldb at %s: %w", d.dir, err)
	}
	opts := []dht.Option{
		dht.Validator(record.PublicKeyValidator{}),
		dht.Datastore(ds),
		dht.ProtocolPrefix(protocolPrefix),
		dht.Mode(d.mode),
	}
	if d.public {
		opts = append(opts,
			dht.QueryFilter(dht.PublicQueryFilter),
			dht.RoutingTableFilter(dht.PublicRoutingTableFilter),
		)
	}
	kad, err := dht.New(ctx, d.h, opts...)
	if err != nil {
		if err := ds.Close(); err != nil {
			d.logger.Error("error closing level datastore", zap.Error(err))
		}
		return fmt.Errorf("create dht: %w", err)
	}
	d.dht = kad
	d.datastore = ds
	return nil
}

func (d *Discovery) bootstrap() {
	ctx, cancel := context.WithTimeout(d.ctx, d.bootstrapDuration)
	defer cancel()
	if err := d.dht.Bootstrap(ctx); err != nil {
		d.logger.Error("unexpected error from discovery dht", zap.Error(err))
	}
	<-ctx.Done()
}

func (d *Discovery) connect(nodes []peer.AddrInfo) {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()
	var eg errgroup.Group
	for _, boot := range nodes {
		if boot.ID == d.h.ID() {
			continue
		}
		eg.Go(func() error {
			if err := d.h.Connect(ctx, boot); err != nil {
				d.logger.Debug("failed to connect",
					zap.Stringer("address", boot),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	eg.Wait()
}

func (d *Discovery) ensureAtLeastMinPeers() error {
	disconnected := make(chan struct{}, 1)
	disconnected <- struct{}{} // bootstrap immediately on start
	notifiee := &network.NotifyBundle{
		DisconnectedF: func(network.Network, network.Conn) {
			select {
			case disconnected <- struct{}{}:
			default:
			}
		},
	}
	d.h.Network().Notify(notifiee)
	defer d.h.Network().StopNotify(notifiee)
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return nil
		case <-ticker.C:
		case <-disconnected:
		}
		if connected := len(d.h.Network().Peers()); connected >= d.minPeers {
			d.logger.Debug("node is connected with required number of peers. skipping bootstrap",
				zap.Int("required", d.minPeers),
				zap.Int("connected", connected),
			)
			continue
		}
		d.connect(d.bootnodes)
		d.bootstrap()
	}
}

func (d *Discovery) discoverPeers() error {
	disc := p2pdiscr.NewRoutingDiscovery(d.dht)
	peerCh, err := disc.FindPeers(d.ctx, discoveryNS)
	if err != nil {
		return fmt.Errorf("find peers: %w", err)
	}
	readvertise := time.After(d.advertiseInterval)
	for {
		if len(d.h.Network().Peers()) >= d.highPeers {
			select {
			case <-d.ctx.Done():
				return nil
			case <-time.After(d.period):
			}
			continue
		}
		select {
		case <-d.ctx.Done():
			return nil
		case <-readvertise:
			ttl, err := disc.Advertise(d.ctx, discoveryNS, p2pdisc.TTL(d.advertiseInterval))
			if err != nil {
				d.logger.Debug("failed to advertise for discovery", zap.Error(err))
				readvertise = time.After(d.retryDelay)
				continue
			}
			readvertise = time.After(ttl)
		case p, ok := <-peerCh:
			if !ok {
				select {
				case <-d.ctx.Done():
					return nil
				case <-time.After(d.retryDelay):
				}
				peerCh, err = disc.FindPeers(d.ctx, discoveryNS)
				if err != nil {
					return fmt.Errorf("find peers: %w", err)
				}
				continue
			}
			if p.ID == d.h.ID() {
				continue
			}
			if d.h.Network().Connectedness(p.ID) != network.Connected {
				if err := d.h.Connect(d.ctx, p); err != nil {
					d.logger.Debug("error dialing peer", zap.Stringer("peer", p.ID), zap.Error(err))
					continue
				}
			}
			// peers from the namespace are preferred over peers found by other means
			d.h.ConnManager().TagPeer(p.ID, discoveryTag, discoveryTagValue)
			d.logger.Info("found peer via rendezvous", zap.Stringer("peer", p.ID))
		}
	}
}
