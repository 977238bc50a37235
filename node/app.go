package node

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ringsync/go-ringsync/archive"
	"github.com/ringsync/go-ringsync/config"
	"github.com/ringsync/go-ringsync/log"
	"github.com/ringsync/go-ringsync/metrics"
	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/snapshot"
	"github.com/ringsync/go-ringsync/stream"
)

const demoPlayers = 4

// App is a ringsync node running on libp2p with the instances of its config.
type App struct {
	Config  *config.Config
	loggers *log.Loggers
	log     *zap.Logger

	fileLock *flock.Flock
	archive  *archive.Archive
	host     *p2p.Host
	node     *Node
}

// NewApp creates an app for the config. Nothing is started before Initialize.
func NewApp(conf *config.Config, opts ...log.Opt) (*App, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	loggers, err := log.New(conf.LOGGING, opts...)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  conf,
		loggers: loggers,
		log:     loggers.Named(log.AppLogger),
	}, nil
}

// Lock locks the data directory for exclusive use. It returns an error if another node
// holds the lock.
func (app *App) Lock() error {
	lockDir := filepath.Dir(app.Config.FileLock())
	if _, err := os.Stat(lockDir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(lockDir, 0o700); err != nil {
			return fmt.Errorf("creating dir %s for lock %s: %w", lockDir, app.Config.FileLock(), err)
		}
	}
	fl := flock.New(app.Config.FileLock())
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("flock %s: %w", app.Config.FileLock(), err)
	} else if !locked {
		return fmt.Errorf("only one ringsync node should be running (locking file %s)", fl.Path())
	}
	app.fileLock = fl
	return nil
}

// Unlock unlocks the data directory. It is a no-op if the app is not locked.
func (app *App) Unlock() {
	if app.fileLock == nil {
		return
	}
	if err := app.fileLock.Unlock(); err != nil {
		app.log.Error("failed to unlock file",
			zap.String("path", app.fileLock.Path()),
			zap.Error(err),
		)
	}
}

// Initialize opens the archive, creates the libp2p host and registers the configured
// windows and streams.
func (app *App) Initialize(ctx context.Context) error {
	var err error
	if app.Config.Archive {
		app.archive, err = archive.Open(app.Config.ArchiveDir(),
			archive.WithLogger(app.loggers.Named(log.ArchiveLogger)),
		)
		if err != nil {
			return err
		}
	}
	p2pconf := app.Config.P2P
	p2pconf.DataDir = app.Config.DataDir()
	app.host, err = p2p.New(ctx, app.loggers.Named(log.P2PLogger), p2pconf)
	if err != nil {
		return fmt.Errorf("create p2p host: %w", err)
	}
	return app.initNode(ctx, app.host)
}

func (app *App) initNode(ctx context.Context, transport Transport) error {
	opts := []Opt{
		WithLogger(app.log),
		WithTickInterval(app.Config.TickInterval),
		WithSnapshotOpts(
			snapshot.WithLogger(app.loggers.Named(log.SnapshotLogger)),
			snapshot.WithRebroadcastInterval(app.Config.Recovery.RebroadcastInterval),
			snapshot.WithRecovery(
				recovery.WithLogger(app.loggers.Named(log.RecoveryLogger)),
				recovery.WithRetryInterval(app.Config.Recovery.RetryInterval),
			),
		),
		WithStreamOpts(
			stream.WithLogger(app.loggers.Named(log.StreamLogger)),
			stream.WithCatchUpWait(app.Config.Stream.CatchUpWait),
			stream.WithRebroadcastInterval(app.Config.Stream.RebroadcastInterval),
		),
	}
	if app.archive != nil {
		opts = append(opts, WithArchive(app.archive))
	}
	app.node = New(transport, opts...)
	for _, w := range app.Config.Windows {
		authority, err := parseAuthority(w.Authority)
		if err != nil {
			return fmt.Errorf("window %d: %w", w.ID, err)
		}
		handler := windowHandler(app.log.With(zap.Uint32("instance", w.ID)), w.EntrySize)
		window := Window{ID: w.ID, Capacity: w.Capacity, EntrySize: w.EntrySize, Authority: authority}
		if err := app.node.AddWindow(ctx, window, handler); err != nil {
			return err
		}
	}
	for _, s := range app.Config.Streams {
		authority, err := parseAuthority(s.Authority)
		if err != nil {
			return fmt.Errorf("stream %d: %w", s.ID, err)
		}
		handler := &streamLog{logger: app.log.With(zap.Uint32("instance", s.ID))}
		if err := app.node.AddStream(s.ID, authority, handler); err != nil {
			return err
		}
	}
	return nil
}

func parseAuthority(authority string) (p2p.Peer, error) {
	if authority == "" {
		return p2p.NoPeer, nil
	}
	id, err := peer.Decode(authority)
	if err != nil {
		return p2p.NoPeer, fmt.Errorf("parse authority %q: %w", authority, err)
	}
	return id, nil
}

// Start runs the node until ctx is canceled or one of the services fails.
func (app *App) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return app.node.Run(ctx)
	})
	if app.Config.MetricsListen != "" {
		eg.Go(func() error {
			return metrics.Serve(ctx, app.log, app.Config.MetricsListen)
		})
	}
	if app.Config.MetricsPush.URL != "" && app.Config.MetricsPush.Period > 0 {
		eg.Go(func() error {
			metrics.Push(ctx, app.log, app.Config.MetricsPush, app.node.Self().String())
			return nil
		})
	}
	if app.Config.DemoWriter {
		eg.Go(func() error {
			app.demo(ctx)
			return nil
		})
	}
	return eg.Wait()
}

// demo appends a game event to every authoritative window and stream on each interval.
func (app *App) demo(ctx context.Context) {
	ticker := time.NewTicker(app.Config.DemoInterval)
	defer ticker.Stop()
	var seq uint32
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ev := nextEvent(seq, demoPlayers, uint32(now.UnixMilli()))
			seq++
			app.writeDemo(ctx, ev)
		}
	}
}

func (app *App) writeDemo(ctx context.Context, ev GameEvent) {
	for _, w := range app.Config.Windows {
		if w.Authority != "" || w.EntrySize != GameEventSize {
			continue
		}
		if err := AddEntries(app.node, w.ID, ev); err != nil {
			app.log.Warn("demo writer failed", zap.Uint32("instance", w.ID), zap.Error(err))
		}
	}
	data := ev.AppendEntry(nil)
	for _, s := range app.Config.Streams {
		if s.Authority != "" {
			continue
		}
		if err := app.node.Append(ctx, s.ID, data); err != nil {
			app.log.Warn("demo writer failed", zap.Uint32("instance", s.ID), zap.Error(err))
		}
	}
}

// Cleanup stops all services.
func (app *App) Cleanup() {
	app.log.Info("app cleanup starting...")
	if app.node != nil {
		app.node.Close()
	}
	if app.host != nil {
		if err := app.host.Stop(); err != nil {
			app.log.Warn("failed to stop p2p host", zap.Error(err))
		}
	}
	if app.archive != nil {
		if err := app.archive.Close(); err != nil {
			app.log.Warn("failed to close archive", zap.Error(err))
		}
	}
	app.log.Info("app cleanup completed")
}
