// Package cmd is the base package for the executables of ringsync.
package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ringsync/go-ringsync/config"
	"github.com/ringsync/go-ringsync/config/presets"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Branch is the git branch used to build the App. Designed to be overwritten by make.
	Branch string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// AddFlags adds node flags to the flag set. Flags write directly into cfg, so they must be
// parsed again after the config file was loaded into cfg. The returned value is the path
// of the config file.
func AddFlags(flagSet *pflag.FlagSet, cfg *config.Config) (configPath *string) {
	configPath = flagSet.StringP("config", "c", "", "load configuration from file")
	flagSet.StringVarP(&cfg.Preset, "preset", "p", cfg.Preset,
		fmt.Sprintf("preset overwrites default values of the config. options %+s", presets.Options()))

	/** ======================== BaseConfig Flags ========================== **/
	flagSet.StringVarP(&cfg.DataDirParent, "data-folder", "d",
		cfg.DataDirParent, "specify data directory for ringsync")
	flagSet.DurationVar(&cfg.TickInterval, "tick-interval",
		cfg.TickInterval, "interval between ticks of windows and streams")
	flagSet.BoolVar(&cfg.Archive, "archive",
		cfg.Archive, "keep the history of windows in the data directory")
	flagSet.StringVar(&cfg.MetricsListen, "metrics-listen",
		cfg.MetricsListen, "address of the prometheus endpoint, disabled if empty")
	flagSet.StringVar(&cfg.MetricsPush.URL, "metrics-push",
		cfg.MetricsPush.URL, "push metrics to url")
	flagSet.DurationVar(&cfg.MetricsPush.Period, "metrics-push-period",
		cfg.MetricsPush.Period, "push period")
	flagSet.BoolVar(&cfg.DemoWriter, "demo-writer",
		cfg.DemoWriter, "append game events to every window and stream this node is the authority of")
	flagSet.DurationVar(&cfg.DemoInterval, "demo-interval",
		cfg.DemoInterval, "interval between game events of the demo writer")

	/** ======================== P2P Flags ========================== **/
	flagSet.StringSliceVar(&cfg.P2P.Listen, "listen",
		cfg.P2P.Listen, "multiaddrs to listen on")
	flagSet.StringSliceVar(&cfg.P2P.Bootnodes, "bootnodes",
		cfg.P2P.Bootnodes, "multiaddrs of peers that are dialed on start")
	flagSet.BoolVar(&cfg.P2P.Flood, "flood",
		cfg.P2P.Flood, "flood created messages to all peers")
	flagSet.IntVar(&cfg.P2P.LowPeers, "low-peers",
		cfg.P2P.LowPeers, "low watermark for the number of connections")
	flagSet.IntVar(&cfg.P2P.HighPeers, "high-peers",
		cfg.P2P.HighPeers, "high watermark for the number of connections")
	flagSet.IntVar(&cfg.P2P.MaxPeers, "max-peers",
		cfg.P2P.MaxPeers, "maximal number of connections")
	flagSet.DurationVar(&cfg.P2P.RequestTimeout, "request-timeout",
		cfg.P2P.RequestTimeout, "timeout of point-to-point messages")
	flagSet.BoolVar(&cfg.P2P.DisableDHT, "disable-dht",
		cfg.P2P.DisableDHT, "connect to bootnodes only, without peer discovery")
	flagSet.BoolVar(&cfg.P2P.PrivateNetwork, "private-network",
		cfg.P2P.PrivateNetwork, "discover peers with private addresses")
	flagSet.StringVar(&cfg.P2P.LogLevel, "p2p-log-level",
		cfg.P2P.LogLevel, "log level of libp2p")

	/** ======================== Recovery and Stream Flags ========================== **/
	flagSet.DurationVar(&cfg.Recovery.RetryInterval, "retry-interval",
		cfg.Recovery.RetryInterval, "how long a peer gets to serve a lost range")
	flagSet.DurationVar(&cfg.Stream.CatchUpWait, "catchup-wait",
		cfg.Stream.CatchUpWait, "how long a peer gets to serve the history of a stream")

	/** ======================== Logging Flags ========================== **/
	flagSet.StringVar(&cfg.LOGGING.Encoder, "log-encoder",
		cfg.LOGGING.Encoder, "log encoder, console or json")
	flagSet.StringVar(&cfg.LOGGING.AppLoggerLevel, "log-level",
		cfg.LOGGING.AppLoggerLevel, "log level of the node")
	return configPath
}
