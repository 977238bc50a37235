// Package config contains ringsync node configuration definitions.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/ringsync/go-ringsync/metrics"
	"github.com/ringsync/go-ringsync/p2p"
	"github.com/ringsync/go-ringsync/recovery"
	"github.com/ringsync/go-ringsync/ring"
	"github.com/ringsync/go-ringsync/snapshot"
	"github.com/ringsync/go-ringsync/stream"
)

const (
	defaultConfigFileName = "./config.toml"
	defaultDataDirName    = "ringsync"
	lockFileName          = "ringsync.lock"
	archiveDirName        = "archive"
)

// Config defines the top level configuration for a ringsync node.
type Config struct {
	BaseConfig `mapstructure:"main"`
	P2P        p2p.Config       `mapstructure:"p2p"`
	Recovery   RecoveryConfig   `mapstructure:"recovery"`
	Stream     StreamConfig     `mapstructure:"stream"`
	LOGGING    LoggerConfig     `mapstructure:"logging"`
	Windows    []WindowConfig   `mapstructure:"windows"`
	Streams    []InstanceConfig `mapstructure:"streams"`
}

// BaseConfig defines the default configuration options for ringsync node.
type BaseConfig struct {
	DataDirParent string `mapstructure:"data-folder"`
	ConfigFile    string `mapstructure:"config"`
	Preset        string `mapstructure:"preset"`

	TickInterval time.Duration `mapstructure:"tick-interval"`
	// Archive keeps the history of windows in the data folder.
	Archive bool `mapstructure:"archive"`

	MetricsListen string             `mapstructure:"metrics-listen"`
	MetricsPush   metrics.PushConfig `mapstructure:"metrics-push"`

	DemoWriter   bool          `mapstructure:"demo-writer"`
	DemoInterval time.Duration `mapstructure:"demo-interval"`
}

// DataDir returns the path to use for the node's data.
func (cfg *BaseConfig) DataDir() string {
	return filepath.Clean(cfg.DataDirParent)
}

// FileLock is the path of the lock that guards the data folder.
func (cfg *BaseConfig) FileLock() string {
	return filepath.Join(cfg.DataDir(), lockFileName)
}

// ArchiveDir is the path of the history archive.
func (cfg *BaseConfig) ArchiveDir() string {
	return filepath.Join(cfg.DataDir(), archiveDirName)
}

// RecoveryConfig configures recovery of lost window ranges.
type RecoveryConfig struct {
	RetryInterval       time.Duration `mapstructure:"retry-interval"`
	RebroadcastInterval time.Duration `mapstructure:"rebroadcast-interval"`
}

// StreamConfig configures the late-joiner handshake of streams.
type StreamConfig struct {
	CatchUpWait         time.Duration `mapstructure:"catchup-wait"`
	RebroadcastInterval time.Duration `mapstructure:"rebroadcast-interval"`
}

// InstanceConfig identifies a stream and its write authority.
type InstanceConfig struct {
	ID uint32 `mapstructure:"id"`
	// Authority is the peer id of the writer. Empty means the local node.
	Authority string `mapstructure:"authority"`
}

// WindowConfig describes a replicated window.
type WindowConfig struct {
	InstanceConfig `mapstructure:",squash"`
	Capacity       int `mapstructure:"capacity"`
	// EntrySize is recorded in the archive to decode exported histories.
	EntrySize int `mapstructure:"entry-size"`
}

// DefaultConfig returns the default configuration for a ringsync node.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		P2P:        p2p.DefaultConfig(),
		Recovery: RecoveryConfig{
			RetryInterval:       recovery.DefaultRetryInterval,
			RebroadcastInterval: snapshot.DefaultRebroadcastInterval,
		},
		Stream: StreamConfig{
			CatchUpWait:         stream.DefaultCatchUpWait,
			RebroadcastInterval: stream.DefaultRebroadcastInterval,
		},
		LOGGING: defaultLoggingConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	return BaseConfig{
		DataDirParent: filepath.Join(".", defaultDataDirName),
		ConfigFile:    defaultConfigFileName,
		TickInterval:  100 * time.Millisecond,
		Archive:       true,
		DemoInterval:  time.Second,
	}
}

// Validate checks values that can't be corrected by defaults.
func (cfg *Config) Validate() error {
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive: %v", cfg.TickInterval)
	}
	seen := map[uint32]struct{}{}
	for _, w := range cfg.Windows {
		if _, exist := seen[w.ID]; exist {
			return fmt.Errorf("duplicate instance %d", w.ID)
		}
		seen[w.ID] = struct{}{}
		if w.Capacity <= 0 || w.Capacity > ring.MaxCapacity {
			return fmt.Errorf("window %d: capacity %d outside of [1, %d]", w.ID, w.Capacity, ring.MaxCapacity)
		}
		if w.EntrySize < 0 {
			return fmt.Errorf("window %d: negative entry size", w.ID)
		}
	}
	for _, s := range cfg.Streams {
		if _, exist := seen[s.ID]; exist {
			return fmt.Errorf("duplicate instance %d", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// LoadConfig reads the config file into viper. A missing file at the default location is
// not an error.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = defaultConfigFileName
	}
	if fileLocation == defaultConfigFileName {
		if _, err := os.Stat(fileLocation); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", fileLocation, err)
	}
	return nil
}

// Load overrides cfg with the values from the file.
func Load(path string, cfg *Config) error {
	v := viper.New()
	if err := LoadConfig(path, v); err != nil {
		return err
	}
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(cfg, viper.DecodeHook(hook), withErrorUnused()); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func withErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}
