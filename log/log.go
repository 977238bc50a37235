// Package log builds the zap loggers of a ringsync node. Every module gets a named logger
// whose level is read from the logging config and can be changed while the node runs.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ringsync/go-ringsync/config"
)

// Module names, they match the keys of the logging config.
const (
	AppLogger      = "app"
	P2PLogger      = "p2p"
	SnapshotLogger = "snapshot"
	RecoveryLogger = "recovery"
	StreamLogger   = "stream"
	ArchiveLogger  = "archive"
)

// DefaultLevel is used for modules without a configured level.
const DefaultLevel = zapcore.InfoLevel

type Opt func(*Loggers)

// WithWriter sets where logs are written. Stdout by default.
func WithWriter(w io.Writer) Opt {
	return func(l *Loggers) {
		l.writer = w
	}
}

// WithFields adds fields to every logger.
func WithFields(fields ...zap.Field) Opt {
	return func(l *Loggers) {
		l.fields = append(l.fields, fields...)
	}
}

// Loggers creates module loggers that share an encoder and an output.
type Loggers struct {
	writer  io.Writer
	fields  []zap.Field
	encoder config.LogEncoder
	config  map[string]string

	mu     sync.Mutex
	levels map[string]*zap.AtomicLevel
}

// New validates the config and prepares module loggers.
func New(cfg config.LoggerConfig, opts ...Opt) (*Loggers, error) {
	l := &Loggers{
		writer:  os.Stdout,
		encoder: cfg.Encoder,
		levels:  map[string]*zap.AtomicLevel{},
	}
	for _, opt := range opts {
		opt(l)
	}
	switch l.encoder {
	case "", config.ConsoleLogEncoder, config.JSONLogEncoder:
	default:
		return nil, fmt.Errorf("unknown log encoder %q", cfg.Encoder)
	}
	if err := mapstructure.Decode(cfg, &l.config); err != nil {
		return nil, fmt.Errorf("decode logging config: %w", err)
	}
	delete(l.config, "log-encoder")
	for name, level := range l.config {
		if level == "" {
			continue
		}
		if _, err := zapcore.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("logger %s: %w", name, err)
		}
	}
	return l, nil
}

func (l *Loggers) newEncoder() zapcore.Encoder {
	if l.encoder == config.JSONLogEncoder {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
}

// Named returns the logger of a module. Loggers of the same module share a level.
func (l *Loggers) Named(name string) *zap.Logger {
	l.mu.Lock()
	lvl, exist := l.levels[name]
	if !exist {
		level := zap.NewAtomicLevelAt(DefaultLevel)
		if text := l.config[name]; text != "" {
			// validated in New
			_ = level.UnmarshalText([]byte(text))
		}
		lvl = &level
		l.levels[name] = lvl
	}
	l.mu.Unlock()
	core := zapcore.NewCore(l.newEncoder(), zapcore.AddSync(l.writer), lvl)
	return zap.New(core).Named(name).With(l.fields...)
}

// Level returns the current level of a module. Modules that were never requested log at
// the default level.
func (l *Loggers) Level(name string) zapcore.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lvl, exist := l.levels[name]; exist {
		return lvl.Level()
	}
	return DefaultLevel
}

// SetLevel updates the level of an existing module logger.
func (l *Loggers) SetLevel(name, level string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	lvl, exist := l.levels[name]
	if !exist {
		return fmt.Errorf("cannot find logger %v", name)
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("unmarshal text: %w", err)
	}
	return nil
}
