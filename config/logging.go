package config

import "go.uber.org/zap/zapcore"

// LogEncoder defines a log encoder kind.
type LogEncoder = string

const (
	defaultLoggingLevel = zapcore.InfoLevel
	// ConsoleLogEncoder represents logging with plain text.
	ConsoleLogEncoder LogEncoder = "console"
	// JSONLogEncoder represents logging with JSON.
	JSONLogEncoder LogEncoder = "json"
)

// LoggerConfig holds the logging level for each module.
type LoggerConfig struct {
	Encoder             LogEncoder `mapstructure:"log-encoder"`
	AppLoggerLevel      string     `mapstructure:"app"`
	P2PLoggerLevel      string     `mapstructure:"p2p"`
	SnapshotLoggerLevel string     `mapstructure:"snapshot"`
	RecoveryLoggerLevel string     `mapstructure:"recovery"`
	StreamLoggerLevel   string     `mapstructure:"stream"`
	ArchiveLoggerLevel  string     `mapstructure:"archive"`
}

func defaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder:             ConsoleLogEncoder,
		AppLoggerLevel:      defaultLoggingLevel.String(),
		P2PLoggerLevel:      zapcore.WarnLevel.String(),
		SnapshotLoggerLevel: defaultLoggingLevel.String(),
		RecoveryLoggerLevel: defaultLoggingLevel.String(),
		StreamLoggerLevel:   defaultLoggingLevel.String(),
		ArchiveLoggerLevel:  defaultLoggingLevel.String(),
	}
}
