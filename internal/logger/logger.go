// Package logger builds the zap logger used by oscctl.
package logger

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log level name.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format selects the encoder.
type Format string

const (
	JSONFormat    Format = "json"
	ConsoleFormat Format = "console"
)

var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
)

// Config is the logging section of the configuration.
type Config struct {
	Level  Level  `mapstructure:"level"`
	Format Format `mapstructure:"format"`
}

// DefaultConfig returns info level console logging.
func DefaultConfig() Config {
	return Config{
		Level:  InfoLevel,
		Format: ConsoleFormat,
	}
}

// Validate checks that Level and Format are known values.
func (c Config) Validate() error {
	if _, err := c.zapLevel(); err != nil {
		return err
	}
	switch c.Format {
	case JSONFormat, ConsoleFormat:
		return nil
	default:
		return errors.Wrapf(ErrInvalidFormat, "%q", c.Format)
	}
}

func (c Config) zapLevel() (zapcore.Level, error) {
	switch c.Level {
	case DebugLevel:
		return zapcore.DebugLevel, nil
	case InfoLevel:
		return zapcore.InfoLevel, nil
	case WarnLevel:
		return zapcore.WarnLevel, nil
	case ErrorLevel:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, errors.Wrapf(ErrInvalidLevel, "%q", c.Level)
	}
}

// Option configures New.
type Option func(*options)

type options struct {
	out  io.Writer
	name string
}

// WithOutput sends log lines to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithName names the logger.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New builds a logger from cfg. Logs go to stderr so they never mix with
// command output on stdout.
func New(cfg Config, opts ...Option) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := cfg.zapLevel()

	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case JSONFormat:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(o.out), level)
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if o.name != "" {
		log = log.Named(o.name)
	}
	return log, nil
}
