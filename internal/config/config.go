// Package config loads oscctl settings from defaults, an optional YAML file,
// OSCCTL_* environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/chabad360/oscwire/internal/logger"
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so listen.addr is
// read from OSCCTL_LISTEN_ADDR.
const EnvPrefix = "OSCCTL"

const configFlag = "config"

// Config holds every setting of oscctl.
type Config struct {
	Listen  ListenConfig  `mapstructure:"listen"`
	Send    SendConfig    `mapstructure:"send"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     logger.Config `mapstructure:"log"`
}

// ListenConfig configures the UDP server.
type ListenConfig struct {
	Addr        string        `mapstructure:"addr"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// SendConfig configures the UDP client.
type SendConfig struct {
	Addr string `mapstructure:"addr"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the built in settings.
func Default() Config {
	return Config{
		Listen:  ListenConfig{Addr: "127.0.0.1:8765"},
		Send:    SendConfig{Addr: "127.0.0.1:8765"},
		Metrics: MetricsConfig{Addr: ""},
		Log:     logger.DefaultConfig(),
	}
}

// defaults maps every setting key to its built in value.
func defaults() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"listen.addr":         d.Listen.Addr,
		"listen.read_timeout": d.Listen.ReadTimeout,
		"send.addr":           d.Send.Addr,
		"metrics.addr":        d.Metrics.Addr,
		"log.level":           string(d.Log.Level),
		"log.format":          string(d.Log.Format),
	}
}

// Validate reports settings that can't work.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Listen.Addr == "" {
		return errors.New("listen.addr must not be empty")
	}
	if c.Listen.ReadTimeout < 0 {
		return errors.Newf("listen.read_timeout must not be negative, got %s", c.Listen.ReadTimeout)
	}
	if c.Send.Addr == "" {
		return errors.New("send.addr must not be empty")
	}
	return nil
}

// BindFlags registers a flag for every setting on fs, plus --config.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP(configFlag, "c", "", "path to a YAML config file (env "+EnvPrefix+"_CONFIG)")
	fs.String("listen.addr", d.Listen.Addr, "UDP address to listen on")
	fs.Duration("listen.read_timeout", d.Listen.ReadTimeout, "read deadline per packet, 0 to wait forever")
	fs.String("send.addr", d.Send.Addr, "UDP address to send to")
	fs.String("metrics.addr", d.Metrics.Addr, "HTTP address for /metrics, empty to disable")
	fs.String("log.level", string(d.Log.Level), "log level: debug, info, warn or error")
	fs.String("log.format", string(d.Log.Format), "log format: console or json")
}

// Load resolves the settings. fs must have been set up with BindFlags and
// parsed; flags the user did not set don't override the file or environment.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	path, err := fs.GetString(configFlag)
	if err != nil {
		return nil, errors.Wrap(err, "config flag")
	}
	if !fs.Changed(configFlag) {
		if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
			path = env
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	for key := range defaults() {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", key)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}
