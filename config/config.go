// Package config loads registry and incident sink settings from an optional
// file and PUBSUB_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/next-trace/scg-pubsub/pubsub"
)

const envPrefix = "PUBSUB"

// Sink kinds.
const (
	SinkNone     = "none"
	SinkNATS     = "nats"
	SinkKafka    = "kafka"
	SinkRabbitMQ = "rabbitmq"
)

type Config struct {
	ChannelInverter  string        `mapstructure:"channel_inverter"`
	ListeningTimeout time.Duration `mapstructure:"listening_timeout"`
	ReportTimeout    time.Duration `mapstructure:"report_timeout"`

	Sink struct {
		Kind    string   `mapstructure:"kind"`
		URL     string   `mapstructure:"url"`
		Brokers []string `mapstructure:"brokers"`
		Subject string   `mapstructure:"subject"`
	} `mapstructure:"sink"`
}

var ErrUnknownSink = errors.New("config: unknown sink kind")

func defaults(v *viper.Viper) {
	v.SetDefault("channel_inverter", pubsub.DefaultChannelInverter)
	v.SetDefault("listening_timeout", pubsub.DefaultListeningTimeout)
	v.SetDefault("report_timeout", pubsub.DefaultReportTimeout)
	v.SetDefault("sink.kind", SinkNone)
	v.SetDefault("sink.url", "")
	v.SetDefault("sink.brokers", []string{})
	v.SetDefault("sink.subject", "")
}

// Load reads path when it is non-empty, then applies environment overrides
// such as PUBSUB_LISTENING_TIMEOUT or PUBSUB_SINK_KIND.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config decode: %w", err)
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validate() error {
	switch c.Sink.Kind {
	case SinkNone, SinkNATS, SinkKafka, SinkRabbitMQ:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink.Kind)
	}

	if c.ChannelInverter == "" {
		return errors.New("config: channel_inverter must not be empty")
	}

	if c.ListeningTimeout <= 0 || c.ReportTimeout <= 0 {
		return errors.New("config: timeouts must be positive")
	}

	return nil
}

// Options converts c into registry options. logger may be nil.
func (c Config) Options(logger *slog.Logger) []pubsub.Option {
	return []pubsub.Option{
		pubsub.WithChannelInverter(c.ChannelInverter),
		pubsub.WithListeningTimeout(c.ListeningTimeout),
		pubsub.WithReportTimeout(c.ReportTimeout),
		pubsub.WithLogger(logger),
	}
}
