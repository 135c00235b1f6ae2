package email_notifier_config

import (
	"time"

	"github.com/fernweh-labs/tripdesk/internal/obs"
	kafkax "github.com/fernweh-labs/tripdesk/internal/repository/kafka"

	pginfra "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
)

type KafkaIn struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

func (k *KafkaIn) AsConsumerConfig() *kafkax.ConsumerConfig {
	return &kafkax.ConsumerConfig{
		Brokers: k.Brokers,
		Topic:   k.Topic,
		GroupID: k.GroupID,
	}
}

type SMTP struct {
	Addr       string        `mapstructure:"addr"`
	From       string        `mapstructure:"from"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc *Log) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    "tripdesk/email-notifier",
	}
}

type Config struct {
	DB     pginfra.Config `mapstructure:"db"`
	In     KafkaIn        `mapstructure:"kafka_in"`
	SMTP   SMTP           `mapstructure:"smtp"`
	Server Server         `mapstructure:"server"`
	OTEL   OTEL           `mapstructure:"otel"`
	Log    Log            `mapstructure:"log"`
}
