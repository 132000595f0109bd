package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/openvenue/matching-core/pkg/infra/postgres"
	redis_wrapper "github.com/openvenue/matching-core/pkg/infra/redis"
)

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	EngineDB    *postgres_wrapper.PostgresConfig `yaml:"engine_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka       *KafkaConfig                     `yaml:"kafka"`
	Fix         *FixConfig                       `yaml:"fix"`

	Instruments  []InstrumentConfig  `yaml:"instruments"`
	Brokers      []BrokerConfig      `yaml:"brokers"`
	Shareholders []ShareholderConfig `yaml:"shareholders"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	OrderTopic string   `yaml:"order_topic"`
	EventTopic string   `yaml:"event_topic"`
	GroupID    string   `yaml:"group_id"`
	DLQTopic   string   `yaml:"dlq_topic"`
}

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

// InstrumentConfig seeds an instrument when no reference database is wired.
type InstrumentConfig struct {
	ISIN     string `yaml:"isin"`
	TickSize int64  `yaml:"tick_size"`
	LotSize  int64  `yaml:"lot_size"`
}

type BrokerConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Credit int64  `yaml:"credit"`
}

type ShareholderConfig struct {
	ID        string           `yaml:"id"`
	Name      string           `yaml:"name"`
	Positions []PositionConfig `yaml:"positions"`
}

type PositionConfig struct {
	ISIN     string `yaml:"isin"`
	Quantity int64  `yaml:"quantity"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
