package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/openvenue/matching-core/config"
	"github.com/openvenue/matching-core/pkg/core/repo"
	postgres_wrapper "github.com/openvenue/matching-core/pkg/infra/postgres"
	kafkawrapper "github.com/openvenue/matching-core/pkg/kafka_wrapper"
	"github.com/openvenue/matching-core/pkg/worker"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx := context.Background()

	// init db
	db, err := postgres_wrapper.InitPostgres(cfg.EngineDB)
	if err != nil {
		zap.S().Errorf("init db fail with err: %v", err)
		panic(err)
	}

	// init repo
	sqlRepo := repo.NewRepo(db)

	w := worker.NewWorker(sqlRepo)
	if err := w.StartConsumer(ctx, kafkawrapper.ConsumerConfig{
		Brokers:  cfg.Kafka.Brokers,
		GroupID:  cfg.Kafka.GroupID,
		Topic:    cfg.Kafka.EventTopic,
		DLQTopic: cfg.Kafka.DLQTopic,
	}); err != nil {
		zap.S().Errorf("consumer stopped with err: %v", err)
	}
}
