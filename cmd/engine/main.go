package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/openvenue/matching-core/config"
	"github.com/openvenue/matching-core/pkg/core"
	"github.com/openvenue/matching-core/pkg/core/repo"
	"github.com/openvenue/matching-core/pkg/event"
	postgres_wrapper "github.com/openvenue/matching-core/pkg/infra/postgres"
	redis_wrapper "github.com/openvenue/matching-core/pkg/infra/redis"
	kafkawrapper "github.com/openvenue/matching-core/pkg/kafka_wrapper"
	"github.com/openvenue/matching-core/pkg/logging"

	fixgateway "github.com/openvenue/matching-core/pkg/gateway/fix"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	go func() {
		http.ListenAndServe("localhost:6060", nil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

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

	logger := logging.NewLogger(logging.INFO)
	defer logger.Sync()

	var publisher event.Publisher = event.NewInMemoryPublisher()
	if cfg.Kafka != nil {
		producer := kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
		})
		defer producer.Close(ctx)
		publisher = event.NewKafkaPublisher(producer, cfg.Kafka.EventTopic)
	}

	engine := core.NewEngine(publisher, logger)
	seedFromConfig(engine, cfg)

	if cfg.EngineDB != nil {
		db, err := postgres_wrapper.InitPostgres(cfg.EngineDB)
		if err != nil {
			zap.S().Errorf("init db fail with err: %v", err)
			panic(err)
		}
		if err := core.Seed(ctx, engine, repo.NewRepo(db)); err != nil {
			zap.S().Errorf("seed engine fail with err: %v", err)
			panic(err)
		}
	}

	if cfg.Redis != nil {
		client, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Errorf("init redis fail with err: %v", err)
			panic(err)
		}
		engine.SetRefPriceStore(core.NewRefPriceStore(client, ""))
		engine.LoadReferencePrices(ctx)
	}

	if cfg.Kafka != nil {
		intake, err := core.NewIntake(engine, kafkawrapper.ConsumerConfig{
			Brokers:  cfg.Kafka.Brokers,
			GroupID:  cfg.Kafka.GroupID,
			Topic:    cfg.Kafka.OrderTopic,
			DLQTopic: cfg.Kafka.DLQTopic,
		}, logger)
		if err != nil {
			panic(err)
		}
		defer intake.Close()
		go func() {
			if err := intake.Run(ctx); err != nil {
				zap.S().Errorf("intake stopped with err: %v", err)
			}
		}()
	}

	if cfg.Fix != nil {
		gateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
			ConfigFilepath: cfg.Fix.ConfigFilepath,
		})
		gateway.AddEngine(engine)
		if err := gateway.Start(ctx); err != nil {
			panic(err)
		}
		defer gateway.Stop()
	}

	fmt.Println("Matching engine started. Press Ctrl+C to exit.")

	<-sigs
	fmt.Println("Shutting down...")

	cancel()

	fmt.Println("Exited cleanly.")
}

func seedFromConfig(engine *core.Engine, cfg *config.AppConfig) {
	for _, ins := range cfg.Instruments {
		engine.RegisterSecurity(ins.ISIN, ins.TickSize, ins.LotSize)
	}
	for _, b := range cfg.Brokers {
		engine.RegisterBroker(b.ID, b.Name, b.Credit)
	}
	for _, sh := range cfg.Shareholders {
		shareholder := engine.RegisterShareholder(sh.ID, sh.Name)
		for _, pos := range sh.Positions {
			shareholder.SetPosition(pos.ISIN, pos.Quantity)
		}
	}
}
