package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/matching-core/config"
	"github.com/joripage/matching-core/pkg/engine"
	"github.com/joripage/matching-core/pkg/engine/risk"
	infraredis "github.com/joripage/matching-core/pkg/infra/redis"
	kafkawrapper "github.com/joripage/matching-core/pkg/kafka_wrapper"
	"github.com/joripage/matching-core/pkg/logging"
	"github.com/joripage/matching-core/pkg/matching"
	"github.com/joripage/matching-core/pkg/quotecache"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger := logging.NewLogger(logging.INFO)
	defer logger.Sync() // nolint

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	var opts []engine.EngineOption
	var publishers engine.MultiPublisher

	if cfg.Nats != nil {
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			logger.Fatal(ctx, "connect nats fail", zap.Error(err))
		}
		js, err := nc.JetStream()
		if err != nil {
			logger.Fatal(ctx, "jetstream fail", zap.Error(err))
		}
		pub, err := engine.NewNatsPublisher(js, cfg.Nats.Stream, cfg.Nats.Subject)
		if err != nil {
			logger.Fatal(ctx, "create nats stream fail", zap.Error(err))
		}
		publishers = append(publishers, pub)
	}

	if cfg.Kafka != nil {
		producer := kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
		})
		publishers = append(publishers, engine.NewKafkaPublisher(producer, cfg.Kafka.Topic))
	}

	if len(publishers) > 0 {
		opts = append(opts, engine.WithPublisher(publishers))
	}

	if cfg.Redis != nil {
		redisClient, err := infraredis.InitRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal(ctx, "connect redis fail", zap.Error(err))
		}
		opts = append(opts, engine.WithQuoteCache(quotecache.NewCache(redisClient, time.Minute)))
	}

	var rules []risk.Rule
	if cfg.Matching.RoundLot > 0 {
		rules = append(rules, &risk.LotSizeRule{Lot: cfg.Matching.RoundLot})
	}
	if cfg.Matching.TickSizeFile != "" {
		tickRule, err := risk.NewTickSizeRuleFromFile(cfg.Matching.TickSizeFile)
		if err != nil {
			logger.Fatal(ctx, "load tick size config fail", zap.Error(err))
		}
		rules = append(rules, tickRule)
	}

	var validator matching.OrderValidator
	if len(rules) > 0 {
		validator = risk.Validator(rules...)
	}

	eng := engine.NewEngine(engine.Config{
		Symbols:          cfg.Matching.Symbols,
		AllowTradeToSelf: cfg.Matching.AllowTradeToSelf,
		Validator:        validator,
		EnableShardQueue: cfg.Matching.EnableShardQueue,
		NumShards:        cfg.Matching.NumShards,
		QueueSize:        cfg.Matching.QueueSize,
	}, opts...)

	if err := eng.Start(ctx); err != nil {
		logger.Fatal(ctx, "start engine fail", zap.Error(err))
	}
	logger.Info(ctx, "matching engine started", zap.Strings("symbols", cfg.Matching.Symbols))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	logger.Info(ctx, "shutting down")
	eng.Stop()
	cancel()
}
