package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/odds-ingest/cache"
	"github.com/dbchung2/betarb/internal/odds-ingest/oddsapi"
	"github.com/dbchung2/betarb/internal/odds-ingest/publisher"
	"github.com/dbchung2/betarb/internal/odds-ingest/service"
	sharedcache "github.com/dbchung2/betarb/internal/shared/cache"
	"github.com/dbchung2/betarb/internal/shared/config"
	"github.com/dbchung2/betarb/internal/shared/kafka"
	"github.com/dbchung2/betarb/internal/shared/logger"
	"github.com/dbchung2/betarb/internal/shared/metrics"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if _, err := oddsmath.ParseFormat(cfg.OddsFormat); err != nil {
		log.Fatal("invalid odds format", zap.String("format", cfg.OddsFormat), zap.Error(err))
	}

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	// Redis guarda a lista de ligas consumida pela API
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Kafka Publisher
	pub, err := publisher.NewKafkaPublisher(kafka.Brokers(cfg.KafkaBrokers), cfg.TopicOddsSnapshots, cfg.Env, log)
	if err != nil {
		log.Fatal("kafka publisher", zap.Error(err))
	}
	defer pub.Close()

	// Métricas Prometheus do ciclo de ingestão
	fetched := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_ingest_games_fetched_total", Help: "jogos recebidos da fonte"}, []string{"sport", "market"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_ingest_snapshots_published_total", Help: "snapshots publicados"})
	quota := prometheus.NewGauge(prometheus.GaugeOpts{Name: "odds_ingest_api_requests_remaining", Help: "cota restante informada pela Odds API"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_ingest_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(fetched, published, quota, errorsBy)

	client := oddsapi.NewClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.Bookmakers)
	client.OnQuota = func(n int) { quota.Set(float64(n)) }

	poller := &service.Poller{
		Log:        log,
		Source:     client,
		Publisher:  pub,
		Sports:     cache.NewSportsCache(redisClient, 24*time.Hour),
		SportKeys:  cfg.Sports,
		Markets:    cfg.Markets,
		OddsFormat: cfg.OddsFormat,
		Interval:   cfg.PollInterval,
		SourceName: cfg.OddsAPIBaseURL,

		OnFetched:   func(sport, market string, n int) { fetched.WithLabelValues(sport, market).Add(float64(n)) },
		OnPublished: func() { published.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Metrics e health
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}, log)

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("odds-ingest started",
		zap.Strings("sports", cfg.Sports),
		zap.Strings("markets", cfg.Markets),
		zap.Duration("interval", cfg.PollInterval),
	)
	poller.Start(ctx)

	shutdownCtx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer scancel()
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("odds-ingest stopped")
}
