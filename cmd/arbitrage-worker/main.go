package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/arbitrage-worker/cache"
	"github.com/dbchung2/betarb/internal/arbitrage-worker/consumer"
	"github.com/dbchung2/betarb/internal/arbitrage-worker/publisher"
	"github.com/dbchung2/betarb/internal/arbitrage-worker/pubsub"
	"github.com/dbchung2/betarb/internal/arbitrage-worker/repository"
	sharedcache "github.com/dbchung2/betarb/internal/shared/cache"
	"github.com/dbchung2/betarb/internal/shared/config"
	"github.com/dbchung2/betarb/internal/shared/db"
	"github.com/dbchung2/betarb/internal/shared/kafka"
	"github.com/dbchung2/betarb/internal/shared/logger"
	"github.com/dbchung2/betarb/internal/shared/metrics"
	"github.com/dbchung2/betarb/pkg/arbitrage"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Instancia cache Redis e repositório Postgres do conjunto atual
	rcache := cache.NewRedisCache(redisClient, cfg.CacheTTL)
	repo := repository.NewPostgresRepo(pg)
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := repo.EnsureSchema(schemaCtx); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}
	schemaCancel()

	// Consumer Kafka (consumer group arbitrage-worker) e writers de saída
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicOddsSnapshots, "arbitrage-worker")
	defer reader.Close()

	detectedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicArbitrage)
	defer detectedWriter.Close()
	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicOddsSnapshotsDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_worker_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_worker_cache_sets_total", Help: "sets no cache"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_worker_db_writes_total", Help: "substituições do conjunto atual no banco"})
	detected := prometheus.NewCounter(prometheus.CounterOpts{Name: "arb_worker_opportunities_total", Help: "oportunidades detectadas"})
	evaluated := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "arb_worker_games_evaluated_total", Help: "jogos avaliados por variante de mercado"}, []string{"shape", "arbitrage"})
	cycle := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "arb_worker_cycle_seconds", Help: "latência de avaliação por snapshot", Buckets: prometheus.DefBuckets})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "arb_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, persist, detected, evaluated, cycle, errorsBy)

	engine := arbitrage.NewEngine(log.Named("engine"), cfg.TotalStake, cfg.EvalWorkers)
	engine.OnEvaluated = func(shape arbitrage.MarketShape, arb bool) {
		label := "false"
		if arb {
			label = "true"
		}
		evaluated.WithLabelValues(shape.String(), label).Inc()
	}
	engine.OnError = func(stage string) { errorsBy.WithLabelValues("engine_" + stage).Inc() }

	// Instancia o processor, conectando callbacks de métricas e broadcast
	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		Engine:      engine,
		Cache:       rcache,
		Repo:        repo,
		Events:      publisher.NewEventPublisher(detectedWriter),
		DLQ:         publisher.NewDeadLetter(dlqWriter),
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient),
		Channel:     cfg.RedisPubSubChannel,

		OnConsumed: func() { consumed.Inc() },
		OnCached:   func() { cached.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnDetected: func(n int) { detected.Add(float64(n)) },
		OnCycle:    func(d time.Duration) { cycle.Observe(d.Seconds()) },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	}, log)
	defer msrv.Close()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("arbitrage-worker started",
		zap.Float64("total_stake", engine.TotalStake),
		zap.Int("workers", engine.Workers),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("arbitrage-worker stopped")
}
