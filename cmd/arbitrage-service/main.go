package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/arbitrage-service/cache"
	httpapi "github.com/dbchung2/betarb/internal/arbitrage-service/http"
	"github.com/dbchung2/betarb/internal/arbitrage-service/repo"
	"github.com/dbchung2/betarb/internal/arbitrage-service/ws"
	sharedcache "github.com/dbchung2/betarb/internal/shared/cache"
	"github.com/dbchung2/betarb/internal/shared/config"
	"github.com/dbchung2/betarb/internal/shared/db"
	"github.com/dbchung2/betarb/internal/shared/logger"
	"github.com/dbchung2/betarb/internal/shared/metrics"
	"github.com/dbchung2/betarb/pkg/arbitrage"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// métricas HTTP
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "arb_api_requests_total", Help: "requisições por rota e status"}, []string{"route", "status"})
	evalErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "arb_api_evaluate_errors_total", Help: "jogos rejeitados na avaliação sob demanda"}, []string{"stage"})
	prometheus.MustRegister(requests, evalErrors)

	// WebSocket: Redis Pub/Sub → Hub → clientes inscritos
	hub := ws.NewHub(log.Named("ws"), func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	engine := arbitrage.NewEngine(log.Named("engine"), cfg.TotalStake, cfg.EvalWorkers)
	engine.OnError = func(stage string) { evalErrors.WithLabelValues(stage).Inc() }

	api := &httpapi.API{
		Log:            log,
		Cache:          cache.New(redisClient),
		ReadRepo:       &repo.ReadRepo{DB: pg},
		Engine:         engine,
		Hub:            hub,
		AllowedOrigins: []string{"*"},
		OnRequest: func(route string, status int) {
			requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		},
	}

	// sobe servidor de métricas e health
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres not healthy: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis not healthy: %w", err)
		}
		return nil
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = msrv.Shutdown(shutdownCtx)
}
