package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/odds-simulator/generator"
	httpapi "github.com/dbchung2/betarb/internal/odds-simulator/http"
	"github.com/dbchung2/betarb/internal/shared/config"
	"github.com/dbchung2/betarb/internal/shared/logger"
	"github.com/dbchung2/betarb/internal/shared/metrics"
)

// Métricas Prometheus para monitoramento das requisições simuladas
var simRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "odds_simulator_requests_total",
	Help: "Requisições atendidas pelo simulador por caminho e status",
}, []string{"path", "status"})

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(simRequests)

	seed := time.Now().UnixNano()
	if v := os.Getenv("SIMULATOR_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}

	s := &httpapi.Server{
		Log:       log,
		Generator: generator.New(cfg.Bookmakers, seed),
		APIKey:    cfg.OddsAPIKey,
		OnRequest: func(path string, status int) {
			simRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
		},
	}

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, nil, log)

	// Servidor público (/v4/sports, /v4/sports/{sport}/odds)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("odds api simulator (public) running",
			zap.String("addr", srv.Addr),
			zap.Int("bookmakers", len(cfg.Bookmakers)),
			zap.Int64("seed", seed),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, scancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer scancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = msrv.Shutdown(shutdownCtx)
}
