package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/arbitrage-service/dto"
	"github.com/dbchung2/betarb/internal/arbitrage-service/repo"
	"github.com/dbchung2/betarb/internal/arbitrage-service/ws"
	"github.com/dbchung2/betarb/pkg/arbitrage"
	"github.com/dbchung2/betarb/pkg/contracts/events"
)

// SnapshotReader lê os snapshots avaliados e as ligas do cache
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, sportKey, marketKey string) (events.ArbitrageSnapshot, bool, error)
	GetSportGroups(ctx context.Context) ([]events.SportGroup, bool, error)
}

// OpportunityReader lista o conjunto atual persistido
type OpportunityReader interface {
	ListOpportunities(ctx context.Context, f repo.Filter) ([]dto.Opportunity, error)
}

// API expõe os endpoints REST de consulta de arbitragens
// Utiliza cache (Redis) para a grade, repositório de leitura (Postgres) para o conjunto atual
// e o motor para avaliações sob demanda
type API struct {
	Log            *zap.Logger
	Cache          SnapshotReader    // snapshots e ligas
	ReadRepo       OpportunityReader // conjunto atual de oportunidades
	Engine         *arbitrage.Engine // avaliação sob demanda
	Hub            *ws.Hub           // opcional
	AllowedOrigins []string

	OnRequest func(route string, status int) // métricas
}

// Router retorna o roteador HTTP com os endpoints REST e o WebSocket
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Use(a.observe)

		r.Get("/v1/sports", a.listSports)                       // Ligas agrupadas por categoria
		r.Get("/v1/arbitrage/{sport}/{market}", a.getArbitrage) // Grade do último snapshot
		r.Post("/v1/arbitrage/evaluate", a.evaluate)            // Avaliação sob demanda
		r.Get("/v1/opportunities", a.listOpportunities)         // Conjunto atual no Postgres
	})

	if a.Hub != nil {
		r.Get("/ws", a.Hub.HandleWS)
	}
	return r
}

// observe reporta rota e status de cada requisição
func (a *API) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if a.OnRequest != nil {
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			a.OnRequest(route, ww.Status())
		}
	})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
