package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/odds-simulator/generator"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

// Server imita os endpoints /v4 da The Odds API usados pelo odds-ingest-service
type Server struct {
	Log       *zap.Logger
	Generator *generator.Generator
	APIKey    string // vazio aceita qualquer chave
	Quota     int64  // requisições disponíveis, informadas em x-requests-remaining

	OnRequest func(path string, status int) // métricas

	used atomic.Int64
}

// Router retorna o roteador com os endpoints simulados
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.auth)

	r.Get("/v4/sports", s.listSports)
	r.Get("/v4/sports/{sport}/odds", s.getOdds)
	return r
}

// auth valida apiKey e cota, e informa as requisições restantes
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.APIKey != "" && r.URL.Query().Get("apiKey") != s.APIKey {
			s.fail(w, r, http.StatusUnauthorized, "invalid api key")
			return
		}
		used := s.used.Add(1)
		if s.Quota > 0 {
			remaining := s.Quota - used
			if remaining < 0 {
				s.fail(w, r, http.StatusTooManyRequests, "usage quota has been reached")
				return
			}
			w.Header().Set("x-requests-remaining", strconv.FormatInt(remaining, 10))
		}
		w.Header().Set("x-requests-used", strconv.FormatInt(used, 10))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listSports(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, s.Generator.Sports())
}

func (s *Server) getOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	market := q.Get("markets")
	if market == "" {
		market = "h2h"
	}
	if strings.Contains(market, ",") {
		s.fail(w, r, http.StatusUnprocessableEntity, "one market per request")
		return
	}

	format, err := oddsmath.ParseFormat(q.Get("oddsFormat"))
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var bookmakers []string
	if v := q.Get("bookmakers"); v != "" {
		bookmakers = strings.Split(v, ",")
	}

	games, err := s.Generator.Odds(chi.URLParam(r, "sport"), market, format, bookmakers)
	switch {
	case errors.Is(err, generator.ErrUnknownSport):
		s.fail(w, r, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if q.Get("includeLinks") != "true" {
		for i := range games {
			for j := range games[i].Bookmakers {
				games[i].Bookmakers[j].Link = ""
			}
		}
	}
	s.write(w, r, http.StatusOK, games)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.write(w, r, status, map[string]string{"message": msg})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
	if s.OnRequest != nil {
		s.OnRequest(r.URL.Path, status)
	}
}
