package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dbchung2/betarb/internal/arbitrage-service/dto"
	"github.com/dbchung2/betarb/internal/arbitrage-service/repo"
	"github.com/dbchung2/betarb/internal/arbitrage-service/view"
	"github.com/dbchung2/betarb/pkg/oddsmath"
)

const maxEvaluateBody = 5 << 20

// listSports retorna as ligas ativas agrupadas por categoria
func (a *API) listSports(w http.ResponseWriter, r *http.Request) {
	groups, ok, err := a.Cache.GetSportGroups(r.Context())
	if err != nil {
		a.Log.Warn("sports cache read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "sports not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// getArbitrage retorna a grade do último snapshot avaliado do esporte/mercado
func (a *API) getArbitrage(w http.ResponseWriter, r *http.Request) {
	sport, market := chi.URLParam(r, "sport"), chi.URLParam(r, "market")

	opts, err := view.ParseOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, ok, err := a.Cache.GetSnapshot(r.Context(), sport, market)
	if err != nil {
		a.Log.Warn("snapshot cache read failed", zap.String("sport", sport), zap.String("market", market), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	games, err := view.Build(snap.Games, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ArbitrageResponse{
		SnapshotID:     snap.SnapshotID,
		SportKey:       snap.SportKey,
		MarketKey:      snap.MarketKey,
		EvaluatedAt:    snap.EvaluatedAt,
		Sort:           string(opts.Sort),
		Display:        string(opts.Display),
		TotalGames:     len(snap.Games),
		ArbitrageGames: snap.Opportunities,
		Games:          games,
	})
}

// evaluate roda o motor sobre os jogos enviados; format declara o formato das odds do lote
func (a *API) evaluate(w http.ResponseWriter, r *http.Request) {
	format, err := oddsmath.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := *a.Engine
	if s := r.URL.Query().Get("stake"); s != "" {
		stake, err := strconv.ParseFloat(s, 64)
		if err != nil || stake <= 0 {
			writeError(w, http.StatusBadRequest, "stake must be a positive number")
			return
		}
		engine.TotalStake = stake
	}

	var req dto.EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	games := engine.ProcessGames(req.Games, format)
	resp := dto.EvaluateResponse{Games: games}
	for _, g := range games {
		if g.HasArbitrage {
			resp.ArbitrageGames++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// listOpportunities retorna o conjunto atual, opcionalmente filtrado por esporte, mercado e lucro mínimo
func (a *API) listOpportunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repo.Filter{SportKey: q.Get("sport"), MarketKey: q.Get("market")}

	if v := q.Get("min_profit"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_profit must be a number")
			return
		}
		f.MinProfit = p
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	opps, err := a.ReadRepo.ListOpportunities(r.Context(), f)
	if err != nil {
		a.Log.Warn("list opportunities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, opps)
}
