// Package oddsapi é o cliente HTTP da The Odds API (v4) usado pelo odds-ingest-service.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dbchung2/betarb/pkg/contracts/events"
)

const headerRequestsRemaining = "x-requests-remaining"

// APIError representa uma resposta não-2xx da Odds API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("odds api: status %d: %s", e.StatusCode, e.Body)
}

// Client consulta esportes e odds. BaseURL já inclui a versão (ex.: https://api.the-odds-api.com/v4).
type Client struct {
	BaseURL    string
	APIKey     string
	Bookmakers []string // allow-list enviada em toda consulta de odds
	HTTP       *http.Client

	OnQuota func(remaining int) // métricas: cota restante informada pelo provedor
}

// NewClient cria um cliente com timeout padrão
func NewClient(baseURL, apiKey string, bookmakers []string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Bookmakers: bookmakers,
		HTTP:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Sports lista as ligas disponíveis
func (c *Client) Sports(ctx context.Context) ([]events.Sport, error) {
	var out []events.Sport
	if err := c.get(ctx, "/sports", url.Values{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Odds busca os jogos de uma liga para um único mercado, com preços no formato pedido
func (c *Client) Odds(ctx context.Context, sport, market, format string) ([]events.Game, error) {
	q := url.Values{}
	q.Set("markets", market)
	q.Set("oddsFormat", format)
	q.Set("includeLinks", "true")
	if len(c.Bookmakers) > 0 {
		q.Set("bookmakers", strings.Join(c.Bookmakers, ","))
	} else {
		q.Set("regions", "us")
	}

	var out []events.Game
	if err := c.get(ctx, "/sports/"+url.PathEscape(sport)+"/odds", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	if c.APIKey != "" {
		q.Set("apiKey", c.APIKey)
	}
	u := c.BaseURL + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("odds api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if v := resp.Header.Get(headerRequestsRemaining); v != "" && c.OnQuota != nil {
		if n, err := strconv.Atoi(v); err == nil {
			c.OnQuota(n)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
