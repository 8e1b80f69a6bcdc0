package events

// Sport representa uma liga/esporte disponível na Odds API
type Sport struct {
	Key          string `json:"key"`
	Group        string `json:"group"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
	HasOutrights bool   `json:"has_outrights"`
}

// Outcome é uma cotação de um resultado (time, "Draw", "Over", "Under").
// Point só existe em mercados de spread/total; nil em moneyline.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// HasPoint indica se a cotação pertence a um mercado com linha (spreads/totals)
func (o Outcome) HasPoint() bool { return o.Point != nil }

// Market agrupa as cotações de uma casa para um tipo de mercado (h2h, totals, spreads)
type Market struct {
	Key        string    `json:"key"`
	LastUpdate string    `json:"last_update,omitempty"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Bookmaker é o snapshot de uma casa de apostas para um jogo
type Bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update,omitempty"`
	Link       string   `json:"link,omitempty"`
	Markets    []Market `json:"markets"`
}

// Game é a unidade de avaliação: um evento com as cotações de todas as casas
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// PointPtr é um helper para montar cotações com linha
func PointPtr(v float64) *float64 { return &v }
