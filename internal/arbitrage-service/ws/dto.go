package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Channel: "esporte:mercado", obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	Channel string `json:"channel"` // requerido em subscribe/unsubscribe
}

// ArbitrageUpdate representa um snapshot avaliado enviado para clientes WebSocket
type ArbitrageUpdate struct {
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload"`
}
