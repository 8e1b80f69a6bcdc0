// Package keys define as chaves Redis compartilhadas entre worker, ingest e API.
package keys

import "github.com/dbchung2/betarb/pkg/contracts/events"

// SportGroups guarda a lista de ligas agrupada por categoria
const SportGroups = "sports:groups"

// ArbitrageSnapshot é a chave do último snapshot avaliado de um esporte/mercado
func ArbitrageSnapshot(sportKey, marketKey string) string {
	return "arbitrage:current:" + events.ChannelKey(sportKey, marketKey)
}
