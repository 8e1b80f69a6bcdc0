package arbitrage

import "strconv"

// BestPrice é o melhor preço decimal encontrado para uma chave de resultado
type BestPrice struct {
	Key       string
	Outcome   string
	Point     *float64
	Price     float64
	Bookmaker string
}

// BestPrices mantém os melhores preços na ordem em que cada chave apareceu pela primeira vez
type BestPrices []BestPrice

// KeyFunc define a chave de agrupamento de uma cotação
type KeyFunc func(Quote) string

// ByName agrupa por nome do resultado (moneyline)
func ByName(q Quote) string { return q.Name }

// ByNameAndPoint agrupa por nome + linha (spreads/totals)
func ByNameAndPoint(q Quote) string {
	if q.Point == nil {
		return q.Name
	}
	return q.Name + "@" + strconv.FormatFloat(*q.Point, 'f', -1, 64)
}

// SelectBestPrices percorre as cotações na ordem recebida e guarda, por chave,
// o maior preço. Empates mantêm a primeira casa encontrada.
func SelectBestPrices(quotes []Quote, key KeyFunc) BestPrices {
	var best BestPrices
	idx := make(map[string]int)

	for _, q := range quotes {
		k := key(q)
		i, ok := idx[k]
		if !ok {
			idx[k] = len(best)
			best = append(best, BestPrice{Key: k, Outcome: q.Name, Point: q.Point, Price: q.Price, Bookmaker: q.Bookmaker})
			continue
		}
		if q.Price > best[i].Price {
			best[i] = BestPrice{Key: k, Outcome: q.Name, Point: q.Point, Price: q.Price, Bookmaker: q.Bookmaker}
		}
	}
	return best
}
