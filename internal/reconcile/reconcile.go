package reconcile

import (
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Decide сверяет действующий уклон сигнала с балансом базового актива.
//
// BUY только если уклон BUY и актива на счёте нет; SELL только если уклон
// SELL и актив есть. Повторные одинаковые сигналы при открытой позиции
// игнорируются — иначе каждый опрос плодил бы маркет-ордера.
func Decide(st models.SignalState, pos models.AssetPosition, pair string, volume float64) models.Decision {
	if !st.HasNonZero {
		return models.Decision{Action: models.NoAction, Pair: pair, Reason: "no signal yet"}
	}

	switch st.LastNonZero {
	case models.SignalBuy:
		if pos.HasBalance() {
			return models.Decision{Action: models.NoAction, Pair: pair, Reason: "already in trade"}
		}
		return models.Decision{Action: models.PlaceBuy, Pair: pair, Volume: volume, Reason: "buy bias, flat balance"}

	case models.SignalSell:
		if !pos.HasBalance() {
			return models.Decision{Action: models.NoAction, Pair: pair, Reason: "nothing to sell"}
		}
		return models.Decision{Action: models.PlaceSell, Pair: pair, Volume: volume, Reason: "sell bias, holding balance"}
	}

	return models.Decision{Action: models.NoAction, Pair: pair, Reason: "hold"}
}

// OrderFor превращает решение в запрос маркет-ордера. Для NoAction — ок=false.
func OrderFor(dec models.Decision) (models.OrderRequest, bool) {
	switch dec.Action {
	case models.PlaceBuy:
		return models.OrderRequest{Side: models.SideBuy, Type: models.OrderMarket, Volume: dec.Volume, Pair: dec.Pair}, true
	case models.PlaceSell:
		return models.OrderRequest{Side: models.SideSell, Type: models.OrderMarket, Volume: dec.Volume, Pair: dec.Pair}, true
	}
	return models.OrderRequest{}, false
}
