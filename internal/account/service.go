package account

import (
	"context"
	"log"
	"strings"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
)

// комиссия тейкера Kraken для спота
const takerFeePct = 0.4

// MarketAPI — срез биржевого клиента, который нужен сервису аккаунта.
type MarketAPI interface {
	Balances(ctx context.Context) (map[string]float64, error)
	TradeBalance(ctx context.Context, asset string) (models.TradeBalance, error)
	ClosedOrders(ctx context.Context) ([]models.ClosedOrder, error)
	Depth(ctx context.Context, pair string, count int) (models.BookDepth, error)
}

// Service строит снимок позиции по базовому активу на каждый цикл.
// Ничего не кэширует: баланс и стакан берутся свежими.
type Service struct {
	api MarketAPI
	cfg *config.Config
}

func NewService(api MarketAPI, cfg *config.Config) *Service {
	return &Service{api: api, cfg: cfg}
}

// Position — баланс базового актива, cost basis последней закрытой покупки
// и сколько дадут биды стакана за весь баланс прямо сейчас.
func (s *Service) Position(ctx context.Context) (models.AssetPosition, error) {
	base := s.cfg.Pair.Base

	balances, err := s.api.Balances(ctx)
	if err != nil {
		return models.AssetPosition{}, err
	}

	pos := models.AssetPosition{Asset: base, Balance: lookupAsset(balances, base)}
	if !pos.HasBalance() {
		return pos, nil
	}

	closed, err := s.api.ClosedOrders(ctx)
	if err != nil {
		return models.AssetPosition{}, err
	}
	// cost basis — стоимость самой свежей закрытой покупки по паре
	for _, o := range closed {
		if o.Side == models.SideBuy && strings.Contains(o.Pair, base) {
			pos.CostBasis = o.Cost
			break
		}
	}

	// стакан может быть недоступен; позиция тогда без оценки, но не ошибка
	book, err := s.api.Depth(ctx, s.cfg.PairName(), 0)
	if err != nil {
		log.Printf("[ACCOUNT] depth unavailable for %s: %v", s.cfg.PairName(), err)
	} else {
		pos.OrderbookValue = walkBids(book.BidPrices, book.BidQuantities, pos.Balance)
	}

	pos.Fee = pos.OrderbookValue * takerFeePct / 100
	pos.PnLMinusFee = pos.OrderbookValue - pos.CostBasis - pos.Fee
	pos.AfterExecutionUSD = pos.OrderbookValue - pos.Fee
	return pos, nil
}

// Summary — позиция плюс торговый баланс в котировке, для HTTP-ручки.
type Summary struct {
	Position     models.AssetPosition `json:"position"`
	TradeBalance models.TradeBalance  `json:"usd_trade_balance"`
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	pos, err := s.Position(ctx)
	if err != nil {
		return Summary{}, err
	}
	tb, err := s.api.TradeBalance(ctx, "Z"+s.cfg.Pair.Quote)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Position: pos, TradeBalance: tb}, nil
}

// lookupAsset — Kraken отдаёт активы и голым тикером ("SOL"), и с
// классовым префиксом ("XXBT", "ZUSD").
func lookupAsset(balances map[string]float64, asset string) float64 {
	if v, ok := balances[asset]; ok {
		return v
	}
	for _, prefix := range []string{"X", "Z"} {
		if v, ok := balances[prefix+asset]; ok {
			return v
		}
	}
	return 0
}

// walkBids — сколько котировки дадут биды за amount базового актива,
// съедая уровни лучшими первыми.
func walkBids(prices, qtys []float64, amount float64) float64 {
	var value float64
	for i := range prices {
		if amount <= 0 {
			break
		}
		if i >= len(qtys) {
			break
		}
		if qtys[i] < amount {
			value += qtys[i] * prices[i]
			amount -= qtys[i]
		} else {
			value += amount * prices[i]
			amount = 0
		}
	}
	return value
}

// EffectivePrice — средневзвешенная цена исполнения amount по уровням
// стакана. 0, если стакан пуст.
func EffectivePrice(prices, qtys []float64, amount float64) float64 {
	var totalAmount, totalValue float64
	for i := range prices {
		if amount <= 0 {
			break
		}
		if i >= len(qtys) {
			break
		}
		q := qtys[i]
		if q <= amount {
			totalValue += prices[i] * q
			totalAmount += q
			amount -= q
		} else {
			totalValue += prices[i] * amount
			totalAmount += amount
			amount = 0
		}
	}
	if totalAmount == 0 {
		return 0
	}
	return totalValue / totalAmount
}

// ProfitLoss — PnL закрытия позиции через стакан с учётом комиссии.
// Long закрывается в биды, short — в аски.
func ProfitLoss(positionType string, entryPrice, amount, feePct float64, book models.BookDepth) float64 {
	initial := entryPrice * amount

	var effective float64
	switch positionType {
	case "long":
		effective = EffectivePrice(book.BidPrices, book.BidQuantities, amount)
	case "short":
		effective = EffectivePrice(book.AskPrices, book.AskQuantities, amount)
	default:
		return 0
	}

	total := effective * amount
	net := total - total*(feePct/100)

	if positionType == "long" {
		return net - initial
	}
	return initial - net
}
