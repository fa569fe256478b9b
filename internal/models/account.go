package models

import "time"

// AssetPosition — снимок позиции по базовому активу. Строится заново на
// каждый цикл, между циклами не кэшируется.
type AssetPosition struct {
	Asset   string
	Balance float64
	// Стоимость последней закрытой покупки (cost из ClosedOrders).
	CostBasis float64
	// Сколько дадут биды стакана за весь баланс прямо сейчас.
	OrderbookValue float64
	// Комиссия тейкера 0.4% от OrderbookValue.
	Fee float64
	// OrderbookValue - CostBasis - Fee.
	PnLMinusFee float64
	// Выручка после исполнения и комиссии.
	AfterExecutionUSD float64
}

func (p AssetPosition) HasBalance() bool { return p.Balance > 0 }

// TradeBalance — сводка торгового баланса в валюте котировки.
type TradeBalance struct {
	Equity       float64 // eb
	TradeBalance float64 // tb
	FreeMargin   float64 // mf
}

// BookDepth — стакан: лучшие цены первыми, все срезы одной длины попарно.
type BookDepth struct {
	Pair          string
	BidPrices     []float64
	BidQuantities []float64
	AskPrices     []float64
	AskQuantities []float64
	Spread        float64
	SpreadPct     float64
}

// ClosedOrder — закрытый ордер Kraken, отсортирован по closetm (новые первыми).
type ClosedOrder struct {
	TxID      string    `json:"txid"`
	Pair      string    `json:"pair"`
	Side      Side      `json:"side"`
	OrderType string    `json:"ordertype"`
	Price     float64   `json:"price"`
	Cost      float64   `json:"cost"`
	Volume    float64   `json:"vol"`
	Fee       float64   `json:"fee"`
	Status    string    `json:"status"`
	CloseTime time.Time `json:"closetm"`
	NiceTime  string    `json:"nice_time"`
}

type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// OrderRequest — собирается реконсайлером, исполняется координатором
// строго один раз за цикл.
type OrderRequest struct {
	Side       Side
	Type       OrderType
	Volume     float64
	Pair       string
	LimitPrice float64 // только для limit
}

// OrderResult — ответ AddOrder.
type OrderResult struct {
	TxIDs       []string
	Description string
}
