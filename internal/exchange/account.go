package exchange

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Balances — /0/private/Balance. Значения приходят строками.
func (c *Client) Balances(ctx context.Context) (map[string]float64, error) {
	var raw map[string]string
	if err := c.private(ctx, "/0/private/Balance", nil, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for asset, v := range raw {
		out[asset] = parseF(v)
	}
	return out, nil
}

// TradeBalance — /0/private/TradeBalance для валюты котировки (ZUSD).
func (c *Client) TradeBalance(ctx context.Context, asset string) (models.TradeBalance, error) {
	form := url.Values{}
	form.Set("asset", asset)

	var raw struct {
		EB string `json:"eb"`
		TB string `json:"tb"`
		MF string `json:"mf"`
	}
	if err := c.private(ctx, "/0/private/TradeBalance", form, &raw); err != nil {
		return models.TradeBalance{}, err
	}
	return models.TradeBalance{
		Equity:       parseF(raw.EB),
		TradeBalance: parseF(raw.TB),
		FreeMargin:   parseF(raw.MF),
	}, nil
}

type closedOrderRaw struct {
	Descr struct {
		Pair      string `json:"pair"`
		Type      string `json:"type"`
		OrderType string `json:"ordertype"`
		Price     string `json:"price"`
	} `json:"descr"`
	Status  string  `json:"status"`
	Cost    string  `json:"cost"`
	Vol     string  `json:"vol"`
	Fee     string  `json:"fee"`
	CloseTm float64 `json:"closetm"`
}

// ClosedOrders — /0/private/ClosedOrders, новые первыми по closetm.
func (c *Client) ClosedOrders(ctx context.Context) ([]models.ClosedOrder, error) {
	form := url.Values{}
	form.Set("trades", "true")

	var raw struct {
		Closed map[string]closedOrderRaw `json:"closed"`
	}
	if err := c.private(ctx, "/0/private/ClosedOrders", form, &raw); err != nil {
		return nil, err
	}

	out := make([]models.ClosedOrder, 0, len(raw.Closed))
	for txid, o := range raw.Closed {
		side := models.SideBuy
		if o.Descr.Type == "sell" {
			side = models.SideSell
		}
		closeTime := time.Unix(int64(o.CloseTm), 0).UTC()
		out = append(out, models.ClosedOrder{
			TxID:      txid,
			Pair:      o.Descr.Pair,
			Side:      side,
			OrderType: o.Descr.OrderType,
			Price:     parseF(o.Descr.Price),
			Cost:      parseF(o.Cost),
			Volume:    parseF(o.Vol),
			Fee:       parseF(o.Fee),
			Status:    o.Status,
			CloseTime: closeTime,
			NiceTime:  closeTime.Format("2006-01-02 15:04:05"),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CloseTime.Equal(out[j].CloseTime) {
			return out[i].CloseTime.After(out[j].CloseTime)
		}
		return out[i].TxID < out[j].TxID
	})
	return out, nil
}
