package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Depth — /0/public/Depth. Уровни приходят лучшими первыми:
// биды по убыванию цены, аски по возрастанию.
func (c *Client) Depth(ctx context.Context, pair string, count int) (models.BookDepth, error) {
	q := url.Values{}
	q.Set("pair", pair)
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}

	var raw map[string]json.RawMessage
	if err := c.public(ctx, "/0/public/Depth", q, &raw); err != nil {
		return models.BookDepth{}, err
	}

	rows, ok := raw[pair]
	if !ok {
		for _, v := range raw {
			rows = v
			ok = true
			break
		}
	}
	if !ok {
		return models.BookDepth{}, &models.DataError{Msg: "Depth: no book for pair " + pair}
	}

	var book struct {
		Asks [][3]json.RawMessage `json:"asks"`
		Bids [][3]json.RawMessage `json:"bids"`
	}
	if err := json.Unmarshal(rows, &book); err != nil {
		return models.BookDepth{}, &models.DataError{Msg: fmt.Sprintf("Depth: decode book: %v", err)}
	}

	out := models.BookDepth{Pair: pair}
	var err error
	if out.AskPrices, out.AskQuantities, err = decodeLevels(book.Asks); err != nil {
		return models.BookDepth{}, &models.DataError{Msg: "Depth: asks: " + err.Error()}
	}
	if out.BidPrices, out.BidQuantities, err = decodeLevels(book.Bids); err != nil {
		return models.BookDepth{}, &models.DataError{Msg: "Depth: bids: " + err.Error()}
	}

	if len(out.AskPrices) > 0 && len(out.BidPrices) > 0 {
		out.Spread = out.AskPrices[0] - out.BidPrices[0]
		if out.AskPrices[0] > 0 {
			out.SpreadPct = out.Spread / out.AskPrices[0] * 100
		}
	}
	return out, nil
}

// decodeLevels — уровень [price, volume, timestamp], цены и объёмы строками.
func decodeLevels(levels [][3]json.RawMessage) (prices, qtys []float64, err error) {
	prices = make([]float64, 0, len(levels))
	qtys = make([]float64, 0, len(levels))
	for i, lvl := range levels {
		var p, q string
		if err := json.Unmarshal(lvl[0], &p); err != nil {
			return nil, nil, fmt.Errorf("bad price at level %d: %w", i, err)
		}
		if err := json.Unmarshal(lvl[1], &q); err != nil {
			return nil, nil, fmt.Errorf("bad volume at level %d: %w", i, err)
		}
		prices = append(prices, parseF(p))
		qtys = append(qtys, parseF(q))
	}
	return prices, qtys, nil
}
