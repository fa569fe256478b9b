package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// OHLC — /0/public/OHLC. Отдаёт до ~720 последних свечей пары,
// время строго по возрастанию.
func (c *Client) OHLC(ctx context.Context, pair, interval string) (models.CandleSeries, error) {
	q := url.Values{}
	q.Set("pair", pair)
	q.Set("interval", interval)

	var raw map[string]json.RawMessage
	if err := c.public(ctx, "/0/public/OHLC", q, &raw); err != nil {
		return models.CandleSeries{}, err
	}

	// ключ результата — нормализованное имя пары, может отличаться от
	// запрошенного (XBTUSD -> XXBTZUSD); берём сам ключ либо единственный
	// кроме "last"
	rows, ok := raw[pair]
	if !ok {
		for k, v := range raw {
			if k == "last" {
				continue
			}
			rows = v
			ok = true
			break
		}
	}
	if !ok {
		return models.CandleSeries{}, &models.DataError{Msg: "OHLC: no candle rows for pair " + pair}
	}

	var rowList [][]json.RawMessage
	if err := json.Unmarshal(rows, &rowList); err != nil {
		return models.CandleSeries{}, &models.DataError{Msg: fmt.Sprintf("OHLC: decode rows: %v", err)}
	}

	series := models.CandleSeries{Pair: pair, Interval: interval, Candles: make([]models.Candle, 0, len(rowList))}
	for i, row := range rowList {
		// [time, "open","high","low","close","vwap","volume", count]
		if len(row) < 8 {
			return models.CandleSeries{}, &models.DataError{Msg: fmt.Sprintf("OHLC: short row at %d", i)}
		}
		var ts float64
		var count uint
		var o, h, l, cl, vw, vol string
		if err := json.Unmarshal(row[0], &ts); err != nil {
			return models.CandleSeries{}, &models.DataError{Msg: fmt.Sprintf("OHLC: bad time at %d: %v", i, err)}
		}
		for j, dst := range []*string{&o, &h, &l, &cl, &vw, &vol} {
			if err := json.Unmarshal(row[j+1], dst); err != nil {
				return models.CandleSeries{}, &models.DataError{Msg: fmt.Sprintf("OHLC: bad field %d at row %d: %v", j+1, i, err)}
			}
		}
		if err := json.Unmarshal(row[7], &count); err != nil {
			return models.CandleSeries{}, &models.DataError{Msg: fmt.Sprintf("OHLC: bad count at %d: %v", i, err)}
		}

		series.Candles = append(series.Candles, models.Candle{
			Time:   time.Unix(int64(ts), 0).UTC(),
			Open:   parseF(o),
			High:   parseF(h),
			Low:    parseF(l),
			Close:  parseF(cl),
			VWAP:   parseF(vw),
			Volume: parseF(vol),
			Count:  count,
		})
	}

	sort.Slice(series.Candles, func(i, j int) bool {
		return series.Candles[i].Time.Before(series.Candles[j].Time)
	})
	if err := series.Validate(); err != nil {
		return models.CandleSeries{}, err
	}
	return series, nil
}
