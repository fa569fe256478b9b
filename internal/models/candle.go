package models

import (
	"fmt"
	"time"
)

// Candle — одна OHLC-свеча Kraken. Все ценовые поля уже приведены к float64
// (API отдаёт строки, кроме time и count).
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	VWAP   float64
	Volume float64
	Count  uint
}

// CandleSeries — упорядоченный ряд свечей одной пары и интервала.
// Внутри одного цикла оценки серия read-only.
type CandleSeries struct {
	Pair     string
	Interval string // минуты, как у Kraken: "1","5","15","60","1440"
	Candles  []Candle
}

func (s CandleSeries) Len() int { return len(s.Candles) }

func (s CandleSeries) Last() Candle {
	if len(s.Candles) == 0 {
		return Candle{}
	}
	return s.Candles[len(s.Candles)-1]
}

// Closes — срез цен закрытия в порядке времени.
func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Validate — время должно строго возрастать, дубликаты недопустимы.
func (s CandleSeries) Validate() error {
	for i := 1; i < len(s.Candles); i++ {
		if !s.Candles[i].Time.After(s.Candles[i-1].Time) {
			return &DataError{Msg: fmt.Sprintf(
				"candle series %s/%s: non-increasing time at index %d", s.Pair, s.Interval, i)}
		}
	}
	return nil
}
