package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

func seriesFromCloses(closes []float64) models.CandleSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Open:  c, High: c + 0.5, Low: c - 0.5, Close: c,
			VWAP: c, Volume: 1, Count: 1,
		}
	}
	return models.CandleSeries{Pair: "SOLUSD", Interval: "1", Candles: candles}
}

// 30 свечей с одной чистой долиной на индексе 15.
func valleyCloses() []float64 {
	closes := make([]float64, 30)
	for i := range closes {
		d := i - 15
		if d < 0 {
			d = -d
		}
		closes[i] = 100 + float64(d) // V-образный профиль, дно = 100
	}
	return closes
}

func TestWave_SingleCleanValley(t *testing.T) {
	w := NewWave(WaveConfig{Level: 1, Prominence: 5, Distance: 10})
	ev, err := w.Evaluate(seriesFromCloses(valleyCloses()))
	if err != nil {
		t.Fatal(err)
	}

	buys := 0
	for i, s := range ev.Signals {
		if s == models.SignalBuy {
			buys++
			if i < 13 || i > 17 {
				t.Fatalf("buy signal at unexpected index %d", i)
			}
		}
		if s == models.SignalSell {
			t.Fatalf("unexpected sell at index %d", i)
		}
	}
	if buys != 1 {
		t.Fatalf("buys = %d, want 1", buys)
	}
}

func TestWave_SignalDelayShiftsForward(t *testing.T) {
	base := NewWave(WaveConfig{Level: 1, Prominence: 5, Distance: 10})
	delayed := NewWave(WaveConfig{Level: 1, Prominence: 5, Distance: 10, SignalDelay: 3})

	series := seriesFromCloses(valleyCloses())
	evBase, err := base.Evaluate(series)
	if err != nil {
		t.Fatal(err)
	}
	evDelayed, err := delayed.Evaluate(series)
	if err != nil {
		t.Fatal(err)
	}

	for i, s := range evBase.Signals {
		if s == models.SignalHold {
			continue
		}
		if i+3 >= len(evDelayed.Signals) {
			continue
		}
		if evDelayed.Signals[i+3] != s {
			t.Fatalf("signal at %d not shifted to %d", i, i+3)
		}
	}
	for i := 0; i < 3; i++ {
		if evDelayed.Signals[i] != models.SignalHold {
			t.Fatalf("leading index %d not hold after delay", i)
		}
	}
}

func TestWave_Deterministic(t *testing.T) {
	w := NewWave(WaveConfig{Level: 2, Prominence: 2, Distance: 5})
	series := seriesFromCloses(valleyCloses())

	a, err := w.Evaluate(series)
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.Evaluate(series)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Signals) != len(b.Signals) {
		t.Fatal("length mismatch")
	}
	for i := range a.Signals {
		if a.Signals[i] != b.Signals[i] {
			t.Fatalf("non-deterministic signal at %d", i)
		}
	}
}

func TestWave_InsufficientData(t *testing.T) {
	w := NewWave(WaveConfig{Level: 1, Prominence: 1, Distance: 10})
	_, err := w.Evaluate(seriesFromCloses([]float64{1, 2, 3}))
	var insufficientErr *models.InsufficientDataError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("err = %v, want InsufficientDataError", err)
	}
}
