package strategy

import (
	"testing"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 10 + float64(i)
	}
	return out
}

func TestEMACross_SteadyTrendDoesNotRefire(t *testing.T) {
	s := NewEMACross(3, 5)
	ev, err := s.Evaluate(seriesFromCloses(risingCloses(30)))
	if err != nil {
		t.Fatal(err)
	}

	if got := ev.Signals[len(ev.Signals)-1]; got != models.SignalBuy {
		t.Fatalf("last signal = %v, want BUY", got)
	}
	if ev.Meta["execute_order"].(bool) {
		t.Fatal("execute_order = true on steady trend")
	}
}

func TestEMACross_FreshCrossFires(t *testing.T) {
	s := NewEMACross(3, 5)
	closes := append(risingCloses(30), 0) // обвал на последней свече
	ev, err := s.Evaluate(seriesFromCloses(closes))
	if err != nil {
		t.Fatal(err)
	}

	if got := ev.Signals[len(ev.Signals)-1]; got != models.SignalSell {
		t.Fatalf("last signal = %v, want SELL", got)
	}
	if !ev.Meta["execute_order"].(bool) {
		t.Fatal("execute_order = false right after cross")
	}
}

func TestEMACross_NeverHolds(t *testing.T) {
	s := NewEMACross(3, 5)
	ev, err := s.Evaluate(seriesFromCloses(risingCloses(12)))
	if err != nil {
		t.Fatal(err)
	}
	for i, sig := range ev.Signals {
		if sig == models.SignalHold {
			t.Fatalf("hold at index %d: ema strategy is binary", i)
		}
	}
}

func TestMACDCross_Binary(t *testing.T) {
	s := NewMACDCross()
	closes := risingCloses(40)
	ev, err := s.Evaluate(seriesFromCloses(closes))
	if err != nil {
		t.Fatal(err)
	}
	for i, sig := range ev.Signals {
		if sig == models.SignalHold {
			t.Fatalf("hold at index %d: macd strategy is binary", i)
		}
	}
	if got := ev.Signals[len(ev.Signals)-1]; got != models.SignalBuy {
		t.Fatalf("last signal = %v, want BUY on rising series", got)
	}
}

func TestMACDCross_InsufficientData(t *testing.T) {
	s := NewMACDCross()
	if _, err := s.Evaluate(seriesFromCloses(risingCloses(10))); err == nil {
		t.Fatal("expected error on short series")
	}
}
