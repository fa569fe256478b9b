package tracker

import (
	"testing"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

func series(closes ...float64) models.CandleSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{Time: start.Add(time.Duration(i) * time.Minute), Close: c}
	}
	return models.CandleSeries{Pair: "SOLUSD", Interval: "1", Candles: candles}
}

const key = "SOLUSD/1/wave"

func TestUpdate_FindsLastNonZero(t *testing.T) {
	tr := New()
	s := series(10, 11, 12, 13, 14)
	signals := []models.Signal{0, 1, 0, -1, 0}

	st := tr.Update(key, s, signals)

	if !st.HasNonZero || st.LastNonZero != models.SignalSell {
		t.Fatalf("state = %+v, want last non-zero SELL", st)
	}
	if st.LastNonZeroPrice != 13 {
		t.Errorf("price = %v, want 13", st.LastNonZeroPrice)
	}
	if st.PeriodsSince != 1 {
		t.Errorf("periods = %d, want 1", st.PeriodsSince)
	}
	if st.LastSignal != models.SignalHold {
		t.Errorf("last signal = %v, want HOLD", st.LastSignal)
	}
}

func TestUpdate_AllHoldPreservesBiasAndCountsPeriods(t *testing.T) {
	tr := New()
	tr.Update(key, series(10, 11, 12), []models.Signal{0, 1, 0})

	holds := []models.Signal{0, 0, 0, 0}
	st := tr.Update(key, series(13, 14, 15, 16), holds)

	if st.LastNonZero != models.SignalBuy {
		t.Fatalf("bias erased by all-hold cycle: %+v", st)
	}
	if st.LastNonZeroPrice != 11 {
		t.Errorf("price = %v, want 11", st.LastNonZeroPrice)
	}
	// было 1, плюс 4 увиденных HOLD-свечи
	if st.PeriodsSince != 5 {
		t.Errorf("periods = %d, want 5", st.PeriodsSince)
	}
	if st.LastSignal != models.SignalHold {
		t.Errorf("last signal = %v, want HOLD", st.LastSignal)
	}
}

func TestUpdate_FirstRunAllHold(t *testing.T) {
	tr := New()
	st := tr.Update(key, series(10, 11), []models.Signal{0, 0})
	if st.HasNonZero {
		t.Fatalf("state = %+v, want no non-zero yet", st)
	}
	if st.PeriodsSince != 0 {
		t.Errorf("periods = %d, want 0 before any signal", st.PeriodsSince)
	}
}

func TestUpdate_KeysAreIndependent(t *testing.T) {
	tr := New()
	tr.Update("SOLUSD/1/wave", series(10, 11), []models.Signal{0, 1})
	st := tr.Update("SOLUSD/5/wave", series(10, 11), []models.Signal{0, 0})
	if st.HasNonZero {
		t.Fatal("state leaked across keys")
	}
}

func TestUpdate_NewNonZeroOverridesOld(t *testing.T) {
	tr := New()
	tr.Update(key, series(10, 11), []models.Signal{0, 1})
	st := tr.Update(key, series(12, 13), []models.Signal{-1, 0})

	if st.LastNonZero != models.SignalSell || st.LastNonZeroPrice != 12 {
		t.Fatalf("state = %+v, want SELL @ 12", st)
	}
	if st.PeriodsSince != 1 {
		t.Errorf("periods = %d, want 1", st.PeriodsSince)
	}
}
