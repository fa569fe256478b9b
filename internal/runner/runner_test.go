package runner

import (
	"context"
	"testing"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	"github.com/Fermi-Capital/trading-streams-research/internal/notify"
	"github.com/Fermi-Capital/trading-streams-research/internal/strategy"
)

type fakeCandles struct {
	series models.CandleSeries
	err    error
	calls  int
}

func (f *fakeCandles) OHLC(ctx context.Context, pair, interval string) (models.CandleSeries, error) {
	f.calls++
	if f.err != nil {
		return models.CandleSeries{}, f.err
	}
	return f.series, nil
}

type fakeOrders struct {
	placed []models.OrderRequest
	err    error
}

func (f *fakeOrders) AddOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	f.placed = append(f.placed, req)
	if f.err != nil {
		return models.OrderResult{}, f.err
	}
	return models.OrderResult{TxIDs: []string{"TX-1"}}, nil
}

type fakePosition struct {
	balance float64
	err     error
}

func (f *fakePosition) Position(ctx context.Context) (models.AssetPosition, error) {
	if f.err != nil {
		return models.AssetPosition{}, f.err
	}
	return models.AssetPosition{Asset: "SOL", Balance: f.balance}, nil
}

func valleySeries() models.CandleSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 30)
	for i := range candles {
		d := i - 15
		if d < 0 {
			d = -d
		}
		c := 100 + float64(d) // одна чистая долина на 15-м индексе
		candles[i] = models.Candle{
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: c, High: c + 0.5, Low: c - 0.5, Close: c,
			VWAP: c, Volume: 1, Count: 1,
		}
	}
	return models.CandleSeries{Pair: "SOLUSD", Interval: "1", Candles: candles}
}

func testSettings() Settings {
	return Settings{
		Pair:         "SOLUSD",
		Interval:     "1",
		Volume:       0.05,
		TradeEnabled: true,
		Cadence:      time.Second,
		Backoff:      time.Second,
	}
}

func waveEngine() strategy.Engine {
	return strategy.NewWave(strategy.WaveConfig{Level: 1, Prominence: 5, Distance: 10})
}

func TestCycleValleyFlatBalancePlacesBuy(t *testing.T) {
	candles := &fakeCandles{series: valleySeries()}
	orders := &fakeOrders{}
	pos := &fakePosition{balance: 0}

	r := New(testSettings(), waveEngine(), candles, orders, pos, notify.NewStdout(), nil, nil)

	if err := r.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(orders.placed) != 1 {
		t.Fatalf("orders placed = %d, want 1", len(orders.placed))
	}
	got := orders.placed[0]
	if got.Side != models.SideBuy || got.Type != models.OrderMarket {
		t.Errorf("order = %+v, want market buy", got)
	}
	if got.Volume != 0.05 {
		t.Errorf("volume = %v, want configured 0.05", got.Volume)
	}
	if got.Pair != "SOLUSD" {
		t.Errorf("pair = %s, want SOLUSD", got.Pair)
	}
}

func TestCycleTransportFailureNoOrder(t *testing.T) {
	candles := &fakeCandles{err: &models.TransportError{Op: "OHLC"}}
	orders := &fakeOrders{}
	pos := &fakePosition{}

	r := New(testSettings(), waveEngine(), candles, orders, pos, notify.NewStdout(), nil, nil)

	if err := r.cycle(context.Background()); err == nil {
		t.Fatal("transport failure must surface as cycle error for backoff")
	}
	if len(orders.placed) != 0 {
		t.Fatalf("orders placed = %d, want 0 on transport failure", len(orders.placed))
	}
}

// Повторный цикл после покупки: баланс уже ненулевой, уклон всё ещё BUY —
// второго ордера быть не должно.
func TestCycleNoDuplicateBuyWhenHolding(t *testing.T) {
	candles := &fakeCandles{series: valleySeries()}
	orders := &fakeOrders{}
	pos := &fakePosition{balance: 0}

	r := New(testSettings(), waveEngine(), candles, orders, pos, notify.NewStdout(), nil, nil)

	if err := r.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	// ордер исполнился, на счету появился актив
	pos.balance = 0.05
	if err := r.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(orders.placed) != 1 {
		t.Fatalf("orders placed = %d, want exactly 1 across repeated cycles", len(orders.placed))
	}
}

func TestCycleInsufficientDataIsHoldNotError(t *testing.T) {
	short := valleySeries()
	short.Candles = short.Candles[:3]
	candles := &fakeCandles{series: short}
	orders := &fakeOrders{}

	r := New(testSettings(), waveEngine(), candles, orders, &fakePosition{}, notify.NewStdout(), nil, nil)

	if err := r.cycle(context.Background()); err != nil {
		t.Fatalf("insufficient data must be a hold cycle, got error: %v", err)
	}
	if len(orders.placed) != 0 {
		t.Fatal("no order expected on insufficient data")
	}
}

func TestCycleDryRunSkipsSubmit(t *testing.T) {
	set := testSettings()
	set.TradeEnabled = false
	candles := &fakeCandles{series: valleySeries()}
	orders := &fakeOrders{}

	r := New(set, waveEngine(), candles, orders, &fakePosition{balance: 0}, notify.NewStdout(), nil, nil)

	if err := r.cycle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(orders.placed) != 0 {
		t.Fatalf("dry-run placed %d orders, want 0", len(orders.placed))
	}
}

func TestCycleRejectedOrderIsNotBackoff(t *testing.T) {
	candles := &fakeCandles{series: valleySeries()}
	orders := &fakeOrders{err: &models.RejectedOrderError{Op: "AddOrder", Msgs: []string{"EFunds:Insufficient funds"}}}

	r := New(testSettings(), waveEngine(), candles, orders, &fakePosition{balance: 0}, notify.NewStdout(), nil, nil)

	if err := r.cycle(context.Background()); err != nil {
		t.Fatalf("rejected order must not trigger backoff: %v", err)
	}
}

// blockingOrders виснет в AddOrder до release и запоминает, видел ли
// его контекст отмену.
type blockingOrders struct {
	entered chan struct{}
	release chan struct{}
	ctxErr  error
	placed  int
}

func (b *blockingOrders) AddOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	close(b.entered)
	<-b.release
	b.ctxErr = ctx.Err()
	b.placed++
	return models.OrderResult{TxIDs: []string{"TX-1"}}, nil
}

// Останов посреди Submitting не должен рвать уже начатый ордер: вызов
// доезжает до конца, отмена берётся только на границе циклов.
func TestCycleSubmitSurvivesCancel(t *testing.T) {
	candles := &fakeCandles{series: valleySeries()}
	orders := &blockingOrders{entered: make(chan struct{}), release: make(chan struct{})}

	r := New(testSettings(), waveEngine(), candles, orders, &fakePosition{balance: 0}, notify.NewStdout(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.cycle(ctx) }()

	<-orders.entered
	cancel() // останов пока AddOrder в полёте
	close(orders.release)

	if err := <-done; err != nil {
		t.Fatalf("cycle failed after cancel mid-submit: %v", err)
	}
	if orders.placed != 1 {
		t.Fatalf("orders placed = %d, want 1", orders.placed)
	}
	if orders.ctxErr != nil {
		t.Fatalf("in-flight order saw cancellation: %v", orders.ctxErr)
	}
}

func TestNextDelayAligned(t *testing.T) {
	set := testSettings()
	set.Align = true
	set.Cadence = time.Minute
	r := New(set, waveEngine(), &fakeCandles{}, &fakeOrders{}, &fakePosition{}, notify.NewStdout(), nil, nil)

	d := r.nextDelay(false)
	if d <= 0 || d > time.Minute {
		t.Errorf("aligned delay = %v, want within (0, 1m]", d)
	}

	if got := r.nextDelay(true); got != set.Backoff {
		t.Errorf("failed-cycle delay = %v, want backoff %v", got, set.Backoff)
	}
}
