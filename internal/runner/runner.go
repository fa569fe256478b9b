package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/journal"
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	healthsvc "github.com/Fermi-Capital/trading-streams-research/internal/modules/health/service"
	"github.com/Fermi-Capital/trading-streams-research/internal/notify"
	"github.com/Fermi-Capital/trading-streams-research/internal/reconcile"
	"github.com/Fermi-Capital/trading-streams-research/internal/strategy"
	"github.com/Fermi-Capital/trading-streams-research/internal/tracker"
)

// CandleSource — кусок биржевого клиента для одного цикла опроса.
type CandleSource interface {
	OHLC(ctx context.Context, pair, interval string) (models.CandleSeries, error)
}

// OrderPlacer исполняет собранный реконсайлером запрос.
type OrderPlacer interface {
	AddOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
}

// PositionSource — свежая позиция по базовому активу, без кэша.
type PositionSource interface {
	Position(ctx context.Context) (models.AssetPosition, error)
}

// Settings — всё, что нужно одному раннеру. Раннер на (пара, интервал),
// состояние трекера принадлежит только ему.
type Settings struct {
	Pair     string
	Interval string
	Volume   float64
	// false = решения логируем и журналируем, ордера не шлём
	TradeEnabled bool

	Cadence time.Duration
	// true = спим до следующей границы Cadence по wall-clock,
	// false = фиксированная пауза между циклами
	Align   bool
	Backoff time.Duration
}

type Runner struct {
	set Settings
	key string

	engine   strategy.Engine
	trk      *tracker.Tracker
	candles  CandleSource
	orders   OrderPlacer
	position PositionSource

	n       notify.Notifier
	health  *healthsvc.State
	journal *journal.Journal
}

func New(set Settings, engine strategy.Engine, candles CandleSource, orders OrderPlacer, pos PositionSource,
	n notify.Notifier, health *healthsvc.State, jr *journal.Journal) *Runner {

	return &Runner{
		set:      set,
		key:      fmt.Sprintf("%s:%s:%s", set.Pair, set.Interval, engine.Name()),
		engine:   engine,
		trk:      tracker.New(),
		candles:  candles,
		orders:   orders,
		position: pos,
		n:        n,
		health:   health,
		journal:  jr,
	}
}

func (r *Runner) Key() string { return r.key }

// State — снимок состояния трекера (для API).
func (r *Runner) State() (models.SignalState, bool) { return r.trk.State(r.key) }

// Run — вечный цикл опроса. Любая ошибка цикла логируется и приводит к
// бэкоффу; процесс не умирает никогда. Выход только по ctx.
func (r *Runner) Run(ctx context.Context) {
	log.Printf("[RUNNER] ▶️ %s started, cadence=%s align=%v", r.key, r.set.Cadence, r.set.Align)

	for {
		if ctx.Err() != nil {
			log.Printf("[RUNNER] %s stopped", r.key)
			return
		}

		err := r.cycle(ctx)
		if r.health != nil {
			r.health.TouchCycle(err != nil)
		}

		delay := r.nextDelay(err != nil)
		select {
		case <-ctx.Done():
			log.Printf("[RUNNER] %s stopped", r.key)
			return
		case <-time.After(delay):
		}
	}
}

// nextDelay — бэкофф после ошибки, иначе каденс: фиксированный либо до
// следующей wall-clock границы.
func (r *Runner) nextDelay(failed bool) time.Duration {
	if failed {
		return r.set.Backoff
	}
	if !r.set.Align {
		return r.set.Cadence
	}
	now := time.Now()
	next := now.Truncate(r.set.Cadence).Add(r.set.Cadence)
	return next.Sub(now)
}

// cycle — один проход Fetching→Evaluating→Deciding→Submitting.
// Ошибка возвращается только когда цикл надо бэкоффить; "данных мало" и
// "данные битые" — это Hold-цикл, не ошибка ожидания.
func (r *Runner) cycle(ctx context.Context) error {
	// Останов не рвёт начатый сетевой вызов: начатый цикл доезжает до
	// конца (HTTP-таймаут клиента его ограничивает), отмена проверяется
	// только на границах циклов в Run. Брошенный на полпути AddOrder —
	// это ордер, судьба которого неизвестна.
	callCtx := context.WithoutCancel(ctx)

	// Fetching
	series, err := r.candles.OHLC(callCtx, r.set.Pair, r.set.Interval)
	if err != nil {
		if isDataErr(err) {
			log.Printf("[CYCLE] %s bad candle data, holding: %v", r.key, err)
			return nil
		}
		log.Printf("[CYCLE] %s fetch failed: %v", r.key, err)
		return err
	}

	// Evaluating: чисто, падать не на чем кроме кривого входа
	eval, err := r.engine.Evaluate(series)
	if err != nil {
		if isDataErr(err) {
			log.Printf("[CYCLE] %s evaluate holding: %v", r.key, err)
			return nil
		}
		log.Printf("[CYCLE] %s evaluate failed: %v", r.key, err)
		return err
	}

	// Deciding: трекер + позиция + реконсайлер
	st := r.trk.Update(r.key, series, eval.Signals)

	pos, err := r.position.Position(callCtx)
	if err != nil {
		log.Printf("[CYCLE] %s position fetch failed: %v", r.key, err)
		return err
	}

	dec := reconcile.Decide(st, pos, r.set.Pair, r.set.Volume)
	log.Printf("[CYCLE] %s signal=%s periods=%d balance=%.6f -> %s (%s)",
		r.key, st.LastNonZero, st.PeriodsSince, pos.Balance, dec.Action, dec.Reason)

	req, ok := reconcile.OrderFor(dec)
	if !ok {
		r.journal.Record(callCtx, r.key, dec, st, nil)
		return nil
	}

	// Submitting: не больше одного ордера за цикл, без авто-ретрая —
	// следующий цикл сам пересчитает баланс и перерешает
	if !r.set.TradeEnabled {
		log.Printf("[ORDER] %s dry-run %s %s vol=%.6f", r.key, req.Side, req.Pair, req.Volume)
		r.journal.Record(callCtx, r.key, dec, st, nil)
		return nil
	}

	res, err := r.orders.AddOrder(callCtx, req)
	if err != nil {
		r.journal.Record(callCtx, r.key, dec, st, nil)
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			log.Printf("[ORDER] ❗️ %s auth failure, check API keys: %v", r.key, err)
			return err
		}
		var rejErr *models.RejectedOrderError
		if errors.As(err, &rejErr) {
			log.Printf("[ORDER] %s rejected by exchange: %v", r.key, err)
			return nil
		}
		log.Printf("[ORDER] %s submit failed: %v", r.key, err)
		return err
	}

	log.Printf("[ORDER] ✅ %s %s %s vol=%.6f txids=%v", r.key, req.Side, req.Pair, req.Volume, res.TxIDs)
	r.n.Sendf("✅ [%s] %s %s vol=%.6f @ %.4f\n%s", r.set.Pair, req.Side, r.set.Interval, req.Volume,
		st.LastNonZeroPrice, res.Description)
	r.journal.Record(callCtx, r.key, dec, st, &res)
	return nil
}

// isDataErr — битые или недостаточные данные: цикл считается Hold.
func isDataErr(err error) bool {
	var dataErr *models.DataError
	var shortErr *models.InsufficientDataError
	return errors.As(err, &dataErr) || errors.As(err, &shortErr)
}
