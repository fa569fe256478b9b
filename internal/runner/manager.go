package runner

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Fermi-Capital/trading-streams-research/internal/account"
	"github.com/Fermi-Capital/trading-streams-research/internal/exchange"
	"github.com/Fermi-Capital/trading-streams-research/internal/journal"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
	healthsvc "github.com/Fermi-Capital/trading-streams-research/internal/modules/health/service"
	"github.com/Fermi-Capital/trading-streams-research/internal/notify"
	"github.com/Fermi-Capital/trading-streams-research/internal/strategy"
)

// Manager поднимает по раннеру на каждый интервал из конфига. Раннеры
// независимы: у каждого свой трекер, общий только биржевой клиент.
type Manager struct {
	cfg     *config.Config
	mx      *exchange.Client
	acc     *account.Service
	n       notify.Notifier
	health  *healthsvc.State
	journal *journal.Journal

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	runners []*Runner
}

func NewManager(cfg *config.Config, mx *exchange.Client, acc *account.Service,
	n notify.Notifier, health *healthsvc.State, jr *journal.Journal) *Manager {

	m := &Manager{cfg: cfg, mx: mx, acc: acc, n: n, health: health, journal: jr}

	for _, spec := range cfg.Loop.Intervals {
		set := Settings{
			Pair:         cfg.PairName(),
			Interval:     spec.Interval,
			Volume:       cfg.Trade.Volume,
			TradeEnabled: cfg.Trade.Enabled,
			Cadence:      cfg.Loop.Cadence,
			Align:        cfg.Loop.Align,
			Backoff:      cfg.Loop.Backoff,
		}
		engine := strategy.NewEngineFor(cfg, spec.Prominence)
		m.runners = append(m.runners, New(set, engine, mx, mx, acc, n, health, jr))
	}
	return m
}

func (m *Manager) Runners() []*Runner { return m.runners }

func (m *Manager) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel

	if err := m.journal.Init(ctx); err != nil {
		log.Printf("[MANAGER] journal init: %v", err)
	}

	for _, r := range m.runners {
		m.wg.Add(1)
		go func(r *Runner) {
			defer m.wg.Done()
			r.Run(ctx)
		}(r)
	}

	if m.cfg.Stream.Enabled {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.streamTicker(ctx)
		}()
	}

	if m.health != nil {
		m.health.SetReady(true)
	}
	log.Printf("[MANAGER] %d runners started for %s", len(m.runners), m.cfg.PairName())
	m.n.Sendf("📈 %s started: %d intervals, strategy=%s trade=%v",
		m.cfg.PairName(), len(m.runners), m.cfg.Strategy.Name, m.cfg.Trade.Enabled)
}

// streamTicker — фоновый WS-тикер: греет кэш цен и health-состояние.
func (m *Manager) streamTicker(ctx context.Context) {
	ticks := m.mx.StreamTicker(ctx, []string{m.cfg.WSSymbol()})
	if m.health != nil {
		m.health.SetWSConnected(true)
		defer m.health.SetWSConnected(false)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			if m.health != nil {
				m.health.TouchTick(time.Now())
			}
		}
	}
}

// Stop — мягкая остановка: новые циклы не начинаются, начатые доезжают.
func (m *Manager) Stop() {
	if m.health != nil {
		m.health.SetReady(false)
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	log.Println("[MANAGER] all runners stopped")
}
