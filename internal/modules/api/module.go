package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"

	"github.com/Fermi-Capital/trading-streams-research/internal/account"
	"github.com/Fermi-Capital/trading-streams-research/internal/exchange"
	"github.com/Fermi-Capital/trading-streams-research/internal/indicator"
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
)

// Gateway — приватный HTTP API: сводка аккаунта, закрытые ордера, MACD
// по текущей паре и ручной запуск ордера.
type Gateway struct {
	cfg *config.Config
	mx  *exchange.Client
	acc *account.Service
}

func NewGateway(cfg *config.Config, mx *exchange.Client, acc *account.Service) *Gateway {
	return &Gateway{cfg: cfg, mx: mx, acc: acc}
}

func (g *Gateway) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Private API"))
	})
	mux.HandleFunc("/account", g.handleAccount)
	mux.HandleFunc("/closed-orders", g.handleClosedOrders)
	mux.HandleFunc("/macd", g.handleMACD)
	mux.HandleFunc("/execute-order", g.handleExecuteOrder)
	return mux
}

func (g *Gateway) handleAccount(w http.ResponseWriter, r *http.Request) {
	summary, err := g.acc.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]any{"account": summary})
}

func (g *Gateway) handleClosedOrders(w http.ResponseWriter, r *http.Request) {
	closed, err := g.mx.ClosedOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	buy := make([]models.ClosedOrder, 0, len(closed))
	sell := make([]models.ClosedOrder, 0, len(closed))
	for _, o := range closed {
		if o.Side == models.SideBuy {
			buy = append(buy, o)
		} else {
			sell = append(sell, o)
		}
	}
	writeJSON(w, map[string]any{
		"closed":      closed,
		"closed_buy":  buy,
		"closed_sell": sell,
	})
}

func (g *Gateway) handleMACD(w http.ResponseWriter, r *http.Request) {
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = g.cfg.Loop.Intervals[0].Interval
	}

	series, err := g.mx.OHLC(r.Context(), g.cfg.PairName(), interval)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	res := indicator.MACD(series.Closes())
	rows := make([]map[string]any, series.Len())
	for i := range rows {
		rows[i] = map[string]any{
			"time":     series.Candles[i].Time.Unix(),
			"close":    series.Candles[i].Close,
			"macd":     res.MACD[i],
			"signal":   res.Signal[i],
			"hist":     res.Hist[i],
			"position": res.Position[i],
		}
	}
	writeJSON(w, rows)
}

func (g *Gateway) handleExecuteOrder(w http.ResponseWriter, r *http.Request) {
	side := models.SideBuy
	if r.URL.Query().Get("side") == "sell" {
		side = models.SideSell
	}

	req := models.OrderRequest{
		Side:   side,
		Type:   models.OrderMarket,
		Volume: g.cfg.Trade.Volume,
		Pair:   g.cfg.PairName(),
	}
	res, err := g.mx.AddOrder(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, res)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	raw, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(raw)
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, g *Gateway) {
	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           g.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(NewGateway),
		fx.Invoke(RunHTTP),
	)
}
