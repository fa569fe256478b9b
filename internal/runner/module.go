package runner

import (
	"context"

	"go.uber.org/fx"

	"github.com/Fermi-Capital/trading-streams-research/internal/account"
	"github.com/Fermi-Capital/trading-streams-research/internal/exchange"
	"github.com/Fermi-Capital/trading-streams-research/internal/journal"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
	"github.com/Fermi-Capital/trading-streams-research/internal/notify"
	"github.com/Fermi-Capital/trading-streams-research/pkg/db"
)

// Module — сборка цикла опроса: клиент биржи, сервис аккаунта, журнал,
// нотифайер и менеджер раннеров с lifecycle-хуками.
func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			exchange.NewClient,
			func(mx *exchange.Client, cfg *config.Config) *account.Service {
				return account.NewService(mx, cfg)
			},
			// типизированный nil в интерфейсе включил бы журнал вхолостую
			func(txm *db.PgTxManager) *journal.Journal {
				if txm == nil {
					return journal.New(nil)
				}
				return journal.New(txm)
			},
			notify.NewNotifier,
			NewManager,
		),
		fx.Invoke(Run),
	)
}

func Run(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			m.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			m.Stop()
			return nil
		},
	})
}
