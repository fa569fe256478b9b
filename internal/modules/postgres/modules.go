package postgres

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"

	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
	"github.com/Fermi-Capital/trading-streams-research/pkg/db"
)

// Module — пул Postgres для журнала решений. Без DSN менеджер nil,
// журнал тогда работает вхолостую.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					log.Println("[PG] no DSN configured, journal disabled")
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}
