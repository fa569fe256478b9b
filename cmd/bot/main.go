package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/Fermi-Capital/trading-streams-research/internal/modules/api"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/health"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/postgres"
	"github.com/Fermi-Capital/trading-streams-research/internal/runner"
	"github.com/Fermi-Capital/trading-streams-research/pkg/logger"
	"github.com/Fermi-Capital/trading-streams-research/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("signal-engine")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		runner.Module(),
		health.Module(),
		api.Module(),
		fx.Invoke(func(cfg *config.Config) {
			if cfg.Jaeger.Host == "" {
				return
			}
			tracing.SetServiceName("signal-engine")
			if _, _, err := tracing.InitTracer(tracing.Config{Host: cfg.Jaeger.Host, Port: cfg.Jaeger.Port}); err != nil {
				log.Printf("[TRACING] jaeger init failed: %v", err)
			}
		}),
	)
	app.Run()
}
