package strategy

import (
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
)

// NewEngineFor собирает движок по настройкам. Prominence приходит отдельно:
// у wave она своя на каждый интервал (чем крупнее свеча, тем больше порог).
func NewEngineFor(cfg *config.Config, prominence float64) Engine {
	switch cfg.Strategy.Name {
	case "ema":
		return NewEMACross(cfg.Strategy.EMAShort, cfg.Strategy.EMALong)

	case "macd":
		return NewMACDCross()

	case "wave", "":
		fallthrough
	default:
		return NewWave(WaveConfig{
			Level:       cfg.Strategy.Level,
			Prominence:  prominence,
			Distance:    cfg.Strategy.Distance,
			SignalDelay: cfg.Strategy.SignalDelay,
		})
	}
}
