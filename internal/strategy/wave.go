package strategy

import (
	"fmt"

	"github.com/Fermi-Capital/trading-streams-research/internal/indicator"
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Wave — вейвлет-денойз закрытий + поиск пиков/долин. Долина — BUY, пик —
// SELL, всё остальное HOLD. SignalDelay сдвигает сигналы вперёд, имитируя
// лаг исполнения.
type Wave struct {
	Level       int
	Prominence  float64
	Distance    int
	SignalDelay int
}

type WaveConfig struct {
	Level       int
	Prominence  float64
	Distance    int
	SignalDelay int
}

func NewWave(cfg WaveConfig) *Wave {
	if cfg.Level <= 0 {
		cfg.Level = 1
	}
	if cfg.Distance <= 0 {
		cfg.Distance = 10
	}
	return &Wave{
		Level:       cfg.Level,
		Prominence:  cfg.Prominence,
		Distance:    cfg.Distance,
		SignalDelay: cfg.SignalDelay,
	}
}

func (s *Wave) Name() string { return "wave" }

func (s *Wave) Evaluate(series models.CandleSeries) (models.Evaluation, error) {
	need := 4
	if s.Distance+2 > need {
		need = s.Distance + 2
	}
	if series.Len() < need {
		return models.Evaluation{}, &models.InsufficientDataError{Need: need, Got: series.Len()}
	}

	closes := series.Closes()
	denoised := indicator.Denoise(closes, s.Level)
	if len(denoised) != len(closes) {
		// не должно случаться: реконструкция обязана сохранять длину
		return models.Evaluation{}, &models.DataError{Msg: fmt.Sprintf(
			"wavelet reconstruction length mismatch: %d != %d", len(denoised), len(closes))}
	}

	peaks, valleys := indicator.FindExtrema(denoised, s.Prominence, s.Distance)

	signals := make([]models.Signal, len(closes))
	for _, p := range peaks {
		signals[p] = models.SignalSell
	}
	for _, v := range valleys {
		signals[v] = models.SignalBuy
	}

	if s.SignalDelay > 0 {
		signals = shiftForward(signals, s.SignalDelay)
	}

	idx := len(signals) - 1
	for i := len(signals) - 1; i >= 0; i-- {
		if signals[i] != models.SignalHold {
			idx = i
			break
		}
	}

	return models.Evaluation{
		Strategy: s.Name(),
		Signals:  signals,
		Index:    idx,
		Meta: map[string]any{
			"peaks":          peaks,
			"valleys":        valleys,
			"denoised_close": denoised[len(denoised)-1],
		},
	}, nil
}

// shiftForward — сигнал с индекса i уезжает на i+delay, начало забивается HOLD.
func shiftForward(signals []models.Signal, delay int) []models.Signal {
	out := make([]models.Signal, len(signals))
	for i := range signals {
		if i+delay < len(signals) {
			out[i+delay] = signals[i]
		}
	}
	return out
}
