package strategy

import (
	"github.com/Fermi-Capital/trading-streams-research/internal/indicator"
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// EMACross — пересечение короткой и длинной EMA. Бинарная: hold не бывает,
// сторона определяется положением короткой относительно длинной на последней
// свече. execute_order в мете взводится только на свежем пересечении.
type EMACross struct {
	Short int
	Long  int
}

func NewEMACross(short, long int) *EMACross {
	if short <= 0 {
		short = 12
	}
	if long <= short {
		long = 26
	}
	return &EMACross{Short: short, Long: long}
}

func (s *EMACross) Name() string { return "ema" }

func (s *EMACross) Evaluate(series models.CandleSeries) (models.Evaluation, error) {
	need := s.Long
	if need < 3 {
		need = 3
	}
	if series.Len() < need {
		return models.Evaluation{}, &models.InsufficientDataError{Need: need, Got: series.Len()}
	}

	closes := series.Closes()
	shortEMA := indicator.EMA(closes, s.Short)
	longEMA := indicator.EMA(closes, s.Long)

	position := make([]int, len(closes))
	signals := make([]models.Signal, len(closes))
	for i := range closes {
		if shortEMA[i] > longEMA[i] {
			position[i] = 1
			signals[i] = models.SignalBuy
		} else {
			signals[i] = models.SignalSell
		}
	}

	last := len(closes) - 1
	// Исполняем только свежее пересечение: позиция сменилась на последней
	// свече. Три одинаковых подряд — точно не стреляем повторно.
	executeOrder := position[last] != position[last-1]

	return models.Evaluation{
		Strategy: s.Name(),
		Signals:  signals,
		Index:    last,
		Meta: map[string]any{
			"short_ema":     shortEMA[last],
			"long_ema":      longEMA[last],
			"position":      position[last],
			"execute_order": executeOrder,
		},
	}, nil
}
