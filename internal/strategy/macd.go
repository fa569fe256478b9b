package strategy

import (
	"github.com/Fermi-Capital/trading-streams-research/internal/indicator"
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// MACDCross — 12/26/9. Бинарная по построению: hist > 0 — BUY, иначе SELL,
// нулевого состояния нет (намеренно, не унифицируем с трёхзначными).
type MACDCross struct{}

func NewMACDCross() *MACDCross { return &MACDCross{} }

func (s *MACDCross) Name() string { return "macd" }

func (s *MACDCross) Evaluate(series models.CandleSeries) (models.Evaluation, error) {
	const need = 26 // медленное окно
	if series.Len() < need {
		return models.Evaluation{}, &models.InsufficientDataError{Need: need, Got: series.Len()}
	}

	res := indicator.MACD(series.Closes())

	signals := make([]models.Signal, len(res.Hist))
	for i, h := range res.Hist {
		if h > 0 {
			signals[i] = models.SignalBuy
		} else {
			signals[i] = models.SignalSell
		}
	}

	last := len(signals) - 1
	return models.Evaluation{
		Strategy: s.Name(),
		Signals:  signals,
		Index:    last,
		Meta: map[string]any{
			"macd":        res.MACD[last],
			"signal":      res.Signal[last],
			"hist":        res.Hist[last],
			"last_signal": res.Position[last],
		},
	}, nil
}
