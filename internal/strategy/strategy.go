package strategy

import (
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Engine — то, что раннер дергает раз в цикл. Оценка чистая: одна и та же
// серия всегда даёт один и тот же результат.
type Engine interface {
	Evaluate(series models.CandleSeries) (models.Evaluation, error)
	Name() string
}
