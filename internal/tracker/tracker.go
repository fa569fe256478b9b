package tracker

import (
	"sync"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Tracker — память "последнего ненулевого сигнала" по ключу
// (пара, интервал, стратегия). Один экземпляр на один раннер, без шаринга
// между горутинами; мьютекс только на случай чтения состояния из API.
//
// Плоский интервал (сплошные HOLD) не стирает действующий уклон: ненулевые
// поля остаются от прошлого цикла, а счётчик периодов растёт на длину
// увиденной последовательности.
type Tracker struct {
	mu     sync.Mutex
	states map[string]*models.SignalState
}

func New() *Tracker {
	return &Tracker{states: make(map[string]*models.SignalState)}
}

// Update прокатывает свежую посвечную последовательность сигналов через
// состояние ключа и возвращает снимок.
func (t *Tracker) Update(key string, series models.CandleSeries, signals []models.Signal) models.SignalState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[key]
	if !ok {
		st = &models.SignalState{Key: key}
		t.states[key] = st
	}

	if len(signals) == 0 {
		return *st
	}

	st.LastSignal = signals[len(signals)-1]

	lastIdx := -1
	for i := len(signals) - 1; i >= 0; i-- {
		if signals[i] != models.SignalHold {
			lastIdx = i
			break
		}
	}

	if lastIdx >= 0 {
		st.HasNonZero = true
		st.LastNonZero = signals[lastIdx]
		st.PeriodsSince = len(signals) - 1 - lastIdx
		if lastIdx < series.Len() {
			st.LastNonZeroPrice = series.Candles[lastIdx].Close
		}
	} else if st.HasNonZero {
		// вся последовательность нулевая — уклон сохраняем, периоды копим
		st.PeriodsSince += len(signals)
	}

	return *st
}

// State — снимок состояния без обновления (для API/health).
func (t *Tracker) State(key string) (models.SignalState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[key]
	if !ok {
		return models.SignalState{}, false
	}
	return *st, true
}
