package models

// Signal — направление по одной свече: +1 buy, -1 sell, 0 hold.
type Signal int8

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Side как у раннера: "BUY"/"SELL" или пустая строка.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Evaluation — ответ стратегии по серии свечей.
// Signals посвечный: Signals[i] относится к Candles[i]. Index — свеча
// последнего ненулевого сигнала (len-1 для бинарных стратегий).
type Evaluation struct {
	Strategy string
	Signals  []Signal
	Index    int
	Meta     map[string]any
}

// SignalState — память трекера по ключу (пара, интервал, стратегия).
// Живёт столько, сколько живёт цикл опроса; рестарт процесса её сбрасывает.
type SignalState struct {
	Key        string
	LastSignal Signal

	// Последний ненулевой сигнал. Валиден только при HasNonZero.
	HasNonZero       bool
	LastNonZero      Signal
	LastNonZeroPrice float64
	// Сколько свечей прошло после последнего ненулевого сигнала.
	PeriodsSince int
}

// DecisionAction — итог сверки сигнала с балансом.
type DecisionAction int

const (
	NoAction DecisionAction = iota
	PlaceBuy
	PlaceSell
)

func (a DecisionAction) String() string {
	switch a {
	case PlaceBuy:
		return "PLACE_BUY"
	case PlaceSell:
		return "PLACE_SELL"
	default:
		return "NO_ACTION"
	}
}

type Decision struct {
	Action DecisionAction
	Pair   string
	Volume float64
	Reason string
}
