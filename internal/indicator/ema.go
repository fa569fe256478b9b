package indicator

// EMA — рекуррентное экспоненциальное сглаживание, alpha = 2/(span+1).
// Первое значение = первому элементу ряда, без заглядывания вперёд.
// Длина выхода всегда равна длине входа.
func EMA(values []float64, span int) []float64 {
	if span < 1 {
		span = 1
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACDResult — классический 12/26/9.
// Position бинарный: 1 где macd > signal, иначе 0 (hold/long конвенция,
// без -1 — так считает исходная стратегия).
type MACDResult struct {
	MACD     []float64
	Signal   []float64
	Hist     []float64
	Position []int
}

func MACD(closes []float64) MACDResult {
	fast := EMA(closes, 12)
	slow := EMA(closes, 26)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal := EMA(macd, 9)

	hist := make([]float64, len(closes))
	pos := make([]int, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
		if macd[i] > signal[i] {
			pos[i] = 1
		}
	}
	return MACDResult{MACD: macd, Signal: signal, Hist: hist, Position: pos}
}
