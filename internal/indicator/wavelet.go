package indicator

import "math"

// Вейвлет-шумоподавление ряда закрытий: многоуровневое разложение Хаара,
// мягкий порог 0.05*max|коэффициент| на каждом уровне деталей, реконструкция.
// Длина выхода всегда равна длине входа (нечётные уровни паддятся краем и
// обрезаются при сборке).

const defaultThresholdFactor = 0.05

var sqrt2 = math.Sqrt2

// Denoise возвращает сглаженный ряд той же длины, что и вход.
func Denoise(values []float64, level int) []float64 {
	return denoise(values, level, defaultThresholdFactor)
}

func denoise(values []float64, level int, factor float64) []float64 {
	if len(values) < 2 || level < 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	approx, details, lengths := wavedec(values, level)

	for _, d := range details {
		thr := factor * maxAbs(d)
		softThreshold(d, thr)
	}

	return waverec(approx, details, lengths, len(values))
}

// wavedec — каскад Хаара. details[0] — самый глубокий уровень,
// lengths[i] — длина сигнала, из которого получен соответствующий уровень
// (нужна для обрезки при реконструкции).
func wavedec(values []float64, level int) (approx []float64, details [][]float64, lengths []int) {
	cur := make([]float64, len(values))
	copy(cur, values)

	for l := 0; l < level && len(cur) >= 2; l++ {
		a, d := haarStep(cur)
		details = append([][]float64{d}, details...)
		lengths = append([]int{len(cur)}, lengths...)
		cur = a
	}
	return cur, details, lengths
}

func waverec(approx []float64, details [][]float64, lengths []int, n int) []float64 {
	cur := approx
	for i, d := range details {
		cur = haarInverse(cur, d)
		if len(cur) > lengths[i] {
			cur = cur[:lengths[i]]
		}
	}
	if len(cur) > n {
		cur = cur[:n]
	}
	return cur
}

// haarStep — один уровень: пары (x0,x1) -> (сумма, разность)/sqrt(2).
// Нечётный хвост дублируется краем, как pywt в режиме по умолчанию.
func haarStep(x []float64) (approx, detail []float64) {
	n := len(x)
	if n%2 != 0 {
		x = append(append([]float64{}, x...), x[n-1])
		n++
	}
	approx = make([]float64, n/2)
	detail = make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		approx[i] = (x[2*i] + x[2*i+1]) / sqrt2
		detail[i] = (x[2*i] - x[2*i+1]) / sqrt2
	}
	return approx, detail
}

func haarInverse(approx, detail []float64) []float64 {
	n := len(approx)
	if len(detail) < n {
		n = len(detail)
	}
	out := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		out[2*i] = (approx[i] + detail[i]) / sqrt2
		out[2*i+1] = (approx[i] - detail[i]) / sqrt2
	}
	return out
}

func softThreshold(d []float64, thr float64) {
	if thr <= 0 {
		return
	}
	for i, v := range d {
		switch {
		case v > thr:
			d[i] = v - thr
		case v < -thr:
			d[i] = v + thr
		default:
			d[i] = 0
		}
	}
}

func maxAbs(xs []float64) float64 {
	m := 0.0
	for _, v := range xs {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
