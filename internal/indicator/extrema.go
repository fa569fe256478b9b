package indicator

import "sort"

// Поиск пиков в духе scipy.signal.find_peaks: локальные максимумы,
// фильтр по prominence, затем по минимальной дистанции (более высокие пики
// приоритетнее). Детерминизм: при равной высоте побеждает меньший индекс.

// FindExtrema возвращает индексы пиков и долин (долины — пики -signal).
func FindExtrema(signal []float64, prominence float64, minDistance int) (peaks, valleys []int) {
	peaks = FindPeaks(signal, prominence, minDistance)

	neg := make([]float64, len(signal))
	for i, v := range signal {
		neg[i] = -v
	}
	valleys = FindPeaks(neg, prominence, minDistance)
	return peaks, valleys
}

// Порядок фильтров как у scipy: сначала дистанция, потом prominence.
// Так рост prominence никогда не добавляет новых пиков.
func FindPeaks(x []float64, prominence float64, minDistance int) []int {
	cand := filterByDistance(x, localMaxima(x), minDistance)

	out := cand[:0]
	for _, p := range cand {
		if peakProminence(x, p) >= prominence {
			out = append(out, p)
		}
	}
	return out
}

// localMaxima — строгие локальные максимумы. Плато схлопывается в левый
// край (ранний индекс).
func localMaxima(x []float64) []int {
	var out []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i] <= x[i-1] {
			i++
			continue
		}
		// x[i] > x[i-1]; ищем конец плато
		j := i
		for j < n-1 && x[j+1] == x[i] {
			j++
		}
		if j < n-1 && x[j+1] < x[i] {
			out = append(out, i)
		}
		i = j + 1
	}
	return out
}

// peakProminence — как в scipy: идём влево/вправо до точки выше пика
// (или до края), берём минимумы на обоих отрезках; prominence = высота
// пика минус больший из двух минимумов.
func peakProminence(x []float64, p int) float64 {
	h := x[p]

	leftMin := h
	for i := p - 1; i >= 0; i-- {
		if x[i] > h {
			break
		}
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}

	rightMin := h
	for i := p + 1; i < len(x); i++ {
		if x[i] > h {
			break
		}
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return h - base
}

// filterByDistance — сначала более высокие пики, соседи ближе minDistance
// выбывают. При равной высоте раньше рассматривается меньший индекс.
func filterByDistance(x []float64, peaks []int, minDistance int) []int {
	if minDistance <= 1 || len(peaks) < 2 {
		sort.Ints(peaks)
		return peaks
	}

	order := make([]int, len(peaks))
	copy(order, peaks)
	sort.SliceStable(order, func(i, j int) bool {
		if x[order[i]] != x[order[j]] {
			return x[order[i]] > x[order[j]]
		}
		return order[i] < order[j]
	})

	removed := make(map[int]bool, len(peaks))
	for _, p := range order {
		if removed[p] {
			continue
		}
		for _, q := range peaks {
			if q == p || removed[q] {
				continue
			}
			if abs(q-p) < minDistance {
				removed[q] = true
			}
		}
	}

	out := make([]int, 0, len(peaks))
	for _, p := range peaks {
		if !removed[p] {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
