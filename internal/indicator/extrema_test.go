package indicator

import "testing"

// Ряд с тремя горбами и двумя долинами.
func humps() []float64 {
	var x []float64
	segment := func(from, to float64, steps int) {
		for i := 0; i < steps; i++ {
			x = append(x, from+(to-from)*float64(i)/float64(steps))
		}
	}
	segment(0, 10, 12)
	segment(10, 2, 12)
	segment(2, 8, 12)
	segment(8, 1, 12)
	segment(1, 12, 12)
	x = append(x, 0)
	return x
}

func TestFindPeaks_MinDistanceRespected(t *testing.T) {
	x := humps()
	peaks := FindPeaks(x, 0, 10)
	if len(peaks) == 0 {
		t.Fatal("no peaks found")
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i]-peaks[i-1] < 10 {
			t.Fatalf("peaks %d and %d closer than 10", peaks[i-1], peaks[i])
		}
	}
}

func TestFindPeaks_ProminenceMonotonic(t *testing.T) {
	x := humps()
	prev := -1
	for _, prom := range []float64{0, 1, 3, 5, 8, 20} {
		n := len(FindPeaks(x, prom, 10))
		if prev >= 0 && n > prev {
			t.Fatalf("prominence %v: %d peaks, more than previous %d", prom, n, prev)
		}
		prev = n
	}
}

func TestFindExtrema_ValleysAreNegatedPeaks(t *testing.T) {
	x := humps()
	peaks, valleys := FindExtrema(x, 1, 5)
	if len(peaks) == 0 || len(valleys) == 0 {
		t.Fatalf("peaks=%v valleys=%v", peaks, valleys)
	}
	for _, v := range valleys {
		if v == 0 || v == len(x)-1 {
			t.Fatalf("valley at boundary index %d", v)
		}
		if x[v-1] <= x[v] || x[v+1] <= x[v] {
			t.Fatalf("index %d is not a local minimum", v)
		}
	}
}

func TestFindPeaks_PlateauTakesEarliestIndex(t *testing.T) {
	x := []float64{0, 1, 3, 3, 3, 1, 0}
	peaks := FindPeaks(x, 0, 1)
	if len(peaks) != 1 || peaks[0] != 2 {
		t.Fatalf("peaks = %v, want [2]", peaks)
	}
}

func TestFindPeaks_TallerPeakWinsWithinDistance(t *testing.T) {
	x := []float64{0, 5, 0, 9, 0}
	peaks := FindPeaks(x, 0, 3)
	if len(peaks) != 1 || peaks[0] != 3 {
		t.Fatalf("peaks = %v, want [3]", peaks)
	}
}
