package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestPercentiles_LinearInterpolation(t *testing.T) {
	x := []float64{4, 1, 3, 2}
	ps := []float64{0, 25, 50, 75, 100, -5, 150}
	want := []float64{1, 1.75, 2.5, 3.25, 4, 1, 4}
	got := Percentiles(x, ps...)
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-12) {
			t.Errorf("Percentiles p=%v = %v, want %v", ps[i], got[i], want[i])
		}
	}
	if x[0] != 4 || x[1] != 1 {
		t.Fatalf("Percentiles modified its input: %v", x)
	}
	if got := Percentiles([]float64{5, 1, 3}, 50); got[0] != 3 {
		t.Fatalf("median = %v, want 3", got[0])
	}
	if got := Percentiles(nil, 50); got[0] != 0 {
		t.Fatalf("Percentiles(nil) = %v, want 0", got[0])
	}
	if got := Percentiles(x); len(got) != 0 {
		t.Fatalf("no percentiles requested, got %v", got)
	}
}

func TestSampleStd(t *testing.T) {
	// population std of this set is 2, the sample std is sqrt(32/7)
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got, want := SampleStd(x), math.Sqrt(32.0/7.0); !almostEqual(got, want, 1e-12) {
		t.Fatalf("SampleStd = %v, want %v", got, want)
	}
	if got := SampleStd([]float64{3}); !math.IsNaN(got) {
		t.Fatalf("SampleStd of one value = %v, want NaN", got)
	}
}

func TestMinMaxAndMean(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 8, 2})
	if lo != -1 || hi != 8 {
		t.Fatalf("MinMax = (%v, %v), want (-1, 8)", lo, hi)
	}
	if m := Mean([]float64{1, 2, 3, 6}); m != 3 {
		t.Fatalf("Mean = %v, want 3", m)
	}
	if m := Mean(nil); m != 0 {
		t.Fatalf("Mean(nil) = %v, want 0", m)
	}
}

func TestClampUnit(t *testing.T) {
	if clampUnit(1.0000000002) != 1 || clampUnit(-1.0000001) != -1 || clampUnit(0.3) != 0.3 {
		t.Fatal("clampUnit did not pin values into [-1, 1]")
	}
	if !math.IsNaN(clampUnit(math.NaN())) {
		t.Fatal("clampUnit should pass NaN through")
	}
}
