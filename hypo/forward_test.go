package hypo

import (
	"math"
	"testing"
)

const smallDiff = 1e-9

func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestForwardKnownGeometry(tst *testing.T) {
	// event at (16, 15), origin time 17, velocity 5
	m := []float64{16, 15, 17, 5}
	stx := []float64{16, 19}
	stz := []float64{0, 19}

	pred := Forward(m, stx, stz, nil)

	// receiver straight above: distance 15, travel time 3
	if !appreq(pred.At(0, 0), 20) {
		tst.Errorf("Wrong arrival time for receiver 0: %v", pred.At(0, 0))
	}
	// receiver at offset (3, 4): distance 5, travel time 1
	if !appreq(pred.At(0, 1), 18) {
		tst.Errorf("Wrong arrival time for receiver 1: %v", pred.At(0, 1))
	}
}

func TestForwardMultipleEvents(tst *testing.T) {
	m := []float64{10, 5, 0, 20, 10, 3, 4}
	stx := []float64{0, 15, 30}
	stz := []float64{0, 0, 0}

	pred := Forward(m, stx, stz, nil)

	r, c := pred.Dims()
	if r != 2 || c != 3 {
		tst.Fatalf("Wrong prediction grid shape: %dx%d", r, c)
	}
	for i := 0; i < 2; i++ {
		x := m[3*i]
		z := m[3*i+1]
		t0 := m[3*i+2]
		for j := 0; j < 3; j++ {
			want := t0 + math.Hypot(x-stx[j], z-stz[j])/4
			if !appreq(pred.At(i, j), want) {
				tst.Errorf("event %d receiver %d: got %v, want %v", i, j, pred.At(i, j), want)
			}
		}
	}
}

func TestForwardBadModelLength(tst *testing.T) {
	defer func() {
		if recover() == nil {
			tst.Error("Expected panic for model of length 3*N+2")
		}
	}()
	Forward([]float64{1, 2, 3, 4, 5}, []float64{0}, []float64{0}, nil)
}
