package mcmc

import (
	"math"
	"testing"
)

func TestChainAppendAndIndex(tst *testing.T) {
	c := NewChain(2)
	c.Append([]float64{1, 2})
	c.Append([]float64{3, 4})
	c.Append([]float64{3, 4}) // a rejected step repeats the state

	if c.Len() != 3 || c.Dim() != 2 {
		tst.Fatalf("Wrong chain shape: %dx%d", c.Dim(), c.Len())
	}
	if c.At(0, 0) != 1 || c.At(1, 0) != 2 || c.At(0, 2) != 3 || c.At(1, 2) != 4 {
		tst.Error("Wrong sample values")
	}

	col := c.Col(nil, 1)
	if col[0] != 3 || col[1] != 4 {
		tst.Errorf("Wrong column values: %v", col)
	}
}

func TestChainMatrix(tst *testing.T) {
	c := NewChain(2)
	c.Append([]float64{1, 2})
	c.Append([]float64{3, 4})

	m := c.Matrix()
	r, cols := m.Dims()
	if r != 2 || cols != 2 {
		tst.Fatalf("Wrong matrix shape: %dx%d", r, cols)
	}
	// one column per sample
	if m.At(0, 0) != 1 || m.At(1, 0) != 2 || m.At(0, 1) != 3 || m.At(1, 1) != 4 {
		tst.Error("Wrong matrix layout")
	}
}

func TestChainMeanSD(tst *testing.T) {
	c := NewChain(1)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		c.Append([]float64{v})
	}
	mean, sd := c.MeanSD(0)
	if math.Abs(mean-3) > 1e-12 {
		tst.Errorf("Wrong mean: %v", mean)
	}
	if math.Abs(sd-math.Sqrt(2.5)) > 1e-12 {
		tst.Errorf("Wrong standard deviation: %v", sd)
	}
}

func TestChainParam(tst *testing.T) {
	c := NewChain(2)
	c.Append([]float64{1, 10})
	c.Append([]float64{2, 20})
	row := c.Param(1)
	if len(row) != 2 || row[0] != 10 || row[1] != 20 {
		tst.Errorf("Wrong parameter trajectory: %v", row)
	}
}
