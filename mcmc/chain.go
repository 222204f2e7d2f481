package mcmc

import (
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat"
)

// Chain is an ordered sequence of accepted samples, one column per
// sample. Rejected steps append the repeated current state; the
// duplication is required for correct stationary-distribution
// statistics. A chain is append-only while sampling and read-only
// afterwards.
type Chain struct {
	dim  int
	data []float64
	n    int
}

// NewChain creates an empty chain for models of the given dimension.
func NewChain(dim int) *Chain {
	if dim < 1 {
		panic("mcmc: chain dimension must be positive")
	}
	return &Chain{dim: dim}
}

// Append copies one sample onto the end of the chain.
func (c *Chain) Append(m []float64) {
	if len(m) != c.dim {
		panic("mcmc: sample has wrong dimension")
	}
	c.data = append(c.data, m...)
	c.n++
}

// Dim returns the model vector length.
func (c *Chain) Dim() int { return c.dim }

// Len returns the number of samples.
func (c *Chain) Len() int { return c.n }

// At returns parameter i of sample j.
func (c *Chain) At(i, j int) float64 {
	if i < 0 || i >= c.dim || j < 0 || j >= c.n {
		panic("mcmc: chain index out of range")
	}
	return c.data[j*c.dim+i]
}

// Col copies sample j into dst, allocating when dst is nil.
func (c *Chain) Col(dst []float64, j int) []float64 {
	if dst == nil {
		dst = make([]float64, c.dim)
	} else if len(dst) != c.dim {
		panic("mcmc: destination has wrong dimension")
	}
	copy(dst, c.data[j*c.dim:(j+1)*c.dim])
	return dst
}

// Param returns a copy of the trajectory of parameter i across all
// samples.
func (c *Chain) Param(i int) []float64 {
	row := make([]float64, c.n)
	for j := 0; j < c.n; j++ {
		row[j] = c.data[j*c.dim+i]
	}
	return row
}

// MeanSD returns the sample mean and standard deviation of parameter
// i over the whole chain.
func (c *Chain) MeanSD(i int) (mean, sd float64) {
	row := c.Param(i)
	return stat.Mean(row, nil), stat.StdDev(row, nil)
}

// Matrix copies the chain into a (dim, samples) matrix.
func (c *Chain) Matrix() *mat64.Dense {
	data := make([]float64, c.dim*c.n)
	for j := 0; j < c.n; j++ {
		for i := 0; i < c.dim; i++ {
			data[i*c.n+j] = c.data[j*c.dim+i]
		}
	}
	return mat64.NewDense(c.dim, c.n, data)
}
