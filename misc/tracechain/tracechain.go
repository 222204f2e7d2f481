// Tracechain draws a trace plot for one parameter of a sampled chain
// stored as a .npy array.
package main

import (
	"flag"
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/seislab/hypomc/artifact"
)

func main() {
	in := flag.String("in", "chain.npy", "chain file")
	out := flag.String("out", "trace.png", "output image")
	param := flag.Int("param", 0, "parameter index")
	flag.Parse()

	m, err := artifact.LoadMatrix(*in)
	if err != nil {
		log.Fatal(err)
	}
	rows, _ := m.Dims()
	if *param < 0 || *param >= rows {
		log.Fatalf("parameter index %d out of range [0, %d)", *param, rows)
	}

	p, err := tracePlot(m, *param)
	if err != nil {
		log.Fatal(err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, *out); err != nil {
		log.Fatal(err)
	}
}

// tracePlot builds a trace plot for one parameter row of a chain
// matrix.
func tracePlot(m *mat.Dense, param int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("parameter %d trace", param)
	p.X.Label.Text = "sample"

	_, cols := m.Dims()
	pts := make(plotter.XYs, cols)
	for j := 0; j < cols; j++ {
		pts[j].X = float64(j)
		pts[j].Y = m.At(param, j)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}
