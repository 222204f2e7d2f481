// Package mcmc implements Markov chain Monte Carlo samplers over a
// misfit-based target distribution: a random-walk Metropolis-Hastings
// sampler and a Hamiltonian Monte Carlo sampler with leapfrog
// integration. Both run under a shared sample-count and wall-clock
// budget and are deterministic for a fixed seed.
package mcmc

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/seislab/hypomc/checkpoint"
)

// log is the global logging variable.
var log = logging.MustGetLogger("mcmc")

// Target is a distribution explored by the samplers. Misfit is the
// negative log-posterior up to an additive constant (lower is better);
// +Inf marks the hard rejection region. Grad fills the analytic
// gradient of Misfit in the model vector layout, allocating when grad
// is nil.
type Target interface {
	Dim() int
	Misfit(m []float64) float64
	Grad(m, grad []float64) []float64
}

// Labeler is an optional Target extension providing human-readable
// per-parameter names for trajectory output.
type Labeler interface {
	Labels() []string
}

// Sampler generates a chain of samples from a target.
type Sampler interface {
	SetTarget(t Target, start []float64)
	SetOutput(w io.Writer)
	SetReportPeriod(period int)
	SetAccPeriod(period int)
	SetCheckpointIO(c *checkpoint.CheckpointIO)
	Run(maxSamples int, maxTime time.Duration) *Chain
	Summary() Summary
}

// Summary holds statistics of a finished sampling run.
type Summary struct {
	Sampler     string  `json:"sampler"`
	Samples     int     `json:"samples"`
	Accepted    int     `json:"accepted"`
	MisfitCalls int     `json:"misfitCalls"`
	GradCalls   int     `json:"gradCalls"`
	FinalMisfit float64 `json:"finalMisfit"`
	Time        float64 `json:"time"`
}

// budget enforces the sample-count and wall-clock stopping rule shared
// by all samplers. It is consulted at step boundaries only, so a run
// overshoots maxTime by at most the cost of one in-flight step; that
// slack is by contract, not a timing bug.
type budget struct {
	maxSamples int
	maxTime    time.Duration
	start      time.Time
}

func newBudget(maxSamples int, maxTime time.Duration) *budget {
	return &budget{
		maxSamples: maxSamples,
		maxTime:    maxTime,
		start:      time.Now(),
	}
}

// exhausted returns true once the chain holds maxSamples samples or
// the wall-clock budget ran out, whichever comes first. With a zero
// time budget the chain keeps only its starting state.
func (b *budget) exhausted(samples int) bool {
	if samples >= b.maxSamples {
		return true
	}
	return time.Since(b.start) >= b.maxTime
}

func (b *budget) elapsed() time.Duration {
	return time.Since(b.start)
}

// baseSampler carries the state machine shared by MH and HMC: the
// current model and misfit, the random source, counters and reporting.
type baseSampler struct {
	name      string
	target    Target
	cur       []float64
	curMisfit float64
	rng       *rand.Rand

	out       io.Writer
	repPeriod int
	accPeriod int

	i           int
	accepted    int
	accWindow   int
	misfitCalls int
	gradCalls   int
	samples     int
	runTime     time.Duration

	ckp *checkpoint.CheckpointIO

	Quiet bool
}

// SetTarget attaches the target and the starting model. The sampler
// keeps its own copy of the start; the target itself is shared
// read-only.
func (s *baseSampler) SetTarget(t Target, start []float64) {
	if len(start) != t.Dim() {
		panic("mcmc: start model length does not match target dimension")
	}
	s.target = t
	s.cur = append([]float64(nil), start...)
	s.curMisfit = t.Misfit(s.cur)
	s.misfitCalls++
}

func (s *baseSampler) SetOutput(w io.Writer) {
	s.out = w
}

func (s *baseSampler) SetReportPeriod(period int) {
	s.repPeriod = period
}

func (s *baseSampler) SetAccPeriod(period int) {
	s.accPeriod = period
}

func (s *baseSampler) SetCheckpointIO(c *checkpoint.CheckpointIO) {
	s.ckp = c
}

// Summary returns run statistics; valid after Run finished.
func (s *baseSampler) Summary() Summary {
	return Summary{
		Sampler:     s.name,
		Samples:     s.samples,
		Accepted:    s.accepted,
		MisfitCalls: s.misfitCalls,
		GradCalls:   s.gradCalls,
		FinalMisfit: s.curMisfit,
		Time:        s.runTime.Seconds(),
	}
}

func (s *baseSampler) labels() []string {
	if l, ok := s.target.(Labeler); ok {
		return l.Labels()
	}
	names := make([]string, s.target.Dim())
	for i := range names {
		names[i] = "p" + strconv.Itoa(i)
	}
	return names
}

func (s *baseSampler) printHeader() {
	if s.out == nil {
		return
	}
	fmt.Fprintf(s.out, "iteration\tmisfit\t%s\n", strings.Join(s.labels(), "\t"))
}

func (s *baseSampler) printLine() {
	if s.out == nil || s.repPeriod <= 0 || s.i%s.repPeriod != 0 {
		return
	}
	vals := make([]string, len(s.cur))
	for i, v := range s.cur {
		vals[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	fmt.Fprintf(s.out, "%d\t%f\t%s\n", s.i, s.curMisfit, strings.Join(vals, "\t"))
}

// logAcceptance reports the acceptance rate over the last window.
func (s *baseSampler) logAcceptance() {
	if s.accPeriod <= 0 || s.i == 0 || s.i%s.accPeriod != 0 {
		return
	}
	log.Infof("Acceptance rate %.2f%%", 100*float64(s.accWindow)/float64(s.accPeriod))
	s.accWindow = 0
}

// saveCheckpoint stores the current sampler state; non-final saves are
// throttled by the checkpoint's own timer.
func (s *baseSampler) saveCheckpoint(final bool) {
	if s.ckp == nil {
		return
	}
	if !final && !s.ckp.Old() {
		return
	}
	s.ckp.Save(&checkpoint.State{
		Model:  append([]float64(nil), s.cur...),
		Misfit: s.curMisfit,
		Iter:   s.i,
		Final:  final,
	})
}

func (s *baseSampler) finish(c *Chain, b *budget) {
	s.samples = c.Len()
	s.runTime = b.elapsed()
	s.saveCheckpoint(true)
	if !s.Quiet {
		log.Noticef("Finished %s: %d samples, %d accepted, misfit=%g, %v",
			s.name, s.samples, s.accepted, s.curMisfit, s.runTime)
	}
}
