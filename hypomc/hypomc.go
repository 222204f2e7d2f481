/*

Hypomc infers earthquake hypocenter locations, origin times and a
shared medium velocity from arrival times at surface receivers using
Markov Chain Monte Carlo sampling.

The basic usage looks like this:

	hypomc

, this will sample a single-event scenario with HMC.

You can change the scenario size and the sampler:

	hypomc -events 12 -method mh -samples 50000 -maxtime 60s

To see all the options run:

	hypomc -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("hypomc")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("hypomc", "hypocenter and velocity sampler").Version(version)

	// scenario parameters
	nEvents    = app.Flag("events", "number of events to simulate").Default("1").Int()
	nReceivers = app.Flag("receivers", "number of surface receivers").Default("3").Int()
	noise      = app.Flag("noise", "arrival time uncertainty, s").Default("0.25").Float64()
	depthLimit = app.Flag("depthlimit", "maximum event depth, km").Default("25").Float64()
	vMean      = app.Flag("vmean", "velocity prior mean, km/s").Default("5").Float64()
	vSD        = app.Flag("vsd", "velocity prior standard deviation, km/s").Default("1").Float64()
	startSD    = app.Flag("startsd", "starting point perturbation around the true model").Default("0.5").Float64()

	// sampler parameters
	method = app.Flag("method", "sampling method "+
		"(mh: random-walk Metropolis-Hastings, "+
		"hmc: Hamiltonian Monte Carlo"+
		")").Default("hmc").Enum("mh", "hmc")
	epsilon  = app.Flag("epsilon", "proposal / leapfrog step size").Default("0.01").Float64()
	nSteps   = app.Flag("steps", "number of leapfrog steps (hmc)").Default("20").Int()
	massDiag = app.Flag("mass", "diagonal mass matrix entry (hmc)").Default("1").Float64()
	samples  = app.Flag("samples", "maximum number of samples").Default("10000").Int()
	maxTime  = app.Flag("maxtime", "wall-clock budget").Default("1h").Duration()
	useMAP   = app.Flag("map", "start from the MAP estimate (L-BFGS-B)").Bool()

	// reporting
	report = app.Flag("report", "report every N samples").Default("10").Int()
	accept = app.Flag("accept", "report acceptance rate every N samples").Default("200").Int()

	// technical
	seed       = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outF     = app.Flag("out", "write sampling trajectory to a file").String()
	chainF   = app.Flag("chain", "write the chain to a .npy file").String()
	ckpF     = app.Flag("checkpoint", "checkpoint file (bolt database)").String()
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, pkg := range []string{"hypomc", "hypo", "mcmc", "optimize", "checkpoint"} {
		logging.SetLevel(level, pkg)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args
	summary.Seed = *seed

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
