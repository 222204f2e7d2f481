package main

import (
	"math/rand"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/seislab/hypomc/artifact"
	"github.com/seislab/hypomc/checkpoint"
	"github.com/seislab/hypomc/hypo"
	"github.com/seislab/hypomc/mcmc"
	"github.com/seislab/hypomc/optimize"
)

// checkpointSeconds is the minimum interval between checkpoint saves.
const checkpointSeconds = 30

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	rng := rand.New(rand.NewSource(*seed))
	sc := hypo.NewScenario(*nEvents, *nReceivers, *depthLimit, *noise, rng)
	log.Infof("Scenario: %d events, %d receivers, noise=%g s", *nEvents, *nReceivers, *noise)
	log.Debugf("True model: %v", sc.MTrue)

	target, err := hypo.NewTarget(sc.Obs, sc.Unc, sc.StationX, sc.StationZ, *vMean, *vSD, *depthLimit)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Target has %d parameters", target.Dim())

	start := sc.PerturbedStart(*startSD, rng)

	var ckp *checkpoint.CheckpointIO
	if *ckpF != "" {
		db, err := bolt.Open(*ckpF, 0666, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint file:", err)
		}
		defer db.Close()
		ckp = checkpoint.NewCheckpointIO(db, []byte(*method), checkpointSeconds)
		state, err := ckp.GetState()
		if err != nil {
			log.Error("Error reading checkpoint:", err)
		}
		if state != nil && len(state.Model) == target.Dim() {
			log.Noticef("Resuming from checkpoint at iteration %d", state.Iter)
			start = state.Model
		}
	}

	if *useMAP {
		l := optimize.NewLBFGSB(target)
		start = l.Run(start)
		log.Noticef("Starting from the MAP estimate")
		log.Debugf("MAP: %v", start)
	}

	f := os.Stdout
	if *outF != "" {
		f, err = os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating trajectory file:", err)
		}
		defer f.Close()
	}

	var smp mcmc.Sampler
	switch *method {
	case "mh":
		smp = mcmc.NewMH(*epsilon, *seed)
	case "hmc":
		diag := make([]float64, target.Dim())
		for i := range diag {
			diag[i] = *massDiag
		}
		smp = mcmc.NewHMC(*nSteps, *epsilon, mcmc.NewDiagonalMass(diag), *seed)
	}
	log.Infof("Using %s sampling.", *method)

	smp.SetTarget(target, start)
	smp.SetOutput(f)
	smp.SetReportPeriod(*report)
	smp.SetAccPeriod(*accept)
	if ckp != nil {
		smp.SetCheckpointIO(ckp)
	}

	chain := smp.Run(*samples, *maxTime)
	summary.Sampler = smp.Summary()
	summary.Samples = chain.Len()

	labels := target.Labels()
	units := target.Units()
	for i := 0; i < target.Dim(); i++ {
		mean, sd := chain.MeanSD(i)
		log.Noticef("%s = %.4f +- %.4f %s (true %.4f)", labels[i], mean, sd, units[i], sc.MTrue[i])
	}

	if *chainF != "" {
		if err := artifact.SaveChain(*chainF, chain); err != nil {
			log.Error("Error writing chain:", err)
		} else {
			log.Infof("Wrote chain to %s", *chainF)
		}
	}

	summary.TrueModel = sc.MTrue

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return summary
}
