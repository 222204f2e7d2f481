package main

import "github.com/seislab/hypomc/mcmc"

// RunSummary stores hypomc run summary information.
type RunSummary struct {
	// Version stores hypomc version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// TrueModel is the synthetic scenario's true parameter vector.
	TrueModel []float64 `json:"trueModel"`
	// Samples is the number of samples in the chain.
	Samples int `json:"samples"`
	// Sampler is the sampler run summary.
	Sampler mcmc.Summary `json:"sampler"`
	// Time is the total run time in seconds.
	Time float64 `json:"time"`
}
