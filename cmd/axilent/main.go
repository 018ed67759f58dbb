// Package main provides the entry point for axilent.
// Axilent simulates the adder peripheral under a randomized bus master
// and reports what its protocol checker observed.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/benreynwar/axilent/checker"
	"github.com/benreynwar/axilent/driver"
	"github.com/benreynwar/axilent/testbench"
)

var (
	pairs      = flag.Int("pairs", 20, "Number of random operand pairs to add")
	seed       = flag.Int64("seed", 1, "Seed for the randomized bus master")
	readyProb  = flag.Float64("ready-prob", 0.5, "Per-cycle probability the master accepts a response")
	configPath = flag.String("config", "", "Path to checker configuration JSON file")
	maxCycles  = flag.Uint64("max-cycles", 1000000, "Abort if the bus is still busy after this many cycles")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	config := checker.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = checker.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading checker config: %v\n", err)
			os.Exit(1)
		}
	}

	os.Exit(runWorkload(config))
}

// runWorkload drives random add transactions through the peripheral and
// returns the process exit code.
func runWorkload(config checker.Config) int {
	bench := testbench.New(
		testbench.WithCheckerConfig(config),
		testbench.WithDriverOptions(
			driver.WithSeed(*seed),
			driver.WithReadyProbability(*readyProb),
		),
	)

	rng := rand.New(rand.NewSource(*seed))

	type expectation struct {
		a, b uint16
		read *driver.Command
	}
	expected := make([]expectation, 0, *pairs)
	for i := 0; i < *pairs; i++ {
		a := uint16(rng.Uint32())
		b := uint16(rng.Uint32())
		expected = append(expected, expectation{a, b, bench.AddNumbers(a, b)})
	}

	err := bench.RunUntilIdle(*maxCycles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	failures := 0
	for i, e := range expected {
		want := uint32(e.a) + uint32(e.b)
		if data, err := e.read.Data(), e.read.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "pair %d: read failed: %v\n", i, err)
			failures++
		} else if data != want {
			fmt.Fprintf(os.Stderr, "pair %d: %d + %d read back %d, want %d\n",
				i, e.a, e.b, data, want)
			failures++
		}
	}

	stats := bench.Stats()

	if *verbose || failures > 0 {
		drv := bench.Driver().Stats()
		fmt.Printf("Pairs: %d\n", *pairs)
		fmt.Printf("Cycles: %d\n", stats.Cycles)
		fmt.Printf("Reads issued: %d\n", drv.ReadsIssued)
		fmt.Printf("Writes issued: %d\n", drv.WritesIssued)
		fmt.Printf("Reads completed: %d\n", stats.ReadsCompleted)
		fmt.Printf("Writes completed: %d\n", stats.WritesCompleted)
		fmt.Printf("Decode errors: %d\n", stats.DecodeErrors)
		fmt.Printf("Idle windows sampled: %d\n", bench.Checker().Stats().IdleWindows)
		fmt.Printf("Checker mismatches: %d\n", stats.Mismatches)
	}

	if failures > 0 {
		return 1
	}
	return 0
}
