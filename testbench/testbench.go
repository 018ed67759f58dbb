// Package testbench wires the bus master model, the adder slave engine
// and the protocol checker into a closed cycle-accurate loop, the way a
// simulation harness would wrap the synthesized core.
//
// Per cycle the bench drives the master signals, evaluates the slave,
// lets the checker observe both bundles, and feeds the slave outputs
// back to the master. The checker taps the same wires the engine sees
// and has no feedback path into it.
package testbench

import (
	"fmt"

	"github.com/benreynwar/axilent/adder"
	"github.com/benreynwar/axilent/checker"
	"github.com/benreynwar/axilent/driver"
)

// Statistics holds counters accumulated over a bench run.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// ResetCycles is the number of cycles with reset asserted.
	ResetCycles uint64
	// ReadsCompleted is the number of resolved read commands.
	ReadsCompleted uint64
	// WritesCompleted is the number of resolved write commands.
	WritesCompleted uint64
	// DecodeErrors is the number of completions with DECERR status.
	DecodeErrors uint64
	// Mismatches is the total number of checker mismatch pulses.
	Mismatches uint64
}

// Option is a functional option for configuring the Bench.
type Option func(*Bench)

// WithCheckerConfig replaces the default checker configuration.
func WithCheckerConfig(config checker.Config) Option {
	return func(b *Bench) {
		b.checker = checker.New(config)
		b.flushCycles = config.IdleBound + 2
	}
}

// WithDriverOptions forwards options to the bus master model.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(b *Bench) {
		b.driver = driver.New(opts...)
	}
}

// Bench owns one peripheral instance and the master driving it.
type Bench struct {
	engine  *adder.Engine
	driver  *driver.Driver
	checker *checker.Checker

	// flushCycles is how long to keep cycling after the bus drains so
	// the checker's idle watchdog gets a chance to sample.
	flushCycles uint64

	resetNext bool
	stats     Statistics
}

// New creates a bench. The first simulated cycle applies a synchronous
// reset, matching the power-on sequence of the hardware harness.
func New(opts ...Option) *Bench {
	config := checker.DefaultConfig()
	b := &Bench{
		engine:      adder.NewEngine(),
		driver:      driver.New(),
		checker:     checker.New(config),
		flushCycles: config.IdleBound + 2,
		resetNext:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Engine returns the slave engine under test.
func (tb *Bench) Engine() *adder.Engine {
	return tb.engine
}

// Driver returns the bus master model.
func (tb *Bench) Driver() *driver.Driver {
	return tb.driver
}

// Checker returns the protocol checker.
func (tb *Bench) Checker() *checker.Checker {
	return tb.checker
}

// Stats returns the statistics accumulated so far.
func (tb *Bench) Stats() Statistics {
	drv := tb.driver.Stats()
	tb.stats.ReadsCompleted = drv.ReadsCompleted
	tb.stats.WritesCompleted = drv.WritesCompleted
	tb.stats.DecodeErrors = drv.DecodeErrors
	tb.stats.Mismatches = tb.checker.Stats().Mismatches()
	return tb.stats
}

// Reset schedules a synchronous reset on the next cycle.
func (tb *Bench) Reset() {
	tb.resetNext = true
}

// Write queues a register write on the master.
func (tb *Bench) Write(addr, data uint32) *driver.Command {
	return tb.driver.Write(addr, data)
}

// Read queues a register read on the master.
func (tb *Bench) Read(addr uint32) *driver.Command {
	return tb.driver.Read(addr)
}

// AddNumbers queues the add-numbers compound transaction: write a to
// register A, write b to register B, read register C. The returned
// command resolves with the sum.
func (tb *Bench) AddNumbers(a, b uint16) *driver.Command {
	tb.driver.Write(adder.RegAOffset, uint32(a))
	tb.driver.Write(adder.RegBOffset, uint32(b))
	return tb.driver.Read(adder.RegCOffset)
}

// Step simulates one clock cycle and returns the checker flags it
// produced.
func (tb *Bench) Step() checker.Flags {
	m := tb.driver.Drive()
	if tb.resetNext {
		m.Reset = true
		tb.resetNext = false
		tb.stats.ResetCycles++
	}

	out := tb.engine.Tick(m)
	flags := tb.checker.Observe(m, out)
	tb.driver.Observe(out)

	tb.stats.Cycles++
	return flags
}

// Run simulates the given number of cycles and returns an error if any
// mismatch flag pulsed.
func (tb *Bench) Run(cycles uint64) error {
	var violation error
	for i := uint64(0); i < cycles; i++ {
		if flags := tb.Step(); flags.Any() && violation == nil {
			violation = mismatchError(flags, tb.stats.Cycles)
		}
	}
	return violation
}

// RunUntilIdle simulates until the master has drained every queued
// command, then keeps cycling through the flush margin so the checker
// watchdog samples the quiesced bus. It returns an error if the bus is
// still busy after maxCycles or if any mismatch flag pulsed.
func (tb *Bench) RunUntilIdle(maxCycles uint64) error {
	var violation error
	note := func(flags checker.Flags) {
		if flags.Any() && violation == nil {
			violation = mismatchError(flags, tb.stats.Cycles)
		}
	}

	busy := uint64(0)
	for !tb.driver.Idle() {
		if busy == maxCycles {
			return fmt.Errorf("bus still busy after %d cycles", maxCycles)
		}
		busy++
		note(tb.Step())
	}

	for i := uint64(0); i < tb.flushCycles; i++ {
		note(tb.Step())
	}

	return violation
}

func mismatchError(flags checker.Flags, cycle uint64) error {
	for _, r := range []struct {
		set      bool
		relation checker.Relation
	}{
		{flags.Read, checker.RelationRead},
		{flags.WriteAddr, checker.RelationWriteAddr},
		{flags.WriteData, checker.RelationWriteData},
	} {
		if r.set {
			return fmt.Errorf(
				"protocol mismatch on the %v relation at cycle %d", r.relation, cycle)
		}
	}
	return nil
}
