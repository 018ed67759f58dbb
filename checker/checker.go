// Package checker implements an online protocol checker for the
// AXI4-Lite handshake discipline. It observes the same signal bundles
// the slave engine consumes and produces, keeps an outstanding-request
// count per monitored relation, and flags any count that fails to
// return to zero within a bounded idle window.
//
// The checker is a pure observer: it never feeds back into the engine.
package checker

import "github.com/benreynwar/axilent/axi"

// Relation identifies one monitored request/completion pair.
type Relation int

// The three monitored relations. The write-address and write-data
// channels are each tracked independently against the write-response
// channel: with the merged-commit slave they always fire in the same
// cycle, so both counts drain on the same response fires.
const (
	// RelationRead pairs read-address accepts with read-data fires.
	RelationRead Relation = iota
	// RelationWriteAddr pairs write-address accepts with write-response
	// fires.
	RelationWriteAddr
	// RelationWriteData pairs write-data accepts with write-response
	// fires.
	RelationWriteData

	// NumRelations is the number of monitored relations.
	NumRelations
)

// String returns a short name for the relation.
func (r Relation) String() string {
	switch r {
	case RelationRead:
		return "read"
	case RelationWriteAddr:
		return "write-addr"
	case RelationWriteData:
		return "write-data"
	}
	return "unknown"
}

// Flags holds the per-relation mismatch pulses for one cycle. A set
// flag after the first reset indicates a genuine protocol violation:
// an accepted request that never completed, or a completion that was
// never accepted, still unresolved when the idle bound elapsed. The
// checker reports it and nothing more; it never corrects or retries.
type Flags struct {
	Read      bool
	WriteAddr bool
	WriteData bool
}

// Any reports whether any relation flagged a mismatch this cycle.
func (f Flags) Any() bool {
	return f.Read || f.WriteAddr || f.WriteData
}

// Statistics holds checker counters accumulated over a run.
type Statistics struct {
	// Cycles is the number of observed cycles.
	Cycles uint64
	// IdleWindows is the number of times the idle bound elapsed and the
	// counters were sampled.
	IdleWindows uint64
	// ReadMismatches counts mismatch pulses on the read relation.
	ReadMismatches uint64
	// WriteAddrMismatches counts mismatch pulses on the write-address
	// relation.
	WriteAddrMismatches uint64
	// WriteDataMismatches counts mismatch pulses on the write-data
	// relation.
	WriteDataMismatches uint64
}

// Mismatches returns the total number of mismatch pulses.
func (s Statistics) Mismatches() uint64 {
	return s.ReadMismatches + s.WriteAddrMismatches + s.WriteDataMismatches
}

// Checker tracks outstanding request counts for the three relations.
type Checker struct {
	config Config

	outstanding [NumRelations]int64
	idleRun     uint64
	hasReset    bool

	stats Statistics
}

// New creates a checker. A disabled checker observes nothing and its
// flags stay tied to the no-violation value.
func New(config Config) *Checker {
	return &Checker{config: config}
}

// Outstanding returns the current count for one relation. Positive
// means accepted requests awaiting completion.
func (c *Checker) Outstanding(r Relation) int64 {
	return c.outstanding[r]
}

// HasReset reports whether a reset cycle has been observed. Flags
// raised before the first reset are suppressed because the initial
// state is unspecified.
func (c *Checker) HasReset() bool {
	return c.hasReset
}

// Stats returns the accumulated statistics.
func (c *Checker) Stats() Statistics {
	return c.stats
}

// Observe samples one cycle of the external handshake signals and
// returns this cycle's mismatch flags.
func (c *Checker) Observe(m axi.MasterToSlave, s axi.SlaveToMaster) Flags {
	if !c.config.Enabled {
		return Flags{}
	}

	c.stats.Cycles++

	if m.Reset {
		for i := range c.outstanding {
			c.outstanding[i] = 0
		}
		c.idleRun = 0
		c.hasReset = true
		return Flags{}
	}

	c.count(RelationRead, axi.ReadAddrFired(m, s), axi.ReadDataFired(m, s))
	c.count(RelationWriteAddr, axi.WriteAddrFired(m, s), axi.WriteRespFired(m, s))
	c.count(RelationWriteData, axi.WriteDataFired(m, s), axi.WriteRespFired(m, s))

	// The watchdog only advances while no new work is arriving and the
	// requester is ready to consume completions; anything else restarts
	// the window.
	if idle(m) {
		c.idleRun++
	} else {
		c.idleRun = 0
	}

	// Sampling exactly at the bound makes the flags pulse once per idle
	// excursion rather than repeat every cycle beyond it.
	if c.idleRun != c.config.IdleBound {
		return Flags{}
	}
	c.stats.IdleWindows++

	flags := Flags{
		Read:      c.outstanding[RelationRead] != 0,
		WriteAddr: c.outstanding[RelationWriteAddr] != 0,
		WriteData: c.outstanding[RelationWriteData] != 0,
	}
	if !c.hasReset {
		return Flags{}
	}

	if flags.Read {
		c.stats.ReadMismatches++
	}
	if flags.WriteAddr {
		c.stats.WriteAddrMismatches++
	}
	if flags.WriteData {
		c.stats.WriteDataMismatches++
	}

	return flags
}

// count updates one relation's outstanding count for this cycle.
func (c *Checker) count(r Relation, req, comp bool) {
	switch {
	case req && !comp:
		c.outstanding[r]++
	case comp && !req:
		c.outstanding[r]--
	}
}

// idle reports a cycle where every request valid is low while the
// requester asserts both completion-ready lines.
func idle(m axi.MasterToSlave) bool {
	return !m.ARValid && !m.AWValid && !m.WValid && m.RReady && m.BReady
}
