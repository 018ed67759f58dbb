// Package driver models the master side of the AXI4-Lite bus: it turns
// queued read and write commands into per-cycle channel signals, holds
// each valid stable until the slave accepts it, and resolves commands
// when their completion handshakes fire.
//
// Request phases enter the bus strictly in the order the commands were
// queued: a command's address and data lanes load only after every lane
// of the previous command has been accepted, so a read queued after a
// write can not overtake the write's commit. Within one write the
// address and data halves are still held and retired per lane. Idle
// lanes drive randomized don't-care payloads and the completion-ready
// lines are randomized each cycle to model an impatient or slow
// consumer.
package driver

import (
	"math/rand"

	"github.com/benreynwar/axilent/axi"
)

// Option is a functional option for configuring the Driver.
type Option func(*Driver)

// WithSeed seeds the driver's random source, making a run reproducible.
func WithSeed(seed int64) Option {
	return func(d *Driver) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// WithReadyProbability sets the per-cycle probability that each of the
// rready and bready lines is asserted. 1 means always ready.
func WithReadyProbability(p float64) Option {
	return func(d *Driver) {
		d.readyProb = p
	}
}

// lane is one master-driven request channel: a payload held stable
// under a valid flag until the slave's ready accepts it.
type lane struct {
	valid   bool
	payload uint32
}

// Driver drives the five AXI4-Lite channels cycle by cycle.
type Driver struct {
	rng       *rand.Rand
	readyProb float64

	// Commands whose request phase has not started yet, in program
	// order.
	unissued []*Command

	// In-flight commands in issue order. Lite allows one outstanding
	// response per channel, so completions arrive in this order.
	readResults  []*Command
	writeResults []*Command

	ar lane
	aw lane
	w  lane

	rReady bool
	bReady bool

	// Slave outputs from the previous cycle; acceptance of what was
	// driven then is judged against these.
	lastOut axi.SlaveToMaster

	stats Statistics
}

// Statistics holds driver-side counters.
type Statistics struct {
	// ReadsIssued and WritesIssued count queued commands.
	ReadsIssued  uint64
	WritesIssued uint64
	// ReadsCompleted and WritesCompleted count resolved commands.
	ReadsCompleted  uint64
	WritesCompleted uint64
	// DecodeErrors counts completions with a DECERR status.
	DecodeErrors uint64
}

// New creates a driver. The default random seed is fixed so that runs
// are deterministic unless WithSeed overrides it.
func New(opts ...Option) *Driver {
	d := &Driver{
		rng:       rand.New(rand.NewSource(1)),
		readyProb: 0.5,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Read queues a read of the given register address and returns its
// command handle.
func (d *Driver) Read(addr uint32) *Command {
	cmd := &Command{addr: addr, isRead: true}
	d.unissued = append(d.unissued, cmd)
	d.readResults = append(d.readResults, cmd)
	d.stats.ReadsIssued++
	return cmd
}

// Write queues a write of data to the given register address and
// returns its command handle.
func (d *Driver) Write(addr, data uint32) *Command {
	cmd := &Command{addr: addr, data: data}
	d.unissued = append(d.unissued, cmd)
	d.writeResults = append(d.writeResults, cmd)
	d.stats.WritesIssued++
	return cmd
}

// Idle reports whether every queue is drained, every lane deasserted
// and every command resolved.
func (d *Driver) Idle() bool {
	return len(d.unissued) == 0 &&
		len(d.readResults) == 0 &&
		len(d.writeResults) == 0 &&
		!d.ar.valid && !d.aw.valid && !d.w.valid
}

// Stats returns the accumulated driver statistics.
func (d *Driver) Stats() Statistics {
	return d.stats
}

// Drive computes the master-driven signals for this cycle. A lane
// holds valid and payload stable until the previous cycle's ready
// accepts it, as the handshake rules require.
func (d *Driver) Drive() axi.MasterToSlave {
	d.retire(&d.ar, d.lastOut.ARReady)
	d.retire(&d.aw, d.lastOut.AWReady)
	d.retire(&d.w, d.lastOut.WReady)

	d.issue()

	d.rReady = d.rng.Float64() < d.readyProb
	d.bReady = d.rng.Float64() < d.readyProb

	return axi.MasterToSlave{
		ARAddr:  d.ar.payload,
		ARValid: d.ar.valid,
		AWAddr:  d.aw.payload,
		AWValid: d.aw.valid,
		WData:   d.w.payload,
		WStrb:   0xF,
		WValid:  d.w.valid,
		RReady:  d.rReady,
		BReady:  d.bReady,
	}
}

// retire clears a lane whose payload the previous cycle's ready
// accepted. accepted tells whether that ready was asserted.
func (d *Driver) retire(l *lane, accepted bool) {
	if l.valid && accepted {
		l.valid = false
	}

	// Idle lanes carry don't-care payloads; a correct slave must not
	// react to them while valid is low.
	if !l.valid {
		l.payload = d.rng.Uint32()
	}
}

// issue starts the next command's request phase. It waits until every
// lane of the previous command has been accepted, which keeps request
// acceptance in program order. A write loads its address and data
// lanes in the same cycle.
func (d *Driver) issue() {
	if d.ar.valid || d.aw.valid || d.w.valid {
		return
	}
	if len(d.unissued) == 0 {
		return
	}

	cmd := d.unissued[0]
	d.unissued = d.unissued[1:]

	if cmd.isRead {
		d.ar.valid = true
		d.ar.payload = cmd.addr
		return
	}

	d.aw.valid = true
	d.aw.payload = cmd.addr
	d.w.valid = true
	d.w.payload = cmd.data
}

// Observe consumes the slave's outputs for the cycle Drive just
// produced, resolving commands whose completion handshakes fired.
func (d *Driver) Observe(out axi.SlaveToMaster) {
	if out.RValid && d.rReady {
		cmd := d.popRead()
		cmd.resolve(out.RResp, out.RData)
		d.stats.ReadsCompleted++
		if out.RResp == axi.RespDECERR {
			d.stats.DecodeErrors++
		}
	}

	if out.BValid && d.bReady {
		cmd := d.popWrite()
		cmd.resolve(out.BResp, 0)
		d.stats.WritesCompleted++
		if out.BResp == axi.RespDECERR {
			d.stats.DecodeErrors++
		}
	}

	d.lastOut = out
}

func (d *Driver) popRead() *Command {
	if len(d.readResults) == 0 {
		panic("read response with no read in flight")
	}
	cmd := d.readResults[0]
	d.readResults = d.readResults[1:]
	return cmd
}

func (d *Driver) popWrite() *Command {
	if len(d.writeResults) == 0 {
		panic("write response with no write in flight")
	}
	cmd := d.writeResults[0]
	d.writeResults = d.writeResults[1:]
	return cmd
}
