// Package fabric exposes the adder peripheral as an event-driven
// component that other components reach over a connection. Each
// component tick advances the underlying bus model by one clock cycle,
// so transaction latency on the fabric mirrors the cycle cost on the
// bus.
package fabric

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/benreynwar/axilent/checker"
	"github.com/benreynwar/axilent/driver"
	"github.com/benreynwar/axilent/testbench"
)

// pendingAccess pairs a request from the fabric with the bus command
// that serves it.
type pendingAccess struct {
	req sim.Msg
	cmd *driver.Command
}

// Comp is the adder peripheral wrapped as a ticking component. It
// accepts ReadReq and WriteReq messages on TopPort and answers with
// ReadRsp and WriteRsp once the bus transaction completes.
type Comp struct {
	*sim.TickingComponent

	TopPort sim.Port

	bench   *testbench.Bench
	pending []*pendingAccess
}

// Bench returns the bus model backing the component.
func (c *Comp) Bench() *testbench.Bench {
	return c.bench
}

// Tick advances the component by one cycle.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.acceptRequest() || madeProgress
	madeProgress = c.advanceBus() || madeProgress
	madeProgress = c.respond() || madeProgress

	return madeProgress
}

func (c *Comp) acceptRequest() bool {
	msg := c.TopPort.PeekIncoming()
	if msg == nil {
		return false
	}

	access := &pendingAccess{req: msg}
	switch req := msg.(type) {
	case *ReadReq:
		access.cmd = c.bench.Read(req.Addr)
	case *WriteReq:
		access.cmd = c.bench.Write(req.Addr, req.Data)
	default:
		panic(fmt.Sprintf("message type %T is not supported", msg))
	}

	c.pending = append(c.pending, access)
	c.TopPort.RetrieveIncoming()

	return true
}

func (c *Comp) advanceBus() bool {
	if len(c.pending) == 0 && c.bench.Driver().Idle() {
		return false
	}

	c.bench.Step()

	return true
}

// respond sends responses for completed accesses. The bus completes
// commands in issue order, so only the head of the queue can be ready.
func (c *Comp) respond() bool {
	madeProgress := false

	for len(c.pending) > 0 {
		access := c.pending[0]
		if !access.cmd.Done() {
			break
		}

		rsp := c.rspForAccess(access)
		if err := c.TopPort.Send(rsp); err != nil {
			break
		}

		c.pending = c.pending[1:]
		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) rspForAccess(access *pendingAccess) sim.Msg {
	meta := access.req.Meta()

	if access.cmd.IsRead() {
		rsp := &ReadRsp{
			RspTo: meta.ID,
			Data:  access.cmd.Data(),
			Resp:  access.cmd.Resp(),
		}
		rsp.ID = sim.GetIDGenerator().Generate()
		rsp.Src = meta.Dst
		rsp.Dst = meta.Src
		return rsp
	}

	rsp := &WriteRsp{
		RspTo: meta.ID,
		Resp:  access.cmd.Resp(),
	}
	rsp.ID = sim.GetIDGenerator().Generate()
	rsp.Src = meta.Dst
	rsp.Dst = meta.Src
	return rsp
}

// Builder can help building the adder peripheral component.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	checkerConfig checker.Config
	driverOpts    []driver.Option
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		checkerConfig: checker.DefaultConfig(),
	}
}

// WithEngine sets the event-driven simulation engine to use.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the frequency of the component.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithCheckerConfig sets the protocol checker configuration.
func (b Builder) WithCheckerConfig(config checker.Config) Builder {
	b.checkerConfig = config
	return b
}

// WithDriverOptions forwards options to the internal bus master model.
func (b Builder) WithDriverOptions(opts ...driver.Option) Builder {
	b.driverOpts = append(b.driverOpts, opts...)
	return b
}

// Build creates the component.
func (b Builder) Build(name string) *Comp {
	c := new(Comp)
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.TopPort = sim.NewPort(c, 4, 4, name+".TopPort")
	c.bench = testbench.New(
		testbench.WithCheckerConfig(b.checkerConfig),
		testbench.WithDriverOptions(b.driverOpts...),
	)
	return c
}
