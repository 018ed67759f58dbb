package fabric_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/benreynwar/axilent/adder"
	"github.com/benreynwar/axilent/axi"
	"github.com/benreynwar/axilent/fabric"
)

// requester is a minimal component that fires a fixed list of requests
// at the peripheral and collects the responses.
type requester struct {
	*sim.TickingComponent

	OutPort sim.Port

	msgsOut []sim.Msg
	msgsIn  []sim.Msg
}

func newRequester(engine sim.Engine, name string) *requester {
	r := new(requester)
	r.TickingComponent = sim.NewTickingComponent(name, engine, 1*sim.GHz, r)
	r.OutPort = sim.NewPort(r, 4, 4, name+".OutPort")

	return r
}

func (r *requester) Tick() bool {
	madeProgress := false

	msgIn := r.OutPort.RetrieveIncoming()
	if msgIn != nil {
		r.msgsIn = append(r.msgsIn, msgIn)
		madeProgress = true
	}

	if len(r.msgsOut) > 0 {
		err := r.OutPort.Send(r.msgsOut[0])
		if err == nil {
			madeProgress = true
			r.msgsOut = r.msgsOut[1:]
		}
	}

	return madeProgress
}

var _ = Describe("Adder Peripheral Integration", func() {
	var (
		engine     sim.Engine
		connection *directconnection.Comp
		periph     *fabric.Comp
		reqAgent   *requester
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		connection = directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn")

		periph = fabric.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Adder")

		reqAgent = newRequester(engine, "Requester")

		connection.PlugIn(periph.TopPort)
		connection.PlugIn(reqAgent.OutPort)
	})

	queue := func(msg sim.Msg) {
		reqAgent.msgsOut = append(reqAgent.msgsOut, msg)
	}

	It("should add two numbers over the fabric", func() {
		src := reqAgent.OutPort.AsRemote()
		dst := periph.TopPort.AsRemote()

		queue(fabric.NewWriteReq(src, dst, adder.RegAOffset, 5))
		queue(fabric.NewWriteReq(src, dst, adder.RegBOffset, 7))
		readReq := fabric.NewReadReq(src, dst, adder.RegCOffset)
		queue(readReq)

		reqAgent.TickLater()
		engine.Run()

		Expect(reqAgent.msgsIn).To(HaveLen(3))

		for _, msg := range reqAgent.msgsIn[:2] {
			writeRsp, ok := msg.(*fabric.WriteRsp)
			Expect(ok).To(BeTrue())
			Expect(writeRsp.Resp).To(Equal(axi.RespOKAY))
		}

		readRsp, ok := reqAgent.msgsIn[2].(*fabric.ReadRsp)
		Expect(ok).To(BeTrue())
		Expect(readRsp.GetRspTo()).To(Equal(readReq.ID))
		Expect(readRsp.Resp).To(Equal(axi.RespOKAY))
		Expect(readRsp.Data).To(Equal(uint32(12)))

		Expect(periph.Bench().Stats().Mismatches).To(Equal(uint64(0)))
	})

	It("should answer an undecodable address with a decode error", func() {
		src := reqAgent.OutPort.AsRemote()
		dst := periph.TopPort.AsRemote()

		queue(fabric.NewReadReq(src, dst, 9))

		reqAgent.TickLater()
		engine.Run()

		Expect(reqAgent.msgsIn).To(HaveLen(1))

		readRsp, ok := reqAgent.msgsIn[0].(*fabric.ReadRsp)
		Expect(ok).To(BeTrue())
		Expect(readRsp.Resp).To(Equal(axi.RespDECERR))
	})

	It("should serve a stream of back to back transactions", func() {
		src := reqAgent.OutPort.AsRemote()
		dst := periph.TopPort.AsRemote()

		numPairs := 8
		for i := 0; i < numPairs; i++ {
			a := uint32(i * 3)
			b := uint32(i * 5)
			queue(fabric.NewWriteReq(src, dst, adder.RegAOffset, a))
			queue(fabric.NewWriteReq(src, dst, adder.RegBOffset, b))
			queue(fabric.NewReadReq(src, dst, adder.RegCOffset))
		}

		reqAgent.TickLater()
		engine.Run()

		Expect(reqAgent.msgsIn).To(HaveLen(3 * numPairs))

		pair := 0
		for _, msg := range reqAgent.msgsIn {
			readRsp, ok := msg.(*fabric.ReadRsp)
			if !ok {
				continue
			}

			want := uint32(pair*3 + pair*5)
			Expect(readRsp.Data).To(Equal(want),
				fmt.Sprintf("sum mismatch for pair %d", pair))
			pair++
		}
		Expect(pair).To(Equal(numPairs))

		Expect(periph.Bench().Stats().Mismatches).To(Equal(uint64(0)))
	})
})
