package adder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/benreynwar/axilent/adder"
	"github.com/benreynwar/axilent/axi"
)

// writeBeat presents both write channels with the consumer ready.
func writeBeat(addr, data uint32) axi.MasterToSlave {
	return axi.MasterToSlave{
		AWAddr:  addr,
		AWValid: true,
		WData:   data,
		WStrb:   0xF,
		WValid:  true,
		BReady:  true,
		RReady:  true,
	}
}

// readBeat presents the read-address channel with the consumer ready.
func readBeat(addr uint32) axi.MasterToSlave {
	return axi.MasterToSlave{
		ARAddr:  addr,
		ARValid: true,
		RReady:  true,
		BReady:  true,
	}
}

// idleBeat keeps every valid low and both ready lines high.
func idleBeat() axi.MasterToSlave {
	return axi.MasterToSlave{RReady: true, BReady: true}
}

// write drives a full write transaction and returns the response.
func write(e *adder.Engine, addr, data uint32) axi.Resp {
	out := e.Tick(writeBeat(addr, data))
	Expect(out.AWReady).To(BeTrue())
	Expect(out.WReady).To(BeTrue())

	out = e.Tick(idleBeat())
	Expect(out.BValid).To(BeTrue())
	return out.BResp
}

// read drives a full read transaction and returns data and response.
func read(e *adder.Engine, addr uint32) (uint32, axi.Resp) {
	out := e.Tick(readBeat(addr))
	Expect(out.ARReady).To(BeTrue())

	out = e.Tick(idleBeat())
	Expect(out.RValid).To(BeTrue())
	return out.RData, out.RResp
}

var _ = Describe("Engine", func() {
	var e *adder.Engine

	BeforeEach(func() {
		e = adder.NewEngine()
		e.Tick(axi.MasterToSlave{Reset: true})
	})

	Describe("reset", func() {
		It("should clear registers and response buffers", func() {
			Expect(write(e, adder.RegAOffset, 12)).To(Equal(axi.RespOKAY))
			Expect(write(e, adder.RegBOffset, 34)).To(Equal(axi.RespOKAY))

			// Leave a read response pending, then reset.
			e.Tick(axi.MasterToSlave{ARAddr: adder.RegCOffset, ARValid: true})
			Expect(e.ReadPending()).To(BeTrue())

			e.Tick(axi.MasterToSlave{Reset: true})

			Expect(e.RegA()).To(Equal(uint16(0)))
			Expect(e.RegB()).To(Equal(uint16(0)))
			Expect(e.Sum()).To(Equal(uint32(0)))
			Expect(e.WritePending()).To(BeFalse())
			Expect(e.ReadPending()).To(BeFalse())

			out := e.Tick(idleBeat())
			Expect(out.BValid).To(BeFalse())
			Expect(out.RValid).To(BeFalse())
		})

		It("should deassert every output during the reset cycle", func() {
			e.Tick(axi.MasterToSlave{ARAddr: adder.RegAOffset, ARValid: true})

			// Nothing may be accepted while reset is asserted, so the
			// ready lines go low along with the valids.
			in := writeBeat(adder.RegAOffset, 1)
			in.Reset = true
			out := e.Tick(in)
			Expect(out).To(Equal(axi.SlaveToMaster{}))

			out = e.Tick(idleBeat())
			Expect(out.RValid).To(BeFalse())
			Expect(e.WritePending()).To(BeFalse())
		})
	})

	Describe("write channel merging", func() {
		It("should not accept an address without data", func() {
			out := e.Tick(axi.MasterToSlave{
				AWAddr: adder.RegAOffset, AWValid: true, BReady: true,
			})
			Expect(out.AWReady).To(BeFalse())
			Expect(e.WritePending()).To(BeFalse())
		})

		It("should not accept data without an address", func() {
			out := e.Tick(axi.MasterToSlave{
				WData: 99, WValid: true, BReady: true,
			})
			Expect(out.WReady).To(BeFalse())
			Expect(e.WritePending()).To(BeFalse())
		})

		It("should accept both halves in the same cycle", func() {
			out := e.Tick(writeBeat(adder.RegAOffset, 7))
			Expect(out.AWReady).To(BeTrue())
			Expect(out.WReady).To(BeTrue())
			Expect(e.WritePending()).To(BeTrue())
			Expect(e.RegA()).To(Equal(uint16(7)))
		})
	})

	Describe("write responses", func() {
		It("should hold the response until the consumer is ready", func() {
			e.Tick(writeBeat(adder.RegAOffset, 1))

			// Consumer not ready: the response stays put and no new
			// write is accepted.
			for i := 0; i < 3; i++ {
				out := e.Tick(axi.MasterToSlave{
					AWAddr: adder.RegAOffset, AWValid: true,
					WData: 2, WValid: true,
				})
				Expect(out.BValid).To(BeTrue())
				Expect(out.BResp).To(Equal(axi.RespOKAY))
				Expect(out.AWReady).To(BeFalse())
				Expect(out.WReady).To(BeFalse())
			}
			Expect(e.RegA()).To(Equal(uint16(1)))

			out := e.Tick(idleBeat())
			Expect(out.BValid).To(BeTrue())
			out = e.Tick(idleBeat())
			Expect(out.BValid).To(BeFalse())
		})

		It("should drain and refill in a single cycle", func() {
			e.Tick(writeBeat(adder.RegAOffset, 5))

			// Old response drains while a decode-error write commits.
			out := e.Tick(writeBeat(0x80, 9))
			Expect(out.BValid).To(BeTrue())
			Expect(out.BResp).To(Equal(axi.RespOKAY))
			Expect(out.AWReady).To(BeTrue())
			Expect(out.WReady).To(BeTrue())

			out = e.Tick(idleBeat())
			Expect(out.BValid).To(BeTrue())
			Expect(out.BResp).To(Equal(axi.RespDECERR))
		})
	})

	Describe("read responses", func() {
		It("should buffer one response and apply backpressure", func() {
			Expect(write(e, adder.RegAOffset, 3)).To(Equal(axi.RespOKAY))

			e.Tick(readBeat(adder.RegAOffset))
			for i := 0; i < 3; i++ {
				out := e.Tick(axi.MasterToSlave{
					ARAddr: adder.RegBOffset, ARValid: true,
				})
				Expect(out.RValid).To(BeTrue())
				Expect(out.RData).To(Equal(uint32(3)))
				Expect(out.ARReady).To(BeFalse())
			}

			out := e.Tick(idleBeat())
			Expect(out.RValid).To(BeTrue())
			out = e.Tick(idleBeat())
			Expect(out.RValid).To(BeFalse())
		})

		It("should capture the bank state at address accept", func() {
			Expect(write(e, adder.RegAOffset, 10)).To(Equal(axi.RespOKAY))

			// Read of A accepted in the same cycle as a write commit to
			// A observes the pre-edge value.
			in := writeBeat(adder.RegAOffset, 99)
			in.ARAddr = adder.RegAOffset
			in.ARValid = true
			out := e.Tick(in)
			Expect(out.ARReady).To(BeTrue())
			Expect(out.AWReady).To(BeTrue())

			out = e.Tick(idleBeat())
			Expect(out.RValid).To(BeTrue())
			Expect(out.RData).To(Equal(uint32(10)))
			Expect(e.RegA()).To(Equal(uint16(99)))
		})
	})

	Describe("register map", func() {
		It("should add five and seven", func() {
			Expect(write(e, adder.RegAOffset, 5)).To(Equal(axi.RespOKAY))
			Expect(write(e, adder.RegBOffset, 7)).To(Equal(axi.RespOKAY))

			data, resp := read(e, adder.RegCOffset)
			Expect(resp).To(Equal(axi.RespOKAY))
			Expect(data).To(Equal(uint32(12)))
		})

		It("should cover the full 17-bit sum range", func() {
			Expect(write(e, adder.RegAOffset, 0xFFFF)).To(Equal(axi.RespOKAY))
			Expect(write(e, adder.RegBOffset, 0xFFFF)).To(Equal(axi.RespOKAY))

			data, resp := read(e, adder.RegCOffset)
			Expect(resp).To(Equal(axi.RespOKAY))
			Expect(data).To(Equal(uint32(0x1FFFE)))
		})

		It("should ignore the upper half of written words", func() {
			Expect(write(e, adder.RegAOffset, 0xABCD1234)).To(Equal(axi.RespOKAY))

			data, resp := read(e, adder.RegAOffset)
			Expect(resp).To(Equal(axi.RespOKAY))
			Expect(data).To(Equal(uint32(0x1234)))
		})

		It("should reject writes to the read-only sum register", func() {
			Expect(write(e, adder.RegAOffset, 5)).To(Equal(axi.RespOKAY))
			Expect(write(e, adder.RegCOffset, 42)).To(Equal(axi.RespDECERR))

			data, resp := read(e, adder.RegCOffset)
			Expect(resp).To(Equal(axi.RespOKAY))
			Expect(data).To(Equal(uint32(5)))
		})

		It("should reject undecodable addresses without mutating state", func() {
			Expect(write(e, adder.RegAOffset, 5)).To(Equal(axi.RespOKAY))
			Expect(write(e, adder.RegBOffset, 6)).To(Equal(axi.RespOKAY))

			for i := 0; i < 4; i++ {
				Expect(write(e, 3+uint32(i)*17, 0xDEAD)).To(Equal(axi.RespDECERR))
			}
			Expect(e.RegA()).To(Equal(uint16(5)))
			Expect(e.RegB()).To(Equal(uint16(6)))

			_, resp := read(e, 0x1000)
			Expect(resp).To(Equal(axi.RespDECERR))
		})

		It("should hold the last read data on a decode error", func() {
			Expect(write(e, adder.RegAOffset, 5)).To(Equal(axi.RespOKAY))
			Expect(write(e, adder.RegBOffset, 7)).To(Equal(axi.RespOKAY))

			data, resp := read(e, adder.RegCOffset)
			Expect(resp).To(Equal(axi.RespOKAY))
			Expect(data).To(Equal(uint32(12)))

			data, resp = read(e, 0x3F)
			Expect(resp).To(Equal(axi.RespDECERR))
			Expect(data).To(Equal(uint32(12)))
		})
	})
})
