// Package adder implements a small memory-mapped AXI4-Lite peripheral:
// two writable 16-bit registers A and B and a read-only register C that
// always reads as A + B.
//
// The engine is fully synchronous. One call to Tick models one clock
// cycle: the returned SlaveToMaster bundle is combinational in the
// current state and this cycle's inputs, and the internal state update
// models the clock edge at the end of the same cycle.
package adder

import "github.com/benreynwar/axilent/axi"

// Register offsets in the peripheral's address space. Addresses index
// 32-bit registers directly.
const (
	// RegAOffset is the read/write register A. Only the low 16 bits
	// are meaningful; the upper bits are ignored on write and
	// zero-extended on read.
	RegAOffset uint32 = 0
	// RegBOffset is the read/write register B, same shape as A.
	RegBOffset uint32 = 1
	// RegCOffset is the read-only register C = A + B. The 17-bit sum
	// is zero-extended to 32 bits. Writes to this offset return DECERR.
	RegCOffset uint32 = 2
)

// respBuffer is a one-deep response slot. Lite has no pipelining, so a
// single entry per channel is the whole buffer: EMPTY/FULL, nothing
// more general.
type respBuffer struct {
	// Pending indicates a buffered response awaiting the consumer.
	Pending bool

	// Resp is the status decided when the request was accepted.
	Resp axi.Resp

	// Data is the captured read value. Unused on the write-response
	// slot. On a decode error it keeps its previous value.
	Data uint32
}

// Clear empties the slot. Data is deliberately left alone: the read
// data lines are unspecified while RValid is low.
func (b *respBuffer) Clear() {
	b.Pending = false
	b.Resp = axi.RespOKAY
}

// Engine is the AXI4-Lite slave protocol engine composed with the
// register bank. It owns all slave-driven signals and is the only
// writer of the register state.
type Engine struct {
	regA uint16
	regB uint16

	writeResp respBuffer
	readResp  respBuffer
}

// NewEngine creates an adder peripheral engine. State before the first
// reset cycle is defined (all zero) in this model, unlike real
// hardware; tests that care about reset behavior should still drive a
// reset cycle first.
func NewEngine() *Engine {
	return &Engine{}
}

// RegA returns the current value of register A.
func (e *Engine) RegA() uint16 {
	return e.regA
}

// RegB returns the current value of register B.
func (e *Engine) RegB() uint16 {
	return e.regB
}

// Sum returns the derived register C. It is recomputed from A and B on
// every call and never stored, so it can not go stale.
func (e *Engine) Sum() uint32 {
	return uint32(e.regA) + uint32(e.regB)
}

// WritePending reports whether a write response is buffered.
func (e *Engine) WritePending() bool {
	return e.writeResp.Pending
}

// ReadPending reports whether a read response is buffered.
func (e *Engine) ReadPending() bool {
	return e.readResp.Pending
}

// outputs computes the combinational slave-driven signals for this
// cycle from the registered state and the master's current inputs.
//
// The write-address and write-data channels are merged: neither ready
// asserts unless the other channel is valid and the response slot is
// free or draining this cycle. Both therefore fire together or not at
// all, which is what makes a committed write atomic.
func (e *Engine) outputs(in axi.MasterToSlave) axi.SlaveToMaster {
	writeAvail := !e.writeResp.Pending || in.BReady
	readAvail := !e.readResp.Pending || in.RReady

	return axi.SlaveToMaster{
		AWReady: in.WValid && writeAvail,
		WReady:  in.AWValid && writeAvail,
		ARReady: readAvail,

		RData:  e.readResp.Data,
		RResp:  e.readResp.Resp,
		RValid: e.readResp.Pending,

		BResp:  e.writeResp.Resp,
		BValid: e.writeResp.Pending,
	}
}

// Tick evaluates one clock cycle. The returned outputs are what the
// master observes during this cycle; the state mutation models the
// clock edge.
//
// Reset is synchronous: every slave-driven signal is deasserted for
// the reset cycle so nothing can be accepted and then forgotten, and
// the registers and both response slots are clear from the next cycle
// on. Reset does not touch the master-driven valid lines, which the
// engine does not own.
func (e *Engine) Tick(in axi.MasterToSlave) axi.SlaveToMaster {
	if in.Reset {
		e.regA = 0
		e.regB = 0
		e.writeResp.Clear()
		e.readResp.Clear()
		return axi.SlaveToMaster{}
	}

	out := e.outputs(in)

	// Read path. The lookup happens before the write path mutates the
	// bank, so a read accepted in the same cycle as a write commit
	// observes the pre-edge A/B values, as registered hardware would.
	if e.readResp.Pending && in.RReady {
		e.readResp.Pending = false
	}
	if in.ARValid && out.ARReady {
		data, resp := e.lookup(in.ARAddr)
		e.readResp.Pending = true
		e.readResp.Resp = resp
		if resp == axi.RespOKAY {
			e.readResp.Data = data
		}
	}

	// Write path. Drain first so a new commit can refill the slot in
	// the same cycle the old response is consumed.
	if e.writeResp.Pending && in.BReady {
		e.writeResp.Pending = false
	}
	if in.AWValid && out.AWReady {
		// AWReady implies WValid, so both halves fire together here.
		e.writeResp.Pending = true
		e.writeResp.Resp = e.applyWrite(in.AWAddr, in.WData)
	}

	return out
}

// applyWrite decodes a committed write and applies it to the register
// bank. An undecodable address, including the read-only C register,
// leaves the bank untouched and reports DECERR; the response itself is
// always produced so the requester is never left hanging.
func (e *Engine) applyWrite(addr, data uint32) axi.Resp {
	switch addr {
	case RegAOffset:
		e.regA = uint16(data)
		return axi.RespOKAY
	case RegBOffset:
		e.regB = uint16(data)
		return axi.RespOKAY
	default:
		return axi.RespDECERR
	}
}

// lookup decodes a read address. The data result is meaningful only
// when the response is OKAY.
func (e *Engine) lookup(addr uint32) (uint32, axi.Resp) {
	switch addr {
	case RegAOffset:
		return uint32(e.regA), axi.RespOKAY
	case RegBOffset:
		return uint32(e.regB), axi.RespOKAY
	case RegCOffset:
		return e.Sum(), axi.RespOKAY
	default:
		return 0, axi.RespDECERR
	}
}
