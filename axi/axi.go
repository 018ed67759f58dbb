// Package axi defines the wire-level AXI4-Lite signal bundles that the
// slave engine, the bus master model, and the protocol checker exchange
// once per simulated clock cycle.
package axi

import "fmt"

// Resp is the 2-bit AXI response status code.
type Resp uint8

// AXI4-Lite response codes.
const (
	// RespOKAY indicates a successful transfer.
	RespOKAY Resp = 0b00
	// RespEXOKAY indicates a successful exclusive access. Not produced
	// by this peripheral; listed for completeness of the encoding.
	RespEXOKAY Resp = 0b01
	// RespSLVERR indicates a slave error. Not produced by this
	// peripheral.
	RespSLVERR Resp = 0b10
	// RespDECERR indicates a decode error: the targeted address has no
	// defined register.
	RespDECERR Resp = 0b11
)

// String returns the conventional AXI name of the response code.
func (r Resp) String() string {
	switch r {
	case RespOKAY:
		return "OKAY"
	case RespEXOKAY:
		return "EXOKAY"
	case RespSLVERR:
		return "SLVERR"
	case RespDECERR:
		return "DECERR"
	}
	return fmt.Sprintf("Resp(%d)", uint8(r))
}

// MasterToSlave carries every master-driven signal for one clock cycle.
// A transfer occurs on a channel exactly when its valid and ready are
// both asserted in the same cycle.
type MasterToSlave struct {
	// Reset is the synchronous reset line. It is sampled on the clock
	// edge like every other signal and takes effect in one cycle.
	Reset bool

	// Read-address channel.
	ARAddr  uint32
	ARProt  uint8 // pass-through qualifier, ignored by the slave
	ARValid bool

	// Write-address channel.
	AWAddr  uint32
	AWProt  uint8 // pass-through qualifier, ignored by the slave
	AWValid bool

	// Write-data channel. WStrb is carried but ignored: the peripheral
	// performs whole-word writes only.
	WData  uint32
	WStrb  uint8
	WValid bool

	// Ready lines for the two slave-driven channels.
	RReady bool
	BReady bool
}

// SlaveToMaster carries every slave-driven signal for one clock cycle.
type SlaveToMaster struct {
	// Ready lines for the three master-driven channels.
	ARReady bool
	AWReady bool
	WReady  bool

	// Read-data channel.
	RData  uint32
	RResp  Resp
	RValid bool

	// Write-response channel.
	BResp  Resp
	BValid bool
}

// ReadAddrFired reports a transfer on the read-address channel.
func ReadAddrFired(m MasterToSlave, s SlaveToMaster) bool {
	return m.ARValid && s.ARReady
}

// WriteAddrFired reports a transfer on the write-address channel.
func WriteAddrFired(m MasterToSlave, s SlaveToMaster) bool {
	return m.AWValid && s.AWReady
}

// WriteDataFired reports a transfer on the write-data channel.
func WriteDataFired(m MasterToSlave, s SlaveToMaster) bool {
	return m.WValid && s.WReady
}

// ReadDataFired reports a transfer on the read-data channel.
func ReadDataFired(m MasterToSlave, s SlaveToMaster) bool {
	return s.RValid && m.RReady
}

// WriteRespFired reports a transfer on the write-response channel.
func WriteRespFired(m MasterToSlave, s SlaveToMaster) bool {
	return s.BValid && m.BReady
}
