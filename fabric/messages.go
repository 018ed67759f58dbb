package fabric

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/benreynwar/axilent/axi"
)

// ReadReq asks the peripheral to read one register.
type ReadReq struct {
	sim.MsgMeta

	Addr uint32
}

// Meta returns the meta data of the message.
func (r *ReadReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned ReadReq with a different ID.
func (r *ReadReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// NewReadReq creates a ReadReq from src to dst.
func NewReadReq(src, dst sim.RemotePort, addr uint32) *ReadReq {
	r := &ReadReq{Addr: addr}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = src
	r.Dst = dst

	return r
}

// WriteReq asks the peripheral to write one register.
type WriteReq struct {
	sim.MsgMeta

	Addr uint32
	Data uint32
}

// Meta returns the meta data of the message.
func (w *WriteReq) Meta() *sim.MsgMeta {
	return &w.MsgMeta
}

// Clone returns a cloned WriteReq with a different ID.
func (w *WriteReq) Clone() sim.Msg {
	cloneMsg := *w
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// NewWriteReq creates a WriteReq from src to dst.
func NewWriteReq(src, dst sim.RemotePort, addr, data uint32) *WriteReq {
	w := &WriteReq{Addr: addr, Data: data}
	w.ID = sim.GetIDGenerator().Generate()
	w.Src = src
	w.Dst = dst

	return w
}

// ReadRsp carries the data and status of a completed read.
type ReadRsp struct {
	sim.MsgMeta

	RspTo string
	Data  uint32
	Resp  axi.Resp
}

// Meta returns the meta data of the message.
func (r *ReadRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned ReadRsp with a different ID.
func (r *ReadRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request this responds to.
func (r *ReadRsp) GetRspTo() string {
	return r.RspTo
}

// WriteRsp carries the status of a completed write.
type WriteRsp struct {
	sim.MsgMeta

	RspTo string
	Resp  axi.Resp
}

// Meta returns the meta data of the message.
func (w *WriteRsp) Meta() *sim.MsgMeta {
	return &w.MsgMeta
}

// Clone returns a cloned WriteRsp with a different ID.
func (w *WriteRsp) Clone() sim.Msg {
	cloneMsg := *w
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request this responds to.
func (w *WriteRsp) GetRspTo() string {
	return w.RspTo
}
