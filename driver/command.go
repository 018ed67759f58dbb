package driver

import (
	"fmt"

	"github.com/benreynwar/axilent/axi"
)

// Command is a single queued read or write transaction. It is resolved
// when the corresponding completion handshake fires; until then Done
// reports false and the result accessors panic.
type Command struct {
	addr   uint32
	data   uint32
	isRead bool

	done bool
	resp axi.Resp
	read uint32
}

// Addr returns the register address the command targets.
func (c *Command) Addr() uint32 {
	return c.addr
}

// IsRead reports whether the command is a read.
func (c *Command) IsRead() bool {
	return c.isRead
}

// Done reports whether the completion handshake has fired.
func (c *Command) Done() bool {
	return c.done
}

// Resp returns the response status. Panics if the command is not done.
func (c *Command) Resp() axi.Resp {
	c.mustBeDone()
	return c.resp
}

// Data returns the read data. Panics if the command is not a completed
// read.
func (c *Command) Data() uint32 {
	c.mustBeDone()
	if !c.isRead {
		panic("data requested from a write command")
	}
	return c.read
}

// Err returns nil for an OKAY response and a descriptive error for any
// other status. Panics if the command is not done.
func (c *Command) Err() error {
	c.mustBeDone()
	if c.resp == axi.RespOKAY {
		return nil
	}
	kind := "write"
	if c.isRead {
		kind = "read"
	}
	return fmt.Errorf("%s of address %d failed with response %v", kind, c.addr, c.resp)
}

func (c *Command) mustBeDone() {
	if !c.done {
		panic("command is not resolved yet")
	}
}

func (c *Command) resolve(resp axi.Resp, data uint32) {
	if c.done {
		panic("command resolved twice")
	}
	c.done = true
	c.resp = resp
	c.read = data
}
