package session

import "github.com/cooldogedev/prism/packet"

// Processor observes every message passing through a session. Both methods are called on the
// goroutine moving the message and must return quickly.
type Processor interface {
	// ProcessIncoming is called for every decoded message from the server, after the session has
	// handled state changes and before the message is queued for Receive.
	ProcessIncoming(ctx *Context, pk packet.Packet)
	// ProcessOutgoing is called for every message before it is written. Cancelling drops a message
	// passed to Send. The acknowledgements the session sends on its own and the encryption response
	// are written regardless.
	ProcessOutgoing(ctx *Context, pk packet.Packet)
}

// NopProcessor is a Processor that does nothing.
type NopProcessor struct{}

// ProcessIncoming ...
func (NopProcessor) ProcessIncoming(*Context, packet.Packet) {}

// ProcessOutgoing ...
func (NopProcessor) ProcessOutgoing(*Context, packet.Packet) {}
