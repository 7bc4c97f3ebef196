package session

// Context is passed to a Processor for every message. Cancelling it stops the message from being
// delivered: incoming messages are not queued for Receive and outgoing messages are not written.
type Context struct {
	cancelled bool
}

// NewContext ...
func NewContext() *Context {
	return &Context{}
}

// Cancel ...
func (c *Context) Cancel() {
	c.cancelled = true
}

// Cancelled ...
func (c *Context) Cancelled() bool {
	return c.cancelled
}
