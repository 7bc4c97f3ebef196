package session

import (
	"bytes"
	"sync"

	"github.com/scylladb/go-set/i32set"
	"github.com/scylladb/go-set/strset"
)

// registerChannel is the plugin channel servers use to announce the channels they listen on.
const registerChannel = "minecraft:register"

// Tracker keeps the per-session bookkeeping that outlives single messages: message ids that were
// skipped as unknown and the plugin channels the server registered.
type Tracker struct {
	mu       sync.Mutex
	unknown  *i32set.Set
	channels *strset.Set
}

// NewTracker ...
func NewTracker() *Tracker {
	return &Tracker{
		unknown:  i32set.New(),
		channels: strset.New(),
	}
}

// markUnknown records id and reports whether it was seen for the first time.
func (t *Tracker) markUnknown(id int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unknown.Has(id) {
		return false
	}
	t.unknown.Add(id)
	return true
}

// handlePayload records the channels listed in a plugin message on the register channel. The
// channel names are separated by NUL bytes.
func (t *Tracker) handlePayload(channel string, data []byte) {
	if channel != registerChannel {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range bytes.Split(data, []byte{0}) {
		if len(name) > 0 {
			t.channels.Add(string(name))
		}
	}
}

// UnknownIDs returns the unknown message ids skipped so far.
func (t *Tracker) UnknownIDs() []int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unknown.List()
}

// Channels returns the plugin channels registered by the server.
func (t *Tracker) Channels() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.channels.List()
}

// HasChannel reports whether the server registered channel.
func (t *Tracker) HasChannel(channel string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.channels.Has(channel)
}
