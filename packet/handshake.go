package packet

import "github.com/cooldogedev/prism/protocol"

// Intention is the single message of the handshake state. It announces the protocol version of the
// client and the state the connection continues in.
type Intention struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	// NextState is protocol.IntentStatus or protocol.IntentLogin.
	NextState int32
}

// Kind ...
func (*Intention) Kind() Kind {
	return KindIntention
}

// Marshal ...
func (pk *Intention) Marshal(io protocol.IO) {
	io.Varint32(&pk.ProtocolVersion)
	io.String(&pk.ServerAddress)
	io.Uint16(&pk.ServerPort)
	io.Varint32(&pk.NextState)
}
