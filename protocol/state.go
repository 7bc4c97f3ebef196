package protocol

// Direction is the direction a message travels in.
type Direction uint8

const (
	// Clientbound messages are sent by the server to the client.
	Clientbound Direction = iota
	// Serverbound messages are sent by the client to the server.
	Serverbound
)

// String ...
func (d Direction) String() string {
	switch d {
	case Clientbound:
		return "clientbound"
	case Serverbound:
		return "serverbound"
	}
	return "unknown"
}

// State is the phase of a connection. It decides which messages may be sent and received.
type State int32

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	// StateConfiguration only exists from 1.20.2 onwards.
	StateConfiguration
	StatePlay
	// StateClosed is terminal. No message is valid in it.
	StateClosed
)

// String ...
func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StateConfiguration:
		return "configuration"
	case StatePlay:
		return "play"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// HasState reports whether the state exists at all under version v.
func (v Version) HasState(s State) bool {
	if s == StateConfiguration {
		return v >= V1_20_2
	}
	return s >= StateHandshake && s <= StatePlay
}

// Intent values carried by the handshake to select the next state.
const (
	IntentStatus int32 = 1
	IntentLogin  int32 = 2
)
