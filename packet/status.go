package packet

import "github.com/cooldogedev/prism/protocol"

// StatusRequest asks the server for its status document.
type StatusRequest struct{}

// Kind ...
func (*StatusRequest) Kind() Kind {
	return KindStatusRequest
}

// Marshal ...
func (*StatusRequest) Marshal(protocol.IO) {}

// StatusResponse carries the JSON status document of the server.
type StatusResponse struct {
	Response string
}

// Kind ...
func (*StatusResponse) Kind() Kind {
	return KindStatusResponse
}

// Marshal ...
func (pk *StatusResponse) Marshal(io protocol.IO) {
	io.String(&pk.Response)
}

// PingRequest is echoed back by the server in a PongResponse to measure latency.
type PingRequest struct {
	Time int64
}

// Kind ...
func (*PingRequest) Kind() Kind {
	return KindPingRequest
}

// Marshal ...
func (pk *PingRequest) Marshal(io protocol.IO) {
	io.Int64(&pk.Time)
}

// PongResponse ...
type PongResponse struct {
	Time int64
}

// Kind ...
func (*PongResponse) Kind() Kind {
	return KindPongResponse
}

// Marshal ...
func (pk *PongResponse) Marshal(io protocol.IO) {
	io.Int64(&pk.Time)
}
