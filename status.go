package prism

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/protocol"
	"github.com/cooldogedev/prism/session"
	"github.com/cooldogedev/prism/util"
	"github.com/pkg/errors"
)

// StatusResult is the answer of a server to a status query.
type StatusResult struct {
	// Raw is the status document as sent by the server.
	Raw string
	// Status is the parsed status document.
	Status *util.ServerStatus
	// Latency is the round trip time of the ping following the status request.
	Latency time.Duration
}

// Status queries the status of the server at addr: it requests the status document, then measures
// the latency with a ping.
func Status(ctx context.Context, addr string, opts ...session.Option) (*StatusResult, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "parse address %s", addr)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, errors.Wrapf(err, "parse port %s", portStr)
	}

	s, err := session.Connect(ctx, addr, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Handshake(host, uint16(port), protocol.StateStatus); err != nil {
		return nil, errors.Wrap(err, "handshake")
	}
	if err := s.Send(&packet.StatusRequest{}); err != nil {
		return nil, errors.Wrap(err, "status request")
	}
	resp, err := receive[*packet.StatusResponse](ctx, s)
	if err != nil {
		return nil, errors.Wrap(err, "status response")
	}
	status, err := util.ParseServerStatus(resp.Response)
	if err != nil {
		return nil, err
	}

	sent := time.Now()
	if err := s.Send(&packet.PingRequest{Time: sent.UnixMilli()}); err != nil {
		return nil, errors.Wrap(err, "ping request")
	}
	pong, err := receive[*packet.PongResponse](ctx, s)
	if err != nil {
		return nil, errors.Wrap(err, "pong response")
	}
	if pong.Time != sent.UnixMilli() {
		return nil, errors.Wrapf(protocol.ErrMalformed, "pong for %d, sent %d", pong.Time, sent.UnixMilli())
	}
	return &StatusResult{Raw: resp.Response, Status: status, Latency: time.Since(sent)}, nil
}

// receive returns the next message of type T, skipping any other message.
func receive[T packet.Packet](ctx context.Context, s *session.Session) (T, error) {
	for {
		pk, err := s.Receive(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		if pk, ok := pk.(T); ok {
			return pk, nil
		}
	}
}
