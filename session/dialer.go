package session

import (
	"context"
	"net"
	"strconv"

	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/protocol"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Dialer logs in to servers with a fixed identity.
type Dialer struct {
	// Username is the name sent in the login start message.
	Username string
	// UUID is the player UUID sent by versions that carry one. If empty, the offline mode UUID of
	// Username is used.
	UUID uuid.UUID
	// Options configure every session dialed.
	Options []Option
	// Registry, if not nil, tracks the sessions dialed under Username.
	Registry *Registry
}

// Dial connects to addr, logs in and returns the session once it reached the play state.
func (d Dialer) Dial(ctx context.Context, addr string) (*Session, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "parse address %s", addr)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, errors.Wrapf(err, "parse port %s", portStr)
	}

	s, err := Connect(ctx, addr, d.Options...)
	if err != nil {
		return nil, err
	}
	if err := d.login(ctx, s, host, uint16(port)); err != nil {
		_ = s.Close()
		return nil, err
	}
	if d.Registry != nil {
		d.Registry.AddSession(d.Username, s)
	}
	return s, nil
}

func (d Dialer) login(ctx context.Context, s *Session, host string, port uint16) error {
	if err := s.Handshake(host, port, protocol.StateLogin); err != nil {
		return errors.Wrap(err, "handshake")
	}

	id := d.UUID
	if id == uuid.Nil {
		id = OfflineUUID(d.Username)
	}
	start := &packet.LoginStart{Name: d.Username, PlayerUUID: id}
	if v := s.Version(); v >= protocol.V1_19_1 && v < protocol.V1_20_2 {
		start.HasPlayerUUID = true
	}
	if err := s.Send(start); err != nil {
		return errors.Wrap(err, "login start")
	}
	if err := s.WaitState(ctx, protocol.StatePlay); err != nil {
		return errors.Wrap(err, "login")
	}
	return nil
}
