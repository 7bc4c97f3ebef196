package session

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"time"

	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/protocol"
	"github.com/pkg/errors"
)

// readLoop reads frames until the connection fails or a message ends the session. Every message
// is decoded in the state the session is in when its frame arrives.
func (s *Session) readLoop(ctx context.Context) error {
	for {
		payload, err := s.reader.ReadFrame()
		if err != nil {
			select {
			case <-s.closed:
				return ErrClosed
			default:
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				return errors.Wrap(ErrClosed, "connection closed by server")
			}
			return errors.Wrap(err, "read frame")
		}
		s.lastRead.Store(time.Now().UnixNano())
		s.opts.metrics.frameRead(len(payload))

		state := s.State()
		pk, err := s.registry.DecodePayload(protocol.Clientbound, state, payload)
		if err != nil {
			var unknown *packet.UnknownIDError
			if !errors.As(err, &unknown) {
				return err
			}
			s.opts.metrics.unknownID(state)
			if s.opts.strict {
				return err
			}
			if s.tracker.markUnknown(int32(unknown.ID)) {
				s.logger.Warn("skipping message with unknown id", "state", state.String(), "id", unknown.ID)
			}
			continue
		}

		if err := s.handlePacket(ctx, pk); err != nil {
			return err
		}
	}
}

// watchdog fails the session once nothing was read for longer than the read timeout.
func (s *Session) watchdog(ctx context.Context) error {
	timeout := s.opts.readTimeout
	if timeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(max(timeout/4, time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if now.Sub(time.Unix(0, s.lastRead.Load())) > timeout {
				s.closeWithError(ErrStalled)
				return ErrStalled
			}
		}
	}
}

// handlePacket applies the state changes and automatic responses pk causes and queues it for
// Receive. Messages that end the session are queued before the session fails.
func (s *Session) handlePacket(ctx context.Context, pk packet.Packet) error {
	var closeErr error
	switch pk := pk.(type) {
	case *packet.LoginCompression:
		if pk.Threshold >= 0 {
			if err := s.reader.ArmCompression(int(pk.Threshold)); err != nil {
				return errors.Wrap(err, "enable compression")
			}
			if err := s.writer.ArmCompression(int(pk.Threshold)); err != nil {
				return errors.Wrap(err, "enable compression")
			}
			s.logger.Debug("compression enabled", "threshold", pk.Threshold)
		}
	case *packet.EncryptionRequest:
		if s.opts.autoRespond {
			if err := s.respondEncryption(ctx, pk); err != nil {
				return err
			}
		}
	case *packet.CustomQuery:
		if s.opts.autoRespond {
			if err := s.Send(&packet.CustomQueryAnswer{MessageID: pk.MessageID}); err != nil {
				return err
			}
		}
	case *packet.GameProfile:
		s.logger.Debug("logged in", "username", pk.Username, "uuid", pk.UUID.String())
		if s.opts.version >= protocol.V1_20_2 {
			if err := s.sendInternal(&packet.LoginAcknowledged{}); err != nil {
				return err
			}
		} else {
			s.setState(protocol.StatePlay)
		}
	case *packet.FinishConfiguration:
		if err := s.sendInternal(&packet.ClientFinishConfiguration{}); err != nil {
			return err
		}
	case *packet.StartConfiguration:
		if err := s.sendInternal(&packet.ConfigurationAcknowledged{}); err != nil {
			return err
		}
	case *packet.KeepAlive:
		if s.opts.autoRespond {
			if err := s.Send(&packet.ClientKeepAlive{ID: pk.ID}); err != nil {
				return err
			}
		}
	case *packet.ConfigKeepAlive:
		if s.opts.autoRespond {
			if err := s.Send(&packet.ConfigClientKeepAlive{ID: pk.ID}); err != nil {
				return err
			}
		}
	case *packet.Ping:
		if s.opts.autoRespond {
			if err := s.Send(&packet.Pong{ID: pk.ID}); err != nil {
				return err
			}
		}
	case *packet.ConfigPing:
		if s.opts.autoRespond {
			if err := s.Send(&packet.ConfigPong{ID: pk.ID}); err != nil {
				return err
			}
		}
	case *packet.CustomPayload:
		s.tracker.handlePayload(pk.Channel, pk.Data)
	case *packet.ConfigCustomPayload:
		s.tracker.handlePayload(pk.Channel, pk.Data)
	case *packet.LoginDisconnect:
		closeErr = &DisconnectError{Reason: pk.Reason}
	case *packet.ConfigDisconnect:
		closeErr = &DisconnectError{Reason: chatString(pk.Reason)}
	case *packet.Disconnect:
		closeErr = &DisconnectError{Reason: chatString(pk.Reason)}
	}

	pctx := NewContext()
	s.opts.processor.ProcessIncoming(pctx, pk)
	if !pctx.Cancelled() {
		if err := s.enqueue(ctx, pk); err != nil {
			return err
		}
	}
	return closeErr
}

// enqueue queues pk for Receive. If the queue stays full for longer than the queue timeout the
// session fails with ErrBacklog.
func (s *Session) enqueue(ctx context.Context, pk packet.Packet) error {
	select {
	case s.incoming <- pk:
		return nil
	default:
	}

	timer := time.NewTimer(s.opts.queueTimeout)
	defer timer.Stop()
	select {
	case s.incoming <- pk:
		return nil
	case <-timer.C:
		return errors.Wrapf(ErrBacklog, "queue %v", pk.Kind())
	case <-ctx.Done():
		return ErrClosed
	}
}

// respondEncryption authenticates with the session service and enables encryption.
func (s *Session) respondEncryption(ctx context.Context, pk *packet.EncryptionRequest) error {
	if s.opts.authenticator == nil {
		return ErrNoAuthenticator
	}
	secret, err := NewSharedSecret()
	if err != nil {
		return errors.Wrap(err, "generate shared secret")
	}
	hash := ServerHash(pk.ServerID, secret, pk.PublicKey)
	if err := s.opts.authenticator.Authenticate(ctx, hash); err != nil {
		return errors.Wrap(err, "authenticate")
	}
	resp, err := NewEncryptionResponse(pk.PublicKey, secret, pk.VerifyToken)
	if err != nil {
		return err
	}
	if err := s.EnableEncryption(resp, secret); err != nil {
		return errors.Wrap(err, "enable encryption")
	}
	s.logger.Debug("encryption enabled")
	return nil
}

// chatString returns the text form of c: the JSON text for older versions, the plain text or the
// compound encoded as JSON for newer ones.
func chatString(c protocol.Chat) string {
	switch {
	case c.JSON != "":
		return c.JSON
	case c.Tag != nil:
		b, err := json.Marshal(c.Tag)
		if err != nil {
			return c.Text
		}
		return string(b)
	}
	return c.Text
}
