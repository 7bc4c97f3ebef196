package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/protocol"
	"github.com/cooldogedev/prism/protocol/frame"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Session is a client connection to a server. It owns the reading goroutine, decodes every frame
// for the current state and queues the messages for Receive. Send may be called from any goroutine.
type Session struct {
	conn   io.ReadWriteCloser
	reader *frame.Reader
	writer *frame.Writer

	registry *packet.Registry
	opts     options
	logger   *slog.Logger
	tracker  *Tracker
	limiter  *rate.Limiter

	stateMu      sync.Mutex
	state        protocol.State
	stateChanged chan struct{}

	sendMu sync.Mutex

	incoming chan packet.Packet
	lastRead atomic.Int64

	cancel    context.CancelFunc
	closed    chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
	reported  bool
}

// Connect dials addr with the configured transport and returns a session in the handshake state.
func Connect(ctx context.Context, addr string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	checkOptions(&o)

	conn, err := o.transport.Dial(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}
	s, err := newSession(conn, o)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// New returns a session speaking over an established connection. The session takes ownership of
// conn and closes it when the session closes.
func New(conn io.ReadWriteCloser, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	checkOptions(&o)
	return newSession(conn, o)
}

func newSession(conn io.ReadWriteCloser, o options) (*Session, error) {
	registry, err := packet.NewRegistry(o.version)
	if err != nil {
		return nil, err
	}

	s := &Session{
		conn:   conn,
		reader: frame.NewReader(conn),
		writer: frame.NewWriter(conn),

		registry: registry,
		opts:     o,
		logger:   o.logger.With("version", o.version.String()),
		tracker:  NewTracker(),
		limiter:  rate.NewLimiter(o.sendLimit, o.sendBurst),

		state:        protocol.StateHandshake,
		stateChanged: make(chan struct{}),

		incoming: make(chan packet.Packet, o.queueSize),
		closed:   make(chan struct{}),
	}
	s.lastRead.Store(time.Now().UnixNano())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := s.readLoop(ctx)
		s.closeWithError(err)
		return err
	})
	group.Go(func() error {
		return s.watchdog(ctx)
	})

	s.opts.metrics.sessionOpened()
	go func() {
		_ = group.Wait()
		close(s.incoming)
		s.opts.metrics.sessionClosed()
	}()
	return s, nil
}

// Version returns the protocol version of the session.
func (s *Session) Version() protocol.Version {
	return s.opts.version
}

// Registry returns the message registry of the session's version.
func (s *Session) Registry() *packet.Registry {
	return s.registry
}

// Tracker returns the tracker of the session.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// State returns the current state of the session.
func (s *Session) State() protocol.State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// setState moves the session to state and wakes up everything waiting in WaitState. The closed
// state is final.
func (s *Session) setState(state protocol.State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state == state || s.state == protocol.StateClosed {
		return
	}
	s.logger.Debug("state changed", "from", s.state.String(), "to", state.String())
	s.state = state
	close(s.stateChanged)
	s.stateChanged = make(chan struct{})
}

// WaitState blocks until the session reaches state. It returns the terminal error of the session
// if it closes first, and ErrIllegalState if the version of the session has no such state.
func (s *Session) WaitState(ctx context.Context, state protocol.State) error {
	if state != protocol.StateClosed && !s.opts.version.HasState(state) {
		return errors.Wrapf(ErrIllegalState, "wait for %v state", state)
	}
	for {
		s.stateMu.Lock()
		current, changed := s.state, s.stateChanged
		s.stateMu.Unlock()

		if current == state {
			return nil
		}
		if current == protocol.StateClosed {
			if err := s.Err(); err != nil {
				return err
			}
			return ErrClosed
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Handshake sends the handshake for host and port and moves the session to next, which must be
// protocol.StateStatus or protocol.StateLogin.
func (s *Session) Handshake(host string, port uint16, next protocol.State) error {
	intent := protocol.IntentLogin
	switch next {
	case protocol.StateStatus:
		intent = protocol.IntentStatus
	case protocol.StateLogin:
	default:
		return errors.Wrapf(ErrIllegalState, "handshake into %v", next)
	}
	return s.Send(&packet.Intention{
		ProtocolVersion: int32(s.opts.version),
		ServerAddress:   host,
		ServerPort:      port,
		NextState:       intent,
	})
}

// Send writes pk to the server. It returns ErrIllegalState without writing anything if pk is not a
// serverbound message of the current state.
func (s *Session) Send(pk packet.Packet) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.sendLocked(pk, true)
}

// sendInternal writes a message the session sends on its own. The processor sees it but cannot
// cancel it, since the state of the session depends on the server reading it.
func (s *Session) sendInternal(pk packet.Packet) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.sendLocked(pk, false)
}

// SendContext is like Send, but first waits for the send rate limiter.
func (s *Session) SendContext(ctx context.Context, pk packet.Packet) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.Send(pk)
}

// sendLocked writes pk and applies the state change it causes. The state changes before the frame
// is written so a reply can never be decoded in the old state. A cancelled message is dropped
// without changing state only if cancellable is true.
func (s *Session) sendLocked(pk packet.Packet, cancellable bool) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}

	k := pk.Kind()
	state := s.State()
	if k.Direction() != protocol.Serverbound || k.State() != state {
		return errors.Wrapf(ErrIllegalState, "send %v in %v state", k, state)
	}
	next, err := transition(pk)
	if err != nil {
		return err
	}

	ctx := NewContext()
	s.opts.processor.ProcessOutgoing(ctx, pk)
	if cancellable && ctx.Cancelled() {
		return nil
	}

	payload, err := s.registry.Encode(pk)
	if err != nil {
		return err
	}
	if next != state {
		s.setState(next)
	}
	if err := s.writer.WriteFrame(payload); err != nil {
		select {
		case <-s.closed:
			return ErrClosed
		default:
		}
		err = errors.Wrapf(err, "write %v", k)
		s.closeWithError(err)
		return err
	}
	s.opts.metrics.frameWritten(len(payload))
	return nil
}

// transition returns the state the session is in after sending pk.
func transition(pk packet.Packet) (protocol.State, error) {
	switch pk := pk.(type) {
	case *packet.Intention:
		switch pk.NextState {
		case protocol.IntentStatus:
			return protocol.StateStatus, nil
		case protocol.IntentLogin:
			return protocol.StateLogin, nil
		}
		return 0, errors.Wrapf(ErrIllegalState, "handshake with next state %d", pk.NextState)
	case *packet.LoginAcknowledged, *packet.ConfigurationAcknowledged:
		return protocol.StateConfiguration, nil
	case *packet.ClientFinishConfiguration:
		return protocol.StatePlay, nil
	}
	return pk.Kind().State(), nil
}

// EnableEncryption writes resp and enables encryption with secret. Decryption is enabled before
// resp is written, since the server encrypts everything after reading it, and encryption right
// after, since resp itself travels in plain text.
func (s *Session) EnableEncryption(resp *packet.EncryptionResponse, secret []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if state := s.State(); state != protocol.StateLogin {
		return errors.Wrapf(ErrIllegalState, "enable encryption in %v state", state)
	}
	if err := s.reader.ArmEncryption(secret, secret); err != nil {
		return err
	}
	if err := s.sendLocked(resp, false); err != nil {
		return err
	}
	return s.writer.ArmEncryption(secret, secret)
}

// Receive returns the next message from the server. Once the session is closed and every queued
// message was received, Receive returns the error that closed the session once and ErrClosed after
// that.
func (s *Session) Receive(ctx context.Context) (packet.Packet, error) {
	select {
	case pk, ok := <-s.incoming:
		if ok {
			return pk, nil
		}
		return nil, s.takeErr()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Err returns the error that closed the session, or nil while it is open.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) takeErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.reported || s.err == nil {
		return ErrClosed
	}
	s.reported = true
	return s.err
}

// Closed returns a channel closed once the session is closed.
func (s *Session) Closed() <-chan struct{} {
	return s.closed
}

// Close closes the session and the underlying connection. Pending and future operations fail with
// ErrClosed.
func (s *Session) Close() error {
	s.closeWithError(ErrClosed)
	return nil
}

// closeWithError closes the session. The first error is kept as the terminal error.
func (s *Session) closeWithError(err error) {
	if err == nil {
		err = ErrClosed
	}
	s.closeOnce.Do(func() {
		s.errMu.Lock()
		s.err = err
		s.errMu.Unlock()

		close(s.closed)
		s.cancel()
		s.setState(protocol.StateClosed)
		if err := s.conn.Close(); err != nil {
			s.logger.Debug("failed to close connection", "err", err)
		}

		var disconnect *DisconnectError
		switch {
		case errors.Is(err, ErrClosed) && !errors.As(err, &disconnect):
			s.logger.Debug("session closed")
		case errors.As(err, &disconnect):
			s.logger.Info("disconnected by server", "reason", disconnect.Reason)
		default:
			s.logger.Error("session closed with error", "err", err)
		}
	})
}
