package session

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/protocol"
	"github.com/cooldogedev/prism/protocol/frame"
	"github.com/pkg/errors"
)

// testServer is the server side of a session under test. It speaks the frame and message layers
// directly and tracks no state of its own: every read names the state to decode in.
type testServer struct {
	conn     net.Conn
	reader   *frame.Reader
	writer   *frame.Writer
	registry *packet.Registry
}

func newTestServer(conn net.Conn, v protocol.Version) (*testServer, error) {
	registry, err := packet.NewRegistry(v)
	if err != nil {
		return nil, err
	}
	return &testServer{
		conn:     conn,
		reader:   frame.NewReader(conn),
		writer:   frame.NewWriter(conn),
		registry: registry,
	}, nil
}

func (s *testServer) write(pk packet.Packet) error {
	payload, err := s.registry.Encode(pk)
	if err != nil {
		return err
	}
	return s.writer.WriteFrame(payload)
}

func (s *testServer) writeRaw(id int32, body []byte) error {
	return s.writer.WriteFrame(append(protocol.AppendVarint32(nil, id), body...))
}

func (s *testServer) read(state protocol.State) (packet.Packet, error) {
	payload, err := s.reader.ReadFrame()
	if err != nil {
		return nil, err
	}
	return s.registry.DecodePayload(protocol.Serverbound, state, payload)
}

func (s *testServer) expect(state protocol.State, k packet.Kind) (packet.Packet, error) {
	pk, err := s.read(state)
	if err != nil {
		return nil, errors.Wrapf(err, "expecting %v", k)
	}
	if pk.Kind() != k {
		return nil, errors.Errorf("expected %v, got %v", k, pk.Kind())
	}
	return pk, nil
}

// drain reads until the client closes the connection.
func (s *testServer) drain() {
	for {
		if _, err := s.reader.ReadFrame(); err != nil {
			return
		}
	}
}

// listen starts a TCP listener and returns its address along with a channel receiving the first
// accepted connection.
func listen(t *testing.T) (string, <-chan net.Conn) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = listener.Close() })

	conns := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		conns <- conn
	}()
	return listener.Addr().String(), conns
}

// pipe returns a session over one end of a net.Pipe and a test server over the other.
func pipe(t *testing.T, v protocol.Version, opts ...Option) (*Session, *testServer) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { _ = server.Close() })

	s, err := New(client, append([]Option{VersionOption(v), LoggerOption(discardLogger())}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ts, err := newTestServer(server, v)
	if err != nil {
		t.Fatal(err)
	}
	return s, ts
}

// handshake sends the handshake from s and reads it on ts.
func handshake(t *testing.T, s *Session, ts *testServer, next protocol.State) {
	t.Helper()
	errc := make(chan error, 1)
	go func() {
		_, err := ts.expect(protocol.StateHandshake, packet.KindIntention)
		errc <- err
	}()
	if err := s.Handshake("localhost", 25565, next); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)
	return ctx
}

// receiveAll receives messages until Receive fails and returns their kinds and the error.
func receiveAll(ctx context.Context, s *Session) ([]packet.Kind, error) {
	var kinds []packet.Kind
	for {
		pk, err := s.Receive(ctx)
		if err != nil {
			return kinds, err
		}
		kinds = append(kinds, pk.Kind())
	}
}
