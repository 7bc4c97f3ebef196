package transport

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/qlog"
)

// ALPN is the application protocol negotiated by the QUIC transport.
const ALPN = "prism"

// QUIC dials relays over QUIC. Sessions to the same address share one connection, each on a stream
// of its own.
type QUIC struct {
	mux *mux[quic.Connection]
}

// NewQUIC returns a QUIC transport logging connection events to logger, or to the default logger
// if it is nil.
func NewQUIC(logger *slog.Logger) *QUIC {
	m := newMux[quic.Connection]("quic", logger)
	m.dial = func(ctx context.Context, addr string) (quic.Connection, error) {
		return quic.DialAddr(
			ctx,
			addr,
			&tls.Config{
				InsecureSkipVerify: true,
				NextProtos:         []string{ALPN},
			},
			&quic.Config{
				MaxIdleTimeout:                 time.Second * 10,
				InitialStreamReceiveWindow:     1024 * 1024 * 10,
				InitialConnectionReceiveWindow: 1024 * 1024 * 10,
				KeepAlivePeriod:                0,
				InitialPacketSize:              1350,
				Tracer:                         qlog.DefaultConnectionTracer,
			},
		)
	}
	m.done = func(conn quic.Connection) context.Context {
		return conn.Context()
	}
	m.open = func(ctx context.Context, conn quic.Connection) (io.ReadWriteCloser, error) {
		stream, err := conn.OpenStreamSync(ctx)
		if err != nil {
			return nil, err
		}
		return &quicStream{Stream: stream}, nil
	}
	m.abort = func(conn quic.Connection, msg string) {
		_ = conn.CloseWithError(0, msg)
	}
	return &QUIC{mux: m}
}

// Dial ...
func (q *QUIC) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	return q.mux.stream(ctx, addr)
}

// quicStream closes both directions of a stream on Close. Closing a quic.Stream only closes the
// send direction, which would leave a session reading from it blocked.
type quicStream struct {
	quic.Stream
}

// Close ...
func (s *quicStream) Close() error {
	s.CancelRead(0)
	return s.Stream.Close()
}
