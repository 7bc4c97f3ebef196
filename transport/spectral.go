package transport

import (
	"context"
	"io"
	"log/slog"

	"github.com/cooldogedev/spectral"
)

// Spectral dials relays over Spectral. Sessions to the same address share one connection, each on
// a stream of its own.
type Spectral struct {
	mux *mux[spectral.Connection]
}

// NewSpectral returns a Spectral transport logging connection events to logger, or to the default
// logger if it is nil.
func NewSpectral(logger *slog.Logger) *Spectral {
	m := newMux[spectral.Connection]("spectral", logger)
	m.dial = func(ctx context.Context, addr string) (spectral.Connection, error) {
		return spectral.Dial(ctx, addr)
	}
	m.done = func(conn spectral.Connection) context.Context {
		return conn.Context()
	}
	m.open = func(ctx context.Context, conn spectral.Connection) (io.ReadWriteCloser, error) {
		stream, err := conn.OpenStream(ctx)
		if err != nil {
			return nil, err
		}
		return stream, nil
	}
	m.abort = func(conn spectral.Connection, msg string) {
		_ = conn.CloseWithError(0, msg)
	}
	return &Spectral{mux: m}
}

// Dial ...
func (s *Spectral) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	return s.mux.stream(ctx, addr)
}
