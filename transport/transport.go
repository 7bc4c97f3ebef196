package transport

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Transport defines an interface for establishing server connections.
type Transport interface {
	// Dial connects to the specified address and returns an io.ReadWriteCloser carrying the byte
	// stream of a session. It returns an error if the connection cannot be established before ctx
	// is done.
	Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}

// ByName returns the transport registered under name: tcp, quic, spectral or kcp.
func ByName(name string, logger *slog.Logger) (Transport, error) {
	switch strings.ToLower(name) {
	case "", "tcp":
		return NewTCP(), nil
	case "quic":
		return NewQUIC(logger), nil
	case "spectral":
		return NewSpectral(logger), nil
	case "kcp":
		return NewKCP(10, 3), nil
	}
	return nil, errors.Errorf("unknown transport %q", name)
}
