package transport

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// mux shares one connection per address between sessions, opening a stream on it for each one.
// A connection is forgotten once it is done or fails to open a stream.
type mux[C any] struct {
	name   string
	logger *slog.Logger

	dial  func(ctx context.Context, addr string) (C, error)
	done  func(conn C) context.Context
	open  func(ctx context.Context, conn C) (io.ReadWriteCloser, error)
	abort func(conn C, msg string)

	mu    sync.Mutex
	conns map[string]*muxConn[C]
}

// muxConn gives every dialed connection an identity, so a watcher never forgets the connection
// that replaced its own.
type muxConn[C any] struct {
	conn C
}

func newMux[C any](name string, logger *slog.Logger) *mux[C] {
	if logger == nil {
		logger = slog.Default()
	}
	return &mux[C]{
		name:   name,
		logger: logger.With("transport", name),
		conns:  make(map[string]*muxConn[C]),
	}
}

// stream opens a stream to addr, dialing a connection first if none is held for it.
func (m *mux[C]) stream(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conns[addr]
	if !ok {
		conn, err := m.dial(ctx, addr)
		if err != nil {
			return nil, errors.Wrapf(err, "%s dial", m.name)
		}
		c = &muxConn[C]{conn: conn}
		m.conns[addr] = c
		m.logger.Debug("established connection", "addr", addr)
		go m.watch(addr, c)
	}

	rwc, err := m.open(ctx, c.conn)
	if err != nil {
		m.abort(c.conn, "failed to open stream")
		delete(m.conns, addr)
		return nil, errors.Wrapf(err, "%s open stream", m.name)
	}
	return rwc, nil
}

func (m *mux[C]) watch(addr string, c *muxConn[C]) {
	ctx := m.done(c.conn)
	<-ctx.Done()

	m.mu.Lock()
	if m.conns[addr] == c {
		delete(m.conns, addr)
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Error("closed connection", "addr", addr, "err", err)
	} else {
		m.logger.Debug("closed connection", "addr", addr)
	}
}
