package prism

import (
	"context"
	"log/slog"

	"github.com/cooldogedev/prism/session"
	"github.com/cooldogedev/prism/util"
	"github.com/prometheus/client_golang/prometheus"
)

// Prism dials sessions with a shared configuration, logger and metrics, and keeps track of the
// sessions it dialed.
type Prism struct {
	registry *session.Registry
	metrics  *session.Metrics

	logger *slog.Logger
	opts   util.Opts
}

// New returns a Prism using opts, or util.DefaultOpts if opts is nil. Metrics are registered with
// reg unless it is nil.
func New(opts *util.Opts, logger *slog.Logger, reg prometheus.Registerer) (*Prism, error) {
	if opts == nil {
		opts = util.DefaultOpts()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := opts.ProtocolVersion(); err != nil {
		return nil, err
	}

	var metrics *session.Metrics
	if reg != nil {
		metrics = session.NewMetrics(reg)
	}
	return &Prism{
		registry: session.NewRegistry(),
		metrics:  metrics,

		logger: logger,
		opts:   *opts,
	}, nil
}

func (p *Prism) sessionOptions(extra []session.Option) ([]session.Option, error) {
	options, err := p.opts.SessionOptions(p.logger)
	if err != nil {
		return nil, err
	}
	options = append(options, session.MetricsOption(p.metrics))
	return append(options, extra...), nil
}

// Dial logs in to the server at addr as the configured user and returns the session once it is in
// the play state.
func (p *Prism) Dial(ctx context.Context, addr string, opts ...session.Option) (*session.Session, error) {
	options, err := p.sessionOptions(opts)
	if err != nil {
		return nil, err
	}
	d := session.Dialer{
		Username: p.opts.Username,
		Options:  options,
		Registry: p.registry,
	}
	s, err := d.Dial(ctx, addr)
	if err != nil {
		p.logger.Error("failed to dial server", "addr", addr, "err", err)
		return nil, err
	}
	p.logger.Debug("dialed server", "addr", addr, "username", p.opts.Username)
	return s, nil
}

// Status queries the status of the server at addr.
func (p *Prism) Status(ctx context.Context, addr string, opts ...session.Option) (*StatusResult, error) {
	options, err := p.sessionOptions(opts)
	if err != nil {
		return nil, err
	}
	return Status(ctx, addr, options...)
}

// Opts ...
func (p *Prism) Opts() util.Opts {
	return p.opts
}

// Registry ...
func (p *Prism) Registry() *session.Registry {
	return p.registry
}

// Close closes every session dialed.
func (p *Prism) Close() error {
	for _, s := range p.registry.GetSessions() {
		_ = s.Close()
	}
	return nil
}
