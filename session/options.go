package session

import (
	"log/slog"
	"time"

	"github.com/cooldogedev/prism/protocol"
	"github.com/cooldogedev/prism/transport"
	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	defaultQueueSize    = 256
	defaultQueueTimeout = time.Second * 5
	defaultReadTimeout  = time.Second * 30
)

// options holds the configuration of a session.
type options struct {
	version       protocol.Version
	transport     transport.Transport
	logger        *slog.Logger
	processor     Processor
	authenticator Authenticator
	metrics       *Metrics

	// strict makes unknown message ids fatal instead of skipping them.
	strict bool
	// autoRespond answers keep alives, pings and encryption requests without involving the caller.
	autoRespond bool

	queueSize    int
	queueTimeout time.Duration
	readTimeout  time.Duration

	sendLimit rate.Limit
	sendBurst int
}

// Option is a function that configures a session.
type Option func(*options)

func defaultOptions() options {
	return options{
		version:      protocol.Latest,
		autoRespond:  true,
		queueSize:    defaultQueueSize,
		queueTimeout: defaultQueueTimeout,
		readTimeout:  defaultReadTimeout,
		sendLimit:    rate.Inf,
	}
}

// checkOptions sets defaults for options left empty.
func checkOptions(o *options) {
	if o.version == 0 {
		o.version = protocol.Latest
	}
	if o.transport == nil {
		o.transport = transport.NewTCP()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.processor == nil {
		o.processor = NopProcessor{}
	}
	if o.queueSize <= 0 {
		o.queueSize = defaultQueueSize
	}
	if o.queueTimeout <= 0 {
		o.queueTimeout = defaultQueueTimeout
	}
	if o.sendLimit == 0 {
		o.sendLimit = rate.Inf
	}
	if o.sendBurst <= 0 {
		o.sendBurst = 1
	}
}

// VersionOption sets the protocol version the session speaks.
func VersionOption(v protocol.Version) Option {
	return func(o *options) {
		o.version = v
	}
}

// TransportOption sets the transport Connect dials with. TCP is used if not set.
func TransportOption(t transport.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// LoggerOption sets the logger. If not set, the default slog logger is used.
func LoggerOption(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ProcessorOption sets the Processor every message passes through.
func ProcessorOption(p Processor) Option {
	return func(o *options) {
		o.processor = p
	}
}

// AuthenticatorOption sets the Authenticator used to answer encryption requests automatically.
func AuthenticatorOption(a Authenticator) Option {
	return func(o *options) {
		o.authenticator = a
	}
}

// MetricsOption sets the metrics the session reports to.
func MetricsOption(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// StrictOption makes messages with unknown ids close the session. By default they are logged once
// per id and skipped.
func StrictOption(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// AutoRespondOption controls whether keep alives, pings and encryption requests are answered by
// the session. It is enabled by default.
func AutoRespondOption(autoRespond bool) Option {
	return func(o *options) {
		o.autoRespond = autoRespond
	}
}

// QueueOption sets the size of the incoming queue and how long the reader waits for room in a
// full queue before the session fails with ErrBacklog.
func QueueOption(size int, timeout time.Duration) Option {
	return func(o *options) {
		o.queueSize = size
		o.queueTimeout = timeout
	}
}

// ReadTimeoutOption sets how long the session may go without receiving anything before it fails
// with ErrStalled. Zero disables the timeout.
func ReadTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.readTimeout = timeout
	}
}

// SendRateOption limits the rate of SendContext to limit messages per second with the burst given.
func SendRateOption(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.sendLimit = limit
		o.sendBurst = burst
	}
}
