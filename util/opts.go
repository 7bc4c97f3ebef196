package util

import (
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cooldogedev/prism/protocol"
	"github.com/cooldogedev/prism/session"
	"github.com/cooldogedev/prism/transport"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Opts is the configuration of sessions dialed by prism.
type Opts struct {
	// Version is the protocol version sessions speak, as a version name such as "1.20.3" or a
	// protocol number.
	Version string `toml:"version"`
	// Transport is the transport used to reach servers: tcp, quic, spectral or kcp.
	Transport string `toml:"transport"`
	// Username is the name sessions log in with.
	Username string `toml:"username"`
	// Strict makes messages with unknown ids close the session instead of being skipped.
	Strict bool `toml:"strict"`
	// AutoRespond answers keep alives and pings on behalf of the caller.
	AutoRespond bool `toml:"auto_respond"`
	// QueueSize is the number of received messages buffered for the caller.
	QueueSize int `toml:"queue_size"`
	// QueueTimeout is how long a full queue may block the reader before the session fails.
	QueueTimeout time.Duration `toml:"-"`
	// ReadTimeout is how long a session may receive nothing before it fails. Zero disables it.
	ReadTimeout time.Duration `toml:"-"`
	// SendRate limits SendContext to this many messages per second. Zero means no limit.
	SendRate float64 `toml:"send_rate"`
	// SendBurst is the burst allowed by the send limiter.
	SendBurst int `toml:"send_burst"`
}

// fileOpts is the TOML form of Opts. Durations are written as strings such as "5s".
type fileOpts struct {
	Version      string  `toml:"version"`
	Transport    string  `toml:"transport"`
	Username     string  `toml:"username"`
	Strict       bool    `toml:"strict"`
	AutoRespond  bool    `toml:"auto_respond"`
	QueueSize    int     `toml:"queue_size"`
	QueueTimeout string  `toml:"queue_timeout"`
	ReadTimeout  string  `toml:"read_timeout"`
	SendRate     float64 `toml:"send_rate"`
	SendBurst    int     `toml:"send_burst"`
}

// DefaultOpts ...
func DefaultOpts() *Opts {
	return &Opts{
		Version:      protocol.Latest.String(),
		Transport:    "tcp",
		Username:     "prism",
		AutoRespond:  true,
		QueueSize:    256,
		QueueTimeout: time.Second * 5,
		ReadTimeout:  time.Second * 30,
		SendBurst:    1,
	}
}

// LoadOpts reads the TOML file at path on top of DefaultOpts. Keys missing from the file keep their
// default values.
func LoadOpts(path string) (*Opts, error) {
	opts := DefaultOpts()

	var raw fileOpts
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "load opts")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("load opts: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("version") {
		opts.Version = strings.TrimSpace(raw.Version)
	}
	if meta.IsDefined("transport") {
		opts.Transport = strings.TrimSpace(raw.Transport)
	}
	if meta.IsDefined("username") {
		opts.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("strict") {
		opts.Strict = raw.Strict
	}
	if meta.IsDefined("auto_respond") {
		opts.AutoRespond = raw.AutoRespond
	}
	if meta.IsDefined("queue_size") {
		opts.QueueSize = raw.QueueSize
	}
	if meta.IsDefined("queue_timeout") {
		if opts.QueueTimeout, err = time.ParseDuration(raw.QueueTimeout); err != nil {
			return nil, errors.Wrap(err, "load opts: queue_timeout")
		}
	}
	if meta.IsDefined("read_timeout") {
		if opts.ReadTimeout, err = time.ParseDuration(raw.ReadTimeout); err != nil {
			return nil, errors.Wrap(err, "load opts: read_timeout")
		}
	}
	if meta.IsDefined("send_rate") {
		opts.SendRate = raw.SendRate
	}
	if meta.IsDefined("send_burst") {
		opts.SendBurst = raw.SendBurst
	}

	if _, err := opts.ProtocolVersion(); err != nil {
		return nil, errors.Wrap(err, "load opts")
	}
	return opts, nil
}

// ProtocolVersion parses Version.
func (o *Opts) ProtocolVersion() (protocol.Version, error) {
	v, ok := protocol.ParseVersion(o.Version)
	if !ok {
		return 0, errors.Errorf("unsupported version %q", o.Version)
	}
	return v, nil
}

// SessionOptions returns the session options described by o.
func (o *Opts) SessionOptions(logger *slog.Logger) ([]session.Option, error) {
	v, err := o.ProtocolVersion()
	if err != nil {
		return nil, err
	}
	t, err := transport.ByName(o.Transport, logger)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if o.SendRate > 0 {
		limit = rate.Limit(o.SendRate)
	}
	return []session.Option{
		session.VersionOption(v),
		session.TransportOption(t),
		session.LoggerOption(logger),
		session.StrictOption(o.Strict),
		session.AutoRespondOption(o.AutoRespond),
		session.QueueOption(o.QueueSize, o.QueueTimeout),
		session.ReadTimeoutOption(o.ReadTimeout),
		session.SendRateOption(limit, o.SendBurst),
	}, nil
}
