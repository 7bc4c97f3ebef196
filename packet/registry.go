package packet

import (
	"github.com/cooldogedev/prism/internal"
	"github.com/cooldogedev/prism/protocol"
	"github.com/pkg/errors"
)

type registryKey struct {
	direction protocol.Direction
	state     protocol.State
}

// Registry maps message kinds to their numeric ids and back for a single protocol version. A
// Registry is immutable once built and safe for concurrent use.
type Registry struct {
	version protocol.Version
	ids     map[Kind]uint32
	kinds   map[registryKey]map[uint32]Kind
}

// NewRegistry builds the Registry of version v. It fails when a kind that exists in v has no id, or
// when two kinds of the same direction and state share an id.
func NewRegistry(v protocol.Version) (*Registry, error) {
	if !v.Supported() {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", int32(v))
	}
	r := &Registry{
		version: v,
		ids:     make(map[Kind]uint32),
		kinds:   make(map[registryKey]map[uint32]Kind),
	}
	for _, k := range Kinds() {
		if !k.ValidAt(v) {
			continue
		}
		id, ok := lookupID(k, v)
		if !ok {
			return nil, errors.Errorf("packet: no id for %v in %v", k, v)
		}
		key := registryKey{direction: k.Direction(), state: k.State()}
		m, ok := r.kinds[key]
		if !ok {
			m = make(map[uint32]Kind)
			r.kinds[key] = m
		}
		if other, ok := m[id]; ok {
			return nil, errors.Errorf("packet: %v and %v share id %#02x in %v", other, k, id, v)
		}
		m[id] = k
		r.ids[k] = id
	}
	return r, nil
}

// Version returns the protocol version of the Registry.
func (r *Registry) Version() protocol.Version {
	return r.version
}

// ID returns the id of kind k. The direction and state must match those of the kind.
func (r *Registry) ID(direction protocol.Direction, state protocol.State, k Kind) (uint32, bool) {
	if k >= kindCount || k.Direction() != direction || k.State() != state {
		return 0, false
	}
	id, ok := r.ids[k]
	return id, ok
}

// Kind returns the kind registered under id.
func (r *Registry) Kind(direction protocol.Direction, state protocol.State, id uint32) (Kind, bool) {
	k, ok := r.kinds[registryKey{direction: direction, state: state}][id]
	return k, ok
}

// Kinds returns the kinds registered for direction and state in catalog order.
func (r *Registry) Kinds(direction protocol.Direction, state protocol.State) []Kind {
	m := r.kinds[registryKey{direction: direction, state: state}]
	all := make([]Kind, 0, len(m))
	for _, k := range Kinds() {
		if id, ok := r.ids[k]; ok && m[id] == k && k.Direction() == direction && k.State() == state {
			all = append(all, k)
		}
	}
	return all
}

// Decode decodes body, the message without its id, as the kind registered under id. Unknown ids
// return an UnknownIDError; every other failure wraps protocol.ErrTruncated or
// protocol.ErrMalformed.
func (r *Registry) Decode(direction protocol.Direction, state protocol.State, id uint32, body []byte) (pk Packet, err error) {
	k, ok := r.Kind(direction, state, id)
	if !ok {
		return nil, &UnknownIDError{Direction: direction, State: state, Version: r.version, ID: id}
	}
	defer func() {
		if rec := recover(); rec != nil {
			pk, err = nil, errors.Wrapf(protocol.ErrMalformed, "panic while decoding %v: %v", k, rec)
		}
	}()

	pk = k.New()
	reader := protocol.NewReader(body, r.version)
	pk.Marshal(reader)
	if err := reader.Err(); err != nil {
		return nil, errors.Wrapf(err, "decode %v", k)
	}
	if n := reader.Remaining(); n != 0 {
		return nil, errors.Wrapf(protocol.ErrMalformed, "decode %v: %d trailing bytes", k, n)
	}
	return pk, nil
}

// DecodePayload decodes a frame payload: the VarInt id followed by the message body.
func (r *Registry) DecodePayload(direction protocol.Direction, state protocol.State, payload []byte) (Packet, error) {
	id, n, err := protocol.ConsumeVarint32(payload)
	if err != nil {
		return nil, errors.Wrap(err, "read message id")
	}
	if id < 0 {
		return nil, errors.Wrapf(protocol.ErrMalformed, "negative message id %d", id)
	}
	return r.Decode(direction, state, uint32(id), payload[n:])
}

// PayloadID returns the id at the start of a frame payload without decoding the rest.
func PayloadID(payload []byte) (uint32, error) {
	id, _, err := protocol.ConsumeVarint32(payload)
	if err != nil {
		return 0, errors.Wrap(err, "read message id")
	}
	return uint32(id), nil
}

// Encode encodes pk as a frame payload: its VarInt id followed by its body.
func (r *Registry) Encode(pk Packet) ([]byte, error) {
	k := pk.Kind()
	id, ok := r.ids[k]
	if !ok {
		return nil, errors.Wrapf(ErrUnavailable, "%v in %v", k, r.version)
	}

	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)

	buf.Write(protocol.AppendVarint32(nil, int32(id)))
	w := protocol.NewWriter(buf, r.version)
	pk.Marshal(w)
	if err := w.Err(); err != nil {
		return nil, errors.Wrapf(err, "encode %v", k)
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

// Check verifies that the id tables cover every kind of version v exactly once and that no id is
// assigned outside the versions a kind exists in.
func Check(v protocol.Version) error {
	if _, err := NewRegistry(v); err != nil {
		return err
	}
	for _, k := range Kinds() {
		if _, ok := lookupID(k, v); ok && !k.ValidAt(v) {
			return errors.Errorf("packet: %v has an id in %v but does not exist there", k, v)
		}
	}
	return nil
}

// Coverage runs Check for every supported version and returns the failures by version.
func Coverage() map[protocol.Version]error {
	failures := make(map[protocol.Version]error)
	for _, v := range protocol.Versions() {
		if err := Check(v); err != nil {
			failures[v] = err
		}
	}
	return failures
}
