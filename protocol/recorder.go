package protocol

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Recorder is an IO that neither reads nor writes. It records the address of every field a
// Marshal call touches, which tells which fields exist on the wire for its version.
type Recorder struct {
	version Version
	fields  []any
}

// NewRecorder returns a Recorder for version v.
func NewRecorder(v Version) *Recorder {
	return &Recorder{version: v}
}

// Fields returns the recorded field pointers in wire order.
func (r *Recorder) Fields() []any {
	return r.fields
}

func (r *Recorder) record(x any) {
	r.fields = append(r.fields, x)
}

// Version ...
func (r *Recorder) Version() Version { return r.version }

// Err ...
func (r *Recorder) Err() error { return nil }

// Fail ...
func (r *Recorder) Fail(error) {}

func (r *Recorder) Bool(x *bool) { r.record(x) }
func (r *Recorder) Int8(x *int8) { r.record(x) }
func (r *Recorder) Uint8(x *uint8) { r.record(x) }
func (r *Recorder) Int16(x *int16) { r.record(x) }
func (r *Recorder) Uint16(x *uint16) { r.record(x) }
func (r *Recorder) Int32(x *int32) { r.record(x) }
func (r *Recorder) Int64(x *int64) { r.record(x) }
func (r *Recorder) Float32(x *float32) { r.record(x) }
func (r *Recorder) Float64(x *float64) { r.record(x) }
func (r *Recorder) Varint32(x *int32) { r.record(x) }
func (r *Recorder) Varint64(x *int64) { r.record(x) }
func (r *Recorder) String(x *string) { r.record(x) }
func (r *Recorder) Identifier(x *string) { r.record(x) }
func (r *Recorder) ByteSlice(x *[]byte) { r.record(x) }
func (r *Recorder) Bytes(x *[]byte) { r.record(x) }
func (r *Recorder) UUID(x *uuid.UUID) { r.record(x) }
func (r *Recorder) BlockPos(x *BlockPos) { r.record(x) }
func (r *Recorder) Vec3(x *mgl64.Vec3) { r.record(x) }
func (r *Recorder) NBT(x *map[string]any) { r.record(x) }
func (r *Recorder) Chat(x *Chat) { r.record(x) }
func (r *Recorder) SliceLength(x *int32) { r.record(x) }
