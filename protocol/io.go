package protocol

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// IO represents a message field codec. A message implements a single Marshal(io IO) method that
// lists its fields in wire order, and the same method decodes (Reader), encodes (Writer) or
// describes (Recorder) the message. Field presence is decided by comparing io.Version() against
// the version constants.
type IO interface {
	// Version is the protocol version the message is being (de)serialised for.
	Version() Version
	// Err returns the first error encountered. Once set, every further call is a no-op.
	Err() error
	// Fail stores err unless an error was already stored.
	Fail(err error)

	Bool(x *bool)
	Int8(x *int8)
	Uint8(x *uint8)
	Int16(x *int16)
	Uint16(x *uint16)
	Int32(x *int32)
	Int64(x *int64)
	Float32(x *float32)
	Float64(x *float64)
	Varint32(x *int32)
	Varint64(x *int64)
	// String is a VarInt length prefixed UTF-8 string.
	String(x *string)
	// Identifier is a namespaced identifier such as "minecraft:brand".
	Identifier(x *string)
	// ByteSlice is a VarInt length prefixed byte array.
	ByteSlice(x *[]byte)
	// Bytes covers every byte left in the message. It must be the last field.
	Bytes(x *[]byte)
	UUID(x *uuid.UUID)
	BlockPos(x *BlockPos)
	Vec3(x *mgl64.Vec3)
	// NBT is a single NBT tag. Nil stands for the empty (TAG_End) value.
	NBT(x *map[string]any)
	Chat(x *Chat)
	// SliceLength reads or writes the VarInt element count of a collection. Readers reject counts
	// that cannot possibly fit in the remaining bytes.
	SliceLength(x *int32)
}

// Slice reads or writes a VarInt prefixed sequence, calling f for every element.
func Slice[T any](io IO, x *[]T, f func(IO, *T)) {
	if r, ok := io.(*Recorder); ok {
		r.record(x)
		return
	}
	count := int32(len(*x))
	io.SliceLength(&count)
	if io.Err() != nil {
		return
	}
	if int(count) != len(*x) {
		*x = make([]T, count)
	}
	for i := range *x {
		f(io, &(*x)[i])
		if io.Err() != nil {
			return
		}
	}
}

// OptionalFunc reads or writes a boolean presence flag followed by the value when present. A nil
// pointer encodes as absent.
func OptionalFunc[T any](io IO, x **T, f func(IO, *T)) {
	if r, ok := io.(*Recorder); ok {
		r.record(x)
		return
	}
	present := *x != nil
	io.Bool(&present)
	if io.Err() != nil {
		return
	}
	if !present {
		*x = nil
		return
	}
	if *x == nil {
		*x = new(T)
	}
	f(io, *x)
}

// UUIDString reads or writes a UUID in its hyphenated text form, as used by versions before 1.16.
func UUIDString(io IO, x *uuid.UUID) {
	if r, ok := io.(*Recorder); ok {
		r.record(x)
		return
	}
	s := x.String()
	io.String(&s)
	if io.Err() != nil {
		return
	}
	id, err := uuid.Parse(s)
	if err != nil {
		io.Fail(&DecodeError{Value: "uuid", Err: ErrMalformed})
		return
	}
	*x = id
}
