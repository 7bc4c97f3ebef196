package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

const (
	// MaxStringLength is the longest string, in bytes, a reader accepts.
	MaxStringLength = 32767 * 3
	// MaxByteSliceLength is the longest length prefixed byte array a reader accepts.
	MaxByteSliceLength = 2 * 1024 * 1024
)

// Reader decodes message fields from a byte cursor. The first failure is sticky: later calls leave
// their target untouched and Err keeps returning the original error.
type Reader struct {
	buf     []byte
	pos     int
	version Version
	err     error
}

// NewReader returns a Reader over buf decoding for version v.
func NewReader(buf []byte, v Version) *Reader {
	return &Reader{buf: buf, version: v}
}

// Version ...
func (r *Reader) Version() Version {
	return r.version
}

// Err ...
func (r *Reader) Err() error {
	return r.err
}

// Fail ...
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) fail(value string, err error) {
	r.Fail(&DecodeError{Offset: r.pos, Value: value, Err: err})
}

// next returns the next n bytes and advances past them, or nil after recording ErrTruncated.
func (r *Reader) next(n int, value string) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.Remaining() {
		r.fail(value, ErrTruncated)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Bool ...
func (r *Reader) Bool(x *bool) {
	if b := r.next(1, "bool"); b != nil {
		switch b[0] {
		case 0:
			*x = false
		case 1:
			*x = true
		default:
			r.pos--
			r.fail("bool", ErrMalformed)
		}
	}
}

// Int8 ...
func (r *Reader) Int8(x *int8) {
	if b := r.next(1, "int8"); b != nil {
		*x = int8(b[0])
	}
}

// Uint8 ...
func (r *Reader) Uint8(x *uint8) {
	if b := r.next(1, "uint8"); b != nil {
		*x = b[0]
	}
}

// Int16 ...
func (r *Reader) Int16(x *int16) {
	if b := r.next(2, "int16"); b != nil {
		*x = int16(binary.BigEndian.Uint16(b))
	}
}

// Uint16 ...
func (r *Reader) Uint16(x *uint16) {
	if b := r.next(2, "uint16"); b != nil {
		*x = binary.BigEndian.Uint16(b)
	}
}

// Int32 ...
func (r *Reader) Int32(x *int32) {
	if b := r.next(4, "int32"); b != nil {
		*x = int32(binary.BigEndian.Uint32(b))
	}
}

// Int64 ...
func (r *Reader) Int64(x *int64) {
	if b := r.next(8, "int64"); b != nil {
		*x = int64(binary.BigEndian.Uint64(b))
	}
}

// Float32 ...
func (r *Reader) Float32(x *float32) {
	if b := r.next(4, "float32"); b != nil {
		*x = math.Float32frombits(binary.BigEndian.Uint32(b))
	}
}

// Float64 ...
func (r *Reader) Float64(x *float64) {
	if b := r.next(8, "float64"); b != nil {
		*x = math.Float64frombits(binary.BigEndian.Uint64(b))
	}
}

// Varint32 ...
func (r *Reader) Varint32(x *int32) {
	if r.err != nil {
		return
	}
	v, n, err := ConsumeVarint32(r.buf[r.pos:])
	if err != nil {
		r.fail("varint32", err)
		return
	}
	r.pos += n
	*x = v
}

// Varint64 ...
func (r *Reader) Varint64(x *int64) {
	if r.err != nil {
		return
	}
	var ux uint64
	for i := 0; i < MaxVarint64Len; i++ {
		if r.pos+i >= len(r.buf) {
			r.fail("varint64", ErrTruncated)
			return
		}
		v := r.buf[r.pos+i]
		if i == MaxVarint64Len-1 && v > 0x01 {
			break
		}
		ux |= uint64(v&0x7f) << (7 * i)
		if v&0x80 == 0 {
			r.pos += i + 1
			*x = int64(ux)
			return
		}
	}
	r.fail("varint64", ErrMalformed)
}

// length reads a VarInt length prefix and checks it against max and the remaining bytes.
func (r *Reader) length(value string, max int) (int, bool) {
	var l int32
	r.Varint32(&l)
	if r.err != nil {
		return 0, false
	}
	if l < 0 || int(l) > max {
		r.fail(value, ErrMalformed)
		return 0, false
	}
	return int(l), true
}

// String ...
func (r *Reader) String(x *string) {
	l, ok := r.length("string", MaxStringLength)
	if !ok {
		return
	}
	b := r.next(l, "string")
	if b == nil {
		return
	}
	if !utf8.Valid(b) {
		r.pos -= l
		r.fail("string", ErrMalformed)
		return
	}
	*x = string(b)
}

// Identifier ...
func (r *Reader) Identifier(x *string) {
	r.String(x)
}

// ByteSlice ...
func (r *Reader) ByteSlice(x *[]byte) {
	l, ok := r.length("byte slice", MaxByteSliceLength)
	if !ok {
		return
	}
	if b := r.next(l, "byte slice"); b != nil {
		*x = make([]byte, l)
		copy(*x, b)
	}
}

// Bytes ...
func (r *Reader) Bytes(x *[]byte) {
	if r.err != nil {
		return
	}
	*x = append([]byte(nil), r.buf[r.pos:]...)
	r.pos = len(r.buf)
}

// UUID ...
func (r *Reader) UUID(x *uuid.UUID) {
	if b := r.next(16, "uuid"); b != nil {
		copy(x[:], b)
	}
}

// BlockPos ...
func (r *Reader) BlockPos(x *BlockPos) {
	var packed int64
	r.Int64(&packed)
	if r.err == nil {
		*x = unpackBlockPos(packed, r.version)
	}
}

// Vec3 ...
func (r *Reader) Vec3(x *mgl64.Vec3) {
	r.Float64(&x[0])
	r.Float64(&x[1])
	r.Float64(&x[2])
}

// NBT ...
func (r *Reader) NBT(x *map[string]any) {
	tag, ok := r.peek("nbt")
	if !ok {
		return
	}
	if tag == tagEnd {
		r.pos++
		*x = nil
		return
	}
	if tag != tagCompound {
		r.fail("nbt", ErrMalformed)
		return
	}
	m := map[string]any{}
	r.decodeNBT(&m)
	if r.err == nil {
		*x = m
	}
}

// Chat ...
func (r *Reader) Chat(x *Chat) {
	if r.version < V1_20_3 {
		r.String(&x.JSON)
		return
	}
	tag, ok := r.peek("chat")
	if !ok {
		return
	}
	if tag != tagString {
		r.NBT(&x.Tag)
		return
	}
	r.pos++
	l := r.next(2, "chat")
	if l == nil {
		return
	}
	b := r.next(int(binary.BigEndian.Uint16(l)), "chat")
	if b == nil {
		return
	}
	if !utf8.Valid(b) {
		r.pos -= len(b)
		r.fail("chat", ErrMalformed)
		return
	}
	x.Text = string(b)
}

// SliceLength ...
func (r *Reader) SliceLength(x *int32) {
	l, ok := r.length("slice length", r.Remaining())
	if ok {
		*x = int32(l)
	}
}

func (r *Reader) peek(value string) (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	if r.Remaining() < 1 {
		r.fail(value, ErrTruncated)
		return 0, false
	}
	return r.buf[r.pos], true
}

// decodeNBT decodes a compound into v. From 1.20.2 the root tag has no name on the network, so an
// empty name is spliced in front of the payload for the decoder.
func (r *Reader) decodeNBT(v *map[string]any) {
	rest := bytes.NewReader(r.buf[r.pos:])
	var src io.Reader = rest
	if r.version >= V1_20_2 {
		_, _ = rest.ReadByte()
		src = io.MultiReader(bytes.NewReader([]byte{tagCompound, 0, 0}), rest)
	}
	if err := nbt.NewDecoderWithEncoding(src, nbt.BigEndian).Decode(v); err != nil {
		var overrun nbt.BufferOverrunError
		if errors.As(err, &overrun) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.fail("nbt", ErrTruncated)
		} else {
			r.fail("nbt", ErrMalformed)
		}
		return
	}
	r.pos = len(r.buf) - rest.Len()
}
