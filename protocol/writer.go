package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Writer encodes message fields into a buffer. Values that cannot be represented on the wire are
// recorded as a sticky error rather than silently truncated.
type Writer struct {
	buf     *bytes.Buffer
	version Version
	err     error
	scratch [MaxVarint64Len]byte
}

// NewWriter returns a Writer appending to buf for version v.
func NewWriter(buf *bytes.Buffer, v Version) *Writer {
	return &Writer{buf: buf, version: v}
}

// Version ...
func (w *Writer) Version() Version {
	return w.version
}

// Err ...
func (w *Writer) Err() error {
	return w.err
}

// Fail ...
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Bool ...
func (w *Writer) Bool(x *bool) {
	if *x {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// Int8 ...
func (w *Writer) Int8(x *int8) {
	w.buf.WriteByte(byte(*x))
}

// Uint8 ...
func (w *Writer) Uint8(x *uint8) {
	w.buf.WriteByte(*x)
}

// Int16 ...
func (w *Writer) Int16(x *int16) {
	w.buf.Write(binary.BigEndian.AppendUint16(w.scratch[:0], uint16(*x)))
}

// Uint16 ...
func (w *Writer) Uint16(x *uint16) {
	w.buf.Write(binary.BigEndian.AppendUint16(w.scratch[:0], *x))
}

// Int32 ...
func (w *Writer) Int32(x *int32) {
	w.buf.Write(binary.BigEndian.AppendUint32(w.scratch[:0], uint32(*x)))
}

// Int64 ...
func (w *Writer) Int64(x *int64) {
	w.buf.Write(binary.BigEndian.AppendUint64(w.scratch[:0], uint64(*x)))
}

// Float32 ...
func (w *Writer) Float32(x *float32) {
	w.buf.Write(binary.BigEndian.AppendUint32(w.scratch[:0], math.Float32bits(*x)))
}

// Float64 ...
func (w *Writer) Float64(x *float64) {
	w.buf.Write(binary.BigEndian.AppendUint64(w.scratch[:0], math.Float64bits(*x)))
}

// Varint32 ...
func (w *Writer) Varint32(x *int32) {
	w.buf.Write(AppendVarint32(w.scratch[:0], *x))
}

// Varint64 ...
func (w *Writer) Varint64(x *int64) {
	w.buf.Write(AppendVarint64(w.scratch[:0], *x))
}

// String ...
func (w *Writer) String(x *string) {
	if len(*x) > MaxStringLength {
		w.Fail(fmt.Errorf("string of %d bytes exceeds %d", len(*x), MaxStringLength))
		return
	}
	if !utf8.ValidString(*x) {
		w.Fail(fmt.Errorf("string %q is not valid UTF-8", *x))
		return
	}
	l := int32(len(*x))
	w.Varint32(&l)
	w.buf.WriteString(*x)
}

// Identifier ...
func (w *Writer) Identifier(x *string) {
	w.String(x)
}

// ByteSlice ...
func (w *Writer) ByteSlice(x *[]byte) {
	if len(*x) > MaxByteSliceLength {
		w.Fail(fmt.Errorf("byte slice of %d bytes exceeds %d", len(*x), MaxByteSliceLength))
		return
	}
	l := int32(len(*x))
	w.Varint32(&l)
	w.buf.Write(*x)
}

// Bytes ...
func (w *Writer) Bytes(x *[]byte) {
	w.buf.Write(*x)
}

// UUID ...
func (w *Writer) UUID(x *uuid.UUID) {
	w.buf.Write(x[:])
}

// BlockPos ...
func (w *Writer) BlockPos(x *BlockPos) {
	packed := packBlockPos(*x, w.version)
	w.Int64(&packed)
}

// Vec3 ...
func (w *Writer) Vec3(x *mgl64.Vec3) {
	w.Float64(&x[0])
	w.Float64(&x[1])
	w.Float64(&x[2])
}

// NBT ...
func (w *Writer) NBT(x *map[string]any) {
	if *x == nil {
		w.buf.WriteByte(tagEnd)
		return
	}
	var b bytes.Buffer
	if err := nbt.NewEncoderWithEncoding(&b, nbt.BigEndian).Encode(*x); err != nil {
		w.Fail(fmt.Errorf("encode nbt: %w", err))
		return
	}
	data := b.Bytes()
	if w.version >= V1_20_2 {
		// Drop the empty root name: tag type, then the payload.
		w.buf.WriteByte(data[0])
		w.buf.Write(data[3:])
		return
	}
	w.buf.Write(data)
}

// Chat ...
func (w *Writer) Chat(x *Chat) {
	if w.version < V1_20_3 {
		w.String(&x.JSON)
		return
	}
	if x.Tag != nil {
		w.NBT(&x.Tag)
		return
	}
	if len(x.Text) > math.MaxUint16 {
		w.Fail(fmt.Errorf("chat text of %d bytes exceeds %d", len(x.Text), math.MaxUint16))
		return
	}
	if !utf8.ValidString(x.Text) {
		w.Fail(fmt.Errorf("chat text %q is not valid UTF-8", x.Text))
		return
	}
	w.buf.WriteByte(tagString)
	w.buf.Write(binary.BigEndian.AppendUint16(w.scratch[:0], uint16(len(x.Text))))
	w.buf.WriteString(x.Text)
}

// SliceLength ...
func (w *Writer) SliceLength(x *int32) {
	w.Varint32(x)
}
