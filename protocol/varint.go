package protocol

const (
	// MaxVarint32Len is the longest encoding of a 32-bit VarInt.
	MaxVarint32Len = 5
	// MaxVarint64Len is the longest encoding of a 64-bit VarLong.
	MaxVarint64Len = 10
)

// AppendVarint32 appends the VarInt encoding of x to b. Negative values use their two's complement
// bit pattern and therefore always take five bytes.
func AppendVarint32(b []byte, x int32) []byte {
	ux := uint32(x)
	for ux >= 0x80 {
		b = append(b, byte(ux)|0x80)
		ux >>= 7
	}
	return append(b, byte(ux))
}

// AppendVarint64 appends the VarLong encoding of x to b.
func AppendVarint64(b []byte, x int64) []byte {
	ux := uint64(x)
	for ux >= 0x80 {
		b = append(b, byte(ux)|0x80)
		ux >>= 7
	}
	return append(b, byte(ux))
}

// Varint32Size returns the number of bytes the VarInt encoding of x takes.
func Varint32Size(x int32) int {
	ux := uint32(x)
	n := 1
	for ux >= 0x80 {
		ux >>= 7
		n++
	}
	return n
}

// ConsumeVarint32 decodes a VarInt from the front of b and returns it with the number of bytes used.
// It returns ErrTruncated if b ends before the last byte and ErrMalformed if the encoding is longer
// than five bytes or carries bits beyond 32.
func ConsumeVarint32(b []byte) (int32, int, error) {
	var ux uint32
	for i := 0; i < MaxVarint32Len; i++ {
		if i >= len(b) {
			return 0, 0, ErrTruncated
		}
		v := b[i]
		if i == MaxVarint32Len-1 && v > 0x0f {
			return 0, 0, ErrMalformed
		}
		ux |= uint32(v&0x7f) << (7 * i)
		if v&0x80 == 0 {
			return int32(ux), i + 1, nil
		}
	}
	return 0, 0, ErrMalformed
}

// ByteReader is the subset of io.ByteReader ReadVarint32 needs.
type ByteReader interface {
	ReadByte() (byte, error)
}

// ReadVarint32 reads a VarInt one byte at a time from r. Errors from r are returned unchanged so
// callers can tell a clean end of stream apart from a corrupt encoding.
func ReadVarint32(r ByteReader) (int32, error) {
	var ux uint32
	for i := 0; i < MaxVarint32Len; i++ {
		v, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == MaxVarint32Len-1 && v > 0x0f {
			return 0, ErrMalformed
		}
		ux |= uint32(v&0x7f) << (7 * i)
		if v&0x80 == 0 {
			return int32(ux), nil
		}
	}
	return 0, ErrMalformed
}
