package protocol

// BlockPos is the position of a block in the world.
type BlockPos [3]int32

// X ...
func (p BlockPos) X() int32 { return p[0] }

// Y ...
func (p BlockPos) Y() int32 { return p[1] }

// Z ...
func (p BlockPos) Z() int32 { return p[2] }

// packBlockPos packs p into the single long used on the wire. 1.14 moved Y from the middle to the
// low 12 bits.
func packBlockPos(p BlockPos, v Version) int64 {
	x, y, z := int64(p[0])&0x3ffffff, int64(p[1])&0xfff, int64(p[2])&0x3ffffff
	if v < V1_14 {
		return x<<38 | y<<26 | z
	}
	return x<<38 | z<<12 | y
}

func unpackBlockPos(packed int64, v Version) BlockPos {
	x := packed >> 38
	if v < V1_14 {
		y := packed << 26 >> 52
		z := packed << 38 >> 38
		return BlockPos{int32(x), int32(y), int32(z)}
	}
	y := packed << 52 >> 52
	z := packed << 26 >> 38
	return BlockPos{int32(x), int32(y), int32(z)}
}

// Chat is a text component. Up to 1.20.2 it travels as JSON text, from 1.20.3 as an NBT tag that is
// either a compound or a plain string.
type Chat struct {
	// JSON is the JSON text used by versions before 1.20.3.
	JSON string
	// Tag is the compound form used by 1.20.3 and later. It is nil when Text is used instead.
	Tag map[string]any
	// Text is the plain string form used by 1.20.3 and later.
	Text string
}

// NBT tag types the codec needs to know about.
const (
	tagEnd      byte = 0
	tagString   byte = 8
	tagCompound byte = 10
)
