package frame

const (
	// MaxFrameLength is the largest frame length, the largest value a three byte VarInt can hold.
	MaxFrameLength = 2097151
	// MaxUncompressedLength is the largest payload a compressed frame may inflate to.
	MaxUncompressedLength = 8 * 1024 * 1024
	// maxLengthBytes is the number of bytes the frame length prefix may occupy.
	maxLengthBytes = 3
)
