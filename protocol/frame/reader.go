package frame

import (
	"bufio"
	"crypto/cipher"
	"io"
	"sync"

	"github.com/cooldogedev/prism/protocol"
	"github.com/pkg/errors"
)

// Reader reads frames from a byte stream. The cipher is applied to bytes as they are consumed from
// the buffer, so bytes buffered before ArmEncryption are still decrypted once they are read.
type Reader struct {
	br *bufio.Reader

	mu           sync.Mutex
	stream       cipher.Stream
	decompressor *decompressor
}

// NewReader returns a Reader reading frames from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ArmCompression enables the compression stage. It may only be called once.
func (r *Reader) ArmCompression(threshold int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decompressor != nil {
		return errors.Wrap(ErrAlreadyArmed, "compression")
	}
	r.decompressor = newDecompressor(threshold)
	return nil
}

// ArmEncryption enables decryption of every byte read after the call. It may only be called once.
func (r *Reader) ArmEncryption(key, iv []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		return errors.Wrap(ErrAlreadyArmed, "encryption")
	}
	stream, err := newStream(key, iv, true)
	if err != nil {
		return err
	}
	r.stream = stream
	return nil
}

// ReadFrame reads the next frame and returns its payload: the VarInt message id followed by the
// message body. io.EOF is returned only when the stream ends on a frame boundary.
func (r *Reader) ReadFrame() ([]byte, error) {
	length, err := r.readLength()
	if err != nil {
		return nil, err
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r.br, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrapf(protocol.ErrTruncated, "read frame of %d bytes", length)
		}
		return nil, err
	}
	r.decrypt(body)

	r.mu.Lock()
	d := r.decompressor
	r.mu.Unlock()
	if d == nil {
		return body, nil
	}
	return d.decode(body)
}

// readLength reads the frame length prefix. Frames are never empty, and the prefix may not exceed
// three bytes.
func (r *Reader) readLength() (int, error) {
	lr := &lengthReader{r: r}
	length, err := protocol.ReadVarint32(lr)
	if err != nil {
		if lr.n > 0 && errors.Is(err, io.EOF) {
			return 0, errors.Wrap(protocol.ErrTruncated, "read frame length")
		}
		if errors.Is(err, protocol.ErrMalformed) {
			return 0, errors.Wrap(err, "read frame length")
		}
		return 0, err
	}
	if length <= 0 || length > MaxFrameLength {
		return 0, errors.Wrapf(protocol.ErrMalformed, "frame length %d out of range", length)
	}
	return int(length), nil
}

// lengthReader hands out the decrypted bytes of a length prefix and counts them.
type lengthReader struct {
	r *Reader
	n int
}

func (lr *lengthReader) ReadByte() (byte, error) {
	if lr.n == maxLengthBytes {
		return 0, errors.Wrapf(protocol.ErrMalformed, "frame length exceeds %d bytes", maxLengthBytes)
	}
	b, err := lr.r.br.ReadByte()
	if err != nil {
		return 0, err
	}
	lr.n++
	buf := [1]byte{b}
	lr.r.decrypt(buf[:])
	return buf[0], nil
}

func (r *Reader) decrypt(b []byte) {
	r.mu.Lock()
	if r.stream != nil {
		r.stream.XORKeyStream(b, b)
	}
	r.mu.Unlock()
}
