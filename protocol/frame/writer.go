package frame

import (
	"crypto/cipher"
	"io"
	"sync"

	"github.com/cooldogedev/prism/internal"
	"github.com/cooldogedev/prism/protocol"
	"github.com/pkg/errors"
)

// Writer writes frames to a byte stream. Frames are written whole, one at a time.
type Writer struct {
	w io.Writer

	mu         sync.Mutex
	stream     cipher.Stream
	compressor *compressor
}

// NewWriter returns a Writer writing frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// ArmCompression enables the compression stage. It may only be called once.
func (w *Writer) ArmCompression(threshold int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.compressor != nil {
		return errors.Wrap(ErrAlreadyArmed, "compression")
	}
	w.compressor = newCompressor(threshold)
	return nil
}

// ArmEncryption enables encryption of every frame written after the call. It may only be called
// once.
func (w *Writer) ArmEncryption(key, iv []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stream != nil {
		return errors.Wrap(ErrAlreadyArmed, "encryption")
	}
	stream, err := newStream(key, iv, false)
	if err != nil {
		return err
	}
	w.stream = stream
	return nil
}

// WriteFrame writes payload, the VarInt message id followed by the message body, as one frame.
func (w *Writer) WriteFrame(payload []byte) error {
	if len(payload) == 0 {
		return errors.Wrap(protocol.ErrMalformed, "empty frame")
	}

	body, frame := internal.GetBuffer(), internal.GetBuffer()
	defer func() {
		internal.PutBuffer(body)
		internal.PutBuffer(frame)
	}()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.compressor != nil {
		if err := w.compressor.encode(body, payload); err != nil {
			return err
		}
	} else {
		body.Write(payload)
	}
	if body.Len() > MaxFrameLength {
		return errors.Wrapf(protocol.ErrMalformed, "frame of %d bytes exceeds %d", body.Len(), MaxFrameLength)
	}

	frame.Grow(protocol.Varint32Size(int32(body.Len())) + body.Len())
	frame.Write(protocol.AppendVarint32(nil, int32(body.Len())))
	frame.Write(body.Bytes())
	data := frame.Bytes()
	if w.stream != nil {
		w.stream.XORKeyStream(data, data)
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	return nil
}
