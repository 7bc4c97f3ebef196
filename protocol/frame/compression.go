package frame

import (
	"bytes"
	"io"

	"github.com/cooldogedev/prism/protocol"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// compressor deflates payloads for the writer. The zlib writer is reused between frames.
type compressor struct {
	threshold int
	zw        *zlib.Writer
}

func newCompressor(threshold int) *compressor {
	return &compressor{threshold: threshold, zw: zlib.NewWriter(io.Discard)}
}

// encode appends the data length header and the, possibly compressed, payload to dst.
func (c *compressor) encode(dst *bytes.Buffer, payload []byte) error {
	if len(payload) < c.threshold {
		dst.WriteByte(0)
		dst.Write(payload)
		return nil
	}
	if len(payload) > MaxUncompressedLength {
		return errors.Wrapf(protocol.ErrMalformed, "payload of %d bytes exceeds %d", len(payload), MaxUncompressedLength)
	}
	dst.Write(protocol.AppendVarint32(nil, int32(len(payload))))
	c.zw.Reset(dst)
	if _, err := c.zw.Write(payload); err != nil {
		return errors.Wrapf(ErrPipeline, "compress: %v", err)
	}
	if err := c.zw.Close(); err != nil {
		return errors.Wrapf(ErrPipeline, "compress: %v", err)
	}
	return nil
}

// decompressor inflates payloads for the reader.
type decompressor struct {
	threshold int
	zr        io.ReadCloser
}

func newDecompressor(threshold int) *decompressor {
	return &decompressor{threshold: threshold}
}

// decode strips the data length header from body and returns the payload it describes.
func (d *decompressor) decode(body []byte) ([]byte, error) {
	size, n, err := protocol.ConsumeVarint32(body)
	if err != nil {
		return nil, errors.Wrap(err, "read data length")
	}
	body = body[n:]
	if size == 0 {
		return body, nil
	}
	if size < 0 || size > MaxUncompressedLength {
		return nil, errors.Wrapf(protocol.ErrMalformed, "data length %d out of range", size)
	}

	src := bytes.NewReader(body)
	if d.zr == nil {
		d.zr, err = zlib.NewReader(src)
	} else {
		err = d.zr.(zlib.Resetter).Reset(src, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrPipeline, "inflate: %v", err)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(d.zr, payload); err != nil {
		return nil, errors.Wrapf(ErrPipeline, "inflated payload shorter than %d bytes: %v", size, err)
	}
	var extra [1]byte
	if n, _ := d.zr.Read(extra[:]); n != 0 {
		return nil, errors.Wrapf(ErrPipeline, "inflated payload longer than %d bytes", size)
	}
	return payload, nil
}
