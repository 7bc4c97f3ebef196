package frame

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/cooldogedev/prism/protocol"
	"github.com/klauspost/compress/zlib"
)

func payloadOf(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 7)
	}
	return b
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	payloads := [][]byte{{0x00}, payloadOf(127), payloadOf(128), payloadOf(70000)}
	for _, p := range payloads {
		if err := w.WriteFrame(p); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}

	r := NewReader(&buf)
	for _, p := range payloads {
		got, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if !bytes.Equal(got, p) {
			t.Fatalf("payload of %d bytes mismatched", len(p))
		}
	}
	if _, err := r.ReadFrame(); err != io.EOF {
		t.Fatalf("expected io.EOF on frame boundary, got %v", err)
	}
}

func TestFrameTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x05, 0x00, 0x01}))
	if _, err := r.ReadFrame(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated for short body, got %v", err)
	}

	r = NewReader(bytes.NewReader([]byte{0x80}))
	if _, err := r.ReadFrame(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated for short length, got %v", err)
	}
}

func TestFrameBadLength(t *testing.T) {
	for _, wire := range [][]byte{
		{0x00},
		{0x80, 0x80, 0x80, 0x01},
	} {
		r := NewReader(bytes.NewReader(wire))
		if _, err := r.ReadFrame(); !errors.Is(err, protocol.ErrMalformed) {
			t.Fatalf("%x: expected ErrMalformed, got %v", wire, err)
		}
	}
}

func TestCompressionThreshold(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.ArmCompression(256); err != nil {
		t.Fatal(err)
	}

	large, small := payloadOf(300), payloadOf(50)
	if err := w.WriteFrame(large); err != nil {
		t.Fatal(err)
	}
	first := append([]byte(nil), buf.Bytes()...)
	if err := w.WriteFrame(small); err != nil {
		t.Fatal(err)
	}

	// The large payload carries its uncompressed size, the small one the zero sentinel.
	_, n, _ := protocol.ConsumeVarint32(first)
	size, _, err := protocol.ConsumeVarint32(first[n:])
	if err != nil || size != 300 {
		t.Fatalf("expected data length 300, got %d (%v)", size, err)
	}
	second := buf.Bytes()[len(first):]
	_, n, _ = protocol.ConsumeVarint32(second)
	if second[n] != 0 || !bytes.Equal(second[n+1:], small) {
		t.Fatalf("expected uncompressed small payload, got %x", second)
	}

	r := NewReader(&buf)
	if err := r.ArmCompression(256); err != nil {
		t.Fatal(err)
	}
	for _, want := range [][]byte{large, small} {
		got, err := r.ReadFrame()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("payload of %d bytes mismatched", len(want))
		}
	}
}

func TestCompressionSizeMismatch(t *testing.T) {
	var deflated bytes.Buffer
	zw := zlib.NewWriter(&deflated)
	_, _ = zw.Write([]byte("hello"))
	_ = zw.Close()

	for _, claimed := range []int32{10, 3} {
		body := append(protocol.AppendVarint32(nil, claimed), deflated.Bytes()...)
		wire := append(protocol.AppendVarint32(nil, int32(len(body))), body...)

		r := NewReader(bytes.NewReader(wire))
		_ = r.ArmCompression(1)
		if _, err := r.ReadFrame(); !errors.Is(err, ErrPipeline) {
			t.Fatalf("claimed %d: expected ErrPipeline, got %v", claimed, err)
		}
	}
}

func TestArmOnce(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	r, w := NewReader(new(bytes.Buffer)), NewWriter(io.Discard)
	if err := r.ArmCompression(64); err != nil {
		t.Fatal(err)
	}
	if err := r.ArmCompression(128); !errors.Is(err, ErrAlreadyArmed) {
		t.Fatalf("expected ErrAlreadyArmed, got %v", err)
	}
	if err := w.ArmEncryption(key, key); err != nil {
		t.Fatal(err)
	}
	if err := w.ArmEncryption(key, key); !errors.Is(err, ErrAlreadyArmed) {
		t.Fatalf("expected ErrAlreadyArmed, got %v", err)
	}
	if err := r.ArmEncryption([]byte{1, 2, 3}, []byte{1, 2, 3}); !errors.Is(err, ErrPipeline) {
		t.Fatalf("expected ErrPipeline for a bad key, got %v", err)
	}
}

func TestCFB8KnownAnswer(t *testing.T) {
	key, _ := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	iv, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	plain, _ := hex.DecodeString("6bc1bee22e409f96e93d7e117393172aae2d")
	want, _ := hex.DecodeString("3b79424c9c0dd436bace9e0ed4586a4f32b9")

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(plain))
	newCFB8(block, iv, false).XORKeyStream(got, plain)
	if !bytes.Equal(got, want) {
		t.Fatalf("encrypt: got %x want %x", got, want)
	}

	// Decrypting in place and in pieces must give the plaintext back.
	dec := newCFB8(block, iv, true)
	dec.XORKeyStream(got[:5], got[:5])
	dec.XORKeyStream(got[5:], got[5:])
	if !bytes.Equal(got, plain) {
		t.Fatalf("decrypt: got %x want %x", got, plain)
	}
}

func TestEncryptionDeterministic(t *testing.T) {
	secret := []byte("0123456789abcdef")
	encode := func() []byte {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		_ = w.ArmEncryption(secret, secret)
		_ = w.WriteFrame([]byte{0x01, 0x02, 0x03})
		_ = w.WriteFrame(payloadOf(40))
		return buf.Bytes()
	}
	a, b := encode(), encode()
	if !bytes.Equal(a, b) {
		t.Fatal("same secret and payloads produced different ciphertext")
	}
	if bytes.Contains(a, []byte{0x01, 0x02, 0x03}) {
		t.Fatal("ciphertext contains the plaintext payload")
	}
}

func TestEncryptionArmedMidStream(t *testing.T) {
	secret := []byte("fedcba9876543210")
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteFrame([]byte("plain")); err != nil {
		t.Fatal(err)
	}
	_ = w.ArmEncryption(secret, secret)
	_ = w.ArmCompression(4)
	if err := w.WriteFrame([]byte("secret payload")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFrame([]byte("ok")); err != nil {
		t.Fatal(err)
	}

	// The reader buffers the ciphertext of later frames before the cipher is armed.
	r := NewReader(&buf)
	got, err := r.ReadFrame()
	if err != nil || string(got) != "plain" {
		t.Fatalf("got %q, %v", got, err)
	}
	_ = r.ArmEncryption(secret, secret)
	_ = r.ArmCompression(4)
	for _, want := range []string{"secret payload", "ok"} {
		got, err := r.ReadFrame()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestWriterRejectsOversizedFrame(t *testing.T) {
	w := NewWriter(io.Discard)
	if err := w.WriteFrame(payloadOf(MaxFrameLength + 1)); !errors.Is(err, protocol.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if err := w.WriteFrame(nil); !errors.Is(err, protocol.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for empty frame, got %v", err)
	}
}

func TestEncryptedLengthPrefix(t *testing.T) {
	secret := []byte("0123456789abcdef")
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_ = w.ArmEncryption(secret, secret)
	if err := w.WriteFrame(payloadOf(200)); err != nil {
		t.Fatal(err)
	}
	if n := buf.Len(); n != protocol.Varint32Size(200)+200 {
		t.Fatalf("frame of %d bytes, expected a two byte header", n)
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_ = r.ArmEncryption(secret, secret)
	p, err := r.ReadFrame()
	if err != nil || !bytes.Equal(p, payloadOf(200)) {
		t.Fatalf("read back %d bytes: %v", len(p), err)
	}

	// Four encrypted continuation bytes are rejected once decrypted.
	plain := []byte{0x80, 0x80, 0x80, 0x01}
	enc := make([]byte, len(plain))
	block, _ := aes.NewCipher(secret)
	newCFB8(block, secret, false).XORKeyStream(enc, plain)
	r = NewReader(bytes.NewReader(enc))
	_ = r.ArmEncryption(secret, secret)
	if _, err := r.ReadFrame(); !errors.Is(err, protocol.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
