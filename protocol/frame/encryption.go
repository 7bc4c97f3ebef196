package frame

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pkg/errors"
)

// cfb8 is the 8-bit cipher feedback mode of a block cipher. Every byte is XORed with the first byte
// of the encrypted shift register, after which the ciphertext byte is shifted into the register.
type cfb8 struct {
	block    cipher.Block
	register []byte
	out      []byte
	decrypt  bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	register := make([]byte, block.BlockSize())
	copy(register, iv)
	return &cfb8{
		block:    block,
		register: register,
		out:      make([]byte, block.BlockSize()),
		decrypt:  decrypt,
	}
}

// XORKeyStream ...
func (c *cfb8) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("frame: cfb8 output smaller than input")
	}
	last := len(c.register) - 1
	for i, b := range src {
		c.block.Encrypt(c.out, c.register)
		x := b ^ c.out[0]
		copy(c.register, c.register[1:])
		if c.decrypt {
			c.register[last] = b
		} else {
			c.register[last] = x
		}
		dst[i] = x
	}
}

// newStream returns an AES/CFB8 stream for key and iv. Minecraft uses the shared secret for both.
func newStream(key, iv []byte, decrypt bool) (cipher.Stream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrapf(ErrPipeline, "create cipher: %v", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, errors.Wrapf(ErrPipeline, "iv of %d bytes, expected %d", len(iv), block.BlockSize())
	}
	return newCFB8(block, iv, decrypt), nil
}
