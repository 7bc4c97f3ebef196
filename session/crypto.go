package session

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"strings"

	"github.com/cooldogedev/prism/packet"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Authenticator joins the server on the session service before encryption is enabled. The
// serverHash passed is the value computed by ServerHash.
type Authenticator interface {
	Authenticate(ctx context.Context, serverHash string) error
}

// AuthenticatorFunc is an Authenticator implemented by a function.
type AuthenticatorFunc func(ctx context.Context, serverHash string) error

// Authenticate ...
func (f AuthenticatorFunc) Authenticate(ctx context.Context, serverHash string) error {
	return f(ctx, serverHash)
}

// SharedSecretLength is the length of the AES key negotiated during login.
const SharedSecretLength = 16

// NewSharedSecret returns a random shared secret.
func NewSharedSecret() ([]byte, error) {
	secret := make([]byte, SharedSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// NewEncryptionResponse encrypts secret and verifyToken with the DER encoded public key of the
// server.
func NewEncryptionResponse(publicKey, secret, verifyToken []byte) (*packet.EncryptionResponse, error) {
	parsed, err := x509.ParsePKIXPublicKey(publicKey)
	if err != nil {
		return nil, errors.Wrap(err, "parse server public key")
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Errorf("server public key is %T, expected RSA", parsed)
	}
	encryptedSecret, err := rsa.EncryptPKCS1v15(rand.Reader, key, secret)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt shared secret")
	}
	encryptedToken, err := rsa.EncryptPKCS1v15(rand.Reader, key, verifyToken)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt verify token")
	}
	return &packet.EncryptionResponse{SharedSecret: encryptedSecret, VerifyToken: encryptedToken}, nil
}

// ServerHash returns the SHA-1 digest of the server id, shared secret and public key, formatted as
// a signed hexadecimal number the way the session service expects it.
func ServerHash(serverID string, secret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(secret)
	h.Write(publicKey)
	sum := h.Sum(nil)

	negative := sum[0]&0x80 != 0
	if negative {
		carry := true
		for i := len(sum) - 1; i >= 0; i-- {
			sum[i] = ^sum[i]
			if carry {
				sum[i]++
				carry = sum[i] == 0
			}
		}
	}
	s := strings.TrimLeft(hex.EncodeToString(sum), "0")
	if s == "" {
		s = "0"
	}
	if negative {
		s = "-" + s
	}
	return s
}

// OfflineUUID returns the UUID servers in offline mode assign to name.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum)
}
