// Package utils carries small shared helpers with no domain knowledge.
package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	gcmNonceSize = 12
	gcmTagSize   = 16
)

// Encryptor encrypts and decrypts credential strings with AES-256-GCM. The
// wire form is base64(nonce || tag || ciphertext), so payloads written by the
// previous implementation of this service stay readable.
type Encryptor struct {
	key    []byte
	logger *zap.Logger
}

// NewEncryptor derives the AES key from the configured secret. An empty
// secret falls back to a fixed development key; that fallback is loud on
// purpose because data encrypted with it is not protected.
func NewEncryptor(secret string, logger *zap.Logger) *Encryptor {
	if secret == "" {
		logger.Warn("encryption key not configured, using insecure development key")
		secret = "dev-only-insecure-encryption-key"
	}
	key := sha256.Sum256([]byte(secret))
	return &Encryptor{key: key[:], logger: logger}
}

// Encrypt seals the plaintext. Empty input round-trips as empty.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("init gcm: %w", err)
	}
	nonce := make([]byte, gcmNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	// Seal yields ciphertext||tag; the stored layout is nonce||tag||ciphertext.
	ct := sealed[:len(sealed)-gcmTagSize]
	tag := sealed[len(sealed)-gcmTagSize:]

	out := make([]byte, 0, gcmNonceSize+gcmTagSize+len(ct))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ct...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a sealed value. Failures are logged and collapse to an empty
// string: a credential we cannot read is treated the same as one that was
// never stored, which forces the caller down its reconnect path instead of
// crashing the request.
func (e *Encryptor) Decrypt(encoded string) string {
	if encoded == "" {
		return ""
	}
	plaintext, err := e.decrypt(encoded)
	if err != nil {
		e.logger.Warn("failed to decrypt stored credential", zap.Error(err))
		return ""
	}
	return plaintext
}

func (e *Encryptor) decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	if len(raw) < gcmNonceSize+gcmTagSize {
		return "", errors.New("payload too short")
	}
	nonce := raw[:gcmNonceSize]
	tag := raw[gcmNonceSize : gcmNonceSize+gcmTagSize]
	ct := raw[gcmNonceSize+gcmTagSize:]

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("init gcm: %w", err)
	}

	sealed := make([]byte, 0, len(ct)+len(tag))
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open payload: %w", err)
	}
	return string(plaintext), nil
}
