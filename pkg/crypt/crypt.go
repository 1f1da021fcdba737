// Package crypt seals short secrets, such as the merchant API token, for
// storage in a database column.
//
// Output is "v1." + base64url(nonce || ciphertext || tag) using AES-256-GCM
// with a key derived from APP_KEY (falling back to JWT_SECRET) through
// HKDF-SHA256.
//
//	enc, _ := crypt.Seal(token)
//	token, _ := crypt.Open(enc)
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sudeviagro/backoffice/config"
	"golang.org/x/crypto/hkdf"
)

const prefix = "v1."

var (
	ErrDecrypt = errors.New("crypt: decryption failed")
	ErrNoKey   = errors.New("crypt: APP_KEY not configured")
)

// Box seals and opens values with one derived key.
type Box struct {
	aead cipher.AEAD
}

func New(secret string) (*Box, error) {
	if secret == "" {
		return nil, ErrNoKey
	}
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("backoffice secrets v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("crypt: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Box{aead: aead}, nil
}

// Seal encrypts plain. The empty string seals to the empty string.
func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plain), nil)
	return prefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (b *Box) Open(enc string) (string, error) {
	if enc == "" {
		return "", nil
	}
	if !strings.HasPrefix(enc, prefix) {
		return "", ErrDecrypt
	}
	data, err := base64.RawURLEncoding.DecodeString(enc[len(prefix):])
	if err != nil || len(data) < b.aead.NonceSize() {
		return "", ErrDecrypt
	}
	n := b.aead.NonceSize()
	plain, err := b.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func appBox() (*Box, error) {
	return New(config.Get("APP_KEY", config.JWTSecret()))
}

// Seal encrypts with the application key.
func Seal(plain string) (string, error) {
	b, err := appBox()
	if err != nil {
		return "", err
	}
	return b.Seal(plain)
}

// Open decrypts with the application key.
func Open(enc string) (string, error) {
	b, err := appBox()
	if err != nil {
		return "", err
	}
	return b.Open(enc)
}

// Mask hides all but the last four characters of a secret for display.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
