package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ID entitas tidak pernah keluar sebagai angka polos. Token dienkripsi
// AES-GCM dengan nonce acak, jadi id yang sama menghasilkan token berbeda
// tiap kali dan tidak membocorkan kesamaan.

var ErrInvalidIDToken = errors.New("invalid id token")

type IDCodec struct {
	aead cipher.AEAD
}

func NewIDCodec(secret string) (*IDCodec, error) {
	if secret == "" {
		return nil, errors.New("id codec secret is empty")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &IDCodec{aead: aead}, nil
}

func (c *IDCodec) Encrypt(id uint) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	plain := make([]byte, 8)
	binary.BigEndian.PutUint64(plain, uint64(id))

	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *IDCodec) Decrypt(token string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrInvalidIDToken
	}
	if len(raw) < c.aead.NonceSize()+8 {
		return 0, ErrInvalidIDToken
	}

	nonce := raw[:c.aead.NonceSize()]
	plain, err := c.aead.Open(nil, nonce, raw[c.aead.NonceSize():], nil)
	if err != nil || len(plain) != 8 {
		return 0, ErrInvalidIDToken
	}
	return uint(binary.BigEndian.Uint64(plain)), nil
}

var defaultIDCodec *IDCodec

// InitIDCodec menyiapkan codec global. Dipanggil sekali dari main.
func InitIDCodec(secret string) error {
	codec, err := NewIDCodec(secret)
	if err != nil {
		return fmt.Errorf("init id codec: %w", err)
	}
	defaultIDCodec = codec
	return nil
}

func EncryptID(id uint) (string, error) {
	if defaultIDCodec == nil {
		return "", errors.New("id codec not initialized")
	}
	return defaultIDCodec.Encrypt(id)
}

func DecryptID(token string) (uint, error) {
	if defaultIDCodec == nil {
		return 0, errors.New("id codec not initialized")
	}
	return defaultIDCodec.Decrypt(token)
}
