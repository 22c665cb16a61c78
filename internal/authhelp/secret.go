package authhelp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

const sealedPrefix = "v1:"

var ErrSealedSecret = errors.New("cannot open sealed secret")

// DeriveKey turns an application secret into a 32-byte AES key for purpose.
func DeriveKey(secret []byte, purpose string) []byte {
	h := sha256.New()
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write(secret)
	return h.Sum(nil)
}

func encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	if len(key) != 32 {
		return nil, nil, errors.New("encryption key must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}

	ciphertext = gcm.Seal(nil, nonce, plaintext, nil)
	return
}

func decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return gcm.Open(nil, nonce, ciphertext, nil)
}

// SealSecret encrypts a secret for storage as "v1:<base64(nonce|ciphertext)>".
// With a nil key the secret is returned unchanged.
func SealSecret(secret string, key []byte) (string, error) {
	if key == nil {
		return secret, nil
	}
	ciphertext, nonce, err := encrypt([]byte(secret), key)
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

// OpenSecret reverses SealSecret. Values without the prefix were stored
// before encryption was configured and are returned as they are.
func OpenSecret(stored string, key []byte) (string, error) {
	payload, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return stored, nil
	}
	if key == nil {
		return "", ErrSealedSecret
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrSealedSecret
	}
	const nonceSize = 12
	if len(raw) <= nonceSize {
		return "", ErrSealedSecret
	}

	plaintext, err := decrypt(raw[nonceSize:], raw[:nonceSize], key)
	if err != nil {
		return "", ErrSealedSecret
	}
	return string(plaintext), nil
}
