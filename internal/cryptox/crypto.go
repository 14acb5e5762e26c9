// Package cryptox implements the at-rest encryption used by the secret vault:
// AES-GCM with a key derived via argon2id from a per-installation keyfile.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize   = 16
	secretSize = 32
	keySize    = 32
	nonceSize  = 12
)

// DeriveKey derives a 32-byte AES key from the given secret and salt.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// Encrypt seals plaintext with AES-GCM under key. A fresh random 12-byte
// nonce is generated per call and returned alongside the ciphertext.
func Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext produced by Encrypt with the same key and nonce.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// LoadOrCreateKeyfile returns the vault key derived from the keyfile at path.
// On first use a keyfile holding a random salt and secret is created with
// permissions 0600.
//
// The keyfile layout is saltSize bytes of salt followed by secretSize bytes
// of secret material.
func LoadOrCreateKeyfile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = make([]byte, saltSize+secretSize)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generate keyfile: %w", err)
		}
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return nil, fmt.Errorf("write keyfile: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read keyfile: %w", err)
	}

	if len(raw) != saltSize+secretSize {
		return nil, fmt.Errorf("keyfile %s: unexpected size %d", path, len(raw))
	}

	return DeriveKey(raw[saltSize:], raw[:saltSize]), nil
}

// Wipe overwrites b with zeros. Useful for secrets that should not linger in
// memory after use. A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
