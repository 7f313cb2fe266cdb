// Package crypto implements the credential vault used to protect customer
// platform API tokens at rest. Blobs are AES-256-GCM sealed with a single
// service-wide master key and laid out as nonce||ciphertext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// CryptoError wraps any failure inside the credential vault. Callers treat
// all vault failures the same way, so the original error is kept only for
// logging.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("credential vault: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// Vault seals and opens credential blobs with a fixed master key.
type Vault struct {
	key [KeySize]byte
}

// New creates a vault from a raw 32-byte master key.
func New(key [KeySize]byte) *Vault {
	return &Vault{key: key}
}

// ParseKey decodes key material from hex or base64 into a master key.
// Material longer than 32 bytes is truncated, shorter is rejected.
func ParseKey(material string) ([KeySize]byte, error) {
	var key [KeySize]byte

	raw, err := hex.DecodeString(material)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(material)
		if err != nil {
			return key, &CryptoError{Op: "parse key", Err: fmt.Errorf("key material is neither hex nor base64")}
		}
	}

	if len(raw) < KeySize {
		return key, &CryptoError{Op: "parse key", Err: fmt.Errorf("key material is %d bytes, need at least %d", len(raw), KeySize)}
	}

	copy(key[:], raw[:KeySize])
	return key, nil
}

// GenerateKey returns a fresh random master key.
func GenerateKey() ([KeySize]byte, error) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return key, &CryptoError{Op: "generate key", Err: err}
	}
	return key, nil
}

// Fingerprint returns a short identifier for the vault key, safe to log.
func (v *Vault) Fingerprint() string {
	sum := sha256.Sum256(v.key[:])
	return hex.EncodeToString(sum[:4])
}

// Encrypt seals plaintext into a nonce||ciphertext blob. A fresh random
// nonce is drawn on every call, so encrypting the same plaintext twice
// yields different blobs.
func (v *Vault) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := v.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, &CryptoError{Op: "encrypt", Err: err}
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a nonce||ciphertext blob produced by Encrypt. Any
// tampering with the blob fails authentication.
func (v *Vault) Decrypt(blob []byte) ([]byte, error) {
	aead, err := v.aead()
	if err != nil {
		return nil, err
	}

	if len(blob) < aead.NonceSize() {
		return nil, &CryptoError{Op: "decrypt", Err: fmt.Errorf("blob shorter than nonce")}
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, &CryptoError{Op: "decrypt", Err: err}
	}

	return plaintext, nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.key[:])
	if err != nil {
		return nil, &CryptoError{Op: "init cipher", Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &CryptoError{Op: "init gcm", Err: err}
	}
	return aead, nil
}
