package crypto

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/samber/do"
)

// AlgorithmAES256GCM is the only algorithm the pipeline emits. Recorded on
// every encrypted package so downstream tooling can refuse anything else.
const AlgorithmAES256GCM = "AES-256-GCM"

// EncryptedPayload carries ciphertext with the nonce prepended, plus the id
// of the externally managed key that produced it.
type EncryptedPayload struct {
	KeyID      string
	Algorithm  string
	Ciphertext []byte
}

// Cipher seals serialized packages for attended transfer. Narrow by design;
// key management beyond an env-provided key is out of scope.
type Cipher interface {
	Encrypt(plaintext []byte) (*EncryptedPayload, error)
	KeyID() string
}

type AesGcmCipher struct {
	keyID string
	aead  gocipher.AEAD
}

// NewAesGcmCipher expects a 32-byte key. The key id identifies the key to the
// downstream system that holds the matching decryption material.
func NewAesGcmCipher(keyID string, key []byte) (*AesGcmCipher, error) {
	if keyID == "" {
		return nil, errors.New("cipher key id must not be empty")
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("AES-256-GCM requires a 32-byte key, got %d bytes", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing AES cipher: %w", err)
	}
	aead, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initializing GCM mode: %w", err)
	}
	return &AesGcmCipher{keyID: keyID, aead: aead}, nil
}

// NewCipherService reads SYNC_KEY_ID and SYNC_KEY (64 hex chars) from the
// environment.
func NewCipherService(i *do.Injector) (Cipher, error) {
	key, err := hex.DecodeString(os.Getenv("SYNC_KEY"))
	if err != nil {
		return nil, fmt.Errorf("SYNC_KEY is not valid hex: %w", err)
	}
	return NewAesGcmCipher(os.Getenv("SYNC_KEY_ID"), key)
}

func (c *AesGcmCipher) KeyID() string {
	return c.keyID
}

func (c *AesGcmCipher) Encrypt(plaintext []byte) (*EncryptedPayload, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return &EncryptedPayload{
		KeyID:      c.keyID,
		Algorithm:  AlgorithmAES256GCM,
		Ciphertext: sealed,
	}, nil
}
