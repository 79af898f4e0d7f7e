package crypto

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewAesGcmCipherKeyValidation(t *testing.T) {
	_, err := NewAesGcmCipher("", testKey)
	assert.Error(t, err)

	_, err = NewAesGcmCipher("key-1", []byte("too short"))
	assert.Error(t, err)

	cipher, err := NewAesGcmCipher("key-1", testKey)
	assert.NoError(t, err)
	assert.Equal(t, "key-1", cipher.KeyID())
}

func TestEncryptRoundTrip(t *testing.T) {
	cipher, err := NewAesGcmCipher("key-1", testKey)
	assert.NoError(t, err)

	plaintext := []byte(`{"package_id":"p1","entries":[]}`)
	payload, err := cipher.Encrypt(plaintext)
	assert.NoError(t, err)
	assert.Equal(t, "key-1", payload.KeyID)
	assert.Equal(t, AlgorithmAES256GCM, payload.Algorithm)
	assert.NotContains(t, string(payload.Ciphertext), "package_id")

	block, err := aes.NewCipher(testKey)
	assert.NoError(t, err)
	aead, err := gocipher.NewGCM(block)
	assert.NoError(t, err)
	nonce, sealed := payload.Ciphertext[:aead.NonceSize()], payload.Ciphertext[aead.NonceSize():]
	decrypted, err := aead.Open(nil, nonce, sealed, nil)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	cipher, err := NewAesGcmCipher("key-1", testKey)
	assert.NoError(t, err)

	first, err := cipher.Encrypt([]byte("same input"))
	assert.NoError(t, err)
	second, err := cipher.Encrypt([]byte("same input"))
	assert.NoError(t, err)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
}
