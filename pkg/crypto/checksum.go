package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Checksum computes the hex SHA-256 digest of the canonical JSON encoding of
// v. Callers are responsible for passing a deterministically ordered value
// (sorted slices, no maps) so the digest is stable.
func Checksum(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling value for checksum: %w", err)
	}
	return ChecksumBytes(data), nil
}

// ChecksumBytes computes the hex SHA-256 digest of raw bytes.
func ChecksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
