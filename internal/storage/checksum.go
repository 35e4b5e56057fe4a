package storage

import (
	"crypto/sha256"
	"encoding/hex"
)

// Checksum returns the hex SHA-256 of a note's bytes. The manifest and the
// listing use it to tell whether a copy still matches its source.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
