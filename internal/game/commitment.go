package game

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// HashFunc turns a raw revealed move into the commitment string it must match.
type HashFunc func(raw []byte) string

// HashMove is the commitment scheme: lowercase hex of SHA-256 over the raw bytes.
func HashMove(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Commit builds the raw move "label-nonce" and the commitment a client submits to play.
func Commit(label Move, nonce string) (raw, commitment string) {
	raw = string(label) + moveSeparator + nonce
	return raw, HashMove([]byte(raw))
}

// NewPin returns a fresh random match pin.
func NewPin() string {
	return uuid.NewString()
}
