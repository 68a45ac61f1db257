package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"powgate/internal/entity"
)

// hexLen is the length of a lower-case hex SHA-256 digest; a difficulty
// above it can never be satisfied.
const hexLen = sha256.Size * 2

const defaultBatch = 4096

// Digest returns the lower-case hex SHA-256 of data. Must match the
// server's verifier byte for byte.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// powMessage builds the hash input: the literal challenge string
// followed by the decimal form of nonce, no separator. The server
// verifies the same bare concatenation, so it is preserved as-is.
func powMessage(challenge string, nonce uint64) []byte {
	buf := make([]byte, 0, len(challenge)+20)
	buf = append(buf, challenge...)
	return strconv.AppendUint(buf, nonce, 10)
}

// hasZeroPrefix checks the first n hex characters of digest, character
// by character. The predicate is a string-prefix match, not a numeric
// threshold; the server applies the identical rule.
func hasZeroPrefix(digest string, n int) bool {
	for i := 0; i < n; i++ {
		if digest[i] != '0' {
			return false
		}
	}
	return true
}

// Hashcash searches nonces for a digest meeting the difficulty target.
// The search is exhaustive and ordered from zero, never randomized, so
// every run of the same challenge yields the same solution.
type Hashcash struct {
	batch uint64
}

// NewHashcash returns a solver that checks ctx every batch iterations.
// batch <= 0 selects the default.
func NewHashcash(batch int) *Hashcash {
	if batch <= 0 {
		batch = defaultBatch
	}
	return &Hashcash{batch: uint64(batch)}
}

// Solve returns the smallest nonce whose digest of
// challenge||decimal(nonce) has difficulty leading '0' hex characters.
// Cancellation is cooperative: the loop is not preemptible
// mid-iteration but observes ctx once per batch.
func (h *Hashcash) Solve(ctx context.Context, challenge string, difficulty int) (entity.Solution, error) {
	if difficulty < 0 {
		return entity.Solution{}, fmt.Errorf("negative difficulty %d", difficulty)
	}
	if difficulty > hexLen {
		return entity.Solution{}, fmt.Errorf("difficulty %d exceeds digest length %d", difficulty, hexLen)
	}
	for nonce := uint64(0); ; nonce++ {
		if nonce%h.batch == 0 {
			if err := ctx.Err(); err != nil {
				return entity.Solution{}, fmt.Errorf("solve canceled: %w", err)
			}
		}
		digest := Digest(powMessage(challenge, nonce))
		if hasZeroPrefix(digest, difficulty) {
			return entity.Solution{Nonce: nonce, Digest: digest}, nil
		}
	}
}
