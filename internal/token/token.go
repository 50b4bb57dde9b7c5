// Package token implements entry/sheet token generation, HMAC hashing, and
// constant-time verification (component A).
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

const (
	// DefaultSizeBytes is the number of random bytes encoded into a raw token.
	DefaultSizeBytes = 32
	// MinSecretKeyBytes is the minimum acceptable length of the HMAC secret.
	MinSecretKeyBytes = 32
)

// Service generates and verifies tokens under a single process-wide HMAC
// secret. It is stateless beyond that secret and safe for concurrent use.
type Service struct {
	secretKey []byte
}

// NewService constructs a token Service. It fails if secretKey is shorter
// than MinSecretKeyBytes, since a short key would make the hash brute-forceable.
func NewService(secretKey string) (*Service, error) {
	if len(secretKey) < MinSecretKeyBytes {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("token secret key must be at least %d bytes", MinSecretKeyBytes))
	}
	return &Service{secretKey: []byte(secretKey)}, nil
}

// Pair is the result of Generate: the raw token handed to the caller once,
// and its hash, which is what gets persisted.
type Pair struct {
	Raw  string
	Hash string
}

// Generate returns size_bytes of cryptographically random data, URL-safe
// base64 encoded as Raw, with Hash set to the HMAC-SHA256 hex digest of Raw.
func (s *Service) Generate(sizeBytes int) (Pair, error) {
	if sizeBytes <= 0 {
		sizeBytes = DefaultSizeBytes
	}
	buf := make([]byte, sizeBytes)
	if _, err := rand.Read(buf); err != nil {
		return Pair{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to read random bytes")
	}
	raw := base64.URLEncoding.EncodeToString(buf)
	return Pair{Raw: raw, Hash: s.Hash(raw)}, nil
}

// Hash returns the lowercase hex HMAC-SHA256 digest of raw under the
// service's secret key.
func (s *Service) Hash(raw string) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the hash of raw and compares it to storedHash in
// constant time. It returns false, never an error, on empty input so
// callers can treat "no token" uniformly with "wrong token".
func (s *Service) Verify(raw, storedHash string) bool {
	if raw == "" || storedHash == "" {
		return false
	}
	computed := s.Hash(raw)
	return hmac.Equal([]byte(computed), []byte(storedHash))
}
