// Package auth issues and verifies the JWTs that carry an authenticated
// user's identity and role across the HTTP boundary, and hashes passwords
// for storage in User.PasswordHash.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/domain"
)

// Claims are the custom fields carried inside the signed token, alongside
// the standard registered claims (exp, iat).
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and parses tokens for one configured secret. Issue always
// signs with HS256; Parse accepts any HMAC-family algorithm. No other
// algorithm setting is read.
type Service struct {
	secretKey     []byte
	expireMinutes int
}

func NewService(secretKey string, expireMinutes int) *Service {
	if expireMinutes <= 0 {
		expireMinutes = 1440
	}
	return &Service{secretKey: []byte(secretKey), expireMinutes: expireMinutes}
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Issue signs a new token for u, valid for the configured expiry window.
func (s *Service) Issue(u *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: u.ID.String(),
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireMinutes) * time.Minute)),
			Subject:   u.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to sign token")
	}
	return signed, nil
}

// Parse validates a raw token and returns its claims. It rejects tokens
// signed with any algorithm family other than HMAC, guarding against an
// "alg:none" or asymmetric-algorithm substitution attack.
func (s *Service) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, apperrors.NewAuthError("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewAuthError("invalid token")
	}
	return claims, nil
}

// ParsedUserID parses the claims' user_id field as a domain.ID.
func (c *Claims) ParsedUserID() (domain.ID, error) {
	id, err := domain.ParseID(c.UserID)
	if err != nil {
		return domain.ID{}, errors.New("malformed user id in token")
	}
	return id, nil
}
